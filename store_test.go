package wpfront

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func setupTestInbox(t *testing.T) *Inbox {
	t.Helper()
	in, err := OpenInbox(filepath.Join(t.TempDir(), "data", "contact.db"))
	if err != nil {
		t.Fatalf("failed to open inbox: %v", err)
	}
	t.Cleanup(func() { in.Close() })
	return in
}

func TestOpenInbox(t *testing.T) {
	in := setupTestInbox(t)
	if in.db == nil {
		t.Fatal("db should not be nil")
	}
	n, err := in.Count(context.Background())
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 0 {
		t.Errorf("Count = %d, want 0", n)
	}
}

func TestSaveAndRecent(t *testing.T) {
	in := setupTestInbox(t)
	ctx := context.Background()

	msg := ContactMessage{
		Name:      "Ada",
		Email:     "ada@example.com",
		Subject:   "wholesale",
		Body:      "Do you ship to Lisbon?",
		RemoteIP:  "203.0.113.5",
		CreatedAt: time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC),
	}
	id, err := in.Save(ctx, msg)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if id == 0 {
		t.Fatal("id should be set")
	}

	got, err := in.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Recent count = %d, want 1", len(got))
	}
	if got[0].Name != msg.Name || got[0].Email != msg.Email || got[0].Subject != msg.Subject || got[0].Body != msg.Body {
		t.Errorf("Recent[0] = %+v, want %+v", got[0], msg)
	}
	if got[0].RemoteIP != "203.0.113.5" {
		t.Errorf("RemoteIP = %q", got[0].RemoteIP)
	}
	if !got[0].CreatedAt.Equal(msg.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got[0].CreatedAt, msg.CreatedAt)
	}
}

func TestRecentNewestFirstAndLimit(t *testing.T) {
	in := setupTestInbox(t)
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, name := range []string{"first", "second", "third"} {
		_, err := in.Save(ctx, ContactMessage{
			Name: name, Email: name + "@example.com", Subject: "general", Body: "hi",
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
		if err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	got, err := in.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Recent count = %d, want 2", len(got))
	}
	if got[0].Name != "third" || got[1].Name != "second" {
		t.Errorf("order = %s, %s; want third, second", got[0].Name, got[1].Name)
	}
}

func TestSaveDefaultsCreatedAt(t *testing.T) {
	in := setupTestInbox(t)
	ctx := context.Background()
	before := time.Now().Add(-time.Second)

	if _, err := in.Save(ctx, ContactMessage{Name: "n", Email: "e@x.io", Subject: "general", Body: "b"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	got, err := in.Recent(ctx, 1)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if got[0].CreatedAt.Before(before) {
		t.Errorf("CreatedAt = %v, want recent", got[0].CreatedAt)
	}
}
