package wpfront

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// createdLayout is fixed-width so created_at sorts correctly as text.
const createdLayout = "2006-01-02T15:04:05.000000000Z"

// ContactMessage is one contact-form submission.
type ContactMessage struct {
	ID        int64
	Name      string
	Email     string
	Subject   string
	Body      string
	RemoteIP  string
	CreatedAt time.Time
}

// Inbox stores contact-form submissions in SQLite. Nothing fetched from the
// upstream CMS is ever written here.
type Inbox struct {
	db *sql.DB
}

// OpenInbox opens (or creates) the SQLite database at path, ensures the data
// directory exists, and creates the schema.
func OpenInbox(path string) (*Inbox, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("inbox: create dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("inbox: open: %w", err)
	}
	// WAL lets the CLI read while the server writes; writers wait on
	// busy_timeout instead of failing with SQLITE_BUSY.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("inbox: pragmas: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	in := &Inbox{db: db}
	if err := in.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return in, nil
}

// Close closes the underlying database connection.
func (in *Inbox) Close() error {
	return in.db.Close()
}

func (in *Inbox) ensureSchema() error {
	_, err := in.db.Exec(`
CREATE TABLE IF NOT EXISTS contact_messages (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    email TEXT NOT NULL,
    subject TEXT NOT NULL,
    body TEXT NOT NULL,
    remote_ip TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS contact_messages_created_at ON contact_messages (created_at);
`)
	if err != nil {
		return fmt.Errorf("inbox: schema: %w", err)
	}
	return nil
}

// Save stores m and returns its id. A zero CreatedAt is set to now.
func (in *Inbox) Save(ctx context.Context, m ContactMessage) (int64, error) {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	res, err := in.db.ExecContext(ctx,
		`INSERT INTO contact_messages (name, email, subject, body, remote_ip, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		m.Name, m.Email, m.Subject, m.Body, m.RemoteIP, m.CreatedAt.UTC().Format(createdLayout))
	if err != nil {
		return 0, fmt.Errorf("inbox: save: %w", err)
	}
	return res.LastInsertId()
}

// Recent returns up to limit messages, newest first.
func (in *Inbox) Recent(ctx context.Context, limit int) ([]ContactMessage, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := in.db.QueryContext(ctx,
		`SELECT id, name, email, subject, body, remote_ip, created_at FROM contact_messages ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("inbox: list: %w", err)
	}
	defer rows.Close()

	var out []ContactMessage
	for rows.Next() {
		var m ContactMessage
		var created string
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Subject, &m.Body, &m.RemoteIP, &created); err != nil {
			return nil, fmt.Errorf("inbox: scan: %w", err)
		}
		m.CreatedAt, _ = time.Parse(createdLayout, created)
		out = append(out, m)
	}
	return out, rows.Err()
}

// Count returns the number of stored messages.
func (in *Inbox) Count(ctx context.Context) (int, error) {
	var n int
	if err := in.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM contact_messages`).Scan(&n); err != nil {
		return 0, fmt.Errorf("inbox: count: %w", err)
	}
	return n, nil
}
