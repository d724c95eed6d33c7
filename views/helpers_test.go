package views

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/a-h/templ"

	"github.com/eringen/wpfront/form"
	"github.com/eringen/wpfront/wordpress"
)

var testSite = SiteConfig{
	Name:        "Cosmic Soaps",
	URL:         "https://shop.example.com",
	Description: "Handmade soap",
	Currency:    "USD",
	RevertDelay: 5 * time.Second,
}

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	if err := c.Render(context.Background(), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	return buf.String()
}

func words(n int) string {
	return strings.TrimSpace(strings.Repeat("lather ", n))
}

func TestReadingTime(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"four hundred words", "<p>" + words(400) + "</p>", 2},
		{"rounds up", "<p>" + words(201) + "</p>", 2},
		{"exactly one minute", words(200), 1},
		{"empty body", "", 1},
		{"markup is not counted", "<div class=\"a b c d e\"><img src=x>" + words(10) + "</div>", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ReadingTime(tt.body); got != tt.want {
				t.Fatalf("ReadingTime = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPlainText(t *testing.T) {
	tests := map[string]string{
		"<p>Shea &amp; Cocoa</p>":                   "Shea & Cocoa",
		"<p>one</p><p>two</p>":                       "one two",
		"<style>p{}</style>text<script>x()</script>": "text",
		"plain":                                      "plain",
	}
	for in, want := range tests {
		if got := PlainText(in); got != want {
			t.Errorf("PlainText(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSummarize(t *testing.T) {
	got := Summarize("<p>gentle daily cleansing bar</p>", 14)
	if got != "gentle daily…" {
		t.Fatalf("Summarize = %q", got)
	}
	if got := Summarize("<p>short</p>", 100); got != "short" {
		t.Fatalf("Summarize = %q", got)
	}
}

func TestFeaturedImageFallback(t *testing.T) {
	var p wordpress.Post
	got := FeaturedImage(p, 600, 400, "blog post")
	if !strings.HasPrefix(got, "/placeholder.png?") || !strings.Contains(got, "width=600") {
		t.Fatalf("fallback = %q", got)
	}

	p.Embedded = &wordpress.Embedded{FeaturedMedia: []wordpress.Media{{SourceURL: "https://m/1.jpg"}}}
	if got := FeaturedImage(p, 600, 400, ""); got != "https://m/1.jpg" {
		t.Fatalf("featured = %q", got)
	}
}

func TestAuthorFallback(t *testing.T) {
	var p wordpress.Post
	if got := AuthorName(p); got != "Admin" {
		t.Fatalf("AuthorName = %q, want Admin", got)
	}
	if got := AvatarURL(p); got != "" {
		t.Fatalf("AvatarURL = %q", got)
	}
	p.Embedded = &wordpress.Embedded{Author: []wordpress.Author{{Name: "Ada", AvatarURLs: map[string]string{"96": "https://a/96.png"}}}}
	if AuthorName(p) != "Ada" || AvatarURL(p) != "https://a/96.png" {
		t.Fatalf("author = %q %q", AuthorName(p), AvatarURL(p))
	}
}

func TestProductImageAndGallery(t *testing.T) {
	p := wordpress.Product{}
	if got := ProductImage(p, 400); !strings.HasPrefix(got, "/placeholder.png?") {
		t.Fatalf("ProductImage fallback = %q", got)
	}
	for i := 0; i < 7; i++ {
		p.Images = append(p.Images, wordpress.Image{Src: "https://cdn/" + string(rune('a'+i)) + ".jpg"})
	}
	if got := ProductImage(p, 400); got != "https://cdn/a.jpg" {
		t.Fatalf("ProductImage = %q", got)
	}
	g := Gallery(p)
	if len(g) != 4 || g[0].Src != "https://cdn/b.jpg" || g[3].Src != "https://cdn/e.jpg" {
		t.Fatalf("Gallery = %+v", g)
	}
	if Gallery(wordpress.Product{Images: p.Images[:1]}) != nil {
		t.Fatalf("single image should have no gallery")
	}
}

func TestFormatDate(t *testing.T) {
	if got := FormatDate(time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC)); got != "March 4, 2025" {
		t.Fatalf("FormatDate = %q", got)
	}
	if got := FormatDate(time.Time{}); got != "" {
		t.Fatalf("zero time = %q", got)
	}
}

func TestUpdatedAgo(t *testing.T) {
	pub := time.Now().Add(-72 * time.Hour)
	if got := UpdatedAgo(pub, pub); got != "" {
		t.Fatalf("unmodified = %q", got)
	}
	if got := UpdatedAgo(pub, time.Now().Add(-48*time.Hour)); got != "2 days ago" {
		t.Fatalf("UpdatedAgo = %q", got)
	}
}

func TestInterval(t *testing.T) {
	tests := map[time.Duration]string{
		0:                       "",
		5 * time.Second:         "5s",
		1500 * time.Millisecond: "1500ms",
	}
	for d, want := range tests {
		if got := interval(d); got != want {
			t.Errorf("interval(%v) = %q, want %q", d, got, want)
		}
	}
}

func TestProductJSONLD(t *testing.T) {
	p := wordpress.Product{ID: 7, Name: "Lavender &amp; Oat", Price: "5.00", StockStatus: "instock", SKU: "LAV-1"}
	var data map[string]any
	if err := json.Unmarshal([]byte(ProductJSONLD(testSite, p)), &data); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if data["name"] != "Lavender & Oat" {
		t.Errorf("name = %v", data["name"])
	}
	offer := data["offers"].(map[string]any)
	if offer["priceCurrency"] != "USD" || offer["availability"] != "https://schema.org/InStock" {
		t.Errorf("offer = %v", offer)
	}
	if data["url"] != "https://shop.example.com/product/7/" {
		t.Errorf("url = %v", data["url"])
	}
}

func TestHomeRendersEmptyState(t *testing.T) {
	out := render(t, Home(testSite, nil))
	if !strings.Contains(out, "No products are available") {
		t.Fatalf("missing empty state")
	}
	if strings.Contains(out, "View Details") {
		t.Fatalf("no cards expected")
	}
}

func TestHomeRendersCards(t *testing.T) {
	out := render(t, Home(testSite, []wordpress.Product{
		{ID: 3, Name: "Oat Bar", PriceHTML: "<span class=\"amount\">$4</span>", OnSale: true},
	}))
	for _, want := range []string{`href="/product/3/"`, `<span class="amount">$4</span>`, "Sale", "Oat Bar"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestBlogFeaturesFirstPost(t *testing.T) {
	posts := []wordpress.Post{
		{Slug: "first", Title: wordpress.Rendered{Rendered: "First"}},
		{Slug: "second", Title: wordpress.Rendered{Rendered: "Second"}},
	}
	out := render(t, Blog(testSite, posts))
	if !strings.Contains(out, "Featured") || !strings.Contains(out, `href="/blog/first/"`) {
		t.Fatalf("featured post missing")
	}
	if strings.Count(out, "Read More") != 1 {
		t.Fatalf("expected one grid card, got %d", strings.Count(out, "Read More"))
	}
}

func TestPostRendersReadingTimeAndAuthor(t *testing.T) {
	p := wordpress.Post{
		Slug:    "hello",
		Date:    "2025-03-04T10:00:00",
		Title:   wordpress.Rendered{Rendered: "Hello"},
		Content: wordpress.Rendered{Rendered: "<p>" + words(400) + "</p>"},
	}
	out := render(t, Post(testSite, p))
	for _, want := range []string{"2 min read", "Admin", "March 4, 2025", "application/ld+json"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestNotFoundMessage(t *testing.T) {
	out := render(t, NotFound(testSite, PostNotFound))
	if !strings.Contains(out, "Post not found") {
		t.Fatalf("missing message")
	}
}

func TestContactFormPartial(t *testing.T) {
	f := FormView{
		Snapshot: form.Snapshot{
			Status:      form.Error,
			Message:     "Something went wrong. Please try again.",
			Values:      map[string][]string{"name": {"Ada"}, "subject": {"wholesale"}},
			FieldErrors: map[string]string{"email": "Enter a valid email address."},
			RevertAfter: 5 * time.Second,
		},
		CSRF: "tok",
	}
	out := render(t, ContactForm(f))
	for _, want := range []string{
		`value="Ada"`,
		`<option value="wholesale" selected>`,
		"Enter a valid email address.",
		"alert-error",
		`hx-trigger="load delay:5s"`,
		`name="_csrf" value="tok"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if strings.Contains(out, "<html") {
		t.Errorf("partial should not include the layout")
	}
}

func TestIdleFormHasNoRevert(t *testing.T) {
	out := render(t, ProductForm(FormView{Options: []Option{{Value: "16", Label: "Bar Soaps"}}}))
	if strings.Contains(out, "hx-trigger") || strings.Contains(out, "alert") {
		t.Fatalf("idle form should not carry an alert or revert trigger")
	}
	if !strings.Contains(out, "Bar Soaps") {
		t.Fatalf("category option missing")
	}
}
