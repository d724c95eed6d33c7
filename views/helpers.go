package views

import (
	"encoding/json"
	"html/template"
	"math"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/net/html"

	"github.com/eringen/wpfront/wordpress"
)

const (
	// DateLayout renders dates as "March 4, 2025".
	DateLayout = "January 2, 2006"

	wordsPerMinute = 200
	defaultAuthor  = "Admin"
)

// BuildURL joins path segments onto a base URL, ensuring a trailing slash.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// PlaceholderURL points at the local generated placeholder image.
func PlaceholderURL(width, height int, query string) string {
	q := url.Values{}
	q.Set("width", strconv.Itoa(width))
	q.Set("height", strconv.Itoa(height))
	if query != "" {
		q.Set("query", query)
	}
	return "/placeholder.png?" + q.Encode()
}

// FeaturedImage returns the post's featured media URL, falling back to a placeholder.
func FeaturedImage(p wordpress.Post, width, height int, query string) string {
	if m, ok := p.FeaturedMedia(); ok {
		return m.SourceURL
	}
	return PlaceholderURL(width, height, query)
}

// ProductImage returns the first product image, falling back to a placeholder.
func ProductImage(p wordpress.Product, size int) string {
	if len(p.Images) > 0 && p.Images[0].Src != "" {
		return p.Images[0].Src
	}
	return PlaceholderURL(size, size, "soap")
}

// Gallery returns up to four secondary product images.
func Gallery(p wordpress.Product) []wordpress.Image {
	if len(p.Images) < 2 {
		return nil
	}
	end := min(len(p.Images), 5)
	return p.Images[1:end]
}

// AuthorName returns the embedded author's name or "Admin".
func AuthorName(p wordpress.Post) string {
	if a, ok := p.Author(); ok {
		return a.Name
	}
	return defaultAuthor
}

// AvatarURL returns the 96px avatar of the embedded author, if any.
func AvatarURL(p wordpress.Post) string {
	if a, ok := p.Author(); ok {
		return a.AvatarURLs["96"]
	}
	return ""
}

// FormatDate renders t with DateLayout; the zero time renders as "".
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// UpdatedAgo describes a modification time relative to now, or "" when the
// post was never edited after publishing.
func UpdatedAgo(published, modified time.Time) string {
	if modified.IsZero() || !modified.After(published) {
		return ""
	}
	return humanize.Time(modified)
}

// PlainText extracts the visible text from an HTML fragment, collapsing whitespace.
func PlainText(fragment string) string {
	z := html.NewTokenizer(strings.NewReader(fragment))
	var b strings.Builder
	skip := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.Join(strings.Fields(b.String()), " ")
		case html.StartTagToken:
			if name, _ := z.TagName(); isHiddenTag(string(name)) {
				skip++
			}
			b.WriteByte(' ')
		case html.EndTagToken:
			if name, _ := z.TagName(); isHiddenTag(string(name)) && skip > 0 {
				skip--
			}
			b.WriteByte(' ')
		case html.TextToken:
			if skip == 0 {
				b.Write(z.Text())
			}
		}
	}
}

func isHiddenTag(name string) bool {
	return name == "script" || name == "style"
}

// ReadingTime estimates minutes to read an HTML body at 200 words per minute.
// Anything with content reads in at least one minute.
func ReadingTime(body string) int {
	words := len(strings.Fields(PlainText(body)))
	return max(1, int(math.Ceil(float64(words)/wordsPerMinute)))
}

// Summarize returns the plain text of fragment cut to at most n runes on a word boundary.
func Summarize(fragment string, n int) string {
	text := PlainText(fragment)
	r := []rune(text)
	if len(r) <= n {
		return text
	}
	cut := string(r[:n])
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return cut + "…"
}

// ProductCardFrom maps a product onto its grid tile.
func ProductCardFrom(p wordpress.Product) ProductCard {
	return ProductCard{
		ID:               p.ID,
		Name:             PlainText(p.Name),
		ImageURL:         ProductImage(p, 400),
		ShortDescription: template.HTML(p.ShortDescription),
		PriceHTML:        template.HTML(p.PriceHTML),
		OnSale:           p.OnSale,
		InStock:          p.InStock(),
	}
}

// ProductDetailFrom maps a product onto the detail page model.
func ProductDetailFrom(p wordpress.Product) ProductDetail {
	card := ProductCardFrom(p)
	card.ImageURL = ProductImage(p, 600)
	d := ProductDetail{
		ProductCard: card,
		Description: template.HTML(p.Description),
		SKU:         p.SKU,
		Gallery:     Gallery(p),
	}
	for _, c := range p.Categories {
		d.Categories = append(d.Categories, c.Name)
	}
	for _, t := range p.Tags {
		d.Tags = append(d.Tags, t.Name)
	}
	return d
}

// PostCardFrom maps a post onto its listing card.
func PostCardFrom(p wordpress.Post) PostCard {
	return PostCard{
		Slug:     p.Slug,
		Title:    PlainText(p.Title.Rendered),
		Excerpt:  template.HTML(p.Excerpt.Rendered),
		ImageURL: FeaturedImage(p, 600, 400, "blog post"),
		Author:   AuthorName(p),
		Date:     FormatDate(p.PublishedAt()),
	}
}

// PostDetailFrom maps a post onto the article page model.
func PostDetailFrom(p wordpress.Post) PostDetail {
	d := PostDetail{
		PostCard:    PostCardFrom(p),
		Content:     template.HTML(p.Content.Rendered),
		AvatarURL:   AvatarURL(p),
		ReadingTime: ReadingTime(p.Content.Rendered),
		Updated:     UpdatedAgo(p.PublishedAt(), p.ModifiedAt()),
	}
	_, d.HasImage = p.FeaturedMedia()
	if a, ok := p.Author(); ok {
		d.AuthorBio = a.Description
	}
	for _, t := range p.Categories() {
		d.Categories = append(d.Categories, t.Name)
	}
	for _, t := range p.Tags() {
		d.Tags = append(d.Tags, t.Name)
	}
	return d
}

func marshalJSONLD(data map[string]any) template.JS {
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return template.JS(b)
}

// WebsiteJSONLD produces a Schema.org WebSite block for the home page.
func WebsiteJSONLD(cfg SiteConfig) template.JS {
	data := map[string]any{
		"@context": "https://schema.org",
		"@type":    "WebSite",
		"name":     cfg.Name,
		"url":      BuildURL(cfg.URL),
	}
	if cfg.Description != "" {
		data["description"] = cfg.Description
	}
	return marshalJSONLD(data)
}

// ProductJSONLD produces a Schema.org Product block with a single Offer.
func ProductJSONLD(cfg SiteConfig, p wordpress.Product) template.JS {
	productURL := BuildURL(cfg.URL, "product", strconv.Itoa(p.ID))
	availability := "https://schema.org/OutOfStock"
	if p.InStock() {
		availability = "https://schema.org/InStock"
	}
	offer := map[string]any{
		"@type":         "Offer",
		"url":           productURL,
		"priceCurrency": cfg.Currency,
		"availability":  availability,
	}
	if p.Price != "" {
		offer["price"] = p.Price
	}
	data := map[string]any{
		"@context":    "https://schema.org",
		"@type":       "Product",
		"name":        PlainText(p.Name),
		"description": Summarize(p.ShortDescription, 300),
		"url":         productURL,
		"offers":      offer,
	}
	if p.SKU != "" {
		data["sku"] = p.SKU
	}
	if len(p.Images) > 0 {
		data["image"] = p.Images[0].Src
	}
	return marshalJSONLD(data)
}

// BlogPostingJSONLD produces a Schema.org BlogPosting block for a post.
func BlogPostingJSONLD(cfg SiteConfig, p wordpress.Post) template.JS {
	postURL := BuildURL(cfg.URL, "blog", p.Slug)
	data := map[string]any{
		"@context":    "https://schema.org",
		"@type":       "BlogPosting",
		"headline":    PlainText(p.Title.Rendered),
		"description": Summarize(p.Excerpt.Rendered, 300),
		"url":         postURL,
		"author": map[string]string{
			"@type": "Person",
			"name":  AuthorName(p),
		},
		"publisher": map[string]string{
			"@type": "Organization",
			"name":  cfg.Name,
		},
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   postURL,
		},
	}
	if t := p.PublishedAt(); !t.IsZero() {
		data["datePublished"] = t.Format(time.RFC3339)
	}
	if t := p.ModifiedAt(); !t.IsZero() {
		data["dateModified"] = t.Format(time.RFC3339)
	}
	if m, ok := p.FeaturedMedia(); ok {
		data["image"] = m.SourceURL
	}
	if tags := p.Tags(); len(tags) > 0 {
		names := make([]string, len(tags))
		for i, t := range tags {
			names[i] = t.Name
		}
		data["keywords"] = strings.Join(names, ", ")
	}
	return marshalJSONLD(data)
}
