package views

import (
	"html/template"
	"time"

	"github.com/eringen/wpfront/form"
	"github.com/eringen/wpfront/wordpress"
)

// SiteConfig holds the site-wide settings every page template reads.
type SiteConfig struct {
	Name        string        // SITE_NAME
	URL         string        // SITE_URL
	Description string        // SITE_DESCRIPTION
	Currency    string        // CURRENCY, ISO 4217
	RevertDelay time.Duration // FORM_REVERT_DELAY
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website", "article" or "product"
	Image       string
	JSONLD      template.JS
}

// ProductCard is the grid tile for one product.
type ProductCard struct {
	ID               int
	Name             string
	ImageURL         string
	ShortDescription template.HTML
	PriceHTML        template.HTML
	OnSale           bool
	InStock          bool
}

// ProductDetail is the product page model.
type ProductDetail struct {
	ProductCard
	Description template.HTML
	SKU         string
	Gallery     []wordpress.Image
	Categories  []string
	Tags        []string
}

// PostCard is the blog listing entry for one post.
type PostCard struct {
	Slug     string
	Title    string
	Excerpt  template.HTML
	ImageURL string
	Author   string
	Date     string
}

// PostDetail is the blog post page model.
type PostDetail struct {
	PostCard
	Content     template.HTML
	AvatarURL   string
	AuthorBio   string
	ReadingTime int
	Updated     string
	HasImage    bool
	Categories  []string
	Tags        []string
}

// Option is a value/label pair for a <select>.
type Option struct {
	Value string
	Label string
}

// FormView is what a form partial needs: the machine snapshot, the CSRF token
// and the endpoint the form posts back to.
type FormView struct {
	form.Snapshot
	CSRF    string
	Action  string
	Options []Option
}
