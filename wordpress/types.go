package wordpress

import (
	"strings"
	"time"
)

// Product mirrors the subset of a WooCommerce v3 product the storefront renders.
// Prices are strings on the wire; price_html is pre-formatted markup.
type Product struct {
	ID               int     `json:"id"`
	Name             string  `json:"name"`
	Slug             string  `json:"slug"`
	Permalink        string  `json:"permalink"`
	SKU              string  `json:"sku"`
	Price            string  `json:"price"`
	RegularPrice     string  `json:"regular_price"`
	SalePrice        string  `json:"sale_price"`
	PriceHTML        string  `json:"price_html"`
	OnSale           bool    `json:"on_sale"`
	StockStatus      string  `json:"stock_status"`
	StockQuantity    *int    `json:"stock_quantity"`
	Description      string  `json:"description"`
	ShortDescription string  `json:"short_description"`
	Images           []Image `json:"images"`
	Categories       []Term  `json:"categories"`
	Tags             []Term  `json:"tags"`
}

// InStock reports whether WooCommerce lists the product as available.
func (p Product) InStock() bool { return p.StockStatus == "instock" }

// Image is a product gallery entry.
type Image struct {
	ID   int    `json:"id"`
	Src  string `json:"src"`
	Alt  string `json:"alt"`
	Name string `json:"name"`
}

// Term is a category or tag reference, shared by products and embedded post terms.
type Term struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	Taxonomy string `json:"taxonomy,omitempty"`
}

// Category is a WooCommerce product category.
type Category struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Count int    `json:"count"`
}

// Rendered wraps WordPress fields delivered as {"rendered": "..."}.
type Rendered struct {
	Rendered string `json:"rendered"`
}

// Post is a WordPress v2 post requested with _embed.
type Post struct {
	ID       int       `json:"id"`
	Slug     string    `json:"slug"`
	Link     string    `json:"link"`
	Date     string    `json:"date"`
	Modified string    `json:"modified"`
	Title    Rendered  `json:"title"`
	Content  Rendered  `json:"content"`
	Excerpt  Rendered  `json:"excerpt"`
	Embedded *Embedded `json:"_embedded,omitempty"`
}

// Embedded holds the sub-objects included by the _embed query parameter.
type Embedded struct {
	Author        []Author `json:"author"`
	FeaturedMedia []Media  `json:"wp:featuredmedia"`
	Terms         [][]Term `json:"wp:term"`
}

// Author is an embedded post author.
type Author struct {
	ID          int               `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	AvatarURLs  map[string]string `json:"avatar_urls"`
}

// Media is an embedded featured media item.
type Media struct {
	ID        int    `json:"id"`
	SourceURL string `json:"source_url"`
	AltText   string `json:"alt_text"`
}

// postTimeLayout is the site-local timestamp format WordPress uses for date/modified.
const postTimeLayout = "2006-01-02T15:04:05"

// PublishedAt parses Date. The zero time is returned for unparsable values.
func (p Post) PublishedAt() time.Time { return parsePostTime(p.Date) }

// ModifiedAt parses Modified. The zero time is returned for unparsable values.
func (p Post) ModifiedAt() time.Time { return parsePostTime(p.Modified) }

func parsePostTime(s string) time.Time {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(postTimeLayout, s); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	return time.Time{}
}

// FeaturedMedia returns the first embedded featured media entry with a source URL.
func (p Post) FeaturedMedia() (Media, bool) {
	if p.Embedded == nil || len(p.Embedded.FeaturedMedia) == 0 {
		return Media{}, false
	}
	m := p.Embedded.FeaturedMedia[0]
	return m, m.SourceURL != ""
}

// Author returns the first embedded author with a name.
func (p Post) Author() (Author, bool) {
	if p.Embedded == nil || len(p.Embedded.Author) == 0 {
		return Author{}, false
	}
	a := p.Embedded.Author[0]
	return a, a.Name != ""
}

// Categories returns the first embedded term group.
func (p Post) Categories() []Term { return p.termGroup(0) }

// Tags returns the second embedded term group.
func (p Post) Tags() []Term { return p.termGroup(1) }

func (p Post) termGroup(i int) []Term {
	if p.Embedded == nil || len(p.Embedded.Terms) <= i {
		return nil
	}
	return p.Embedded.Terms[i]
}

// PostRequest is the body accepted by POST /wp/v2/posts.
type PostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Status  string `json:"status"`
}

// ProductCreationRequest is the product payload assembled by the storefront form,
// shaped the way WooCommerce expects a new simple product.
type ProductCreationRequest struct {
	Name             string     `json:"name"`
	Type             string     `json:"type"`
	RegularPrice     string     `json:"regular_price"`
	Description      string     `json:"description"`
	ShortDescription string     `json:"short_description"`
	Categories       []TermRef  `json:"categories"`
	Images           []ImageRef `json:"images"`
	StockStatus      string     `json:"stock_status"`
	ManageStock      bool       `json:"manage_stock"`
	StockQuantity    int        `json:"stock_quantity"`
}

// TermRef references an existing term by id.
type TermRef struct {
	ID int `json:"id"`
}

// ImageRef references an image by URL.
type ImageRef struct {
	Src string `json:"src"`
}
