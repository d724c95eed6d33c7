package views

import (
	"strconv"

	"github.com/a-h/templ"

	"github.com/eringen/wpfront/form"
	"github.com/eringen/wpfront/wordpress"
)

// NotFound messages used by the detail pages.
const (
	ProductNotFound = "Product not found"
	PostNotFound    = "Post not found"
	PageNotFound    = "Page not found"
)

type homeBody struct {
	Products []ProductCard
}

// Home renders the storefront grid. An empty products slice renders the
// "no products" notice instead of cards.
func Home(cfg SiteConfig, products []wordpress.Product) templ.Component {
	body := homeBody{Products: make([]ProductCard, 0, len(products))}
	for _, p := range products {
		body.Products = append(body.Products, ProductCardFrom(p))
	}
	return renderPage("home", page{
		Site: cfg,
		Path: "/",
		Meta: PageMeta{
			Description: cfg.Description,
			URL:         BuildURL(cfg.URL),
			OGType:      "website",
			JSONLD:      WebsiteJSONLD(cfg),
		},
		Body: body,
	})
}

func Product(cfg SiteConfig, p wordpress.Product) templ.Component {
	d := ProductDetailFrom(p)
	return renderPage("product", page{
		Site: cfg,
		Meta: PageMeta{
			Title:       d.Name,
			Description: Summarize(p.ShortDescription, 160),
			URL:         BuildURL(cfg.URL, "product", strconv.Itoa(p.ID)),
			OGType:      "product",
			Image:       d.ImageURL,
			JSONLD:      ProductJSONLD(cfg, p),
		},
		Body: d,
	})
}

type blogBody struct {
	Featured *PostCard
	Posts    []PostCard
}

// Blog renders the post listing: the newest post is featured, the rest fill the grid.
func Blog(cfg SiteConfig, posts []wordpress.Post) templ.Component {
	var body blogBody
	for i, p := range posts {
		card := PostCardFrom(p)
		if i == 0 {
			card.ImageURL = FeaturedImage(p, 800, 600, "featured blog post")
			body.Featured = &card
			continue
		}
		body.Posts = append(body.Posts, card)
	}
	return renderPage("blog", page{
		Site: cfg,
		Path: "/blog/",
		Meta: PageMeta{
			Title:  "Blog",
			URL:    BuildURL(cfg.URL, "blog"),
			OGType: "website",
		},
		Body: body,
	})
}

func Post(cfg SiteConfig, p wordpress.Post) templ.Component {
	d := PostDetailFrom(p)
	d.ImageURL = FeaturedImage(p, 1200, 514, "blog post")
	meta := PageMeta{
		Title:       d.Title,
		Description: Summarize(p.Excerpt.Rendered, 160),
		URL:         BuildURL(cfg.URL, "blog", p.Slug),
		OGType:      "article",
		JSONLD:      BlogPostingJSONLD(cfg, p),
	}
	if d.HasImage {
		meta.Image = d.ImageURL
	}
	return renderPage("post", page{Site: cfg, Path: "/blog/", Meta: meta, Body: d})
}

func About(cfg SiteConfig) templ.Component {
	return renderPage("about", page{
		Site: cfg,
		Path: "/about/",
		Meta: PageMeta{Title: "About", URL: BuildURL(cfg.URL, "about")},
	})
}

// ContactSubjects are the subjects offered by the contact form.
var ContactSubjects = []Option{
	{Value: "general", Label: "General Inquiry"},
	{Value: "product", Label: "Product Question"},
	{Value: "custom", Label: "Custom Order"},
	{Value: "wholesale", Label: "Wholesale Inquiry"},
	{Value: "feedback", Label: "Feedback"},
}

// Contact renders the full contact page around the form partial.
func Contact(cfg SiteConfig, f FormView) templ.Component {
	return renderPage("contact", page{
		Site: cfg,
		Path: "/contact/",
		Meta: PageMeta{Title: "Contact", URL: BuildURL(cfg.URL, "contact")},
		Body: contactView(f),
	})
}

// ContactForm renders only the form, for htmx swaps.
func ContactForm(f FormView) templ.Component {
	return renderPartial("contact_form", contactView(f))
}

func contactView(f FormView) FormView {
	f.Action = "/contact/"
	f.Options = ContactSubjects
	return f
}

// PostProduct renders the product submission page. Options carries the
// category choices.
func PostProduct(cfg SiteConfig, f FormView) templ.Component {
	f.Action = "/post-product/"
	return renderPage("post_product", page{
		Site: cfg,
		Path: "/post-product/",
		Meta: PageMeta{Title: "Add Product", URL: BuildURL(cfg.URL, "post-product")},
		Body: f,
	})
}

// ProductForm renders only the product form, for htmx swaps.
func ProductForm(f FormView) templ.Component {
	f.Action = "/post-product/"
	return renderPartial("product_form", f)
}

func NotFound(cfg SiteConfig, message string) templ.Component {
	if message == "" {
		message = PageNotFound
	}
	return renderPage("not_found", page{Site: cfg, Meta: PageMeta{Title: message}, Body: message})
}

func ServerError(cfg SiteConfig) templ.Component {
	return renderPage("server_error", page{Site: cfg, Meta: PageMeta{Title: "Error"}})
}

// Succeeded reports whether the form shows the success alert.
func (f FormView) Succeeded() bool { return f.Status == form.Success }
