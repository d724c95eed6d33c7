package views

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"
	"time"

	"github.com/a-h/templ"
)

//go:embed templates
var templateFS embed.FS

var funcs = template.FuncMap{
	"year":        func() int { return time.Now().Year() },
	"placeholder": func() string { return PlaceholderURL(600, 600, "handmade soap") },
	"interval":    interval,
	"navLinks":    func() []Option { return navLinks },
	"stockStatuses": func() []Option {
		return StockStatuses
	},
}

var navLinks = []Option{
	{Value: "/", Label: "Home"},
	{Value: "/blog/", Label: "Blog"},
	{Value: "/post-product/", Label: "Post"},
	{Value: "/about/", Label: "About"},
	{Value: "/contact/", Label: "Contact"},
}

// StockStatuses are the WooCommerce stock states offered by the product form.
var StockStatuses = []Option{
	{Value: "instock", Label: "In Stock"},
	{Value: "outofstock", Label: "Out of Stock"},
	{Value: "onbackorder", Label: "On Backorder"},
}

var (
	partials = template.Must(template.New("views").Funcs(funcs).ParseFS(templateFS, "templates/*.html"))
	pages    = mustParsePages()
)

// mustParsePages gives every page its own clone of the shared templates so
// each can define "content" independently.
func mustParsePages() map[string]*template.Template {
	files, err := fs.Glob(templateFS, "templates/pages/*.html")
	if err != nil {
		panic(err)
	}
	out := make(map[string]*template.Template, len(files))
	for _, f := range files {
		t := template.Must(partials.Clone())
		template.Must(t.ParseFS(templateFS, f))
		out[strings.TrimSuffix(path.Base(f), ".html")] = t
	}
	return out
}

// interval formats d for an htmx delay modifier; zero disables the revert.
func interval(d time.Duration) string {
	if d <= 0 {
		return ""
	}
	if d%time.Second == 0 {
		return fmt.Sprintf("%ds", int(d/time.Second))
	}
	return fmt.Sprintf("%dms", d.Milliseconds())
}

type page struct {
	Site SiteConfig
	Meta PageMeta
	Path string
	Body any
}

func renderPage(name string, p page) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		t, ok := pages[name]
		if !ok {
			return fmt.Errorf("views: unknown page %q", name)
		}
		return t.ExecuteTemplate(w, "layout", p)
	})
}

func renderPartial(name string, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return partials.ExecuteTemplate(w, name, data)
	})
}
