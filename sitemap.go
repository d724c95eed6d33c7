package wpfront

import (
	"encoding/xml"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/eringen/wpfront/views"
	"github.com/eringen/wpfront/wordpress"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// renderSitemap lists the static pages followed by every product and post the
// upstream returned for this request.
func (a *App) renderSitemap(c echo.Context, products []wordpress.Product, posts []wordpress.Post) error {
	base := a.Config.URL
	urls := []sitemapURL{
		{Loc: views.BuildURL(base)},
		{Loc: views.BuildURL(base, "blog")},
		{Loc: views.BuildURL(base, "about")},
		{Loc: views.BuildURL(base, "contact")},
	}
	for _, p := range products {
		urls = append(urls, sitemapURL{Loc: views.BuildURL(base, "product", strconv.Itoa(p.ID))})
	}
	for _, p := range posts {
		u := sitemapURL{Loc: views.BuildURL(base, "blog", p.Slug)}
		if t := p.ModifiedAt(); !t.IsZero() {
			u.LastMod = t.Format("2006-01-02")
		}
		urls = append(urls, u)
	}
	sitemap := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(sitemap)
}
