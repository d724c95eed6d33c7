package wpfront

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/eringen/wpfront/views"
	"github.com/eringen/wpfront/wordpress"
)

func (a *App) setupRoutes() {
	e := a.Echo

	e.Static("/public", a.staticDir)
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/placeholder.png", handlePlaceholder)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)

	e.GET("/", a.handleHome)
	e.GET("/product/:id/", a.handleProduct)
	e.GET("/blog/", a.handleBlog)
	e.GET("/blog/:slug/", a.handlePost)
	e.GET("/about/", a.handleAbout)

	e.GET("/contact/", a.handleContact)
	e.POST("/contact/", a.handleContactSubmit)
	e.GET("/post-product/", a.handlePostProduct)
	e.POST("/post-product/", a.handlePostProductSubmit)

	e.POST("/api/products", a.handleRelay)
}

// warnFailed logs a degraded fetch. Empty results are normal and not logged.
func (a *App) warnFailed(op string, outcome wordpress.Outcome, err error) {
	if outcome != wordpress.OutcomeFailed {
		return
	}
	a.Logger.Warn("upstream fetch failed", zap.String("op", op), zap.Error(err))
}

func (a *App) handleHome(c echo.Context) error {
	res := a.WP.ListProducts(c.Request().Context())
	a.warnFailed("list products", res.Outcome, res.Err)
	return Render(c, views.Home(a.Config.view(), res.Value))
}

func (a *App) handleProduct(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return RenderStatus(c, http.StatusNotFound, views.NotFound(a.Config.view(), views.ProductNotFound))
	}
	res := a.WP.GetProduct(c.Request().Context(), id)
	if !res.OK() {
		a.warnFailed("get product", res.Outcome, res.Err)
		return RenderStatus(c, http.StatusNotFound, views.NotFound(a.Config.view(), views.ProductNotFound))
	}
	return Render(c, views.Product(a.Config.view(), res.Value))
}

func (a *App) handleBlog(c echo.Context) error {
	res := a.WP.ListPosts(c.Request().Context(), a.Config.BlogPageSize)
	a.warnFailed("list posts", res.Outcome, res.Err)
	return Render(c, views.Blog(a.Config.view(), res.Value))
}

func (a *App) handlePost(c echo.Context) error {
	res := a.WP.GetPostBySlug(c.Request().Context(), c.Param("slug"))
	if !res.OK() {
		a.warnFailed("get post", res.Outcome, res.Err)
		return RenderStatus(c, http.StatusNotFound, views.NotFound(a.Config.view(), views.PostNotFound))
	}
	return Render(c, views.Post(a.Config.view(), res.Value))
}

func (a *App) handleAbout(c echo.Context) error {
	return Render(c, views.About(a.Config.view()))
}

func (a *App) handleSitemap(c echo.Context) error {
	ctx := c.Request().Context()
	products := a.WP.ListProducts(ctx)
	a.warnFailed("list products", products.Outcome, products.Err)
	posts := a.WP.ListPosts(ctx, a.Config.BlogPageSize)
	a.warnFailed("list posts", posts.Outcome, posts.Err)
	return a.renderSitemap(c, products.Value, posts.Value)
}

func (a *App) handleFeed(c echo.Context) error {
	res := a.WP.ListPosts(c.Request().Context(), a.Config.BlogPageSize)
	a.warnFailed("list posts", res.Outcome, res.Err)
	return a.renderRSS(c, res.Value)
}

func (a *App) handleRobots(c echo.Context) error {
	var b strings.Builder
	b.WriteString("User-agent: *\n")
	b.WriteString("Allow: /\n")
	b.WriteString("Disallow: /api/\n")
	b.WriteString("Disallow: /post-product/\n")
	fmt.Fprintf(&b, "\nSitemap: %s\n", strings.TrimSuffix(a.Config.URL, "/")+"/sitemap.xml")
	return c.String(http.StatusOK, b.String())
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, views.NotFound(a.Config.view(), views.PageNotFound))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		a.Logger.Error("server error",
			zap.Error(err),
			zap.String("uri", c.Request().RequestURI),
			zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
		)
		_ = RenderStatus(c, code, views.ServerError(a.Config.view()))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
