// Package wpfront is a server-rendered storefront and blog in front of a
// WordPress/WooCommerce installation, built with Go, Echo, and templ.
//
// Every page fetches its content from the upstream REST API on each request
// and renders it; nothing fetched is cached or stored. Two forms post back to
// the server: the contact form, whose messages land in a local SQLite inbox,
// and the product form, which is relayed upstream with service credentials.
package wpfront

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/eringen/wpfront/wordpress"
)

// App is the central wpfront application. It wires together the upstream
// client, the contact inbox, handlers, and middleware.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo
	WP     *wordpress.Client
	Inbox  *Inbox
	Logger *zap.Logger

	limiter      *SubmitLimiter
	httpClient   *http.Client
	customRoutes []func(*App)
	staticDir    string
	ownsInbox    bool
	initialized  bool
}

// New creates a new App with the given configuration.
func New(cfg SiteConfig, opts ...Option) *App {
	cfg.setDefaults()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	a := &App{
		Config:    cfg,
		Echo:      e,
		staticDir: "public",
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Init validates the configuration and builds everything Start needs: the
// logger, the upstream client, the inbox, middleware, and routes. Start calls
// it when needed; tests call it directly and drive a.Echo with httptest.
func (a *App) Init() error {
	if a.initialized {
		return nil
	}
	if err := a.Config.Validate(); err != nil {
		return err
	}

	if a.Logger == nil {
		logger, err := NewLogger(a.Config.LogLevel)
		if err != nil {
			return fmt.Errorf("wpfront: init logger: %w", err)
		}
		a.Logger = logger
	}

	wp, err := wordpress.NewClient(wordpress.Config{
		BaseURL:        a.Config.WPBaseURL,
		ConsumerKey:    a.Config.WCConsumerKey,
		ConsumerSecret: a.Config.WCConsumerSecret,
		Username:       a.Config.WPUsername,
		AppPassword:    a.Config.WPAppPassword,
		HTTPClient:     a.httpClient,
		Timeout:        a.Config.UpstreamTimeout,
	})
	if err != nil {
		return fmt.Errorf("wpfront: init upstream client: %w", err)
	}
	a.WP = wp

	if a.Inbox == nil {
		inbox, err := OpenInbox(a.Config.ContactDBPath)
		if err != nil {
			return fmt.Errorf("wpfront: init inbox: %w", err)
		}
		a.Inbox = inbox
		a.ownsInbox = true
	}

	a.limiter = NewSubmitLimiter(a.Config.SubmitRate, a.Config.SubmitBurst, 10*time.Minute)

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}

	a.initialized = true
	return nil
}

// Start initializes the app if needed and serves until Shutdown is called.
func (a *App) Start() error {
	if err := a.Init(); err != nil {
		return err
	}
	a.Logger.Info("server starting",
		zap.String("addr", a.Config.Addr),
		zap.String("upstream", a.Config.WPBaseURL),
	)
	if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (a *App) Shutdown(ctx context.Context) error {
	return a.Echo.Shutdown(ctx)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.limiter != nil {
		a.limiter.Stop()
	}
	var err error
	if a.Inbox != nil && a.ownsInbox {
		err = a.Inbox.Close()
	}
	if a.Logger != nil {
		_ = a.Logger.Sync()
	}
	return err
}
