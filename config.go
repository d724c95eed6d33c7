package wpfront

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/text/currency"

	"github.com/eringen/wpfront/views"
)

// SiteConfig holds all configuration for a storefront. LoadConfig fills it
// from the environment; code that builds one by hand gets the same defaults
// through setDefaults, except FormRevertDelay where zero disables the revert.
type SiteConfig struct {
	Name        string `env:"SITE_NAME" envDefault:"Cosmic Soaps"`
	URL         string `env:"SITE_URL" envDefault:"http://localhost:3000"`
	Description string `env:"SITE_DESCRIPTION" envDefault:"Handmade soaps crafted with natural ingredients."`

	Addr     string `env:"ADDR" envDefault:":3000"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Upstream CMS and its static service-account credentials.
	WPBaseURL        string        `env:"WP_BASE_URL" envDefault:"https://training.thecosmicelectronics.com"`
	WCConsumerKey    string        `env:"WC_CONSUMER_KEY"`
	WCConsumerSecret string        `env:"WC_CONSUMER_SECRET"`
	WPUsername       string        `env:"WP_USERNAME"`
	WPAppPassword    string        `env:"WP_APP_PASSWORD"`
	UpstreamTimeout  time.Duration `env:"UPSTREAM_TIMEOUT" envDefault:"10s"`

	SessionSecret string `env:"SESSION_SECRET"` // required
	CookieSecure  bool   `env:"COOKIE_SECURE"`

	ContactDBPath   string        `env:"CONTACT_DB_PATH" envDefault:"data/contact.db"`
	FormRevertDelay time.Duration `env:"FORM_REVERT_DELAY" envDefault:"5s"`
	BlogPageSize    int           `env:"BLOG_PAGE_SIZE" envDefault:"12"`
	Currency        string        `env:"CURRENCY" envDefault:"USD"`

	// Submissions allowed per client IP: SubmitRate per second, bursting to SubmitBurst.
	SubmitRate  float64 `env:"SUBMIT_RATE" envDefault:"0.5"`
	SubmitBurst int     `env:"SUBMIT_BURST" envDefault:"5"`

	OTelEndpoint string `env:"OTEL_ENDPOINT"` // empty disables tracing
}

// LoadConfig reads optional dotenv files (default ".env") into the process
// environment, then parses SiteConfig from it. Missing files are ignored.
func LoadConfig(files ...string) (SiteConfig, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return SiteConfig{}, fmt.Errorf("wpfront: load %s: %w", f, err)
		}
	}
	var cfg SiteConfig
	if err := env.Parse(&cfg); err != nil {
		return SiteConfig{}, fmt.Errorf("wpfront: parse env: %w", err)
	}
	cfg.setDefaults()
	return cfg, nil
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Cosmic Soaps"
	}
	if c.Description == "" {
		c.Description = "Handmade soaps crafted with natural ingredients."
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.WPBaseURL == "" {
		c.WPBaseURL = "https://training.thecosmicelectronics.com"
	}
	if c.UpstreamTimeout == 0 {
		c.UpstreamTimeout = 10 * time.Second
	}
	if c.ContactDBPath == "" {
		c.ContactDBPath = "data/contact.db"
	}
	if c.BlogPageSize == 0 {
		c.BlogPageSize = 12
	}
	if c.Currency == "" {
		c.Currency = "USD"
	}
	if c.SubmitRate == 0 {
		c.SubmitRate = 0.5
	}
	if c.SubmitBurst == 0 {
		c.SubmitBurst = 5
	}
}

// Validate reports the first configuration problem that would stop the server.
func (c SiteConfig) Validate() error {
	if c.SessionSecret == "" {
		return errors.New("wpfront: SESSION_SECRET is required")
	}
	u, err := url.Parse(c.WPBaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("wpfront: WP_BASE_URL %q must be an absolute http(s) URL", c.WPBaseURL)
	}
	if _, err := currency.ParseISO(c.Currency); err != nil {
		return fmt.Errorf("wpfront: CURRENCY %q: %w", c.Currency, err)
	}
	if c.BlogPageSize < 1 || c.BlogPageSize > 100 {
		return fmt.Errorf("wpfront: BLOG_PAGE_SIZE must be between 1 and 100, got %d", c.BlogPageSize)
	}
	if c.FormRevertDelay < 0 {
		return errors.New("wpfront: FORM_REVERT_DELAY must not be negative")
	}
	return nil
}

// view is the subset of the config templates read.
func (c SiteConfig) view() views.SiteConfig {
	code := c.Currency
	if unit, err := currency.ParseISO(code); err == nil {
		code = unit.String()
	}
	return views.SiteConfig{
		Name:        c.Name,
		URL:         c.URL,
		Description: c.Description,
		Currency:    code,
		RevertDelay: c.FormRevertDelay,
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback runs after the built-in routes are registered.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory served under /public (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithLogger replaces the logger built from LogLevel.
func WithLogger(l *zap.Logger) Option {
	return func(a *App) {
		a.Logger = l
	}
}

// WithHTTPClient sets the client used for upstream requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(a *App) {
		a.httpClient = hc
	}
}

// WithInbox uses an already opened inbox instead of opening ContactDBPath.
// The caller keeps ownership and closes it.
func WithInbox(in *Inbox) Option {
	return func(a *App) {
		a.Inbox = in
	}
}
