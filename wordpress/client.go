// Package wordpress is a small client for the WooCommerce v3 and WordPress v2
// REST APIs. Every call is a single uncached request: no retries, no backoff.
package wordpress

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	productsPath   = "/wp-json/wc/v3/products"
	categoriesPath = "/wp-json/wc/v3/products/categories"
	postsPath      = "/wp-json/wp/v2/posts"

	maxBodySize = 8 << 20 // 8MB
)

var tracer = otel.Tracer("github.com/eringen/wpfront/wordpress")

// Config holds the upstream location and the static service-account credentials.
type Config struct {
	BaseURL        string
	ConsumerKey    string // WC_CONSUMER_KEY
	ConsumerSecret string // WC_CONSUMER_SECRET
	Username       string // WP_USERNAME
	AppPassword    string // WP_APP_PASSWORD
	HTTPClient     *http.Client
	Timeout        time.Duration // per request; zero means no extra deadline
}

// Client talks to one WordPress/WooCommerce installation.
type Client struct {
	base    *url.URL
	http    *http.Client
	timeout time.Duration
	wc      credentials
	wp      credentials
}

type credentials struct {
	user, pass string
}

// NewClient validates cfg and returns a ready Client.
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errors.New("wordpress: base URL is required")
	}
	base, err := url.Parse(strings.TrimSuffix(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("wordpress: parse base URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("wordpress: base URL %q must be http or https", cfg.BaseURL)
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	return &Client{
		base:    base,
		http:    hc,
		timeout: cfg.Timeout,
		wc:      credentials{cfg.ConsumerKey, cfg.ConsumerSecret},
		wp:      credentials{cfg.Username, cfg.AppPassword},
	}, nil
}

// ListProducts fetches the product catalogue. A body that is not a JSON array
// is reported as a failed fetch so the caller can render an empty grid.
func (c *Client) ListProducts(ctx context.Context) Result[[]Product] {
	const op = "list products"
	status, body, err := c.do(ctx, op, http.MethodGet, productsPath, "", nil, c.wc)
	if err != nil {
		return failed[[]Product](err)
	}
	if !gjson.ValidBytes(body) || !gjson.ParseBytes(body).IsArray() {
		return failed[[]Product](&UpstreamError{Op: op, Status: status, Message: "response is not an array"})
	}
	var products []Product
	if err := json.Unmarshal(body, &products); err != nil {
		return failed[[]Product](malformed(op, status, err))
	}
	if len(products) == 0 {
		return empty[[]Product]()
	}
	return ok(products)
}

// GetProduct fetches one product. An upstream 404 is an empty result.
func (c *Client) GetProduct(ctx context.Context, id int) Result[Product] {
	const op = "get product"
	status, body, err := c.do(ctx, op, http.MethodGet, productsPath+"/"+strconv.Itoa(id), "", nil, c.wc)
	if err != nil {
		if IsNotFound(err) {
			return empty[Product]()
		}
		return failed[Product](err)
	}
	var p Product
	if err := json.Unmarshal(body, &p); err != nil {
		return failed[Product](malformed(op, status, err))
	}
	if p.ID == 0 {
		return empty[Product]()
	}
	return ok(p)
}

// ListCategories fetches product categories for the submission form.
func (c *Client) ListCategories(ctx context.Context) Result[[]Category] {
	const op = "list categories"
	q := url.Values{"per_page": {"100"}}
	status, body, err := c.do(ctx, op, http.MethodGet, categoriesPath, q.Encode(), nil, c.wc)
	if err != nil {
		return failed[[]Category](err)
	}
	var cats []Category
	if err := json.Unmarshal(body, &cats); err != nil {
		return failed[[]Category](malformed(op, status, err))
	}
	if len(cats) == 0 {
		return empty[[]Category]()
	}
	return ok(cats)
}

// ListPosts fetches the newest posts with embedded author, media and terms.
func (c *Client) ListPosts(ctx context.Context, perPage int) Result[[]Post] {
	const op = "list posts"
	q := url.Values{}
	if perPage > 0 {
		q.Set("per_page", strconv.Itoa(perPage))
	}
	status, body, err := c.do(ctx, op, http.MethodGet, postsPath, embedQuery(q), nil, c.wp)
	if err != nil {
		return failed[[]Post](err)
	}
	var posts []Post
	if err := json.Unmarshal(body, &posts); err != nil {
		return failed[[]Post](malformed(op, status, err))
	}
	if len(posts) == 0 {
		return empty[[]Post]()
	}
	return ok(posts)
}

// GetPostBySlug looks a post up by slug. Zero matches is an empty result.
func (c *Client) GetPostBySlug(ctx context.Context, slug string) Result[Post] {
	const op = "get post"
	q := url.Values{"slug": {slug}}
	status, body, err := c.do(ctx, op, http.MethodGet, postsPath, embedQuery(q), nil, c.wp)
	if err != nil {
		return failed[Post](err)
	}
	var posts []Post
	if err := json.Unmarshal(body, &posts); err != nil {
		return failed[Post](malformed(op, status, err))
	}
	if len(posts) == 0 {
		return empty[Post]()
	}
	return ok(posts[0])
}

// CreateResponse is the upstream answer to a write, passed back verbatim.
type CreateResponse struct {
	Status int
	Body   []byte
}

// OK reports a 2xx upstream status.
func (r CreateResponse) OK() bool { return r.Status >= 200 && r.Status < 300 }

// Message returns the upstream error message, if the body carries one.
func (r CreateResponse) Message() string {
	return gjson.GetBytes(r.Body, "message").String()
}

// CreatePost publishes a post. Any HTTP response, successful or not, is
// returned as a CreateResponse. Errors are transport failures and 2xx
// answers whose body is not JSON.
func (c *Client) CreatePost(ctx context.Context, req PostRequest) (CreateResponse, error) {
	const op = "create post"
	payload, err := json.Marshal(req)
	if err != nil {
		return CreateResponse{}, fmt.Errorf("wordpress: %s: encode: %w", op, err)
	}
	status, body, err := c.do(ctx, op, http.MethodPost, postsPath, "", payload, c.wp)
	if err != nil {
		var ue *UpstreamError
		if errors.As(err, &ue) {
			return CreateResponse{Status: status, Body: body}, nil
		}
		return CreateResponse{}, err
	}
	resp := CreateResponse{Status: status, Body: body}
	if !gjson.ValidBytes(body) {
		return resp, malformed(op, status, errors.New("body is not JSON"))
	}
	return resp, nil
}

// embedQuery appends the bare _embed flag WordPress expects.
func embedQuery(q url.Values) string {
	if enc := q.Encode(); enc != "" {
		return enc + "&_embed"
	}
	return "_embed"
}

// do performs one request and returns the status and body. Non-2xx statuses
// come back as *UpstreamError together with the body that was read.
func (c *Client) do(ctx context.Context, op, method, path, rawQuery string, payload []byte, auth credentials) (int, []byte, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	u := c.base.JoinPath(path)
	u.RawQuery = rawQuery

	ctx, span := tracer.Start(ctx, "wordpress."+strings.ReplaceAll(op, " ", "_"),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.path", u.Path),
		))
	defer span.End()

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "build request")
		return 0, nil, &NetworkError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth.user != "" {
		req.SetBasicAuth(auth.user, auth.pass)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport")
		return 0, nil, &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "read body")
		return resp.StatusCode, nil, &NetworkError{Op: op, Err: fmt.Errorf("read body: %w", err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		span.SetStatus(codes.Error, http.StatusText(resp.StatusCode))
		return resp.StatusCode, data, &UpstreamError{
			Op:      op,
			Status:  resp.StatusCode,
			Message: gjson.GetBytes(data, "message").String(),
		}
	}
	return resp.StatusCode, data, nil
}
