package wpfront

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/eringen/wpfront/wordpress"
)

const (
	defaultRelayTitle   = "My API Post"
	defaultRelayContent = "This post was created via fetch!"
	defaultRelayStatus  = "publish"

	relayFailedMessage   = "Failed to create post"
	relayInternalMessage = "Internal server error"
	relayLimitedMessage  = "Too many requests"

	maxRelayBody = 1 << 20 // 1MB
)

// relayRequest is the body accepted by POST /api/products. Product-shaped
// bodies (name, description) are accepted alongside post-shaped ones; any
// other fields are ignored.
type relayRequest struct {
	Title       string `json:"title"`
	Content     string `json:"content"`
	Status      string `json:"status"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// post builds the upstream payload, filling each missing field from the
// product fields and then from the fixed defaults.
func (r relayRequest) post() wordpress.PostRequest {
	return wordpress.PostRequest{
		Title:   firstNonEmpty(r.Title, r.Name, defaultRelayTitle),
		Content: firstNonEmpty(r.Content, r.Description, defaultRelayContent),
		Status:  firstNonEmpty(r.Status, defaultRelayStatus),
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

type relayError struct {
	Error string `json:"error"`
}

// relay forwards req upstream with the service credentials.
func (a *App) relay(ctx context.Context, req relayRequest) (wordpress.CreateResponse, error) {
	resp, err := a.WP.CreatePost(ctx, req.post())
	if err != nil {
		a.Logger.Error("relay: upstream request failed", zap.Error(err))
		return resp, err
	}
	if !resp.OK() {
		a.Logger.Warn("relay: upstream rejected post",
			zap.Int("status", resp.Status),
			zap.String("message", resp.Message()),
		)
	}
	return resp, nil
}

func (a *App) handleRelay(c echo.Context) error {
	if !a.limiter.Allow(c.RealIP()) {
		return c.JSON(http.StatusTooManyRequests, relayError{Error: relayLimitedMessage})
	}

	c.Request().Body = http.MaxBytesReader(c.Response(), c.Request().Body, maxRelayBody)
	var req relayRequest
	if err := c.Echo().JSONSerializer.Deserialize(c, &req); err != nil {
		a.Logger.Warn("relay: decode request", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, relayError{Error: relayInternalMessage})
	}

	resp, err := a.relay(c.Request().Context(), req)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, relayError{Error: relayInternalMessage})
	}
	if !resp.OK() {
		return c.JSON(resp.Status, relayError{Error: firstNonEmpty(resp.Message(), relayFailedMessage)})
	}
	return c.JSONBlob(http.StatusCreated, resp.Body)
}
