package wordpress

import (
	"errors"
	"fmt"
	"net/http"
)

// UpstreamError reports a response the CMS did send but that cannot be used:
// a non-2xx status or a body that does not have the expected JSON shape.
type UpstreamError struct {
	Op      string
	Status  int
	Message string
}

func (e *UpstreamError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("wordpress: %s: upstream status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("wordpress: %s: upstream status %d: %s", e.Op, e.Status, e.Message)
}

// NetworkError reports a request that never produced a usable response.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("wordpress: %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// IsNotFound reports whether err is an upstream 404.
func IsNotFound(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue) && ue.Status == http.StatusNotFound
}

// IsNetwork reports whether err is a transport failure.
func IsNetwork(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

func malformed(op string, status int, err error) error {
	return &UpstreamError{Op: op, Status: status, Message: "malformed response: " + err.Error()}
}
