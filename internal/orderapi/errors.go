package orderapi

import (
	"errors"
	"fmt"
)

// ErrUnauthorized is returned when the order API rejects the request with a
// 401 or 403. Callers surface it as a re-login prompt; it is never retried
// automatically.
var ErrUnauthorized = errors.New("order API: authentication required")

// APIError is a non-auth, non-404 failure reported by the order API. Message
// carries the backend's message field when the backend provided one.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("order API error: status %d", e.StatusCode)
}
