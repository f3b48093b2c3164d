// Package apierr classifies failures returned by the VectorGov API into
// sentinel kinds that callers can test with errors.Is, plus a typed
// HTTPStatusError carrying the response details needed to react (retry-after,
// upgrade URL, offending field).
package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error kinds. Wrap with WrapError so both the kind and the cause survive.
var (
	ErrValidation = errors.New("validation failed")
	ErrAuth       = errors.New("authentication failed")
	ErrTier       = errors.New("plan tier insufficient")
	ErrRateLimit  = errors.New("rate limit exceeded")
	ErrNotFound   = errors.New("resource not found")
	ErrServer     = errors.New("server error")
	ErrTemporary  = errors.New("temporary failure")
)

// WrapError attaches an error kind and an operation name to a cause:
//
//	WrapError(ErrAuth, "search", err)
func WrapError(kind error, operation string, err error) error {
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

// IsKind reports whether err carries the given kind.
func IsKind(err, kind error) bool {
	return errors.Is(err, kind)
}

// HTTPStatusError is the decoded failure response of one API call.
type HTTPStatusError struct {
	StatusCode int
	Detail     string
	// RetryAfter is the server-suggested wait in seconds on 429 responses.
	RetryAfter int
	// UpgradeURL points at the plan-upgrade page on 403 responses.
	UpgradeURL string
	// Field names the offending request field on validation failures.
	Field string
}

func (e *HTTPStatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("http %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("http %d: %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// Kind maps the status code to its sentinel.
func (e *HTTPStatusError) Kind() error {
	switch {
	case e.StatusCode == http.StatusUnauthorized:
		return ErrAuth
	case e.StatusCode == http.StatusForbidden:
		return ErrTier
	case e.StatusCode == http.StatusTooManyRequests:
		return ErrRateLimit
	case e.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case e.StatusCode == http.StatusBadRequest,
		e.StatusCode == http.StatusUnprocessableEntity:
		return ErrValidation
	case e.StatusCode >= 500:
		return ErrServer
	}
	return ErrServer
}

// Is lets errors.Is match an HTTPStatusError against its kind sentinel
// without explicit wrapping.
func (e *HTTPStatusError) Is(target error) bool {
	return target == e.Kind()
}

// FromStatus builds the typed error for a failed response.
func FromStatus(statusCode int, detail string) *HTTPStatusError {
	return &HTTPStatusError{StatusCode: statusCode, Detail: detail}
}

// Retriable reports whether a status code is worth retrying.
func Retriable(statusCode int) bool {
	switch statusCode {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}
