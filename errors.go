package vectorgov

import (
	"github.com/vectorgov/vectorgov-go/internal/apierr"
	"github.com/vectorgov/vectorgov-go/internal/resilience"
)

// Error kinds, matchable with errors.Is on anything the client returns.
var (
	ErrValidation = apierr.ErrValidation
	ErrAuth       = apierr.ErrAuth
	ErrTier       = apierr.ErrTier
	ErrRateLimit  = apierr.ErrRateLimit
	ErrNotFound   = apierr.ErrNotFound
	ErrServer     = apierr.ErrServer
	ErrTemporary  = apierr.ErrTemporary
)

// APIError carries the decoded failure response; reach it with errors.As.
type APIError = apierr.HTTPStatusError

// IsCircuitOpen reports whether the failure came from the client's own
// circuit breaker rather than the API.
func IsCircuitOpen(err error) bool {
	return resilience.IsCircuitOpen(err)
}
