package vectorgov

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/vectorgov/vectorgov-go/internal/resilience"
)

// Mode selects the retrieval quality/latency trade-off for Search.
type Mode string

const (
	// ModeFast skips both HyDE and the reranker.
	ModeFast Mode = "fast"
	// ModeBalanced runs the reranker but not HyDE. This is the default.
	ModeBalanced Mode = "balanced"
	// ModePrecise runs HyDE and the reranker.
	ModePrecise Mode = "precise"
)

// params maps the mode onto the pipeline switches the API expects.
func (m Mode) params() (useHyde, useReranker bool, ok bool) {
	switch m {
	case ModeFast:
		return false, false, true
	case ModeBalanced:
		return false, true, true
	case ModePrecise:
		return true, true, true
	}
	return false, false, false
}

type settings struct {
	baseURL      string
	userAgent    string
	httpClient   *http.Client
	timeout      time.Duration
	smartTimeout time.Duration
	logger       *slog.Logger
	logLevel     string
	policy       resilience.Policy
	rps          float64
	burst        int
}

// Option customizes a Client at construction time.
type Option func(*settings)

// WithBaseURL points the client at a different API deployment.
func WithBaseURL(baseURL string) Option {
	return func(s *settings) { s.baseURL = baseURL }
}

// WithHTTPClient replaces the underlying HTTP client. The caller keeps
// ownership of timeouts and transport tuning.
func WithHTTPClient(hc *http.Client) Option {
	return func(s *settings) { s.httpClient = hc }
}

// WithTimeout sets the per-request timeout of the default HTTP client.
// Ignored when WithHTTPClient is also given.
func WithTimeout(d time.Duration) Option {
	return func(s *settings) { s.timeout = d }
}

// WithSmartSearchTimeout bounds the agentic smart-search call, which can
// take far longer than a plain search. Defaults to two minutes.
func WithSmartSearchTimeout(d time.Duration) Option {
	return func(s *settings) { s.smartTimeout = d }
}

// WithLogger installs a structured logger. Without it the client logs to
// stderr at the level from VECTORGOV_LOG_LEVEL.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) { s.logger = logger }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(s *settings) { s.userAgent = ua }
}

// WithMaxAttempts caps retry attempts per request, including the first one.
func WithMaxAttempts(n int) Option {
	return func(s *settings) { s.policy.RetryMaxAttempts = n }
}

// WithRetryBackoff tunes the exponential backoff between retries.
func WithRetryBackoff(initial, max time.Duration) Option {
	return func(s *settings) {
		s.policy.RetryInitialBackoff = initial
		s.policy.RetryMaxBackoff = max
	}
}

// WithoutCircuitBreaker disables the client-side circuit breaker.
func WithoutCircuitBreaker() Option {
	return func(s *settings) { s.policy.BreakerEnabled = false }
}

// WithRateLimit throttles outbound requests client-side. Zero rps disables
// throttling.
func WithRateLimit(rps float64, burst int) Option {
	return func(s *settings) {
		s.rps = rps
		s.burst = burst
	}
}

// Filters narrows a search to a document type, year or issuing body.
type Filters struct {
	Tipo  string
	Ano   int
	Orgao string
}

// SearchOptions tunes a Search call. The zero value asks for five results
// in balanced mode with citation expansion off.
type SearchOptions struct {
	TopK    int
	Mode    Mode
	Filters *Filters
	// UseCache overrides the server-side cache decision; nil keeps the
	// server default.
	UseCache              *bool
	ExpandCitations       bool
	CitationExpansionTopN int
}

// HybridOptions tunes a Hybrid call. The zero value asks for eight seeds
// over the default collection with two graph hops.
type HybridOptions struct {
	TopK        int
	Collections []string
	Hops        int
	UseCache    *bool
}

// LookupOptions tunes a Lookup call.
type LookupOptions struct {
	Collection      string
	WithoutParent   bool
	WithoutSiblings bool
}

// UploadMetadata identifies the legal document being uploaded.
type UploadMetadata struct {
	TipoDocumento string
	Numero        string
	Ano           int
}

// AuditLogsOptions filters the audit log listing. Zero values mean no
// filter, first page, fifty entries.
type AuditLogsOptions struct {
	Limit         int
	Page          int
	Severity      string
	EventCategory string
}

// Bool is a helper for the *bool option fields.
func Bool(v bool) *bool { return &v }
