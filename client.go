// Package vectorgov is the Go client for the VectorGov legal knowledge
// retrieval API. It exposes the retrieval endpoints (search, smart search,
// hybrid graph search and reference lookup), document and audit management,
// and pairs with the payload package for turning results into grounded LLM
// inputs.
//
//	client, err := vectorgov.New("vg_...")
//	if err != nil { ... }
//	result, err := client.Search(ctx, "prazo de impugnação do edital", nil)
package vectorgov

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/vectorgov/vectorgov-go/internal/config"
	"github.com/vectorgov/vectorgov-go/internal/doccheck"
	"github.com/vectorgov/vectorgov-go/internal/observability/logging"
	"github.com/vectorgov/vectorgov-go/internal/observability/metrics"
	"github.com/vectorgov/vectorgov-go/internal/resilience"
	"github.com/vectorgov/vectorgov-go/internal/transport"
	"github.com/vectorgov/vectorgov-go/models"
)

const envAPIKeyName = config.EnvAPIKey

const defaultSmartSearchTimeout = 120 * time.Second

const defaultCollection = "leis_v4"

// Client talks to the VectorGov API. It is safe for concurrent use.
type Client struct {
	transport    *transport.Client
	logger       *slog.Logger
	metrics      *metrics.ClientMetrics
	smartTimeout time.Duration
}

// New builds a Client. An empty apiKey falls back to the VECTORGOV_API_KEY
// environment variable; base URL, timeout, log level and rate limit also
// read their VECTORGOV_* variables unless overridden by options.
func New(apiKey string, opts ...Option) (*Client, error) {
	cfg := config.Load()
	if apiKey == "" {
		apiKey = cfg.APIKey
	}
	if err := validateAPIKey(apiKey); err != nil {
		return nil, err
	}

	s := settings{
		baseURL:      cfg.BaseURL,
		userAgent:    defaultUserAgent,
		timeout:      cfg.TimeoutDuration(),
		smartTimeout: defaultSmartSearchTimeout,
		logLevel:     cfg.LogLevel,
		policy:       resilience.DefaultPolicy(),
		rps:          cfg.RPS,
	}
	for _, opt := range opts {
		opt(&s)
	}

	logger := s.logger
	if logger == nil {
		logger = logging.NewJSONLogger("vectorgov-sdk", s.logLevel)
	}
	httpClient := s.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: s.timeout}
	}

	m := metrics.NewClientMetrics()
	return &Client{
		transport: transport.New(transport.Options{
			BaseURL:           s.baseURL,
			APIKey:            apiKey,
			UserAgent:         s.userAgent,
			HTTPClient:        httpClient,
			Policy:            s.policy,
			RequestsPerSecond: s.rps,
			Burst:             s.burst,
			Logger:            logger,
			Metrics:           m,
		}),
		logger:       logger,
		metrics:      m,
		smartTimeout: s.smartTimeout,
	}, nil
}

// MetricsHandler serves the client's Prometheus metrics. The registry is
// private to this client instance, so mounting it never collides with the
// host application's metrics.
func (c *Client) MetricsHandler() http.Handler {
	return c.metrics.Handler()
}

// Search runs a semantic search over the legal corpus.
func (c *Client) Search(ctx context.Context, query string, opts *SearchOptions) (*models.SearchResult, error) {
	q, err := validateQuery(query)
	if err != nil {
		return nil, err
	}
	if opts == nil {
		opts = &SearchOptions{}
	}
	topK, err := validateTopK(opts.TopK, 5, maxSearchTopK)
	if err != nil {
		return nil, err
	}
	mode := opts.Mode
	if mode == "" {
		mode = ModeBalanced
	}
	useHyde, useReranker, ok := mode.params()
	if !ok {
		return nil, validationErr("mode %q is not one of fast, balanced, precise", mode)
	}

	body := map[string]any{
		"query":            q,
		"top_k":            topK,
		"use_hyde":         useHyde,
		"use_reranker":     useReranker,
		"mode":             string(mode),
		"expand_citations": opts.ExpandCitations,
	}
	if opts.UseCache != nil {
		body["use_cache"] = *opts.UseCache
	}
	if opts.CitationExpansionTopN > 0 {
		body["citation_expansion_top_n"] = opts.CitationExpansionTopN
	}
	if f := opts.Filters; f != nil {
		filters := map[string]any{}
		if f.Tipo != "" {
			if err := validateDocumentType(f.Tipo); err != nil {
				return nil, err
			}
			filters["tipo_documento"] = f.Tipo
		}
		if f.Ano != 0 {
			if err := validateYear(f.Ano); err != nil {
				return nil, err
			}
			filters["ano"] = f.Ano
		}
		if f.Orgao != "" {
			filters["orgao"] = f.Orgao
		}
		if len(filters) > 0 {
			body["filters"] = filters
		}
	}

	var resp map[string]any
	if err := c.transport.PostJSON(ctx, "/sdk/search", body, &resp, "search"); err != nil {
		return nil, err
	}
	result := models.ParseSearch(q, string(mode), resp)
	if result.Cached {
		c.metrics.ObserveCacheHit("search")
	}
	return result, nil
}

// SmartSearch runs the agentic search loop: the server reformulates and
// re-retrieves until it judges the evidence sufficient. Slow by design; the
// call is bounded by the smart-search timeout (default two minutes).
func (c *Client) SmartSearch(ctx context.Context, query string, useCache bool) (*models.SmartSearchResult, error) {
	q, err := validateQuery(query)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.smartTimeout)
	defer cancel()

	body := map[string]any{"query": q, "use_cache": useCache}
	var resp map[string]any
	if err := c.transport.PostJSON(ctx, "/sdk/smart-search", body, &resp, "smart_search"); err != nil {
		return nil, err
	}
	result := models.ParseSmartSearch(q, resp)
	if result.Cached {
		c.metrics.ObserveCacheHit("smart_search")
	}
	return result, nil
}

// Hybrid runs the dual-lane search plus graph expansion pipeline.
func (c *Client) Hybrid(ctx context.Context, query string, opts *HybridOptions) (*models.HybridResult, error) {
	q, err := validateQuery(query)
	if err != nil {
		return nil, err
	}
	if opts == nil {
		opts = &HybridOptions{}
	}
	topK, err := validateTopK(opts.TopK, 8, maxHybridTopK)
	if err != nil {
		return nil, err
	}
	hops, err := validateHops(opts.Hops)
	if err != nil {
		return nil, err
	}
	collections := opts.Collections
	if len(collections) == 0 {
		collections = []string{defaultCollection}
	}

	body := map[string]any{
		"query":       q,
		"top_k":       topK,
		"collections": collections,
		"hops":        hops,
	}
	if opts.UseCache != nil {
		body["use_cache"] = *opts.UseCache
	}

	var resp map[string]any
	if err := c.transport.PostJSON(ctx, "/sdk/hybrid", body, &resp, "hybrid"); err != nil {
		return nil, err
	}
	result := models.ParseHybrid(q, resp)
	if result.Cached {
		c.metrics.ObserveCacheHit("hybrid")
	}
	return result, nil
}

// Lookup resolves a textual legal reference ("art. 33, §2º da lei 14133")
// to its exact span, with the parent article and sibling devices.
func (c *Client) Lookup(ctx context.Context, reference string, opts *LookupOptions) (*models.LookupResult, error) {
	ref, err := validateQuery(reference)
	if err != nil {
		return nil, err
	}
	if opts == nil {
		opts = &LookupOptions{}
	}
	collection := opts.Collection
	if collection == "" {
		collection = defaultCollection
	}

	body := map[string]any{
		"reference":        ref,
		"collection":       collection,
		"include_parent":   !opts.WithoutParent,
		"include_siblings": !opts.WithoutSiblings,
	}
	var resp map[string]any
	if err := c.transport.PostJSON(ctx, "/sdk/lookup", body, &resp, "lookup"); err != nil {
		return nil, err
	}
	return models.ParseLookup(ref, resp), nil
}

// Feedback records a like/dislike for a previously returned query.
func (c *Client) Feedback(ctx context.Context, queryID string, isLike bool) (bool, error) {
	if queryID == "" {
		return false, validationErr("query_id is required")
	}
	body := map[string]any{"query_id": queryID, "is_like": isLike}
	var resp struct {
		Success bool `json:"success"`
	}
	if err := c.transport.PostJSON(ctx, "/sdk/feedback", body, &resp, "feedback"); err != nil {
		return false, err
	}
	return resp.Success, nil
}

// EstimateTokens asks the server how many tokens the prepared context for a
// query would consume. Counting happens server-side so the client needs no
// tokenizer.
func (c *Client) EstimateTokens(ctx context.Context, query string, topK int) (*models.TokenStats, error) {
	q, err := validateQuery(query)
	if err != nil {
		return nil, err
	}
	topK, err = validateTopK(topK, 5, maxSearchTopK)
	if err != nil {
		return nil, err
	}
	body := map[string]any{"query": q, "top_k": topK}
	var out models.TokenStats
	if err := c.transport.PostJSON(ctx, "/sdk/tokens", body, &out, "estimate_tokens"); err != nil {
		return nil, err
	}
	return &out, nil
}

// StoreResponse saves an externally generated answer in the shared cache so
// later identical queries can be served from it.
func (c *Client) StoreResponse(ctx context.Context, query, response string, metadata map[string]any) (*models.StoreReceipt, error) {
	q, err := validateQuery(query)
	if err != nil {
		return nil, err
	}
	if response == "" {
		return nil, validationErr("response is required")
	}
	body := map[string]any{"query": q, "response": response}
	if len(metadata) > 0 {
		body["metadata"] = metadata
	}
	var out models.StoreReceipt
	if err := c.transport.PostJSON(ctx, "/cache/store", body, &out, "store_response"); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListDocuments pages through the documents of the knowledge base. Zero
// page/limit mean first page, fifty entries.
func (c *Client) ListDocuments(ctx context.Context, page, limit int) (*models.DocumentsPage, error) {
	page, limit, err := validatePage(page, limit)
	if err != nil {
		return nil, err
	}
	query := url.Values{
		"page":  {strconv.Itoa(page)},
		"limit": {strconv.Itoa(limit)},
	}
	var out models.DocumentsPage
	if err := c.transport.GetJSON(ctx, "/sdk/documents", query, &out, "list_documents"); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetDocument fetches one document's summary by its id.
func (c *Client) GetDocument(ctx context.Context, documentID string) (*models.DocumentSummary, error) {
	if documentID == "" {
		return nil, validationErr("document_id is required")
	}
	var out models.DocumentSummary
	path := "/sdk/documents/" + url.PathEscape(documentID)
	if err := c.transport.GetJSON(ctx, path, nil, &out, "get_document"); err != nil {
		return nil, err
	}
	return &out, nil
}

// UploadDocument sends a PDF for ingestion. The file is inspected locally
// first; anything that is not a PDF is rejected without a request.
func (c *Client) UploadDocument(ctx context.Context, path string, meta UploadMetadata) (*models.UploadReceipt, error) {
	if err := validateDocumentType(meta.TipoDocumento); err != nil {
		return nil, err
	}
	if meta.Numero == "" {
		return nil, validationErr("numero is required")
	}
	if err := validateYear(meta.Ano); err != nil {
		return nil, err
	}
	if _, err := doccheck.Inspect(path); err != nil {
		return nil, validationErr("%s: %v", path, err)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, validationErr("%v", err)
	}
	defer file.Close()

	fields := map[string]string{
		"tipo_documento": meta.TipoDocumento,
		"numero":         meta.Numero,
		"ano":            strconv.Itoa(meta.Ano),
	}
	var out models.UploadReceipt
	err = c.transport.PostMultipart(ctx, "/sdk/documents/upload", fields, "file", filepath.Base(path), file, &out, "upload_document")
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// IngestStatus reports progress of an ingestion task started by
// UploadDocument.
func (c *Client) IngestStatus(ctx context.Context, taskID string) (*models.IngestStatus, error) {
	if taskID == "" {
		return nil, validationErr("task_id is required")
	}
	var out models.IngestStatus
	path := "/sdk/ingest/status/" + url.PathEscape(taskID)
	if err := c.transport.GetJSON(ctx, path, nil, &out, "ingest_status"); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteDocument removes a document and all its chunks.
func (c *Client) DeleteDocument(ctx context.Context, documentID string) (*models.DeleteReceipt, error) {
	if documentID == "" {
		return nil, validationErr("document_id is required")
	}
	var out models.DeleteReceipt
	path := "/sdk/documents/" + url.PathEscape(documentID)
	if err := c.transport.DeleteJSON(ctx, path, &out, "delete_document"); err != nil {
		return nil, err
	}
	return &out, nil
}

// AuditLogs pages through the security audit events recorded for this API
// key.
func (c *Client) AuditLogs(ctx context.Context, opts *AuditLogsOptions) (*models.AuditLogsPage, error) {
	if opts == nil {
		opts = &AuditLogsOptions{}
	}
	page, limit, err := validatePage(opts.Page, opts.Limit)
	if err != nil {
		return nil, err
	}
	if err := validateAuditFilters(opts.Severity, opts.EventCategory); err != nil {
		return nil, err
	}
	query := url.Values{
		"page":  {strconv.Itoa(page)},
		"limit": {strconv.Itoa(limit)},
	}
	if opts.Severity != "" {
		query.Set("severity", opts.Severity)
	}
	if opts.EventCategory != "" {
		query.Set("event_category", opts.EventCategory)
	}
	var out models.AuditLogsPage
	if err := c.transport.GetJSON(ctx, "/sdk/audit/logs", query, &out, "audit_logs"); err != nil {
		return nil, err
	}
	return &out, nil
}

// AuditStats aggregates audit events over the last days (default 30,
// maximum 90).
func (c *Client) AuditStats(ctx context.Context, days int) (*models.AuditStats, error) {
	days, err := validateAuditDays(days)
	if err != nil {
		return nil, err
	}
	query := url.Values{"days": {strconv.Itoa(days)}}
	var out models.AuditStats
	if err := c.transport.GetJSON(ctx, "/sdk/audit/stats", query, &out, "audit_stats"); err != nil {
		return nil, err
	}
	return &out, nil
}

// AuditEventTypes lists the event types the audit trail can record.
func (c *Client) AuditEventTypes(ctx context.Context) ([]string, error) {
	var out struct {
		Types []string `json:"types"`
	}
	if err := c.transport.GetJSON(ctx, "/sdk/audit/event-types", nil, &out, "audit_event_types"); err != nil {
		return nil, err
	}
	return out.Types, nil
}
