package models

import "time"

// Kind tags the concrete result variant. It matches the endpoint_type label
// the server uses in its own telemetry.
type Kind string

const (
	KindSearch      Kind = "search"
	KindSmartSearch Kind = "smart_search"
	KindHybrid      Kind = "hybrid"
	KindLookup      Kind = "lookup"
)

// Lookup resolution statuses.
const (
	LookupFound       = "found"
	LookupNotFound    = "not_found"
	LookupAmbiguous   = "ambiguous"
	LookupParseFailed = "parse_failed"
)

// Result is the closed set of retrieval outcomes. Serializers switch on the
// concrete type; Kind exists for callers that only need the tag.
type Result interface {
	Kind() Kind
	QueryText() string
}

// SearchResult is the outcome of a plain semantic search.
type SearchResult struct {
	Query          string                  `json:"query"`
	Hits           []Hit                   `json:"hits"`
	Total          int                     `json:"total"`
	LatencyMS      int                     `json:"latency_ms"`
	Cached         bool                    `json:"cached"`
	QueryID        string                  `json:"query_id"`
	Mode           string                  `json:"mode"`
	Timestamp      time.Time               `json:"timestamp"`
	ExpandedChunks []ExpandedChunk         `json:"expanded_chunks,omitempty"`
	ExpansionStats *CitationExpansionStats `json:"expansion_stats,omitempty"`

	// Raw keeps the server response verbatim so serializers can pass
	// through fields the typed model does not carry.
	Raw map[string]any `json:"-"`
}

func (r *SearchResult) Kind() Kind        { return KindSearch }
func (r *SearchResult) QueryText() string { return r.Query }

// SmartSearchResult is a SearchResult plus the judge-pipeline verdict.
type SmartSearchResult struct {
	SearchResult

	Confianca        string   `json:"confianca"`
	Raciocinio       string   `json:"raciocinio"`
	Tentativas       int      `json:"tentativas"`
	NormasPresentes  []string `json:"normas_presentes,omitempty"`
	QuantidadeNormas int      `json:"quantidade_normas"`
	RelacoesCount    int      `json:"relacoes_count"`
}

func (r *SmartSearchResult) Kind() Kind { return KindSmartSearch }

// HybridResult combines direct vector evidence with citation-graph expansion.
// Confidence is supplied by the server and never recomputed client-side,
// unlike the plain search path.
type HybridResult struct {
	Query      string         `json:"query"`
	Hits       []Hit          `json:"hits"`
	GraphNodes []Hit          `json:"graph_nodes,omitempty"`
	Stats      map[string]any `json:"stats,omitempty"`
	Confidence float64        `json:"confidence"`

	SearchTimeMS float64 `json:"search_time_ms"`

	HydeUsed               bool   `json:"hyde_used"`
	DocFilterActive        bool   `json:"docfilter_active"`
	DocFilterDetectedDocID string `json:"docfilter_detected_doc_id,omitempty"`
	QueryRewriteActive     bool   `json:"query_rewrite_active"`
	QueryRewriteCleanQuery string `json:"query_rewrite_clean_query,omitempty"`
	QueryRewriteDocumentID string `json:"query_rewrite_document_id,omitempty"`
	DualLaneActive         bool   `json:"dual_lane_active"`
	DualLaneFilteredDoc    string `json:"dual_lane_filtered_doc,omitempty"`
	DualLaneFromFiltered   int    `json:"dual_lane_from_filtered"`
	DualLaneFromFree       int    `json:"dual_lane_from_free"`

	Cached  bool   `json:"cached"`
	QueryID string `json:"query_id"`
	Mode    string `json:"mode"`

	Raw map[string]any `json:"-"`
}

func (r *HybridResult) Kind() Kind        { return KindHybrid }
func (r *HybridResult) QueryText() string { return r.Query }

// LookupResult resolves a textual reference ("Art. 18, §2º") to one exact
// provision plus its hierarchical context.
type LookupResult struct {
	Reference string `json:"reference"`
	Status    string `json:"status"`
	Message   string `json:"message,omitempty"`

	Match    *Hit  `json:"match,omitempty"`
	Parent   *Hit  `json:"parent,omitempty"`
	Siblings []Hit `json:"siblings,omitempty"`

	Resolved   map[string]any    `json:"resolved,omitempty"`
	Candidates []LookupCandidate `json:"candidates,omitempty"`

	ElapsedMS float64 `json:"elapsed_ms"`
	Cached    bool    `json:"cached"`
	QueryID   string  `json:"query_id"`

	Raw map[string]any `json:"-"`
}

func (r *LookupResult) Kind() Kind        { return KindLookup }
func (r *LookupResult) QueryText() string { return r.Reference }
