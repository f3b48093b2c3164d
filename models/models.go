// Package models holds the typed result objects returned by the VectorGov
// API. All entities are plain value records: a parser builds them once from
// the server's JSON response and serializers read them many times. Nothing
// here performs I/O or holds a reference back to the client.
package models

import (
	"fmt"
	"strings"
)

// Metadata identifies the normative document a hit belongs to.
type Metadata struct {
	DocumentType   string         `json:"document_type"`
	DocumentNumber string         `json:"document_number"`
	Year           int            `json:"year"`
	Article        string         `json:"article,omitempty"`
	Paragraph      string         `json:"paragraph,omitempty"`
	Item           string         `json:"item,omitempty"`
	Orgao          string         `json:"orgao,omitempty"`
	DeviceType     string         `json:"device_type,omitempty"`
	Extra          map[string]any `json:"extra,omitempty"`
}

// Label renders a human-readable citation such as
// "LEI 14133/2021, Art. 33, §2, inciso III".
func (m Metadata) Label() string {
	parts := []string{fmt.Sprintf("%s %s/%d", strings.ToUpper(m.DocumentType), m.DocumentNumber, m.Year)}
	if m.Article != "" {
		parts = append(parts, "Art. "+m.Article)
	}
	if m.Paragraph != "" {
		parts = append(parts, "§"+m.Paragraph)
	}
	if m.Item != "" {
		parts = append(parts, "inciso "+m.Item)
	}
	return strings.Join(parts, ", ")
}

// Hit is one retrieved unit of legal text. Depending on the endpoint that
// produced it, only a subset of the fields is populated: graph-expansion
// nodes carry Hop/Frequency, lookup siblings carry IsCurrent, and so on.
type Hit struct {
	Text     string   `json:"text"`
	Score    float64  `json:"score"`
	Source   string   `json:"source"`
	Metadata Metadata `json:"metadata"`

	// ChunkID has the canonical form "{document_id}#{span_id}".
	ChunkID string `json:"chunk_id,omitempty"`
	Context string `json:"context,omitempty"`

	// Expert curation. Optional, layered onto the chunk independently of
	// retrieval ranking.
	NotaEspecialista  string `json:"nota_especialista,omitempty"`
	JurisprudenciaTCU string `json:"jurisprudencia_tcu,omitempty"`
	AcordaoTCUKey     string `json:"acordao_tcu_key,omitempty"`
	AcordaoTCULink    string `json:"acordao_tcu_link,omitempty"`

	// Provenance. StitchedText, when present, overrides Text for display.
	StitchedText    string   `json:"stitched_text,omitempty"`
	PureRerankScore *float64 `json:"pure_rerank_score,omitempty"`
	ParentNodeID    string   `json:"parent_node_id,omitempty"`
	IsParent        bool     `json:"is_parent,omitempty"`
	IsSibling       bool     `json:"is_sibling,omitempty"`
	IsChildOfSeed   bool     `json:"is_child_of_seed,omitempty"`
	GraphBoost      *float64 `json:"graph_boost_applied,omitempty"`
	CurationBoost   *float64 `json:"curation_boost_applied,omitempty"`

	// Verifiability.
	EvidenceURL    string `json:"evidence_url,omitempty"`
	DocumentURL    string `json:"document_url,omitempty"`
	SHA256Source   string `json:"sha256_source,omitempty"`
	PageNumber     *int   `json:"page_number,omitempty"`
	CanonicalHash  string `json:"canonical_hash,omitempty"`
	CanonicalStart *int   `json:"canonical_start,omitempty"`

	// Identification used by smart-search, hybrid graph nodes and lookup.
	NodeID        string `json:"node_id,omitempty"`
	SpanID        string `json:"span_id,omitempty"`
	DocumentID    string `json:"document_id,omitempty"`
	DeviceType    string `json:"device_type,omitempty"`
	ArticleNumber string `json:"article_number,omitempty"`
	TipoDocumento string `json:"tipo_documento,omitempty"`

	// Cross-reference provenance (smart-search).
	OriginType          string `json:"origin_type,omitempty"`
	OriginReference     string `json:"origin_reference,omitempty"`
	OriginReferenceName string `json:"origin_reference_name,omitempty"`
	IsExternalMaterial  bool   `json:"is_external_material,omitempty"`
	Theme               string `json:"theme,omitempty"`

	// Graph expansion (hybrid).
	Hop       int      `json:"hop,omitempty"`
	Frequency int      `json:"frequency,omitempty"`
	Paths     []string `json:"paths,omitempty"`
	Relacao   string   `json:"relacao,omitempty"`

	// Lookup siblings.
	IsCurrent bool `json:"is_current,omitempty"`
}

// Span returns the provision identifier for the hit: the explicit SpanID when
// the endpoint supplied one, otherwise the part of ChunkID after the first #.
func (h Hit) Span() string {
	if h.SpanID != "" {
		return h.SpanID
	}
	return SpanFromChunkID(h.ChunkID)
}

// DisplayText prefers the pre-stitched consolidated text over the raw chunk.
func (h Hit) DisplayText() string {
	if h.StitchedText != "" {
		return h.StitchedText
	}
	return h.Text
}

// SpanFromChunkID extracts the span-id from a "{document_id}#{span_id}"
// chunk id. A chunk id without # is returned unchanged; empty input yields "".
func SpanFromChunkID(chunkID string) string {
	if chunkID == "" {
		return ""
	}
	if _, span, ok := strings.Cut(chunkID, "#"); ok {
		return span
	}
	return chunkID
}

// ExpandedChunk is a provision pulled in through normative citation
// expansion ("conforme art. 18 da Lei 14.133" inside a retrieved chunk).
type ExpandedChunk struct {
	ChunkID           string `json:"chunk_id"`
	NodeID            string `json:"node_id"`
	Text              string `json:"text"`
	DocumentID        string `json:"document_id"`
	SpanID            string `json:"span_id"`
	DeviceType        string `json:"device_type"`
	SourceChunkID     string `json:"source_chunk_id,omitempty"`
	SourceCitationRaw string `json:"source_citation_raw,omitempty"`
	Relacao           string `json:"relacao"`
	Hop               int    `json:"hop"`
}

// CitationExpansionStats summarizes a citation-expansion pass.
type CitationExpansionStats struct {
	ExpandedChunksCount    int     `json:"expanded_chunks_count"`
	CitationsScannedCount  int     `json:"citations_scanned_count"`
	CitationsResolvedCount int     `json:"citations_resolved_count"`
	ExpansionTimeMS        float64 `json:"expansion_time_ms"`
	SkippedSelfReferences  int     `json:"skipped_self_references,omitempty"`
	SkippedDuplicates      int     `json:"skipped_duplicates,omitempty"`
	SkippedTokenBudget     int     `json:"skipped_token_budget,omitempty"`
}

// TokenStats is the server-side token count for a prepared context. Counting
// happens on the server so the client carries no tokenizer dependency.
type TokenStats struct {
	ContextTokens int    `json:"context_tokens"`
	SystemTokens  int    `json:"system_tokens"`
	QueryTokens   int    `json:"query_tokens"`
	TotalTokens   int    `json:"total_tokens"`
	HitsCount     int    `json:"hits_count"`
	CharCount     int    `json:"char_count"`
	Encoding      string `json:"encoding"`
}

// LookupCandidate is one possible resolution of an ambiguous reference.
type LookupCandidate struct {
	DocumentID    string `json:"document_id"`
	NodeID        string `json:"node_id"`
	Text          string `json:"text"`
	TipoDocumento string `json:"tipo_documento,omitempty"`
}

// DocumentSummary describes one document in the knowledge base.
type DocumentSummary struct {
	DocumentID    string `json:"document_id"`
	TipoDocumento string `json:"tipo_documento"`
	Numero        string `json:"numero"`
	Ano           int    `json:"ano"`
	Titulo        string `json:"titulo,omitempty"`
	Descricao     string `json:"descricao,omitempty"`
	ChunksCount   int    `json:"chunks_count"`
	EnrichedCount int    `json:"enriched_count"`
}

// IsEnriched reports whether every chunk of the document has been enriched.
func (d DocumentSummary) IsEnriched() bool {
	return d.ChunksCount > 0 && d.EnrichedCount >= d.ChunksCount
}

// EnrichmentProgress is the enriched fraction in [0,1].
func (d DocumentSummary) EnrichmentProgress() float64 {
	if d.ChunksCount == 0 {
		return 0
	}
	return float64(d.EnrichedCount) / float64(d.ChunksCount)
}

// DocumentsPage is one page of the document listing.
type DocumentsPage struct {
	Documents []DocumentSummary `json:"documents"`
	Total     int               `json:"total"`
	Page      int               `json:"page"`
	Pages     int               `json:"pages"`
}

// UploadReceipt acknowledges an accepted document upload.
type UploadReceipt struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	DocumentID string `json:"document_id"`
	TaskID     string `json:"task_id"`
}

// IngestStatus reports progress of an ingestion task.
type IngestStatus struct {
	TaskID        string `json:"task_id"`
	Status        string `json:"status"`
	Progress      int    `json:"progress"`
	Message       string `json:"message"`
	DocumentID    string `json:"document_id,omitempty"`
	ChunksCreated int    `json:"chunks_created"`
}

// DeleteReceipt acknowledges a document deletion.
type DeleteReceipt struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// StoreReceipt acknowledges an externally generated answer stored in the
// shared cache. QueryHash feeds the feedback endpoint.
type StoreReceipt struct {
	Success   bool   `json:"success"`
	QueryHash string `json:"query_hash"`
	Message   string `json:"message"`
}

// AuditLog is one audit event recorded for an API key.
type AuditLog struct {
	ID             string         `json:"id"`
	EventType      string         `json:"event_type"`
	EventCategory  string         `json:"event_category"`
	Severity       string         `json:"severity"`
	QueryText      string         `json:"query_text,omitempty"`
	DetectionTypes []string       `json:"detection_types,omitempty"`
	RiskScore      *float64       `json:"risk_score,omitempty"`
	ActionTaken    string         `json:"action_taken,omitempty"`
	Endpoint       string         `json:"endpoint,omitempty"`
	ClientIP       string         `json:"client_ip,omitempty"`
	CreatedAt      string         `json:"created_at,omitempty"`
	Details        map[string]any `json:"details,omitempty"`
}

// AuditLogsPage is one page of the audit log listing.
type AuditLogsPage struct {
	Logs  []AuditLog `json:"logs"`
	Total int        `json:"total"`
	Page  int        `json:"page"`
	Pages int        `json:"pages"`
	Limit int        `json:"limit"`
}

// AuditStats aggregates audit events over a period.
type AuditStats struct {
	TotalEvents      int            `json:"total_events"`
	EventsByType     map[string]int `json:"events_by_type"`
	EventsBySeverity map[string]int `json:"events_by_severity"`
	EventsByCategory map[string]int `json:"events_by_category"`
	BlockedCount     int            `json:"blocked_count"`
	WarningCount     int            `json:"warning_count"`
	PeriodDays       int            `json:"period_days"`
}
