package models

import "time"

// Parsers convert the raw JSON mapping produced by the transport layer into
// typed results. Every field is read with a default fallback: an absent or
// mistyped optional field never fails, it yields the documented zero value.
// The original mapping is retained verbatim in Raw.

// ParseSearch builds a SearchResult from a /sdk/search response.
func ParseSearch(query, mode string, resp map[string]any) *SearchResult {
	hits := parseHits(asSlice(resp["hits"]))

	var expanded []ExpandedChunk
	for _, raw := range asSlice(resp["expanded_chunks"]) {
		ec, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		expanded = append(expanded, ExpandedChunk{
			ChunkID:           str(ec, "chunk_id"),
			NodeID:            str(ec, "node_id"),
			Text:              str(ec, "text"),
			DocumentID:        str(ec, "document_id"),
			SpanID:            str(ec, "span_id"),
			DeviceType:        strDefault(ec, "device_type", "article"),
			SourceChunkID:     str(ec, "source_chunk_id"),
			SourceCitationRaw: str(ec, "source_citation_raw"),
			Relacao:           strDefault(ec, "relacao", "citacao"),
			Hop:               intDefault(ec, "hop", 1),
		})
	}

	var stats *CitationExpansionStats
	if es, ok := resp["expansion_stats"].(map[string]any); ok {
		stats = &CitationExpansionStats{
			ExpandedChunksCount:    num(es, "expanded_chunks_count"),
			CitationsScannedCount:  num(es, "citations_scanned_count"),
			CitationsResolvedCount: num(es, "citations_resolved_count"),
			ExpansionTimeMS:        flt(es, "expansion_time_ms"),
			SkippedSelfReferences:  num(es, "skipped_self_references"),
			SkippedDuplicates:      num(es, "skipped_duplicates"),
			SkippedTokenBudget:     num(es, "skipped_token_budget"),
		}
	}

	return &SearchResult{
		Query:          query,
		Hits:           hits,
		Total:          intDefault(resp, "total", len(hits)),
		LatencyMS:      num(resp, "latency_ms"),
		Cached:         boolean(resp, "cached"),
		QueryID:        str(resp, "query_id"),
		Mode:           mode,
		Timestamp:      time.Now(),
		ExpandedChunks: expanded,
		ExpansionStats: stats,
		Raw:            resp,
	}
}

// ParseSmartSearch builds a SmartSearchResult from a /sdk/smart-search
// response. The hit schema is shared with plain search; the judge verdict
// rides alongside.
func ParseSmartSearch(query string, resp map[string]any) *SmartSearchResult {
	base := ParseSearch(query, "smart", resp)
	return &SmartSearchResult{
		SearchResult:     *base,
		Confianca:        str(resp, "confianca"),
		Raciocinio:       str(resp, "raciocinio"),
		Tentativas:       intDefault(resp, "tentativas", 1),
		NormasPresentes:  strSlice(resp["normas_presentes"]),
		QuantidadeNormas: num(resp, "quantidade_normas"),
		RelacoesCount:    num(resp, "relacoes_count"),
	}
}

// ParseHybrid builds a HybridResult from a /sdk/hybrid response.
func ParseHybrid(query string, resp map[string]any) *HybridResult {
	hits := parseHits(asSlice(resp["direct_evidence"]))

	var graphNodes []Hit
	for _, raw := range asSlice(resp["graph_expansion"]) {
		gn, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		graphNodes = append(graphNodes, Hit{
			ChunkID:    str(gn, "chunk_id"),
			NodeID:     str(gn, "node_id"),
			Text:       str(gn, "text"),
			Score:      0,
			Source:     str(gn, "document_id"),
			Metadata:   Metadata{DocumentType: str(gn, "tipo_documento")},
			DocumentID: str(gn, "document_id"),
			SpanID:     str(gn, "span_id"),
			DeviceType: strDefault(gn, "device_type", "article"),
			Hop:        intDefault(gn, "hop", 1),
			Frequency:  num(gn, "frequency"),
			Paths:      strSlice(gn["paths"]),
			Relacao:    strDefault(gn, "relacao", "citacao"),
		})
	}

	searchTime := flt(resp, "search_time_ms")
	if searchTime == 0 {
		searchTime = flt(resp, "latency_ms")
	}

	stats, _ := resp["stats"].(map[string]any)

	return &HybridResult{
		Query:      query,
		Hits:       hits,
		GraphNodes: graphNodes,
		Stats:      stats,
		Confidence: flt(resp, "confidence"),

		SearchTimeMS: searchTime,

		HydeUsed:               boolean(resp, "hyde_used"),
		DocFilterActive:        boolean(resp, "docfilter_active"),
		DocFilterDetectedDocID: str(resp, "docfilter_detected_doc_id"),
		QueryRewriteActive:     boolean(resp, "query_rewrite_active"),
		QueryRewriteCleanQuery: str(resp, "query_rewrite_clean_query"),
		QueryRewriteDocumentID: str(resp, "query_rewrite_document_id"),
		DualLaneActive:         boolean(resp, "dual_lane_active"),
		DualLaneFilteredDoc:    str(resp, "dual_lane_filtered_doc"),
		DualLaneFromFiltered:   num(resp, "dual_lane_from_filtered"),
		DualLaneFromFree:       num(resp, "dual_lane_from_free"),

		Cached:  boolean(resp, "cached"),
		QueryID: str(resp, "query_id"),
		Mode:    strDefault(resp, "mode", "hybrid"),
		Raw:     resp,
	}
}

// ParseLookup builds a LookupResult from a /sdk/lookup response.
func ParseLookup(reference string, resp map[string]any) *LookupResult {
	var match *Hit
	if md, ok := resp["match"].(map[string]any); ok {
		h := parseLookupHit(md)
		h.EvidenceURL = str(md, "evidence_url")
		h.ArticleNumber = str(md, "article_number")
		h.TipoDocumento = str(md, "tipo_documento")
		h.DocumentID = str(md, "document_id")
		h.Source = str(md, "document_id")
		h.Metadata = Metadata{DocumentType: str(md, "tipo_documento")}
		match = &h
	}

	var parent *Hit
	if pd, ok := resp["parent"].(map[string]any); ok {
		h := parseLookupHit(pd)
		parent = &h
	}

	var siblings []Hit
	for _, raw := range asSlice(resp["siblings"]) {
		sd, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		h := parseLookupHit(sd)
		h.IsCurrent = boolean(sd, "is_current")
		siblings = append(siblings, h)
	}

	resolved, _ := resp["resolved"].(map[string]any)

	var candidates []LookupCandidate
	for _, raw := range asSlice(resp["candidates"]) {
		cd, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		candidates = append(candidates, LookupCandidate{
			DocumentID:    str(cd, "document_id"),
			NodeID:        str(cd, "node_id"),
			Text:          str(cd, "text"),
			TipoDocumento: str(cd, "tipo_documento"),
		})
	}

	return &LookupResult{
		Reference:  reference,
		Status:     strDefault(resp, "status", LookupNotFound),
		Message:    str(resp, "message"),
		Match:      match,
		Parent:     parent,
		Siblings:   siblings,
		Resolved:   resolved,
		Candidates: candidates,
		ElapsedMS:  flt(resp, "elapsed_ms"),
		Cached:     boolean(resp, "cached"),
		QueryID:    str(resp, "query_id"),
		Raw:        resp,
	}
}

func parseLookupHit(m map[string]any) Hit {
	return Hit{
		NodeID:     str(m, "node_id"),
		SpanID:     str(m, "span_id"),
		Text:       str(m, "text"),
		DeviceType: str(m, "device_type"),
	}
}

func parseHits(items []any) []Hit {
	var hits []Hit
	for _, raw := range items {
		item, ok := raw.(map[string]any)
		if !ok {
			continue
		}

		meta := Metadata{
			DocumentType:   str(item, "tipo_documento"),
			DocumentNumber: str(item, "numero"),
			Year:           num(item, "ano"),
			Article:        str(item, "article_number"),
			Paragraph:      str(item, "paragraph"),
			Item:           str(item, "inciso"),
			Orgao:          str(item, "orgao"),
			DeviceType:     str(item, "device_type"),
		}

		source := str(item, "source")
		if source == "" {
			source = meta.Label()
		}

		hits = append(hits, Hit{
			Text:     str(item, "text"),
			Score:    flt(item, "score"),
			Source:   source,
			Metadata: meta,
			ChunkID:  str(item, "chunk_id"),
			Context:  str(item, "context_header"),

			NotaEspecialista:  str(item, "nota_especialista"),
			JurisprudenciaTCU: str(item, "jurisprudencia_tcu"),
			AcordaoTCUKey:     str(item, "acordao_tcu_key"),
			AcordaoTCULink:    str(item, "acordao_tcu_link"),

			StitchedText:    str(item, "stitched_text"),
			PureRerankScore: fltPtr(item, "pure_rerank_score"),
			ParentNodeID:    str(item, "parent_node_id"),
			IsParent:        boolean(item, "is_parent"),
			IsSibling:       boolean(item, "is_sibling"),
			IsChildOfSeed:   boolean(item, "is_child_of_seed"),
			GraphBoost:      fltPtr(item, "graph_boost_applied"),
			CurationBoost:   fltPtr(item, "curation_boost_applied"),

			EvidenceURL:    str(item, "evidence_url"),
			DocumentURL:    str(item, "document_url"),
			SHA256Source:   str(item, "sha256_source"),
			PageNumber:     intPtr(item, "page_number"),
			CanonicalHash:  str(item, "canonical_hash"),
			CanonicalStart: intPtr(item, "canonical_start"),

			NodeID:        str(item, "node_id"),
			SpanID:        str(item, "span_id"),
			DocumentID:    str(item, "document_id"),
			DeviceType:    str(item, "device_type"),
			ArticleNumber: str(item, "article_number"),
			TipoDocumento: str(item, "tipo_documento"),

			OriginType:          str(item, "origin_type"),
			OriginReference:     str(item, "origin_reference"),
			OriginReferenceName: str(item, "origin_reference_name"),
			IsExternalMaterial:  boolean(item, "is_external_material"),
			Theme:               str(item, "theme"),
		})
	}
	return hits
}

// JSON decoding helpers. json.Unmarshal into map[string]any yields float64
// for every number, but hand-built test fixtures may carry int; both are
// accepted.

func asSlice(v any) []any {
	s, _ := v.([]any)
	return s
}

func str(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func strDefault(m map[string]any, key, fallback string) string {
	if s, ok := m[key].(string); ok && s != "" {
		return s
	}
	return fallback
}

func flt(m map[string]any, key string) float64 {
	switch v := m[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}

func fltPtr(m map[string]any, key string) *float64 {
	switch v := m[key].(type) {
	case float64:
		return &v
	case int:
		f := float64(v)
		return &f
	}
	return nil
}

func num(m map[string]any, key string) int {
	switch v := m[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return 0
}

func intDefault(m map[string]any, key string, fallback int) int {
	switch v := m[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return fallback
}

func intPtr(m map[string]any, key string) *int {
	switch v := m[key].(type) {
	case float64:
		n := int(v)
		return &n
	case int:
		n := v
		return &n
	}
	return nil
}

func boolean(m map[string]any, key string) bool {
	b, _ := m[key].(bool)
	return b
}

func strSlice(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
