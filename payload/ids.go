package payload

import (
	"strings"

	"github.com/vectorgov/vectorgov-go/models"
)

// evidencePathPrefix is the sole hardcoded route the payload layer emits.
// It must match the evidence-retrieval service's routing exactly.
const evidencePathPrefix = "/api/v1/evidence/"

// EvidenceURL builds the canonical evidence link for a chunk id. The whole
// id is percent-encoded, including the # separator (as %23).
func EvidenceURL(chunkID string) string {
	return evidencePathPrefix + encodeComponent(chunkID)
}

// encodeComponent percent-encodes everything outside the RFC 3986 unreserved
// set. url.PathEscape is not enough here: it leaves sub-delimiters like "$"
// and "&" bare, and the evidence route expects them encoded.
func encodeComponent(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9',
			c == '-', c == '_', c == '.', c == '~':
			b.WriteByte(c)
		default:
			b.WriteByte('%')
			b.WriteByte(upperhex[c>>4])
			b.WriteByte(upperhex[c&0x0f])
		}
	}
	return b.String()
}

const upperhex = "0123456789ABCDEF"

// spanRef pairs a provision's span-id with the chunk id its evidence URL is
// derived from. Graph nodes and lookup hits carry the span-id explicitly;
// search hits derive it from the chunk id.
type spanRef struct {
	spanID  string
	chunkID string
}

type evidenceEntry struct {
	spanID string
	url    string
}

// collectIDs deduplicates span-ids preserving first-seen order and builds
// the parallel evidence map for refs that have a chunk id.
func collectIDs(refs []spanRef) ([]string, []evidenceEntry) {
	seen := make(map[string]struct{})
	var ids []string
	var evidence []evidenceEntry

	for _, ref := range refs {
		if ref.spanID == "" {
			continue
		}
		if _, ok := seen[ref.spanID]; ok {
			continue
		}
		seen[ref.spanID] = struct{}{}
		ids = append(ids, ref.spanID)
		if ref.chunkID != "" {
			evidence = append(evidence, evidenceEntry{spanID: ref.spanID, url: EvidenceURL(ref.chunkID)})
		}
	}
	return ids, evidence
}

func refsFromHits(hits []models.Hit) []spanRef {
	refs := make([]spanRef, 0, len(hits))
	for _, h := range hits {
		refs = append(refs, spanRef{spanID: models.SpanFromChunkID(h.ChunkID), chunkID: h.ChunkID})
	}
	return refs
}

func refsFromExpanded(chunks []models.ExpandedChunk) []spanRef {
	refs := make([]spanRef, 0, len(chunks))
	for _, ec := range chunks {
		refs = append(refs, spanRef{spanID: ec.SpanID, chunkID: ec.ChunkID})
	}
	return refs
}

func refsFromGraphNodes(nodes []models.Hit) []spanRef {
	refs := make([]spanRef, 0, len(nodes))
	for _, n := range nodes {
		refs = append(refs, spanRef{spanID: n.SpanID, chunkID: n.ChunkID})
	}
	return refs
}

func refsFromLookup(r *models.LookupResult) []spanRef {
	var refs []spanRef
	if r.Match != nil {
		refs = append(refs, spanRef{spanID: r.Match.SpanID, chunkID: r.Match.ChunkID})
	}
	if r.Parent != nil {
		refs = append(refs, spanRef{spanID: r.Parent.SpanID, chunkID: r.Parent.ChunkID})
	}
	for _, sib := range r.Siblings {
		refs = append(refs, spanRef{spanID: sib.SpanID, chunkID: sib.ChunkID})
	}
	return refs
}

// authorizedIDs collects the citable span-id whitelist for a result: hits
// plus expanded chunks for search, hits plus graph nodes for hybrid, and
// match/parent/siblings for lookup.
func authorizedIDs(result models.Result) ([]string, []evidenceEntry) {
	switch r := result.(type) {
	case *models.SmartSearchResult:
		return collectIDs(append(refsFromHits(r.Hits), refsFromExpanded(r.ExpandedChunks)...))
	case *models.SearchResult:
		return collectIDs(append(refsFromHits(r.Hits), refsFromExpanded(r.ExpandedChunks)...))
	case *models.HybridResult:
		return collectIDs(append(refsFromHits(r.Hits), refsFromGraphNodes(r.GraphNodes)...))
	case *models.LookupResult:
		return collectIDs(refsFromLookup(r))
	}
	return nil, nil
}
