package payload

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vectorgov/vectorgov-go/models"
)

// SourceGroup collects the hits of one normative document.
type SourceGroup struct {
	// Key is "{DOCTYPE}|{number}|{year}" with the type uppercased.
	Key string
	// Lei is the "number/year" attribute value, e.g. "14133/2021".
	Lei string
	// Tipo is the uppercased document type, e.g. "LEI".
	Tipo string
	// Hits are ordered by score descending; ties break on canonical_start
	// ascending so output is deterministic. A hit without canonical_start
	// sorts after every hit that has one.
	Hits []models.Hit
}

// GroupBySource groups hits by normative source, preserving the order in
// which each source first appears. The server's overall relevance ranking
// decides source order; reranking applies only within a group.
func GroupBySource(hits []models.Hit) []SourceGroup {
	var groups []SourceGroup
	index := make(map[string]int)

	for _, hit := range hits {
		m := hit.Metadata
		docType := strings.ToUpper(m.DocumentType)
		if docType == "" {
			docType = "DOC"
		}
		docNum := m.DocumentNumber
		if docNum == "" {
			docNum = "?"
		}
		docYear := "?"
		if m.Year != 0 {
			docYear = fmt.Sprintf("%d", m.Year)
		}
		key := docType + "|" + docNum + "|" + docYear

		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, SourceGroup{
				Key:  key,
				Lei:  docNum + "/" + docYear,
				Tipo: docType,
			})
		}
		groups[i].Hits = append(groups[i].Hits, hit)
	}

	for i := range groups {
		sortHitsByScore(groups[i].Hits)
	}
	return groups
}

func sortHitsByScore(hits []models.Hit) {
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return canonicalStart(hits[i]) < canonicalStart(hits[j])
	})
}

// canonicalStart treats a missing offset as larger than any real one, so
// score-tied hits without it sort last.
func canonicalStart(h models.Hit) int64 {
	if h.CanonicalStart == nil {
		return int64(1) << 62
	}
	return int64(*h.CanonicalStart)
}
