package payload

import (
	"fmt"
	"math"
	"strings"

	"github.com/vectorgov/vectorgov-go/models"
)

// Confidence derives a global confidence score in [0,1] from hit scores:
// a weighted average with weight = score², a 20% penalty when fewer than two
// hits support the answer, and a flat +0.05 bonus when the top hit exceeds
// 0.9. The result is rounded to four decimals. No hits, or all-zero scores,
// yield 0. Hybrid results carry a server-supplied confidence instead; this
// function is for the search path only.
func Confidence(hits []models.Hit) float64 {
	if len(hits) == 0 {
		return 0
	}

	var weighted, totalWeight float64
	for _, h := range hits {
		w := h.Score * h.Score
		weighted += h.Score * w
		totalWeight += w
	}
	if totalWeight == 0 {
		return 0
	}

	confidence := weighted / totalWeight
	if len(hits) < 2 {
		confidence *= 0.8
	}
	if hits[0].Score > 0.9 {
		confidence = math.Min(1, confidence+0.05)
	}

	confidence = math.Min(1, math.Max(0, confidence))
	return math.Round(confidence*10000) / 10000
}

// NormativeTrail lists the cited normative sources as "DOCTYPE number/year",
// deduplicated in first-seen order. Missing fields render as "DOC" or "?".
func NormativeTrail(hits []models.Hit) []string {
	seen := make(map[string]struct{})
	var trail []string

	for _, h := range hits {
		m := h.Metadata
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
		name := fmt.Sprintf("%s %s/%s", docType, docNum, docYear)

		if _, ok := seen[name]; !ok {
			seen[name] = struct{}{}
			trail = append(trail, name)
		}
	}
	return trail
}
