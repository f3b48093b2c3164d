package vectorgov

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/vectorgov/vectorgov-go/internal/apierr"
)

const (
	minQueryRunes = 3
	maxQueryRunes = 1000

	maxSearchTopK = 50
	maxHybridTopK = 20

	minDocumentYear = 1900
	maxDocumentYear = 2100
)

const apiKeyPrefix = "vg_"

var documentTypes = map[string]bool{
	"LEI":       true,
	"DECRETO":   true,
	"IN":        true,
	"PORTARIA":  true,
	"RESOLUCAO": true,
}

var auditSeverities = map[string]bool{
	"info":     true,
	"warning":  true,
	"critical": true,
}

var auditCategories = map[string]bool{
	"security":    true,
	"performance": true,
	"validation":  true,
}

func validationErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", apierr.ErrValidation, fmt.Sprintf(format, args...))
}

// validateQuery trims surrounding whitespace and checks the length bounds
// the API enforces, so bad input fails before a request goes out.
func validateQuery(query string) (string, error) {
	q := strings.TrimSpace(query)
	n := utf8.RuneCountInString(q)
	if n < minQueryRunes || n > maxQueryRunes {
		return "", validationErr("query must have between %d and %d characters, got %d", minQueryRunes, maxQueryRunes, n)
	}
	return q, nil
}

func validateTopK(topK, fallback, max int) (int, error) {
	if topK == 0 {
		return fallback, nil
	}
	if topK < 1 || topK > max {
		return 0, validationErr("top_k must be between 1 and %d, got %d", max, topK)
	}
	return topK, nil
}

func validateHops(hops int) (int, error) {
	if hops == 0 {
		return 2, nil
	}
	if hops != 1 && hops != 2 {
		return 0, validationErr("hops must be 1 or 2, got %d", hops)
	}
	return hops, nil
}

func validateAPIKey(key string) error {
	if key == "" {
		return validationErr("api key missing: pass it to New or set %s", envAPIKeyName)
	}
	if !strings.HasPrefix(key, apiKeyPrefix) {
		return validationErr("api key must start with %q", apiKeyPrefix)
	}
	return nil
}

func validateDocumentType(tipo string) error {
	if !documentTypes[tipo] {
		return validationErr("tipo_documento %q is not one of LEI, DECRETO, IN, PORTARIA, RESOLUCAO", tipo)
	}
	return nil
}

func validateYear(ano int) error {
	if ano < minDocumentYear || ano > maxDocumentYear {
		return validationErr("ano must be between %d and %d, got %d", minDocumentYear, maxDocumentYear, ano)
	}
	return nil
}

func validatePage(page, limit int) (int, int, error) {
	if page == 0 {
		page = 1
	}
	if limit == 0 {
		limit = 50
	}
	if page < 1 {
		return 0, 0, validationErr("page must be >= 1, got %d", page)
	}
	if limit < 1 || limit > 100 {
		return 0, 0, validationErr("limit must be between 1 and 100, got %d", limit)
	}
	return page, limit, nil
}

func validateAuditFilters(severity, category string) error {
	if severity != "" && !auditSeverities[severity] {
		return validationErr("severity %q is not one of info, warning, critical", severity)
	}
	if category != "" && !auditCategories[category] {
		return validationErr("event_category %q is not one of security, performance, validation", category)
	}
	return nil
}

func validateAuditDays(days int) (int, error) {
	if days == 0 {
		return 30, nil
	}
	if days < 1 || days > 90 {
		return 0, validationErr("days must be between 1 and 90, got %d", days)
	}
	return days, nil
}
