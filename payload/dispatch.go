package payload

import (
	"errors"
	"fmt"

	"github.com/vectorgov/vectorgov-go/models"
)

// ErrUnsupportedResult reports a result kind the serializer does not handle.
var ErrUnsupportedResult = errors.New("unsupported result type")

// Serialize is the unified XML entry point: it detects the result kind and
// dispatches to the matching builder. Smart-search results reuse the search
// builder; they differ only in parsing, not in serialization.
func Serialize(result models.Result, level string) (string, error) {
	switch r := result.(type) {
	case *models.HybridResult:
		return BuildHybridXML(r, level)
	case *models.LookupResult:
		return BuildLookupXML(r, level)
	case *models.SmartSearchResult:
		return BuildSearchXML(&r.SearchResult, level)
	case *models.SearchResult:
		return BuildSearchXML(r, level)
	}
	return "", fmt.Errorf("%w: %T (use *models.SearchResult, *models.HybridResult or *models.LookupResult)",
		ErrUnsupportedResult, result)
}
