package payload

import (
	"fmt"
	"strings"

	"github.com/vectorgov/vectorgov-go/models"
)

// Markdown renders any result kind as readable Markdown for humans and
// chat UIs. Dispatch mirrors Serialize.
func Markdown(result models.Result) (string, error) {
	switch r := result.(type) {
	case *models.HybridResult:
		return HybridMarkdown(r), nil
	case *models.LookupResult:
		return LookupMarkdown(r), nil
	case *models.SmartSearchResult:
		return SearchMarkdown(&r.SearchResult), nil
	case *models.SearchResult:
		return SearchMarkdown(r), nil
	}
	return "", fmt.Errorf("%w: %T (use *models.SearchResult, *models.HybridResult or *models.LookupResult)",
		ErrUnsupportedResult, result)
}

func yesNo(b bool) string {
	if b {
		return "sim"
	}
	return "não"
}

// SearchMarkdown renders a search result: header, ranked provisions with
// expert notes and case law as blockquotes, citation-expanded excerpts, and
// an expansion-stats footer.
func SearchMarkdown(r *models.SearchResult) string {
	var parts []string

	parts = append(parts, fmt.Sprintf("# Resultados para: %s\n", r.Query))
	parts = append(parts, fmt.Sprintf("**Modo:** %s | **Latência:** %dms | **Cache:** %s\n",
		r.Mode, r.LatencyMS, yesNo(r.Cached)))

	if len(r.Hits) == 0 {
		parts = append(parts, "_Nenhum resultado encontrado._\n")
		return strings.Join(parts, "\n")
	}

	parts = append(parts, "## Dispositivos\n")
	for i, hit := range r.Hits {
		parts = append(parts, fmt.Sprintf("### [%d] %s (score: %.3f)\n", i+1, hit.Source, hit.Score))
		parts = append(parts, hit.Text+"\n")

		if hit.NotaEspecialista != "" {
			parts = append(parts, fmt.Sprintf("> **Nota do Especialista:** %s\n", hit.NotaEspecialista))
		}
		if hit.JurisprudenciaTCU != "" {
			line := fmt.Sprintf("> **Jurisprudência TCU:** %s", hit.JurisprudenciaTCU)
			if hit.AcordaoTCULink != "" {
				line += fmt.Sprintf(" ([link](%s))", hit.AcordaoTCULink)
			}
			parts = append(parts, line+"\n")
		}
	}

	if len(r.ExpandedChunks) > 0 {
		parts = append(parts, "## Trechos Citados (expansão por citação)\n")
		for j, ec := range r.ExpandedChunks {
			source := ec.SourceChunkID
			if source == "" {
				source = "(origem não informada)"
			}
			parts = append(parts, fmt.Sprintf("### [XC-%d] %s, %s\n", j+1, ec.DocumentID, ec.SpanID))
			parts = append(parts, fmt.Sprintf("- **Citado por:** %s\n", source))
			if ec.SourceCitationRaw != "" {
				parts = append(parts, fmt.Sprintf("- **Citação original:** %s\n", ec.SourceCitationRaw))
			}
			parts = append(parts, "\n"+ec.Text+"\n")
		}
	}

	if s := r.ExpansionStats; s != nil {
		parts = append(parts, fmt.Sprintf(
			"\n---\n_Expansão: %d expandidos, %d encontradas, %d resolvidas, %.0fms_\n",
			s.ExpandedChunksCount, s.CitationsScannedCount, s.CitationsResolvedCount, s.ExpansionTimeMS))
	}

	return strings.Join(parts, "\n")
}

// HybridMarkdown renders a hybrid result: direct evidence first, then the
// graph-expanded provisions with their hop and frequency.
func HybridMarkdown(r *models.HybridResult) string {
	var parts []string

	parts = append(parts, fmt.Sprintf("# Resultados Híbridos para: %s\n", r.Query))
	parts = append(parts, fmt.Sprintf("**Modo:** %s | **Confiança:** %.3f | **Tempo:** %.0fms | **Cache:** %s\n",
		r.Mode, r.Confidence, r.SearchTimeMS, yesNo(r.Cached)))

	if r.HydeUsed {
		parts = append(parts, "**HyDE:** ativo\n")
	}
	if r.DocFilterActive && r.DocFilterDetectedDocID != "" {
		parts = append(parts, fmt.Sprintf("**Doc Foco:** %s\n", r.DocFilterDetectedDocID))
	}

	if len(r.Hits) == 0 {
		parts = append(parts, "_Nenhum resultado encontrado._\n")
		return strings.Join(parts, "\n")
	}

	parts = append(parts, "## Evidências Diretas\n")
	for i, hit := range r.Hits {
		parts = append(parts, fmt.Sprintf("### [%d] %s (score: %.3f)\n", i+1, hit.Source, hit.Score))
		parts = append(parts, hit.DisplayText()+"\n")
		if hit.NotaEspecialista != "" {
			parts = append(parts, fmt.Sprintf("> **Nota do Especialista:** %s\n", hit.NotaEspecialista))
		}
		if hit.JurisprudenciaTCU != "" {
			parts = append(parts, fmt.Sprintf("> **Jurisprudência TCU:** %s\n", hit.JurisprudenciaTCU))
		}
	}

	if len(r.GraphNodes) > 0 {
		parts = append(parts, "## Expansão via Grafo\n")
		for j, node := range r.GraphNodes {
			parts = append(parts, fmt.Sprintf("### [G-%d] %s, %s (hop=%d, freq=%d)\n",
				j+1, node.DocumentID, node.SpanID, node.Hop, node.Frequency))
			parts = append(parts, node.Text+"\n")
		}
	}

	return strings.Join(parts, "\n")
}

// LookupMarkdown renders a lookup result: the resolved reference, the main
// provision with its hierarchy when found, or the candidate list when the
// reference was ambiguous.
func LookupMarkdown(r *models.LookupResult) string {
	var parts []string

	parts = append(parts, fmt.Sprintf("# Lookup: %s\n", r.Reference))
	parts = append(parts, fmt.Sprintf("**Status:** %s | **Tempo:** %.0fms\n", r.Status, r.ElapsedMS))

	if r.Message != "" {
		parts = append(parts, fmt.Sprintf("_%s_\n", r.Message))
	}

	if len(r.Resolved) > 0 {
		var comp []string
		if v, ok := r.Resolved["device_type"].(string); ok && v != "" {
			comp = append(comp, "Tipo: "+v)
		}
		if v, ok := r.Resolved["article_number"].(string); ok && v != "" {
			comp = append(comp, "Art. "+v)
		}
		if v, ok := r.Resolved["inciso_number"].(string); ok && v != "" {
			comp = append(comp, "Inc. "+v)
		}
		if v, ok := r.Resolved["resolved_document_id"].(string); ok && v != "" {
			comp = append(comp, "Doc: "+v)
		}
		if len(comp) > 0 {
			parts = append(parts, fmt.Sprintf("**Resolvido:** %s\n", strings.Join(comp, ", ")))
		}
	}

	if r.Status == models.LookupFound && r.Match != nil {
		parts = append(parts, "## Dispositivo Principal\n")
		parts = append(parts, fmt.Sprintf("**%s** (%s)\n", r.Match.SpanID, r.Match.DeviceType))
		parts = append(parts, r.Match.Text+"\n")

		if r.Parent != nil {
			parts = append(parts, "## Artigo Pai\n")
			parts = append(parts, fmt.Sprintf("**%s** (%s)\n", r.Parent.SpanID, r.Parent.DeviceType))
			parts = append(parts, r.Parent.Text+"\n")
		}

		if len(r.Siblings) > 0 {
			parts = append(parts, "## Dispositivos Irmãos\n")
			for _, sib := range r.Siblings {
				marker := "  "
				if sib.IsCurrent {
					marker = "**>**"
				}
				parts = append(parts, fmt.Sprintf("%s **%s** — %s...\n", marker, sib.SpanID, truncate(sib.Text, 80)))
			}
		}
	}

	if r.Status == models.LookupAmbiguous && len(r.Candidates) > 0 {
		parts = append(parts, "## Candidatos\n")
		for _, cand := range r.Candidates {
			parts = append(parts, fmt.Sprintf("- **%s** (%s): %s...\n",
				cand.DocumentID, cand.NodeID, truncate(cand.Text, 80)))
		}
	}

	return strings.Join(parts, "\n")
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
