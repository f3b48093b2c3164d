package payload

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/vectorgov/vectorgov-go/models"
)

// SystemPrompts are the stock system prompts for the legacy plain-text path.
// Callers can pass their own prompt instead; these cover the common cases.
var SystemPrompts = map[string]string{
	"default": "Você é um assistente jurídico especializado em licitações e contratos " +
		"administrativos. Responda com base exclusivamente no contexto fornecido, " +
		"citando sempre o dispositivo legal que fundamenta cada afirmação. " +
		"Se o contexto não for suficiente, diga isso explicitamente.",
	"concise": "Você é um assistente jurídico. Responda de forma direta e objetiva, " +
		"em poucas frases, com base exclusivamente no contexto fornecido.",
	"detailed": "Você é um consultor jurídico sênior especializado em direito " +
		"administrativo. Produza uma análise completa e estruturada com base " +
		"exclusivamente no contexto fornecido: resposta direta, fundamentação " +
		"dispositivo a dispositivo, observações práticas e ressalvas.",
	"chatbot": "Você é um atendente virtual que responde dúvidas sobre licitações e " +
		"contratos em linguagem acessível, sempre com base no contexto fornecido " +
		"e citando a norma de origem.",
}

// ContextOptions controls the legacy plain-text context rendering.
type ContextOptions struct {
	// MaxChars caps the context length, counted in characters (runes), not
	// bytes. 0 means unlimited. Entries that would cross the cap are dropped
	// whole, never truncated mid-text.
	MaxChars int
	// IncludeExpanded adds the citation-expanded excerpts section.
	IncludeExpanded bool
	// IncludeStats appends the expansion-stats summary line.
	IncludeStats bool
}

// DefaultContextOptions matches the historical behavior: everything in, no cap.
func DefaultContextOptions() ContextOptions {
	return ContextOptions{IncludeExpanded: true, IncludeStats: true}
}

// Context renders the legacy flat plain-text context block: direct evidence
// first, then citation-expanded excerpts, each clearly labeled so the model
// can prioritize direct evidence.
func Context(r *models.SearchResult, opts ContextOptions) string {
	var parts []string
	totalChars := 0

	headerDirect := "=== EVIDÊNCIA DIRETA (resultados da busca) ==="
	parts = append(parts, headerDirect)
	totalChars += utf8.RuneCountInString(headerDirect) + 1

	for i, hit := range r.Hits {
		entry := fmt.Sprintf("[%d] %s\n%s", i+1, hit.Source, hit.Text)
		if hit.NotaEspecialista != "" {
			entry += "\n[Nota do Especialista]: " + hit.NotaEspecialista
		}
		if hit.JurisprudenciaTCU != "" {
			entry += "\n[Jurisprudência TCU]: " + hit.JurisprudenciaTCU
			if hit.AcordaoTCULink != "" {
				entry += "\n[Link Acórdão]: " + hit.AcordaoTCULink
			}
		}
		entry += "\n"

		entryChars := utf8.RuneCountInString(entry)
		if opts.MaxChars > 0 && totalChars+entryChars > opts.MaxChars {
			break
		}
		parts = append(parts, entry)
		totalChars += entryChars
	}

	if opts.IncludeExpanded && len(r.ExpandedChunks) > 0 {
		separator := "\n=== TRECHOS CITADOS (expansão por citação) ==="
		parts = append(parts, separator)
		totalChars += utf8.RuneCountInString(separator) + 1

		for j, ec := range r.ExpandedChunks {
			sourceChunk := ec.SourceChunkID
			if sourceChunk == "" {
				sourceChunk = "(origem não informada)"
			}
			citationRaw := ec.SourceCitationRaw
			if citationRaw == "" {
				citationRaw = "(citação não informada)"
			}
			nodeID := ec.NodeID
			if nodeID == "" {
				nodeID = "(node_id não informado)"
			}
			deviceType := ec.DeviceType
			if deviceType == "" {
				deviceType = "unknown"
			}

			entry := strings.Join([]string{
				fmt.Sprintf("[XC-%d] TRECHO CITADO (expansão por citação)", j+1),
				"  CITADO POR: " + sourceChunk,
				"  CITAÇÃO ORIGINAL: " + citationRaw,
				"  ALVO (node_id): " + nodeID,
				fmt.Sprintf("  FONTE: %s, %s (%s)", ec.DocumentID, ec.SpanID, deviceType),
				ec.Text,
				"",
			}, "\n")

			entryChars := utf8.RuneCountInString(entry)
			if opts.MaxChars > 0 && totalChars+entryChars > opts.MaxChars {
				break
			}
			parts = append(parts, entry)
			totalChars += entryChars
		}

		if opts.IncludeStats && r.ExpansionStats != nil {
			s := r.ExpansionStats
			statsLine := fmt.Sprintf(
				"\n[Expansão: encontradas=%d, resolvidas=%d, expandidas=%d, tempo=%.0fms]",
				s.CitationsScannedCount, s.CitationsResolvedCount,
				s.ExpandedChunksCount, s.ExpansionTimeMS)
			if opts.MaxChars == 0 || totalChars+utf8.RuneCountInString(statsLine) <= opts.MaxChars {
				parts = append(parts, statsLine)
			}
		}
	}

	return strings.Join(parts, "\n")
}

// LegacyMessages builds the no-level chat form: the system prompt and a user
// message embedding the plain-text context ahead of the question.
func LegacyMessages(r *models.SearchResult, query, systemPrompt string, maxContextChars int) []Message {
	if query == "" {
		query = r.Query
	}
	if systemPrompt == "" {
		systemPrompt = SystemPrompts["default"]
	}
	opts := DefaultContextOptions()
	opts.MaxChars = maxContextChars
	context := Context(r, opts)

	return []Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: fmt.Sprintf("Contexto:\n%s\n\nPergunta: %s", context, query)},
	}
}

// LegacyPrompt builds the no-level single-string form.
func LegacyPrompt(r *models.SearchResult, query, systemPrompt string, maxContextChars int) string {
	if query == "" {
		query = r.Query
	}
	if systemPrompt == "" {
		systemPrompt = SystemPrompts["default"]
	}
	opts := DefaultContextOptions()
	opts.MaxChars = maxContextChars
	context := Context(r, opts)

	return fmt.Sprintf("%s\n\nContexto:\n%s\n\nPergunta: %s\n\nResposta:", systemPrompt, context, query)
}
