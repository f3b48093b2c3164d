package payload

import "github.com/vectorgov/vectorgov-go/models"

// SchemaName is the stable structured-output name across all result kinds,
// so callers can dispatch response_format requests identically regardless of
// which endpoint produced the result.
const SchemaName = "resposta_juridica_vectorgov"

// SchemaWrapper is the structured-output envelope {name, strict, schema}.
type SchemaWrapper struct {
	Name   string         `json:"name"`
	Strict bool           `json:"strict"`
	Schema map[string]any `json:"schema"`
}

// ToolSchema is the tool_use flavor of the same contract.
type ToolSchema struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"input_schema"`
}

// ResponseSchema builds a strict JSON Schema whose dispositivo_id enum is
// restricted to exactly the span-ids present in the result. Any citation
// outside the enum is then a schema violation under constrained decoding,
// not merely a prompt suggestion. Returns nil when the result carries no
// citable provisions, so the caller can skip structured-output mode.
func ResponseSchema(result models.Result) *SchemaWrapper {
	if !hasDirectEvidence(result) {
		return nil
	}
	ids, _ := authorizedIDs(result)
	if len(ids) == 0 {
		return nil
	}

	// enum values must be their own slices: callers may mutate the maps.
	fundEnum := append([]string(nil), ids...)
	unusedEnum := append([]string(nil), ids...)

	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"resposta_direta": map[string]any{
				"type": "string",
				"description": "Resposta objetiva à pergunta em 1-3 frases, " +
					"baseada exclusivamente nos dispositivos fornecidos",
			},
			"fundamentacao": map[string]any{
				"type": "array",
				"description": "Lista de afirmações jurídicas, cada uma vinculada " +
					"a um dispositivo-fonte",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"afirmacao": map[string]any{
							"type":        "string",
							"description": "Afirmação jurídica baseada no dispositivo",
						},
						"dispositivo_id": map[string]any{
							"type":        "string",
							"enum":        fundEnum,
							"description": "ID do dispositivo (RESTRITO aos retornados na busca)",
						},
						"citacao_formatada": map[string]any{
							"type":        "string",
							"description": "Citação legível: Lei 14.133/2021, Art. 33, Inc. III",
						},
						"evidence_link": map[string]any{
							"type": []string{"string", "null"},
							"description": "URL de evidência do dispositivo para hiperlink " +
								"verificável. null se não disponível",
						},
					},
					"required":             []string{"afirmacao", "dispositivo_id", "citacao_formatada"},
					"additionalProperties": false,
				},
			},
			"observacoes_praticas": map[string]any{
				"type": []string{"string", "null"},
				"description": "Notas do especialista incorporadas. " +
					"null se não houver notas_especialista no XML",
			},
			"jurisprudencia_tcu": map[string]any{
				"type": []string{"string", "null"},
				"description": "Entendimento do TCU. " +
					"null se não houver jurisprudencia no XML",
			},
			"dispositivos_nao_utilizados": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "string",
					"enum": unusedEnum,
				},
				"description": "IDs dos dispositivos fornecidos que não foram " +
					"relevantes para a resposta",
			},
			"informacao_insuficiente": map[string]any{
				"type": "boolean",
				"description": "true se os dispositivos fornecidos não foram " +
					"suficientes para responder completamente",
			},
		},
		"required":             []string{"resposta_direta", "fundamentacao", "informacao_insuficiente"},
		"additionalProperties": false,
	}

	return &SchemaWrapper{Name: SchemaName, Strict: true, Schema: schema}
}

// hasDirectEvidence reports whether the result carries direct hits (search,
// hybrid) or a resolved match (lookup). Expansion data alone — expanded
// chunks, graph nodes, lookup candidates — never grounds an answer, so it
// never justifies a schema on its own.
func hasDirectEvidence(result models.Result) bool {
	switch r := result.(type) {
	case *models.HybridResult:
		return len(r.Hits) > 0
	case *models.LookupResult:
		return r.Match != nil
	case *models.SmartSearchResult:
		return len(r.Hits) > 0
	case *models.SearchResult:
		return len(r.Hits) > 0
	}
	return false
}

// AnthropicToolSchema re-wraps ResponseSchema for the tool_use convention.
// Returns nil under the same empty-result condition.
func AnthropicToolSchema(result models.Result) *ToolSchema {
	wrapper := ResponseSchema(result)
	if wrapper == nil {
		return nil
	}
	return &ToolSchema{
		Name: wrapper.Name,
		Description: "Gera uma resposta jurídica fundamentada nos dispositivos legais fornecidos. " +
			"Use APENAS as fontes listadas no enum de dispositivo_id.",
		InputSchema: wrapper.Schema,
	}
}
