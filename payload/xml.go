// Package payload serializes retrieval results into the formats a downstream
// LLM consumes: the structured XML knowledge package ("vectorgov_knowledge_package",
// seven narrative sections, three instruction levels), readable Markdown,
// chat messages, and a JSON Schema whose enum of citable ids is restricted to
// the provisions actually retrieved.
//
// Every builder is a pure function over an immutable result; the only shared
// state is a lazily built cache of the static instruction scaffolding, which
// is safe for concurrent use.
package payload

import (
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/beevik/etree"

	"github.com/vectorgov/vectorgov-go/models"
)

const (
	packageRoot    = "vectorgov_knowledge_package"
	packageVersion = "1.0"
	pipelineName   = "fenix"
)

// Instruction levels accepted by every XML builder.
const (
	LevelData         = "data"
	LevelInstructions = "instructions"
	LevelFull         = "full"
)

// ErrInvalidLevel reports an instruction level outside data/instructions/full.
var ErrInvalidLevel = errors.New("invalid instruction level")

func validateLevel(level string) error {
	switch level {
	case LevelData, LevelInstructions, LevelFull:
		return nil
	}
	return fmt.Errorf("%w: %q (use %q, %q or %q)",
		ErrInvalidLevel, level, LevelData, LevelInstructions, LevelFull)
}

// deviceTypeLabels maps API device types to the XML type labels.
var deviceTypeLabels = map[string]string{
	"article":   "artigo",
	"paragraph": "paragrafo",
	"inciso":    "inciso",
	"alinea":    "alinea",
}

// BuildSearchXML serializes a search (or smart-search) result into the
// knowledge package. All data sections appear at every level, with empty
// sections omitted entirely; the level only decides which instruction block
// precedes them.
func BuildSearchXML(r *models.SearchResult, level string) (string, error) {
	if err := validateLevel(level); err != nil {
		return "", err
	}

	doc := etree.NewDocument()
	root := doc.CreateElement(packageRoot)
	root.CreateAttr("version", packageVersion)
	root.CreateAttr("level", level)

	appendInstructionBlock(root, level, r)

	buildConsulta(root, r)
	buildBaseNormativa(root, r.Hits)
	if len(r.ExpandedChunks) > 0 {
		buildContextoNormativo(root, r.ExpandedChunks)
	}
	buildNotasEspecialista(root, r.Hits)
	buildJurisprudencia(root, r.Hits)
	buildTrilhaVerificavel(root, r.Hits)
	buildMetadados(root, r)

	doc.Indent(2)
	return doc.WriteToString()
}

// appendInstructionBlock inserts the instruction sibling ahead of the data
// sections. The full level additionally receives the per-result response
// contract (whitelist + evidence map).
func appendInstructionBlock(root *etree.Element, level string, result models.Result) {
	switch level {
	case LevelInstructions:
		root.AddChild(instructionScaffold(LevelInstructions))
	case LevelFull:
		ic := instructionScaffold(LevelFull)
		ids, evidence := authorizedIDs(result)
		buildContratoResposta(ic, ids, evidence)
		root.AddChild(ic)
	}
}

// scaffoldCache holds the static (data-independent) instruction trees, one
// per level, built on first use. A racing rebuild is harmless: the output is
// deterministic and LoadOrStore keeps a single winner.
var scaffoldCache sync.Map

func instructionScaffold(level string) *etree.Element {
	if cached, ok := scaffoldCache.Load(level); ok {
		return cached.(*etree.Element).Copy()
	}
	built := buildScaffold(level)
	actual, _ := scaffoldCache.LoadOrStore(level, built)
	return actual.(*etree.Element).Copy()
}

func buildScaffold(level string) *etree.Element {
	if level == LevelInstructions {
		instrucoes := etree.NewElement("instrucoes")
		for _, regra := range instrucoesRegras {
			instrucoes.CreateElement("regra").SetText(regra)
		}
		return instrucoes
	}

	ic := etree.NewElement("instrucoes_completas")
	ic.CreateElement("papel").SetText(papelText)

	aa := ic.CreateElement("anti_alucinacao")
	for _, rule := range antiAlucinacaoRegras {
		regra := aa.CreateElement("regra")
		regra.CreateAttr("prioridade", rule.Prioridade)
		regra.SetText(rule.Texto)
	}

	fc := ic.CreateElement("formato_citacao")
	for _, texto := range formatoCitacaoRegras {
		fc.CreateElement("regra").SetText(texto)
	}

	er := ic.CreateElement("estrutura_resposta")
	for _, texto := range estruturaRespostaRegras {
		er.CreateElement("regra").SetText(texto)
	}

	mgd := ic.CreateElement("modo_geracao_documento")
	mgd.CreateAttr("condition", modoGeracaoDocCondition)
	for _, texto := range modoGeracaoDocRegras {
		mgd.CreateElement("regra").SetText(texto)
	}

	return ic
}

// buildContratoResposta appends the dynamic response contract: mandatory
// format, the per-result span-id whitelist, the evidence map and the final
// self-check. This is the anti-hallucination core and is rebuilt fresh for
// every result so it can never be stale.
func buildContratoResposta(parent *etree.Element, ids []string, evidence []evidenceEntry) {
	cr := parent.CreateElement("contrato_resposta")
	cr.CreateElement("formato_obrigatorio").SetText(formatoObrigatorioText)

	if len(ids) > 0 {
		cr.CreateElement("dispositivos_autorizados").SetText(
			dispositivosAutorizadosPreamble + joinIDs(ids))
	}

	if len(evidence) > 0 {
		text := ""
		for i, e := range evidence {
			if i > 0 {
				text += "\n"
			}
			text += e.spanID + " → " + e.url
		}
		cr.CreateElement("mapa_evidencias").SetText(text)
	}

	cr.CreateElement("verificacao_final").SetText(verificacaoFinalText)
}

func joinIDs(ids []string) string {
	out := ""
	for i, id := range ids {
		if i > 0 {
			out += ", "
		}
		out += id
	}
	return out
}

// Section 1: <consulta>.
func buildConsulta(root *etree.Element, r *models.SearchResult) {
	consulta := root.CreateElement("consulta")
	consulta.CreateElement("query_original").SetText(r.Query)

	// Passthrough contract: an absent rewritten_query falls back to the
	// original query, but a present empty one is emitted as-is.
	interpreted := r.Query
	if qi, ok := r.Raw["query_interpretation"].(map[string]any); ok {
		if raw, present := qi["rewritten_query"]; present {
			if rewritten, ok := raw.(string); ok {
				interpreted = rewritten
			}
		}
	}
	consulta.CreateElement("query_interpretada").SetText(interpreted)

	consulta.CreateElement("confianca_global").SetText(fmt.Sprintf("%.4f", Confidence(r.Hits)))
	consulta.CreateElement("estrategia").SetText(r.Mode)
}

// Section 2: <base_normativa>, hits grouped by source, omitted when empty.
func buildBaseNormativa(root *etree.Element, hits []models.Hit) {
	if len(hits) == 0 {
		return
	}

	base := root.CreateElement("base_normativa")
	for _, group := range GroupBySource(hits) {
		fonte := base.CreateElement("fonte")
		fonte.CreateAttr("lei", group.Lei)
		fonte.CreateAttr("tipo", group.Tipo)
		fonte.CreateAttr("relevancia", "direta")

		for _, hit := range group.Hits {
			buildDispositivo(fonte, hit)
		}
	}
}

func buildDispositivo(fonte *etree.Element, hit models.Hit) {
	disp := fonte.CreateElement("dispositivo")
	disp.CreateAttr("id", models.SpanFromChunkID(hit.ChunkID))
	disp.CreateAttr("tipo", dispositivoTipo(hit.Metadata))

	if hit.Metadata.Article != "" {
		disp.CreateAttr("artigo", hit.Metadata.Article)
	}

	// Consolidated articles are synthesized rather than individually
	// scored, so the score attribute carries a marker instead of a number.
	if hit.Metadata.DeviceType == "article_consolidated" {
		disp.CreateAttr("score", "consolidado")
	} else {
		disp.CreateAttr("score", fmt.Sprintf("%.4f", hit.Score))
	}

	if hit.ChunkID != "" {
		disp.CreateAttr("evidence_url", EvidenceURL(hit.ChunkID))
	}
	if hit.PureRerankScore != nil {
		disp.CreateAttr("score_rerank", fmt.Sprintf("%.4f", *hit.PureRerankScore))
	}

	if hit.OriginType != "" && hit.OriginType != "self" {
		disp.CreateAttr("origem", "referencia_cruzada")
		if hit.OriginReference != "" {
			disp.CreateAttr("origem_ref", hit.OriginReference)
		}
	}

	disp.SetText(hit.DisplayText())
}

func dispositivoTipo(m models.Metadata) string {
	switch {
	case m.DeviceType == "article_consolidated":
		return "artigo_consolidado"
	case m.DeviceType != "":
		if label, ok := deviceTypeLabels[m.DeviceType]; ok {
			return label
		}
		return m.DeviceType
	case m.Item != "":
		return "inciso"
	case m.Paragraph != "":
		return "paragrafo"
	case m.Article != "":
		return "artigo"
	}
	return "dispositivo"
}

// Section 3: <contexto_normativo>, citation-expanded provisions.
func buildContextoNormativo(root *etree.Element, chunks []models.ExpandedChunk) {
	ctx := root.CreateElement("contexto_normativo")
	for _, ec := range chunks {
		disp := ctx.CreateElement("dispositivo_relacionado")
		disp.CreateAttr("id", ec.SpanID)
		disp.CreateAttr("lei", ec.DocumentID)
		disp.CreateAttr("relacao", ec.Relacao)
		disp.CreateAttr("hop", strconv.Itoa(ec.Hop))
		disp.SetText(ec.Text)
	}
}

// Section 4: <notas_especialista>, omitted when no hit carries a note.
func buildNotasEspecialista(root *etree.Element, hits []models.Hit) {
	var section *etree.Element
	for _, hit := range hits {
		if hit.NotaEspecialista == "" {
			continue
		}
		if section == nil {
			section = root.CreateElement("notas_especialista")
		}
		nota := section.CreateElement("nota")
		nota.CreateAttr("dispositivo_ref", models.SpanFromChunkID(hit.ChunkID))
		nota.SetText(hit.NotaEspecialista)
	}
}

// Section 5: <jurisprudencia>, omitted when no hit carries TCU case law.
func buildJurisprudencia(root *etree.Element, hits []models.Hit) {
	var section *etree.Element
	for _, hit := range hits {
		if hit.JurisprudenciaTCU == "" {
			continue
		}
		if section == nil {
			section = root.CreateElement("jurisprudencia")
		}
		ac := section.CreateElement("acordao")
		ac.CreateAttr("dispositivo_ref", models.SpanFromChunkID(hit.ChunkID))
		if hit.AcordaoTCUKey != "" {
			ac.CreateAttr("chave", hit.AcordaoTCUKey)
		}
		if hit.AcordaoTCULink != "" {
			ac.CreateAttr("link", hit.AcordaoTCULink)
		}
		ac.SetText(hit.JurisprudenciaTCU)
	}
}

// Section 6: <trilha_verificavel>, evidence links back to the source PDFs.
func buildTrilhaVerificavel(root *etree.Element, hits []models.Hit) {
	var section *etree.Element
	for _, hit := range hits {
		if hit.ChunkID == "" {
			continue
		}
		if section == nil {
			section = root.CreateElement("trilha_verificavel")
		}
		ev := section.CreateElement("evidencia")
		ev.CreateAttr("dispositivo_ref", models.SpanFromChunkID(hit.ChunkID))
		ev.CreateAttr("url", EvidenceURL(hit.ChunkID))
		if hit.PageNumber != nil {
			ev.CreateAttr("pagina", strconv.Itoa(*hit.PageNumber))
		}
		if hit.CanonicalHash != "" {
			ev.CreateAttr("hash", hit.CanonicalHash)
		}
	}
}

// Section 7: <metadados>, operational transparency.
func buildMetadados(root *etree.Element, r *models.SearchResult) {
	meta := root.CreateElement("metadados")
	meta.CreateElement("pipeline").SetText(pipelineName)
	meta.CreateElement("tempo_total_ms").SetText(strconv.Itoa(r.LatencyMS))

	reranker := true
	if v, ok := r.Raw["reranker"].(bool); ok {
		reranker = v
	}
	meta.CreateElement("reranker").SetText(strconv.FormatBool(reranker))

	meta.CreateElement("grafo_expandido").SetText(strconv.FormatBool(len(r.ExpandedChunks) > 0))
	meta.CreateElement("cache_hit").SetText(strconv.FormatBool(r.Cached))
	meta.CreateElement("query_id").SetText(r.QueryID)

	if es := r.ExpansionStats; es != nil {
		exp := meta.CreateElement("expansao")
		exp.CreateElement("expandidos").SetText(strconv.Itoa(es.ExpandedChunksCount))
		exp.CreateElement("citacoes_encontradas").SetText(strconv.Itoa(es.CitationsScannedCount))
		exp.CreateElement("citacoes_resolvidas").SetText(strconv.Itoa(es.CitationsResolvedCount))
		exp.CreateElement("tempo_ms").SetText(fmt.Sprintf("%.0f", es.ExpansionTimeMS))
	}
}
