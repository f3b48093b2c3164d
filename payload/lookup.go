package payload

import (
	"strconv"

	"github.com/beevik/etree"

	"github.com/vectorgov/vectorgov-go/models"
)

// lookupAuthorizedPreamble deliberately omits the hallucination warning: a
// lookup package carries a single resolved provision plus its immediate
// hierarchy, so the shorter contract is enough.
const lookupAuthorizedPreamble = "Você SÓ pode citar os seguintes IDs:\n"

// BuildLookupXML serializes a direct-reference lookup. The package carries
// the resolved reference, the normative hierarchy (parent, principal,
// siblings) when found, and the disambiguation candidates when ambiguous.
func BuildLookupXML(r *models.LookupResult, level string) (string, error) {
	if err := validateLevel(level); err != nil {
		return "", err
	}

	doc := etree.NewDocument()
	root := doc.CreateElement(packageRoot)
	root.CreateAttr("version", packageVersion)
	root.CreateAttr("level", level)
	root.CreateAttr("endpoint", "lookup")

	switch level {
	case LevelInstructions:
		root.AddChild(instructionScaffold(LevelInstructions))
	case LevelFull:
		buildLookupInstrucoes(root, r)
	}

	buildLookupConsulta(root, r)

	if r.Status == models.LookupFound && r.Match != nil {
		buildHierarquiaNormativa(root, r)
	}
	if r.Status == models.LookupAmbiguous && len(r.Candidates) > 0 {
		buildCandidatos(root, r.Candidates)
	}

	meta := root.CreateElement("metadados")
	meta.CreateElement("pipeline").SetText(pipelineName)
	meta.CreateElement("tempo_total_ms").SetText(strconv.Itoa(int(r.ElapsedMS)))

	doc.Indent(2)
	return doc.WriteToString()
}

func buildLookupConsulta(root *etree.Element, r *models.LookupResult) {
	consulta := root.CreateElement("consulta")
	consulta.CreateElement("referencia_original").SetText(r.Reference)
	consulta.CreateElement("status").SetText(r.Status)

	if len(r.Resolved) == 0 {
		return
	}
	res := consulta.CreateElement("referencia_resolvida")
	for _, pair := range [...]struct{ key, attr string }{
		{"device_type", "device_type"},
		{"article_number", "artigo"},
		{"paragraph_number", "paragrafo"},
		{"inciso_number", "inciso"},
		{"alinea_letter", "alinea"},
		{"resolved_document_id", "documento"},
		{"resolved_span_id", "span_id"},
	} {
		if v, ok := r.Resolved[pair.key].(string); ok && v != "" {
			res.CreateAttr(pair.attr, v)
		}
	}
}

func buildHierarquiaNormativa(root *etree.Element, r *models.LookupResult) {
	hier := root.CreateElement("hierarquia_normativa")

	if r.Parent != nil {
		pai := hier.CreateElement("artigo_pai")
		pai.CreateAttr("id", r.Parent.SpanID)
		pai.CreateAttr("device_type", r.Parent.DeviceType)
		pai.SetText(r.Parent.Text)
	}

	disp := hier.CreateElement("dispositivo_principal")
	disp.CreateAttr("id", r.Match.SpanID)
	disp.CreateAttr("tipo", r.Match.DeviceType)
	if r.Match.ArticleNumber != "" {
		disp.CreateAttr("artigo", r.Match.ArticleNumber)
	}
	disp.SetText(r.Match.Text)

	if len(r.Siblings) > 0 {
		irmaos := hier.CreateElement("dispositivos_irmaos")
		for _, sib := range r.Siblings {
			el := irmaos.CreateElement("irmao")
			el.CreateAttr("id", sib.SpanID)
			el.CreateAttr("tipo", sib.DeviceType)
			el.CreateAttr("atual", strconv.FormatBool(sib.IsCurrent))
			el.SetText(sib.Text)
		}
	}
}

func buildCandidatos(root *etree.Element, candidates []models.LookupCandidate) {
	cands := root.CreateElement("candidatos")
	for _, cand := range candidates {
		el := cands.CreateElement("candidato")
		el.CreateAttr("document_id", cand.DocumentID)
		el.CreateAttr("node_id", cand.NodeID)
		if cand.TipoDocumento != "" {
			el.CreateAttr("tipo_documento", cand.TipoDocumento)
		}
		el.SetText(cand.Text)
	}
}

// buildLookupInstrucoes emits the reduced full-level block for lookup: role,
// anti-hallucination rules, the simplified citation contract and the final
// self-check. Citation-format and response-structure rules are meaningless
// for a single-provision answer and stay out.
func buildLookupInstrucoes(root *etree.Element, r *models.LookupResult) {
	ic := root.CreateElement("instrucoes_completas")
	ic.CreateElement("papel").SetText(papelText)

	aa := ic.CreateElement("anti_alucinacao")
	for _, rule := range antiAlucinacaoRegras {
		regra := aa.CreateElement("regra")
		regra.CreateAttr("prioridade", rule.Prioridade)
		regra.SetText(rule.Texto)
	}

	if r.Match != nil {
		cr := ic.CreateElement("contrato_resposta")
		ids, _ := authorizedIDs(r)
		cr.CreateElement("dispositivos_autorizados").SetText(
			lookupAuthorizedPreamble + joinIDs(ids))
	}

	ic.CreateElement("verificacao_final").SetText(verificacaoFinalText)
}
