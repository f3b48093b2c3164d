package payload

import (
	"errors"
	"strings"
	"testing"

	"github.com/beevik/etree"

	"github.com/vectorgov/vectorgov-go/models"
)

func mustParse(t *testing.T, xml string) *etree.Element {
	t.Helper()
	doc := etree.NewDocument()
	if err := doc.ReadFromString(xml); err != nil {
		t.Fatalf("output is not well-formed XML: %v", err)
	}
	return doc.Root()
}

func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }

func hitLei14133Art33() models.Hit {
	return models.Hit{
		Text:    "Art. 33. O julgamento das propostas será realizado de acordo com os critérios definidos no edital.",
		Score:   0.9,
		Source:  "Lei 14.133/2021, Art. 33",
		ChunkID: "LEI-14133-2021#ART-33",
		Metadata: models.Metadata{
			DocumentType:   "lei",
			DocumentNumber: "14133",
			Year:           2021,
			Article:        "33",
		},
	}
}

func hitLei14133Art34() models.Hit {
	return models.Hit{
		Text:    "Art. 34. O julgamento por menor preço considerará o menor dispêndio para a Administração.",
		Score:   0.85,
		Source:  "Lei 14.133/2021, Art. 34",
		ChunkID: "LEI-14133-2021#ART-34",
		Metadata: models.Metadata{
			DocumentType:   "lei",
			DocumentNumber: "14133",
			Year:           2021,
			Article:        "34",
		},
	}
}

func hitDecreto() models.Hit {
	return models.Hit{
		Text:    "Art. 5º Os órgãos deverão observar o plano de contratações anual.",
		Score:   0.7,
		Source:  "Decreto 10.947/2022, Art. 5",
		ChunkID: "DEC-10947-2022#ART-5",
		Metadata: models.Metadata{
			DocumentType:   "decreto",
			DocumentNumber: "10947",
			Year:           2022,
			Article:        "5",
		},
	}
}

func searchResult(hits ...models.Hit) *models.SearchResult {
	return &models.SearchResult{
		Query:     "critérios de julgamento",
		Hits:      hits,
		Total:     len(hits),
		LatencyMS: 250,
		QueryID:   "q-123",
		Mode:      "balanced",
	}
}

func TestBuildSearchXMLRoot(t *testing.T) {
	xml, err := BuildSearchXML(searchResult(hitLei14133Art33()), LevelData)
	if err != nil {
		t.Fatalf("BuildSearchXML: %v", err)
	}

	root := mustParse(t, xml)
	if root.Tag != "vectorgov_knowledge_package" {
		t.Fatalf("root tag = %q", root.Tag)
	}
	if v := root.SelectAttrValue("version", ""); v != "1.0" {
		t.Errorf("version = %q, want 1.0", v)
	}
	if v := root.SelectAttrValue("level", ""); v != "data" {
		t.Errorf("level = %q, want data", v)
	}
	if v := root.SelectAttrValue("endpoint", "absent"); v != "absent" {
		t.Errorf("plain search must not carry endpoint, got %q", v)
	}
}

func TestBuildSearchXMLInvalidLevel(t *testing.T) {
	_, err := BuildSearchXML(searchResult(hitLei14133Art33()), "verbose")
	if !errors.Is(err, ErrInvalidLevel) {
		t.Fatalf("err = %v, want ErrInvalidLevel", err)
	}
	for _, want := range []string{`"verbose"`, `"data"`, `"instructions"`, `"full"`} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q must name %s", err.Error(), want)
		}
	}
}

func TestBuildSearchXMLGroupsSameLaw(t *testing.T) {
	xml, err := BuildSearchXML(searchResult(hitLei14133Art33(), hitLei14133Art34(), hitDecreto()), LevelData)
	if err != nil {
		t.Fatalf("BuildSearchXML: %v", err)
	}
	root := mustParse(t, xml)

	fontes := root.FindElements("//base_normativa/fonte")
	if len(fontes) != 2 {
		t.Fatalf("fontes = %d, want 2 (same law merges)", len(fontes))
	}

	lei := fontes[0]
	if v := lei.SelectAttrValue("lei", ""); v != "14133/2021" {
		t.Errorf("lei attr = %q", v)
	}
	if v := lei.SelectAttrValue("tipo", ""); v != "LEI" {
		t.Errorf("tipo attr = %q", v)
	}
	if v := lei.SelectAttrValue("relevancia", ""); v != "direta" {
		t.Errorf("relevancia attr = %q", v)
	}
	if n := len(lei.SelectElements("dispositivo")); n != 2 {
		t.Errorf("lei dispositivos = %d, want 2", n)
	}

	if v := fontes[1].SelectAttrValue("lei", ""); v != "10947/2022" {
		t.Errorf("second fonte lei = %q", v)
	}
}

func TestBuildSearchXMLDispositivoAttrs(t *testing.T) {
	xml, err := BuildSearchXML(searchResult(hitLei14133Art33()), LevelData)
	if err != nil {
		t.Fatalf("BuildSearchXML: %v", err)
	}
	root := mustParse(t, xml)

	disp := root.FindElement("//dispositivo")
	if disp == nil {
		t.Fatal("no dispositivo element")
	}
	if v := disp.SelectAttrValue("id", ""); v != "ART-33" {
		t.Errorf("id = %q, want ART-33", v)
	}
	if v := disp.SelectAttrValue("tipo", ""); v != "artigo" {
		t.Errorf("tipo = %q, want artigo", v)
	}
	if v := disp.SelectAttrValue("artigo", ""); v != "33" {
		t.Errorf("artigo = %q, want 33", v)
	}
	if v := disp.SelectAttrValue("score", ""); v != "0.9000" {
		t.Errorf("score = %q, want 0.9000", v)
	}
	if v := disp.SelectAttrValue("evidence_url", ""); v != "/api/v1/evidence/LEI-14133-2021%23ART-33" {
		t.Errorf("evidence_url = %q", v)
	}
}

func TestDispositivoTipoInference(t *testing.T) {
	tests := []struct {
		name string
		meta models.Metadata
		want string
	}{
		{"inciso wins", models.Metadata{Article: "33", Paragraph: "2", Item: "III"}, "inciso"},
		{"paragrafo next", models.Metadata{Article: "33", Paragraph: "2"}, "paragrafo"},
		{"artigo", models.Metadata{Article: "33"}, "artigo"},
		{"bare", models.Metadata{}, "dispositivo"},
		{"device type mapped", models.Metadata{DeviceType: "paragraph", Article: "33"}, "paragrafo"},
		{"device type passthrough", models.Metadata{DeviceType: "caput"}, "caput"},
		{"consolidated", models.Metadata{DeviceType: "article_consolidated"}, "artigo_consolidado"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := dispositivoTipo(tt.meta); got != tt.want {
				t.Errorf("dispositivoTipo = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConsolidatedScoreMarker(t *testing.T) {
	hit := hitLei14133Art33()
	hit.Metadata.DeviceType = "article_consolidated"
	hit.StitchedText = "Art. 33 consolidado com parágrafos."

	xml, err := BuildSearchXML(searchResult(hit), LevelData)
	if err != nil {
		t.Fatalf("BuildSearchXML: %v", err)
	}
	root := mustParse(t, xml)

	disp := root.FindElement("//dispositivo")
	if v := disp.SelectAttrValue("score", ""); v != "consolidado" {
		t.Errorf("score = %q, want consolidado", v)
	}
	if disp.Text() != "Art. 33 consolidado com parágrafos." {
		t.Errorf("stitched text must win, got %q", disp.Text())
	}
}

func TestCrossReferenceOrigin(t *testing.T) {
	hit := hitLei14133Art33()
	hit.OriginType = "cross_reference"
	hit.OriginReference = "LEI-8666-1993#ART-3"

	xml, err := BuildSearchXML(searchResult(hit), LevelData)
	if err != nil {
		t.Fatalf("BuildSearchXML: %v", err)
	}
	root := mustParse(t, xml)

	disp := root.FindElement("//dispositivo")
	if v := disp.SelectAttrValue("origem", ""); v != "referencia_cruzada" {
		t.Errorf("origem = %q", v)
	}
	if v := disp.SelectAttrValue("origem_ref", ""); v != "LEI-8666-1993#ART-3" {
		t.Errorf("origem_ref = %q", v)
	}
}

func TestSelfOriginHasNoOriginAttr(t *testing.T) {
	hit := hitLei14133Art33()
	hit.OriginType = "self"

	xml, err := BuildSearchXML(searchResult(hit), LevelData)
	if err != nil {
		t.Fatalf("BuildSearchXML: %v", err)
	}
	disp := mustParse(t, xml).FindElement("//dispositivo")
	if v := disp.SelectAttrValue("origem", "absent"); v != "absent" {
		t.Errorf("self origin must not emit origem, got %q", v)
	}
}

func TestRerankScoreAttr(t *testing.T) {
	hit := hitLei14133Art33()
	hit.PureRerankScore = floatPtr(0.8765)

	xml, err := BuildSearchXML(searchResult(hit), LevelData)
	if err != nil {
		t.Fatalf("BuildSearchXML: %v", err)
	}
	disp := mustParse(t, xml).FindElement("//dispositivo")
	if v := disp.SelectAttrValue("score_rerank", ""); v != "0.8765" {
		t.Errorf("score_rerank = %q", v)
	}
}

func TestContextoNormativoSection(t *testing.T) {
	r := searchResult(hitLei14133Art33())
	r.ExpandedChunks = []models.ExpandedChunk{
		{
			ChunkID:    "LEI-14133-2021#ART-18",
			SpanID:     "ART-018",
			DocumentID: "LEI-14133-2021",
			Text:       "Art. 18. A fase preparatória do processo licitatório...",
			Relacao:    "citacao",
			Hop:        1,
		},
		{
			ChunkID:    "LEI-14133-2021#ART-6",
			SpanID:     "ART-006",
			DocumentID: "LEI-14133-2021",
			Text:       "Art. 6º Para os fins desta Lei, consideram-se...",
			Relacao:    "regulamenta",
			Hop:        2,
		},
	}

	xml, err := BuildSearchXML(r, LevelData)
	if err != nil {
		t.Fatalf("BuildSearchXML: %v", err)
	}
	root := mustParse(t, xml)

	disps := root.FindElements("//contexto_normativo/dispositivo_relacionado")
	if len(disps) != 2 {
		t.Fatalf("dispositivo_relacionado = %d, want 2", len(disps))
	}
	first := disps[0]
	if v := first.SelectAttrValue("id", ""); v != "ART-018" {
		t.Errorf("id = %q", v)
	}
	if v := first.SelectAttrValue("lei", ""); v != "LEI-14133-2021" {
		t.Errorf("lei = %q", v)
	}
	if v := first.SelectAttrValue("relacao", ""); v != "citacao" {
		t.Errorf("relacao = %q", v)
	}
	if v := first.SelectAttrValue("hop", ""); v != "1" {
		t.Errorf("hop = %q", v)
	}
	if v := disps[1].SelectAttrValue("relacao", ""); v != "regulamenta" {
		t.Errorf("custom relacao = %q", v)
	}
	if v := disps[1].SelectAttrValue("hop", ""); v != "2" {
		t.Errorf("custom hop = %q", v)
	}
}

func TestContextoNormativoOmittedWhenEmpty(t *testing.T) {
	xml, err := BuildSearchXML(searchResult(hitLei14133Art33()), LevelData)
	if err != nil {
		t.Fatalf("BuildSearchXML: %v", err)
	}
	if mustParse(t, xml).FindElement("//contexto_normativo") != nil {
		t.Error("contexto_normativo must be omitted without expanded chunks")
	}
}

func TestNotasAndJurisprudenciaSections(t *testing.T) {
	hit := hitLei14133Art33()
	hit.NotaEspecialista = "Na prática, o edital costuma combinar critérios."
	hit.JurisprudenciaTCU = "O TCU entende que o critério deve ser objetivo."
	hit.AcordaoTCUKey = "AC-1234-2023-P"
	hit.AcordaoTCULink = "https://pesquisa.apps.tcu.gov.br/doc/1234"

	xml, err := BuildSearchXML(searchResult(hit, hitLei14133Art34()), LevelData)
	if err != nil {
		t.Fatalf("BuildSearchXML: %v", err)
	}
	root := mustParse(t, xml)

	notas := root.FindElements("//notas_especialista/nota")
	if len(notas) != 1 {
		t.Fatalf("notas = %d, want 1 (only annotated hits)", len(notas))
	}
	if v := notas[0].SelectAttrValue("dispositivo_ref", ""); v != "ART-33" {
		t.Errorf("nota dispositivo_ref = %q", v)
	}

	acordaos := root.FindElements("//jurisprudencia/acordao")
	if len(acordaos) != 1 {
		t.Fatalf("acordaos = %d, want 1", len(acordaos))
	}
	ac := acordaos[0]
	if v := ac.SelectAttrValue("chave", ""); v != "AC-1234-2023-P" {
		t.Errorf("chave = %q", v)
	}
	if v := ac.SelectAttrValue("link", ""); v != "https://pesquisa.apps.tcu.gov.br/doc/1234" {
		t.Errorf("link = %q", v)
	}
}

func TestNotasSectionOmittedWhenNoneAnnotated(t *testing.T) {
	xml, err := BuildSearchXML(searchResult(hitLei14133Art33()), LevelData)
	if err != nil {
		t.Fatalf("BuildSearchXML: %v", err)
	}
	root := mustParse(t, xml)
	if root.FindElement("//notas_especialista") != nil {
		t.Error("notas_especialista must be omitted")
	}
	if root.FindElement("//jurisprudencia") != nil {
		t.Error("jurisprudencia must be omitted")
	}
}

func TestTrilhaVerificavel(t *testing.T) {
	hit := hitLei14133Art33()
	hit.PageNumber = intPtr(12)
	hit.CanonicalHash = "abc123"

	xml, err := BuildSearchXML(searchResult(hit), LevelData)
	if err != nil {
		t.Fatalf("BuildSearchXML: %v", err)
	}
	ev := mustParse(t, xml).FindElement("//trilha_verificavel/evidencia")
	if ev == nil {
		t.Fatal("no evidencia element")
	}
	if v := ev.SelectAttrValue("dispositivo_ref", ""); v != "ART-33" {
		t.Errorf("dispositivo_ref = %q", v)
	}
	if v := ev.SelectAttrValue("url", ""); v != "/api/v1/evidence/LEI-14133-2021%23ART-33" {
		t.Errorf("url = %q", v)
	}
	if v := ev.SelectAttrValue("pagina", ""); v != "12" {
		t.Errorf("pagina = %q", v)
	}
	if v := ev.SelectAttrValue("hash", ""); v != "abc123" {
		t.Errorf("hash = %q", v)
	}
}

func TestConsultaSection(t *testing.T) {
	r := searchResult(hitLei14133Art33())
	r.Raw = map[string]any{
		"query_interpretation": map[string]any{
			"rewritten_query": "critérios de julgamento de propostas na Lei 14.133",
		},
	}

	xml, err := BuildSearchXML(r, LevelData)
	if err != nil {
		t.Fatalf("BuildSearchXML: %v", err)
	}
	root := mustParse(t, xml)

	if v := root.FindElement("//consulta/query_original").Text(); v != "critérios de julgamento" {
		t.Errorf("query_original = %q", v)
	}
	if v := root.FindElement("//consulta/query_interpretada").Text(); v != "critérios de julgamento de propostas na Lei 14.133" {
		t.Errorf("query_interpretada = %q", v)
	}
	if v := root.FindElement("//consulta/estrategia").Text(); v != "balanced" {
		t.Errorf("estrategia = %q", v)
	}
	conf := root.FindElement("//consulta/confianca_global").Text()
	if len(conf) != 6 || conf[1] != '.' {
		t.Errorf("confianca_global = %q, want 4-decimal format", conf)
	}
}

func TestConsultaRewrittenQueryPassthrough(t *testing.T) {
	// A present-but-empty rewritten_query is emitted verbatim; only an
	// absent key falls back to the original query.
	r := searchResult(hitLei14133Art33())
	r.Raw = map[string]any{
		"query_interpretation": map[string]any{"rewritten_query": ""},
	}

	xml, err := BuildSearchXML(r, LevelData)
	if err != nil {
		t.Fatalf("BuildSearchXML: %v", err)
	}
	if v := mustParse(t, xml).FindElement("//consulta/query_interpretada").Text(); v != "" {
		t.Errorf("query_interpretada = %q, want the empty string passed through", v)
	}

	r.Raw = map[string]any{"query_interpretation": map[string]any{}}
	xml, err = BuildSearchXML(r, LevelData)
	if err != nil {
		t.Fatalf("BuildSearchXML: %v", err)
	}
	if v := mustParse(t, xml).FindElement("//consulta/query_interpretada").Text(); v != r.Query {
		t.Errorf("query_interpretada = %q, want fallback to the original query", v)
	}
}

func TestMetadadosSection(t *testing.T) {
	r := searchResult(hitLei14133Art33())
	r.Cached = true
	r.ExpansionStats = &models.CitationExpansionStats{
		ExpandedChunksCount:    3,
		CitationsScannedCount:  5,
		CitationsResolvedCount: 4,
		ExpansionTimeMS:        87.4,
	}
	r.ExpandedChunks = []models.ExpandedChunk{{SpanID: "ART-018", DocumentID: "LEI-14133-2021", Relacao: "citacao", Hop: 1}}
	r.Raw = map[string]any{"reranker": false}

	xml, err := BuildSearchXML(r, LevelData)
	if err != nil {
		t.Fatalf("BuildSearchXML: %v", err)
	}
	root := mustParse(t, xml)

	checks := map[string]string{
		"//metadados/pipeline":        "fenix",
		"//metadados/tempo_total_ms":  "250",
		"//metadados/reranker":        "false",
		"//metadados/grafo_expandido": "true",
		"//metadados/cache_hit":       "true",
		"//metadados/query_id":        "q-123",
	}
	for path, want := range checks {
		el := root.FindElement(path)
		if el == nil {
			t.Fatalf("missing %s", path)
		}
		if el.Text() != want {
			t.Errorf("%s = %q, want %q", path, el.Text(), want)
		}
	}

	exp := root.FindElement("//metadados/expansao")
	if exp == nil {
		t.Fatal("missing expansao")
	}
	if v := exp.FindElement("expandidos").Text(); v != "3" {
		t.Errorf("expandidos = %q", v)
	}
	if v := exp.FindElement("tempo_ms").Text(); v != "87" {
		t.Errorf("tempo_ms = %q, want whole milliseconds", v)
	}
}

func TestRerankerDefaultsTrue(t *testing.T) {
	xml, err := BuildSearchXML(searchResult(hitLei14133Art33()), LevelData)
	if err != nil {
		t.Fatalf("BuildSearchXML: %v", err)
	}
	if v := mustParse(t, xml).FindElement("//metadados/reranker").Text(); v != "true" {
		t.Errorf("reranker default = %q, want true", v)
	}
}

func TestInstructionsLevel(t *testing.T) {
	xml, err := BuildSearchXML(searchResult(hitLei14133Art33()), LevelInstructions)
	if err != nil {
		t.Fatalf("BuildSearchXML: %v", err)
	}
	root := mustParse(t, xml)

	instrucoes := root.SelectElement("instrucoes")
	if instrucoes == nil {
		t.Fatal("missing instrucoes")
	}
	if n := len(instrucoes.SelectElements("regra")); n != 7 {
		t.Errorf("regras = %d, want 7", n)
	}
	// Instructions come before the data sections.
	children := root.ChildElements()
	if children[0].Tag != "instrucoes" {
		t.Errorf("first child = %q, want instrucoes", children[0].Tag)
	}
	if root.FindElement("//instrucoes_completas") != nil {
		t.Error("instructions level must not carry instrucoes_completas")
	}
}

func TestFullLevelContract(t *testing.T) {
	r := searchResult(hitLei14133Art33(), hitLei14133Art34())
	r.ExpandedChunks = []models.ExpandedChunk{
		{ChunkID: "LEI-14133-2021#ART-18", SpanID: "ART-018", DocumentID: "LEI-14133-2021", Relacao: "citacao", Hop: 1},
	}

	xml, err := BuildSearchXML(r, LevelFull)
	if err != nil {
		t.Fatalf("BuildSearchXML: %v", err)
	}
	root := mustParse(t, xml)

	ic := root.SelectElement("instrucoes_completas")
	if ic == nil {
		t.Fatal("missing instrucoes_completas")
	}
	if ic.SelectElement("papel") == nil {
		t.Error("missing papel")
	}

	aaRegras := ic.FindElements("anti_alucinacao/regra")
	if len(aaRegras) != 3 {
		t.Fatalf("anti_alucinacao regras = %d, want 3", len(aaRegras))
	}
	if v := aaRegras[0].SelectAttrValue("prioridade", ""); v != "critica" {
		t.Errorf("first rule prioridade = %q", v)
	}
	if v := aaRegras[2].SelectAttrValue("prioridade", ""); v != "alta" {
		t.Errorf("third rule prioridade = %q", v)
	}

	auth := ic.FindElement("contrato_resposta/dispositivos_autorizados")
	if auth == nil {
		t.Fatal("missing dispositivos_autorizados")
	}
	for _, id := range []string{"ART-33", "ART-34", "ART-018"} {
		if !strings.Contains(auth.Text(), id) {
			t.Errorf("whitelist missing %s", id)
		}
	}
	if !strings.Contains(auth.Text(), "Qualquer outro é alucinação") {
		t.Error("whitelist preamble must warn about hallucination")
	}

	mapa := ic.FindElement("contrato_resposta/mapa_evidencias")
	if mapa == nil {
		t.Fatal("missing mapa_evidencias")
	}
	if !strings.Contains(mapa.Text(), "ART-33 → /api/v1/evidence/LEI-14133-2021%23ART-33") {
		t.Errorf("mapa_evidencias = %q", mapa.Text())
	}

	if ic.FindElement("contrato_resposta/verificacao_final") == nil {
		t.Error("missing verificacao_final")
	}
	if ic.FindElement("modo_geracao_documento") == nil {
		t.Error("missing modo_geracao_documento")
	}
}

func TestScaffoldReuseDoesNotLeakContract(t *testing.T) {
	r1 := searchResult(hitLei14133Art33())
	r2 := searchResult(hitDecreto())

	xml1, err := BuildSearchXML(r1, LevelFull)
	if err != nil {
		t.Fatalf("first build: %v", err)
	}
	xml2, err := BuildSearchXML(r2, LevelFull)
	if err != nil {
		t.Fatalf("second build: %v", err)
	}

	if !strings.Contains(xml1, "ART-33") || strings.Contains(xml1, "ART-5") {
		t.Error("first contract must list only its own ids")
	}
	if !strings.Contains(xml2, "ART-5") || strings.Contains(xml2, "ART-33") {
		t.Error("cached scaffold leaked a previous contract into the second build")
	}

	root := mustParse(t, xml2)
	if n := len(root.FindElements("//contrato_resposta")); n != 1 {
		t.Errorf("contrato_resposta count = %d, want 1", n)
	}
}

func TestXMLEscaping(t *testing.T) {
	hit := hitLei14133Art33()
	hit.Text = `Art. 5º — "Seção" <especial> & obrigatória`

	xml, err := BuildSearchXML(searchResult(hit), LevelData)
	if err != nil {
		t.Fatalf("BuildSearchXML: %v", err)
	}

	if strings.Contains(xml, "<especial>") {
		t.Error("raw angle brackets leaked into serialized XML")
	}
	if !strings.Contains(xml, "&lt;especial&gt;") {
		t.Error("angle brackets must be entity-escaped")
	}
	if !strings.Contains(xml, "&amp; obrigatória") {
		t.Error("ampersand must be entity-escaped")
	}

	// And it still parses back to the original text.
	disp := mustParse(t, xml).FindElement("//dispositivo")
	if disp.Text() != hit.Text {
		t.Errorf("round-trip text = %q", disp.Text())
	}
}

func TestSerializeDeterministic(t *testing.T) {
	r := searchResult(hitLei14133Art33(), hitDecreto())
	for _, level := range []string{LevelData, LevelInstructions, LevelFull} {
		a, err := BuildSearchXML(r, level)
		if err != nil {
			t.Fatalf("level %s: %v", level, err)
		}
		b, err := BuildSearchXML(r, level)
		if err != nil {
			t.Fatalf("level %s: %v", level, err)
		}
		if a != b {
			t.Errorf("level %s: output not byte-identical across calls", level)
		}
	}
}

func TestSerializeDispatch(t *testing.T) {
	search := searchResult(hitLei14133Art33())
	smart := &models.SmartSearchResult{SearchResult: *search}
	hybrid := &models.HybridResult{Query: "q", Mode: "hybrid"}
	lookup := &models.LookupResult{Reference: "art. 33", Status: models.LookupNotFound}

	tests := []struct {
		name   string
		result models.Result
		want   string
	}{
		{"search", search, ""},
		{"smart", smart, ""},
		{"hybrid", hybrid, "hybrid"},
		{"lookup", lookup, "lookup"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			xml, err := Serialize(tt.result, LevelData)
			if err != nil {
				t.Fatalf("Serialize: %v", err)
			}
			root := mustParse(t, xml)
			if v := root.SelectAttrValue("endpoint", ""); v != tt.want {
				t.Errorf("endpoint = %q, want %q", v, tt.want)
			}
		})
	}
}

func TestSerializeUnsupportedType(t *testing.T) {
	_, err := Serialize(nil, LevelData)
	if !errors.Is(err, ErrUnsupportedResult) {
		t.Fatalf("err = %v, want ErrUnsupportedResult", err)
	}
}
