package payload

import (
	"strings"
	"testing"

	"github.com/vectorgov/vectorgov-go/models"
)

func TestSearchMarkdown(t *testing.T) {
	md := SearchMarkdown(legacyResult())

	if !strings.Contains(md, "# Resultados para: critérios de julgamento") {
		t.Error("missing title")
	}
	if !strings.Contains(md, "**Modo:** balanced | **Latência:** 250ms | **Cache:** não") {
		t.Error("missing header line")
	}
	if !strings.Contains(md, "### [1] Lei 14.133/2021, Art. 33 (score: 0.900)") {
		t.Error("missing hit heading")
	}
	if !strings.Contains(md, "> **Nota do Especialista:** Atenção ao prazo.") {
		t.Error("missing expert note blockquote")
	}
	if !strings.Contains(md, "([link](https://tcu.example/1))") {
		t.Error("missing case-law link")
	}
	if !strings.Contains(md, "### [XC-1] LEI-14133-2021, ART-018") {
		t.Error("missing expanded chunk heading")
	}
	if !strings.Contains(md, "- **Citado por:** LEI-14133-2021#ART-33") {
		t.Error("missing citation provenance")
	}
	if !strings.Contains(md, "_Expansão: 1 expandidos, 2 encontradas, 1 resolvidas, 30ms_") {
		t.Error("missing stats footer")
	}
}

func TestSearchMarkdownNoHits(t *testing.T) {
	md := SearchMarkdown(searchResult())
	if !strings.Contains(md, "_Nenhum resultado encontrado._") {
		t.Error("missing empty-result marker")
	}
	if strings.Contains(md, "## Dispositivos") {
		t.Error("sections must be skipped without hits")
	}
}

func TestHybridMarkdown(t *testing.T) {
	r := hybridResult()
	r.DocFilterActive = true
	r.DocFilterDetectedDocID = "LEI-14133-2021"

	md := HybridMarkdown(r)
	if !strings.Contains(md, "# Resultados Híbridos para: vedações na contratação direta") {
		t.Error("missing title")
	}
	if !strings.Contains(md, "**Confiança:** 0.873") {
		t.Error("missing confidence")
	}
	if !strings.Contains(md, "**HyDE:** ativo") {
		t.Error("missing HyDE marker")
	}
	if !strings.Contains(md, "**Doc Foco:** LEI-14133-2021") {
		t.Error("missing doc focus")
	}
	if !strings.Contains(md, "## Evidências Diretas") {
		t.Error("missing direct evidence section")
	}
	if !strings.Contains(md, "### [G-1] LEI-14133-2021, ART-018 (hop=1, freq=3)") {
		t.Error("missing graph node heading")
	}
}

func TestLookupMarkdown(t *testing.T) {
	md := LookupMarkdown(lookupFound())
	if !strings.Contains(md, "# Lookup: art. 33, §2º da lei 14133") {
		t.Error("missing title")
	}
	if !strings.Contains(md, "**Status:** found | **Tempo:** 43ms") {
		t.Error("missing status line")
	}
	if !strings.Contains(md, "**Resolvido:** Tipo: paragraph, Art. 33, Doc: LEI-14133-2021") {
		t.Error("missing resolved summary")
	}
	if !strings.Contains(md, "## Dispositivo Principal") {
		t.Error("missing principal section")
	}
	if !strings.Contains(md, "## Artigo Pai") {
		t.Error("missing parent section")
	}
	if !strings.Contains(md, "**>** **ART-33-PAR-2**") {
		t.Error("current sibling must carry the marker")
	}
}

func TestLookupMarkdownAmbiguous(t *testing.T) {
	r := &models.LookupResult{
		Reference: "art. 5",
		Status:    models.LookupAmbiguous,
		Message:   "múltiplos documentos possuem art. 5",
		Candidates: []models.LookupCandidate{
			{DocumentID: "LEI-14133-2021", NodeID: "n-1", Text: "Art. 5º A Administração..."},
		},
	}
	md := LookupMarkdown(r)
	if !strings.Contains(md, "_múltiplos documentos possuem art. 5_") {
		t.Error("missing message")
	}
	if !strings.Contains(md, "## Candidatos") {
		t.Error("missing candidates section")
	}
	if !strings.Contains(md, "- **LEI-14133-2021** (n-1):") {
		t.Error("missing candidate entry")
	}
}

func TestMarkdownDispatch(t *testing.T) {
	if _, err := Markdown(searchResult(hitLei14133Art33())); err != nil {
		t.Errorf("search dispatch: %v", err)
	}
	if _, err := Markdown(hybridResult()); err != nil {
		t.Errorf("hybrid dispatch: %v", err)
	}
	if _, err := Markdown(lookupFound()); err != nil {
		t.Errorf("lookup dispatch: %v", err)
	}
	if _, err := Markdown(nil); err == nil {
		t.Error("nil result must fail")
	}
}
