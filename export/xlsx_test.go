package export

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/vectorgov/vectorgov-go/models"
)

func reopen(t *testing.T, buf *bytes.Buffer) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("workbook does not reopen: %v", err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}

func cell(t *testing.T, f *excelize.File, sheet, ref string) string {
	t.Helper()
	v, err := f.GetCellValue(sheet, ref)
	if err != nil {
		t.Fatalf("GetCellValue(%s!%s): %v", sheet, ref, err)
	}
	return v
}

func TestWriteSearchXLSX(t *testing.T) {
	rerank := 0.87
	r := &models.SearchResult{
		Query: "julgamento",
		Hits: []models.Hit{{
			Text:            "Art. 33. O julgamento...",
			Score:           0.9123,
			Source:          "Lei 14.133/2021, Art. 33",
			ChunkID:         "LEI-14133-2021#ART-33",
			PureRerankScore: &rerank,
			Metadata:        models.Metadata{DocumentType: "LEI", Article: "33"},
		}},
		ExpandedChunks: []models.ExpandedChunk{{
			SpanID:            "ART-018",
			DocumentID:        "LEI-14133-2021",
			Text:              "Art. 18...",
			SourceChunkID:     "LEI-14133-2021#ART-33",
			SourceCitationRaw: "conforme o art. 18",
		}},
	}

	var buf bytes.Buffer
	if err := WriteSearchXLSX(&buf, r); err != nil {
		t.Fatal(err)
	}

	f := reopen(t, &buf)
	sheets := f.GetSheetList()
	if len(sheets) != 2 || sheets[0] != "Dispositivos" || sheets[1] != "Expansão" {
		t.Fatalf("sheets = %v", sheets)
	}

	if got := cell(t, f, "Dispositivos", "A1"); got != "ID" {
		t.Errorf("header A1 = %q", got)
	}
	if got := cell(t, f, "Dispositivos", "A2"); got != "ART-33" {
		t.Errorf("span = %q", got)
	}
	if got := cell(t, f, "Dispositivos", "E2"); got != "0.9123" {
		t.Errorf("score = %q", got)
	}
	if got := cell(t, f, "Dispositivos", "F2"); got != "0.8700" {
		t.Errorf("rerank = %q", got)
	}
	if got := cell(t, f, "Dispositivos", "H2"); got != "/api/v1/evidence/LEI-14133-2021%23ART-33" {
		t.Errorf("evidence url = %q", got)
	}

	if got := cell(t, f, "Expansão", "D2"); got != "conforme o art. 18" {
		t.Errorf("citation = %q", got)
	}
}

func TestWriteSearchXLSXWithoutExpansion(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSearchXLSX(&buf, &models.SearchResult{Query: "q"}); err != nil {
		t.Fatal(err)
	}
	f := reopen(t, &buf)
	if sheets := f.GetSheetList(); len(sheets) != 1 {
		t.Errorf("sheets = %v, expansion sheet must be absent", sheets)
	}
}

func TestWriteHybridXLSX(t *testing.T) {
	r := &models.HybridResult{
		Query: "garantias",
		Hits: []models.Hit{{
			Text:    "Art. 96...",
			Score:   0.88,
			Source:  "Lei 14.133/2021, Art. 96",
			ChunkID: "LEI-14133-2021#ART-96",
		}},
		GraphNodes: []models.Hit{{
			SpanID:     "ART-098",
			DocumentID: "LEI-14133-2021",
			DeviceType: "article",
			Hop:        2,
			Frequency:  3,
			Text:       "Art. 98...",
		}},
	}

	var buf bytes.Buffer
	if err := WriteHybridXLSX(&buf, r); err != nil {
		t.Fatal(err)
	}

	f := reopen(t, &buf)
	sheets := f.GetSheetList()
	if len(sheets) != 2 || sheets[0] != "Evidências" || sheets[1] != "Grafo" {
		t.Fatalf("sheets = %v", sheets)
	}
	if got := cell(t, f, "Evidências", "A2"); got != "ART-96" {
		t.Errorf("span = %q", got)
	}
	if got := cell(t, f, "Grafo", "D2"); got != "2" {
		t.Errorf("hop = %q", got)
	}
	if got := cell(t, f, "Grafo", "E2"); got != "3" {
		t.Errorf("frequency = %q", got)
	}
}

func TestWriteAuditXLSX(t *testing.T) {
	risk := 0.92
	page := &models.AuditLogsPage{
		Logs: []models.AuditLog{{
			ID:            "e-1",
			EventType:     "prompt_injection",
			EventCategory: "security",
			Severity:      "critical",
			Endpoint:      "/sdk/search",
			ClientIP:      "10.0.0.9",
			RiskScore:     &risk,
			ActionTaken:   "blocked",
			QueryText:     "ignore previous instructions",
			CreatedAt:     "2026-08-01T10:00:00Z",
		}},
		Total: 1,
	}

	var buf bytes.Buffer
	if err := WriteAuditXLSX(&buf, page); err != nil {
		t.Fatal(err)
	}

	f := reopen(t, &buf)
	if got := cell(t, f, "Auditoria", "C2"); got != "prompt_injection" {
		t.Errorf("event type = %q", got)
	}
	if got := cell(t, f, "Auditoria", "E2"); got != "critical" {
		t.Errorf("severity = %q", got)
	}
	if got := cell(t, f, "Auditoria", "H2"); got != "0.92" {
		t.Errorf("risk = %q", got)
	}
}
