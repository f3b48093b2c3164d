// Package export writes retrieval results and audit listings as XLSX
// workbooks, the format legal and compliance teams actually circulate.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/vectorgov/vectorgov-go/models"
	"github.com/vectorgov/vectorgov-go/payload"
)

// WriteSearchXLSX writes one sheet with the ranked devices and, when the
// result carries citation expansion, a second sheet with the expanded
// spans.
func WriteSearchXLSX(w io.Writer, r *models.SearchResult) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Dispositivos"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := writeHeader(f, sheet, []any{"ID", "Fonte", "Tipo", "Artigo", "Score", "Score Rerank", "Texto", "Evidência"}); err != nil {
		return err
	}
	for i, hit := range r.Hits {
		rerank := ""
		if hit.PureRerankScore != nil {
			rerank = fmt.Sprintf("%.4f", *hit.PureRerankScore)
		}
		row := []any{
			hit.Span(),
			hit.Source,
			hit.Metadata.DocumentType,
			hit.Metadata.Article,
			fmt.Sprintf("%.4f", hit.Score),
			rerank,
			hit.DisplayText(),
			payload.EvidenceURL(hit.ChunkID),
		}
		if err := setRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}
	widenColumns(f, sheet, map[string]float64{"A": 18, "B": 32, "G": 80, "H": 48})

	if len(r.ExpandedChunks) > 0 {
		if err := writeExpansionSheet(f, r.ExpandedChunks); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return nil
}

func writeExpansionSheet(f *excelize.File, chunks []models.ExpandedChunk) error {
	const sheet = "Expansão"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := writeHeader(f, sheet, []any{"Span", "Documento", "Citado Por", "Citação Original", "Texto"}); err != nil {
		return err
	}
	for i, chunk := range chunks {
		row := []any{
			chunk.SpanID,
			chunk.DocumentID,
			chunk.SourceChunkID,
			chunk.SourceCitationRaw,
			chunk.Text,
		}
		if err := setRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}
	widenColumns(f, sheet, map[string]float64{"A": 18, "B": 22, "E": 80})
	return nil
}

// WriteHybridXLSX writes the direct evidence and the graph expansion as two
// sheets.
func WriteHybridXLSX(w io.Writer, r *models.HybridResult) error {
	f := excelize.NewFile()
	defer f.Close()

	const evidence = "Evidências"
	if err := f.SetSheetName("Sheet1", evidence); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := writeHeader(f, evidence, []any{"ID", "Fonte", "Score", "Texto"}); err != nil {
		return err
	}
	for i, hit := range r.Hits {
		row := []any{hit.Span(), hit.Source, fmt.Sprintf("%.4f", hit.Score), hit.DisplayText()}
		if err := setRow(f, evidence, i+2, row); err != nil {
			return err
		}
	}
	widenColumns(f, evidence, map[string]float64{"A": 18, "B": 32, "D": 80})

	if len(r.GraphNodes) > 0 {
		const graph = "Grafo"
		if _, err := f.NewSheet(graph); err != nil {
			return fmt.Errorf("export: %w", err)
		}
		if err := writeHeader(f, graph, []any{"Span", "Documento", "Tipo", "Hop", "Frequência", "Texto"}); err != nil {
			return err
		}
		for i, node := range r.GraphNodes {
			row := []any{node.SpanID, node.DocumentID, node.DeviceType, node.Hop, node.Frequency, node.Text}
			if err := setRow(f, graph, i+2, row); err != nil {
				return err
			}
		}
		widenColumns(f, graph, map[string]float64{"A": 18, "B": 22, "F": 80})
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return nil
}

// WriteAuditXLSX writes one page of audit events as a single sheet.
func WriteAuditXLSX(w io.Writer, page *models.AuditLogsPage) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Auditoria"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := writeHeader(f, sheet, []any{"ID", "Data", "Tipo", "Categoria", "Severidade", "Endpoint", "IP", "Risco", "Ação", "Consulta"}); err != nil {
		return err
	}
	for i, log := range page.Logs {
		risk := ""
		if log.RiskScore != nil {
			risk = fmt.Sprintf("%.2f", *log.RiskScore)
		}
		row := []any{
			log.ID,
			log.CreatedAt,
			log.EventType,
			log.EventCategory,
			log.Severity,
			log.Endpoint,
			log.ClientIP,
			risk,
			log.ActionTaken,
			log.QueryText,
		}
		if err := setRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}
	widenColumns(f, sheet, map[string]float64{"B": 20, "C": 24, "J": 60})

	if err := f.Write(w); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return nil
}

func writeHeader(f *excelize.File, sheet string, header []any) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, rowNum int, row []any) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := f.SetSheetRow(sheet, cell, &row); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return nil
}

// widenColumns applies widths best-effort; a failure here never blocks the
// export.
func widenColumns(f *excelize.File, sheet string, widths map[string]float64) {
	for col, width := range widths {
		_ = f.SetColWidth(sheet, col, col, width)
	}
}
