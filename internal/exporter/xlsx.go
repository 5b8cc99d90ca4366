package exporter

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"anspulse/pkg/contracts/domain"
)

const sheetName = "Dataset"

// datasetHeader is the column order for both export formats.
var datasetHeader = []string{
	"ID_TRIMESTRE", "ID_OPERADORA", "razao_social", "cnpj", "uf",
	"modalidade", "cidade", "NR_BENEF_T", "VL_SALDO_FINAL",
	"VAR_PCT_VIDAS", "VAR_PCT_RECEITA", "CUSTO_POR_VIDA",
}

// XLSXExporter writes master dataset rows as an Excel workbook.
type XLSXExporter struct {
	logger *slog.Logger
}

// NewXLSXExporter creates an XLSX exporter.
func NewXLSXExporter(logger *slog.Logger) *XLSXExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &XLSXExporter{
		logger: logger.With(slog.String("component", "xlsx_exporter")),
	}
}

// Write serializes rows to w as a single-sheet workbook.
func (e *XLSXExporter) Write(w io.Writer, rows []domain.MasterRow) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("remove default sheet: %w", err)
	}

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		return fmt.Errorf("stream writer: %w", err)
	}

	header := make([]interface{}, len(datasetHeader))
	for i, h := range datasetHeader {
		header[i] = h
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("cell name: %w", err)
		}
		values := []interface{}{
			row.Period, row.OperatorID, row.LegalName, row.CNPJ, row.UF,
			row.Segment, row.City, row.Lives, row.Revenue,
			row.LivesQoQ, row.RevenueQoQ, row.CostPerLife,
		}
		if err := sw.SetRow(cell, values); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flush sheet: %w", err)
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}

	e.logger.Info("xlsx export written", slog.Int("rows", len(rows)))
	return nil
}
