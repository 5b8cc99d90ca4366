package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"

	"github.com/gocarina/gocsv"

	"anspulse/pkg/contracts/domain"
)

// utf8BOM keeps accented razao_social values readable when the file is
// opened in Excel.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVExporter writes master dataset rows as semicolon-separated CSV.
type CSVExporter struct {
	logger *slog.Logger
}

// NewCSVExporter creates a CSV exporter.
func NewCSVExporter(logger *slog.Logger) *CSVExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVExporter{
		logger: logger.With(slog.String("component", "csv_exporter")),
	}
}

// Write serializes rows to w. The header row is always written, even
// for an empty dataset.
func (e *CSVExporter) Write(w io.Writer, rows []domain.MasterRow) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("write BOM: %w", err)
	}

	cw := csv.NewWriter(w)
	cw.Comma = ';'
	cw.UseCRLF = true

	if err := gocsv.MarshalCSV(&rows, gocsv.NewSafeCSVWriter(cw)); err != nil {
		return fmt.Errorf("marshal csv: %w", err)
	}

	e.logger.Info("csv export written", slog.Int("rows", len(rows)))
	return nil
}
