package http

import (
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "anspulse/internal/errors"
	"anspulse/pkg/contracts/domain"
)

type stubWriter struct {
	label   string
	gotRows int
}

func (s *stubWriter) Write(w io.Writer, rows []domain.MasterRow) error {
	s.gotRows = len(rows)
	_, err := io.WriteString(w, s.label)
	return err
}

func newExportRouter(stub *stubDataService, csvW, xlsxW DatasetWriter) chi.Router {
	logger := slog.Default()
	handler := NewExportHandler(stub, csvW, xlsxW, logger, apierrors.NewErrorHandler(logger))
	r := chi.NewRouter()
	r.Mount("/api/export", handler.Routes())
	return r
}

func TestExportDataset(t *testing.T) {
	rows := []domain.MasterRow{
		{Period: "2024-T1", OperatorID: "005711"},
		{Period: "2023-T4", OperatorID: "005711"},
	}

	t.Run("defaults to csv", func(t *testing.T) {
		csvW, xlsxW := &stubWriter{label: "csv"}, &stubWriter{label: "xlsx"}
		router := newExportRouter(&stubDataService{rows: rows}, csvW, xlsxW)

		w := doGet(t, router, "/api/export/dataset")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "csv", w.Body.String())
		assert.Equal(t, 2, csvW.gotRows)
		assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
		assert.True(t, strings.HasPrefix(w.Header().Get("Content-Disposition"), "attachment"))
	})

	t.Run("xlsx format", func(t *testing.T) {
		csvW, xlsxW := &stubWriter{label: "csv"}, &stubWriter{label: "xlsx"}
		router := newExportRouter(&stubDataService{rows: rows}, csvW, xlsxW)

		w := doGet(t, router, "/api/export/dataset?format=xlsx")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "xlsx", w.Body.String())
		assert.Contains(t, w.Header().Get("Content-Type"), "spreadsheetml")
	})

	t.Run("period filter narrows rows", func(t *testing.T) {
		csvW := &stubWriter{label: "csv"}
		router := newExportRouter(&stubDataService{rows: rows}, csvW, &stubWriter{label: "xlsx"})

		w := doGet(t, router, "/api/export/dataset?period=2024-T1")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 1, csvW.gotRows)
	})

	t.Run("unknown format", func(t *testing.T) {
		router := newExportRouter(&stubDataService{}, &stubWriter{}, &stubWriter{})
		w := doGet(t, router, "/api/export/dataset?format=pdf")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
