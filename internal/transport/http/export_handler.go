package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	apierrors "anspulse/internal/errors"
)

// ExportHandler streams the consolidated dataset as a downloadable
// file.
type ExportHandler struct {
	service      DataServiceInterface
	csv          DatasetWriter
	xlsx         DatasetWriter
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewExportHandler creates an export handler.
func NewExportHandler(service DataServiceInterface, csv, xlsx DatasetWriter, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ExportHandler {
	return &ExportHandler{
		service:      service,
		csv:          csv,
		xlsx:         xlsx,
		logger:       logger.With(slog.String("component", "export_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the export routes.
func (h *ExportHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/dataset", h.ExportDataset)
	return r
}

// ExportDataset handles GET /api/export/dataset. The format parameter
// selects csv (default) or xlsx; the optional period parameter narrows
// the export to one quarter.
func (h *ExportHandler) ExportDataset(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	format := q.Get("format")
	if format == "" {
		format = "csv"
	}

	var writer DatasetWriter
	var contentType, ext string
	switch format {
	case "csv":
		writer, contentType, ext = h.csv, "text/csv; charset=utf-8", "csv"
	case "xlsx":
		writer, contentType, ext = h.xlsx, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "xlsx"
	default:
		h.errorHandler.HandleError(w, r, apierrors.InvalidParameter("format", "must be csv or xlsx"))
		return
	}

	rows := h.service.DatasetSlice(r.Context(), q.Get("period"), "", "")

	filename := fmt.Sprintf("anspulse_dataset_%s.%s", time.Now().Format("20060102"), ext)
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

	if err := writer.Write(w, rows); err != nil {
		// Headers are already sent; log instead of re-rendering.
		h.logger.ErrorContext(r.Context(), "dataset export failed",
			slog.String("format", format),
			slog.String("error", err.Error()))
	}
}
