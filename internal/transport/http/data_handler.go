package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "anspulse/internal/errors"
	"anspulse/internal/services"
)

// DataHandler serves the consolidated dataset and its derived views.
type DataHandler struct {
	service      DataServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDataHandler creates a data handler.
func NewDataHandler(service DataServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DataHandler {
	return &DataHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "data_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the data routes.
func (h *DataHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/dataset", h.GetDataset)
	r.Get("/periods", h.GetPeriods)
	r.Get("/ranking", h.GetRanking)
	r.Get("/market-flow", h.GetMarketFlow)
	r.Get("/brands/performance", h.GetBrandPerformance)

	return r
}

// GetDataset handles GET /api/dataset. All filters are optional; an
// unfiltered request returns the full master dataset.
func (h *DataHandler) GetDataset(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rows := h.service.DatasetSlice(r.Context(), q.Get("period"), q.Get("uf"), q.Get("segment"))

	render.JSON(w, r, map[string]interface{}{
		"count": len(rows),
		"rows":  rows,
	})
}

// GetPeriods handles GET /api/periods. Periods come back newest first.
func (h *DataHandler) GetPeriods(w http.ResponseWriter, r *http.Request) {
	periods := h.service.Periods(r.Context())
	render.JSON(w, r, map[string]interface{}{
		"count":   len(periods),
		"periods": periods,
	})
}

// GetRanking handles GET /api/ranking. The period parameter is
// required; segment and brand narrow the ranked population.
func (h *DataHandler) GetRanking(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	period := q.Get("period")
	if period == "" {
		h.errorHandler.HandleError(w, r, apierrors.MissingParameter("period"))
		return
	}

	ranked := h.service.PowerRanking(r.Context(), services.RankingQuery{
		Period:  period,
		Segment: q.Get("segment"),
		Brand:   q.Get("brand"),
	})

	render.JSON(w, r, map[string]interface{}{
		"period":  period,
		"count":   len(ranked),
		"ranking": ranked,
	})
}

// GetMarketFlow handles GET /api/market-flow. Both ref and comp are
// required and must name different periods.
func (h *DataHandler) GetMarketFlow(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	ref, comp := q.Get("ref"), q.Get("comp")

	switch {
	case ref == "":
		h.errorHandler.HandleError(w, r, apierrors.MissingParameter("ref"))
		return
	case comp == "":
		h.errorHandler.HandleError(w, r, apierrors.MissingParameter("comp"))
		return
	case ref == comp:
		h.errorHandler.HandleError(w, r, apierrors.InvalidParameter("comp", "reference and comparison periods must differ"))
		return
	}

	render.JSON(w, r, h.service.MarketFlow(r.Context(), ref, comp))
}

// GetBrandPerformance handles GET /api/brands/performance. Requires a
// period and the focal operator id; the id is normalized before lookup
// so raw registry codes like "5711.0" resolve.
func (h *DataHandler) GetBrandPerformance(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	period, operator := q.Get("period"), q.Get("operator")

	if period == "" {
		h.errorHandler.HandleError(w, r, apierrors.MissingParameter("period"))
		return
	}
	if operator == "" {
		h.errorHandler.HandleError(w, r, apierrors.MissingParameter("operator"))
		return
	}

	perf, err := h.service.BrandPerformance(r.Context(), period, operator)
	if err != nil {
		if errors.Is(err, services.ErrOperatorNotFound) {
			h.errorHandler.HandleError(w, r, apierrors.ErrOperatorNotFound)
			return
		}
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, perf)
}
