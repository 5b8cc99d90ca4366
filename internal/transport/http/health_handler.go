package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"anspulse/pkg/contracts"
)

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	service HealthServiceInterface
	logger  *slog.Logger
}

// NewHealthHandler creates a health handler.
func NewHealthHandler(service HealthServiceInterface, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		service: service,
		logger:  logger.With(slog.String("component", "health_handler")),
	}
}

// Liveness handles GET /healthz. Always ok while the process serves.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{
		"status":  "ok",
		"version": contracts.Version,
	})
}

// Readiness handles GET /readyz. Degraded status is reported with 200:
// a stale cache still serves reads when storage is down.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.Check(r.Context()))
}

// Version handles GET /api/version.
func (h *HealthHandler) Version(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, contracts.GetVersionInfo())
}
