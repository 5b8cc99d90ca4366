package services

import (
	"context"
	"log/slog"
	"time"

	"anspulse/pkg/contracts"
)

// Pinger verifies a storage backend is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthStatus is the readiness report served at /readyz.
type HealthStatus struct {
	Status       string    `json:"status"`
	Version      string    `json:"version"`
	StorageOK    bool      `json:"storage_ok"`
	DatasetBuilt bool      `json:"dataset_built"`
	DatasetRows  int       `json:"dataset_rows"`
	BuiltAt      time.Time `json:"built_at,omitempty"`
	CheckedAt    time.Time `json:"checked_at"`
}

// HealthService reports service liveness and readiness.
type HealthService struct {
	pinger Pinger
	data   *DataService
	logger *slog.Logger
}

// NewHealthService creates a health service.
func NewHealthService(pinger Pinger, data *DataService, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		pinger: pinger,
		data:   data,
		logger: logger.With(slog.String("component", "health_service")),
	}
}

// Check returns the current readiness status. The service is degraded
// rather than down when storage is unreachable: the cached dataset, if
// any, still serves reads.
func (h *HealthService) Check(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "ok",
		Version:   contracts.Version,
		StorageOK: true,
		CheckedAt: time.Now(),
	}

	if err := h.pinger.Ping(ctx); err != nil {
		status.StorageOK = false
		status.Status = "degraded"
		h.logger.WarnContext(ctx, "storage unreachable", slog.String("error", err.Error()))
	}

	rows, built, when := h.data.CacheInfo()
	status.DatasetBuilt = built
	status.DatasetRows = rows
	if built {
		status.BuiltAt = when
	}
	return status
}
