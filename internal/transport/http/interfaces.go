package http

import (
	"context"
	"io"

	"anspulse/internal/brand"
	"anspulse/internal/powerscore"
	"anspulse/internal/services"
	"anspulse/pkg/contracts/domain"
)

// DataServiceInterface defines the analytics operations the handlers
// depend on.
type DataServiceInterface interface {
	MasterDataset(ctx context.Context) []domain.MasterRow
	Periods(ctx context.Context) []string
	DatasetSlice(ctx context.Context, period, uf, segment string) []domain.MasterRow
	PowerRanking(ctx context.Context, q services.RankingQuery) []powerscore.ScoredRow
	MarketFlow(ctx context.Context, periodRef, periodComp string) services.FlowResult
	BrandPerformance(ctx context.Context, period, operatorID string) (brand.Performance, error)
}

// HealthServiceInterface reports readiness.
type HealthServiceInterface interface {
	Check(ctx context.Context) services.HealthStatus
}

// DatasetWriter serializes dataset rows to a stream. Both export
// formats implement it.
type DatasetWriter interface {
	Write(w io.Writer, rows []domain.MasterRow) error
}
