package services

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"anspulse/internal/brand"
	"anspulse/pkg/contracts/domain"
)

// stubBuilder counts builds and returns a fixed dataset.
type stubBuilder struct {
	rows   []domain.MasterRow
	builds int
}

func (b *stubBuilder) BuildMasterDataset(ctx context.Context) []domain.MasterRow {
	b.builds++
	return b.rows
}

func fixtureRows() []domain.MasterRow {
	return []domain.MasterRow{
		{OperatorID: "000001", Period: "2023-T2", LegalName: "UNIMED RECIFE", UF: "PE", Segment: "Cooperativa Médica", Lives: 500, Revenue: 5000, LivesQoQ: 0.05},
		{OperatorID: "000002", Period: "2023-T2", LegalName: "BRADESCO SAUDE", UF: "SP", Segment: "Seguradora", Lives: 900, Revenue: 9000},
		{OperatorID: "000003", Period: "2023-T2", LegalName: "UNIMED NATAL", UF: "RN", Segment: "Cooperativa Médica", Lives: 100, Revenue: 1000},
		{OperatorID: "000001", Period: "2023-T1", LegalName: "UNIMED RECIFE", UF: "PE", Segment: "Cooperativa Médica", Lives: 480, Revenue: 4800},
		{OperatorID: "000009", Period: "2023-T1", LegalName: "SAIU DO MERCADO", UF: "BA", Segment: "Medicina de Grupo", Lives: 50, Revenue: 500},
	}
}

func newTestService(rows []domain.MasterRow) (*DataService, *stubBuilder) {
	builder := &stubBuilder{rows: rows}
	svc := NewDataService(builder, brand.NewClassifier(nil), slog.Default())
	return svc, builder
}

func TestMasterDatasetCachedOnce(t *testing.T) {
	svc, builder := newTestService(fixtureRows())
	ctx := context.Background()

	first := svc.MasterDataset(ctx)
	second := svc.MasterDataset(ctx)

	assert.Equal(t, 1, builder.builds)
	assert.Equal(t, first, second)

	svc.Invalidate()
	svc.MasterDataset(ctx)
	assert.Equal(t, 2, builder.builds)
}

func TestPeriodsDescending(t *testing.T) {
	svc, _ := newTestService(fixtureRows())
	assert.Equal(t, []string{"2023-T2", "2023-T1"}, svc.Periods(context.Background()))
}

func TestDatasetSliceFilters(t *testing.T) {
	svc, _ := newTestService(fixtureRows())
	ctx := context.Background()

	assert.Len(t, svc.DatasetSlice(ctx, "2023-T2", "", ""), 3)
	assert.Len(t, svc.DatasetSlice(ctx, "2023-T2", "PE", ""), 1)
	assert.Len(t, svc.DatasetSlice(ctx, "", "", "Cooperativa Médica"), 3)
	assert.Empty(t, svc.DatasetSlice(ctx, "1999-T1", "", ""))
}

func TestPowerRanking(t *testing.T) {
	svc, _ := newTestService(fixtureRows())
	ctx := context.Background()

	scored := svc.PowerRanking(ctx, RankingQuery{Period: "2023-T2"})
	require.Len(t, scored, 3)
	assert.Equal(t, "000002", scored[0].OperatorID)
	assert.Equal(t, 1, scored[0].Rank)

	// Brand filter keeps only the UNIMED rows.
	unimed := svc.PowerRanking(ctx, RankingQuery{Period: "2023-T2", Brand: "UNIMED"})
	require.Len(t, unimed, 2)
	for _, s := range unimed {
		assert.Contains(t, []string{"000001", "000003"}, s.OperatorID)
	}

	// Unknown period yields an empty, non-nil result.
	assert.Empty(t, svc.PowerRanking(ctx, RankingQuery{Period: "1999-T1"}))
}

func TestMarketFlow(t *testing.T) {
	svc, _ := newTestService(fixtureRows())

	result := svc.MarketFlow(context.Background(), "2023-T2", "2023-T1")

	require.Len(t, result.Entrants, 2) // 000002 and 000003 are new in T2
	require.Len(t, result.Exits, 1)
	assert.Equal(t, "000009", result.Exits[0].OperatorID)
	assert.Equal(t, int64(50), result.Impact.Market.LivesLost)
	assert.Equal(t, int64(1000), result.Impact.Market.LivesGained)
}

func TestBrandPerformance(t *testing.T) {
	svc, _ := newTestService(fixtureRows())
	ctx := context.Background()

	perf, err := svc.BrandPerformance(ctx, "2023-T2", "1")
	require.NoError(t, err)
	assert.Equal(t, "UNIMED", perf.Brand)
	assert.Equal(t, 2, perf.GroupSize)

	_, err = svc.BrandPerformance(ctx, "2023-T2", "424242")
	assert.ErrorIs(t, err, ErrOperatorNotFound)
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(ctx context.Context) error { return p.err }

func TestHealthCheck(t *testing.T) {
	svc, _ := newTestService(fixtureRows())
	ctx := context.Background()

	t.Run("healthy", func(t *testing.T) {
		h := NewHealthService(stubPinger{}, svc, slog.Default())
		svc.MasterDataset(ctx)

		status := h.Check(ctx)
		assert.Equal(t, "ok", status.Status)
		assert.True(t, status.StorageOK)
		assert.True(t, status.DatasetBuilt)
		assert.Equal(t, 5, status.DatasetRows)
	})

	t.Run("storage down degrades", func(t *testing.T) {
		h := NewHealthService(stubPinger{err: errors.New("locked")}, svc, slog.Default())

		status := h.Check(ctx)
		assert.Equal(t, "degraded", status.Status)
		assert.False(t, status.StorageOK)
	})
}
