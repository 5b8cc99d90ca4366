package services

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"anspulse/internal/brand"
	"anspulse/internal/dataset"
	"anspulse/internal/marketflow"
	"anspulse/internal/powerscore"
	"anspulse/pkg/contracts/domain"
)

var (
	// ErrOperatorNotFound is returned when the requested operator has no
	// row in the requested period.
	ErrOperatorNotFound = errors.New("operator not found in period")
)

var (
	datasetBuilds = promauto.NewCounter(prometheus.CounterOpts{
		Name: "anspulse_dataset_builds_total",
		Help: "Master dataset consolidations performed.",
	})
	datasetBuildDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "anspulse_dataset_build_duration_seconds",
		Help:    "Wall time of a master dataset consolidation.",
		Buckets: prometheus.DefBuckets,
	})
	datasetRows = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "anspulse_dataset_rows",
		Help: "Rows in the cached master dataset.",
	})
)

// DatasetBuilder abstracts the consolidation pipeline.
type DatasetBuilder interface {
	BuildMasterDataset(ctx context.Context) []domain.MasterRow
}

// RankingQuery filters the slice fed to the Power Score engine.
// Period is required; Segment and Brand are optional.
type RankingQuery struct {
	Period  string
	Segment string
	Brand   string
}

// FlowResult is the market flow output: the entrant and exit rows plus
// the aggregated impact report.
type FlowResult struct {
	PeriodRef  string                 `json:"period_ref"`
	PeriodComp string                 `json:"period_comp"`
	Entrants   []domain.MasterRow     `json:"entrants"`
	Exits      []domain.MasterRow     `json:"exits"`
	Impact     marketflow.ImpactReport `json:"impact"`
}

// DataService builds and caches the master dataset and serves the
// derived analytics. The cache is guarded for concurrent readers; all
// derived computations work on the immutable cached slice.
type DataService struct {
	builder    DatasetBuilder
	classifier *brand.Classifier
	flow       *marketflow.Engine
	logger     *slog.Logger

	mu     sync.RWMutex
	cached []domain.MasterRow
	built  bool
	when   time.Time
}

// NewDataService creates a data service.
func NewDataService(builder DatasetBuilder, classifier *brand.Classifier, logger *slog.Logger) *DataService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DataService{
		builder:    builder,
		classifier: classifier,
		flow:       marketflow.NewEngine(classifier),
		logger:     logger.With(slog.String("component", "data_service")),
	}
}

// MasterDataset returns the cached master dataset, building it on first
// use. The returned slice is shared and must be treated as read-only.
func (s *DataService) MasterDataset(ctx context.Context) []domain.MasterRow {
	s.mu.RLock()
	if s.built {
		rows := s.cached
		s.mu.RUnlock()
		return rows
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.built {
		return s.cached
	}

	start := time.Now()
	s.cached = s.builder.BuildMasterDataset(ctx)
	s.built = true
	s.when = time.Now()

	datasetBuilds.Inc()
	datasetBuildDuration.Observe(time.Since(start).Seconds())
	datasetRows.Set(float64(len(s.cached)))

	s.logger.InfoContext(ctx, "master dataset cached",
		slog.Int("rows", len(s.cached)),
		slog.Duration("took", time.Since(start)),
	)
	return s.cached
}

// Invalidate drops the cached dataset; the next read rebuilds it.
func (s *DataService) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cached = nil
	s.built = false
}

// CacheInfo reports the cache state for health checks.
func (s *DataService) CacheInfo() (rows int, built bool, when time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.cached), s.built, s.when
}

// Periods returns the distinct reporting periods, most recent first.
func (s *DataService) Periods(ctx context.Context) []string {
	periods := domain.Periods(s.MasterDataset(ctx))
	sort.Sort(sort.Reverse(sort.StringSlice(periods)))
	return periods
}

// DatasetSlice returns master rows filtered by the optional period, UF
// and segment parameters.
func (s *DataService) DatasetSlice(ctx context.Context, period, uf, segment string) []domain.MasterRow {
	out := make([]domain.MasterRow, 0)
	for _, r := range s.MasterDataset(ctx) {
		if period != "" && r.Period != period {
			continue
		}
		if uf != "" && r.UF != uf {
			continue
		}
		if segment != "" && r.Segment != segment {
			continue
		}
		out = append(out, r)
	}
	return out
}

// PowerRanking scores the period slice selected by q and returns it
// sorted by Power Score with minimum-rank ties.
func (s *DataService) PowerRanking(ctx context.Context, q RankingQuery) []powerscore.ScoredRow {
	slice := make([]domain.MasterRow, 0)
	for _, r := range domain.FilterPeriod(s.MasterDataset(ctx), q.Period) {
		if q.Segment != "" && r.Segment != q.Segment {
			continue
		}
		if q.Brand != "" && s.classifier.Classify(r.LegalName, r.OperatorID) != q.Brand {
			continue
		}
		slice = append(slice, r)
	}
	return powerscore.Score(slice)
}

// MarketFlow computes entrants, exits and the impact report between the
// reference and comparison periods.
func (s *DataService) MarketFlow(ctx context.Context, periodRef, periodComp string) FlowResult {
	master := s.MasterDataset(ctx)
	entrants, exits := marketflow.Flow(master, periodRef, periodComp)
	return FlowResult{
		PeriodRef:  periodRef,
		PeriodComp: periodComp,
		Entrants:   entrants,
		Exits:      exits,
		Impact:     s.flow.Impact(entrants, exits),
	}
}

// BrandPerformance computes the group statistics for the operator within
// the given period.
func (s *DataService) BrandPerformance(ctx context.Context, period, operatorID string) (brand.Performance, error) {
	slice := domain.FilterPeriod(s.MasterDataset(ctx), period)
	operatorID = dataset.NormalizeKey(operatorID)

	for _, r := range slice {
		if r.OperatorID == operatorID {
			return s.classifier.AnalyzePerformance(slice, r), nil
		}
	}
	return brand.Performance{}, ErrOperatorNotFound
}
