package dataset

import (
	"context"
	"log/slog"
	"sort"

	"anspulse/pkg/contracts/domain"
)

// Source provides the three raw ANS extracts. Implementations are
// fail-open: a failed query surfaces as an empty slice, never an error,
// so the pipeline degrades to "no data" instead of aborting.
type Source interface {
	OperatorDimension(ctx context.Context) []domain.OperatorRecord
	BeneficiaryFacts(ctx context.Context, cutoff string) []domain.BeneficiaryFact
	FinancialFacts(ctx context.Context, cutoff string) []domain.FinancialFact
}

// Consolidator builds the master dataset from the three raw tables.
type Consolidator struct {
	source Source
	cutoff string
	logger *slog.Logger
}

// NewConsolidator creates a consolidator reading from source. cutoff is
// the earliest period kept in the result (lexicographic comparison).
func NewConsolidator(source Source, cutoff string, logger *slog.Logger) *Consolidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Consolidator{
		source: source,
		cutoff: cutoff,
		logger: logger.With(slog.String("component", "consolidator")),
	}
}

type factKey struct {
	operatorID string
	period     string
}

// BuildMasterDataset runs the full consolidation pipeline and returns
// the master dataset sorted by (operator id, period).
//
// Schema violations are logged but do not abort the build; the
// best-effort result is always returned.
func (c *Consolidator) BuildMasterDataset(ctx context.Context) []domain.MasterRow {
	dim := c.source.OperatorDimension(ctx)
	if len(dim) == 0 {
		c.logger.WarnContext(ctx, "operator dimension is empty, aborting consolidation")
		return nil
	}

	ben := c.source.BeneficiaryFacts(ctx, c.cutoff)
	fin := c.source.FinancialFacts(ctx, c.cutoff)

	c.logger.InfoContext(ctx, "consolidating raw extracts",
		slog.Int("dimension_rows", len(dim)),
		slog.Int("beneficiary_rows", len(ben)),
		slog.Int("financial_rows", len(fin)),
		slog.String("cutoff", c.cutoff),
	)

	rows := c.outerJoinFacts(ben, fin)
	c.enrich(rows, dim)

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].OperatorID != rows[j].OperatorID {
			return rows[i].OperatorID < rows[j].OperatorID
		}
		return rows[i].Period < rows[j].Period
	})

	computeKPIs(rows)

	if violations := Validate(rows); len(violations) > 0 {
		// Fail-open: report and keep going.
		c.logger.ErrorContext(ctx, "master dataset failed schema validation",
			slog.Int("violations", len(violations)),
			slog.String("first", violations[0].String()),
		)
	}

	c.logger.InfoContext(ctx, "master dataset built", slog.Int("rows", len(rows)))
	return rows
}

// outerJoinFacts performs the full outer join of beneficiary and
// financial facts on (normalized operator id, period). An operator may
// report beneficiaries without financials in a period, or vice versa;
// both sides must surface as a row. Missing lives and revenue coalesce
// to zero. The cutoff filter is applied here in case the extracts were
// not pre-filtered upstream.
func (c *Consolidator) outerJoinFacts(ben []domain.BeneficiaryFact, fin []domain.FinancialFact) []domain.MasterRow {
	index := make(map[factKey]int, len(ben))
	rows := make([]domain.MasterRow, 0, len(ben))

	ensure := func(k factKey) int {
		if i, ok := index[k]; ok {
			return i
		}
		rows = append(rows, domain.MasterRow{OperatorID: k.operatorID, Period: k.period})
		index[k] = len(rows) - 1
		return len(rows) - 1
	}

	for _, b := range ben {
		if b.Period < c.cutoff {
			continue
		}
		k := factKey{NormalizeKey(b.OperatorID), b.Period}
		rows[ensure(k)].Lives = b.Lives
	}
	for _, f := range fin {
		if f.Period < c.cutoff {
			continue
		}
		k := factKey{NormalizeKey(f.OperatorID), f.Period}
		rows[ensure(k)].Revenue = f.Revenue
	}
	return rows
}

// enrich left-joins the operator registry dimension onto the fact rows.
// Fact rows without a dimension match are preserved with empty
// dimension attributes.
func (c *Consolidator) enrich(rows []domain.MasterRow, dim []domain.OperatorRecord) {
	byID := make(map[string]domain.OperatorRecord, len(dim))
	for _, d := range dim {
		id := NormalizeKey(d.RegistryCode)
		if _, ok := byID[id]; !ok {
			byID[id] = d
		}
	}

	for i := range rows {
		d, ok := byID[rows[i].OperatorID]
		if !ok {
			continue
		}
		rows[i].LegalName = d.LegalName
		rows[i].CNPJ = d.CNPJ
		rows[i].UF = d.UF
		rows[i].City = d.City
		rows[i].Segment = d.Segment
	}
}

// computeKPIs fills the derived columns. rows must already be sorted by
// (operator id, period): the QoQ change compares each row with the
// previous row of the same operator, and the first observation of each
// operator reports 0.
func computeKPIs(rows []domain.MasterRow) {
	for i := range rows {
		first := i == 0 || rows[i-1].OperatorID != rows[i].OperatorID
		if first {
			rows[i].LivesQoQ = 0
			rows[i].RevenueQoQ = 0
		} else {
			rows[i].LivesQoQ = pctChange(float64(rows[i-1].Lives), float64(rows[i].Lives))
			rows[i].RevenueQoQ = pctChange(rows[i-1].Revenue, rows[i].Revenue)
		}

		if rows[i].Lives > 0 {
			rows[i].CostPerLife = rows[i].Revenue / float64(rows[i].Lives)
		} else {
			rows[i].CostPerLife = 0
		}
	}
}

// pctChange guards the zero-base case: a previous value of 0 yields 0
// rather than an infinity that would poison downstream JSON encoding.
func pctChange(prev, cur float64) float64 {
	if prev == 0 {
		return 0
	}
	return (cur - prev) / prev
}
