package brand

import (
	"sort"

	"anspulse/pkg/contracts/domain"
)

// Performance summarizes how an operator sits inside its economic group
// for one reporting period.
type Performance struct {
	Brand            string  `json:"brand"`
	GroupSize        int     `json:"group_size"`
	ShareOfBrand     float64 `json:"share_of_brand"`
	MedianLivesQoQ   float64 `json:"median_lives_qoq"`
	MedianRevenueQoQ float64 `json:"median_revenue_qoq"`
}

// AnalyzePerformance computes group statistics for the focal operator
// within a single-period slice of the master dataset: the group's size,
// the operator's share of the group's lives (0 when the group total is
// zero), and the group's median QoQ growth for lives and revenue.
func (c *Classifier) AnalyzePerformance(slice []domain.MasterRow, focal domain.MasterRow) Performance {
	label := c.Classify(focal.LegalName, focal.OperatorID)

	var group []domain.MasterRow
	for _, r := range slice {
		if c.Classify(r.LegalName, r.OperatorID) == label {
			group = append(group, r)
		}
	}

	var totalLives int64
	livesQoQ := make([]float64, 0, len(group))
	revenueQoQ := make([]float64, 0, len(group))
	for _, r := range group {
		totalLives += r.Lives
		livesQoQ = append(livesQoQ, r.LivesQoQ)
		revenueQoQ = append(revenueQoQ, r.RevenueQoQ)
	}

	share := 0.0
	if totalLives > 0 {
		share = float64(focal.Lives) / float64(totalLives) * 100
	}

	return Performance{
		Brand:            label,
		GroupSize:        len(group),
		ShareOfBrand:     share,
		MedianLivesQoQ:   median(livesQoQ),
		MedianRevenueQoQ: median(revenueQoQ),
	}
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}
