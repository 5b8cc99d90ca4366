// Package powerscore computes the composite 0-100 ranking score that
// blends portfolio size and growth signals for a single reporting
// period.
package powerscore

import (
	"sort"

	"anspulse/pkg/contracts/domain"
)

// Component weights and growth clipping bounds are fixed business
// constants, not user-configurable.
const (
	WeightLives   = 0.40
	WeightRevenue = 0.40
	WeightGrowth  = 0.20

	growthClipMin = -0.10
	growthClipMax = 0.10
)

// ScoredRow is a master dataset row extended with its Power Score and
// 1-based rank.
type ScoredRow struct {
	domain.MasterRow
	PowerScore float64 `json:"Power_Score"`
	Rank       int     `json:"Rank"`
}

// Score computes the Power Score for an already period/segment-filtered
// slice; it must never be applied across periods. The result is sorted
// descending by score, with insertion order preserved on ties, and
// ranked with minimum-rank semantics (equal scores share the lowest
// position of their run).
//
// An empty slice returns an empty result immediately.
func Score(slice []domain.MasterRow) []ScoredRow {
	if len(slice) == 0 {
		return []ScoredRow{}
	}

	// Volume normalization: max of 0 is treated as 1 to avoid division
	// by zero when the whole slice reports zeros.
	maxLives, maxRevenue := 1.0, 1.0
	for _, r := range slice {
		if v := float64(r.Lives); v > maxLives {
			maxLives = v
		}
		if r.Revenue > maxRevenue {
			maxRevenue = r.Revenue
		}
	}

	scored := make([]ScoredRow, len(slice))
	for i, r := range slice {
		sizeScore := float64(r.Lives) / maxLives
		revenueScore := r.Revenue / maxRevenue
		growthScore := (rescaleGrowth(r.LivesQoQ) + rescaleGrowth(r.RevenueQoQ)) / 2

		scored[i] = ScoredRow{
			MasterRow: r,
			PowerScore: 100 * (WeightLives*sizeScore +
				WeightRevenue*revenueScore +
				WeightGrowth*growthScore),
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].PowerScore > scored[j].PowerScore
	})

	rank(scored)
	return scored
}

// rescaleGrowth clips a QoQ rate to [-10%, +10%] and rescales the
// clipped range linearly to [0, 1], so extreme swings cannot distort
// the growth component.
func rescaleGrowth(rate float64) float64 {
	if rate < growthClipMin {
		rate = growthClipMin
	}
	if rate > growthClipMax {
		rate = growthClipMax
	}
	return (rate - growthClipMin) / (growthClipMax - growthClipMin)
}

// rank assigns 1-based positions over the sorted slice with minimum-rank
// semantics: rows with equal scores receive the equal, lowest rank.
func rank(scored []ScoredRow) {
	for i := range scored {
		if i > 0 && scored[i].PowerScore == scored[i-1].PowerScore {
			scored[i].Rank = scored[i-1].Rank
			continue
		}
		scored[i].Rank = i + 1
	}
}
