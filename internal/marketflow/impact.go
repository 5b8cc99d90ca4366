package marketflow

import (
	"anspulse/internal/brand"
	"anspulse/pkg/contracts/domain"
)

// Impact aggregates the gained and lost lives and revenue for one scope
// (whole market or a single brand).
type Impact struct {
	EntrantCount   int     `json:"entrant_count"`
	ExitCount      int     `json:"exit_count"`
	LivesGained    int64   `json:"lives_gained"`
	LivesLost      int64   `json:"lives_lost"`
	LivesNet       int64   `json:"lives_net"`
	LivesBalance   float64 `json:"lives_balance"`
	RevenueGained  float64 `json:"revenue_gained"`
	RevenueLost    float64 `json:"revenue_lost"`
	RevenueNet     float64 `json:"revenue_net"`
	RevenueBalance float64 `json:"revenue_balance"`
}

// ImpactReport breaks the churn impact down for the whole market and
// for the UNIMED brand specifically.
type ImpactReport struct {
	Market Impact `json:"market"`
	Unimed Impact `json:"unimed"`
}

// Engine computes impact reports, classifying rows with the injected
// brand classifier.
type Engine struct {
	classifier *brand.Classifier
}

// NewEngine creates a market flow engine.
func NewEngine(classifier *brand.Classifier) *Engine {
	return &Engine{classifier: classifier}
}

// Impact classifies entrant and exit rows by brand and aggregates the
// gained/lost beneficiaries and revenue for the whole market and for
// the UNIMED brand.
func (e *Engine) Impact(entrants, exits []domain.MasterRow) ImpactReport {
	var report ImpactReport

	for _, r := range entrants {
		report.Market.EntrantCount++
		report.Market.LivesGained += r.Lives
		report.Market.RevenueGained += r.Revenue
		if e.classifier.Classify(r.LegalName, r.OperatorID) == brand.UnimedLabel {
			report.Unimed.EntrantCount++
			report.Unimed.LivesGained += r.Lives
			report.Unimed.RevenueGained += r.Revenue
		}
	}
	for _, r := range exits {
		report.Market.ExitCount++
		report.Market.LivesLost += r.Lives
		report.Market.RevenueLost += r.Revenue
		if e.classifier.Classify(r.LegalName, r.OperatorID) == brand.UnimedLabel {
			report.Unimed.ExitCount++
			report.Unimed.LivesLost += r.Lives
			report.Unimed.RevenueLost += r.Revenue
		}
	}

	finalize(&report.Market)
	finalize(&report.Unimed)
	return report
}

func finalize(im *Impact) {
	im.LivesNet = im.LivesGained - im.LivesLost
	im.RevenueNet = im.RevenueGained - im.RevenueLost
	im.LivesBalance = balance(float64(im.LivesGained), float64(im.LivesLost))
	im.RevenueBalance = balance(im.RevenueGained, im.RevenueLost)
}

// balance is the percentage-balance convention used by the dashboard:
// (gained - lost) / lost when lost > 0, else 1.0 when anything was
// gained and 0.0 otherwise. The zero-denominator sentinels are part of
// the reporting contract and must not be "fixed" into a true
// percentage.
func balance(gained, lost float64) float64 {
	if lost > 0 {
		return (gained - lost) / lost
	}
	if gained > 0 {
		return 1.0
	}
	return 0.0
}
