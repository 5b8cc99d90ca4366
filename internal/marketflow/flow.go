// Package marketflow analyzes operator entry and exit between two
// reporting periods and the financial and lives impact of that churn.
package marketflow

import (
	"anspulse/pkg/contracts/domain"
)

// Flow computes the entrant and exit sets between a reference period and
// an earlier comparison period.
//
// Entrants are rows from the reference period whose operator is absent
// from the comparison period. Exits are rows from the comparison period
// whose operator is absent from the reference period; exit rows carry
// the values as last observed in the comparison period, so lives lost
// reflect what was actually lost. The master dataset is never mutated;
// both results are fresh slices.
func Flow(master []domain.MasterRow, periodRef, periodComp string) (entrants, exits []domain.MasterRow) {
	refRows := domain.FilterPeriod(master, periodRef)
	compRows := domain.FilterPeriod(master, periodComp)

	refIDs := operatorSet(refRows)
	compIDs := operatorSet(compRows)

	entrants = make([]domain.MasterRow, 0)
	for _, r := range refRows {
		if _, ok := compIDs[r.OperatorID]; !ok {
			entrants = append(entrants, r)
		}
	}

	exits = make([]domain.MasterRow, 0)
	for _, r := range compRows {
		if _, ok := refIDs[r.OperatorID]; !ok {
			exits = append(exits, r)
		}
	}
	return entrants, exits
}

func operatorSet(rows []domain.MasterRow) map[string]struct{} {
	set := make(map[string]struct{}, len(rows))
	for _, r := range rows {
		set[r.OperatorID] = struct{}{}
	}
	return set
}
