package dataset

import (
	"fmt"

	"anspulse/pkg/contracts/domain"
)

// validUF is the closed set of Brazilian state codes accepted in the
// master dataset. An empty UF is allowed: fact rows without a dimension
// match carry no registry attributes.
var validUF = map[string]struct{}{
	"SP": {}, "RJ": {}, "MG": {}, "ES": {}, "RS": {}, "SC": {}, "PR": {},
	"BA": {}, "PE": {}, "CE": {}, "DF": {}, "GO": {}, "MT": {}, "MS": {},
	"AM": {}, "PA": {}, "RO": {}, "RR": {}, "AP": {}, "TO": {}, "MA": {},
	"PI": {}, "RN": {}, "PB": {}, "AL": {}, "SE": {}, "AC": {},
}

// Violation describes a single schema violation found in the master
// dataset. Violations are reported to the caller's logger; they never
// abort the pipeline.
type Violation struct {
	Row     int    `json:"row"`
	Column  string `json:"column"`
	Message string `json:"message"`
}

func (v Violation) String() string {
	return fmt.Sprintf("row %d, column %s: %s", v.Row, v.Column, v.Message)
}

// Validate checks the consolidated dataset against the declared schema:
// non-empty sortable period, canonical 6-digit operator id, non-negative
// beneficiary count, UF inside the closed state-code set, and uniqueness
// of the (operator, period) key.
func Validate(rows []domain.MasterRow) []Violation {
	var violations []Violation
	seen := make(map[factKey]int, len(rows))

	for i, r := range rows {
		if r.Period == "" {
			violations = append(violations, Violation{i, "ID_TRIMESTRE", "period is empty"})
		}
		if !isCanonicalKey(r.OperatorID) {
			violations = append(violations, Violation{i, "ID_OPERADORA",
				fmt.Sprintf("%q is not a canonical 6-digit code", r.OperatorID)})
		}
		if r.Lives < 0 {
			violations = append(violations, Violation{i, "NR_BENEF_T",
				fmt.Sprintf("beneficiary count %d is negative", r.Lives)})
		}
		if r.UF != "" {
			if _, ok := validUF[r.UF]; !ok {
				violations = append(violations, Violation{i, "uf",
					fmt.Sprintf("%q is not a valid state code", r.UF)})
			}
		}

		k := factKey{r.OperatorID, r.Period}
		if prev, dup := seen[k]; dup {
			violations = append(violations, Violation{i, "ID_OPERADORA",
				fmt.Sprintf("duplicate (operator, period) key, first seen at row %d", prev)})
		} else {
			seen[k] = i
		}
	}
	return violations
}

func isCanonicalKey(id string) bool {
	if len(id) != keyLength {
		return false
	}
	for _, c := range id {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
