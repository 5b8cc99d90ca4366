package domain

// MasterRow is one (operator, period) row of the consolidated master
// dataset. Exactly one row exists per pair after consolidation.
//
// Period identifiers are opaque strings that sort lexicographically in
// chronological order ("2012-T1", "202401"); they are never parsed as
// dates. Dimension attributes are empty strings when the fact row had no
// match in the operator registry.
type MasterRow struct {
	Period      string  `json:"ID_TRIMESTRE" csv:"ID_TRIMESTRE"`
	OperatorID  string  `json:"ID_OPERADORA" csv:"ID_OPERADORA"`
	LegalName   string  `json:"razao_social" csv:"razao_social"`
	CNPJ        string  `json:"cnpj" csv:"cnpj"`
	UF          string  `json:"uf" csv:"uf"`
	Segment     string  `json:"modalidade" csv:"modalidade"`
	City        string  `json:"cidade" csv:"cidade"`
	Lives       int64   `json:"NR_BENEF_T" csv:"NR_BENEF_T"`
	Revenue     float64 `json:"VL_SALDO_FINAL" csv:"VL_SALDO_FINAL"`
	LivesQoQ    float64 `json:"VAR_PCT_VIDAS" csv:"VAR_PCT_VIDAS"`
	RevenueQoQ  float64 `json:"VAR_PCT_RECEITA" csv:"VAR_PCT_RECEITA"`
	CostPerLife float64 `json:"CUSTO_POR_VIDA" csv:"CUSTO_POR_VIDA"`
}

// FilterPeriod returns the rows belonging to the given period.
func FilterPeriod(rows []MasterRow, period string) []MasterRow {
	out := make([]MasterRow, 0)
	for _, r := range rows {
		if r.Period == period {
			out = append(out, r)
		}
	}
	return out
}

// Periods returns the distinct periods present in rows, unordered.
func Periods(rows []MasterRow) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, r := range rows {
		if _, ok := seen[r.Period]; !ok {
			seen[r.Period] = struct{}{}
			out = append(out, r.Period)
		}
	}
	return out
}
