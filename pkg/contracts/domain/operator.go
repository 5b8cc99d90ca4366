// Package domain holds the tabular row types shared between the storage,
// consolidation and serving layers. Column-oriented JSON and CSV tags keep
// the wire names identical to the upstream ANS table columns so the
// rendering layer can consume them unchanged.
package domain

// OperatorRecord is one row of the operator registry dimension. One row
// per operator; attributes do not vary by reporting period.
//
// RegistryCode carries the raw value as read from storage; it is
// normalized to the canonical 6-digit form before any join.
type OperatorRecord struct {
	RegistryCode       string `json:"registro_operadora"`
	LegalName          string `json:"razao_social"`
	CNPJ               string `json:"cnpj"`
	UF                 string `json:"uf"`
	City               string `json:"cidade"`
	Segment            string `json:"modalidade"`
	Representative     string `json:"representante"`
	RepresentativeRole string `json:"cargo_representante"`
	RegistrationDate   string `json:"Data_Registro_ANS"`
	DecredentialDate   string `json:"data_descredenciamento,omitempty"`
	DecredentialReason string `json:"motivo_descredenciamento,omitempty"`
}

// BeneficiaryFact is one row of the beneficiary fact table: the count of
// covered lives for an operator in a reporting period.
type BeneficiaryFact struct {
	OperatorID string `json:"CD_OPERADO"`
	Period     string `json:"ID_TRIMESTRE"`
	Lives      int64  `json:"NR_BENEF_T"`
}

// FinancialFact is one row of the financial statements fact table: the
// closing balance reported by an operator in a reporting period.
type FinancialFact struct {
	OperatorID string  `json:"REG_ANS"`
	Period     string  `json:"ID_TRIMESTRE"`
	Revenue    float64 `json:"VL_SALDO_FINAL"`
}
