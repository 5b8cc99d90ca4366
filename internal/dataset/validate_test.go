package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"anspulse/pkg/contracts/domain"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name       string
		rows       []domain.MasterRow
		wantCount  int
		wantColumn string
	}{
		{
			name: "valid rows",
			rows: []domain.MasterRow{
				{Period: "2023-T1", OperatorID: "005711", UF: "PE", Lives: 100},
				{Period: "2023-T2", OperatorID: "005711", UF: "PE", Lives: 110},
			},
			wantCount: 0,
		},
		{
			name:       "empty period",
			rows:       []domain.MasterRow{{OperatorID: "005711"}},
			wantCount:  1,
			wantColumn: "ID_TRIMESTRE",
		},
		{
			name:       "non-canonical operator id",
			rows:       []domain.MasterRow{{Period: "2023-T1", OperatorID: "5711"}},
			wantCount:  1,
			wantColumn: "ID_OPERADORA",
		},
		{
			name:       "invalid state code",
			rows:       []domain.MasterRow{{Period: "2023-T1", OperatorID: "005711", UF: "XX"}},
			wantCount:  1,
			wantColumn: "uf",
		},
		{
			name: "empty state code allowed",
			rows: []domain.MasterRow{{Period: "2023-T1", OperatorID: "005711", UF: ""}},
		},
		{
			name: "duplicate key pair",
			rows: []domain.MasterRow{
				{Period: "2023-T1", OperatorID: "005711"},
				{Period: "2023-T1", OperatorID: "005711"},
			},
			wantCount:  1,
			wantColumn: "ID_OPERADORA",
		},
		{
			name:       "negative lives",
			rows:       []domain.MasterRow{{Period: "2023-T1", OperatorID: "005711", Lives: -1}},
			wantCount:  1,
			wantColumn: "NR_BENEF_T",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			violations := Validate(tt.rows)
			assert.Len(t, violations, tt.wantCount)
			if tt.wantCount > 0 {
				assert.Equal(t, tt.wantColumn, violations[0].Column)
				assert.NotEmpty(t, violations[0].String())
			}
		})
	}
}
