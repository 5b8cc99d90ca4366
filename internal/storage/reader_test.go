package storage

import (
	"context"
	"database/sql"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestReader(t *testing.T, schema ...string) *Reader {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	for _, stmt := range schema {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}
	require.NoError(t, db.Close())

	reader, err := Open(path, slog.Default())
	require.NoError(t, err)
	t.Cleanup(func() { reader.Close() })
	return reader
}

func TestOperatorDimension(t *testing.T) {
	reader := openTestReader(t,
		`CREATE TABLE operadoras (
			registro_operadora, razao_social, cnpj, uf, cidade, modalidade,
			representante, cargo_representante, Data_Registro_ANS
		)`,
		`INSERT INTO operadoras VALUES
			(5711, 'UNIMED CARUARU', '11222333000144', 'PE', 'Caruaru',
			 'Cooperativa Médica', 'FULANO', 'DIRETOR', '1999-01-01'),
			('368253', 'BRADESCO SAUDE', NULL, 'SP', NULL, 'Seguradora', NULL, NULL, NULL)`,
	)

	recs := reader.OperatorDimension(context.Background())
	require.Len(t, recs, 2)

	// Numeric registry codes come back as their textual representation;
	// normalization happens downstream.
	assert.Equal(t, "5711", recs[0].RegistryCode)
	assert.Equal(t, "UNIMED CARUARU", recs[0].LegalName)
	assert.Equal(t, "PE", recs[0].UF)

	assert.Equal(t, "368253", recs[1].RegistryCode)
	assert.Empty(t, recs[1].CNPJ) // NULL coalesces to empty
}

func TestBeneficiaryFactsCutoff(t *testing.T) {
	reader := openTestReader(t,
		`CREATE TABLE beneficiarios (CD_OPERADO, ID_TRIMESTRE, NR_BENEF_T)`,
		`INSERT INTO beneficiarios VALUES
			(5711, '2011-T4', 500),
			(5711, '2012-T1', 600),
			(5711, '2023-T2', 700)`,
	)

	facts := reader.BeneficiaryFacts(context.Background(), "2012-T1")
	require.Len(t, facts, 2)
	assert.Equal(t, "2012-T1", facts[0].Period)
	assert.Equal(t, int64(600), facts[0].Lives)
}

func TestFinancialFacts(t *testing.T) {
	reader := openTestReader(t,
		`CREATE TABLE financeiro (REG_ANS, ID_TRIMESTRE, VL_SALDO_FINAL)`,
		`INSERT INTO financeiro VALUES ('5711', '2023-T1', 1234.56)`,
	)

	facts := reader.FinancialFacts(context.Background(), "2012-T1")
	require.Len(t, facts, 1)
	assert.Equal(t, "5711", facts[0].OperatorID)
	assert.InDelta(t, 1234.56, facts[0].Revenue, 1e-9)
}

func TestQueriesFailOpen(t *testing.T) {
	// No tables at all: every extract degrades to an empty result
	// instead of an error.
	reader := openTestReader(t)
	ctx := context.Background()

	assert.Empty(t, reader.OperatorDimension(ctx))
	assert.Empty(t, reader.BeneficiaryFacts(ctx, "2012-T1"))
	assert.Empty(t, reader.FinancialFacts(ctx, "2012-T1"))
}

func TestPing(t *testing.T) {
	reader := openTestReader(t)
	assert.NoError(t, reader.Ping(context.Background()))
}

func TestRawString(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  string
	}{
		{"string", "5711", "5711"},
		{"bytes", []byte("5711"), "5711"},
		{"int64", int64(5711), "5711"},
		{"float64", float64(5711.0), "5711"},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rawString(tt.input))
		})
	}
}
