package brand

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"anspulse/pkg/contracts/domain"
)

func TestClassify(t *testing.T) {
	c := NewClassifier(nil)

	tests := []struct {
		name       string
		legalName  string
		operatorID string
		want       string
	}{
		{"unimed prefix", "UNIMED CARUARU COOPERATIVA", "123456", "UNIMED"},
		{"bradesco", "BRADESCO SAUDE S.A.", "1", "BRADESCO"},
		{"amil", "AMIL ASSISTENCIA MEDICA", "1", "AMIL"},
		{"sul america spaced", "SUL AMERICA SEGURO SAUDE", "1", "SULAMERICA"},
		{"sul america joined", "SULAMERICA CIA DE SEGURO", "1", "SULAMERICA"},
		{"sul america accented", "SUL AMÉRICA SEGURO SAÚDE", "1", "SULAMERICA"},
		{"hapvida", "HAPVIDA ASSISTENCIA MEDICA", "1", "HAPVIDA"},
		{"notre dame spaced", "NOTRE DAME INTERMEDICA", "1", "NOTREDAME"},
		{"notre dame joined", "NOTREDAME INTERMEDICA", "1", "NOTREDAME"},
		{"gndi", "GNDI MINAS", "1", "NOTREDAME"},
		{"golden cross", "GOLDEN CROSS ASSISTENCIA", "1", "GOLDEN CROSS"},
		{"porto seguro", "PORTO SEGURO SAUDE", "1", "PORTO SEGURO"},
		{"fallback first token", "SANTA CASA DE MISERICORDIA", "1", "SANTA"},
		{"fallback strips hyphens", "MEDI-SAUDE LTDA", "1", "MEDISAUDE"},
		{"lower case input", "unimed fortaleza", "1", "UNIMED"},
		{"blank name", "   ", "1", "OUTROS"},
		{"empty name", "", "1", "OUTROS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.legalName, tt.operatorID))
		})
	}
}

func TestClassifyExceptionListWinsOverName(t *testing.T) {
	set := ExceptionSet{"005711": {}}
	c := NewClassifier(set)

	// Membership overrides the legal name entirely.
	assert.Equal(t, "UNIMED", c.Classify("HOSPITAL SANTA HELENA", "5711"))
	assert.Equal(t, "UNIMED", c.Classify("HOSPITAL SANTA HELENA", "5711.0"))
	assert.Equal(t, "UNIMED", c.Classify("", " 5711 "))

	// Non-members follow the normal rules.
	assert.Equal(t, "HOSPITAL", c.Classify("HOSPITAL SANTA HELENA", "999999"))
}

func TestClassifyIsPure(t *testing.T) {
	c := NewClassifier(ExceptionSet{"000001": {}})
	for i := 0; i < 3; i++ {
		assert.Equal(t, "UNIMED", c.Classify("ACME", "1"))
		assert.Equal(t, "BRADESCO", c.Classify("BRADESCO DENTAL", "2"))
	}
}

func TestLoadExceptionSet(t *testing.T) {
	t.Run("normalizes raw lines", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "rede_unimed.txt")
		content := "5711,\n 368253 \n414514.0\n\n005711\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		set := LoadExceptionSet(context.Background(), path, slog.Default())

		assert.Len(t, set, 3)
		assert.True(t, set.Contains("005711"))
		assert.True(t, set.Contains("368253"))
		assert.True(t, set.Contains("414514"))
	})

	t.Run("missing file degrades to empty set", func(t *testing.T) {
		set := LoadExceptionSet(context.Background(), filepath.Join(t.TempDir(), "nope.txt"), slog.Default())
		assert.Empty(t, set)
		assert.False(t, set.Contains("005711"))
	})

	t.Run("empty path", func(t *testing.T) {
		set := LoadExceptionSet(context.Background(), "", slog.Default())
		assert.Empty(t, set)
	})
}

func TestAnalyzePerformance(t *testing.T) {
	c := NewClassifier(nil)

	slice := []domain.MasterRow{
		{OperatorID: "000001", LegalName: "UNIMED RECIFE", Lives: 300, LivesQoQ: 0.10, RevenueQoQ: 0.05},
		{OperatorID: "000002", LegalName: "UNIMED NATAL", Lives: 100, LivesQoQ: 0.02, RevenueQoQ: 0.01},
		{OperatorID: "000003", LegalName: "UNIMED FORTALEZA", Lives: 100, LivesQoQ: -0.04, RevenueQoQ: 0.03},
		{OperatorID: "000004", LegalName: "BRADESCO SAUDE", Lives: 900, LivesQoQ: 0.50, RevenueQoQ: 0.50},
	}

	perf := c.AnalyzePerformance(slice, slice[0])

	assert.Equal(t, "UNIMED", perf.Brand)
	assert.Equal(t, 3, perf.GroupSize)
	assert.InDelta(t, 60.0, perf.ShareOfBrand, 1e-9) // 300 of 500
	assert.InDelta(t, 0.02, perf.MedianLivesQoQ, 1e-9)
	assert.InDelta(t, 0.03, perf.MedianRevenueQoQ, 1e-9)
}

func TestAnalyzePerformanceZeroGroupLives(t *testing.T) {
	c := NewClassifier(nil)
	focal := domain.MasterRow{OperatorID: "000001", LegalName: "UNIMED X", Lives: 0}

	perf := c.AnalyzePerformance([]domain.MasterRow{focal}, focal)
	assert.Equal(t, 0.0, perf.ShareOfBrand)
	assert.Equal(t, 1, perf.GroupSize)
}
