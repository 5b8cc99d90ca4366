package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "2012-T1", cfg.Analytics.CutoffPeriod)
	assert.Equal(t, "data/rede_unimed.txt", cfg.Analytics.BrandExceptionFile)
	assert.True(t, cfg.Security.RateLimit.Enabled)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yaml")
	content := `
server:
  port: 9090
database:
  path: /tmp/test.db
analytics:
  cutoff_period: "2015-T1"
`
	require.NoError(t, os.WriteFile(configFile, []byte(content), 0644))

	cfg, err := LoadFrom(configFile)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "/tmp/test.db", cfg.Database.Path)
	assert.Equal(t, "2015-T1", cfg.Analytics.CutoffPeriod)
	// Untouched sections keep their defaults
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("server:\n  port: 9090\n"), 0644))

	t.Setenv("ANS_SERVER_PORT", "7070")

	cfg, err := LoadFrom(configFile)
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid defaults",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "invalid port",
			mutate:  func(c *Config) { c.Server.Port = -1 },
			wantErr: true,
		},
		{
			name:    "invalid log level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: true,
		},
		{
			name:    "missing cutoff period",
			mutate:  func(c *Config) { c.Analytics.CutoffPeriod = "" },
			wantErr: true,
		},
		{
			name:    "no allowed origins",
			mutate:  func(c *Config) { c.Security.AllowedOrigins = nil },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadFrom(filepath.Join(t.TempDir(), "none.yaml"))
			require.NoError(t, err)

			tt.mutate(cfg)
			err = cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBrandExceptionPath(t *testing.T) {
	cfg := &Config{}
	assert.Empty(t, cfg.BrandExceptionPath())

	cfg.Analytics.BrandExceptionFile = "/abs/rede_unimed.txt"
	assert.Equal(t, "/abs/rede_unimed.txt", cfg.BrandExceptionPath())
}
