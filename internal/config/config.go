package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Database  DatabaseConfig  `yaml:"database" envconfig:"DATABASE"`
	Analytics AnalyticsConfig `yaml:"analytics" envconfig:"ANALYTICS"`
	Security  SecurityConfig  `yaml:"security" envconfig:"SECURITY"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080" validate:"gt=0,lte=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s" validate:"gt=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"15s" validate:"gt=0"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s" validate:"gt=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s" validate:"gt=0"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn error"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/anspulse.log"`
}

// DatabaseConfig contains the SQLite storage configuration
type DatabaseConfig struct {
	Path string `yaml:"path" envconfig:"PATH" default:"data/dados_ans.db" validate:"required"`
}

// AnalyticsConfig contains the business rules the pipeline depends on
type AnalyticsConfig struct {
	// CutoffPeriod is the earliest reporting quarter kept in the master
	// dataset. Periods compare as opaque strings, so the value must sort
	// lexicographically against ID_TRIMESTRE values.
	CutoffPeriod string `yaml:"cutoff_period" envconfig:"CUTOFF_PERIOD" default:"2012-T1" validate:"required"`

	// BrandExceptionFile is the newline-delimited list of ANS registry
	// codes that classify as the UNIMED brand regardless of legal name.
	// A missing file is non-fatal; the classifier falls back to name
	// prefix rules only.
	BrandExceptionFile string `yaml:"brand_exception_file" envconfig:"BRAND_EXCEPTION_FILE" default:"data/rede_unimed.txt"`
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS" default:"http://localhost:8080" validate:"min=1"`
	EnableCORS     bool            `yaml:"enable_cors" envconfig:"ENABLE_CORS" default:"true"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"100"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"50"`
}

// Load loads configuration from environment variables and an optional
// YAML file. Environment variables take precedence over the file.
func Load() (*Config, error) {
	return LoadFrom(configFilePath())
}

// LoadFrom loads configuration using the given YAML file path. The file
// is optional; when absent only env vars and defaults apply.
func LoadFrom(configFile string) (*Config, error) {
	var cfg Config

	if _, err := os.Stat(configFile); err == nil {
		data, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", configFile, err)
		}
	}

	// Env overlays file values; envconfig fills defaults for anything
	// still unset.
	if err := envconfig.Process("ANS", &cfg); err != nil {
		return nil, fmt.Errorf("load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// Validate checks the configuration against its declared constraints
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return err
	}
	return nil
}

// DatabasePath returns the resolved database file path
func (c *Config) DatabasePath() string {
	return resolvePath(c.Database.Path)
}

// BrandExceptionPath returns the resolved brand exception file path
func (c *Config) BrandExceptionPath() string {
	if c.Analytics.BrandExceptionFile == "" {
		return ""
	}
	return resolvePath(c.Analytics.BrandExceptionFile)
}

func resolvePath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	wd, err := os.Getwd()
	if err != nil {
		return path
	}
	return filepath.Join(wd, path)
}

func configFilePath() string {
	if path := os.Getenv("ANS_CONFIG_FILE"); path != "" {
		return path
	}
	return "config.yaml"
}
