// Package config provides centralized configuration management for the
// ANS Pulse service. It handles loading configuration from multiple
// sources, validation, and a type-safe API for accessing configuration
// values throughout the application.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. YAML configuration file
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern ANS_* for namespacing:
//
//	ANS_SERVER_PORT=8080
//	ANS_DATABASE_PATH=data/dados_ans.db
//	ANS_ANALYTICS_CUTOFF_PERIOD=2012-T1
//	ANS_ANALYTICS_BRAND_EXCEPTION_FILE=data/rede_unimed.txt
//	ANS_LOGGING_LEVEL=info
//
// The configuration file defaults to config.yaml in the working directory
// and can be overridden with ANS_CONFIG_FILE.
package config
