package app

import (
	"fmt"
	"strings"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ConfigPath string // project file; "" looks for solforge.hcl in the working directory

	// Overrides applied on top of the project file when non-empty.
	SourceDir string
	OutDir    string
	SolcPath  string

	SkipExternal    bool
	LogFormat       string
	LogLevel        string
	HealthcheckPort int
}

// NewConfig validates cfg and fills in defaults.
func NewConfig(cfg Config) (*Config, error) {
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("invalid log-format %q: must be 'text' or 'json'", cfg.LogFormat)
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid log-level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.LogLevel)
	}

	if cfg.HealthcheckPort < 0 {
		return nil, fmt.Errorf("invalid healthcheck-port %d", cfg.HealthcheckPort)
	}
	return &cfg, nil
}
