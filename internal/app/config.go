package app

import (
	"fmt"
	"strings"

	"github.com/specialistvlad/labprotocol/internal/codegen"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// Inputs are protocol sources for Compile, or the single program file
	// for Import and Verify.
	Inputs []string
	// OutputPath receives the result. Empty means the App's output writer.
	OutputPath string
	// Lenient makes Import skip malformed structured comments.
	Lenient bool

	LogFormat string
	LogLevel  string
	Codegen   codegen.Options
}

// NewConfig validates cfg and returns a copy of it.
func NewConfig(cfg Config) (*Config, error) {
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)

	switch cfg.LogFormat {
	case "", "text", "json":
	default:
		return nil, fmt.Errorf("invalid log format %q: must be 'text' or 'json'", cfg.LogFormat)
	}
	switch cfg.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid log level %q: must be 'debug', 'info', 'warn' or 'error'", cfg.LogLevel)
	}
	return &cfg, nil
}
