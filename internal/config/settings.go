package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/specialistvlad/labprotocol/internal/codegen"
	"gopkg.in/yaml.v3"
)

// EnvLogLevel overrides Logging.Level when set.
const EnvLogLevel = "LPD_LOG_LEVEL"

// Settings is the content of the settings file.
type Settings struct {
	Logging LoggingSettings `yaml:"logging"`
	Codegen CodegenSettings `yaml:"codegen"`
}

// LoggingSettings configures the application logger.
type LoggingSettings struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// CodegenSettings selects the hardware the generated program targets.
type CodegenSettings struct {
	Pipette     string `yaml:"pipette"`
	Mount       string `yaml:"mount"`
	APILevel    string `yaml:"api_level"`
	LaserModule string `yaml:"laser_module"`
}

// Options converts the settings into generator options.
func (c CodegenSettings) Options() codegen.Options {
	return codegen.Options{
		Pipette:     c.Pipette,
		Mount:       c.Mount,
		APILevel:    c.APILevel,
		LaserModule: c.LaserModule,
	}
}

var (
	validLevels  = []string{"debug", "info", "warn", "error"}
	validFormats = []string{"text", "json"}
	validMounts  = []string{"left", "right"}
)

// DefaultSettings returns the settings used when no file is present.
func DefaultSettings() *Settings {
	opts := codegen.DefaultOptions()
	return &Settings{
		Logging: LoggingSettings{
			Level:  "info",
			Format: "text",
		},
		Codegen: CodegenSettings{
			Pipette:     opts.Pipette,
			Mount:       opts.Mount,
			APILevel:    opts.APILevel,
			LaserModule: opts.LaserModule,
		},
	}
}

// Load reads settings from a YAML file over the defaults. A missing file
// yields the defaults.
func Load(path string) (*Settings, error) {
	s := DefaultSettings()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, fmt.Errorf("failed to read settings: %w", err)
		default:
			if err := yaml.Unmarshal(data, s); err != nil {
				return nil, fmt.Errorf("failed to parse settings %s: %w", path, err)
			}
		}
	}

	s.applyEnvOverrides()
	return s, nil
}

// Save writes the settings to a YAML file, creating its directory.
func (s *Settings) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	return nil
}

func (s *Settings) applyEnvOverrides() {
	if level := os.Getenv(EnvLogLevel); level != "" {
		s.Logging.Level = strings.ToLower(level)
	}
}

// Validate checks enumerated fields and required hardware names.
func (s *Settings) Validate() error {
	if !slices.Contains(validLevels, s.Logging.Level) {
		return fmt.Errorf("invalid log level: %q (valid: %v)", s.Logging.Level, validLevels)
	}
	if !slices.Contains(validFormats, s.Logging.Format) {
		return fmt.Errorf("invalid log format: %q (valid: %v)", s.Logging.Format, validFormats)
	}
	if !slices.Contains(validMounts, s.Codegen.Mount) {
		return fmt.Errorf("invalid pipette mount: %q (valid: %v)", s.Codegen.Mount, validMounts)
	}
	if s.Codegen.Pipette == "" {
		return fmt.Errorf("pipette must not be empty")
	}
	if s.Codegen.APILevel == "" {
		return fmt.Errorf("api_level must not be empty")
	}
	if s.Codegen.LaserModule != "" && !codegen.ValidModule(s.Codegen.LaserModule) {
		return fmt.Errorf("invalid laser_module: %q (expected a dotted Python module path)", s.Codegen.LaserModule)
	}
	return nil
}
