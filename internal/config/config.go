// Package config provides configuration types and defaults for tintex.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/softquill/tintex/internal/log"
	"github.com/softquill/tintex/internal/tracing"
)

// Config holds all configuration options for tintex.
type Config struct {
	// Palette is the path to a palette overlay file. Empty uses the
	// built-in palette.
	Palette string `mapstructure:"palette"`

	Output  OutputConfig   `mapstructure:"output"`
	Watch   WatchConfig    `mapstructure:"watch"`
	Tracing tracing.Config `mapstructure:"tracing"`

	// Debug enables debug-level logging to the log file.
	Debug bool `mapstructure:"debug"`

	// LogFile overrides the log file location.
	// Default: ~/.config/tintex/tintex.log
	LogFile string `mapstructure:"log_file"`
}

// OutputConfig holds output file options.
type OutputConfig struct {
	// Extension is appended to the document name when no explicit output
	// path is given. Must start with a dot. Default: ".tex"
	Extension string `mapstructure:"extension"`

	// Preamble prepends the wrapper macro definitions to every export,
	// so the output compiles standalone.
	Preamble bool `mapstructure:"preamble"`
}

// WatchConfig holds watch-mode options.
type WatchConfig struct {
	// DebounceMs coalesces rapid file events into one re-render.
	// Default: 500
	DebounceMs int `mapstructure:"debounce_ms"`
}

// Debounce returns the debounce window as a duration.
func (w WatchConfig) Debounce() time.Duration {
	return time.Duration(w.DebounceMs) * time.Millisecond
}

// OutputPath derives the output file path for a document: the document
// path with its extension replaced by the configured one.
func (o OutputConfig) OutputPath(docPath string) string {
	ext := o.Extension
	if ext == "" {
		ext = ".tex"
	}
	base := strings.TrimSuffix(docPath, filepath.Ext(docPath))
	return base + ext
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		Palette: "",
		Output: OutputConfig{
			Extension: ".tex",
			Preamble:  false,
		},
		Watch: WatchConfig{
			DebounceMs: 500,
		},
		Tracing: tracing.DefaultConfig(),
		Debug:   false,
	}
}

// Validate checks the configuration for errors. Empty values fall back to
// defaults and are always valid.
func (c Config) Validate() error {
	if c.Output.Extension != "" && !strings.HasPrefix(c.Output.Extension, ".") {
		return fmt.Errorf("output.extension must start with a dot, got %q", c.Output.Extension)
	}
	if c.Watch.DebounceMs < 0 {
		return fmt.Errorf("watch.debounce_ms must not be negative, got %d", c.Watch.DebounceMs)
	}
	return ValidateTracing(c.Tracing)
}

// ValidateTracing checks tracing configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateTracing(cfg tracing.Config) error {
	if cfg.SampleRate < 0.0 || cfg.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", cfg.SampleRate)
	}

	if cfg.Exporter != "" {
		switch cfg.Exporter {
		case "none", "file", "stdout", "otlp":
			// Valid
		default:
			return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", cfg.Exporter)
		}
	}

	// Only validate path requirements when tracing is enabled
	if cfg.Enabled {
		if cfg.Exporter == "file" && cfg.FilePath == "" {
			return fmt.Errorf("tracing.file_path is required when exporter is \"file\"")
		}
		if cfg.Exporter == "otlp" && cfg.OTLPEndpoint == "" {
			return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
		}
	}

	return nil
}

// DefaultTracesFilePath returns the default path for trace file export.
// Returns ~/.config/tintex/traces/traces.jsonl or empty string if home dir unavailable.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "tintex", "traces", "traces.jsonl")
}

// DefaultLogFilePath returns the default path for the debug log.
// Returns ~/.config/tintex/tintex.log or empty string if home dir unavailable.
func DefaultLogFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "tintex", "tintex.log")
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# Tintex Configuration

# Palette overlay file mapping style tags to colour pairs.
# Tags missing from the overlay keep their built-in colours.
# palette: ~/.config/tintex/palette.yaml

# Output settings
output:
  extension: .tex   # Extension for derived output paths
  preamble: false   # Prepend wrapper macro definitions to every export

# Watch mode settings
watch:
  debounce_ms: 500  # Coalesce rapid file events into one re-render

# Tracing configuration
# Gives each render pass a trace with a span per pipeline stage
# tracing:
#   enabled: false                 # Enable/disable tracing (default: false)
#   exporter: file                 # Export backend: none, file, stdout, otlp (default: file)
#   file_path: ~/.config/tintex/traces/traces.jsonl  # Output file for file exporter
#   otlp_endpoint: localhost:4317  # OTLP collector endpoint (for otlp exporter)
#   sample_rate: 1.0               # Trace sampling rate 0.0-1.0 (default: 1.0)

# Debug logging to ~/.config/tintex/tintex.log
debug: false
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
