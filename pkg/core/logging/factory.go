// Package logging builds the foundation loggers used by the engcalc
// command and its stores from the general configuration section.
package logging

import (
	"io"
	"os"
	"path/filepath"

	mdwerror "github.com/msto63/engcalc/foundation/core/error"
	mdwlog "github.com/msto63/engcalc/foundation/core/log"
	"github.com/msto63/engcalc/pkg/core/config"
)

// LoggerConfig holds configuration for creating loggers
type LoggerConfig struct {
	// Logger name, printed in braces in text output
	Name string

	// Log level (trace, debug, info, warn, error)
	Level string

	// Output format: "json" or "text" (default: text)
	Format string

	// Output defaults to stderr
	Output io.Writer

	// Additional outputs besides Output
	AdditionalOutputs []io.Writer
}

// DefaultLoggerConfig returns a default configuration
func DefaultLoggerConfig(name string) LoggerConfig {
	return LoggerConfig{
		Name:   name,
		Level:  "warn",
		Format: "text",
	}
}

// FromGeneral derives a logger configuration from the general config section
func FromGeneral(general config.GeneralConfig) LoggerConfig {
	cfg := DefaultLoggerConfig(general.Name)
	if general.LogLevel != "" {
		cfg.Level = general.LogLevel
	}
	if general.LogFormat != "" {
		cfg.Format = general.LogFormat
	}
	return cfg
}

// NewLogger creates a foundation logger. Unknown levels fall back to warn
// and unknown formats to text.
func NewLogger(cfg LoggerConfig) *mdwlog.Logger {
	level, err := mdwlog.ParseLevel(cfg.Level)
	if err != nil {
		level = mdwlog.LevelWarn
	}

	format := mdwlog.FormatText
	if f, err := mdwlog.ParseFormat(cfg.Format); err == nil {
		format = f
	}

	var output io.Writer = os.Stderr
	if cfg.Output != nil {
		output = cfg.Output
	}
	if len(cfg.AdditionalOutputs) > 0 {
		writers := append([]io.Writer{output}, cfg.AdditionalOutputs...)
		output = io.MultiWriter(writers...)
	}

	return mdwlog.NewWithConfig(mdwlog.Config{
		Level:  level,
		Format: format,
		Output: output,
		Name:   cfg.Name,
	})
}

// FromConfig creates the application logger for a loaded configuration.
// Entries are also written to every extra writer, such as an opened
// general.log_file.
func FromConfig(cfg *config.Config, output io.Writer, extra ...io.Writer) *mdwlog.Logger {
	lc := FromGeneral(cfg.General)
	lc.Output = output
	lc.AdditionalOutputs = extra
	return NewLogger(lc)
}

// OpenLogFile opens path for appending, creating it and its directory.
func OpenLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, mdwerror.Wrap(err, "create log directory").
			WithCode(mdwerror.CodeConfigError).
			WithDetail("path", path)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, mdwerror.Wrap(err, "open log file").
			WithCode(mdwerror.CodeConfigError).
			WithDetail("path", path)
	}
	return f, nil
}

// KV converts alternating key-value pairs to fields. Non-string keys and a
// trailing orphan are ignored.
func KV(keysAndValues ...interface{}) mdwlog.Fields {
	if len(keysAndValues) == 0 {
		return nil
	}

	fields := make(mdwlog.Fields)
	for i := 0; i < len(keysAndValues)-1; i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		fields[key] = keysAndValues[i+1]
	}
	return fields
}
