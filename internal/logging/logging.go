// Package logging builds the zerolog logger used by the command line and adapts it to the
// calculation engine's Logger interface.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldOperation = "operation"
	FieldMonth     = "month"
	FieldFormat    = "format"
	FieldPath      = "path"
	FieldRunID     = "run_id"
)

// Components defines standard component names
const (
	ComponentCLI         = "cli"
	ComponentCalculation = "calculation"
	ComponentConfig      = "config"
	ComponentOutput      = "output"
	ComponentStorage     = "storage"
)

// Config holds logger configuration
type Config struct {
	Level   string
	Writer  io.Writer
	Console bool
}

// DefaultConfig writes human-readable logs to stderr so stdout stays free for reports.
func DefaultConfig() Config {
	return Config{Level: "info", Writer: os.Stderr, Console: true}
}

// ParseLevel accepts zerolog level names ("debug", "info", "warn", ...).
func ParseLevel(level string) (zerolog.Level, error) {
	if strings.TrimSpace(level) == "" {
		return zerolog.InfoLevel, nil
	}
	l, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("unknown log level %q: %w", level, err)
	}
	return l, nil
}

// New creates a logger from cfg.
func New(cfg Config) (zerolog.Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), err
	}
	w := cfg.Writer
	if w == nil {
		w = os.Stderr
	}
	if cfg.Console {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: true}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger(), nil
}

// CalculationLogger adapts a zerolog.Logger to calculation.Logger.
type CalculationLogger struct {
	log zerolog.Logger
}

// NewCalculationLogger tags every entry with the calculation component.
func NewCalculationLogger(l zerolog.Logger) *CalculationLogger {
	return &CalculationLogger{log: l.With().Str(FieldComponent, ComponentCalculation).Logger()}
}

func (c *CalculationLogger) Debugf(format string, args ...any) { c.log.Debug().Msgf(format, args...) }
func (c *CalculationLogger) Infof(format string, args ...any)  { c.log.Info().Msgf(format, args...) }
func (c *CalculationLogger) Warnf(format string, args ...any)  { c.log.Warn().Msgf(format, args...) }
func (c *CalculationLogger) Errorf(format string, args ...any) { c.log.Error().Msgf(format, args...) }
