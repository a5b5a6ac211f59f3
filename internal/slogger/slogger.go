// Package slogger provides structured logging for the authgate CLI using
// Go's slog with charmbracelet/log as the handler for pleasant terminal output.
package slogger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	charmlog "github.com/charmbracelet/log"
)

type contextKey string

const loggerKey contextKey = "logger"

// Output formats accepted by Config.Format.
const (
	FormatText   = "text"
	FormatJSON   = "json"
	FormatLogfmt = "logfmt"
)

// Config holds logger configuration.
type Config struct {
	// Verbosity controls log level:
	// 0 (default) -> Warn and above
	// 1 (-v)      -> Info level
	// 2+ (-vv)    -> Debug level
	Verbosity int

	// Format selects the charm formatter: text (default), json or logfmt.
	Format string

	// Output is the writer for log output. Defaults to os.Stderr.
	Output io.Writer
}

// New creates a new slog.Logger with charmbracelet/log as the handler.
func New(cfg Config) (*slog.Logger, error) {
	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}

	var level charmlog.Level
	switch {
	case cfg.Verbosity >= 2:
		level = charmlog.DebugLevel
	case cfg.Verbosity == 1:
		level = charmlog.InfoLevel
	default:
		level = charmlog.WarnLevel
	}

	var formatter charmlog.Formatter
	switch cfg.Format {
	case "", FormatText:
		formatter = charmlog.TextFormatter
	case FormatJSON:
		formatter = charmlog.JSONFormatter
	case FormatLogfmt:
		formatter = charmlog.LogfmtFormatter
	default:
		return nil, fmt.Errorf("unknown log format %q (valid: text, json, logfmt)", cfg.Format)
	}

	handler := charmlog.NewWithOptions(output, charmlog.Options{
		Level:           level,
		Formatter:       formatter,
		ReportTimestamp: cfg.Format == FormatJSON || cfg.Format == FormatLogfmt,
		ReportCaller:    false,
		Prefix:          "authgate",
	})

	return slog.New(handler), nil
}

// WithLogger adds a logger to the context.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext retrieves the logger from context.
// Returns a discarding logger if none is set (never returns nil).
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return slog.New(discardHandler{})
}

// L is a convenience alias for FromContext.
func L(ctx context.Context) *slog.Logger {
	return FromContext(ctx)
}

// discardHandler is a slog.Handler that discards all log records.
type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (d discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return d }
func (d discardHandler) WithGroup(string) slog.Handler           { return d }
