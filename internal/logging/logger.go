// Package logging provides structured logging for chartel built on
// log/slog, with component scoping so the renderer, exporter, and server
// can be filtered independently.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// LogLevel represents different log levels.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the string representation of the log level.
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel converts a level name to a LogLevel, defaulting to info.
func ParseLevel(s string) LogLevel {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Logger is the structured logging interface used throughout chartel.
type Logger interface {
	Debug(ctx context.Context, msg string, fields ...interface{})
	Info(ctx context.Context, msg string, fields ...interface{})
	Warn(ctx context.Context, err error, msg string, fields ...interface{})
	Error(ctx context.Context, err error, msg string, fields ...interface{})

	With(fields ...interface{}) Logger
	WithComponent(component string) Logger
}

// Config holds logger configuration.
type Config struct {
	Level     LogLevel
	Format    string // "json" or "text"
	Output    io.Writer
	AddSource bool
}

// DefaultConfig returns default logger configuration.
func DefaultConfig() *Config {
	return &Config{
		Level:  LevelInfo,
		Format: "text",
		Output: os.Stderr,
	}
}

type chartelLogger struct {
	logger *slog.Logger
}

// NewLogger creates a logger from the given configuration.
func NewLogger(cfg *Config) Logger {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	opts := &slog.HandlerOptions{
		Level:     slogLevel(cfg.Level),
		AddSource: cfg.AddSource,
	}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	return &chartelLogger{logger: slog.New(handler)}
}

// NewDefault creates a text logger at the given level on stderr.
func NewDefault(level LogLevel) Logger {
	cfg := DefaultConfig()
	cfg.Level = level
	return NewLogger(cfg)
}

func slogLevel(l LogLevel) slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (l *chartelLogger) Debug(ctx context.Context, msg string, fields ...interface{}) {
	l.logger.DebugContext(ctx, msg, fields...)
}

func (l *chartelLogger) Info(ctx context.Context, msg string, fields ...interface{}) {
	l.logger.InfoContext(ctx, msg, fields...)
}

func (l *chartelLogger) Warn(ctx context.Context, err error, msg string, fields ...interface{}) {
	if err != nil {
		fields = append(fields, "error", err.Error())
	}
	l.logger.WarnContext(ctx, msg, fields...)
}

func (l *chartelLogger) Error(ctx context.Context, err error, msg string, fields ...interface{}) {
	if err != nil {
		fields = append(fields, "error", err.Error())
	}
	l.logger.ErrorContext(ctx, msg, fields...)
}

func (l *chartelLogger) With(fields ...interface{}) Logger {
	return &chartelLogger{logger: l.logger.With(fields...)}
}

func (l *chartelLogger) WithComponent(component string) Logger {
	return &chartelLogger{logger: l.logger.With("component", component)}
}

// Nop returns a logger that discards everything. Used by library consumers
// that do not care about engine logs and in tests.
func Nop() Logger {
	return &chartelLogger{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}
