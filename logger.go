package rascal

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with rascal-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	}))
}

// WithCalculator adds the calculator name to the logger.
func (l *Logger) WithCalculator(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("calculator", name),
	}
}

// WithCount adds a count field to the logger.
func (l *Logger) WithCount(count int) *Logger {
	return &Logger{
		Logger: l.Logger.With("count", count),
	}
}

// LogCreate logs a calculator construction.
func (l *Logger) LogCreate(ctx context.Context, registryName string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "calculator creation failed",
			"name", registryName,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "calculator created",
			"name", registryName,
		)
	}
}

// LogCompute logs a compute call.
func (l *Logger) LogCompute(ctx context.Context, systems int, d ComputeSummary, err error) {
	if err != nil {
		l.ErrorContext(ctx, "compute failed",
			"systems", systems,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "compute completed",
			"systems", systems,
			"samples", d.Samples,
			"features", d.Features,
			"gradients", d.Gradients,
			"duration", d.Duration,
		)
	}
}

// ComputeSummary is the shape of a finished compute call.
type ComputeSummary struct {
	Samples   int
	Features  int
	Gradients int
	Duration  time.Duration
}
