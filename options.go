package rascal

import (
	"log/slog"

	"github.com/hupe1980/rascal/codec"
)

type options struct {
	codec            codec.Codec
	workers          int
	metricsCollector MetricsCollector
	logger           *Logger
}

// Option configures calculator construction.
type Option func(*options)

// WithCodec configures the codec used to decode parameter documents.
//
// If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithWorkers sets how many systems a calculator may process concurrently.
// Calculators without parallel support ignore it.
//
// If workers <= 1, systems are processed sequentially (default).
func WithWorkers(workers int) Option {
	return func(o *options) {
		o.workers = workers
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &rascal.BasicMetricsCollector{}
//	calc, _ := rascal.NewCalculator(registry, "sorted_distances", params, rascal.WithMetricsCollector(metrics))
//	// ... compute ...
//	stats := metrics.GetStats()
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := rascal.NewJSONLogger(slog.LevelDebug)
//	calc, _ := rascal.NewCalculator(registry, "dummy_calculator", params, rascal.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		codec:            codec.Default,
		workers:          1,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
