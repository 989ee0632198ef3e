// This file implements calculator-specific fluent builder APIs.
// Builders are immutable - each method returns a new builder with the updated configuration.

package rascal

import (
	"github.com/hupe1980/rascal/calculators"
	"github.com/hupe1980/rascal/codec"
)

// =============================================================================
// Sorted Distances Builder (Immutable)
// =============================================================================

// SortedDistances creates a new sorted distances calculator builder with the
// specified cutoff.
//
// Example:
//
//	calc, err := rascal.SortedDistances(3.5).
//	    MaxNeighbors(12).
//	    Workers(4).
//	    Build()
func SortedDistances(cutoff float64) SortedDistancesBuilder {
	return SortedDistancesBuilder{
		params: calculators.SortedDistancesParameters{
			Cutoff:       cutoff,
			MaxNeighbors: 8,
		},
		workers: 1,
	}
}

// SortedDistancesBuilder is an immutable fluent builder for sorted distances
// calculators.
type SortedDistancesBuilder struct {
	params  calculators.SortedDistancesParameters
	workers int
	logger  *Logger
	metrics MetricsCollector
}

// MaxNeighbors sets the length of every distance vector.
// Default: 8.
func (b SortedDistancesBuilder) MaxNeighbors(n int) SortedDistancesBuilder {
	b.params.MaxNeighbors = n
	return b
}

// Workers sets the number of systems processed concurrently.
// Default: 1.
func (b SortedDistancesBuilder) Workers(n int) SortedDistancesBuilder {
	b.workers = n
	return b
}

// Logger sets the structured logger for operation tracing.
func (b SortedDistancesBuilder) Logger(l *Logger) SortedDistancesBuilder {
	b.logger = l
	return b
}

// Metrics sets the metrics collector for monitoring.
func (b SortedDistancesBuilder) Metrics(mc MetricsCollector) SortedDistancesBuilder {
	b.metrics = mc
	return b
}

// Build validates the configuration and creates the calculator.
func (b SortedDistancesBuilder) Build() (*Calculator, error) {
	if err := validate.Struct(b.params); err != nil {
		return nil, &ParameterError{Calculator: "sorted_distances", cause: err}
	}
	impl := calculators.NewSortedDistances(b.params)
	return newCalculator(impl, impl.Parameters(), builderOptions(b.workers, b.logger, b.metrics)), nil
}

// =============================================================================
// Dummy Builder (Immutable)
// =============================================================================

// Dummy creates a new dummy calculator builder with the specified cutoff.
// The dummy calculator produces predictable values for pipeline tests.
//
// Example:
//
//	calc, err := rascal.Dummy(1.5).Delta(3).Gradients(true).Build()
func Dummy(cutoff float64) DummyBuilder {
	return DummyBuilder{
		params:  calculators.DummyParameters{Cutoff: cutoff},
		workers: 1,
	}
}

// DummyBuilder is an immutable fluent builder for dummy calculators.
type DummyBuilder struct {
	params  calculators.DummyParameters
	workers int
	logger  *Logger
	metrics MetricsCollector
}

// Delta sets the offset added to the center index.
func (b DummyBuilder) Delta(delta int) DummyBuilder {
	b.params.Delta = delta
	return b
}

// Name sets the free-form name embedded in the calculator name.
func (b DummyBuilder) Name(name string) DummyBuilder {
	b.params.Name = name
	return b
}

// Gradients enables or disables gradients.
// Default: false.
func (b DummyBuilder) Gradients(enabled bool) DummyBuilder {
	b.params.Gradients = enabled
	return b
}

// Workers sets the number of systems processed concurrently.
func (b DummyBuilder) Workers(n int) DummyBuilder {
	b.workers = n
	return b
}

// Logger sets the structured logger for operation tracing.
func (b DummyBuilder) Logger(l *Logger) DummyBuilder {
	b.logger = l
	return b
}

// Metrics sets the metrics collector for monitoring.
func (b DummyBuilder) Metrics(mc MetricsCollector) DummyBuilder {
	b.metrics = mc
	return b
}

// Build validates the configuration and creates the calculator.
func (b DummyBuilder) Build() (*Calculator, error) {
	if err := validate.Struct(b.params); err != nil {
		return nil, &ParameterError{Calculator: "dummy_calculator", cause: err}
	}
	impl := calculators.NewDummyCalculator(b.params)
	return newCalculator(impl, impl.Parameters(), builderOptions(b.workers, b.logger, b.metrics)), nil
}

func builderOptions(workers int, logger *Logger, metrics MetricsCollector) options {
	opts := applyOptions([]Option{WithCodec(codec.Default), WithWorkers(workers)})
	if logger != nil {
		opts.logger = logger
	}
	if metrics != nil {
		opts.metricsCollector = metrics
	}
	return opts
}
