package rascal

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like
// Prometheus (see metrics/prom).
type MetricsCollector interface {
	// RecordCreate is called after each calculator construction through a
	// registry. err is nil if successful.
	RecordCreate(name string, err error)

	// RecordCompute is called after each compute call. samples is the
	// number of rows written, duration the total time taken.
	RecordCompute(calculator string, systems, samples int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordCreate(string, error)                           {}
func (NoopMetricsCollector) RecordCompute(string, int, int, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	CreateCount       atomic.Int64
	CreateErrors      atomic.Int64
	ComputeCount      atomic.Int64
	ComputeErrors     atomic.Int64
	ComputeSystems    atomic.Int64
	ComputeSamples    atomic.Int64
	ComputeTotalNanos atomic.Int64
}

// RecordCreate implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCreate(_ string, err error) {
	b.CreateCount.Add(1)
	if err != nil {
		b.CreateErrors.Add(1)
	}
}

// RecordCompute implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCompute(_ string, systems, samples int, duration time.Duration, err error) {
	b.ComputeCount.Add(1)
	b.ComputeTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.ComputeErrors.Add(1)
		return
	}
	b.ComputeSystems.Add(int64(systems))
	b.ComputeSamples.Add(int64(samples))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		CreateCount:     b.CreateCount.Load(),
		CreateErrors:    b.CreateErrors.Load(),
		ComputeCount:    b.ComputeCount.Load(),
		ComputeErrors:   b.ComputeErrors.Load(),
		ComputeSystems:  b.ComputeSystems.Load(),
		ComputeSamples:  b.ComputeSamples.Load(),
		ComputeAvgNanos: b.getAvgComputeNanos(),
	}
}

func (b *BasicMetricsCollector) getAvgComputeNanos() int64 {
	count := b.ComputeCount.Load()
	if count == 0 {
		return 0
	}
	return b.ComputeTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	CreateCount     int64
	CreateErrors    int64
	ComputeCount    int64
	ComputeErrors   int64
	ComputeSystems  int64
	ComputeSamples  int64
	ComputeAvgNanos int64
}
