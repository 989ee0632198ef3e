package prom

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hupe1980/rascal"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Collector implements rascal.MetricsCollector on Prometheus metrics.
type Collector struct {
	creates        *prometheus.CounterVec
	computes       *prometheus.CounterVec
	computeLatency *prometheus.HistogramVec
	systems        *prometheus.CounterVec
	samples        *prometheus.CounterVec
}

var _ rascal.MetricsCollector = (*Collector)(nil)

type options struct {
	namespace  string
	registerer prometheus.Registerer
	buckets    []float64
}

// Option configures a Collector.
type Option func(*options)

// WithNamespace sets the metric namespace (default "rascal").
func WithNamespace(ns string) Option {
	return func(o *options) { o.namespace = ns }
}

// WithRegisterer registers the metrics with r instead of prometheus.DefaultRegisterer.
func WithRegisterer(r prometheus.Registerer) Option {
	return func(o *options) { o.registerer = r }
}

// WithBuckets sets the compute latency histogram buckets in seconds.
func WithBuckets(buckets []float64) Option {
	return func(o *options) { o.buckets = buckets }
}

// NewCollector creates and registers the calculator metrics. It panics if
// registration fails, like prometheus.MustRegister.
func NewCollector(optFns ...Option) *Collector {
	o := options{
		namespace:  "rascal",
		registerer: prometheus.DefaultRegisterer,
		buckets:    prometheus.DefBuckets,
	}
	for _, fn := range optFns {
		fn(&o)
	}

	c := &Collector{
		creates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: o.namespace,
			Name:      "calculator_creations_total",
			Help:      "Calculator constructions through a registry",
		}, []string{"calculator", "status"}),
		computes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: o.namespace,
			Name:      "computations_total",
			Help:      "Compute calls per calculator",
		}, []string{"calculator", "status"}),
		computeLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: o.namespace,
			Name:      "compute_duration_seconds",
			Help:      "Latency of compute calls",
			Buckets:   o.buckets,
		}, []string{"calculator", "status"}),
		systems: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: o.namespace,
			Name:      "systems_total",
			Help:      "Systems processed by successful compute calls",
		}, []string{"calculator"}),
		samples: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: o.namespace,
			Name:      "samples_total",
			Help:      "Descriptor rows written by successful compute calls",
		}, []string{"calculator"}),
	}

	o.registerer.MustRegister(c.creates, c.computes, c.computeLatency, c.systems, c.samples)
	return c
}

// RecordCreate implements rascal.MetricsCollector.
func (c *Collector) RecordCreate(name string, err error) {
	c.creates.WithLabelValues(name, status(err)).Inc()
}

// RecordCompute implements rascal.MetricsCollector.
func (c *Collector) RecordCompute(calculator string, systems, samples int, duration time.Duration, err error) {
	s := status(err)
	c.computes.WithLabelValues(calculator, s).Inc()
	c.computeLatency.WithLabelValues(calculator, s).Observe(duration.Seconds())
	if err == nil {
		c.systems.WithLabelValues(calculator).Add(float64(systems))
		c.samples.WithLabelValues(calculator).Add(float64(samples))
	}
}

func status(err error) string {
	if err != nil {
		return statusError
	}
	return statusSuccess
}
