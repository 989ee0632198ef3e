// Package prom exports calculator metrics to Prometheus.
//
//	reg := prometheus.NewRegistry()
//	mc := prom.NewCollector(prom.WithRegisterer(reg))
//	calc, err := rascal.NewCalculator(registry, "sorted_distances", params, rascal.WithMetricsCollector(mc))
package prom
