package metricsfx

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/fx"
	"parkfinder/internal/metrics"
)

var Module = fx.Provide(
	provideRegistry,
	provideMetrics)

func provideRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return registry
}

func provideMetrics(registry *prometheus.Registry) *metrics.Metrics {
	return metrics.NewMetrics(registry)
}
