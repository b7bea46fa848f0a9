package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors of the service. A nil *Metrics is
// valid and records nothing, so one-shot commands can skip registration.
type Metrics struct {
	SearchRequestsTotal *prometheus.CounterVec
	SearchDuration      *prometheus.HistogramVec
	NPSRequestsTotal    *prometheus.CounterVec
	SyncParksTotal      *prometheus.CounterVec
}

// NewMetrics creates all collectors and registers them on registry.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	m := &Metrics{
		SearchRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "parkfinder_search_requests_total",
				Help: "Search requests by serving path (primary, fallback, failed)",
			},
			[]string{"path"},
		),
		SearchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "parkfinder_search_duration_seconds",
				Help:    "Search latency by serving path",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"path"},
		),
		NPSRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "parkfinder_nps_requests_total",
				Help: "Requests to the NPS API by endpoint and outcome",
			},
			[]string{"endpoint", "outcome"},
		),
		SyncParksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "parkfinder_sync_parks_total",
				Help: "Parks processed by the sync job by result",
			},
			[]string{"result"},
		),
	}

	registry.MustRegister(
		m.SearchRequestsTotal,
		m.SearchDuration,
		m.NPSRequestsTotal,
		m.SyncParksTotal,
	)
	return m
}

func (m *Metrics) ObserveSearch(path string, started time.Time) {
	if m == nil {
		return
	}
	m.SearchRequestsTotal.WithLabelValues(path).Inc()
	m.SearchDuration.WithLabelValues(path).Observe(time.Since(started).Seconds())
}

// ObserveNPSRequest matches nps.Observer.
func (m *Metrics) ObserveNPSRequest(endpoint, outcome string) {
	if m == nil {
		return
	}
	m.NPSRequestsTotal.WithLabelValues(endpoint, outcome).Inc()
}

func (m *Metrics) AddSyncResult(result string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.SyncParksTotal.WithLabelValues(result).Add(float64(n))
}
