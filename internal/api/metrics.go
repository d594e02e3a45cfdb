package api

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors of the API
type Metrics struct {
	registry *prometheus.Registry

	viewRequests *prometheus.CounterVec
	viewDuration *prometheus.HistogramVec
	tableRecords prometheus.Gauge
}

// NewMetrics registers the API collectors on a fresh registry
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		viewRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "co2",
			Name:      "view_requests_total",
			Help:      "View evaluations by view and outcome.",
		}, []string{"view", "outcome"}),
		viewDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "co2",
			Name:      "view_duration_seconds",
			Help:      "Time spent evaluating and encoding a view.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
		}, []string{"view"}),
		tableRecords: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "co2",
			Name:      "table_records",
			Help:      "Rows in the loaded emissions table.",
		}),
	}
	m.registry.MustRegister(
		m.viewRequests,
		m.viewDuration,
		m.tableRecords,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveView records one view request
func (m *Metrics) ObserveView(view, outcome string, took time.Duration) {
	m.viewRequests.WithLabelValues(view, outcome).Inc()
	m.viewDuration.WithLabelValues(view).Observe(took.Seconds())
}

// SetTableRecords publishes the table size
func (m *Metrics) SetTableRecords(n int) {
	m.tableRecords.Set(float64(n))
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
