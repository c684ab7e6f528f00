// Package metrics exposes Prometheus collectors for the upload services.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"csvstats/internal/errors"
)

// Outcome labels
const (
	OutcomeOK           = "ok"
	OutcomeInvalidInput = "invalid_input"
	OutcomeFailed       = "failed"
)

// Metrics holds the collectors of one service
type Metrics struct {
	registry *prometheus.Registry

	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	rows     *prometheus.CounterVec
}

// New registers collectors on a fresh registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "csvstats",
			Name:      "requests_total",
			Help:      "Processed CSV uploads by service and outcome.",
		}, []string{"service", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "csvstats",
			Name:      "processing_seconds",
			Help:      "Time spent processing an upload.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"service"}),
		rows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "csvstats",
			Name:      "rows_total",
			Help:      "Data rows read from successful uploads.",
		}, []string{"service"}),
	}

	m.registry.MustRegister(
		m.requests,
		m.duration,
		m.rows,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Observe records one processed upload
func (m *Metrics) Observe(service string, rows int, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(service, OutcomeOf(err)).Inc()
	m.duration.WithLabelValues(service).Observe(elapsed.Seconds())
	if err == nil {
		m.rows.WithLabelValues(service).Add(float64(rows))
	}
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// OutcomeOf maps an error to its outcome label
func OutcomeOf(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.IsInvalidInput(err):
		return OutcomeInvalidInput
	default:
		return OutcomeFailed
	}
}
