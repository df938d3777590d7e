// Package metrics exports query counters for the expert form.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "experts"

type Metrics struct {
	registry *prometheus.Registry

	queriesTotal  *prometheus.CounterVec
	queryDuration *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		queriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "queries_total",
				Help:      "Total number of form submissions",
			},
			[]string{"role", "outcome"}, // outcome: success, error, invalid
		),
		queryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "query_duration_seconds",
				Help:      "Duration of LLM calls made for form submissions in seconds",
				Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"role", "outcome"},
		),
	}
	m.registry.MustRegister(m.queriesTotal, m.queryDuration)
	return m
}

// QueryFinished records one submission. Rejected submissions never reach the
// model, so they are counted but not timed.
func (m *Metrics) QueryFinished(role, outcome string, elapsed time.Duration) {
	m.queriesTotal.WithLabelValues(role, outcome).Inc()
	if outcome == "invalid" {
		return
	}
	m.queryDuration.WithLabelValues(role, outcome).Observe(elapsed.Seconds())
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
