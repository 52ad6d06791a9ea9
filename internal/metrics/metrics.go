// Package metrics records ledger activity for the /metrics endpoint.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels.
const (
	StatusSuccess = "success"
	StatusInvalid = "invalid"
	StatusError   = "error"
)

// Recorder is what the ledger service reports to.
type Recorder interface {
	RecordAppend(status, category string)
	RecordQuery(status string, matches int, d time.Duration)
	RecordPlot(status string)
}

type PrometheusMetrics struct {
	registry      *prometheus.Registry
	appendsTotal  *prometheus.CounterVec
	queriesTotal  *prometheus.CounterVec
	queryDuration prometheus.Histogram
	queryMatches  prometheus.Histogram
	plotsTotal    *prometheus.CounterVec
}

// NewPrometheusMetrics registers the ledger collectors on a private registry
// along with the Go and process collectors.
func NewPrometheusMetrics() *PrometheusMetrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &PrometheusMetrics{
		registry: reg,
		appendsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_appends_total",
				Help: "Total number of add-transaction attempts",
			},
			[]string{"status", "category"},
		),
		queriesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_queries_total",
				Help: "Total number of date range queries",
			},
			[]string{"status"},
		),
		queryDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "ledger_query_duration_milliseconds",
				Help:    "Date range query duration in milliseconds",
				Buckets: prometheus.ExponentialBuckets(1, 2, 12),
			},
		),
		queryMatches: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "ledger_query_matches",
				Help:    "Number of transactions returned per query",
				Buckets: prometheus.ExponentialBuckets(1, 4, 8),
			},
		),
		plotsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_plots_total",
				Help: "Total number of rendered plots",
			},
			[]string{"status"},
		),
	}
}

func (m *PrometheusMetrics) RecordAppend(status, category string) {
	m.appendsTotal.WithLabelValues(status, category).Inc()
}

func (m *PrometheusMetrics) RecordQuery(status string, matches int, d time.Duration) {
	m.queriesTotal.WithLabelValues(status).Inc()
	m.queryDuration.Observe(float64(d.Milliseconds()))
	if status == StatusSuccess {
		m.queryMatches.Observe(float64(matches))
	}
}

func (m *PrometheusMetrics) RecordPlot(status string) {
	m.plotsTotal.WithLabelValues(status).Inc()
}

// Registry exposes the underlying registry, mainly for tests.
func (m *PrometheusMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *PrometheusMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Noop discards everything; the terminal front end uses it.
type Noop struct{}

func (Noop) RecordAppend(string, string) {}
func (Noop) RecordQuery(string, int, time.Duration) {}
func (Noop) RecordPlot(string) {}

var (
	_ Recorder = (*PrometheusMetrics)(nil)
	_ Recorder = Noop{}
)
