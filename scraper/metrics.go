package scraper

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for the scraper.
type Metrics struct {
	Registry            *prometheus.Registry
	RequestsTotal       *prometheus.CounterVec
	RequestDuration     prometheus.Histogram
	HeadlinesExtracted  *prometheus.CounterVec
	ErrorsTotal         *prometheus.CounterVec
	SourceOutcomesTotal *prometheus.CounterVec
}

// NewMetrics constructs and registers all metrics on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	requests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "headlines_requests_total",
			Help: "Total HTTP requests issued per source.",
		},
		[]string{"source"},
	)
	requestDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "headlines_request_duration_seconds",
			Help:    "HTTP request latency for source fetches.",
			Buckets: prometheus.DefBuckets,
		},
	)
	extracted := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "headlines_extracted_total",
			Help: "Unique headlines extracted per source.",
		},
		[]string{"source"},
	)
	errorsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "headlines_errors_total",
			Help: "Total number of scraper errors by type.",
		},
		[]string{"error_type"},
	)
	outcomes := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "headlines_source_outcomes_total",
			Help: "Source attempts by outcome (success, failure).",
		},
		[]string{"source", "outcome"},
	)

	registry.MustRegister(requests, requestDuration, extracted, errorsTotal, outcomes)

	return &Metrics{
		Registry:            registry,
		RequestsTotal:       requests,
		RequestDuration:     requestDuration,
		HeadlinesExtracted:  extracted,
		ErrorsTotal:         errorsTotal,
		SourceOutcomesTotal: outcomes,
	}
}

// IncRequest increments the requests counter for a source.
func (m *Metrics) IncRequest(source string) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(source).Inc()
}

// ObserveDuration records an HTTP request duration.
func (m *Metrics) ObserveDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.RequestDuration.Observe(d.Seconds())
}

// AddHeadlines adds n extracted headlines for a source.
func (m *Metrics) AddHeadlines(source string, n int) {
	if m == nil {
		return
	}
	m.HeadlinesExtracted.WithLabelValues(source).Add(float64(n))
}

// IncError increments the errors counter for a type label.
func (m *Metrics) IncError(errorType string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(errorType).Inc()
}

// IncOutcome records the outcome of one source attempt.
func (m *Metrics) IncOutcome(source, outcome string) {
	if m == nil {
		return
	}
	m.SourceOutcomesTotal.WithLabelValues(source, outcome).Inc()
}
