package wikiquery

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Request outcomes recorded by Metrics.
const (
	outcomeOK        = "ok"
	outcomeTransport = "transport_error"
	outcomeStatus    = "status_error"
	outcomeAPI       = "api_error"
	outcomeDecode    = "decode_error"
)

// Metrics holds the client's Prometheus collectors.
type Metrics struct {
	RequestsTotal      *prometheus.CounterVec
	RequestDuration    prometheus.Histogram
	ContinuationRounds prometheus.Counter
}

// NewMetrics registers the client collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wikiquery_requests_total",
				Help: "Total number of query API requests by outcome",
			},
			[]string{"outcome"},
		),
		RequestDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "wikiquery_request_duration_seconds",
				Help:    "Query API request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		ContinuationRounds: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "wikiquery_continuation_rounds_total",
				Help: "Number of continuation tokens merged into follow-up requests",
			},
		),
	}
}

func (m *Metrics) observe(outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(outcome).Inc()
	m.RequestDuration.Observe(seconds)
}

func (m *Metrics) continued() {
	if m == nil {
		return
	}
	m.ContinuationRounds.Inc()
}
