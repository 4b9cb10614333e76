// Package monitoring exposes prometheus metrics for the triage server.
package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the server's prometheus collectors
type Metrics struct {
	RunsTotal       *prometheus.CounterVec
	MessagesMarked  prometheus.Counter
	MarkFailures    prometheus.Counter
	RunDuration     prometheus.Histogram
	MessagesFetched prometheus.Counter
}

// NewMetrics creates and registers the triage metrics
func NewMetrics() *Metrics {
	return &Metrics{
		RunsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "inbox_triage_runs_total",
				Help: "Total number of triage runs by mode and outcome",
			},
			[]string{"mode", "status"},
		),
		MessagesMarked: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "inbox_triage_messages_marked_total",
				Help: "Total number of messages submitted for mark-as-read",
			},
		),
		MarkFailures: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "inbox_triage_mark_failures_total",
				Help: "Total number of individual mark-as-read failures",
			},
		),
		RunDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "inbox_triage_run_duration_seconds",
				Help:    "Duration of triage runs",
				Buckets: prometheus.DefBuckets,
			},
		),
		MessagesFetched: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "inbox_triage_messages_fetched_total",
				Help: "Total number of unread messages retrieved",
			},
		),
	}
}

// ObserveRun records the outcome of one run
func (m *Metrics) ObserveRun(mode, status string, elapsed time.Duration) {
	m.RunsTotal.WithLabelValues(mode, status).Inc()
	m.RunDuration.Observe(elapsed.Seconds())
}
