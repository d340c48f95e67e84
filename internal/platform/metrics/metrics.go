package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	EvaluationsSubmitted prometheus.Counter
	SubmissionFailures   *prometheus.CounterVec
	Notifications        *prometheus.CounterVec
	DirectoryLookups     *prometheus.CounterVec
	EndpointLatency      *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		EvaluationsSubmitted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "guardpost_evaluations_submitted_total",
			Help: "Total number of evaluation records persisted",
		}),
		SubmissionFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "guardpost_submission_failures_total",
			Help: "Total number of rejected or failed submissions, labeled by reason",
		}, []string{"reason"}),
		Notifications: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "guardpost_notifications_total",
			Help: "Total number of webhook notification attempts, labeled by outcome",
		}, []string{"outcome"}),
		DirectoryLookups: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "guardpost_directory_lookups_total",
			Help: "Total number of reviewer directory lookups, labeled by outcome",
		}, []string{"outcome"}),
		EndpointLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "guardpost_endpoint_latency_seconds",
			Help:    "Latency of endpoints in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
	}
}

// ObserveEndpointLatency records the latency for a given endpoint
// in seconds.
func (m *Metrics) ObserveEndpointLatency(endpoint string, durationSeconds float64) {
	m.EndpointLatency.WithLabelValues(endpoint).Observe(durationSeconds)
}
