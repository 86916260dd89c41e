// Package metrics provides Prometheus metrics collection for the fairness
// evaluation service: evaluation throughput and latency, violation and bias
// verdict counters, and entity-detection provider health.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	// Evaluation metrics
	EvaluationsTotal   prometheus.Counter   // Total number of fairness evaluations run
	ViolationsTotal    prometheus.Counter   // Total number of fairness violations flagged
	BiasDetectedTotal  prometheus.Counter   // Total number of evaluations that flagged bias
	AttributeFailures  prometheus.Counter   // Total number of per-attribute computation failures
	EvaluationDuration prometheus.Histogram // Evaluation latency in seconds

	// Entity detection metrics
	PHIRequestsTotal prometheus.Counter   // Total number of entity-detection requests
	PHIErrorsTotal   prometheus.Counter   // Total number of entity-detection provider errors
	PHICacheHits     prometheus.Counter   // Total number of detection-cache hits
	ProviderLatency  prometheus.Histogram // Entity-detection provider latency in seconds

	// System metrics
	ErrorsTotal prometheus.Counter // Total number of request-level errors
}

// New creates and registers all metrics using the default registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates metrics with a custom registry (useful for testing).
func NewWithRegistry(registerer prometheus.Registerer) *Metrics {
	factory := promauto.With(registerer)
	return &Metrics{
		EvaluationsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "evaluations_total",
			Help: "Total number of fairness evaluations run",
		}),
		ViolationsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "violations_total",
			Help: "Total number of fairness violations flagged",
		}),
		BiasDetectedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "bias_detected_total",
			Help: "Total number of evaluations that flagged bias",
		}),
		AttributeFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "attribute_failures_total",
			Help: "Total number of per-attribute computation failures",
		}),
		EvaluationDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "evaluation_duration_seconds",
			Help:    "Fairness evaluation latency in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
		}),
		PHIRequestsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "phi_requests_total",
			Help: "Total number of entity-detection requests",
		}),
		PHIErrorsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "phi_errors_total",
			Help: "Total number of entity-detection provider errors",
		}),
		PHICacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "phi_cache_hits_total",
			Help: "Total number of detection-cache hits",
		}),
		ProviderLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "provider_latency_seconds",
			Help:    "Entity-detection provider latency in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		ErrorsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "errors_total",
			Help: "Total number of request-level errors",
		}),
	}
}
