package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the service's prometheus collectors
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	GenerationTotal    *prometheus.CounterVec
	GenerationDuration prometheus.Histogram
	GenerationInFlight prometheus.Gauge

	NodesCreatedTotal *prometheus.CounterVec
	NodesDeletedTotal prometheus.Counter
}

// NewMetrics registers and returns the service metrics on the given registerer.
// Pass prometheus.DefaultRegisterer in production; tests use a fresh registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ideaflow",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),

		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "ideaflow",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),

		GenerationTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ideaflow",
			Subsystem: "generation",
			Name:      "requests_total",
			Help:      "AI generation attempts by outcome.",
		}, []string{"outcome"}),

		GenerationDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "ideaflow",
			Subsystem: "generation",
			Name:      "duration_seconds",
			Help:      "End-to-end AI generation latency including retries.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 45},
		}),

		GenerationInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "ideaflow",
			Subsystem: "generation",
			Name:      "in_flight",
			Help:      "Number of generation requests currently running.",
		}),

		NodesCreatedTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ideaflow",
			Subsystem: "board",
			Name:      "nodes_created_total",
			Help:      "Nodes created by variant.",
		}, []string{"variant"}),

		NodesDeletedTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "ideaflow",
			Subsystem: "board",
			Name:      "nodes_deleted_total",
			Help:      "Nodes removed, including cascade-deleted answers.",
		}),
	}
}
