package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// Global collector instance for singleton pattern
	globalCollector *Collector
	collectorMutex  sync.Mutex
)

// Collector holds all Prometheus metrics for the application
type Collector struct {
	// Registry for this collector instance
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Business metrics
	PipelinesAnalyzed  prometheus.Counter
	CyclesDetected     prometheus.Counter
	ValidationFailures prometheus.Counter

	// Query bus metrics
	QueryDuration *prometheus.HistogramVec
	QueryResults  *prometheus.CounterVec
}

// NewCollector creates a new metrics collector with the given namespace
func NewCollector(namespace string) *Collector {
	// Use singleton pattern to avoid duplicate registration in tests
	collectorMutex.Lock()
	defer collectorMutex.Unlock()

	if globalCollector != nil {
		return globalCollector
	}

	registry := prometheus.NewRegistry()

	httpRequests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	pipelinesAnalyzed := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pipelines_analyzed_total",
			Help:      "Total number of pipelines analyzed",
		},
	)

	cyclesDetected := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cycles_detected_total",
			Help:      "Total number of analyzed pipelines that contained a cycle",
		},
	)

	validationFailures := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_failures_total",
			Help:      "Total number of pipelines rejected during validation",
		},
	)

	queryDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "query_duration_seconds",
			Help:      "Query handler duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"query"},
	)

	queryResults := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "query_results_total",
			Help:      "Query handler results by outcome",
		},
		[]string{"query", "outcome"},
	)

	registry.MustRegister(
		httpRequests,
		httpDuration,
		pipelinesAnalyzed,
		cyclesDetected,
		validationFailures,
		queryDuration,
		queryResults,
	)

	globalCollector = &Collector{
		registry:           registry,
		HTTPRequests:       httpRequests,
		HTTPDuration:       httpDuration,
		PipelinesAnalyzed:  pipelinesAnalyzed,
		CyclesDetected:     cyclesDetected,
		ValidationFailures: validationFailures,
		QueryDuration:      queryDuration,
		QueryResults:       queryResults,
	}
	return globalCollector
}

// Registry returns the prometheus registry backing this collector
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
