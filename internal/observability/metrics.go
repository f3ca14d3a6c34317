// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Lookup metrics
	OwnershipLookups *prometheus.CounterVec

	// Enrichment metrics
	MetadataFetches         *prometheus.CounterVec
	MetadataFetchLatency    prometheus.Histogram
	MetadataFetchesInFlight prometheus.Gauge

	// Cache metrics
	CacheHits   prometheus.Counter
	CacheMisses prometheus.Counter

	// Query metrics
	QueriesTotal      *prometheus.CounterVec
	WorkerQueueLength prometheus.Gauge
	CircuitOpen       prometheus.Gauge

	gatherer prometheus.Gatherer
}

// NewMetrics registers all metrics on reg. A nil reg gets a fresh registry so
// several instances can coexist in tests.
func NewMetrics(namespace string, reg *prometheus.Registry) *Metrics {
	if namespace == "" {
		namespace = "nft_indexer"
	}
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)

	return &Metrics{
		OwnershipLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "lookup",
			Name:      "ownership_lookups_total",
			Help:      "Ownership lookups by outcome",
		}, []string{"outcome"}),

		MetadataFetches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "enrich",
			Name:      "metadata_fetches_total",
			Help:      "Per-token metadata fetches by outcome",
		}, []string{"outcome"}),
		MetadataFetchLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "enrich",
			Name:      "metadata_fetch_duration_seconds",
			Help:      "Latency of a single metadata fetch including retries",
			Buckets:   prometheus.DefBuckets,
		}),
		MetadataFetchesInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "enrich",
			Name:      "metadata_fetches_in_flight",
			Help:      "Metadata fetches currently running",
		}),

		CacheHits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "hits_total",
			Help:      "Metadata cache hits",
		}),
		CacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "misses_total",
			Help:      "Metadata cache misses",
		}),

		QueriesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "query",
			Name:      "queries_total",
			Help:      "Completed owner queries by final status",
		}, []string{"status"}),
		WorkerQueueLength: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "worker",
			Name:      "queue_length",
			Help:      "Asynchronous queries waiting for a worker",
		}),
		CircuitOpen: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "worker",
			Name:      "circuit_open",
			Help:      "1 while the lookup circuit breaker is open",
		}),

		gatherer: reg,
	}
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
