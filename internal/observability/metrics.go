// Package observability holds the prometheus collectors and the OpenTelemetry
// tracer shared by the blog and address services.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by command.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blogmesh_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"command"})

	// CacheLookups counts cache-aside lookups by key family and result (hit, miss).
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blogmesh_cache_lookups_total",
		Help: "Cache-aside lookups by key family and result",
	}, []string{"family", "result"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "blogmesh_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// AddressClientRequests counts calls to the address service by operation and outcome.
	AddressClientRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blogmesh_address_client_requests_total",
		Help: "Address service calls by operation and outcome (ok, not_found, unavailable)",
	}, []string{"operation", "outcome"})

	// AddressClientLatency records address service call latency.
	AddressClientLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "blogmesh_address_client_latency_seconds",
		Help:    "Address service call latency in seconds",
		Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"operation"})

	// EnrichmentMisses counts read paths that degraded to a null address.
	EnrichmentMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blogmesh_address_enrichment_misses_total",
		Help: "Address enrichments that fell back to a null address, by reason",
	}, []string{"reason"})
)

// ObserveQuery records the latency of a database query.
func ObserveQuery(operation, table string, start time.Time) {
	DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
}

// TrackAddressCall returns a function that records the latency and outcome of an address call.
func TrackAddressCall(operation string) func(outcome string) {
	start := time.Now()
	return func(outcome string) {
		AddressClientLatency.WithLabelValues(operation).Observe(time.Since(start).Seconds())
		AddressClientRequests.WithLabelValues(operation, outcome).Inc()
	}
}
