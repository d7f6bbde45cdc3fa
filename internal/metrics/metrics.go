// Package metrics exposes the build engine's Prometheus counters and
// histograms: compile outcomes, cache hit/miss rate, and stage latency.
// Served over HTTP via Handler for a watch session to scrape.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	CompileTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "egh_compile_total",
		Help: "Total number of component compile attempts, partitioned by outcome.",
	}, []string{"outcome"})

	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "egh_cache_lookups_total",
		Help: "Build cache lookups, partitioned by tier and hit/miss.",
	}, []string{"tier", "result"})

	StageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "egh_stage_duration_seconds",
		Help:    "Wall-clock duration of a single compile stage.",
		Buckets: prometheus.DefBuckets,
	}, []string{"stage"})

	InvalidationsPropagated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "egh_invalidations_propagated_total",
		Help: "Number of dependent files invalidated due to an exported-surface change.",
	})
)

// Handler returns the HTTP handler a watch session mounts at /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
