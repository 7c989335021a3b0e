package metrics

import "github.com/prometheus/client_golang/prometheus"

// Engine Prometheus metrics.
var (
	SearchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "catalog",
			Name:      "searches_total",
			Help:      "Total number of evaluated catalog queries",
		},
		[]string{"catalog", "status"},
	)

	SearchCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "catalog",
			Name:      "search_cache_total",
			Help:      "Search result cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	TransfersStartedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "catalog",
			Name:      "transfers_started_total",
			Help:      "Total number of simulated transfers started",
		},
	)

	TransfersCompletedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "catalog",
			Name:      "transfers_completed_total",
			Help:      "Total number of simulated transfers completed",
		},
	)
)

// RegisterEngineMetrics registers engine metrics with the default registry.
// Called explicitly from main (no init()).
func RegisterEngineMetrics() {
	prometheus.MustRegister(SearchesTotal)
	prometheus.MustRegister(SearchCacheTotal)
	prometheus.MustRegister(TransfersStartedTotal)
	prometheus.MustRegister(TransfersCompletedTotal)
}
