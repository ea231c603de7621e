package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Filter compilation Prometheus metrics.
var (
	FiltersCompiledTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "propquery",
			Name:      "filters_compiled_total",
			Help:      "Total number of filters compiled into query clauses",
		},
		[]string{"kind", "outcome"}, // outcome: ok / invalid_argument / unresolved
	)

	QueryCompileDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "propquery",
			Name:      "query_compile_duration_seconds",
			Help:      "Time spent compiling a full query",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		},
	)

	CatalogCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "propquery",
			Name:      "catalog_cache_total",
			Help:      "Property catalog cache lookups",
		},
		[]string{"result"}, // hit / miss
	)

	CatalogLoadErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "propquery",
			Name:      "catalog_load_errors_total",
			Help:      "Property catalog load failures",
		},
	)
)

var registerOnce sync.Once

// Register registers all Prometheus collectors. Call once from main.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			httpRequestDuration,
			httpRequestsTotal,
			FiltersCompiledTotal,
			QueryCompileDuration,
			CatalogCacheTotal,
			CatalogLoadErrorsTotal,
		)
	})
}
