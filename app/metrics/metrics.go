package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "radar"

var (
	Registry = prometheus.NewRegistry()

	PageFetches = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "page_fetches_total",
		Help:      "Post page fetches by outcome.",
	}, []string{"outcome"})

	ExtractedFields = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "extracted_fields_total",
		Help:      "Post fields by whether they were recovered from markup or defaulted.",
	}, []string{"field", "status"})

	SearchQueries = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "search_queries_total",
		Help:      "Search provider queries by outcome.",
	}, []string{"outcome"})

	TrendRefreshes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "trend_refreshes_total",
		Help:      "Popularity refreshes by outcome.",
	}, []string{"outcome"})
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		PageFetches,
		ExtractedFields,
		SearchQueries,
		TrendRefreshes,
	)
}

func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
