// Package metrics provides Prometheus metrics for roundup.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FetchTotal counts single-endpoint fetches by outcome.
	FetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "roundup",
			Name:      "fetch_total",
			Help:      "Total number of feed fetches",
		},
		[]string{"category", "status"},
	)

	// FetchDuration measures single-endpoint fetch duration.
	FetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "roundup",
			Name:      "fetch_duration_seconds",
			Help:      "Duration of feed fetches in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"category"},
	)

	// AggregateTotal counts aggregation calls by outcome.
	AggregateTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "roundup",
			Name:      "aggregate_total",
			Help:      "Total number of aggregation requests",
		},
		[]string{"outcome"},
	)

	// ArticlesReturned observes how many articles each aggregation returned.
	ArticlesReturned = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "roundup",
			Name:      "articles_returned",
			Help:      "Distribution of articles returned per aggregation",
			Buckets:   []float64{0, 1, 5, 10, 20, 50, 100, 250},
		},
	)
)

// Outcome labels for AggregateTotal.
const (
	OutcomeOK              = "ok"
	OutcomePartial         = "partial"
	OutcomeAllFailed       = "all_failed"
	OutcomeInvalidCategory = "invalid_category"
)

// RecordFetch records one endpoint fetch.
func RecordFetch(category string, ok bool, seconds float64) {
	status := "ok"
	if !ok {
		status = "error"
	}
	FetchTotal.WithLabelValues(category, status).Inc()
	FetchDuration.WithLabelValues(category).Observe(seconds)
}

// RecordAggregate records one completed aggregation.
func RecordAggregate(outcome string, returned int) {
	AggregateTotal.WithLabelValues(outcome).Inc()
	ArticlesReturned.Observe(float64(returned))
}

// RecordInvalidCategory records an aggregation rejected before fetching.
func RecordInvalidCategory() {
	AggregateTotal.WithLabelValues(OutcomeInvalidCategory).Inc()
}

// Outcome classifies an aggregation by how many of its sources failed.
func Outcome(sources, failed int) string {
	switch {
	case failed == 0:
		return OutcomeOK
	case failed >= sources:
		return OutcomeAllFailed
	default:
		return OutcomePartial
	}
}
