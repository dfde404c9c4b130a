package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	EntriesAdded = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "calometer_entries_added_total",
		Help: "Consumption entries logged, by kind",
	}, []string{"kind"})

	EntriesRemoved = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "calometer_entries_removed_total",
		Help: "Consumption entries deleted",
	})

	TargetUpdates = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "calometer_target_updates_total",
		Help: "Daily target updates applied",
	})

	SuggestionOutcomes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "calometer_suggestions_total",
		Help: "Smart suggestion evaluations, by outcome",
	}, []string{"outcome"})

	HistoryCache = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "calometer_history_cache_total",
		Help: "History cache lookups, by result",
	}, []string{"result"})

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "calometer_http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

// MustRegister registers every collector of this package.
func MustRegister(registerer prometheus.Registerer) {
	registerer.MustRegister(
		EntriesAdded,
		EntriesRemoved,
		TargetUpdates,
		SuggestionOutcomes,
		HistoryCache,
		HTTPRequestDuration,
	)
}

func ObserveSuggestion(outcome string) {
	SuggestionOutcomes.WithLabelValues(outcome).Inc()
}

func ObserveCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	HistoryCache.WithLabelValues(result).Inc()
}

func ObserveHTTPRequest(method, route string, status int, start time.Time) {
	if route == "" {
		route = "unmatched"
	}
	HTTPRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(time.Since(start).Seconds())
}
