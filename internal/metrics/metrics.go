package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	NWSAPICallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flamingo_nws_api_calls_total",
			Help: "Total api.weather.gov calls",
		},
		[]string{"endpoint", "status"},
	)

	NWSAPILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "flamingo_nws_api_latency_seconds",
			Help:    "api.weather.gov call latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	LocationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flamingo_location_failures_total",
			Help: "Locations skipped because their forecast could not be fetched",
		},
		[]string{"location"},
	)

	EvaluationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flamingo_evaluations_total",
			Help: "Total day evaluations computed",
		},
		[]string{"policy", "evaluable"},
	)

	DayScores = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "flamingo_day_scores",
			Help:    "Distribution of flamingo scores handed out",
			Buckets: []float64{0, 0.5, 1, 1.5, 2, 2.5, 3, 3.5, 4, 4.5, 5},
		},
		[]string{"policy"},
	)
)
