package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folio_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "folio_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Price resolution metrics
	PriceFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folio_price_fetches_total",
			Help: "Total number of upstream price fetch attempts",
		},
		[]string{"source", "outcome"}, // outcome: quote, failure
	)

	PriceBatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "folio_price_batch_duration_seconds",
			Help:    "Duration of batch price resolutions",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
		},
	)

	PriceBatchSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "folio_price_batch_size",
			Help:    "Number of distinct queries per batch resolution",
			Buckets: []float64{1, 2, 5, 10, 25, 50, 100},
		},
	)

	// Valuation metrics
	ValuationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "folio_valuations_total",
			Help: "Total number of portfolio valuations computed",
		},
	)

	// Advisory metrics
	AdvisoryCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folio_advisory_calls_total",
			Help: "Advisory enrichment attempts by outcome",
		},
		[]string{"outcome"}, // ai, fallback
	)

	// Revaluation job metrics
	RevaluationRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folio_revaluation_runs_total",
			Help: "Scheduled revaluation runs by status",
		},
		[]string{"status"}, // success, error
	)

	NotificationsTriggeredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "folio_notifications_triggered_total",
			Help: "Threshold notification rules triggered",
		},
	)
)
