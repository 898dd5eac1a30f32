package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequests counts handled HTTP requests
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aidetector_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "status"},
	)

	// ScoringLatency measures time from raw text to scores
	ScoringLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "aidetector_scoring_latency_seconds",
			Help:    "Scoring latency in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.002, 0.005, 0.01, 0.025, 0.05, 0.1},
		},
	)

	// Predictions counts scored texts by hint tier
	Predictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aidetector_predictions_total",
			Help: "Total number of scored texts",
		},
		[]string{"risk_level"},
	)

	// AIScore tracks the distribution of AI scores
	AIScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "aidetector_ai_score",
			Help:    "Distribution of AI scores (0-100)",
			Buckets: prometheus.LinearBuckets(10, 10, 9),
		},
	)

	// Rejections counts texts rejected by validation or failed predictions
	Rejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aidetector_rejections_total",
			Help: "Total number of texts that were not scored",
		},
		[]string{"reason"},
	)

	// ModelLoaded exposes the run id of the artifact pair served (1 = serving)
	ModelLoaded = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "aidetector_model_loaded",
			Help: "Artifact pair currently served (1 = serving, 0 = replaced)",
		},
		[]string{"run_id"},
	)

	// ModelReloads counts hot reloads of the artifact pair
	ModelReloads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aidetector_model_reloads_total",
			Help: "Total number of artifact reload attempts",
		},
		[]string{"result"},
	)
)
