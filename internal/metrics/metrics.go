// Package metrics provides the Prometheus registry for the totals engine.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "totals_engine"

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	ComputationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "computations_total",
		Help:      "Total number of matchup computations by segment used",
	}, []string{"segment"})
	CollaboratorErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "collaborator_errors_total",
		Help:      "Total number of failed calls to external collaborators",
	}, []string{"operation"})
	HydrationAttemptsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "hydration_attempts_total",
		Help:      "Total number of hydration attempts by outcome",
	}, []string{"outcome"})
	HydrationInsertedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "hydration_inserted_games_total",
		Help:      "Total number of historical games added by hydration",
	})
)

// Gauge metrics
var (
	IdentityCacheHitRatio = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "identity_cache_hit_ratio",
		Help:      "Hit ratio of the team/franchise identity cache",
	})
	BatchInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "batch_in_flight",
		Help:      "Number of matchup computations currently running in a batch",
	})
)

// Histogram metrics
var (
	ComputationDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "computation_duration_seconds",
		Help:      "Duration of matchup computations in seconds",
		Buckets:   prometheus.DefBuckets,
	})
	ConfidenceScore = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "confidence_score",
		Help:      "Confidence scores attached to computed results",
		Buckets:   []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
	}, []string{"segment"})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(ComputationsTotal)
		registry.MustRegister(CollaboratorErrorsTotal)
		registry.MustRegister(HydrationAttemptsTotal)
		registry.MustRegister(HydrationInsertedTotal)

		registry.MustRegister(IdentityCacheHitRatio)
		registry.MustRegister(BatchInFlight)

		registry.MustRegister(ComputationDuration)
		registry.MustRegister(ConfidenceScore)

		registry.MustRegister(StrategyAttemptsTotal)
		registry.MustRegister(StrategySampleSize)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	return InitRegistry()
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordComputation records a finished matchup computation.
func RecordComputation(segment string, confidence int, durationSeconds float64) {
	ComputationsTotal.WithLabelValues(segment).Inc()
	ConfidenceScore.WithLabelValues(segment).Observe(float64(confidence))
	ComputationDuration.Observe(durationSeconds)
}

// RecordCollaboratorError records a failed collaborator call.
func RecordCollaboratorError(operation string) {
	CollaboratorErrorsTotal.WithLabelValues(operation).Inc()
}

// RecordHydration records a hydration attempt and the games it added.
func RecordHydration(outcome string, inserted int) {
	HydrationAttemptsTotal.WithLabelValues(outcome).Inc()
	if inserted > 0 {
		HydrationInsertedTotal.Add(float64(inserted))
	}
}

// UpdateIdentityCacheHitRatio updates the identity cache hit ratio gauge.
func UpdateIdentityCacheHitRatio(ratio float64) {
	IdentityCacheHitRatio.Set(ratio)
}

// UpdateBatchInFlight updates the in-flight batch computations gauge.
func UpdateBatchInFlight(count float64) {
	BatchInFlight.Set(count)
}
