// Package metrics defines strategy-specific metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Strategy-specific counter vectors
var (
	StrategyAttemptsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "strategy_attempts_total",
		Help:      "Total number of strategy attempts by strategy and outcome",
	}, []string{"strategy", "outcome"})
)

// Strategy-specific histogram vectors
var (
	StrategySampleSize = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "strategy_sample_size",
		Help:      "Number of games behind each successful estimate",
		Buckets:   []float64{5, 8, 10, 15, 20, 30, 50, 100},
	}, []string{"segment"})
)

// Strategy attempt outcomes
const (
	OutcomeFound        = "found"
	OutcomeInsufficient = "insufficient"
	OutcomeError        = "error"
)

// RecordStrategyAttempt records one strategy's outcome.
func RecordStrategyAttempt(strategy, outcome string) {
	StrategyAttemptsTotal.WithLabelValues(strategy, outcome).Inc()
}

// RecordSampleSize records the sample size of a successful estimate.
func RecordSampleSize(segment string, n int) {
	StrategySampleSize.WithLabelValues(segment).Observe(float64(n))
}
