// Package logger provides engine-specific logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// EngineLogger provides dedicated logging for matchup computations.
type EngineLogger struct {
	*logrus.Entry
}

// NewEngineLogger creates a new engine logger.
func NewEngineLogger(baseLogger *logrus.Logger) *EngineLogger {
	return &EngineLogger{
		Entry: baseLogger.WithField("component", "engine"),
	}
}

// LogStrategyAttempt logs the outcome of one strategy for a matchup.
func (el *EngineLogger) LogStrategyAttempt(matchup, strategy, outcome string) {
	el.WithFields(logrus.Fields{
		"matchup":  matchup,
		"strategy": strategy,
		"outcome":  outcome,
	}).Debug("Strategy attempted")
}

// LogSegmentSelected logs the estimate chosen for a matchup.
func (el *EngineLogger) LogSegmentSelected(matchup, segment string, nUsed, confidence int, label string, durationMs float64) {
	el.WithFields(logrus.Fields{
		"matchup":          matchup,
		"segment_used":     segment,
		"n_used":           nUsed,
		"confidence_score": confidence,
		"confidence_label": label,
		"duration_ms":      durationMs,
	}).Info("Matchup estimate computed")
}

// LogInsufficient logs a matchup for which no strategy had enough data.
func (el *EngineLogger) LogInsufficient(matchup string, strategies []string, hydrated bool) {
	el.WithFields(logrus.Fields{
		"matchup":    matchup,
		"strategies": strategies,
		"hydrated":   hydrated,
	}).Warn("Insufficient history for matchup")
}

// LogCollaboratorFailure logs a failed call to an external store or fetcher.
func (el *EngineLogger) LogCollaboratorFailure(matchup, operation string, err error) {
	el.WithFields(logrus.Fields{
		"matchup":   matchup,
		"operation": operation,
	}).WithError(err).Error("Collaborator call failed")
}
