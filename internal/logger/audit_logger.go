// Package logger provides audit logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// AuditLogger records changes made to historical data and stored results.
type AuditLogger struct {
	*logrus.Entry
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(baseLogger *logrus.Logger) *AuditLogger {
	return &AuditLogger{
		Entry: baseLogger.WithField("component", "audit"),
	}
}

// LogHydration logs a hydration run that may have added historical games.
func (al *AuditLogger) LogHydration(matchup string, yearsBack, inserted, total int, durationMs float64) {
	al.WithFields(logrus.Fields{
		"event_type":     "hydration",
		"matchup":        matchup,
		"years_back":     yearsBack,
		"inserted_count": inserted,
		"total_count":    total,
		"duration_ms":    durationMs,
	}).Info("Hydration completed")
}

// LogHydrationFailure logs a failed or timed out hydration run.
func (al *AuditLogger) LogHydrationFailure(matchup string, yearsBack int, err error) {
	al.WithFields(logrus.Fields{
		"event_type": "hydration_failed",
		"matchup":    matchup,
		"years_back": yearsBack,
	}).WithError(err).Warn("Hydration failed")
}

// LogResultStored logs a persisted matchup result.
func (al *AuditLogger) LogResultStored(resultID, matchup, segment string, confidence int, scoringVersion string) {
	al.WithFields(logrus.Fields{
		"event_type":      "result_stored",
		"result_id":       resultID,
		"matchup":         matchup,
		"segment_used":    segment,
		"confidence":      confidence,
		"scoring_version": scoringVersion,
	}).Info("Matchup result stored")
}

// LogRosterSnapshotStored logs a persisted roster snapshot.
func (al *AuditLogger) LogRosterSnapshotStored(teamID int64, season int, continuity *float64, eraTag string) {
	fields := logrus.Fields{
		"event_type":  "roster_snapshot_stored",
		"team_id":     teamID,
		"season_year": season,
		"era_tag":     eraTag,
	}
	if continuity != nil {
		fields["continuity_score"] = *continuity
	}
	al.WithFields(fields).Info("Roster snapshot stored")
}
