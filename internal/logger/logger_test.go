package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestLogger() (*logrus.Logger, *bytes.Buffer) {
	log := logrus.New()
	buf := &bytes.Buffer{}
	log.SetOutput(buf)
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.DebugLevel)
	return log, buf
}

func parseLogOutput(buf *bytes.Buffer) map[string]interface{} {
	var logEntry map[string]interface{}
	err := json.Unmarshal(buf.Bytes(), &logEntry)
	if err != nil {
		return nil
	}
	return logEntry
}

func TestNewLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	log := newLogger(buf, "debug", "production")
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, log.Formatter)

	log = newLogger(buf, "not-a-level", "development")
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, log.Formatter)
}

func TestEngineLoggerSegmentSelected(t *testing.T) {
	log, buf := setupTestLogger()
	engineLogger := NewEngineLogger(log)

	engineLogger.LogSegmentSelected("nba:franchise:1:2", "h2h_3y", 6, 58, "Fair", 1.5)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "engine", logEntry["component"])
	assert.Equal(t, "h2h_3y", logEntry["segment_used"])
	assert.Equal(t, float64(6), logEntry["n_used"])
}

func TestEngineLoggerStrategyAttempt(t *testing.T) {
	log, buf := setupTestLogger()
	NewEngineLogger(log).LogStrategyAttempt("nba:team:3:4", "recency_weighted", "insufficient")

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "recency_weighted", logEntry["strategy"])
	assert.Equal(t, "debug", logEntry["level"])
}

func TestEngineLoggerCollaboratorFailure(t *testing.T) {
	log, buf := setupTestLogger()
	NewEngineLogger(log).LogCollaboratorFailure("nba:team:3:4", "fetch observations", errors.New("connection reset"))

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "connection reset", logEntry["error"])
	assert.Equal(t, "error", logEntry["level"])
}

func TestAuditLoggerHydration(t *testing.T) {
	log, buf := setupTestLogger()
	NewAuditLogger(log).LogHydration("nfl:franchise:10:20", 10, 14, 31, 820)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "hydration", logEntry["event_type"])
	assert.Equal(t, float64(14), logEntry["inserted_count"])
}

func TestAuditLoggerRosterSnapshot(t *testing.T) {
	log, buf := setupTestLogger()
	continuity := 80.0
	NewAuditLogger(log).LogRosterSnapshotStored(77, 2026, &continuity, "stable")

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, 80.0, logEntry["continuity_score"])
	assert.Equal(t, "audit", logEntry["component"])
}

func BenchmarkEngineLoggerSegmentSelected(b *testing.B) {
	log := logrus.New()
	log.SetOutput(&bytes.Buffer{})
	engineLogger := NewEngineLogger(log)

	for i := 0; i < b.N; i++ {
		engineLogger.LogSegmentSelected("nba:franchise:1:2", "h2h_3y", 6, 58, "Fair", 1.5)
	}
}
