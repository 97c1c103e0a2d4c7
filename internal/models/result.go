package models

import (
	"time"

	"github.com/google/uuid"
)

// SegmentInsufficient marks a result where no strategy had enough data.
const SegmentInsufficient = "insufficient"

// Result is the engine output for one matchup.
type Result struct {
	SegmentUsed string           `json:"segment_used"`
	NUsed       int              `json:"n_used"`
	P05         float64          `json:"p05"`
	P95         float64          `json:"p95"`
	Median      float64          `json:"median"`
	Min         float64          `json:"min"`
	Max         float64          `json:"max"`
	Confidence  ConfidenceResult `json:"confidence"`
}

// InsufficientResult returns the terminal result used when every strategy fails.
func InsufficientResult() *Result {
	return &Result{
		SegmentUsed: SegmentInsufficient,
		NUsed:       0,
		Confidence:  ConfidenceResult{Score: 0, Label: "Insufficient"},
	}
}

// IsInsufficient checks if the result carries no estimate
func (r *Result) IsInsufficient() bool {
	return r.SegmentUsed == SegmentInsufficient
}

// NewResult builds a result from segment stats and a confidence value
func NewResult(stats SegmentStats, confidence ConfidenceResult) *Result {
	return &Result{
		SegmentUsed: stats.SegmentKey,
		NUsed:       stats.NGames,
		P05:         stats.P05,
		P95:         stats.P95,
		Median:      stats.Median,
		Min:         stats.Min,
		Max:         stats.Max,
		Confidence:  confidence,
	}
}

// StoredResult is a persisted result with the matchup and scoring version it was computed for.
type StoredResult struct {
	ID             uuid.UUID  `json:"id"`
	Key            MatchupKey `json:"key"`
	AsOf           time.Time  `json:"as_of"`
	ScoringVersion string     `json:"scoring_version"`
	Result         Result     `json:"result"`
	CreatedAt      time.Time  `json:"created_at"`
}
