// Package confidence turns sample size, recency and roster stability into a single
// 0-100 reliability score with a qualitative label.
package confidence

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yourusername/totals-engine/internal/models"
	"github.com/yourusername/totals-engine/internal/segments"
)

// ScoringVersion changes whenever the factor weights or staircases change.
const ScoringVersion = "2"

// Factor weights. Changing these changes scoring semantics; bump ScoringVersion.
const (
	SampleWeight  = 0.40
	RecencyWeight = 0.30
	RosterWeight  = 0.30
)

// NeutralRosterScore is used when continuity is unknown for either team.
const NeutralRosterScore = 50.0

// HybridSampleMultiplier discounts hybrid-form samples before sample scoring,
// since pooled recent form says nothing about this specific matchup.
const HybridSampleMultiplier = 0.5

// Labels
const (
	LabelExcellent    = "Excellent"
	LabelGood         = "Good"
	LabelFair         = "Fair"
	LabelLow          = "Low"
	LabelInsufficient = "Insufficient"
)

// RecencyBuckets counts observations by age relative to a reference instant.
type RecencyBuckets struct {
	Within1Y   int
	Within1To3 int
	Within3To5 int
	Older      int
}

// Total returns the number of counted observations
func (b RecencyBuckets) Total() int {
	return b.Within1Y + b.Within1To3 + b.Within3To5 + b.Older
}

// BucketObservations sorts observations into age buckets relative to asOf.
func BucketObservations(observations []models.HistoricalObservation, asOf time.Time) RecencyBuckets {
	oneYear := asOf.AddDate(-1, 0, 0)
	threeYears := asOf.AddDate(-3, 0, 0)
	fiveYears := asOf.AddDate(-5, 0, 0)

	var b RecencyBuckets
	for _, obs := range observations {
		switch {
		case !obs.PlayedAt.Before(oneYear):
			b.Within1Y++
		case !obs.PlayedAt.Before(threeYears):
			b.Within1To3++
		case !obs.PlayedAt.Before(fiveYears):
			b.Within3To5++
		default:
			b.Older++
		}
	}
	return b
}

// Input carries everything the scorer needs. Buckets is nil when the estimate
// has no dated observations, in which case recency comes from the segment key.
// Continuity values are nil when unknown.
type Input struct {
	SegmentUsed     string
	NGames          int
	Buckets         *RecencyBuckets
	ContinuityTeamA *float64
	ContinuityTeamB *float64
}

// Score computes the combined confidence result.
func Score(in Input) models.ConfidenceResult {
	n := in.NGames
	if in.SegmentUsed == segments.KeyHybridForm {
		n = EffectiveHybridSample(n)
	}

	factors := models.ConfidenceFactors{
		SampleSizeScore:       SampleSizeScore(n),
		RosterContinuityScore: RosterScore(in.ContinuityTeamA, in.ContinuityTeamB),
	}
	if in.Buckets != nil && in.Buckets.Total() > 0 {
		factors.RecencyScore = BucketRecencyScore(*in.Buckets)
	} else {
		factors.RecencyScore = SegmentRecencyScore(in.SegmentUsed)
	}

	score := Combine(factors)
	return models.ConfidenceResult{
		Score:   score,
		Label:   Label(score),
		Factors: factors,
	}
}

// EffectiveHybridSample applies the hybrid discount to a pooled sample size.
func EffectiveHybridSample(n int) int {
	return int(math.Floor(float64(n) * HybridSampleMultiplier))
}

// SampleSizeScore maps a sample size onto the canonical staircase.
func SampleSizeScore(n int) float64 {
	switch {
	case n >= 20:
		return 100
	case n >= 15:
		return 90
	case n >= 10:
		return 75
	case n >= 7:
		return 60
	case n >= 5:
		return 45
	case n >= 3:
		return 25
	case n > 0:
		return float64(n * 8)
	default:
		return 0
	}
}

// BucketRecencyScore weights recent observations more heavily. A sample made
// entirely of games from the last year scores 100; games older than five years
// contribute nothing.
func BucketRecencyScore(b RecencyBuckets) float64 {
	total := b.Total()
	if total == 0 {
		return 0
	}
	weighted := 0.5*float64(b.Within1Y) + 0.3*float64(b.Within1To3) + 0.2*float64(b.Within3To5)
	score := 100 * weighted / (0.5 * float64(total))
	return round1(score)
}

// SegmentRecencyScore is the fallback recency score keyed by segment.
func SegmentRecencyScore(segmentKey string) float64 {
	return round1(100 * segments.RecencyWeight(segmentKey))
}

// RosterScore averages both teams' continuity, or returns the neutral score
// when either side is unknown.
func RosterScore(a, b *float64) float64 {
	if a == nil || b == nil {
		return NeutralRosterScore
	}
	return round1((clamp(*a) + clamp(*b)) / 2)
}

// Combine applies the factor weights and rounds to the nearest integer.
func Combine(f models.ConfidenceFactors) int {
	raw := SampleWeight*f.SampleSizeScore + RecencyWeight*f.RecencyScore + RosterWeight*f.RosterContinuityScore
	return int(math.Round(raw))
}

// Label maps a score onto its qualitative label.
func Label(score int) string {
	switch {
	case score >= 80:
		return LabelExcellent
	case score >= 60:
		return LabelGood
	case score >= 40:
		return LabelFair
	case score >= 20:
		return LabelLow
	default:
		return LabelInsufficient
	}
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}

func round1(v float64) float64 {
	return decimal.NewFromFloat(v).Round(1).InexactFloat64()
}
