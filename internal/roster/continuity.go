// Package roster measures season-over-season roster stability and classifies a
// team's multi-year trajectory into an era.
package roster

import (
	"github.com/shopspring/decimal"

	"github.com/yourusername/totals-engine/internal/models"
)

// Era thresholds on the continuity score.
const (
	rebuildBelow   = 30.0
	retoolingBelow = 50.0
	stableAtLeast  = 70.0
)

// Broad era categories used when scanning for the start of an era.
const (
	CategoryStable  = "stable-like"
	CategoryRebuild = "rebuild-like"
)

// Continuity returns the percentage of the current roster that was also on the
// previous one, rounded to one decimal. Either roster being empty yields 0.
func Continuity(prev, curr []int64) float64 {
	if len(prev) == 0 || len(curr) == 0 {
		return 0
	}

	seen := make(map[int64]struct{}, len(prev))
	for _, id := range prev {
		seen[id] = struct{}{}
	}

	currSet := make(map[int64]struct{}, len(curr))
	overlap := 0
	for _, id := range curr {
		if _, dup := currSet[id]; dup {
			continue
		}
		currSet[id] = struct{}{}
		if _, ok := seen[id]; ok {
			overlap++
		}
	}

	pct := decimal.NewFromInt(int64(overlap)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(len(currSet)))).
		Round(1)
	return pct.InexactFloat64()
}

// ClassifyEra maps a continuity score onto an era tag.
func ClassifyEra(score float64) string {
	switch {
	case score < rebuildBelow:
		return models.EraRebuild
	case score >= stableAtLeast:
		return models.EraStable
	case score < retoolingBelow:
		return models.EraRetooling
	default:
		return models.EraTransition
	}
}

// BroadCategory groups stable and transition eras apart from rebuild and retooling.
func BroadCategory(era string) string {
	switch era {
	case models.EraStable, models.EraTransition:
		return CategoryStable
	case models.EraRebuild, models.EraRetooling:
		return CategoryRebuild
	default:
		return ""
	}
}

// EraStartYear scans snapshots ordered by season descending and returns the
// earliest season of the unbroken run sharing the latest snapshot's broad
// category. A snapshot with unknown continuity or a missing season ends the
// run. Returns 0 when the latest snapshot has no continuity.
func EraStartYear(snapshots []models.RosterSnapshot) int {
	if len(snapshots) == 0 || snapshots[0].ContinuityScore == nil {
		return 0
	}

	category := BroadCategory(ClassifyEra(*snapshots[0].ContinuityScore))
	start := snapshots[0].SeasonYear
	for _, snap := range snapshots[1:] {
		if snap.ContinuityScore == nil || snap.SeasonYear != start-1 {
			break
		}
		if BroadCategory(ClassifyEra(*snap.ContinuityScore)) != category {
			break
		}
		start = snap.SeasonYear
	}
	return start
}
