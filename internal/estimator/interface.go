// Package estimator holds the strategies that pick a historical sample for a
// matchup and summarize it. Each strategy returns a nil estimate when its data
// is too thin; errors are reserved for collaborator failures.
package estimator

import (
	"context"
	"time"

	"github.com/yourusername/totals-engine/internal/models"
)

// ObservationSource reads head-to-head history for a matchup.
type ObservationSource interface {
	FetchObservations(ctx context.Context, key models.MatchupKey, window models.Window) ([]models.HistoricalObservation, error)
}

// TeamGameSource reads a team's most recent completed games against any opponent.
type TeamGameSource interface {
	FetchTeamRecentGames(ctx context.Context, teamID int64, limit int) ([]models.TeamGame, error)
}

// Input is the per-matchup context shared by every strategy.
type Input struct {
	Key   models.MatchupKey
	TeamA models.TeamRef
	TeamB models.TeamRef
	AsOf  time.Time
}

// Estimate is a successful strategy outcome. Observations is set when the
// sample is dated head-to-head history, so recency can be scored from it.
type Estimate struct {
	Stats        models.SegmentStats
	Observations []models.HistoricalObservation
}

// SegmentUsed returns the key of the segment the estimate was drawn from
func (e *Estimate) SegmentUsed() string {
	return e.Stats.SegmentKey
}

// Strategy produces an estimate or nil when it lacks data.
type Strategy interface {
	Name() string
	Estimate(ctx context.Context, in Input) (*Estimate, error)
}
