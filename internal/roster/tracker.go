package roster

import (
	"context"
	"fmt"
	"sort"

	"github.com/yourusername/totals-engine/internal/models"
)

// Source reads roster snapshots for a team, ordered by season descending.
type Source interface {
	FetchRosterSnapshots(ctx context.Context, teamID int64, sportID string) ([]models.RosterSnapshot, error)
}

// Tracker reads roster history for the confidence model.
type Tracker struct {
	source Source
}

// NewTracker creates a new roster tracker
func NewTracker(source Source) *Tracker {
	return &Tracker{source: source}
}

// LatestContinuity returns the continuity of the team's most recent snapshot,
// or nil when the team has no snapshot or the latest one has no prior season.
func (t *Tracker) LatestContinuity(ctx context.Context, teamID int64, sportID string) (*float64, error) {
	if t == nil || t.source == nil {
		return nil, nil
	}

	snapshots, err := t.source.FetchRosterSnapshots(ctx, teamID, sportID)
	if err != nil {
		return nil, models.NewCollaboratorError("fetch roster snapshots", err)
	}
	if len(snapshots) == 0 {
		return nil, nil
	}
	latest := latestSnapshot(snapshots)
	return latest.ContinuityScore, nil
}

// latestSnapshot does not trust the collaborator's ordering.
func latestSnapshot(snapshots []models.RosterSnapshot) models.RosterSnapshot {
	latest := snapshots[0]
	for _, s := range snapshots[1:] {
		if s.SeasonYear > latest.SeasonYear {
			latest = s
		}
	}
	return latest
}

// BuildSnapshot derives a season snapshot from a full roster and the team's
// earlier snapshots. Continuity is measured against the previous season's
// snapshot and is nil when that season is missing, even if older ones exist.
func BuildSnapshot(sportID string, teamID int64, season int, players []models.Player, history []models.RosterSnapshot) (models.RosterSnapshot, error) {
	if len(players) == 0 {
		return models.RosterSnapshot{}, fmt.Errorf("roster for team %d season %d is empty", teamID, season)
	}

	snap := models.RosterSnapshot{
		TeamID:     teamID,
		SportID:    sportID,
		SeasonYear: season,
		KeyPlayers: KeyPlayers(sportID, players),
	}

	earlier := make([]models.RosterSnapshot, 0, len(history))
	for _, h := range history {
		if h.SeasonYear < season {
			earlier = append(earlier, h)
		}
	}
	sort.SliceStable(earlier, func(i, j int) bool { return earlier[i].SeasonYear > earlier[j].SeasonYear })

	if len(earlier) == 0 || earlier[0].SeasonYear != season-1 {
		snap.EraStartYear = season
		return snap, nil
	}

	score := Continuity(earlier[0].PlayerIDs(), snap.PlayerIDs())
	snap.ContinuityScore = &score
	snap.EraTag = ClassifyEra(score)
	snap.EraStartYear = EraStartYear(append([]models.RosterSnapshot{snap}, earlier...))
	return snap, nil
}
