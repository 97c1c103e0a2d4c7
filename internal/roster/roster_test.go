package roster

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/totals-engine/internal/models"
)

func score(v float64) *float64 { return &v }

func TestContinuityBounds(t *testing.T) {
	assert.Equal(t, 0.0, Continuity([]int64{}, []int64{1, 2}))
	assert.Equal(t, 0.0, Continuity([]int64{1, 2}, nil))
	assert.Equal(t, 100.0, Continuity([]int64{1, 2}, []int64{1, 2}))
	assert.Equal(t, 100.0, Continuity([]int64{2, 1, 7}, []int64{1, 2}))
}

func TestContinuityRounding(t *testing.T) {
	assert.Equal(t, 33.3, Continuity([]int64{1, 9}, []int64{1, 2, 3}))
	assert.Equal(t, 66.7, Continuity([]int64{1, 2}, []int64{1, 2, 3}))
	assert.Equal(t, 60.0, Continuity([]int64{1, 2, 3}, []int64{1, 2, 3, 4, 5}))
	// duplicates in the current roster count once
	assert.Equal(t, 50.0, Continuity([]int64{1}, []int64{1, 1, 2}))
}

func TestClassifyEra(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{0, models.EraRebuild},
		{29.9, models.EraRebuild},
		{30, models.EraRetooling},
		{49.9, models.EraRetooling},
		{50, models.EraTransition},
		{69.9, models.EraTransition},
		{70, models.EraStable},
		{100, models.EraStable},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyEra(tt.score), "score=%v", tt.score)
	}
}

func TestBroadCategory(t *testing.T) {
	assert.Equal(t, CategoryStable, BroadCategory(models.EraStable))
	assert.Equal(t, CategoryStable, BroadCategory(models.EraTransition))
	assert.Equal(t, CategoryRebuild, BroadCategory(models.EraRebuild))
	assert.Equal(t, CategoryRebuild, BroadCategory(models.EraRetooling))
	assert.Equal(t, "", BroadCategory("unknown"))
}

func TestEraStartYear(t *testing.T) {
	t.Run("stops at category change", func(t *testing.T) {
		snaps := []models.RosterSnapshot{
			{SeasonYear: 2026, ContinuityScore: score(80)},
			{SeasonYear: 2025, ContinuityScore: score(60)},
			{SeasonYear: 2024, ContinuityScore: score(72)},
			{SeasonYear: 2023, ContinuityScore: score(20)},
			{SeasonYear: 2022, ContinuityScore: score(90)},
		}
		assert.Equal(t, 2024, EraStartYear(snaps))
	})

	t.Run("rebuild run", func(t *testing.T) {
		snaps := []models.RosterSnapshot{
			{SeasonYear: 2026, ContinuityScore: score(40)},
			{SeasonYear: 2025, ContinuityScore: score(10)},
			{SeasonYear: 2024, ContinuityScore: score(55)},
		}
		assert.Equal(t, 2025, EraStartYear(snaps))
	})

	t.Run("unknown continuity ends the run", func(t *testing.T) {
		snaps := []models.RosterSnapshot{
			{SeasonYear: 2026, ContinuityScore: score(80)},
			{SeasonYear: 2025},
			{SeasonYear: 2024, ContinuityScore: score(80)},
		}
		assert.Equal(t, 2026, EraStartYear(snaps))
	})

	t.Run("missing season ends the run", func(t *testing.T) {
		snaps := []models.RosterSnapshot{
			{SeasonYear: 2026, ContinuityScore: score(80)},
			{SeasonYear: 2025, ContinuityScore: score(75)},
			{SeasonYear: 2023, ContinuityScore: score(90)},
		}
		assert.Equal(t, 2025, EraStartYear(snaps))
	})

	t.Run("no data", func(t *testing.T) {
		assert.Equal(t, 0, EraStartYear(nil))
		assert.Equal(t, 0, EraStartYear([]models.RosterSnapshot{{SeasonYear: 2026}}))
	})
}

func TestKeyPlayers(t *testing.T) {
	t.Run("filters key positions by experience", func(t *testing.T) {
		players := []models.Player{
			{PlayerID: 1, Position: "QB", ExperienceYears: 8},
			{PlayerID: 2, Position: "OL", ExperienceYears: 12},
			{PlayerID: 3, Position: "WR", ExperienceYears: 3},
			{PlayerID: 4, Position: "RB", ExperienceYears: 5},
			{PlayerID: 5, Position: "TE", ExperienceYears: 6},
			{PlayerID: 6, Position: "CB", ExperienceYears: 2},
			{PlayerID: 7, Position: "S", ExperienceYears: 1},
			{PlayerID: 8, Position: "K", ExperienceYears: 15},
		}
		got := KeyPlayers("nfl", players)
		require.Len(t, got, KeyPlayerCount)
		assert.Equal(t, []int64{1, 5, 4, 3, 6}, ids(got))
	})

	t.Run("pads with most experienced remaining players", func(t *testing.T) {
		players := []models.Player{
			{PlayerID: 10, Position: "QB", ExperienceYears: 4},
			{PlayerID: 11, Position: "OL", ExperienceYears: 9},
			{PlayerID: 12, Position: "K", ExperienceYears: 11},
			{PlayerID: 13, Position: "LS", ExperienceYears: 2},
			{PlayerID: 14, Position: "P", ExperienceYears: 9},
			{PlayerID: 15, Position: "DT", ExperienceYears: 1},
		}
		got := KeyPlayers("nfl", players)
		assert.Equal(t, []int64{10, 12, 11, 14, 13}, ids(got))
	})

	t.Run("unknown sport ranks purely by experience", func(t *testing.T) {
		players := []models.Player{
			{PlayerID: 3, Position: "X", ExperienceYears: 1},
			{PlayerID: 1, Position: "Y", ExperienceYears: 7},
		}
		assert.Equal(t, []int64{1, 3}, ids(KeyPlayers("curling", players)))
	})

	t.Run("case insensitive positions", func(t *testing.T) {
		assert.True(t, IsKeyPosition("NBA", "pg"))
		assert.False(t, IsKeyPosition("nba", "QB"))
	})
}

func TestBuildSnapshot(t *testing.T) {
	roster2025 := []models.Player{
		{PlayerID: 1, Position: "PG", ExperienceYears: 6},
		{PlayerID: 2, Position: "SG", ExperienceYears: 5},
		{PlayerID: 3, Position: "SF", ExperienceYears: 4},
		{PlayerID: 4, Position: "PF", ExperienceYears: 3},
		{PlayerID: 5, Position: "C", ExperienceYears: 2},
	}

	first, err := BuildSnapshot("nba", 77, 2025, roster2025, nil)
	require.NoError(t, err)
	assert.Nil(t, first.ContinuityScore)
	assert.Equal(t, "", first.EraTag)
	assert.Equal(t, 2025, first.EraStartYear)

	roster2026 := []models.Player{
		{PlayerID: 1, Position: "PG", ExperienceYears: 7},
		{PlayerID: 2, Position: "SG", ExperienceYears: 6},
		{PlayerID: 3, Position: "SF", ExperienceYears: 5},
		{PlayerID: 4, Position: "PF", ExperienceYears: 4},
		{PlayerID: 9, Position: "C", ExperienceYears: 1},
	}
	second, err := BuildSnapshot("nba", 77, 2026, roster2026, []models.RosterSnapshot{first})
	require.NoError(t, err)
	require.NotNil(t, second.ContinuityScore)
	assert.Equal(t, 80.0, *second.ContinuityScore)
	assert.Equal(t, models.EraStable, second.EraTag)
	assert.Equal(t, 2026, second.EraStartYear)

	_, err = BuildSnapshot("nba", 77, 2026, nil, nil)
	assert.Error(t, err)
}

func TestBuildSnapshotSkippedSeason(t *testing.T) {
	players := []models.Player{
		{PlayerID: 1, Position: "PG", ExperienceYears: 6},
		{PlayerID: 2, Position: "SG", ExperienceYears: 5},
	}
	first, err := BuildSnapshot("nba", 77, 2023, players, nil)
	require.NoError(t, err)

	later, err := BuildSnapshot("nba", 77, 2026, players, []models.RosterSnapshot{first})
	require.NoError(t, err)
	assert.Nil(t, later.ContinuityScore)
	assert.Equal(t, "", later.EraTag)
	assert.Equal(t, 2026, later.EraStartYear)
}

type fakeSource struct {
	snapshots []models.RosterSnapshot
	err       error
}

func (f *fakeSource) FetchRosterSnapshots(ctx context.Context, teamID int64, sportID string) ([]models.RosterSnapshot, error) {
	return f.snapshots, f.err
}

func TestTrackerLatestContinuity(t *testing.T) {
	ctx := context.Background()

	tracker := NewTracker(&fakeSource{snapshots: []models.RosterSnapshot{
		{SeasonYear: 2024, ContinuityScore: score(40)},
		{SeasonYear: 2026, ContinuityScore: score(75)},
		{SeasonYear: 2025, ContinuityScore: score(60)},
	}})
	got, err := tracker.LatestContinuity(ctx, 1, "nba")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 75.0, *got)

	empty := NewTracker(&fakeSource{})
	got, err = empty.LatestContinuity(ctx, 1, "nba")
	require.NoError(t, err)
	assert.Nil(t, got)

	failing := NewTracker(&fakeSource{err: errors.New("connection refused")})
	_, err = failing.LatestContinuity(ctx, 1, "nba")
	assert.True(t, errors.Is(err, models.ErrCollaborator))
}

func ids(players []models.Player) []int64 {
	out := make([]int64, len(players))
	for i, p := range players {
		out[i] = p.PlayerID
	}
	return out
}
