package repository

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/totals-engine/internal/database"
	"github.com/yourusername/totals-engine/internal/models"
)

var asOf = time.Date(2026, time.October, 1, 12, 0, 0, 0, time.UTC)

func TestObservationQueryTeamKey(t *testing.T) {
	key := models.MatchupKey{SportID: "nba", LowID: 3, HighID: 7, KeyedBy: models.KeyedByTeam}
	window := models.Window{Start: asOf.AddDate(-3, 0, 0), End: asOf}

	query, args := observationQuery(key, window)

	assert.Contains(t, query, "LEAST(home_team_id, away_team_id) = $2")
	assert.Contains(t, query, "played_at >= $4")
	assert.Contains(t, query, "played_at < $5")
	assert.NotContains(t, query, "season_year >=")
	assert.True(t, strings.HasSuffix(query, "ORDER BY played_at DESC"))
	assert.Equal(t, []any{"nba", int64(3), int64(7), window.Start, window.End}, args)
}

func TestObservationQueryFranchiseKey(t *testing.T) {
	key := models.MatchupKey{SportID: "nfl", LowID: 10, HighID: 20, KeyedBy: models.KeyedByFranchise}
	window := models.Window{End: asOf, MinSeason: 2021}

	query, args := observationQuery(key, window)

	assert.Contains(t, query, "home_franchise_id IS NOT NULL AND away_franchise_id IS NOT NULL")
	assert.Contains(t, query, "GREATEST(home_franchise_id, away_franchise_id) = $3")
	assert.Contains(t, query, "played_at < $4")
	assert.Contains(t, query, "season_year >= $5")
	assert.NotContains(t, query, "played_at >=")
	assert.Equal(t, []any{"nfl", int64(10), int64(20), asOf, 2021}, args)
}

func TestNewRepositoriesRequiresDB(t *testing.T) {
	_, err := NewRepositories(nil)
	assert.Error(t, err)
}

func game(home, away int64, homeScore, awayScore int, played time.Time) models.Game {
	return models.Game{
		SportID:    "nba",
		HomeTeamID: home,
		AwayTeamID: away,
		HomeScore:  homeScore,
		AwayScore:  awayScore,
		PlayedAt:   played,
		SeasonYear: played.Year(),
	}
}

func TestGameRepositoryIntegration(t *testing.T) {
	db := database.SetupTestDB(t)
	defer database.TeardownTestDB(t, db)

	repos, err := NewRepositories(db)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	games := []models.Game{
		game(7, 3, 110, 101, asOf.AddDate(0, -2, 0)),
		game(3, 7, 98, 104, asOf.AddDate(-2, 0, 0)),
		game(7, 3, 120, 115, asOf.AddDate(0, 0, 1)),
		game(7, 9, 99, 90, asOf.AddDate(0, -1, 0)),
	}
	inserted, err := repos.Games.InsertBatch(ctx, games)
	require.NoError(t, err)
	assert.Equal(t, int64(4), inserted)

	key, err := models.NewMatchupKey("nba", models.TeamRef{TeamID: 7}, models.TeamRef{TeamID: 3})
	require.NoError(t, err)

	obs, err := repos.Games.FetchObservations(ctx, key, models.Window{Start: asOf.AddDate(-3, 0, 0), End: asOf})
	require.NoError(t, err)
	require.Len(t, obs, 2)
	assert.Equal(t, 211.0, obs[0].Total)
	assert.Equal(t, 202.0, obs[1].Total)

	recent, err := repos.Games.FetchTeamRecentGames(ctx, 7, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, 235.0, recent[0].Total)
}

func TestRosterAndResultRepositoryIntegration(t *testing.T) {
	db := database.SetupTestDB(t)
	defer database.TeardownTestDB(t, db)

	repos, err := NewRepositories(db)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	continuity := 60.0
	snap := &models.RosterSnapshot{
		TeamID:          7,
		SportID:         "nba",
		SeasonYear:      2026,
		ContinuityScore: &continuity,
		KeyPlayers:      []models.Player{{PlayerID: 1, Position: "PG", ExperienceYears: 6}},
		EraTag:          models.EraTransition,
		EraStartYear:    2024,
	}
	require.NoError(t, repos.Rosters.Save(ctx, snap))

	snapshots, err := repos.Rosters.FetchRosterSnapshots(ctx, 7, "nba")
	require.NoError(t, err)
	require.Len(t, snapshots, 1)
	assert.Equal(t, 60.0, *snapshots[0].ContinuityScore)
	assert.Equal(t, snap.KeyPlayers, snapshots[0].KeyPlayers)

	franchise := int64(500)
	require.NoError(t, repos.Teams.Upsert(ctx, &models.Team{ID: 7, SportID: "nba", Name: "Home", FranchiseID: &franchise}))
	got, err := repos.Teams.GetFranchiseID(ctx, 7)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, franchise, *got)

	missing, err := repos.Teams.GetFranchiseID(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, missing)

	key := models.MatchupKey{SportID: "nba", LowID: 3, HighID: 7, KeyedBy: models.KeyedByTeam}
	id, err := repos.Results.Save(ctx, key, asOf, models.InsufficientResult())
	require.NoError(t, err)

	stored, err := repos.Results.GetLatest(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, id, stored.ID)
	assert.True(t, stored.Result.IsInsufficient())
	assert.Equal(t, key, stored.Key)
}
