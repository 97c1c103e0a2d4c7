package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/yourusername/totals-engine/internal/database"
	"github.com/yourusername/totals-engine/internal/models"
)

// PostgresGameRepository implements GameRepository for PostgreSQL
type PostgresGameRepository struct {
	db database.Querier
}

// NewPostgresGameRepository creates a new game repository
func NewPostgresGameRepository(db database.Querier) *PostgresGameRepository {
	return &PostgresGameRepository{db: db}
}

// pairColumns returns the id columns a key addresses.
func pairColumns(key models.MatchupKey) (string, string) {
	if key.IsFranchise() {
		return "home_franchise_id", "away_franchise_id"
	}
	return "home_team_id", "away_team_id"
}

// observationQuery builds the head-to-head query for a key and window.
func observationQuery(key models.MatchupKey, window models.Window) (string, []any) {
	home, away := pairColumns(key)

	var b strings.Builder
	fmt.Fprintf(&b, `SELECT (home_score + away_score)::float8 AS total, played_at, season_year
		FROM historical_games
		WHERE sport_id = $1 AND status = '%s'
		AND %[2]s IS NOT NULL AND %[3]s IS NOT NULL
		AND LEAST(%[2]s, %[3]s) = $2 AND GREATEST(%[2]s, %[3]s) = $3`, models.GameStatusFinal, home, away)
	args := []any{key.SportID, key.LowID, key.HighID}

	if !window.Start.IsZero() {
		args = append(args, window.Start)
		fmt.Fprintf(&b, " AND played_at >= $%d", len(args))
	}
	if !window.End.IsZero() {
		args = append(args, window.End)
		fmt.Fprintf(&b, " AND played_at < $%d", len(args))
	}
	if window.MinSeason > 0 {
		args = append(args, window.MinSeason)
		fmt.Fprintf(&b, " AND season_year >= $%d", len(args))
	}
	b.WriteString(" ORDER BY played_at DESC")

	return b.String(), args
}

// FetchObservations returns completed head-to-head games inside the window, newest first
func (r *PostgresGameRepository) FetchObservations(ctx context.Context, key models.MatchupKey, window models.Window) ([]models.HistoricalObservation, error) {
	query, args := observationQuery(key, window)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query observations for %s: %w", key, err)
	}

	observations, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.HistoricalObservation])
	if err != nil {
		return nil, fmt.Errorf("failed to scan observations for %s: %w", key, err)
	}
	return observations, nil
}

const recentTeamGamesQuery = `
	SELECT (home_score + away_score)::float8 AS total, played_at
	FROM historical_games
	WHERE status = 'final' AND (home_team_id = $1 OR away_team_id = $1)
	ORDER BY played_at DESC
	LIMIT $2
`

// FetchTeamRecentGames returns the team's latest completed games against any opponent
func (r *PostgresGameRepository) FetchTeamRecentGames(ctx context.Context, teamID int64, limit int) ([]models.TeamGame, error) {
	rows, err := r.db.Query(ctx, recentTeamGamesQuery, teamID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent games for team %d: %w", teamID, err)
	}

	games, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.TeamGame])
	if err != nil {
		return nil, fmt.Errorf("failed to scan recent games for team %d: %w", teamID, err)
	}
	return games, nil
}

var gameColumns = []string{
	"sport_id", "home_team_id", "away_team_id", "home_franchise_id", "away_franchise_id",
	"home_score", "away_score", "played_at", "season_year", "status",
}

// InsertBatch inserts games using the COPY protocol
func (r *PostgresGameRepository) InsertBatch(ctx context.Context, games []models.Game) (int64, error) {
	if len(games) == 0 {
		return 0, nil
	}

	rows := make([][]any, len(games))
	for i, g := range games {
		status := g.Status
		if status == "" {
			status = models.GameStatusFinal
		}
		rows[i] = []any{
			g.SportID, g.HomeTeamID, g.AwayTeamID, g.HomeFranchiseID, g.AwayFranchiseID,
			g.HomeScore, g.AwayScore, g.PlayedAt, g.SeasonYear, status,
		}
	}

	copyCount, err := r.db.CopyFrom(ctx, pgx.Identifier{"historical_games"}, gameColumns, pgx.CopyFromRows(rows))
	if err != nil {
		return 0, fmt.Errorf("failed to batch insert games: %w", err)
	}
	if copyCount != int64(len(games)) {
		return copyCount, fmt.Errorf("inserted %d rows, expected %d", copyCount, len(games))
	}
	return copyCount, nil
}
