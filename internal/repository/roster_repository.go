package repository

import (
	"context"
	"fmt"

	"github.com/yourusername/totals-engine/internal/database"
	"github.com/yourusername/totals-engine/internal/models"
)

// PostgresRosterSnapshotRepository implements RosterSnapshotRepository for PostgreSQL
type PostgresRosterSnapshotRepository struct {
	db database.Querier
}

// NewPostgresRosterSnapshotRepository creates a new roster snapshot repository
func NewPostgresRosterSnapshotRepository(db database.Querier) *PostgresRosterSnapshotRepository {
	return &PostgresRosterSnapshotRepository{db: db}
}

// FetchRosterSnapshots returns the team's snapshots, newest season first
func (r *PostgresRosterSnapshotRepository) FetchRosterSnapshots(ctx context.Context, teamID int64, sportID string) ([]models.RosterSnapshot, error) {
	query := `
		SELECT team_id, sport_id, season_year, continuity_score, key_players, era_tag, era_start_year
		FROM roster_snapshots
		WHERE team_id = $1 AND sport_id = $2
		ORDER BY season_year DESC
	`

	rows, err := r.db.Query(ctx, query, teamID, sportID)
	if err != nil {
		return nil, fmt.Errorf("failed to query roster snapshots for team %d: %w", teamID, err)
	}
	defer rows.Close()

	var snapshots []models.RosterSnapshot
	for rows.Next() {
		var s models.RosterSnapshot
		err := rows.Scan(&s.TeamID, &s.SportID, &s.SeasonYear, &s.ContinuityScore, &s.KeyPlayers, &s.EraTag, &s.EraStartYear)
		if err != nil {
			return nil, fmt.Errorf("failed to scan roster snapshot: %w", err)
		}
		snapshots = append(snapshots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating roster snapshots: %w", err)
	}

	return snapshots, nil
}

// Save creates or replaces the snapshot for its team and season
func (r *PostgresRosterSnapshotRepository) Save(ctx context.Context, s *models.RosterSnapshot) error {
	keyPlayers := s.KeyPlayers
	if keyPlayers == nil {
		keyPlayers = []models.Player{}
	}

	query := `
		INSERT INTO roster_snapshots (team_id, sport_id, season_year, continuity_score, key_players, era_tag, era_start_year, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		ON CONFLICT (team_id, sport_id, season_year) DO UPDATE
		SET continuity_score = EXCLUDED.continuity_score,
			key_players = EXCLUDED.key_players,
			era_tag = EXCLUDED.era_tag,
			era_start_year = EXCLUDED.era_start_year,
			updated_at = NOW()
	`
	_, err := r.db.Exec(ctx, query, s.TeamID, s.SportID, s.SeasonYear, s.ContinuityScore, keyPlayers, s.EraTag, s.EraStartYear)
	if err != nil {
		return fmt.Errorf("failed to save roster snapshot for team %d season %d: %w", s.TeamID, s.SeasonYear, err)
	}
	return nil
}
