package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/yourusername/totals-engine/internal/database"
	"github.com/yourusername/totals-engine/internal/models"
)

// PostgresTeamRepository implements TeamRepository for PostgreSQL
type PostgresTeamRepository struct {
	db database.Querier
}

// NewPostgresTeamRepository creates a new team repository
func NewPostgresTeamRepository(db database.Querier) *PostgresTeamRepository {
	return &PostgresTeamRepository{db: db}
}

// GetFranchiseID returns the team's franchise id. An unknown team has no
// franchise, so it resolves to nil rather than an error.
func (r *PostgresTeamRepository) GetFranchiseID(ctx context.Context, teamID int64) (*int64, error) {
	var franchiseID *int64
	err := r.db.QueryRow(ctx, `SELECT franchise_id FROM teams WHERE id = $1`, teamID).Scan(&franchiseID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query franchise for team %d: %w", teamID, err)
	}
	return franchiseID, nil
}

// Upsert creates or updates a team
func (r *PostgresTeamRepository) Upsert(ctx context.Context, team *models.Team) error {
	query := `
		INSERT INTO teams (id, sport_id, name, franchise_id)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET sport_id = EXCLUDED.sport_id, name = EXCLUDED.name, franchise_id = EXCLUDED.franchise_id
	`
	if _, err := r.db.Exec(ctx, query, team.ID, team.SportID, team.Name, team.FranchiseID); err != nil {
		return fmt.Errorf("failed to upsert team %d: %w", team.ID, err)
	}
	return nil
}
