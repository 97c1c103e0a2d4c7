package repository

import (
	"fmt"

	"github.com/yourusername/totals-engine/internal/database"
)

// Repositories holds all repository implementations
type Repositories struct {
	Games   *PostgresGameRepository
	Teams   *PostgresTeamRepository
	Rosters *PostgresRosterSnapshotRepository
	Results *PostgresResultRepository
}

// NewRepositories creates and returns all repository implementations
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		Games:   NewPostgresGameRepository(db),
		Teams:   NewPostgresTeamRepository(db),
		Rosters: NewPostgresRosterSnapshotRepository(db),
		Results: NewPostgresResultRepository(db),
	}, nil
}

var (
	_ GameRepository           = (*PostgresGameRepository)(nil)
	_ TeamRepository           = (*PostgresTeamRepository)(nil)
	_ RosterSnapshotRepository = (*PostgresRosterSnapshotRepository)(nil)
	_ ResultRepository         = (*PostgresResultRepository)(nil)
)
