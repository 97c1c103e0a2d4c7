package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/totals-engine/internal/models"
)

// GameRepository defines the interface for historical game data access
type GameRepository interface {
	FetchObservations(ctx context.Context, key models.MatchupKey, window models.Window) ([]models.HistoricalObservation, error)
	FetchTeamRecentGames(ctx context.Context, teamID int64, limit int) ([]models.TeamGame, error)
	InsertBatch(ctx context.Context, games []models.Game) (int64, error)
}

// TeamRepository defines the interface for team identity data access
type TeamRepository interface {
	GetFranchiseID(ctx context.Context, teamID int64) (*int64, error)
	Upsert(ctx context.Context, team *models.Team) error
}

// RosterSnapshotRepository defines the interface for roster snapshot data access
type RosterSnapshotRepository interface {
	FetchRosterSnapshots(ctx context.Context, teamID int64, sportID string) ([]models.RosterSnapshot, error)
	Save(ctx context.Context, snapshot *models.RosterSnapshot) error
}

// ResultRepository defines the interface for stored matchup results
type ResultRepository interface {
	Save(ctx context.Context, key models.MatchupKey, asOf time.Time, result *models.Result) (uuid.UUID, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.StoredResult, error)
	GetLatest(ctx context.Context, key models.MatchupKey) (*models.StoredResult, error)
}
