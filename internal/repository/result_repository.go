package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/yourusername/totals-engine/internal/confidence"
	"github.com/yourusername/totals-engine/internal/database"
	"github.com/yourusername/totals-engine/internal/models"
)

// PostgresResultRepository implements ResultRepository for PostgreSQL
type PostgresResultRepository struct {
	db database.Querier
}

// NewPostgresResultRepository creates a new result repository
func NewPostgresResultRepository(db database.Querier) *PostgresResultRepository {
	return &PostgresResultRepository{db: db}
}

// Save stores a result with the current scoring version and returns its id
func (r *PostgresResultRepository) Save(ctx context.Context, key models.MatchupKey, asOf time.Time, result *models.Result) (uuid.UUID, error) {
	payload, err := json.Marshal(result)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to encode result: %w", err)
	}

	id := uuid.New()
	query := `
		INSERT INTO matchup_results (id, sport_id, entity_low_id, entity_high_id, keyed_by, as_of,
			segment_used, n_used, confidence_score, scoring_version, result)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err = r.db.Exec(ctx, query,
		id, key.SportID, key.LowID, key.HighID, string(key.KeyedBy), asOf,
		result.SegmentUsed, result.NUsed, result.Confidence.Score, confidence.ScoringVersion, payload,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert result for %s: %w", key, err)
	}
	return id, nil
}

const storedResultColumns = `id, sport_id, entity_low_id, entity_high_id, keyed_by, as_of, scoring_version, result, created_at`

// GetByID retrieves a stored result
func (r *PostgresResultRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.StoredResult, error) {
	row := r.db.QueryRow(ctx, `SELECT `+storedResultColumns+` FROM matchup_results WHERE id = $1`, id)
	return scanStoredResult(row)
}

// GetLatest retrieves the most recently stored result for a matchup
func (r *PostgresResultRepository) GetLatest(ctx context.Context, key models.MatchupKey) (*models.StoredResult, error) {
	query := `SELECT ` + storedResultColumns + ` FROM matchup_results
		WHERE sport_id = $1 AND entity_low_id = $2 AND entity_high_id = $3 AND keyed_by = $4
		ORDER BY created_at DESC
		LIMIT 1`
	row := r.db.QueryRow(ctx, query, key.SportID, key.LowID, key.HighID, string(key.KeyedBy))
	return scanStoredResult(row)
}

func scanStoredResult(row pgx.Row) (*models.StoredResult, error) {
	var (
		stored  models.StoredResult
		keyedBy string
		payload []byte
	)
	err := row.Scan(
		&stored.ID, &stored.Key.SportID, &stored.Key.LowID, &stored.Key.HighID, &keyedBy,
		&stored.AsOf, &stored.ScoringVersion, &payload, &stored.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query stored result: %w", err)
	}
	stored.Key.KeyedBy = models.KeyedBy(keyedBy)

	if err := json.Unmarshal(payload, &stored.Result); err != nil {
		return nil, fmt.Errorf("failed to decode stored result %s: %w", stored.ID, err)
	}
	return &stored, nil
}
