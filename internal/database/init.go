package database

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/totals-engine/internal/config"
)

// RequiredTables are read or written by the repositories.
var RequiredTables = []string{
	"historical_games",
	"teams",
	"roster_snapshots",
	"matchup_results",
}

// Schema creates the tables the repositories expect. Production databases are
// migrated separately; this is for local setups and integration tests.
const Schema = `
CREATE TABLE IF NOT EXISTS teams (
	id           BIGINT PRIMARY KEY,
	sport_id     TEXT NOT NULL,
	name         TEXT NOT NULL,
	franchise_id BIGINT
);

CREATE TABLE IF NOT EXISTS historical_games (
	id                BIGSERIAL PRIMARY KEY,
	sport_id          TEXT NOT NULL,
	home_team_id      BIGINT NOT NULL,
	away_team_id      BIGINT NOT NULL,
	home_franchise_id BIGINT,
	away_franchise_id BIGINT,
	home_score        INTEGER NOT NULL,
	away_score        INTEGER NOT NULL,
	played_at         TIMESTAMPTZ NOT NULL,
	season_year       INTEGER NOT NULL,
	status            TEXT NOT NULL DEFAULT 'final'
);

CREATE INDEX IF NOT EXISTS historical_games_team_pair_idx
	ON historical_games (sport_id, LEAST(home_team_id, away_team_id), GREATEST(home_team_id, away_team_id), played_at);
CREATE INDEX IF NOT EXISTS historical_games_home_idx ON historical_games (home_team_id, played_at DESC);
CREATE INDEX IF NOT EXISTS historical_games_away_idx ON historical_games (away_team_id, played_at DESC);

CREATE TABLE IF NOT EXISTS roster_snapshots (
	team_id          BIGINT NOT NULL,
	sport_id         TEXT NOT NULL,
	season_year      INTEGER NOT NULL,
	continuity_score DOUBLE PRECISION,
	key_players      JSONB NOT NULL DEFAULT '[]',
	era_tag          TEXT NOT NULL DEFAULT '',
	era_start_year   INTEGER NOT NULL DEFAULT 0,
	updated_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (team_id, sport_id, season_year)
);

CREATE TABLE IF NOT EXISTS matchup_results (
	id               UUID PRIMARY KEY,
	sport_id         TEXT NOT NULL,
	entity_low_id    BIGINT NOT NULL,
	entity_high_id   BIGINT NOT NULL,
	keyed_by         TEXT NOT NULL,
	as_of            TIMESTAMPTZ NOT NULL,
	segment_used     TEXT NOT NULL,
	n_used           INTEGER NOT NULL,
	confidence_score INTEGER NOT NULL,
	scoring_version  TEXT NOT NULL,
	result           JSONB NOT NULL,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

// Initialize creates a database connection pool and verifies the expected
// tables exist.
func Initialize(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*DB, error) {
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	missing, err := db.MissingTables(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}
	if len(missing) > 0 {
		log.WithField("tables", missing).Warn("Database is missing tables, run migrations before computing")
	}

	return db, nil
}

// MissingTables returns the required tables that do not exist.
func (db *DB) MissingTables(ctx context.Context) ([]string, error) {
	var missing []string
	for _, table := range RequiredTables {
		var exists bool
		err := db.pool.QueryRow(ctx, "SELECT to_regclass($1) IS NOT NULL", table).Scan(&exists)
		if err != nil {
			return nil, fmt.Errorf("failed to check table %s: %w", table, err)
		}
		if !exists {
			missing = append(missing, table)
		}
	}
	return missing, nil
}

// ApplySchema creates any missing tables.
func (db *DB) ApplySchema(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
