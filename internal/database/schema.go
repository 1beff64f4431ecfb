package database

import (
	"context"
	"fmt"

	"github.com/yourusername/valuebet-engine/internal/config"
)

// Schema statements are idempotent so startup can apply them on every boot.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS bets (
		id UUID PRIMARY KEY,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		fixture_id INTEGER NOT NULL,
		match_date TEXT NOT NULL,
		league TEXT NOT NULL,
		home_team TEXT NOT NULL,
		away_team TEXT NOT NULL,
		market TEXT NOT NULL,
		bookmaker TEXT NOT NULL,
		bk_odds DOUBLE PRECISION NOT NULL,
		model_odds DOUBLE PRECISION NOT NULL,
		probability DOUBLE PRECISION NOT NULL,
		value DOUBLE PRECISION NOT NULL,
		result TEXT,
		success BOOLEAN,
		notified BOOLEAN NOT NULL DEFAULT FALSE,
		settled_at TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS idx_bets_pending ON bets (match_date) WHERE success IS NULL`,
	`CREATE INDEX IF NOT EXISTS idx_bets_created_at ON bets (created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS team_stats (
		id SERIAL PRIMARY KEY,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		league_id INTEGER NOT NULL,
		season INTEGER NOT NULL,
		team_id INTEGER NOT NULL,
		team_name TEXT NOT NULL,
		home_goals_scored DOUBLE PRECISION NOT NULL DEFAULT 0,
		home_goals_conceded DOUBLE PRECISION NOT NULL DEFAULT 0,
		away_goals_scored DOUBLE PRECISION NOT NULL DEFAULT 0,
		away_goals_conceded DOUBLE PRECISION NOT NULL DEFAULT 0,
		home_games INTEGER NOT NULL DEFAULT 0,
		away_games INTEGER NOT NULL DEFAULT 0,
		UNIQUE (league_id, season, team_id)
	)`,
}

// Initialize creates a database connection pool and applies the schema.
func Initialize(ctx context.Context, cfg *config.Config) (*DB, error) {
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := db.ApplySchema(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// ApplySchema runs the idempotent DDL statements.
func (db *DB) ApplySchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
