// Package store persists experiment runs and their fitted ratings in
// PostgreSQL.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sethah/ratingsim/internal/config"
)

// DB wraps a pgxpool.Pool to provide database operations
type DB struct {
	pool *pgxpool.Pool
}

// NewDB creates a new database connection pool from configuration
func NewDB(ctx context.Context, cfg *config.DatabaseConfig) (*DB, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.Name,
		cfg.SSLMode,
	)

	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxConnections)
	poolConfig.MinConns = 1
	poolConfig.MaxConnLifetime = 5 * time.Minute
	poolConfig.MaxConnIdleTime = 1 * time.Minute
	poolConfig.HealthCheckPeriod = 30 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Ping verifies database connectivity
func (db *DB) Ping(ctx context.Context) error {
	return db.pool.Ping(ctx)
}

// Close gracefully closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// GetPool returns the underlying connection pool
func (db *DB) GetPool() *pgxpool.Pool {
	return db.pool
}

// EnsureSchema creates the experiment tables if they do not exist.
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}

const schema = `
CREATE TABLE IF NOT EXISTS experiment_runs (
	id UUID PRIMARY KEY,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	num_teams INTEGER NOT NULL,
	num_games INTEGER NOT NULL,
	seed BIGINT NOT NULL,
	intercept DOUBLE PRECISION NOT NULL,
	home_advantage DOUBLE PRECISION NOT NULL,
	noise_std DOUBLE PRECISION NOT NULL,
	residual_variance DOUBLE PRECISION NOT NULL,
	duration_ms BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS experiment_games (
	run_id UUID NOT NULL REFERENCES experiment_runs(id) ON DELETE CASCADE,
	game_index INTEGER NOT NULL,
	home_team INTEGER NOT NULL,
	away_team INTEGER NOT NULL,
	expected_home DOUBLE PRECISION NOT NULL,
	expected_away DOUBLE PRECISION NOT NULL,
	home_score DOUBLE PRECISION NOT NULL,
	away_score DOUBLE PRECISION NOT NULL,
	PRIMARY KEY (run_id, game_index)
);

CREATE TABLE IF NOT EXISTS team_estimates (
	run_id UUID NOT NULL REFERENCES experiment_runs(id) ON DELETE CASCADE,
	team INTEGER NOT NULL,
	true_off DOUBLE PRECISION NOT NULL,
	true_def DOUBLE PRECISION NOT NULL,
	est_off DOUBLE PRECISION NOT NULL,
	est_def DOUBLE PRECISION NOT NULL,
	off_std DOUBLE PRECISION NOT NULL,
	def_std DOUBLE PRECISION NOT NULL,
	off_ci_lower DOUBLE PRECISION NOT NULL,
	off_ci_upper DOUBLE PRECISION NOT NULL,
	def_ci_lower DOUBLE PRECISION NOT NULL,
	def_ci_upper DOUBLE PRECISION NOT NULL,
	PRIMARY KEY (run_id, team)
);
`
