package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/sethah/ratingsim/internal/ratings"
)

// ExperimentRun is the persisted record of one simulate-and-fit cycle.
type ExperimentRun struct {
	ID               uuid.UUID
	CreatedAt        time.Time
	NumTeams         int
	NumGames         int
	Seed             int64
	Intercept        float64
	HomeAdvantage    float64
	NoiseStd         float64
	ResidualVariance float64
	Duration         time.Duration
}

// TeamEstimate is one team's true and fitted ratings with uncertainty.
type TeamEstimate struct {
	RunID   uuid.UUID
	Team    int
	TrueOff float64
	TrueDef float64
	EstOff  float64
	EstDef  float64
	OffStd  float64
	DefStd  float64
	OffCI   ratings.Interval
	DefCI   ratings.Interval
}

// ErrNotFound is returned when a requested run does not exist.
var ErrNotFound = fmt.Errorf("store: not found")

// RunRepository persists experiment runs, their games, and team estimates.
type RunRepository struct {
	db *DB
}

// NewRunRepository creates a run repository.
func NewRunRepository(db *DB) *RunRepository {
	return &RunRepository{db: db}
}

// CreateRun inserts a run record.
func (r *RunRepository) CreateRun(ctx context.Context, run *ExperimentRun) error {
	query := `
		INSERT INTO experiment_runs
			(id, num_teams, num_games, seed, intercept, home_advantage, noise_std, residual_variance, duration_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		run.ID, run.NumTeams, run.NumGames, run.Seed, run.Intercept,
		run.HomeAdvantage, run.NoiseStd, run.ResidualVariance, run.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}

	return nil
}

// SaveGames batch-inserts the simulated games for a run.
func (r *RunRepository) SaveGames(ctx context.Context, runID uuid.UUID, games *ratings.GamesTable) error {
	batch := &pgx.Batch{}
	query := `
		INSERT INTO experiment_games
			(run_id, game_index, home_team, away_team, expected_home, expected_away, home_score, away_score)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	for i := 0; i < games.Len(); i++ {
		batch.Queue(query,
			runID, i, games.HomeTeam[i], games.AwayTeam[i],
			games.ExpHome[i], games.ExpAway[i], games.HomeScore[i], games.AwayScore[i],
		)
	}

	results := r.db.GetPool().SendBatch(ctx, batch)
	defer results.Close()
	for i := 0; i < games.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to save game %d: %w", i, err)
		}
	}

	return nil
}

// SaveEstimates batch-inserts per-team estimates for a run.
func (r *RunRepository) SaveEstimates(ctx context.Context, estimates []TeamEstimate) error {
	batch := &pgx.Batch{}
	query := `
		INSERT INTO team_estimates
			(run_id, team, true_off, true_def, est_off, est_def, off_std, def_std,
			 off_ci_lower, off_ci_upper, def_ci_lower, def_ci_upper)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	for _, e := range estimates {
		batch.Queue(query,
			e.RunID, e.Team, e.TrueOff, e.TrueDef, e.EstOff, e.EstDef,
			e.OffStd, e.DefStd, e.OffCI.Lower, e.OffCI.Upper, e.DefCI.Lower, e.DefCI.Upper,
		)
	}

	results := r.db.GetPool().SendBatch(ctx, batch)
	defer results.Close()
	for range estimates {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to save estimate: %w", err)
		}
	}

	return nil
}

// GetRun retrieves a run by ID.
func (r *RunRepository) GetRun(ctx context.Context, id uuid.UUID) (*ExperimentRun, error) {
	query := `
		SELECT id, created_at, num_teams, num_games, seed, intercept, home_advantage,
		       noise_std, residual_variance, duration_ms
		FROM experiment_runs WHERE id = $1
	`

	run := &ExperimentRun{}
	var durationMs int64
	err := r.db.GetPool().QueryRow(ctx, query, id).Scan(
		&run.ID, &run.CreatedAt, &run.NumTeams, &run.NumGames, &run.Seed,
		&run.Intercept, &run.HomeAdvantage, &run.NoiseStd, &run.ResidualVariance, &durationMs,
	)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	run.Duration = time.Duration(durationMs) * time.Millisecond

	return run, nil
}

// GetEstimates retrieves the per-team estimates for a run, ordered by team.
func (r *RunRepository) GetEstimates(ctx context.Context, runID uuid.UUID) ([]TeamEstimate, error) {
	query := `
		SELECT run_id, team, true_off, true_def, est_off, est_def, off_std, def_std,
		       off_ci_lower, off_ci_upper, def_ci_lower, def_ci_upper
		FROM team_estimates WHERE run_id = $1
		ORDER BY team ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query estimates: %w", err)
	}
	defer rows.Close()

	var estimates []TeamEstimate
	for rows.Next() {
		var e TeamEstimate
		err := rows.Scan(
			&e.RunID, &e.Team, &e.TrueOff, &e.TrueDef, &e.EstOff, &e.EstDef,
			&e.OffStd, &e.DefStd, &e.OffCI.Lower, &e.OffCI.Upper, &e.DefCI.Lower, &e.DefCI.Upper,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan estimate: %w", err)
		}
		estimates = append(estimates, e)
	}

	return estimates, rows.Err()
}

// ListRecentRuns retrieves the most recent runs, newest first.
func (r *RunRepository) ListRecentRuns(ctx context.Context, limit int) ([]*ExperimentRun, error) {
	query := `
		SELECT id, created_at, num_teams, num_games, seed, intercept, home_advantage,
		       noise_std, residual_variance, duration_ms
		FROM experiment_runs
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.db.GetPool().Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent runs: %w", err)
	}
	defer rows.Close()

	var runs []*ExperimentRun
	for rows.Next() {
		run := &ExperimentRun{}
		var durationMs int64
		err := rows.Scan(
			&run.ID, &run.CreatedAt, &run.NumTeams, &run.NumGames, &run.Seed,
			&run.Intercept, &run.HomeAdvantage, &run.NoiseStd, &run.ResidualVariance, &durationMs,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		run.Duration = time.Duration(durationMs) * time.Millisecond
		runs = append(runs, run)
	}

	return runs, rows.Err()
}
