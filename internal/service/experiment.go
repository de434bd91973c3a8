// Package service orchestrates ratings experiments: generate a synthetic
// league, simulate a slate of games, fit the ratings regression, and extract
// the interpretable coefficient summary.
package service

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/sethah/ratingsim/internal/metrics"
	"github.com/sethah/ratingsim/internal/ratings"
	"github.com/sethah/ratingsim/internal/regress"
	"github.com/sethah/ratingsim/internal/store"
)

// ExperimentParams fully determines an experiment; equal params yield equal
// results, which is what makes the summary cache sound.
type ExperimentParams struct {
	NumTeams      int     `json:"num_teams"`
	NumGames      int     `json:"num_games"`
	Seed          int64   `json:"seed"`
	Intercept     float64 `json:"intercept"`
	HomeAdvantage float64 `json:"home_advantage"`
	NoiseStd      float64 `json:"noise_std"`
}

// StageSeeds derives one seed per random stage of the pipeline. The stages
// need disjoint streams: seeding every stage with the experiment seed directly
// would make the game noise replay the skill draws.
func (p ExperimentParams) StageSeeds() (ratingSeed, matchupSeed, noiseSeed int64) {
	return p.Seed * 3, p.Seed*3 + 1, p.Seed*3 + 2
}

// ExperimentResult is the outcome of one simulate-and-fit cycle.
type ExperimentResult struct {
	RunID    uuid.UUID
	Params   ExperimentParams
	TrueOff  []float64
	TrueDef  []float64
	Games    *ratings.GamesTable
	Fit      *regress.FitResult
	Summary  *ratings.CoefficientSummary
	Duration time.Duration
}

// Runner runs experiments, caches their summaries, and optionally persists
// them. A nil repository disables persistence.
type Runner struct {
	logger *logrus.Logger
	cache  *SummaryCache
	repo   *store.RunRepository
}

// NewRunner creates an experiment runner.
func NewRunner(logger *logrus.Logger, repo *store.RunRepository, cacheTTL time.Duration) *Runner {
	return &Runner{
		logger: logger,
		cache:  NewSummaryCache(cacheTTL),
		repo:   repo,
	}
}

// Run executes one experiment. The coefficient summary is served from cache
// when the same parameters have been run before; games and the fit are
// re-derived either way since they are cheap and deterministic.
func (r *Runner) Run(ctx context.Context, params ExperimentParams) (*ExperimentResult, error) {
	start := time.Now()

	result, err := r.run(ctx, params)
	if err != nil {
		metrics.RecordExperimentFailure()
		return nil, err
	}

	result.Duration = time.Since(start)
	metrics.RecordExperiment(result.Duration.Seconds(), result.Games.Len())

	r.logger.WithFields(logrus.Fields{
		"run_id":    result.RunID,
		"num_teams": params.NumTeams,
		"num_games": params.NumGames,
		"seed":      params.Seed,
		"duration":  result.Duration,
	}).Info("Experiment completed")

	if r.repo != nil {
		if err := r.persist(ctx, result); err != nil {
			return nil, fmt.Errorf("experiment succeeded but persistence failed: %w", err)
		}
	}

	return result, nil
}

func (r *Runner) run(ctx context.Context, params ExperimentParams) (*ExperimentResult, error) {
	ratingSeed, matchupSeed, noiseSeed := params.StageSeeds()

	off, def, err := ratings.GenerateRatings(params.NumTeams, ratingSeed)
	if err != nil {
		return nil, err
	}
	matchups, err := ratings.GenerateMatchups(params.NumGames, params.NumTeams, matchupSeed)
	if err != nil {
		return nil, err
	}
	games, err := ratings.SimulateGames(off, def, matchups, params.Intercept, params.HomeAdvantage, params.NoiseStd, noiseSeed)
	if err != nil {
		return nil, err
	}

	fitStart := time.Now()
	fit, err := regress.Fit(ratings.Reshape(games), params.NumTeams)
	if err != nil {
		return nil, err
	}
	metrics.RecordFit(time.Since(fitStart).Seconds(), fit.ResidualVariance())

	key := HashParams(params)
	summary := r.cache.Get(key)
	if summary == nil {
		summary, err = ratings.ExtractCoefficients(fit, params.NumTeams)
		if err != nil {
			return nil, err
		}
		r.cache.Set(key, summary)
	}

	return &ExperimentResult{
		RunID:   uuid.New(),
		Params:  params,
		TrueOff: off,
		TrueDef: def,
		Games:   games,
		Fit:     fit,
		Summary: summary,
	}, nil
}

func (r *Runner) persist(ctx context.Context, result *ExperimentResult) error {
	run := &store.ExperimentRun{
		ID:               result.RunID,
		NumTeams:         result.Params.NumTeams,
		NumGames:         result.Params.NumGames,
		Seed:             result.Params.Seed,
		Intercept:        result.Params.Intercept,
		HomeAdvantage:    result.Params.HomeAdvantage,
		NoiseStd:         result.Params.NoiseStd,
		ResidualVariance: result.Fit.ResidualVariance(),
		Duration:         result.Duration,
	}
	if err := r.repo.CreateRun(ctx, run); err != nil {
		return err
	}
	if err := r.repo.SaveGames(ctx, result.RunID, result.Games); err != nil {
		return err
	}
	return r.repo.SaveEstimates(ctx, teamEstimates(result))
}

func teamEstimates(result *ExperimentResult) []store.TeamEstimate {
	estimates := make([]store.TeamEstimate, result.Params.NumTeams)
	s := result.Summary
	for team := range estimates {
		estimates[team] = store.TeamEstimate{
			RunID:   result.RunID,
			Team:    team,
			TrueOff: result.TrueOff[team],
			TrueDef: result.TrueDef[team],
			EstOff:  s.Coefs.Off[team],
			EstDef:  s.Coefs.Def[team],
			OffStd:  s.Stds.Off[team],
			DefStd:  s.Stds.Def[team],
			OffCI:   s.CI.Off[team],
			DefCI:   s.CI.Def[team],
		}
	}
	return estimates
}

// CacheStats reports summary cache hits, misses, and hit ratio.
func (r *Runner) CacheStats() (hits, misses uint64, ratio float64) {
	return r.cache.Stats()
}

// HashParams creates a stable cache key for experiment parameters.
func HashParams(params ExperimentParams) string {
	data, _ := json.Marshal(params)
	return fmt.Sprintf("%x", sha256.Sum256(data))
}
