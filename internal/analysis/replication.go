// Package analysis runs replication studies: the simulate-and-fit cycle is
// repeated across many seeds at fixed parameters to measure how well the
// regression recovers the true ratings.
package analysis

import (
	"context"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/sethah/ratingsim/internal/ratings"
	"github.com/sethah/ratingsim/internal/regress"
	"github.com/sethah/ratingsim/internal/service"
)

// ReplicationConfig configures a replication study.
type ReplicationConfig struct {
	Params       service.ExperimentParams
	Replications int
}

// ReplicationResult summarizes estimator behavior over the replications.
type ReplicationResult struct {
	Replications int `json:"replications"`

	// Pooled per-team estimation errors, estimate minus truth.
	OffErrors []float64 `json:"-"`
	DefErrors []float64 `json:"-"`

	OffRMSE float64 `json:"off_rmse"`
	DefRMSE float64 `json:"def_rmse"`
	OffBias float64 `json:"off_bias"`
	DefBias float64 `json:"def_bias"`

	HomeBias      float64 `json:"home_bias"`
	HomeStd       float64 `json:"home_std"`
	InterceptBias float64 `json:"intercept_bias"`
	InterceptStd  float64 `json:"intercept_std"`

	// Fraction of per-team 95% intervals that contained the true rating.
	OffCoverage float64 `json:"off_coverage"`
	DefCoverage float64 `json:"def_coverage"`

	MeanResidualVariance float64 `json:"mean_residual_variance"`

	// Percentiles of the pooled offensive error distribution.
	OffErrorPercentiles map[string]float64 `json:"off_error_percentiles"`
}

// RunReplicationStudy repeats the experiment with seeds
// cfg.Params.Seed .. cfg.Params.Seed+Replications-1 and pools the results.
func RunReplicationStudy(ctx context.Context, cfg ReplicationConfig) (*ReplicationResult, error) {
	if cfg.Replications <= 0 {
		cfg.Replications = 100
	}

	result := &ReplicationResult{Replications: cfg.Replications}
	var homeErrors, interceptErrors, residVars []float64
	offCovered, defCovered := 0, 0

	for rep := 0; rep < cfg.Replications; rep++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		params := cfg.Params
		params.Seed = cfg.Params.Seed + int64(rep)

		truthOff, truthDef, summary, residVar, err := runOnce(params)
		if err != nil {
			return nil, fmt.Errorf("replication %d: %w", rep, err)
		}

		for team := 0; team < params.NumTeams; team++ {
			result.OffErrors = append(result.OffErrors, summary.Coefs.Off[team]-truthOff[team])
			result.DefErrors = append(result.DefErrors, summary.Coefs.Def[team]-truthDef[team])
			if contains(summary.CI.Off[team], truthOff[team]) {
				offCovered++
			}
			if contains(summary.CI.Def[team], truthDef[team]) {
				defCovered++
			}
		}
		homeErrors = append(homeErrors, summary.Coefs.Home-params.HomeAdvantage)
		interceptErrors = append(interceptErrors, summary.Coefs.Intercept-params.Intercept)
		residVars = append(residVars, residVar)
	}

	result.OffBias, result.OffRMSE = biasRMSE(result.OffErrors)
	result.DefBias, result.DefRMSE = biasRMSE(result.DefErrors)
	result.HomeBias, result.HomeStd = stat.MeanStdDev(homeErrors, nil)
	result.InterceptBias, result.InterceptStd = stat.MeanStdDev(interceptErrors, nil)
	result.MeanResidualVariance = stat.Mean(residVars, nil)

	totalTeams := float64(cfg.Replications * cfg.Params.NumTeams)
	result.OffCoverage = float64(offCovered) / totalTeams
	result.DefCoverage = float64(defCovered) / totalTeams

	result.OffErrorPercentiles = errorPercentiles(result.OffErrors, []float64{0.05, 0.25, 0.5, 0.75, 0.95})

	return result, nil
}

func runOnce(params service.ExperimentParams) (off, def []float64, summary *ratings.CoefficientSummary, residVar float64, err error) {
	ratingSeed, matchupSeed, noiseSeed := params.StageSeeds()

	off, def, err = ratings.GenerateRatings(params.NumTeams, ratingSeed)
	if err != nil {
		return nil, nil, nil, 0, err
	}
	matchups, err := ratings.GenerateMatchups(params.NumGames, params.NumTeams, matchupSeed)
	if err != nil {
		return nil, nil, nil, 0, err
	}
	games, err := ratings.SimulateGames(off, def, matchups, params.Intercept, params.HomeAdvantage, params.NoiseStd, noiseSeed)
	if err != nil {
		return nil, nil, nil, 0, err
	}
	fit, err := regress.Fit(ratings.Reshape(games), params.NumTeams)
	if err != nil {
		return nil, nil, nil, 0, err
	}
	summary, err = ratings.ExtractCoefficients(fit, params.NumTeams)
	if err != nil {
		return nil, nil, nil, 0, err
	}
	return off, def, summary, fit.ResidualVariance(), nil
}

func contains(ci ratings.Interval, value float64) bool {
	return value >= ci.Lower && value <= ci.Upper
}

func biasRMSE(errors []float64) (bias, rmse float64) {
	if len(errors) == 0 {
		return 0, 0
	}
	sumSq := 0.0
	for _, e := range errors {
		bias += e
		sumSq += e * e
	}
	n := float64(len(errors))
	bias /= n
	rmse = math.Sqrt(sumSq / n)
	return bias, rmse
}

func errorPercentiles(errors []float64, levels []float64) map[string]float64 {
	sorted := append([]float64{}, errors...)
	sort.Float64s(sorted)

	results := make(map[string]float64, len(levels))
	for _, level := range levels {
		results[fmt.Sprintf("p%.0f", level*100)] = stat.Quantile(level, stat.Empirical, sorted, nil)
	}
	return results
}
