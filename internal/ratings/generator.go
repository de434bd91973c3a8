// Package ratings implements the simulation and estimation core: synthetic
// team skill generation, game simulation under a linear scoring model, the
// regression-ready reshaping of simulated seasons, and extraction of
// interpretable per-team coefficients from a fitted model.
package ratings

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

// ratingSpread is the standard deviation of raw skill draws before centering.
const ratingSpread = 3.0

// GenerateRatings produces mean-centered offensive and defensive skill
// vectors for numTeams teams, drawn from N(0, ratingSpread). Each call builds
// its own random source from the seed, so results are reproducible regardless
// of what other generators have run.
func GenerateRatings(numTeams int, seed int64) (off, def []float64, err error) {
	if numTeams < 1 {
		return nil, nil, fmt.Errorf("ratings: numTeams must be at least 1, got %d", numTeams)
	}

	rng := rand.New(rand.NewSource(seed))
	off = drawCentered(rng, numTeams)
	def = drawCentered(rng, numTeams)
	return off, def, nil
}

func drawCentered(rng *rand.Rand, n int) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = rng.NormFloat64() * ratingSpread
	}
	floats.AddConst(-floats.Sum(v)/float64(n), v)
	return v
}

// Matchup pairs a home team with a distinct away team, both indices in [0, k).
type Matchup struct {
	Home int
	Away int
}

// GenerateMatchups draws n matchups uniformly over k teams, the two sides of
// each matchup chosen without replacement. Deterministic per seed.
func GenerateMatchups(n, k int, seed int64) ([]Matchup, error) {
	if n < 0 {
		return nil, fmt.Errorf("ratings: matchup count must be non-negative, got %d", n)
	}
	if k < 2 {
		return nil, fmt.Errorf("ratings: need at least 2 teams to form a matchup, got %d", k)
	}

	rng := rand.New(rand.NewSource(seed))
	matchups := make([]Matchup, n)
	for i := range matchups {
		home := rng.Intn(k)
		// Draw the away side from the remaining k-1 teams.
		away := rng.Intn(k - 1)
		if away >= home {
			away++
		}
		matchups[i] = Matchup{Home: home, Away: away}
	}
	return matchups, nil
}
