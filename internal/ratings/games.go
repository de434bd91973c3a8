package ratings

import (
	"fmt"
	"math/rand"
)

// GamesTable holds one simulated slate of games in column form, one entry per
// game in every column. Column form keeps the simulation a handful of whole-
// column operations instead of per-game branching.
type GamesTable struct {
	HomeTeam []int
	AwayTeam []int

	HomeOff []float64
	HomeDef []float64
	AwayOff []float64
	AwayDef []float64

	// Expected scores under the linear model, before noise.
	ExpHome []float64
	ExpAway []float64

	// Realized scores: expected plus independent Gaussian noise.
	HomeScore []float64
	AwayScore []float64
}

// Len returns the number of games in the table.
func (g *GamesTable) Len() int {
	return len(g.HomeTeam)
}

// SimulateGames scores every matchup under the linear model
//
//	E[home] = off[home] + def[away] + intercept + homeAdv
//	E[away] = off[away] + def[home] + intercept - homeAdv
//
// and realizes each side's score by adding N(0, noiseStd) noise. A noiseStd
// of zero yields exactly the expected scores. Deterministic per seed.
func SimulateGames(off, def []float64, matchups []Matchup, intercept, homeAdv, noiseStd float64, seed int64) (*GamesTable, error) {
	if len(off) != len(def) {
		return nil, fmt.Errorf("ratings: offense and defense vectors differ in length (%d vs %d)", len(off), len(def))
	}
	if noiseStd < 0 {
		return nil, fmt.Errorf("ratings: noise standard deviation must be non-negative, got %v", noiseStd)
	}
	k := len(off)
	for i, m := range matchups {
		if m.Home < 0 || m.Home >= k || m.Away < 0 || m.Away >= k {
			return nil, fmt.Errorf("ratings: matchup %d references team outside [0, %d): %+v", i, k, m)
		}
		if m.Home == m.Away {
			return nil, fmt.Errorf("ratings: matchup %d pairs team %d with itself", i, m.Home)
		}
	}

	n := len(matchups)
	g := &GamesTable{
		HomeTeam:  make([]int, n),
		AwayTeam:  make([]int, n),
		HomeOff:   make([]float64, n),
		HomeDef:   make([]float64, n),
		AwayOff:   make([]float64, n),
		AwayDef:   make([]float64, n),
		ExpHome:   make([]float64, n),
		ExpAway:   make([]float64, n),
		HomeScore: make([]float64, n),
		AwayScore: make([]float64, n),
	}

	for i, m := range matchups {
		g.HomeTeam[i] = m.Home
		g.AwayTeam[i] = m.Away
		g.HomeOff[i] = off[m.Home]
		g.HomeDef[i] = def[m.Home]
		g.AwayOff[i] = off[m.Away]
		g.AwayDef[i] = def[m.Away]
	}
	for i := 0; i < n; i++ {
		g.ExpHome[i] = g.HomeOff[i] + g.AwayDef[i] + intercept + homeAdv
		g.ExpAway[i] = g.AwayOff[i] + g.HomeDef[i] + intercept - homeAdv
	}

	rng := rand.New(rand.NewSource(seed))
	for i := 0; i < n; i++ {
		g.HomeScore[i] = g.ExpHome[i] + rng.NormFloat64()*noiseStd
		g.AwayScore[i] = g.ExpAway[i] + rng.NormFloat64()*noiseStd
	}

	return g, nil
}
