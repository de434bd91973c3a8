package ratings

// FeatureTable is the games table unpivoted to one observation per team
// appearance: two rows per game, the home side first, with a signed home
// indicator. Row order is load-bearing: downstream residuals are aligned to
// regression rows by position.
type FeatureTable struct {
	OffTeam []int
	DefTeam []int
	Home    []float64 // +1 for the home side, -1 for the away side
	Score   []float64
}

// Len returns the number of observations.
func (f *FeatureTable) Len() int {
	return len(f.OffTeam)
}

// Reshape expands each game into two scoring observations. Row 2i is game i
// seen from the home side (indicator +1), row 2i+1 from the away side
// (indicator -1); scores are carried over from the games table unchanged.
func Reshape(g *GamesTable) *FeatureTable {
	n := g.Len()
	f := &FeatureTable{
		OffTeam: make([]int, 2*n),
		DefTeam: make([]int, 2*n),
		Home:    make([]float64, 2*n),
		Score:   make([]float64, 2*n),
	}

	for i := 0; i < n; i++ {
		f.OffTeam[2*i] = g.HomeTeam[i]
		f.DefTeam[2*i] = g.AwayTeam[i]
		f.Home[2*i] = 1
		f.Score[2*i] = g.HomeScore[i]

		f.OffTeam[2*i+1] = g.AwayTeam[i]
		f.DefTeam[2*i+1] = g.HomeTeam[i]
		f.Home[2*i+1] = -1
		f.Score[2*i+1] = g.AwayScore[i]
	}

	return f
}
