package ratings

import (
	"math"
	"testing"
)

func TestSimulateGamesExpectedScoreIdentity(t *testing.T) {
	const intercept = 25.0
	off, def, err := GenerateRatings(6, 3)
	if err != nil {
		t.Fatalf("GenerateRatings failed: %v", err)
	}
	matchups, err := GenerateMatchups(200, 6, 3)
	if err != nil {
		t.Fatalf("GenerateMatchups failed: %v", err)
	}
	games, err := SimulateGames(off, def, matchups, intercept, 2.0, 5.0, 3)
	if err != nil {
		t.Fatalf("SimulateGames failed: %v", err)
	}

	// Home-field terms cancel in the sum of the two expected scores.
	for i := 0; i < games.Len(); i++ {
		lhs := games.ExpHome[i] + games.ExpAway[i]
		rhs := games.HomeOff[i] + games.AwayOff[i] + 2*intercept
		if math.Abs(lhs-rhs) > 1e-12 {
			t.Fatalf("row %d: E[Home]+E[Away]=%v, want %v", i, lhs, rhs)
		}
	}
}

func TestSimulateGamesSkillColumnsMatchTeams(t *testing.T) {
	off, def, _ := GenerateRatings(4, 9)
	matchups, _ := GenerateMatchups(50, 4, 9)
	games, err := SimulateGames(off, def, matchups, 10, 1, 2, 9)
	if err != nil {
		t.Fatalf("SimulateGames failed: %v", err)
	}

	for i := 0; i < games.Len(); i++ {
		h, a := games.HomeTeam[i], games.AwayTeam[i]
		if games.HomeOff[i] != off[h] || games.HomeDef[i] != def[h] {
			t.Fatalf("row %d: home skill columns do not match team %d", i, h)
		}
		if games.AwayOff[i] != off[a] || games.AwayDef[i] != def[a] {
			t.Fatalf("row %d: away skill columns do not match team %d", i, a)
		}
	}
}

func TestSimulateGamesNoiseFreeEndToEnd(t *testing.T) {
	off, def, err := GenerateRatings(4, 7)
	if err != nil {
		t.Fatalf("GenerateRatings failed: %v", err)
	}
	matchups, err := GenerateMatchups(10, 4, 7)
	if err != nil {
		t.Fatalf("GenerateMatchups failed: %v", err)
	}
	games, err := SimulateGames(off, def, matchups, 0, 1, 0, 7)
	if err != nil {
		t.Fatalf("SimulateGames failed: %v", err)
	}

	if games.Len() != 10 {
		t.Fatalf("expected 10 games, got %d", games.Len())
	}
	for i := 0; i < games.Len(); i++ {
		if games.HomeScore[i] != games.ExpHome[i] {
			t.Fatalf("row %d: noise-free home score %v != expected %v", i, games.HomeScore[i], games.ExpHome[i])
		}
		if games.AwayScore[i] != games.ExpAway[i] {
			t.Fatalf("row %d: noise-free away score %v != expected %v", i, games.AwayScore[i], games.ExpAway[i])
		}
	}
}

func TestSimulateGamesHomeAdvantageShiftsScores(t *testing.T) {
	off := []float64{0, 0}
	def := []float64{0, 0}
	matchups := []Matchup{{Home: 0, Away: 1}}

	games, err := SimulateGames(off, def, matchups, 20, 3, 0, 1)
	if err != nil {
		t.Fatalf("SimulateGames failed: %v", err)
	}
	if games.ExpHome[0] != 23 || games.ExpAway[0] != 17 {
		t.Fatalf("expected scores (23, 17), got (%v, %v)", games.ExpHome[0], games.ExpAway[0])
	}
}

func TestSimulateGamesValidation(t *testing.T) {
	off := []float64{0, 0}
	def := []float64{0, 0}

	if _, err := SimulateGames(off, def[:1], nil, 0, 0, 0, 1); err == nil {
		t.Fatal("expected error for mismatched vector lengths")
	}
	if _, err := SimulateGames(off, def, []Matchup{{Home: 0, Away: 2}}, 0, 0, 0, 1); err == nil {
		t.Fatal("expected error for out-of-range team index")
	}
	if _, err := SimulateGames(off, def, []Matchup{{Home: 1, Away: 1}}, 0, 0, 0, 1); err == nil {
		t.Fatal("expected error for a team playing itself")
	}
	if _, err := SimulateGames(off, def, []Matchup{{Home: 0, Away: 1}}, 0, 0, -1, 1); err == nil {
		t.Fatal("expected error for negative noise std")
	}
}
