package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sethah/ratingsim/internal/ratings"
)

var simulatePreview int

func init() {
	simulateCmd.Flags().IntVar(&simulatePreview, "preview", 10, "Number of games to print")
}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Generate ratings and simulate a slate of games",
	RunE: func(cmd *cobra.Command, args []string) error {
		sim := cfg.Simulation
		ratingSeed, matchupSeed, noiseSeed := experimentParams().StageSeeds()

		off, def, err := ratings.GenerateRatings(sim.NumTeams, ratingSeed)
		if err != nil {
			return err
		}
		matchups, err := ratings.GenerateMatchups(sim.NumGames, sim.NumTeams, matchupSeed)
		if err != nil {
			return err
		}
		games, err := ratings.SimulateGames(off, def, matchups, sim.Intercept, sim.HomeAdvantage, sim.NoiseStd, noiseSeed)
		if err != nil {
			return err
		}

		appLogger.WithField("games", games.Len()).Info("Simulation completed")

		fmt.Println("\nTrue ratings:")
		fmt.Printf("  %-6s %10s %10s\n", "Team", "Offense", "Defense")
		for i := 0; i < sim.NumTeams; i++ {
			fmt.Printf("  %-6d %10.3f %10.3f\n", i, off[i], def[i])
		}

		limit := simulatePreview
		if limit > games.Len() {
			limit = games.Len()
		}
		fmt.Printf("\nFirst %d games:\n", limit)
		fmt.Printf("  %-6s %-6s %10s %10s %10s %10s\n", "Home", "Away", "E[Home]", "E[Away]", "Home", "Away")
		for i := 0; i < limit; i++ {
			fmt.Printf("  %-6d %-6d %10.2f %10.2f %10.2f %10.2f\n",
				games.HomeTeam[i], games.AwayTeam[i],
				games.ExpHome[i], games.ExpAway[i],
				games.HomeScore[i], games.AwayScore[i])
		}

		return nil
	},
}
