package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sethah/ratingsim/internal/service"
	"github.com/sethah/ratingsim/internal/store"
)

var fitCmd = &cobra.Command{
	Use:   "fit",
	Short: "Simulate games and recover the ratings by regression",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		repo, cleanup, err := openRepository(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		runner := service.NewRunner(appLogger, repo, time.Duration(cfg.Sweep.CacheTTLSeconds)*time.Second)
		result, err := runner.Run(ctx, experimentParams())
		if err != nil {
			return err
		}

		printSummary(result)
		return nil
	},
}

func experimentParams() service.ExperimentParams {
	sim := cfg.Simulation
	return service.ExperimentParams{
		NumTeams:      sim.NumTeams,
		NumGames:      sim.NumGames,
		Seed:          sim.Seed,
		Intercept:     sim.Intercept,
		HomeAdvantage: sim.HomeAdvantage,
		NoiseStd:      sim.NoiseStd,
	}
}

// openRepository connects to the configured database, or returns a nil
// repository when persistence is disabled.
func openRepository(ctx context.Context) (*store.RunRepository, func(), error) {
	if !cfg.Database.Enabled {
		return nil, func() {}, nil
	}

	db, err := store.NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}
	return store.NewRunRepository(db), db.Close, nil
}

func printSummary(result *service.ExperimentResult) {
	s := result.Summary

	fmt.Printf("\nRun %s (%d teams, %d games, seed %d)\n",
		result.RunID, result.Params.NumTeams, result.Params.NumGames, result.Params.Seed)
	fmt.Printf("Residual variance: %.4f (true noise variance %.4f)\n",
		result.Fit.ResidualVariance(), result.Params.NoiseStd*result.Params.NoiseStd)

	fmt.Println("\nOffensive ratings:")
	fmt.Printf("  %-6s %10s %10s %10s %22s\n", "Team", "True", "Estimate", "Std", "95% CI")
	for i := range s.Coefs.Off {
		fmt.Printf("  %-6d %10.3f %10.3f %10.3f [%8.3f, %8.3f]\n",
			i, result.TrueOff[i], s.Coefs.Off[i], s.Stds.Off[i], s.CI.Off[i].Lower, s.CI.Off[i].Upper)
	}

	fmt.Println("\nDefensive ratings:")
	fmt.Printf("  %-6s %10s %10s %10s %22s\n", "Team", "True", "Estimate", "Std", "95% CI")
	for i := range s.Coefs.Def {
		fmt.Printf("  %-6d %10.3f %10.3f %10.3f [%8.3f, %8.3f]\n",
			i, result.TrueDef[i], s.Coefs.Def[i], s.Stds.Def[i], s.CI.Def[i].Lower, s.CI.Def[i].Upper)
	}

	fmt.Println("\nGlobal terms:")
	fmt.Printf("  %-10s %10s %10s %10s %22s\n", "Term", "True", "Estimate", "Std", "95% CI")
	fmt.Printf("  %-10s %10.3f %10.3f %10.3f [%8.3f, %8.3f]\n",
		"home", result.Params.HomeAdvantage, s.Coefs.Home, s.Stds.Home, s.CI.Home.Lower, s.CI.Home.Upper)
	fmt.Printf("  %-10s %10.3f %10.3f %10.3f [%8.3f, %8.3f]\n",
		"intercept", result.Params.Intercept, s.Coefs.Intercept, s.Stds.Intercept, s.CI.Intercept.Lower, s.CI.Intercept.Upper)
}
