// Package main provides the ratingsim CLI: simulate synthetic team ratings
// and games, fit the ratings regression, and run scheduled sweeps.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sethah/ratingsim/internal/config"
	"github.com/sethah/ratingsim/internal/logger"
)

var (
	configFile string
	appLogger  *logrus.Logger
	cfg        *config.Config
)

var (
	flagTeams     int
	flagGames     int
	flagSeed      int64
	flagIntercept float64
	flagHomeAdv   float64
	flagNoiseStd  float64
)

var rootCmd = &cobra.Command{
	Use:   "ratingsim",
	Short: "Simulate team ratings and recover them by regression",
	Long: `ratingsim generates synthetic offensive/defensive team ratings, simulates
games under a linear scoring model with home-field advantage and Gaussian
noise, then fits a constrained-dummy regression to recover the ratings with
standard errors and confidence intervals.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(cmd); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		appLogger = logger.New(cfg.App.LogLevel, cfg.App.Environment)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.PersistentFlags().IntVar(&flagTeams, "teams", 0, "Override number of teams")
	rootCmd.PersistentFlags().IntVar(&flagGames, "games", 0, "Override number of games")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "Override random seed")
	rootCmd.PersistentFlags().Float64Var(&flagIntercept, "intercept", 0, "Override scoring intercept")
	rootCmd.PersistentFlags().Float64Var(&flagHomeAdv, "home-advantage", 0, "Override home-field advantage")
	rootCmd.PersistentFlags().Float64Var(&flagNoiseStd, "noise-std", 0, "Override score noise standard deviation")

	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(fitCmd)
	rootCmd.AddCommand(studyCmd)
	rootCmd.AddCommand(sweepCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func loadConfig(cmd *cobra.Command) error {
	loaded, err := config.LoadWithDefaults(configFile)
	if err != nil {
		return err
	}
	cfg = loaded

	applyFlagOverrides(cmd)

	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			return fmt.Errorf("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(context.Background(), cfg, region, secretName); err != nil {
			return fmt.Errorf("failed to load secrets: %w", err)
		}
	}

	return config.Validate(cfg)
}

func applyFlagOverrides(cmd *cobra.Command) {
	if cmd.Flags().Changed("teams") {
		cfg.Simulation.NumTeams = flagTeams
	}
	if cmd.Flags().Changed("games") {
		cfg.Simulation.NumGames = flagGames
	}
	if cmd.Flags().Changed("seed") {
		cfg.Simulation.Seed = flagSeed
	}
	if cmd.Flags().Changed("intercept") {
		cfg.Simulation.Intercept = flagIntercept
	}
	if cmd.Flags().Changed("home-advantage") {
		cfg.Simulation.HomeAdvantage = flagHomeAdv
	}
	if cmd.Flags().Changed("noise-std") {
		cfg.Simulation.NoiseStd = flagNoiseStd
	}
}
