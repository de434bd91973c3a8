package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sethah/ratingsim/internal/analysis"
)

var (
	flagReplications int
	flagStudyJSON    string
)

var studyCmd = &cobra.Command{
	Use:   "study",
	Short: "Run a replication study of the estimator across many seeds",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		result, err := analysis.RunReplicationStudy(ctx, analysis.ReplicationConfig{
			Params:       experimentParams(),
			Replications: flagReplications,
		})
		if err != nil {
			return err
		}

		fmt.Print(analysis.FormatReport(result))

		if flagStudyJSON != "" {
			out, err := analysis.ExportJSON(result)
			if err != nil {
				return err
			}
			if err := os.WriteFile(flagStudyJSON, []byte(out), 0o644); err != nil {
				return fmt.Errorf("failed to write study output: %w", err)
			}
			appLogger.WithField("path", flagStudyJSON).Info("Study results written")
		}

		return nil
	},
}

func init() {
	studyCmd.Flags().IntVar(&flagReplications, "replications", 100, "Number of replications to run")
	studyCmd.Flags().StringVar(&flagStudyJSON, "json-out", "", "Write the study result as JSON to this file")
}
