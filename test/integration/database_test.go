//go:build integration

package integration

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sethah/ratingsim/internal/ratings"
	"github.com/sethah/ratingsim/internal/store"
	"github.com/sethah/ratingsim/test/helpers"
)

// TestRunRepositoryIntegration exercises the run repository against a real
// PostgreSQL instance.
func TestRunRepositoryIntegration(t *testing.T) {
	helpers.SkipIfShort(t)

	db := helpers.SetupTestDB(t)
	defer helpers.TeardownTestDB(t, db)

	repo := store.NewRunRepository(db)
	ctx := helpers.CreateTestContext(t, 30*time.Second)

	run := &store.ExperimentRun{
		ID:               uuid.New(),
		NumTeams:         4,
		NumGames:         2,
		Seed:             7,
		Intercept:        25.0,
		HomeAdvantage:    1.5,
		NoiseStd:         5.0,
		ResidualVariance: 24.1,
		Duration:         42 * time.Millisecond,
	}

	t.Run("CreateAndGetRun", func(t *testing.T) {
		require.NoError(t, repo.CreateRun(ctx, run))

		got, err := repo.GetRun(ctx, run.ID)
		require.NoError(t, err)
		assert.Equal(t, run.ID, got.ID)
		assert.Equal(t, run.NumTeams, got.NumTeams)
		assert.Equal(t, run.Seed, got.Seed)
		assert.Equal(t, run.Duration, got.Duration)
		assert.False(t, got.CreatedAt.IsZero())
	})

	t.Run("SaveAndCountGames", func(t *testing.T) {
		games := &ratings.GamesTable{
			HomeTeam:  []int{0, 2},
			AwayTeam:  []int{1, 3},
			HomeOff:   []float64{1, 2},
			HomeDef:   []float64{0, 0},
			AwayOff:   []float64{-1, -2},
			AwayDef:   []float64{0, 0},
			ExpHome:   []float64{27.5, 28.5},
			ExpAway:   []float64{22.5, 21.5},
			HomeScore: []float64{30, 24},
			AwayScore: []float64{20, 27},
		}
		require.NoError(t, repo.SaveGames(ctx, run.ID, games))

		var count int
		err := db.GetPool().QueryRow(ctx,
			"SELECT COUNT(*) FROM experiment_games WHERE run_id = $1", run.ID).Scan(&count)
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})

	t.Run("SaveAndGetEstimates", func(t *testing.T) {
		estimates := []store.TeamEstimate{
			{
				RunID: run.ID, Team: 0,
				TrueOff: 1.2, TrueDef: -0.4, EstOff: 1.1, EstDef: -0.3,
				OffStd: 0.2, DefStd: 0.25,
				OffCI: ratings.Interval{Lower: 0.7, Upper: 1.5},
				DefCI: ratings.Interval{Lower: -0.8, Upper: 0.2},
			},
			{
				RunID: run.ID, Team: 1,
				TrueOff: -1.2, TrueDef: 0.4, EstOff: -1.0, EstDef: 0.5,
				OffStd: 0.2, DefStd: 0.25,
				OffCI: ratings.Interval{Lower: -1.4, Upper: -0.6},
				DefCI: ratings.Interval{Lower: 0.0, Upper: 1.0},
			},
		}
		require.NoError(t, repo.SaveEstimates(ctx, estimates))

		got, err := repo.GetEstimates(ctx, run.ID)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, 0, got[0].Team)
		assert.Equal(t, 1, got[1].Team)
		assert.InDelta(t, 1.1, got[0].EstOff, 1e-9)
		assert.InDelta(t, 0.7, got[0].OffCI.Lower, 1e-9)
	})

	t.Run("ListRecentRuns", func(t *testing.T) {
		runs, err := repo.ListRecentRuns(ctx, 10)
		require.NoError(t, err)
		require.NotEmpty(t, runs)
		assert.Equal(t, run.ID, runs[0].ID)
	})

	t.Run("GetMissingRun", func(t *testing.T) {
		_, err := repo.GetRun(ctx, uuid.New())
		assert.ErrorIs(t, err, store.ErrNotFound)
	})
}
