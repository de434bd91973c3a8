package analysis

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sethah/ratingsim/internal/service"
)

func studyConfig(replications int) ReplicationConfig {
	return ReplicationConfig{
		Params: service.ExperimentParams{
			NumTeams:      4,
			NumGames:      150,
			Seed:          31,
			Intercept:     25.0,
			HomeAdvantage: 1.5,
			NoiseStd:      5.0,
		},
		Replications: replications,
	}
}

func TestRunReplicationStudy(t *testing.T) {
	result, err := RunReplicationStudy(context.Background(), studyConfig(20))
	require.NoError(t, err)

	assert.Equal(t, 20, result.Replications)
	assert.Len(t, result.OffErrors, 20*4)
	assert.Len(t, result.DefErrors, 20*4)

	// With 300 feature rows per replication the estimator is roughly
	// unbiased and its error is small relative to the rating spread.
	assert.InDelta(t, 0, result.OffBias, 0.5)
	assert.InDelta(t, 0, result.DefBias, 0.5)
	assert.Greater(t, result.OffRMSE, 0.0)
	assert.Less(t, result.OffRMSE, 2.0)

	// Residual variance estimates the simulated noise level.
	assert.InDelta(t, 25.0, result.MeanResidualVariance, 6.0)

	// Interval coverage should be in the right neighborhood of 95%.
	assert.Greater(t, result.OffCoverage, 0.8)
	assert.Greater(t, result.DefCoverage, 0.8)
}

func TestRunReplicationStudyNoiseFree(t *testing.T) {
	cfg := studyConfig(5)
	cfg.Params.NoiseStd = 0

	result, err := RunReplicationStudy(context.Background(), cfg)
	require.NoError(t, err)

	assert.InDelta(t, 0, result.OffRMSE, 1e-8)
	assert.InDelta(t, 0, result.DefRMSE, 1e-8)
	assert.InDelta(t, 0, result.HomeBias, 1e-8)
	assert.InDelta(t, 0, result.InterceptBias, 1e-8)
	assert.InDelta(t, 0, result.MeanResidualVariance, 1e-12)
}

func TestRunReplicationStudyCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := RunReplicationStudy(ctx, studyConfig(50))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunReplicationStudyPropagatesErrors(t *testing.T) {
	cfg := studyConfig(3)
	cfg.Params.NumTeams = 1

	_, err := RunReplicationStudy(context.Background(), cfg)
	assert.Error(t, err)
}

func TestFormatReport(t *testing.T) {
	result, err := RunReplicationStudy(context.Background(), studyConfig(5))
	require.NoError(t, err)

	report := FormatReport(result)
	assert.True(t, strings.Contains(report, "Replication Study (5 replications)"))
	assert.True(t, strings.Contains(report, "Offensive ratings"))
	assert.True(t, strings.Contains(report, "p50"))

	// Percentiles print in ascending numeric order.
	p5 := strings.Index(report, "p5 ")
	p25 := strings.Index(report, "p25")
	p95 := strings.Index(report, "p95")
	require.NotEqual(t, -1, p5)
	require.NotEqual(t, -1, p25)
	require.NotEqual(t, -1, p95)
	assert.Less(t, p5, p25)
	assert.Less(t, p25, p95)

	out, err := ExportJSON(result)
	require.NoError(t, err)
	assert.True(t, strings.Contains(out, "\"off_rmse\""))
}
