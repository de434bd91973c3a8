package analysis

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// FormatReport renders a replication result as a human-readable text report.
func FormatReport(result *ReplicationResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Replication Study (%d replications)\n", result.Replications)
	fmt.Fprintf(&b, "===================================\n\n")

	fmt.Fprintf(&b, "Offensive ratings:  bias %+.4f  rmse %.4f  95%% CI coverage %.1f%%\n",
		result.OffBias, result.OffRMSE, result.OffCoverage*100)
	fmt.Fprintf(&b, "Defensive ratings:  bias %+.4f  rmse %.4f  95%% CI coverage %.1f%%\n",
		result.DefBias, result.DefRMSE, result.DefCoverage*100)
	fmt.Fprintf(&b, "Home advantage:     bias %+.4f  std  %.4f\n", result.HomeBias, result.HomeStd)
	fmt.Fprintf(&b, "Intercept:          bias %+.4f  std  %.4f\n", result.InterceptBias, result.InterceptStd)
	fmt.Fprintf(&b, "Residual variance:  mean %.4f\n\n", result.MeanResidualVariance)

	fmt.Fprintf(&b, "Offensive error percentiles:\n")
	keys := make([]string, 0, len(result.OffErrorPercentiles))
	for k := range result.OffErrorPercentiles {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return percentileLevel(keys[i]) < percentileLevel(keys[j])
	})
	for _, k := range keys {
		fmt.Fprintf(&b, "  %-4s %+.4f\n", k, result.OffErrorPercentiles[k])
	}

	return b.String()
}

// percentileLevel parses the numeric level out of a "p<level>" key so the
// report lists percentiles in ascending order, not lexical order.
func percentileLevel(key string) float64 {
	v, _ := strconv.ParseFloat(strings.TrimPrefix(key, "p"), 64)
	return v
}

// ExportJSON serializes a replication result for downstream tooling.
func ExportJSON(result *ReplicationResult) (string, error) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("analysis: failed to marshal result: %w", err)
	}
	return string(data), nil
}
