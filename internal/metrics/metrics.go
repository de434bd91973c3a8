// Package metrics provides the centralized Prometheus metrics registry for
// the simulation tool.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	ExperimentRunsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "ratingsim",
		Name:      "experiment_runs_total",
		Help:      "Total number of experiments run",
	})
	ExperimentFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "ratingsim",
		Name:      "experiment_failures_total",
		Help:      "Total number of experiments that failed",
	})
	GamesSimulatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "ratingsim",
		Name:      "games_simulated_total",
		Help:      "Total number of games simulated",
	})
	SweepRunsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "ratingsim",
		Name:      "sweep_runs_total",
		Help:      "Total number of scheduled sweep invocations",
	})
)

// Gauge metrics
var (
	SummaryCacheHitRatio = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "ratingsim",
		Name:      "summary_cache_hit_ratio",
		Help:      "Hit ratio of the coefficient summary cache",
	})
	LastFitResidualVariance = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "ratingsim",
		Name:      "last_fit_residual_variance",
		Help:      "Residual variance of the most recent fit",
	})
)

// Histogram metrics
var (
	ExperimentDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "ratingsim",
		Name:      "experiment_duration_seconds",
		Help:      "End-to-end duration of experiment runs in seconds",
		Buckets:   prometheus.DefBuckets,
	})
	FitDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "ratingsim",
		Name:      "fit_duration_seconds",
		Help:      "Duration of the regression fit in seconds",
		Buckets:   prometheus.DefBuckets,
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(ExperimentRunsTotal)
		registry.MustRegister(ExperimentFailuresTotal)
		registry.MustRegister(GamesSimulatedTotal)
		registry.MustRegister(SweepRunsTotal)

		registry.MustRegister(SummaryCacheHitRatio)
		registry.MustRegister(LastFitResidualVariance)

		registry.MustRegister(ExperimentDuration)
		registry.MustRegister(FitDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordExperiment records a completed experiment run.
func RecordExperiment(durationSeconds float64, games int) {
	ExperimentRunsTotal.Inc()
	ExperimentDuration.Observe(durationSeconds)
	GamesSimulatedTotal.Add(float64(games))
}

// RecordExperimentFailure records a failed experiment run.
func RecordExperimentFailure() {
	ExperimentFailuresTotal.Inc()
}

// RecordFit records a regression fit.
func RecordFit(durationSeconds, residualVariance float64) {
	FitDuration.Observe(durationSeconds)
	LastFitResidualVariance.Set(residualVariance)
}

// RecordSweep records a scheduled sweep invocation.
func RecordSweep() {
	SweepRunsTotal.Inc()
}

// UpdateCacheHitRatio updates the summary cache hit ratio gauge.
func UpdateCacheHitRatio(ratio float64) {
	SummaryCacheHitRatio.Set(ratio)
}
