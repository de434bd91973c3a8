package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sethah/ratingsim/internal/health"
	"github.com/sethah/ratingsim/internal/metrics"
	"github.com/sethah/ratingsim/internal/scheduler"
	"github.com/sethah/ratingsim/internal/service"
	"github.com/sethah/ratingsim/internal/store"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run scheduled experiment sweeps across a range of seeds",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		metrics.InitRegistry()

		repo, cleanup, err := openRepository(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		runner := service.NewRunner(appLogger, repo, time.Duration(cfg.Sweep.CacheTTLSeconds)*time.Second)
		sched := scheduler.NewScheduler(runner, appLogger)
		if err := sched.ScheduleSweep(cfg.Sweep.Schedule, experimentParams(), cfg.Sweep.Seeds); err != nil {
			return err
		}

		var pinger health.DatabasePinger
		if repo != nil {
			pinger = repoPinger{repo: repo}
		}
		var healthServer *health.Server
		if cfg.Metrics.Enabled {
			healthServer = health.NewServer(health.Config{
				ServiceName: cfg.App.Name,
				Port:        cfg.Metrics.Port,
				MetricsPath: cfg.Metrics.Path,
				Logger:      appLogger,
				DB:          pinger,
			})
			if err := healthServer.Start(ctx); err != nil {
				return err
			}
		}

		if err := sched.Start(); err != nil {
			return err
		}
		if healthServer != nil {
			healthServer.SetReady(true)
		}
		appLogger.WithField("next_run", sched.GetNextRun()).Info("Sweep mode running")

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		appLogger.Info("Shutting down")
		if healthServer != nil {
			healthServer.SetReady(false)
		}
		return sched.Stop()
	},
}

type repoPinger struct {
	repo *store.RunRepository
}

func (p repoPinger) Ping(ctx context.Context) error {
	_, err := p.repo.ListRecentRuns(ctx, 1)
	return err
}
