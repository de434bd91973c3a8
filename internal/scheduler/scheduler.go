// Package scheduler drives periodic experiment sweeps in long-running mode.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/sethah/ratingsim/internal/metrics"
	"github.com/sethah/ratingsim/internal/service"
)

// Scheduler manages scheduled experiment sweeps.
type Scheduler struct {
	cron      *cron.Cron
	runner    *service.Runner
	logger    *logrus.Logger
	mu        sync.RWMutex
	isRunning bool
	jobIDs    []cron.EntryID
}

// NewScheduler creates a new scheduler.
func NewScheduler(runner *service.Runner, logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(cron.WithLocation(time.UTC)),
		runner: runner,
		logger: logger,
		jobIDs: make([]cron.EntryID, 0),
	}
}

// ScheduleSweep schedules a recurring sweep: the base experiment re-run under
// seeds base.Seed .. base.Seed+seeds-1. Each sweep gets an hour before its
// context expires, which is generous for any plausible parameterization.
func (s *Scheduler) ScheduleSweep(cronExpression string, base service.ExperimentParams, seeds int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}
	if seeds < 1 {
		return fmt.Errorf("sweep needs at least 1 seed, got %d", seeds)
	}

	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Hour)
		defer cancel()

		metrics.RecordSweep()
		s.logger.WithFields(logrus.Fields{
			"seeds":     seeds,
			"base_seed": base.Seed,
		}).Info("Starting scheduled sweep")

		failures := 0
		for i := 0; i < seeds; i++ {
			params := base
			params.Seed = base.Seed + int64(i)
			if _, err := s.runner.Run(ctx, params); err != nil {
				failures++
				s.logger.WithError(err).WithField("seed", params.Seed).Error("Sweep experiment failed")
			}
		}

		s.logger.WithFields(logrus.Fields{
			"seeds":    seeds,
			"failures": failures,
		}).Info("Scheduled sweep completed")
	}

	entryID, err := s.cron.AddFunc(cronExpression, jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithField("schedule", cronExpression).Info("Scheduled sweep job")

	return nil
}

// Start starts the scheduler.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}
	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("jobs", len(s.jobIDs)).Info("Scheduler started")

	return nil
}

// Stop gracefully stops the scheduler, waiting for a running sweep to finish.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	<-s.cron.Stop().Done()
	s.isRunning = false
	s.logger.Info("Scheduler stopped")

	return nil
}

// IsRunning returns whether the scheduler is currently running.
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRun returns the time of the next scheduled sweep.
func (s *Scheduler) GetNextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning || len(s.jobIDs) == 0 {
		return time.Time{}
	}

	nextRun := time.Time{}
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			if nextRun.IsZero() || entry.Next.Before(nextRun) {
				nextRun = entry.Next
			}
		}
	}

	return nextRun
}
