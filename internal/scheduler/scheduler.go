// Package scheduler wires the pipeline jobs onto cron triggers. Schedules
// fire with default parameters; explicitly parameterized runs go through
// the HTTP trigger API or the runjob binary instead.
package scheduler

import (
	"context"
	"errors"
	"time"

	"agriprice/internal/config"
	"agriprice/internal/ingest"
	"agriprice/internal/jobs"
	"agriprice/internal/store"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type Scheduler struct {
	cron   *cron.Cron
	runner *jobs.Runner
	cfg    *config.Config
	logger *zap.Logger
}

func New(runner *jobs.Runner, cfg *config.Config, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(cron.WithSeconds(), cron.WithChain(cron.Recover(cron.DefaultLogger))),
		runner: runner,
		cfg:    cfg,
		logger: logger,
	}
}

// Start registers all job schedules and starts the cron loop.
func (s *Scheduler) Start(ctx context.Context) error {
	entries := []struct {
		name    string
		spec    string
		timeout time.Duration
		run     func(context.Context, ingest.Options) error
	}{
		{jobs.JobDaily, s.cfg.DailyCronSpec, 30 * time.Minute, s.runner.RunDaily},
		{jobs.JobWeekly, s.cfg.WeeklyCronSpec, 10 * time.Minute, s.runner.RunWeekly},
		{jobs.JobMonthly, s.cfg.MonthlyCronSpec, 10 * time.Minute, s.runner.RunMonthly},
		{jobs.JobYearly, s.cfg.YearlyCronSpec, 10 * time.Minute, s.runner.RunYearly},
	}

	for _, entry := range entries {
		entry := entry
		_, err := s.cron.AddFunc(entry.spec, func() {
			// Keep each run bounded.
			rctx, cancel := context.WithTimeout(ctx, entry.timeout)
			defer cancel()

			err := entry.run(rctx, ingest.Options{})
			switch {
			case errors.Is(err, store.ErrRunInProgress):
				s.logger.Warn("skipping trigger, run already live",
					zap.String("jobType", entry.name))
			case err != nil:
				s.logger.Error("scheduled run failed",
					zap.String("jobType", entry.name),
					zap.Error(err))
			}
		})
		if err != nil {
			return err
		}
		s.logger.Info("job scheduled",
			zap.String("jobType", entry.name),
			zap.String("spec", entry.spec))
	}

	s.cron.Start()
	return nil
}

// Stop halts the cron loop and waits for in-flight runs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
