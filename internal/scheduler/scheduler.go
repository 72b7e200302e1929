// Package scheduler drives periodic feed runs.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/couchcryptid/avalanche-geofeed/internal/runner"
)

// Scheduler runs the feed on a fixed interval. The first run starts
// immediately; each run is bounded by the interval so a stuck run cannot
// overlap the next one.
type Scheduler struct {
	scheduler *gocron.Scheduler
	feed      *runner.Runner
	interval  time.Duration
	logger    *slog.Logger
}

func New(feed *runner.Runner, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		feed:      feed,
		interval:  interval,
		logger:    logger,
	}
}

// Start schedules the feed job and begins running it in the background.
func (s *Scheduler) Start() error {
	_, err := s.scheduler.Every(s.interval).StartImmediately().Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.interval)
		defer cancel()

		if err := s.feed.RunOnce(ctx); err != nil {
			s.logger.Error("scheduled feed run failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	s.logger.Info("scheduler started", "interval", s.interval.String())
	return nil
}

// Stop halts the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
	s.logger.Info("scheduler stopped")
}
