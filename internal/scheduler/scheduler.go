// Package scheduler drives the coordinator's refresh cycles on fixed
// intervals.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"
)

// Refresher is the coordinator surface the scheduler drives.
type Refresher interface {
	RefreshWeather(ctx context.Context) error
	RefreshLightning(ctx context.Context) error
	ObserveSnapshotAge()
}

// Scheduler runs the weather and lightning refresh jobs periodically.
type Scheduler struct {
	scheduler *gocron.Scheduler
	refresher Refresher
	logger    *slog.Logger

	weatherInterval   time.Duration
	lightningInterval time.Duration
	lightningEnabled  bool
	jobTimeout        time.Duration
}

// Options configures the Scheduler.
type Options struct {
	WeatherInterval   time.Duration
	LightningInterval time.Duration
	LightningEnabled  bool

	// JobTimeout bounds a single refresh cycle. Defaults to one minute.
	JobTimeout time.Duration
}

// New creates a Scheduler. Jobs are not started until Start is called.
func New(refresher Refresher, logger *slog.Logger, opts Options) *Scheduler {
	if opts.JobTimeout <= 0 {
		opts.JobTimeout = time.Minute
	}
	return &Scheduler{
		scheduler:         gocron.NewScheduler(time.UTC),
		refresher:         refresher,
		logger:            logger,
		weatherInterval:   opts.WeatherInterval,
		lightningInterval: opts.LightningInterval,
		lightningEnabled:  opts.LightningEnabled,
		jobTimeout:        opts.JobTimeout,
	}
}

// Start registers the jobs and begins running them asynchronously. The
// weather job also runs immediately so the bridge serves data right after
// boot instead of waiting a full interval.
func (s *Scheduler) Start() error {
	_, err := s.scheduler.Every(s.weatherInterval).StartImmediately().Do(func() {
		s.runJob("weather", s.refresher.RefreshWeather)
		s.refresher.ObserveSnapshotAge()
	})
	if err != nil {
		return err
	}

	if s.lightningEnabled {
		_, err = s.scheduler.Every(s.lightningInterval).Do(func() {
			s.runJob("lightning", s.refresher.RefreshLightning)
		})
		if err != nil {
			return err
		}
	}

	s.scheduler.StartAsync()
	s.logger.Info("scheduler started",
		"weather_interval", s.weatherInterval,
		"lightning_interval", s.lightningInterval,
		"lightning_enabled", s.lightningEnabled)
	return nil
}

func (s *Scheduler) runJob(name string, job func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
	defer cancel()

	if err := job(ctx); err != nil {
		s.logger.Warn("refresh job failed", "job", name, "error", err)
	}
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
