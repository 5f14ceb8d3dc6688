package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Task is one analysis run.
type Task func(ctx context.Context) error

// specParser accepts six-field expressions with a leading seconds field,
// plus descriptors such as @daily and @every 1h.
var specParser = cron.NewParser(
	cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// Scheduler re-runs a task on a cron schedule in the calling goroutine.
// A run never overlaps the next one: fire times missed while a run is in
// progress are skipped.
type Scheduler struct {
	Spec     string
	schedule cron.Schedule
	log      zerolog.Logger
	now      func() time.Time
	sleep    func(ctx context.Context, d time.Duration) error
}

// NewScheduler parses spec and creates a Scheduler.
func NewScheduler(spec string, log zerolog.Logger) (*Scheduler, error) {
	sched, err := Parse(spec)
	if err != nil {
		return nil, err
	}
	return &Scheduler{
		Spec:     spec,
		schedule: sched,
		log:      log.With().Str("component", "scheduler").Logger(),
		now:      time.Now,
		sleep:    sleepContext,
	}, nil
}

// Parse validates a cron expression.
func Parse(spec string) (cron.Schedule, error) {
	sched, err := specParser.Parse(spec)
	if err != nil {
		return nil, fmt.Errorf("parse schedule %q: %w", spec, err)
	}
	return sched, nil
}

// Next returns the first fire time strictly after t.
func (s *Scheduler) Next(t time.Time) time.Time {
	return s.schedule.Next(t)
}

// Run executes task at every fire time until ctx is cancelled. With
// runOnStart the task also runs once immediately. Task failures are logged
// and the loop keeps going.
func (s *Scheduler) Run(ctx context.Context, task Task, runOnStart bool) error {
	s.log.Info().Str("spec", s.Spec).Msg("scheduler started")
	defer s.log.Info().Msg("scheduler stopped")

	if runOnStart {
		s.runOnce(ctx, task)
	}
	for {
		next := s.Next(s.now())
		if next.IsZero() {
			return fmt.Errorf("schedule %q never fires", s.Spec)
		}
		s.log.Info().Time("next", next).Msg("waiting for next run")
		if err := s.sleep(ctx, next.Sub(s.now())); err != nil {
			return nil
		}
		s.runOnce(ctx, task)
	}
}

func (s *Scheduler) runOnce(ctx context.Context, task Task) {
	if ctx.Err() != nil {
		return
	}
	start := s.now()
	if err := task(ctx); err != nil {
		s.log.Error().Err(err).Msg("scheduled run failed")
		return
	}
	s.log.Info().Dur("took", s.now().Sub(start)).Msg("scheduled run finished")
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d < 0 {
		d = 0
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
