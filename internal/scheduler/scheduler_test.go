package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	for _, spec := range []string{"0 0 18 * * 1-5", "*/30 * * * * *", "@daily", "@every 1h"} {
		_, err := Parse(spec)
		assert.NoError(t, err, spec)
	}
	for _, spec := range []string{"", "0 18 * * 1-5", "not a cron"} {
		_, err := Parse(spec)
		assert.Error(t, err, spec)
	}
}

func TestNext(t *testing.T) {
	s, err := NewScheduler("0 0 18 * * 1-5", zerolog.Nop())
	require.NoError(t, err)

	// Friday evening after the run moves to Monday.
	fri := time.Date(2025, 4, 11, 19, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 4, 14, 18, 0, 0, 0, time.UTC), s.Next(fri))

	// Same day before the run.
	mon := time.Date(2025, 4, 14, 9, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 4, 14, 18, 0, 0, 0, time.UTC), s.Next(mon))
}

// fakeClock advances by the requested sleep and cancels after a number of sleeps.
type fakeClock struct {
	now    time.Time
	slept  []time.Duration
	limit  int
	cancel context.CancelFunc
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if len(c.slept) == c.limit {
		c.cancel()
		return ctx.Err()
	}
	c.slept = append(c.slept, d)
	c.now = c.now.Add(d)
	return nil
}

func TestRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s, err := NewScheduler("0 */15 * * * *", zerolog.Nop())
	require.NoError(t, err)
	clock := &fakeClock{now: time.Date(2025, 4, 14, 10, 5, 0, 0, time.UTC), limit: 3, cancel: cancel}
	s.now = clock.Now
	s.sleep = clock.Sleep

	var runs []time.Time
	task := func(context.Context) error {
		runs = append(runs, clock.now)
		if len(runs) == 2 {
			return errors.New("rate limited")
		}
		return nil
	}

	require.NoError(t, s.Run(ctx, task, true))
	assert.Equal(t, []time.Duration{10 * time.Minute, 15 * time.Minute, 15 * time.Minute}, clock.slept)
	assert.Equal(t, []time.Time{
		time.Date(2025, 4, 14, 10, 5, 0, 0, time.UTC),
		time.Date(2025, 4, 14, 10, 15, 0, 0, time.UTC),
		time.Date(2025, 4, 14, 10, 30, 0, 0, time.UTC),
		time.Date(2025, 4, 14, 10, 45, 0, 0, time.UTC),
	}, runs)
}

func TestRun_CancelledBeforeFirstFire(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s, err := NewScheduler("@every 1h", zerolog.Nop())
	require.NoError(t, err)

	called := false
	require.NoError(t, s.Run(ctx, func(context.Context) error { called = true; return nil }, false))
	assert.False(t, called)
}
