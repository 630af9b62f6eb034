package worker_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aerohealth/aerohealth/internal/cache"
	"github.com/aerohealth/aerohealth/internal/worker"
)

type countingClearer struct {
	calls atomic.Int32
}

func (c *countingClearer) ClearExpired() int {
	c.calls.Add(1)
	return 2
}

func TestSweeper_SweepsOnTick(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2025, time.August, 1, 0, 0, 0, 0, time.UTC))
	target := &countingClearer{}

	s := worker.NewSweeper(worker.SweeperConfig{
		Target:   target,
		Interval: time.Minute,
		Clock:    clock,
		Logger:   zerolog.Nop(),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s.Start(ctx)
	defer s.Stop()

	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	assert.Equal(t, int32(0), target.calls.Load(), "no sweep before the first tick")

	clock.Advance(time.Minute)
	assert.Eventually(t, func() bool { return s.GetMetrics().TotalSweeps == 1 }, time.Second, 5*time.Millisecond)

	clock.Advance(time.Minute)
	assert.Eventually(t, func() bool { return s.GetMetrics().TotalSweeps == 2 }, time.Second, 5*time.Millisecond)

	m := s.GetMetrics()
	assert.Equal(t, int64(4), m.TotalRemoved)
	assert.Equal(t, 2, m.LastRemoved)
}

func TestSweeper_StopIsIdempotent(t *testing.T) {
	s := worker.NewSweeper(worker.SweeperConfig{
		Target: &countingClearer{},
		Clock:  clockwork.NewFakeClock(),
		Logger: zerolog.Nop(),
	})

	s.Start(context.Background())
	s.Start(context.Background())
	s.Stop()
	s.Stop()
}

func TestSweeper_StopsWithContext(t *testing.T) {
	clock := clockwork.NewFakeClock()
	target := &countingClearer{}

	s := worker.NewSweeper(worker.SweeperConfig{Target: target, Interval: time.Second, Clock: clock, Logger: zerolog.Nop()})

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)
	cancel()
	s.Stop()

	clock.Advance(10 * time.Second)
	assert.Equal(t, int32(0), target.calls.Load())
}

func TestSweeper_SweepOnceClearsCache(t *testing.T) {
	clock := clockwork.NewFakeClock()
	c := cache.New(cache.Config{Clock: clock})
	c.Set("a", 1, time.Minute)
	c.Set("b", 2, time.Hour)

	s := worker.NewSweeper(worker.SweeperConfig{Target: c, Clock: clock, Logger: zerolog.Nop()})

	clock.Advance(2 * time.Minute)
	assert.Equal(t, 1, s.SweepOnce())
	assert.Equal(t, []string{"b"}, c.Stats().Keys)

	m := s.GetMetrics()
	assert.Equal(t, int64(1), m.TotalSweeps)
	assert.Equal(t, int64(1), m.TotalRemoved)
	assert.Equal(t, clock.Now(), m.LastSweepAt)
}
