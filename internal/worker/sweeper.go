package worker

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
)

// DefaultSweepInterval is how often expired cache entries are removed.
const DefaultSweepInterval = 5 * time.Minute

// ExpiredClearer is implemented by stores that can drop expired entries.
type ExpiredClearer interface {
	ClearExpired() int
}

// SweeperConfig holds configuration for a Sweeper.
type SweeperConfig struct {
	// Target is the store to sweep.
	Target ExpiredClearer

	// Interval between sweeps (default: 5 minutes).
	Interval time.Duration

	// Clock drives the ticker (default: real clock).
	Clock clockwork.Clock

	Logger zerolog.Logger
}

// SweepMetrics tracks sweeper statistics.
type SweepMetrics struct {
	TotalSweeps  int64
	TotalRemoved int64
	LastSweepAt  time.Time
	LastRemoved  int
}

// Sweeper periodically clears expired entries from a store. It is owned by
// the caller: Start launches it and Stop cancels it and waits for exit.
type Sweeper struct {
	target   ExpiredClearer
	interval time.Duration
	clock    clockwork.Clock
	logger   zerolog.Logger

	mu      sync.RWMutex
	metrics SweepMetrics
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewSweeper creates a sweeper. It does nothing until Start is called.
func NewSweeper(cfg SweeperConfig) *Sweeper {
	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultSweepInterval
	}

	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	return &Sweeper{
		target:   cfg.Target,
		interval: interval,
		clock:    clock,
		logger:   cfg.Logger,
	}
}

// Start launches the sweep loop. It runs until ctx is cancelled or Stop is
// called. Calling Start on a running sweeper is a no-op.
func (s *Sweeper) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})

	ticker := s.clock.NewTicker(s.interval)
	go s.loop(ctx, ticker, s.done)

	s.logger.Info().Dur("interval", s.interval).Msg("cache sweeper started")
}

// Stop cancels the sweep loop and blocks until it has exited.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done

	s.logger.Info().Msg("cache sweeper stopped")
}

func (s *Sweeper) loop(ctx context.Context, ticker clockwork.Ticker, done chan struct{}) {
	defer close(done)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			s.SweepOnce()
		}
	}
}

// SweepOnce runs a single sweep and returns the number of removed entries.
func (s *Sweeper) SweepOnce() int {
	removed := s.target.ClearExpired()

	s.mu.Lock()
	s.metrics.TotalSweeps++
	s.metrics.TotalRemoved += int64(removed)
	s.metrics.LastSweepAt = s.clock.Now()
	s.metrics.LastRemoved = removed
	s.mu.Unlock()

	if removed > 0 {
		s.logger.Debug().Int("removed", removed).Msg("swept expired cache entries")
	}
	return removed
}

// GetMetrics returns a copy of the current metrics.
func (s *Sweeper) GetMetrics() SweepMetrics {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.metrics
}
