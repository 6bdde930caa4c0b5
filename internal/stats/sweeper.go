package stats

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/rileyhilliard/mavinspect/internal/logger"
)

// DefaultSweepInterval is how often idle estimates are recomputed.
const DefaultSweepInterval = 500 * time.Millisecond

// Sweepable is anything holding frequency estimates that can be refreshed.
type Sweepable interface {
	Sweep(now time.Time)
}

// Sweeper periodically refreshes a Sweepable independent of message arrival,
// which is what lets frequencies decay once a source goes quiet.
type Sweeper struct {
	target   Sweepable
	clock    clock.Clock
	interval time.Duration
	log      logger.Logger
}

// NewSweeper creates a sweeper. A nil clock uses the wall clock.
func NewSweeper(target Sweepable, clk clock.Clock, interval time.Duration) *Sweeper {
	if clk == nil {
		clk = clock.New()
	}
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	return &Sweeper{
		target:   target,
		clock:    clk,
		interval: interval,
		log:      logger.Noop(),
	}
}

// SetLogger sets the logger used for debug output.
func (s *Sweeper) SetLogger(l logger.Logger) {
	s.log = l
}

// Run sweeps on every tick until ctx is cancelled. It always returns nil.
func (s *Sweeper) Run(ctx context.Context) error {
	ticker := s.clock.Ticker(s.interval)
	defer ticker.Stop()

	s.log.Debug("sweeping every %s", s.interval)
	for {
		select {
		case <-ctx.Done():
			s.log.Debug("sweeper stopped")
			return nil
		case now := <-ticker.C:
			s.target.Sweep(now)
		}
	}
}
