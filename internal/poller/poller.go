package poller

// poller.go runs a fetch-and-render cycle on a fixed cadence. It is
// the polling stand-in for push updates: notifications and open
// conversations each get one poller, and stopping it is the only
// cancellation the page lifecycle needs.

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// TickFunc is one poll cycle. Errors are logged and swallowed; the
// cadence never changes because of a failed tick.
type TickFunc func(ctx context.Context) error

// Poller owns at most one timer. Start on a running poller restarts
// it, so duplicate intervals for the same resource cannot pile up.
type Poller struct {
	name     string
	interval time.Duration
	logger   zerolog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func New(name string, interval time.Duration, logger zerolog.Logger) *Poller {
	return &Poller{
		name:     name,
		interval: interval,
		logger:   logger.With().Str("poller", name).Logger(),
	}
}

// Start begins ticking every interval. The first tick fires one full
// interval after Start, not immediately. Any previous timer for this
// poller is stopped first.
func (p *Poller) Start(ctx context.Context, tick TickFunc) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopLocked()

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	p.cancel = cancel
	p.done = done

	go p.loop(runCtx, done, tick)
}

// Stop cancels the timer and waits for the loop to exit, so no tick
// can fire after Stop returns. Safe to call twice or before Start.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

// Running reports whether a timer is currently active.
func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cancel != nil
}

func (p *Poller) stopLocked() {
	if p.cancel == nil {
		return
	}
	p.cancel()
	<-p.done
	p.cancel = nil
	p.done = nil
}

func (p *Poller) loop(ctx context.Context, done chan struct{}, tick TickFunc) {
	defer close(done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := tick(ctx); err != nil {
				if ctx.Err() != nil {
					return
				}
				p.logger.Warn().Err(err).Msg("poll tick failed")
			}
		}
	}
}
