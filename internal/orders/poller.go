// Package orders keeps an eventually-consistent, poll-driven view of the
// backend's order set and issues status transitions against it. There is no
// server-pushed invalidation upstream, so staleness up to one polling
// interval is expected and accepted.
package orders

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/projectbar/barweb/internal/models"
)

// FetchFunc retrieves the full order set for the poller's scope.
type FetchFunc func(ctx context.Context) ([]models.Order, error)

// Poller re-runs a fetch on a fixed wall-clock interval for as long as it is
// started, replacing the consumer's state wholesale through the apply
// callback. There is no backoff and no circuit breaking: a failed fetch is
// reported and the next tick simply retries.
type Poller struct {
	fetch    FetchFunc
	apply    func([]models.Order)
	onError  func(error)
	interval time.Duration

	mu      sync.Mutex
	cancel  context.CancelFunc
	running bool
	gen     int
}

// NewPoller builds a poller. apply receives every successful snapshot;
// onError may be nil, in which case failures are only logged.
func NewPoller(interval time.Duration, fetch FetchFunc, apply func([]models.Order)) *Poller {
	return &Poller{
		fetch:    fetch,
		apply:    apply,
		interval: interval,
	}
}

// OnError installs a failure callback. Must be called before Start.
func (p *Poller) OnError(fn func(error)) {
	p.onError = fn
}

// Start begins polling: one immediate fetch, then one per interval until the
// context is cancelled or Stop is called. Starting an already running poller
// is a no-op.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return
	}
	ctx, p.cancel = context.WithCancel(ctx)
	p.running = true
	p.gen++
	gen := p.gen

	go p.loop(ctx, gen)
}

func (p *Poller) loop(ctx context.Context, gen int) {
	p.fetchOnce(ctx, gen)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.fetchOnce(ctx, gen)
		}
	}
}

// Stop cancels the timer. A fetch already in flight is not aborted, but its
// result is discarded: applying snapshots to a torn-down view is exactly the
// bug the generation check exists to prevent.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.running {
		return
	}
	p.cancel()
	p.running = false
	p.gen++
}

// Running reports whether the poller is currently started.
func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// Refresh performs the same fetch immediately, independent of the timer. The
// timer is neither reset nor debounced. Refresh on a stopped poller is a
// no-op.
func (p *Poller) Refresh(ctx context.Context) {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	gen := p.gen
	p.mu.Unlock()

	p.fetchOnce(ctx, gen)
}

func (p *Poller) fetchOnce(ctx context.Context, gen int) {
	orders, err := p.fetch(ctx)

	p.mu.Lock()
	stale := !p.running || gen != p.gen
	p.mu.Unlock()
	if stale {
		return
	}

	if err != nil {
		slog.Warn("Order poll failed", "error", err)
		if p.onError != nil {
			p.onError(err)
		}
		return
	}
	p.apply(orders)
}
