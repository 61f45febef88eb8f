package orders

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/projectbar/barweb/internal/models"
)

// Backend is the slice of the API client the board needs.
type Backend interface {
	AllOrders(ctx context.Context) ([]models.Order, error)
	ChangeOrderStatus(ctx context.Context, orderID int, status models.OrderStatus) (models.Order, error)
}

// SnapshotStore persists a last-known-good order snapshot across restarts so
// staff screens can show stale data instead of nothing while the backend is
// unreachable.
type SnapshotStore interface {
	SaveSnapshot(orders []models.Order) error
	LoadSnapshot() ([]models.Order, error)
}

// Board ties the polling projection to the backend for the staff screens:
// one shared snapshot refreshed every interval, plus status transitions.
//
// Demo mode changes failure handling only. With demo off (the default), a
// failed status change surfaces as an error. With demo on, the failure is
// converted into a local-only patch of the projection and the result is
// labeled as such — the one thing this must never do is mask a real failure
// as an unqualified success.
type Board struct {
	backend  Backend
	store    SnapshotStore
	proj     *Projection
	poller   *Poller
	demo     bool
	interval time.Duration
}

// NewBoard builds a board polling at the given interval. store may be nil
// when no local cache is configured.
func NewBoard(backend Backend, store SnapshotStore, interval time.Duration, demo bool) *Board {
	b := &Board{
		backend:  backend,
		store:    store,
		proj:     NewProjection(),
		demo:     demo,
		interval: interval,
	}
	b.poller = NewPoller(interval, backend.AllOrders, b.applySnapshot)
	b.poller.OnError(b.handleFetchError)
	return b
}

// Projection exposes the board's read side.
func (b *Board) Projection() *Projection { return b.proj }

// DemoMode reports whether degraded-mode fallbacks are enabled.
func (b *Board) DemoMode() bool { return b.demo }

// Start seeds the projection from the snapshot store, then begins polling.
func (b *Board) Start(ctx context.Context) {
	if b.store != nil && !b.proj.Loaded() {
		if cached, err := b.store.LoadSnapshot(); err != nil {
			slog.Warn("Could not load cached order snapshot", "error", err)
		} else if len(cached) > 0 {
			b.proj.Replace(cached)
			slog.Info("Seeded order board from cached snapshot", "orders", len(cached))
		}
	}
	b.poller.Start(ctx)
}

// Stop cancels the polling loop.
func (b *Board) Stop() {
	b.poller.Stop()
}

// Refresh fetches immediately, outside the timer. Handlers call this after a
// successful status change and for the manual refresh button.
func (b *Board) Refresh(ctx context.Context) {
	b.poller.Refresh(ctx)
}

func (b *Board) applySnapshot(orders []models.Order) {
	b.proj.Replace(orders)
	if b.store != nil {
		if err := b.store.SaveSnapshot(orders); err != nil {
			slog.Warn("Could not persist order snapshot", "error", err)
		}
	}
}

// handleFetchError keeps whatever the projection already holds. Only in demo
// mode, and only when nothing has ever loaded, does the bundled sample set
// stand in so the screens have something to show.
func (b *Board) handleFetchError(err error) {
	if b.demo && !b.proj.Loaded() {
		slog.Warn("Backend unreachable, loading demo orders", "error", err)
		b.proj.Replace(SampleOrders())
	}
}

// ErrDemoApplied reports that a status change failed upstream and was applied
// to the local projection only. It is an error value so callers cannot
// mistake it for a clean success, but handlers in demo mode may choose to
// present it as a labeled demo outcome instead of a failure.
var ErrDemoApplied = errors.New("status applied locally in demo mode")

// ChangeStatus asks the backend to move an order to the target status. The
// transition's legality is the backend's call entirely.
//
// On success the full set is re-fetched rather than patched, so the UI may
// briefly show the old status until the refresh lands. On failure with demo
// mode enabled the projection is patched locally and ErrDemoApplied comes
// back; otherwise the failure is returned as-is.
func (b *Board) ChangeStatus(ctx context.Context, orderID int, status models.OrderStatus) error {
	_, err := b.backend.ChangeOrderStatus(ctx, orderID, status)
	if err == nil {
		b.Refresh(ctx)
		return nil
	}

	if b.demo {
		slog.Warn("Status change failed, patching locally (demo mode)",
			"order", orderID, "status", status, "error", err)
		b.proj.Patch(orderID, status)
		return ErrDemoApplied
	}
	return err
}
