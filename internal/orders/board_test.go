package orders

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projectbar/barweb/internal/models"
)

// fakeBackend scripts AllOrders and ChangeOrderStatus responses.
type fakeBackend struct {
	mu            sync.Mutex
	orders        []models.Order
	fetchErr      error
	changeErr     error
	fetchCalls    int
	changedID     int
	changedStatus models.OrderStatus
}

func (f *fakeBackend) AllOrders(ctx context.Context) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchCalls++
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	out := make([]models.Order, len(f.orders))
	copy(out, f.orders)
	return out, nil
}

func (f *fakeBackend) ChangeOrderStatus(ctx context.Context, orderID int, status models.OrderStatus) (models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.changeErr != nil {
		return models.Order{}, f.changeErr
	}
	f.changedID = orderID
	f.changedStatus = status
	return models.Order{ID: orderID, Status: status}, nil
}

func (f *fakeBackend) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetchCalls
}

// memStore is an in-memory SnapshotStore.
type memStore struct {
	mu       sync.Mutex
	snapshot []models.Order
	saveErr  error
}

func (m *memStore) SaveSnapshot(orders []models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.snapshot = make([]models.Order, len(orders))
	copy(m.snapshot, orders)
	return nil
}

func (m *memStore) LoadSnapshot() ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot, nil
}

func (m *memStore) size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.snapshot)
}

func TestBoard_PollFillsProjectionAndStore(t *testing.T) {
	backend := &fakeBackend{orders: []models.Order{
		{ID: 1, TableNumber: 2, Status: models.StatusPending, Date: time.Now()},
	}}
	store := &memStore{}

	b := NewBoard(backend, store, time.Hour, false)
	b.Start(context.Background())
	defer b.Stop()

	require.Eventually(t, b.Projection().Loaded, time.Second, 5*time.Millisecond)
	require.Len(t, b.Projection().Orders(), 1)
	require.Eventually(t, func() bool { return store.size() == 1 }, time.Second, 5*time.Millisecond)
}

func TestBoard_StartSeedsFromCachedSnapshot(t *testing.T) {
	backend := &fakeBackend{fetchErr: errors.New("backend down")}
	store := &memStore{snapshot: []models.Order{{ID: 5, Status: models.StatusReady}}}

	b := NewBoard(backend, store, time.Hour, false)
	b.Start(context.Background())
	defer b.Stop()

	orders := b.Projection().Orders()
	require.Len(t, orders, 1)
	assert.Equal(t, 5, orders[0].ID)
}

func TestBoard_DemoFallbackOnlyBeforeFirstLoad(t *testing.T) {
	backend := &fakeBackend{fetchErr: errors.New("backend down")}

	b := NewBoard(backend, nil, time.Hour, true)
	b.Start(context.Background())
	defer b.Stop()

	require.Eventually(t, b.Projection().Loaded, time.Second, 5*time.Millisecond)
	assert.Len(t, b.Projection().Orders(), len(SampleOrders()))
}

func TestBoard_NoDemoFallbackWhenDisabled(t *testing.T) {
	backend := &fakeBackend{fetchErr: errors.New("backend down")}

	b := NewBoard(backend, nil, time.Hour, false)
	b.Start(context.Background())
	defer b.Stop()

	require.Eventually(t, func() bool { return backend.calls() >= 1 }, time.Second, 5*time.Millisecond)
	assert.False(t, b.Projection().Loaded())
	assert.Empty(t, b.Projection().Orders())
}

func TestBoard_ChangeStatusSuccessTriggersRefresh(t *testing.T) {
	backend := &fakeBackend{orders: []models.Order{{ID: 1, Status: models.StatusPending}}}

	b := NewBoard(backend, nil, time.Hour, false)
	b.Start(context.Background())
	defer b.Stop()
	require.Eventually(t, func() bool { return backend.calls() == 1 }, time.Second, 5*time.Millisecond)

	backend.mu.Lock()
	backend.orders[0].Status = models.StatusInProgress
	backend.mu.Unlock()

	err := b.ChangeStatus(context.Background(), 1, models.StatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, 1, backend.changedID)
	assert.Equal(t, models.StatusInProgress, backend.changedStatus)

	// The success path re-fetches instead of patching locally.
	require.Eventually(t, func() bool {
		orders := b.Projection().Orders()
		return len(orders) == 1 && orders[0].Status == models.StatusInProgress
	}, time.Second, 5*time.Millisecond)
	assert.GreaterOrEqual(t, backend.calls(), 2)
}

func TestBoard_ChangeStatusFailureSurfacesError(t *testing.T) {
	changeErr := errors.New("transition rejected")
	backend := &fakeBackend{
		orders:    []models.Order{{ID: 1, Status: models.StatusPending}},
		changeErr: changeErr,
	}

	b := NewBoard(backend, nil, time.Hour, false)
	b.Start(context.Background())
	defer b.Stop()
	require.Eventually(t, b.Projection().Loaded, time.Second, 5*time.Millisecond)

	err := b.ChangeStatus(context.Background(), 1, models.StatusReady)
	require.ErrorIs(t, err, changeErr)

	orders := b.Projection().Orders()
	require.Len(t, orders, 1)
	assert.Equal(t, models.StatusPending, orders[0].Status, "a failed change must not touch the projection")
}

func TestBoard_ChangeStatusFailureInDemoModePatchesLocally(t *testing.T) {
	backend := &fakeBackend{
		orders:    []models.Order{{ID: 1, Status: models.StatusPending}},
		changeErr: errors.New("backend down"),
	}

	b := NewBoard(backend, nil, time.Hour, true)
	b.Start(context.Background())
	defer b.Stop()
	require.Eventually(t, b.Projection().Loaded, time.Second, 5*time.Millisecond)

	err := b.ChangeStatus(context.Background(), 1, models.StatusReady)
	require.ErrorIs(t, err, ErrDemoApplied, "a demo-mode patch must never look like a clean success")

	orders := b.Projection().Orders()
	require.Len(t, orders, 1)
	assert.Equal(t, models.StatusReady, orders[0].Status)
}

func TestProjection_ReplaceSortsNewestFirst(t *testing.T) {
	now := time.Now()
	p := NewProjection()
	p.Replace([]models.Order{
		{ID: 1, Date: now.Add(-2 * time.Hour)},
		{ID: 2, Date: now},
		{ID: 3, Date: now.Add(-time.Hour)},
	})

	orders := p.Orders()
	require.Len(t, orders, 3)
	assert.Equal(t, []int{2, 3, 1}, []int{orders[0].ID, orders[1].ID, orders[2].ID})
}

func TestProjection_ActiveFiltersTerminalOrders(t *testing.T) {
	p := NewProjection()
	p.Replace([]models.Order{
		{ID: 1, Status: models.StatusPending},
		{ID: 2, Status: models.StatusDelivered},
		{ID: 3, Status: models.StatusCancelled},
		{ID: 4, Status: models.StatusReady},
	})

	active := p.Active()
	require.Len(t, active, 2)
	for _, o := range active {
		assert.False(t, o.Status.Terminal())
	}
}

func TestProjection_ForTable(t *testing.T) {
	p := NewProjection()
	p.Replace([]models.Order{
		{ID: 1, TableNumber: 2},
		{ID: 2, TableNumber: 3},
		{ID: 3, TableNumber: 2},
	})

	assert.Len(t, p.ForTable(2), 2)
	assert.Empty(t, p.ForTable(9))
}

func TestProjection_CountByStatus(t *testing.T) {
	p := NewProjection()
	p.Replace([]models.Order{
		{ID: 1, Status: models.StatusPending},
		{ID: 2, Status: models.StatusPending},
		{ID: 3, Status: models.StatusReady},
	})

	counts := p.CountByStatus()
	assert.Equal(t, 2, counts[models.StatusPending])
	assert.Equal(t, 1, counts[models.StatusReady])
	assert.Zero(t, counts[models.StatusCancelled])
}
