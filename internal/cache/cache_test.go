package cache

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projectbar/barweb/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "snapshot.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_EmptyBeforeFirstSave(t *testing.T) {
	s := newTestStore(t)

	orders, err := s.LoadSnapshot()
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestStore_SaveAndLoadRoundTrip(t *testing.T) {
	s := newTestStore(t)

	saved := []models.Order{
		{
			ID: 12, ClientName: "Ana Martínez", TableNumber: 3,
			Notes: "Sin hielo", Status: models.StatusReady,
			Date: time.Date(2026, 8, 30, 21, 15, 0, 0, time.UTC), Total: 18,
			Items: []models.OrderItem{
				{ProductID: 4, ProductName: "Margarita", Quantity: 2, UnitPrice: 9},
			},
		},
		{
			ID: 7, ClientName: "Pedro López", TableNumber: 6,
			Status: models.StatusPending,
			Date:   time.Date(2026, 8, 30, 20, 5, 0, 0, time.UTC), Total: 45,
		},
	}
	require.NoError(t, s.SaveSnapshot(saved))

	loaded, err := s.LoadSnapshot()
	require.NoError(t, err)
	require.Len(t, loaded, 2)

	// Newest first, regardless of save order.
	assert.Equal(t, 12, loaded[0].ID)
	assert.Equal(t, "Ana Martínez", loaded[0].ClientName)
	assert.Equal(t, models.StatusReady, loaded[0].Status)
	assert.True(t, saved[0].Date.Equal(loaded[0].Date))
	require.Len(t, loaded[0].Items, 1)
	assert.Equal(t, "Margarita", loaded[0].Items[0].ProductName)

	assert.Equal(t, 7, loaded[1].ID)
	assert.Empty(t, loaded[1].Items)
}

func TestStore_SaveReplacesWholesale(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.SaveSnapshot([]models.Order{
		{ID: 1, ClientName: "Juan García", TableNumber: 2, Status: models.StatusPending, Date: time.Now()},
		{ID: 2, ClientName: "Ana Martínez", TableNumber: 3, Status: models.StatusReady, Date: time.Now()},
	}))
	require.NoError(t, s.SaveSnapshot([]models.Order{
		{ID: 3, ClientName: "Pedro López", TableNumber: 6, Status: models.StatusPending, Date: time.Now()},
	}))

	loaded, err := s.LoadSnapshot()
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, 3, loaded[0].ID)
}

func TestStore_SaveEmptyClearsSnapshot(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.SaveSnapshot([]models.Order{
		{ID: 1, ClientName: "Juan García", TableNumber: 2, Status: models.StatusPending, Date: time.Now()},
	}))
	require.NoError(t, s.SaveSnapshot(nil))

	loaded, err := s.LoadSnapshot()
	require.NoError(t, err)
	assert.Empty(t, loaded)
}
