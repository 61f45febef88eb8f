package orders

import (
	"sort"
	"sync"
	"time"

	"github.com/projectbar/barweb/internal/models"
)

// Projection is the latest snapshot of the backend's order set. Every
// replacement is wholesale: no merging, no diffing, no preservation of local
// annotations across refreshes. Reads hand out copies so callers can sort or
// filter without racing the next poll tick.
type Projection struct {
	mu        sync.RWMutex
	orders    []models.Order
	updatedAt time.Time
	loaded    bool
}

// NewProjection returns an empty projection.
func NewProjection() *Projection {
	return &Projection{}
}

// Replace swaps in a new snapshot, sorted by creation time descending so
// staff screens show the newest order first.
func (p *Projection) Replace(orders []models.Order) {
	sorted := make([]models.Order, len(orders))
	copy(sorted, orders)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date)
	})

	p.mu.Lock()
	defer p.mu.Unlock()
	p.orders = sorted
	p.updatedAt = time.Now()
	p.loaded = true
}

// Patch overwrites one order's status in place. Only the demo fallback path
// uses this; everything else goes through Replace.
func (p *Projection) Patch(orderID int, status models.OrderStatus) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := range p.orders {
		if p.orders[i].ID == orderID {
			p.orders[i].Status = status
			return
		}
	}
}

// Orders returns a copy of the current snapshot, newest first.
func (p *Projection) Orders() []models.Order {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]models.Order, len(p.orders))
	copy(out, p.orders)
	return out
}

// Active returns the snapshot without terminal orders (DELIVERED, CANCELLED),
// which is what customer confirmation views show.
func (p *Projection) Active() []models.Order {
	p.mu.RLock()
	defer p.mu.RUnlock()
	var out []models.Order
	for _, o := range p.orders {
		if !o.Status.Terminal() {
			out = append(out, o)
		}
	}
	return out
}

// ForTable returns the snapshot filtered to one table, newest first.
func (p *Projection) ForTable(table int) []models.Order {
	p.mu.RLock()
	defer p.mu.RUnlock()
	var out []models.Order
	for _, o := range p.orders {
		if o.TableNumber == table {
			out = append(out, o)
		}
	}
	return out
}

// CountByStatus tallies the snapshot for the staff header chips.
func (p *Projection) CountByStatus() map[models.OrderStatus]int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	counts := make(map[models.OrderStatus]int)
	for _, o := range p.orders {
		counts[o.Status]++
	}
	return counts
}

// UpdatedAt is when the snapshot was last replaced; zero before first load.
func (p *Projection) UpdatedAt() time.Time {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.updatedAt
}

// Loaded reports whether any snapshot has ever been applied.
func (p *Projection) Loaded() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.loaded
}
