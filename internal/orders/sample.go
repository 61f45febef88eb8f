package orders

import (
	"time"

	"github.com/projectbar/barweb/internal/models"
)

// SampleOrders is the demonstration dataset shown when demo mode is on and
// the backend has never answered. Timestamps are relative so the board looks
// current whenever it loads.
func SampleOrders() []models.Order {
	now := time.Now()
	return []models.Order{
		{
			ID:          1,
			ClientName:  "Juan García",
			TableNumber: 2,
			WaiterName:  "Mario",
			Status:      models.StatusInProgress,
			Date:        now.Add(-12 * time.Minute),
			Total:       32.50,
			Items: []models.OrderItem{
				{ProductID: 3, ProductName: "Mojito", Quantity: 2, UnitPrice: 8.50},
				{ProductID: 7, ProductName: "Cerveza Artesanal", Quantity: 3, UnitPrice: 5.17},
			},
		},
		{
			ID:          2,
			ClientName:  "Ana Martínez",
			TableNumber: 3,
			WaiterName:  "Mario",
			Notes:       "Sin hielo",
			Status:      models.StatusReady,
			Date:        now.Add(-7 * time.Minute),
			Total:       18.00,
			Items: []models.OrderItem{
				{ProductID: 5, ProductName: "Margarita", Quantity: 2, UnitPrice: 9.00},
			},
		},
		{
			ID:          3,
			ClientName:  "Pedro López",
			TableNumber: 6,
			WaiterName:  "Carlos",
			Status:      models.StatusPending,
			Date:        now.Add(-2 * time.Minute),
			Total:       45.00,
			Items: []models.OrderItem{
				{ProductID: 2, ProductName: "Vino Tinto Copa", Quantity: 3, UnitPrice: 15.00},
			},
		},
	}
}
