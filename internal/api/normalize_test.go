package api

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projectbar/barweb/internal/models"
)

func TestNormalize_FieldAliases(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want models.Order
	}{
		{
			name: "list endpoint shape",
			raw: `{
				"id": 12, "clientName": "Ana Martínez", "tableNumber": 3,
				"status": "READY", "date": "2026-08-30T21:15:00",
				"valueToPay": 18.0,
				"orderItems": [{"productId": 4, "productName": "Margarita", "quantity": 2, "unitPrice": 9.0}]
			}`,
			want: models.Order{
				ID: 12, ClientName: "Ana Martínez", TableNumber: 3,
				Status: models.StatusReady,
				Date:   time.Date(2026, 8, 30, 21, 15, 0, 0, time.UTC),
				Total:  18.0,
				Items:  []models.OrderItem{{ProductID: 4, ProductName: "Margarita", Quantity: 2, UnitPrice: 9.0}},
			},
		},
		{
			name: "legacy detail shape",
			raw: `{
				"id": 7, "customerName": "Pedro López", "tableNumber": 6,
				"status": "PENDING", "orderDate": "2026-08-30 20:05:00",
				"total": 45.0,
				"products": [{"productId": 1, "productName": "Mojito", "quantity": 1, "price": 45.0}]
			}`,
			want: models.Order{
				ID: 7, ClientName: "Pedro López", TableNumber: 6,
				Status: models.StatusPending,
				Date:   time.Date(2026, 8, 30, 20, 5, 0, 0, time.UTC),
				Total:  45.0,
				Items:  []models.OrderItem{{ProductID: 1, ProductName: "Mojito", Quantity: 1, UnitPrice: 45.0}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var dto orderDTO
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &dto))
			assert.Equal(t, tt.want, dto.normalize())
		})
	}
}

func TestNormalize_ClientNamePrefersPrimaryAlias(t *testing.T) {
	dto := orderDTO{ClientName: "Ana", CustomerName: "legacy"}
	assert.Equal(t, "Ana", dto.normalize().ClientName)

	dto = orderDTO{CustomerName: "legacy"}
	assert.Equal(t, "legacy", dto.normalize().ClientName)
}

func TestNormalize_OrderItemsWinOverProducts(t *testing.T) {
	dto := orderDTO{
		OrderItems: []orderItemDTO{{ProductID: 1, Quantity: 2, UnitPrice: 5}},
		Products:   []orderLineDTO{{ProductID: 9, Quantity: 9, Price: 99}},
	}
	o := dto.normalize()
	require.Len(t, o.Items, 1)
	assert.Equal(t, 1, o.Items[0].ProductID)
}

func TestNormalize_TotalDerivedFromLinesWhenMissing(t *testing.T) {
	dto := orderDTO{
		OrderItems: []orderItemDTO{
			{ProductID: 1, Quantity: 2, UnitPrice: 8.5},
			{ProductID: 2, Quantity: 1, UnitPrice: 4.0},
		},
	}
	assert.InDelta(t, 21.0, dto.normalize().Total, 1e-9)
}

func TestNormalize_ExplicitTotalNeverRecomputed(t *testing.T) {
	total := 100.0
	dto := orderDTO{
		ValueToPay: &total,
		OrderItems: []orderItemDTO{{ProductID: 1, Quantity: 1, UnitPrice: 8.5}},
	}
	assert.Equal(t, 100.0, dto.normalize().Total)
}

func TestNormalize_UnknownStatusPassesThrough(t *testing.T) {
	dto := orderDTO{Status: "ON_FIRE"}
	o := dto.normalize()
	assert.Equal(t, models.OrderStatus("ON_FIRE"), o.Status)
	assert.False(t, o.Status.Known())
	assert.Equal(t, "ON_FIRE", o.Status.Label())
}

func TestParseOrderDate(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want time.Time
	}{
		{"rfc3339", "2026-08-30T21:15:00Z", time.Date(2026, 8, 30, 21, 15, 0, 0, time.UTC)},
		{"no zone", "2026-08-30T21:15:00", time.Date(2026, 8, 30, 21, 15, 0, 0, time.UTC)},
		{"space separated", "2026-08-30 21:15:00", time.Date(2026, 8, 30, 21, 15, 0, 0, time.UTC)},
		{"date only", "2026-08-30", time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)},
		{"empty", "", time.Time{}},
		{"garbage", "ayer", time.Time{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.want.Equal(parseOrderDate(tt.raw)))
		})
	}
}
