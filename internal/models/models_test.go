package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatus_Lifecycle(t *testing.T) {
	next, ok := StatusPending.Next()
	assert.True(t, ok)
	assert.Equal(t, StatusInProgress, next)

	next, ok = StatusInProgress.Next()
	assert.True(t, ok)
	assert.Equal(t, StatusReady, next)

	next, ok = StatusReady.Next()
	assert.True(t, ok)
	assert.Equal(t, StatusDelivered, next)

	_, ok = StatusDelivered.Next()
	assert.False(t, ok)
	_, ok = StatusCancelled.Next()
	assert.False(t, ok)
}

func TestOrderStatus_Terminal(t *testing.T) {
	assert.False(t, StatusPending.Terminal())
	assert.False(t, StatusInProgress.Terminal())
	assert.False(t, StatusReady.Terminal())
	assert.True(t, StatusDelivered.Terminal())
	assert.True(t, StatusCancelled.Terminal())
}

func TestOrderStatus_LabelFallsBackToRawValue(t *testing.T) {
	assert.Equal(t, "Pendiente", StatusPending.Label())
	assert.Equal(t, "ON_FIRE", OrderStatus("ON_FIRE").Label())
	assert.Equal(t, "Desconocido", OrderStatus("").Label())
}

func TestOrderItem_Subtotal(t *testing.T) {
	item := OrderItem{Quantity: 3, UnitPrice: 8.5}
	assert.InDelta(t, 25.5, item.Subtotal(), 1e-9)
}

func TestUser_HasRole(t *testing.T) {
	u := User{Username: "laura", Roles: []string{"WAITER"}}
	assert.True(t, u.HasRole("WAITER"))
	assert.False(t, u.HasRole("ADMIN"))
	assert.False(t, User{}.HasRole("WAITER"))
}
