package models

import (
	"time"
)

// Category groups menu products the way the backend reports them.
type Category string

const (
	CategoryBeer      Category = "BEER"
	CategoryWine      Category = "WINE"
	CategoryCocktails Category = "COCKTAILS"
	CategoryJuices    Category = "JUICES"
)

// Categories lists the known menu categories in display order.
func Categories() []Category {
	return []Category{CategoryBeer, CategoryWine, CategoryCocktails, CategoryJuices}
}

// OrderStatus is the lifecycle stage the backend reports for an order.
// The backend owns the transition rules (PENDING → IN_PROGRESS → READY →
// DELIVERED, with CANCELLED reachable from the first two); this side only
// displays whatever comes back, so unknown values must render, not fail.
type OrderStatus string

const (
	StatusPending    OrderStatus = "PENDING"
	StatusInProgress OrderStatus = "IN_PROGRESS"
	StatusReady      OrderStatus = "READY"
	StatusDelivered  OrderStatus = "DELIVERED"
	StatusCancelled  OrderStatus = "CANCELLED"
)

// Known reports whether the status is one of the documented lifecycle stages.
func (s OrderStatus) Known() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusReady, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether the order has left the active lifecycle.
func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// Label returns the customer-facing label. Unknown statuses fall back to the
// raw value so a misbehaving backend still gets a generic badge.
func (s OrderStatus) Label() string {
	switch s {
	case StatusPending:
		return "Pendiente"
	case StatusInProgress:
		return "En Preparación"
	case StatusReady:
		return "Listo"
	case StatusDelivered:
		return "Entregado"
	case StatusCancelled:
		return "Cancelado"
	}
	if s == "" {
		return "Desconocido"
	}
	return string(s)
}

// Next returns the stage a staff screen should offer to advance to, and false
// for terminal or unknown statuses.
func (s OrderStatus) Next() (OrderStatus, bool) {
	switch s {
	case StatusPending:
		return StatusInProgress, true
	case StatusInProgress:
		return StatusReady, true
	case StatusReady:
		return StatusDelivered, true
	}
	return "", false
}

type Product struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Code        string   `json:"code,omitempty"`
	Description string   `json:"description,omitempty"`
	Category    Category `json:"category"`
	Price       float64  `json:"price"`
	Available   bool     `json:"available"`
}

type ProductIngredient struct {
	ID             int     `json:"id"`
	IngredientName string  `json:"ingredientName"`
	Quantity       float64 `json:"quantity"`
	UnitOfMeasure  string  `json:"unitOfMeasure"`
}

type ProductDetail struct {
	ID          int                 `json:"id"`
	Name        string              `json:"name"`
	Code        string              `json:"code"`
	Description string              `json:"description,omitempty"`
	Price       float64             `json:"price"`
	PhotoID     int                 `json:"photoId,omitempty"`
	IsPrepared  bool                `json:"isPrepared"`
	Category    Category            `json:"category"`
	Ingredients []ProductIngredient `json:"ingredients,omitempty"`
}

// OrderItem is one line of an order as the backend reports it.
type OrderItem struct {
	ProductID   int     `json:"productId"`
	ProductName string  `json:"productName,omitempty"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
}

// Subtotal is the line amount. Detail payloads carry their own subtotal field
// but it is derivable, so it is never stored.
func (i OrderItem) Subtotal() float64 {
	return i.UnitPrice * float64(i.Quantity)
}

// Order is the canonical, read-only projection of a server-owned order. All
// upstream field aliases (clientName/customerName, date/orderDate,
// valueToPay/total) are resolved at the API boundary before an Order is
// constructed, so nothing past that point branches on which alias was set.
type Order struct {
	ID          int         `json:"id"`
	ClientName  string      `json:"clientName"`
	TableNumber int         `json:"tableNumber"`
	WaiterName  string      `json:"waiterUserName,omitempty"`
	Notes       string      `json:"notes,omitempty"`
	Status      OrderStatus `json:"status"`
	Date        time.Time   `json:"date"`
	Total       float64     `json:"total"`
	Items       []OrderItem `json:"items,omitempty"`
}

type Ingredient struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	UnitOfMeasure string `json:"unitOfMeasure,omitempty"`
}

type InventoryEntry struct {
	ID         int     `json:"id"`
	Ingredient string  `json:"ingredient"`
	Quantity   float64 `json:"quantity"`
	Unit       string  `json:"unit,omitempty"`
}

type Bill struct {
	ID          int     `json:"id"`
	TotalAmount float64 `json:"totalAmount"`
	Date        string  `json:"date"`
	ClientName  string  `json:"clientName"`
	Orders      []Order `json:"orders,omitempty"`
}

type User struct {
	Username string   `json:"username"`
	Email    string   `json:"email,omitempty"`
	Roles    []string `json:"roles"`
}

// HasRole reports whether the user carries the given role name
// ("ADMIN", "WAITER", "BARTENDER", ...).
func (u User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}
