package api

import (
	"time"

	"github.com/projectbar/barweb/internal/models"
)

// The backend's order payloads are not consistent about field names: list
// endpoints use clientName/date/valueToPay while some detail and legacy
// endpoints use customerName/orderDate/total, and line items arrive either as
// orderItems or as products. orderDTO accepts every alias and normalize is
// the single place where they collapse into the canonical models.Order.

type orderDTO struct {
	ID           int             `json:"id"`
	ClientName   string          `json:"clientName"`
	CustomerName string          `json:"customerName"`
	TableNumber  int             `json:"tableNumber"`
	WaiterName   string          `json:"waiterUserName"`
	Notes        string          `json:"notes"`
	Status       string          `json:"status"`
	Date         string          `json:"date"`
	OrderDate    string          `json:"orderDate"`
	ValueToPay   *float64        `json:"valueToPay"`
	Total        *float64        `json:"total"`
	OrderItems   []orderItemDTO  `json:"orderItems"`
	Products     []orderLineDTO  `json:"products"`
}

type orderItemDTO struct {
	ID          int     `json:"id"`
	ProductID   int     `json:"productId"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
}

type orderLineDTO struct {
	ProductID   int     `json:"productId"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
}

// dateFormats covers the timestamp shapes observed from the backend.
var dateFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseOrderDate(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

func (d orderDTO) normalize() models.Order {
	o := models.Order{
		ID:          d.ID,
		ClientName:  firstNonEmpty(d.ClientName, d.CustomerName),
		TableNumber: d.TableNumber,
		WaiterName:  d.WaiterName,
		Notes:       d.Notes,
		Status:      models.OrderStatus(d.Status),
		Date:        parseOrderDate(firstNonEmpty(d.Date, d.OrderDate)),
	}

	switch {
	case d.ValueToPay != nil:
		o.Total = *d.ValueToPay
	case d.Total != nil:
		o.Total = *d.Total
	}

	switch {
	case len(d.OrderItems) > 0:
		o.Items = make([]models.OrderItem, 0, len(d.OrderItems))
		for _, it := range d.OrderItems {
			o.Items = append(o.Items, models.OrderItem{
				ProductID:   it.ProductID,
				ProductName: it.ProductName,
				Quantity:    it.Quantity,
				UnitPrice:   it.UnitPrice,
			})
		}
	case len(d.Products) > 0:
		o.Items = make([]models.OrderItem, 0, len(d.Products))
		for _, p := range d.Products {
			o.Items = append(o.Items, models.OrderItem{
				ProductID:   p.ProductID,
				ProductName: p.ProductName,
				Quantity:    p.Quantity,
				UnitPrice:   p.Price,
			})
		}
	}

	// Some list endpoints omit the amount entirely; derive it from the lines
	// rather than showing a zero bill.
	if o.Total == 0 && len(o.Items) > 0 {
		for _, it := range o.Items {
			o.Total += it.Subtotal()
		}
	}

	return o
}

func normalizeOrders(dtos []orderDTO) []models.Order {
	orders := make([]models.Order, 0, len(dtos))
	for _, d := range dtos {
		orders = append(orders, d.normalize())
	}
	return orders
}
