package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/go-playground/validator/v10"

	"github.com/projectbar/barweb/internal/models"
)

var validate = validator.New()

// CreateOrderLine is one product line of a customer order, in the shape the
// backend's save endpoint expects.
type CreateOrderLine struct {
	ProductID int `json:"idProduct" validate:"required,gt=0"`
	Quantity  int `json:"quantity" validate:"required,gt=0"`
}

// CreateOrderRequest is a customer QR order. Validation runs before any
// request is sent: the table context comes from a scanned code so it must be
// a positive integer, and the backend requires client names of at least four
// characters.
type CreateOrderRequest struct {
	TableNumber int               `json:"tableNumber" validate:"required,gt=0"`
	ClientName  string            `json:"clientName" validate:"required,min=4"`
	Notes       string            `json:"notes,omitempty"`
	Products    []CreateOrderLine `json:"products" validate:"required,min=1,dive"`
}

// Validate checks the request locally so invalid submissions never reach the
// network layer.
func (r CreateOrderRequest) Validate() error {
	return validate.Struct(r)
}

// StaffOrderItem references a product by code, as the staff save/add-item
// endpoints expect.
type StaffOrderItem struct {
	ProductCode string `json:"productCode" validate:"required"`
	Quantity    int    `json:"quantity" validate:"required,gt=0"`
}

// UpdateOrderRequest edits the mutable header fields of an existing order.
type UpdateOrderRequest struct {
	ID          int    `json:"id" validate:"required,gt=0"`
	ClientName  string `json:"clientName,omitempty"`
	TableNumber int    `json:"tableNumber,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

// AllOrders fetches every order the backend currently knows about.
func (c *Client) AllOrders(ctx context.Context) ([]models.Order, error) {
	var dtos []orderDTO
	if err := c.get(ctx, "/api/order/all", &dtos); err != nil {
		return nil, err
	}
	return normalizeOrders(dtos), nil
}

// OrderByID fetches a single order with its line items.
func (c *Client) OrderByID(ctx context.Context, id int) (models.Order, error) {
	var dto orderDTO
	if err := c.get(ctx, fmt.Sprintf("/api/order/find-by-id/%d", id), &dto); err != nil {
		return models.Order{}, err
	}
	return dto.normalize(), nil
}

// OrdersByTable fetches the orders scoped to one physical table. This is the
// customer confirmation view's query.
func (c *Client) OrdersByTable(ctx context.Context, table int) ([]models.Order, error) {
	var dtos []orderDTO
	if err := c.get(ctx, fmt.Sprintf("/api/order/find-by-table-number/%d", table), &dtos); err != nil {
		return nil, err
	}
	return normalizeOrders(dtos), nil
}

func (c *Client) OrdersByClientName(ctx context.Context, name string) ([]models.Order, error) {
	var dtos []orderDTO
	if err := c.get(ctx, "/api/order/find-by-client-name/"+url.PathEscape(name), &dtos); err != nil {
		return nil, err
	}
	return normalizeOrders(dtos), nil
}

func (c *Client) OrdersByWaiter(ctx context.Context, waiterID string) ([]models.Order, error) {
	var dtos []orderDTO
	if err := c.get(ctx, "/api/order/find-by-waiter-id/"+url.PathEscape(waiterID), &dtos); err != nil {
		return nil, err
	}
	return normalizeOrders(dtos), nil
}

// OrdersByDate fetches orders created on a given day, date in YYYY-MM-DD.
func (c *Client) OrdersByDate(ctx context.Context, date string) ([]models.Order, error) {
	var dtos []orderDTO
	if err := c.get(ctx, "/api/order/find-by-date/"+url.PathEscape(date), &dtos); err != nil {
		return nil, err
	}
	return normalizeOrders(dtos), nil
}

// CreateOrder submits a customer order. Exactly one request is performed; the
// call is not idempotent and is never retried here, so the caller decides
// what a failed submission means for its cart.
func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (models.Order, error) {
	if err := req.Validate(); err != nil {
		return models.Order{}, fmt.Errorf("invalid order: %w", err)
	}
	var dto orderDTO
	if err := c.post(ctx, "/api/order/save", req, &dto); err != nil {
		return models.Order{}, err
	}
	return dto.normalize(), nil
}

// UpdateOrder edits an order's header fields.
func (c *Client) UpdateOrder(ctx context.Context, req UpdateOrderRequest) (models.Order, error) {
	if err := validate.Struct(req); err != nil {
		return models.Order{}, fmt.Errorf("invalid update: %w", err)
	}
	var dto orderDTO
	if err := c.put(ctx, "/api/order/update", req, &dto); err != nil {
		return models.Order{}, err
	}
	return dto.normalize(), nil
}

// AddOrderItem appends a product line to an existing order.
func (c *Client) AddOrderItem(ctx context.Context, orderID int, item StaffOrderItem) (models.Order, error) {
	if err := validate.Struct(item); err != nil {
		return models.Order{}, fmt.Errorf("invalid order item: %w", err)
	}
	var dto orderDTO
	path := fmt.Sprintf("/api/order/add-order-item/%d", orderID)
	if err := c.put(ctx, path, item, &dto); err != nil {
		return models.Order{}, err
	}
	return dto.normalize(), nil
}

// RemoveOrderItem removes qty units of an item line from an order.
func (c *Client) RemoveOrderItem(ctx context.Context, orderID, itemID, qty int) (models.Order, error) {
	var dto orderDTO
	path := fmt.Sprintf("/api/order/remove-order-item/%d/%d/%d", orderID, itemID, qty)
	if err := c.put(ctx, path, nil, &dto); err != nil {
		return models.Order{}, err
	}
	return dto.normalize(), nil
}

// ChangeOrderStatus asks the backend to move an order to the target status.
// No legality check happens here; the backend owns the transition rules and
// may reject the request.
func (c *Client) ChangeOrderStatus(ctx context.Context, orderID int, status models.OrderStatus) (models.Order, error) {
	var dto orderDTO
	path := fmt.Sprintf("/api/order/change-status/%d/%s", orderID, url.PathEscape(string(status)))
	if err := c.put(ctx, path, nil, &dto); err != nil {
		return models.Order{}, err
	}
	return dto.normalize(), nil
}

// DeleteOrder removes an order entirely.
func (c *Client) DeleteOrder(ctx context.Context, id int) error {
	return c.del(ctx, fmt.Sprintf("/api/order/delete/%d", id))
}
