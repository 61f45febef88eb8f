// Package cart holds the client-local, session-scoped aggregate of selected
// products awaiting submission. It is purely in-memory: no mutation touches
// the network, and totals are always derived from the lines so they can never
// drift from the items.
package cart

import (
	"github.com/projectbar/barweb/internal/models"
)

// Item is one cart line. Lines are unique by product id; adding the same
// product again merges into the existing line.
type Item struct {
	Product   models.Product
	UnitPrice float64
	Quantity  int
}

// Subtotal is the line amount.
func (i Item) Subtotal() float64 {
	return i.UnitPrice * float64(i.Quantity)
}

// Cart is owned by a single browser session and mutated only between request
// and response, so no locking is needed here; concurrent tabs sharing one
// session cookie race at the session layer, as they always have.
type Cart struct {
	Items       []Item
	TableNumber int
	ClientName  string
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{}
}

// AddItem merges qty units of the product into the cart. Quantities must be
// positive; non-positive values are a caller error and are ignored.
func (c *Cart) AddItem(product models.Product, price float64, qty int) {
	if qty <= 0 {
		return
	}
	for i := range c.Items {
		if c.Items[i].Product.ID == product.ID {
			c.Items[i].Quantity += qty
			return
		}
	}
	c.Items = append(c.Items, Item{Product: product, UnitPrice: price, Quantity: qty})
}

// RemoveItem deletes the matching line. Removing an absent product is a
// no-op, not an error.
func (c *Cart) RemoveItem(productID int) {
	for i := range c.Items {
		if c.Items[i].Product.ID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return
		}
	}
}

// UpdateQuantity overwrites a line's quantity. A quantity of zero or less
// behaves exactly like RemoveItem.
func (c *Cart) UpdateQuantity(productID, qty int) {
	if qty <= 0 {
		c.RemoveItem(productID)
		return
	}
	for i := range c.Items {
		if c.Items[i].Product.ID == productID {
			c.Items[i].Quantity = qty
			return
		}
	}
}

// Clear resets the cart to empty, dropping the attached table and client
// metadata along with the lines.
func (c *Cart) Clear() {
	*c = Cart{}
}

// SetTableNumber attaches the session's table without touching the lines.
func (c *Cart) SetTableNumber(n int) {
	c.TableNumber = n
}

// SetClientName attaches the customer's name without touching the lines.
func (c *Cart) SetClientName(name string) {
	c.ClientName = name
}

// Total is the sum of unit price × quantity over all lines.
func (c *Cart) Total() float64 {
	var total float64
	for _, item := range c.Items {
		total += item.Subtotal()
	}
	return total
}

// ItemCount is the sum of quantities across all lines, used for the cart
// badge.
func (c *Cart) ItemCount() int {
	var count int
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}
