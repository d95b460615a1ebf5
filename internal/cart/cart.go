// Package cart holds a customer's transient selection of product snapshots.
package cart

import (
	"fmt"

	"minitemu/internal/models"

	"github.com/shopspring/decimal"
)

// Cart is a list of captured product snapshots keyed by product name.
// It never reads the catalog; prices are those captured at add time.
type Cart struct {
	items []models.CartItem
}

// New creates an empty cart
func New() *Cart {
	return &Cart{}
}

// AddItem merges quantity into the existing line for the product name or
// appends a new line holding a copy of the snapshot.
func (c *Cart) AddItem(snapshot models.Product, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: quantity must be greater than zero: %d", models.ErrValidation, quantity)
	}

	for i := range c.items {
		if c.items[i].Product.Name == snapshot.Name {
			c.items[i].Quantity += quantity
			return nil
		}
	}

	captured := snapshot.Clone()
	captured.Reviews = nil
	c.items = append(c.items, models.CartItem{Product: captured, Quantity: quantity})
	return nil
}

// Lines returns copies of the cart lines
func (c *Cart) Lines() []models.CartItem {
	out := make([]models.CartItem, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the number of distinct lines
func (c *Cart) Len() int {
	return len(c.items)
}

// Total sums every line at its captured unit price
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range c.items {
		total = total.Add(it.Subtotal())
	}
	return total
}

// Checkout empties the cart and returns the purchased product names, one per
// line in line order. Payment and delivery are not handled here.
func (c *Cart) Checkout(shipping models.ShippingInfo) ([]string, error) {
	if len(c.items) == 0 {
		return nil, models.ErrEmptyCart
	}
	if !shipping.Complete() {
		return nil, fmt.Errorf("%w: address, city and postal code are required", models.ErrValidation)
	}

	names := make([]string, 0, len(c.items))
	for _, it := range c.items {
		names = append(names, it.Product.Name)
	}
	c.items = nil
	return names, nil
}
