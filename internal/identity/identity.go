// Package identity holds marketplace accounts and the registry that owns them.
//
// Identity is a closed variant: only *Customer and *Seller implement it, and
// callers dispatch on the concrete type with a type switch.
package identity

import (
	"crypto/subtle"
	"time"

	"minitemu/internal/cart"
	"minitemu/internal/models"

	"github.com/google/uuid"
)

// Identity is a registered account
type Identity interface {
	Username() string
	Role() models.Role
	checkPassword(password string) bool
	sealed()
}

type account struct {
	username string
	password string
}

func (a account) Username() string { return a.username }

func (a account) checkPassword(password string) bool {
	return subtle.ConstantTimeCompare([]byte(a.password), []byte(password)) == 1
}

func (account) sealed() {}

// Customer owns a cart, the ledger of purchased product names and its order history
type Customer struct {
	account
	cart      *cart.Cart
	purchased []string
	orders    []models.Order
}

// Seller issues catalog commands and owns no cart
type Seller struct {
	account
}

// NewCustomer creates a customer with an empty cart
func NewCustomer(username, password string) *Customer {
	return &Customer{
		account: account{username: username, password: password},
		cart:    cart.New(),
	}
}

// NewSeller creates a seller
func NewSeller(username, password string) *Seller {
	return &Seller{account: account{username: username, password: password}}
}

// Role returns RoleCustomer
func (c *Customer) Role() models.Role { return models.RoleCustomer }

// Role returns RoleSeller
func (s *Seller) Role() models.Role { return models.RoleSeller }

// Cart returns the customer's cart
func (c *Customer) Cart() *cart.Cart { return c.cart }

// Checkout turns the cart into an order and records every purchased product
// name in the ledger. It is the only writer of the ledger.
func (c *Customer) Checkout(shipping models.ShippingInfo) (models.Order, error) {
	lines := c.cart.Lines()
	total := c.cart.Total()

	names, err := c.cart.Checkout(shipping)
	if err != nil {
		return models.Order{}, err
	}

	order := models.Order{
		ID:        uuid.New().String(),
		Username:  c.username,
		Lines:     make([]models.OrderLine, 0, len(lines)),
		Total:     total,
		Shipping:  shipping,
		Status:    models.OrderStatusPlaced,
		CreatedAt: time.Now(),
	}
	for _, l := range lines {
		order.Lines = append(order.Lines, models.OrderLine{
			ProductName: l.Product.Name,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice(),
			Subtotal:    l.Subtotal(),
		})
	}

	c.purchased = append(c.purchased, names...)
	c.orders = append(c.orders, order)
	return order, nil
}

// HasPurchased reports whether productName appears in the ledger
func (c *Customer) HasPurchased(productName string) bool {
	for _, n := range c.purchased {
		if n == productName {
			return true
		}
	}
	return false
}

// Purchased returns a copy of the ledger
func (c *Customer) Purchased() []string {
	out := make([]string, len(c.purchased))
	copy(out, c.purchased)
	return out
}

// Orders returns the order history, oldest first
func (c *Customer) Orders() []models.Order {
	out := make([]models.Order, len(c.orders))
	copy(out, c.orders)
	return out
}

// FindOrder looks up an order in the history by ID
func (c *Customer) FindOrder(id string) (models.Order, bool) {
	for _, o := range c.orders {
		if o.ID == id {
			return o, true
		}
	}
	return models.Order{}, false
}
