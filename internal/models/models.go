package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a product in the catalog
type Product struct {
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	Category      string          `json:"category"`
	Quantity      int             `json:"quantity"`
	SellerName    string          `json:"seller_name"`
	OnSale        bool            `json:"on_sale"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	DiscountPct   decimal.Decimal `json:"discount_pct,omitempty"`
	Reviews       []Review        `json:"reviews"`
	AverageRating float64         `json:"average_rating"`
}

// UnitPrice returns the price a buyer pays right now
func (p Product) UnitPrice() decimal.Decimal {
	if p.OnSale {
		return p.SalePrice
	}
	return p.Price
}

// Clone returns a deep copy so callers never share the review slice with the catalog
func (p Product) Clone() Product {
	out := p
	if p.Reviews != nil {
		out.Reviews = make([]Review, len(p.Reviews))
		copy(out.Reviews, p.Reviews)
	}
	return out
}

// Review represents a customer review of a product
type Review struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Comment   string    `json:"comment"`
	Rating    int       `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
}

// Rating bounds
const (
	MinRating = 1
	MaxRating = 5
)

// CartItem is a product snapshot captured when it was added to a cart
type CartItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// UnitPrice is the captured price, honouring the captured sale state
func (ci CartItem) UnitPrice() decimal.Decimal {
	return ci.Product.UnitPrice()
}

// Subtotal returns unit price times quantity
func (ci CartItem) Subtotal() decimal.Decimal {
	return ci.UnitPrice().Mul(decimal.NewFromInt(int64(ci.Quantity)))
}

// ShippingInfo holds delivery details collected at checkout
type ShippingInfo struct {
	Address    string `json:"address" binding:"required"`
	City       string `json:"city" binding:"required"`
	PostalCode string `json:"postal_code" binding:"required"`
}

// Complete reports whether every delivery field is filled in
func (s ShippingInfo) Complete() bool {
	return strings.TrimSpace(s.Address) != "" &&
		strings.TrimSpace(s.City) != "" &&
		strings.TrimSpace(s.PostalCode) != ""
}

// Order represents a completed checkout
type Order struct {
	ID        string          `json:"id"`
	Username  string          `json:"username"`
	Lines     []OrderLine     `json:"lines"`
	Total     decimal.Decimal `json:"total"`
	Shipping  ShippingInfo    `json:"shipping"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
}

// OrderLine represents a purchased cart line
type OrderLine struct {
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// ProductNames lists the purchased names in line order
func (o Order) ProductNames() []string {
	names := make([]string, 0, len(o.Lines))
	for _, l := range o.Lines {
		names = append(names, l.ProductName)
	}
	return names
}

// Order statuses
const (
	OrderStatusPlaced = "PLACED"
)

// Role is the closed set of account kinds
type Role string

// Roles
const (
	RoleCustomer Role = "customer"
	RoleSeller   Role = "seller"
)

// ParseRole normalises user input into a Role
func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleCustomer:
		return RoleCustomer, true
	case RoleSeller:
		return RoleSeller, true
	}
	return "", false
}

// SalesLine is the running tally for one product in the sales report
type SalesLine struct {
	ProductName string          `json:"product_name"`
	UnitsSold   int             `json:"units_sold"`
	Revenue     decimal.Decimal `json:"revenue"`
	Orders      int             `json:"orders"`
}
