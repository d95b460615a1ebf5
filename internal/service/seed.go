package service

import (
	"context"
	"fmt"

	"minitemu/internal/identity"
	"minitemu/internal/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Demo accounts created by SeedDemoData
const (
	DemoSellerUsername   = "demo-seller"
	DemoCustomerUsername = "demo-customer"
	DemoPassword         = "demo"
)

type demoProduct struct {
	name     string
	price    string
	category string
	quantity int
}

var demoProducts = []demoProduct{
	{"Lamp", "20.00", "Home", 10},
	{"Desk", "120.00", "Office", 3},
	{"Rug", "59.99", "Home", 5},
	{"Headphones", "45.50", "Electronics", 8},
}

// SeedDemoData registers one seller and one customer and lists a few products
// from the seller. It is meant for an empty registry and catalog.
func SeedDemoData(ctx context.Context, registry *identity.Registry, catalog *CatalogService) error {
	if _, err := registry.Register(DemoSellerUsername, DemoPassword, models.RoleSeller); err != nil {
		return fmt.Errorf("seed seller: %w", err)
	}
	if _, err := registry.Register(DemoCustomerUsername, DemoPassword, models.RoleCustomer); err != nil {
		return fmt.Errorf("seed customer: %w", err)
	}

	for _, p := range demoProducts {
		price, err := decimal.NewFromString(p.price)
		if err != nil {
			return fmt.Errorf("seed %s: %w", p.name, err)
		}
		if _, err := catalog.AddProduct(ctx, p.name, price, p.category, p.quantity, DemoSellerUsername); err != nil {
			return fmt.Errorf("seed %s: %w", p.name, err)
		}
	}

	catalog.logger.Info("Demo data seeded", zap.Int("products", len(demoProducts)))
	return nil
}
