package service

import (
	"context"
	"testing"

	"minitemu/internal/identity"
	"minitemu/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedDemoData(t *testing.T) {
	catalog, _ := newCatalog(t)
	registry := identity.NewRegistry()
	ctx := context.Background()

	require.NoError(t, SeedDemoData(ctx, registry, catalog))

	assert.Equal(t, 2, registry.Len())
	id, err := registry.Authenticate(DemoCustomerUsername, DemoPassword)
	require.NoError(t, err)
	assert.Equal(t, models.RoleCustomer, id.Role())
	assert.Len(t, catalog.ListProducts(ctx), len(demoProducts))

	err = SeedDemoData(ctx, registry, catalog)
	assert.ErrorIs(t, err, models.ErrDuplicateUsername)
}
