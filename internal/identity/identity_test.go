package identity

import (
	"testing"

	"minitemu/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterUniqueAcrossRoles(t *testing.T) {
	r := NewRegistry()

	_, err := r.Register("alice", "pw", models.RoleCustomer)
	require.NoError(t, err)

	_, err = r.Register("alice", "other", models.RoleSeller)
	assert.ErrorIs(t, err, models.ErrDuplicateUsername)

	_, err = r.Register("alice", "pw", models.RoleCustomer)
	assert.ErrorIs(t, err, models.ErrDuplicateUsername)

	assert.Equal(t, 1, r.Len())
}

func TestRegisterValidation(t *testing.T) {
	r := NewRegistry()

	_, err := r.Register("  ", "pw", models.RoleCustomer)
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = r.Register("bob", "", models.RoleCustomer)
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = r.Register("bob", "pw", models.Role("admin"))
	assert.ErrorIs(t, err, models.ErrValidation)

	assert.Equal(t, 0, r.Len())
}

func TestRegisterBuildsVariant(t *testing.T) {
	r := NewRegistry()

	c, err := r.Register("carol", "pw", models.RoleCustomer)
	require.NoError(t, err)
	s, err := r.Register("sam", "pw", models.RoleSeller)
	require.NoError(t, err)

	_, isCustomer := c.(*Customer)
	_, isSeller := s.(*Seller)
	assert.True(t, isCustomer)
	assert.True(t, isSeller)
	assert.Equal(t, models.RoleCustomer, c.Role())
	assert.Equal(t, models.RoleSeller, s.Role())
}

func TestAuthenticate(t *testing.T) {
	r := NewRegistry()
	_, err := r.Register("alice", "secret", models.RoleCustomer)
	require.NoError(t, err)

	id, err := r.Authenticate("alice", "secret")
	require.NoError(t, err)
	assert.Equal(t, "alice", id.Username())

	_, err = r.Authenticate("alice", "Secret")
	assert.ErrorIs(t, err, models.ErrAuthentication)

	_, err = r.Authenticate("nobody", "secret")
	assert.ErrorIs(t, err, models.ErrAuthentication)
}

func TestLookup(t *testing.T) {
	r := NewRegistry()
	_, err := r.Register("alice", "secret", models.RoleSeller)
	require.NoError(t, err)

	id, err := r.Lookup("alice")
	require.NoError(t, err)
	assert.Equal(t, models.RoleSeller, id.Role())

	_, err = r.Lookup("bob")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestCustomerCheckoutFillsLedger(t *testing.T) {
	c := NewCustomer("alice", "pw")
	ship := models.ShippingInfo{Address: "1 Main St", City: "Springfield", PostalCode: "12345"}

	_, err := c.Checkout(ship)
	assert.ErrorIs(t, err, models.ErrEmptyCart)
	assert.Empty(t, c.Purchased())
	assert.Empty(t, c.Orders())

	price := decimal.NewFromInt(20)
	require.NoError(t, c.Cart().AddItem(models.Product{Name: "Lamp", Price: price, SalePrice: price}, 3))

	assert.False(t, c.HasPurchased("Lamp"))
	order, err := c.Checkout(ship)
	require.NoError(t, err)

	assert.Equal(t, []string{"Lamp"}, order.ProductNames())
	assert.True(t, decimal.NewFromInt(60).Equal(order.Total))
	assert.True(t, c.HasPurchased("Lamp"))
	assert.Equal(t, []string{"Lamp"}, c.Purchased())
	assert.Equal(t, 0, c.Cart().Len())

	found, ok := c.FindOrder(order.ID)
	require.True(t, ok)
	assert.Equal(t, models.OrderStatusPlaced, found.Status)
}

func TestCapabilities(t *testing.T) {
	assert.True(t, Allowed(models.RoleSeller, CmdAddProduct))
	assert.True(t, Allowed(models.RoleSeller, CmdViewInventory))
	assert.False(t, Allowed(models.RoleSeller, CmdAddToCart))
	assert.False(t, Allowed(models.RoleSeller, CmdWriteReview))

	assert.True(t, Allowed(models.RoleCustomer, CmdCheckout))
	assert.True(t, Allowed(models.RoleCustomer, CmdSearch))
	assert.False(t, Allowed(models.RoleCustomer, CmdSetOnSale))
	assert.False(t, Allowed(models.RoleCustomer, CmdAddProduct))

	for _, role := range []models.Role{models.RoleSeller, models.RoleCustomer} {
		assert.True(t, Allowed(role, CmdViewAllProducts))
		assert.True(t, Allowed(role, CmdViewProductDetails))
		assert.True(t, Allowed(role, CmdLogout))
	}

	assert.Len(t, Capabilities(models.RoleCustomer), 9)
	assert.Empty(t, Capabilities(models.Role("admin")))
}
