package cart

import (
	"testing"

	"minitemu/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var shipTo = models.ShippingInfo{Address: "1 Main St", City: "Springfield", PostalCode: "12345"}

func product(name string, price int64) models.Product {
	p := decimal.NewFromInt(price)
	return models.Product{Name: name, Price: p, SalePrice: p, Quantity: 10}
}

func TestAddItemMergesSameName(t *testing.T) {
	c := New()
	require.NoError(t, c.AddItem(product("Lamp", 20), 2))
	require.NoError(t, c.AddItem(product("Lamp", 20), 3))

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 5, lines[0].Quantity)
}

func TestAddItemRejectsNonPositiveQuantity(t *testing.T) {
	c := New()
	assert.ErrorIs(t, c.AddItem(product("Lamp", 20), 0), models.ErrValidation)
	assert.ErrorIs(t, c.AddItem(product("Lamp", 20), -1), models.ErrValidation)
	assert.Equal(t, 0, c.Len())
}

func TestTotalUsesCapturedSaleState(t *testing.T) {
	c := New()
	onSale := product("Lamp", 20)
	onSale.OnSale = true
	onSale.SalePrice = decimal.NewFromInt(15)

	require.NoError(t, c.AddItem(product("Desk", 100), 1))
	require.NoError(t, c.AddItem(onSale, 2))

	assert.True(t, decimal.NewFromInt(130).Equal(c.Total()), c.Total().String())
}

func TestSnapshotIsIndependentOfCaller(t *testing.T) {
	c := New()
	p := product("Lamp", 20)
	require.NoError(t, c.AddItem(p, 3))

	p.Price = decimal.NewFromInt(99)
	p.SalePrice = p.Price

	assert.True(t, decimal.NewFromInt(60).Equal(c.Total()))
}

func TestMergeKeepsFirstCapturedPrice(t *testing.T) {
	c := New()
	require.NoError(t, c.AddItem(product("Lamp", 20), 1))
	require.NoError(t, c.AddItem(product("Lamp", 15), 1))

	assert.True(t, decimal.NewFromInt(40).Equal(c.Total()))
}

func TestCheckout(t *testing.T) {
	t.Run("empty cart", func(t *testing.T) {
		c := New()
		names, err := c.Checkout(shipTo)
		assert.ErrorIs(t, err, models.ErrEmptyCart)
		assert.Nil(t, names)
	})

	t.Run("one name per line and cart cleared", func(t *testing.T) {
		c := New()
		require.NoError(t, c.AddItem(product("Lamp", 20), 3))
		require.NoError(t, c.AddItem(product("Desk", 100), 1))

		names, err := c.Checkout(shipTo)
		require.NoError(t, err)
		assert.Equal(t, []string{"Lamp", "Desk"}, names)
		assert.Equal(t, 0, c.Len())
		assert.True(t, c.Total().IsZero())
	})

	t.Run("incomplete shipping keeps lines", func(t *testing.T) {
		c := New()
		require.NoError(t, c.AddItem(product("Lamp", 20), 1))

		_, err := c.Checkout(models.ShippingInfo{Address: "1 Main St"})
		assert.ErrorIs(t, err, models.ErrValidation)
		assert.Equal(t, 1, c.Len())
	})
}
