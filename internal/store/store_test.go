package store

import (
	"errors"
	"sync"
	"testing"

	"minitemu/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lamp(qty int) models.Product {
	price := decimal.NewFromInt(20)
	return models.Product{
		Name:       "Lamp",
		Price:      price,
		SalePrice:  price,
		Category:   "Home",
		Quantity:   qty,
		SellerName: "Acme",
	}
}

func TestReduceStock(t *testing.T) {
	s := NewStore()
	s.InsertProduct(lamp(10))

	_, err := s.ReduceStock("Lamp", 11)
	assert.ErrorIs(t, err, models.ErrInsufficientStock)

	p, err := s.GetProductByName("Lamp")
	require.NoError(t, err)
	assert.Equal(t, 10, p.Quantity)

	p, err = s.ReduceStock("Lamp", 10)
	require.NoError(t, err)
	assert.Equal(t, 0, p.Quantity)
}

func TestReduceStockUnknownProduct(t *testing.T) {
	s := NewStore()
	_, err := s.ReduceStock("Ghost", 1)
	assert.ErrorIs(t, err, models.ErrInsufficientStock)
}

func TestDuplicateNamesFirstMatchWins(t *testing.T) {
	s := NewStore()
	first := lamp(1)
	second := lamp(2)
	second.Category = "Office"

	assert.False(t, s.InsertProduct(first))
	assert.True(t, s.InsertProduct(second))
	assert.Equal(t, 2, s.Len())

	p, err := s.GetProductByName("Lamp")
	require.NoError(t, err)
	assert.Equal(t, "Home", p.Category)
}

func TestGetProductByNameIsCaseSensitive(t *testing.T) {
	s := NewStore()
	s.InsertProduct(lamp(1))

	_, err := s.GetProductByName("lamp")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestSearchProducts(t *testing.T) {
	s := NewStore()
	s.InsertProduct(lamp(1))
	desk := lamp(1)
	desk.Name = "Desk"
	desk.Category = "Office"
	s.InsertProduct(desk)

	assert.Len(t, s.SearchProducts("Home"), 1)
	assert.Len(t, s.SearchProducts("es"), 1)
	assert.Len(t, s.SearchProducts(""), 2)
	assert.Empty(t, s.SearchProducts("home"))
}

func TestUpdateProductFailureLeavesProductUntouched(t *testing.T) {
	s := NewStore()
	s.InsertProduct(lamp(5))

	_, err := s.UpdateProduct("Lamp", func(p *models.Product) error {
		p.Quantity = 99
		return errors.New("boom")
	})
	require.Error(t, err)

	p, _ := s.GetProductByName("Lamp")
	assert.Equal(t, 5, p.Quantity)
}

func TestReturnedProductsAreCopies(t *testing.T) {
	s := NewStore()
	s.InsertProduct(lamp(5))
	_, err := s.UpdateProduct("Lamp", func(p *models.Product) error {
		p.Reviews = append(p.Reviews, models.Review{Rating: 4})
		return nil
	})
	require.NoError(t, err)

	p, _ := s.GetProductByName("Lamp")
	p.Reviews[0].Rating = 1
	p.Quantity = 0

	again, _ := s.GetProductByName("Lamp")
	assert.Equal(t, 4, again.Reviews[0].Rating)
	assert.Equal(t, 5, again.Quantity)
}

func TestConcurrentReduceStockNeverOversells(t *testing.T) {
	s := NewStore()
	s.InsertProduct(lamp(50))

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.ReduceStock("Lamp", 1); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	p, _ := s.GetProductByName("Lamp")
	assert.Equal(t, 50, succeeded)
	assert.Equal(t, 0, p.Quantity)
}
