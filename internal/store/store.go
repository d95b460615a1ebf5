package store

import (
	"fmt"
	"strings"
	"sync"

	"minitemu/internal/models"
)

// Store is the in-memory product catalog. Products are kept in insertion order;
// name lookups resolve to the first match.
type Store struct {
	mu       sync.RWMutex
	products []*models.Product
}

// NewStore creates an empty catalog store
func NewStore() *Store {
	return &Store{}
}

// InsertProduct appends a product and reports whether the name was already taken
func (s *Store) InsertProduct(p models.Product) (duplicate bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	duplicate = s.find(p.Name) != nil
	cp := p.Clone()
	s.products = append(s.products, &cp)
	return duplicate
}

// GetProductByName retrieves a copy of the first product with the exact name
func (s *Store) GetProductByName(name string) (models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p := s.find(name)
	if p == nil {
		return models.Product{}, fmt.Errorf("%w: product %q", models.ErrNotFound, name)
	}
	return p.Clone(), nil
}

// GetProducts retrieves copies of all products in insertion order
func (s *Store) GetProducts() []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, p.Clone())
	}
	return out
}

// SearchProducts returns products whose name or category contains query
func (s *Store) SearchProducts(query string) []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Product, 0)
	for _, p := range s.products {
		if strings.Contains(p.Name, query) || strings.Contains(p.Category, query) {
			out = append(out, p.Clone())
		}
	}
	return out
}

// UpdateProduct runs fn against the first product named name while holding the
// write lock. fn works on a copy; the copy replaces the stored product only when
// fn returns nil, so a failed update leaves the catalog untouched.
func (s *Store) UpdateProduct(name string, fn func(p *models.Product) error) (models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.find(name)
	if p == nil {
		return models.Product{}, fmt.Errorf("%w: product %q", models.ErrNotFound, name)
	}

	next := p.Clone()
	if err := fn(&next); err != nil {
		return models.Product{}, err
	}
	*p = next
	return next.Clone(), nil
}

// ReduceStock decrements stock in one critical section
func (s *Store) ReduceStock(name string, quantity int) (models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.find(name)
	if p == nil {
		return models.Product{}, fmt.Errorf("%w: product %q not found", models.ErrInsufficientStock, name)
	}
	if p.Quantity < quantity {
		return models.Product{}, fmt.Errorf("%w: available=%d, requested=%d",
			models.ErrInsufficientStock, p.Quantity, quantity)
	}

	p.Quantity -= quantity
	return p.Clone(), nil
}

// Len returns the number of stored products
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.products)
}

func (s *Store) find(name string) *models.Product {
	for _, p := range s.products {
		if p.Name == name {
			return p
		}
	}
	return nil
}
