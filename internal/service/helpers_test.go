package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"minitemu/internal/broker"
	"minitemu/internal/identity"
	"minitemu/internal/models"
	"minitemu/internal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	mu     sync.Mutex
	events []interface{}
}

func (r *recordingSink) PublishEvent(_ context.Context, _ string, event interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *recordingSink) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		switch v := e.(type) {
		case *models.ProductListedEvent:
			out = append(out, v.EventType)
		case *models.PriceEvent:
			out = append(out, v.EventType)
		case *models.ProductRestockedEvent:
			out = append(out, v.EventType)
		case *models.ReviewPostedEvent:
			out = append(out, v.EventType)
		case *models.OrderPlacedEvent:
			out = append(out, v.EventType)
		}
	}
	return out
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newCatalog(t *testing.T) (*CatalogService, *recordingSink) {
	t.Helper()
	sink := &recordingSink{}
	svc := NewCatalogService(store.NewStore(), broker.NewEventPublisher(sink))
	svc.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	return svc, sink
}

type fixture struct {
	ctx      context.Context
	sc       *SessionController
	catalog  *CatalogService
	sales    *SalesReport
	registry *identity.Registry
	sink     *recordingSink
}

// newFixture wires the controller the way cmd/server does with Kafka disabled:
// events flow through a LocalSink into the sales report.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	sales := NewSalesReport()
	handler := broker.NewEventHandler()
	handler.OnOrderPlaced(sales.HandleOrderPlaced)

	sink := &recordingSink{}
	publisher := broker.NewEventPublisher(fanOut{sink, broker.NewLocalSink(handler)})
	catalog := NewCatalogService(store.NewStore(), publisher)
	registry := identity.NewRegistry()

	return &fixture{
		ctx:      context.Background(),
		sc:       NewSessionController(registry, catalog, sales, publisher, nil, time.Hour),
		catalog:  catalog,
		sales:    sales,
		registry: registry,
		sink:     sink,
	}
}

type fanOut []broker.EventSink

func (f fanOut) PublishEvent(ctx context.Context, key string, event interface{}) error {
	for _, s := range f {
		if err := s.PublishEvent(ctx, key, event); err != nil {
			return err
		}
	}
	return nil
}

func (f *fixture) signUp(t *testing.T, username, role string) {
	t.Helper()
	_, err := f.sc.SignUp(f.ctx, username, "pw-"+username, role)
	require.NoError(t, err)
}

// as switches the session to username, logging out whoever is active
func (f *fixture) as(t *testing.T, username string) {
	t.Helper()
	if f.sc.Current() != nil {
		require.NoError(t, f.sc.Logout(f.ctx))
	}
	_, err := f.sc.Login(f.ctx, username, "pw-"+username)
	require.NoError(t, err)
}

var shipTo = models.ShippingInfo{Address: "1 Main St", City: "Springfield", PostalCode: "12345"}
