package service

import (
	"context"
	"fmt"
	"sync"

	"minitemu/internal/models"
	"minitemu/internal/util"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SalesReport folds OrderPlaced events into per-product totals. Events are
// de-duplicated by event ID so redelivery does not double count.
type SalesReport struct {
	mu        sync.RWMutex
	lines     map[string]*models.SalesLine
	order     []string
	processed map[string]struct{}
	logger    *zap.Logger
}

// NewSalesReport creates an empty sales report
func NewSalesReport() *SalesReport {
	return &SalesReport{
		lines:     make(map[string]*models.SalesLine),
		processed: make(map[string]struct{}),
		logger:    util.GetLogger(),
	}
}

// HandleOrderPlaced records the items of a placed order
func (r *SalesReport) HandleOrderPlaced(ctx context.Context, event *models.OrderPlacedEvent) error {
	_, span := util.StartSpan(ctx, "SalesReport.HandleOrderPlaced")
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, done := r.processed[event.EventID]; done {
		r.logger.Info("Event already processed", zap.String("event_id", event.EventID))
		return nil
	}

	type parsed struct {
		item  models.OrderItemData
		price decimal.Decimal
	}
	items := make([]parsed, 0, len(event.Items))
	for _, it := range event.Items {
		price, err := decimal.NewFromString(it.UnitPrice)
		if err != nil {
			return fmt.Errorf("invalid unit price %q for %s: %w", it.UnitPrice, it.ProductName, err)
		}
		items = append(items, parsed{item: it, price: price})
	}

	for _, p := range items {
		line, ok := r.lines[p.item.ProductName]
		if !ok {
			line = &models.SalesLine{ProductName: p.item.ProductName, Revenue: decimal.Zero}
			r.lines[p.item.ProductName] = line
			r.order = append(r.order, p.item.ProductName)
		}
		line.UnitsSold += p.item.Quantity
		line.Revenue = line.Revenue.Add(p.price.Mul(decimal.NewFromInt(int64(p.item.Quantity))))
		line.Orders++
	}

	r.processed[event.EventID] = struct{}{}
	return nil
}

// Lines returns the report in first-sale order
func (r *SalesReport) Lines() []models.SalesLine {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.SalesLine, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, *r.lines[name])
	}
	return out
}
