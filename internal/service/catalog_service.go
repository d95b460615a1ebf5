package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"minitemu/internal/broker"
	"minitemu/internal/models"
	"minitemu/internal/store"
	"minitemu/internal/util"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var hundred = decimal.NewFromInt(100)

// CatalogService is the inventory authority: stock, sale pricing and reviews.
// It is role-agnostic; access control lives in SessionController.
type CatalogService struct {
	store          *store.Store
	eventPublisher *broker.EventPublisher
	logger         *zap.Logger
	now            func() time.Time
}

// NewCatalogService creates a new catalog service
func NewCatalogService(store *store.Store, eventPublisher *broker.EventPublisher) *CatalogService {
	return &CatalogService{
		store:          store,
		eventPublisher: eventPublisher,
		logger:         util.GetLogger(),
		now:            time.Now,
	}
}

// AddProduct lists a new product with no sale and no reviews
func (s *CatalogService) AddProduct(ctx context.Context, name string, price decimal.Decimal, category string, quantity int, seller string) (models.Product, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.AddProduct")
	defer span.End()
	span.SetAttributes(attribute.String("product.name", name))

	if strings.TrimSpace(name) == "" {
		return models.Product{}, s.reject(span, "add_product", fmt.Errorf("%w: product name is required", models.ErrValidation))
	}
	if !price.IsPositive() {
		return models.Product{}, s.reject(span, "add_product", fmt.Errorf("%w: price must be greater than zero: %s", models.ErrValidation, price))
	}
	if quantity < 0 {
		return models.Product{}, s.reject(span, "add_product", fmt.Errorf("%w: quantity must not be negative: %d", models.ErrValidation, quantity))
	}

	product := models.Product{
		Name:       name,
		Price:      price,
		Category:   category,
		Quantity:   quantity,
		SellerName: seller,
		SalePrice:  price,
	}

	if duplicate := s.store.InsertProduct(product); duplicate {
		s.logger.Warn("Product name already listed, lookups resolve to the first listing",
			zap.String("product", name))
	}

	util.ProductsListedTotal.Inc()
	s.logger.Info("Product listed",
		zap.String("product", name),
		zap.String("price", price.StringFixed(2)),
		zap.Int("quantity", quantity),
		zap.String("seller", seller))

	event := &models.ProductListedEvent{
		BaseEvent:   s.baseEvent(models.EventTypeProductListed),
		ProductName: name,
		Category:    category,
		SellerName:  seller,
		Price:       price.StringFixed(2),
		Quantity:    quantity,
	}
	if err := s.eventPublisher.PublishProductListed(ctx, event); err != nil {
		s.logger.Error("Failed to publish ProductListed event", zap.Error(err))
	}

	span.SetStatus(codes.Ok, "product listed")
	return product, nil
}

// FindByName returns the first product with exactly this name
func (s *CatalogService) FindByName(ctx context.Context, name string) (models.Product, error) {
	_, span := util.StartSpan(ctx, "CatalogService.FindByName")
	defer span.End()

	return s.store.GetProductByName(name)
}

// Search returns products whose name or category contains query
func (s *CatalogService) Search(ctx context.Context, query string) []models.Product {
	_, span := util.StartSpan(ctx, "CatalogService.Search")
	defer span.End()

	results := s.store.SearchProducts(query)
	span.SetAttributes(attribute.String("search.query", query), attribute.Int("search.results", len(results)))
	return results
}

// ListProducts returns every product in listing order
func (s *CatalogService) ListProducts(ctx context.Context) []models.Product {
	_, span := util.StartSpan(ctx, "CatalogService.ListProducts")
	defer span.End()

	return s.store.GetProducts()
}

// ReduceQuantity atomically checks and decrements stock. A failure leaves the
// quantity untouched.
func (s *CatalogService) ReduceQuantity(ctx context.Context, name string, amount int) (models.Product, error) {
	_, span := util.StartSpan(ctx, "CatalogService.ReduceQuantity")
	defer span.End()
	span.SetAttributes(attribute.String("product.name", name), attribute.Int("stock.requested", amount))

	if amount <= 0 {
		return models.Product{}, s.reject(span, "reduce_quantity", fmt.Errorf("%w: amount must be greater than zero: %d", models.ErrValidation, amount))
	}

	product, err := s.store.ReduceStock(name, amount)
	if err != nil {
		util.StockReductionsTotal.WithLabelValues("rejected").Inc()
		return models.Product{}, s.reject(span, "reduce_quantity", err)
	}

	util.StockReductionsTotal.WithLabelValues("ok").Inc()
	span.SetAttributes(attribute.Int("stock.remaining", product.Quantity))
	return product, nil
}

// Restock adds amount units to a product
func (s *CatalogService) Restock(ctx context.Context, name string, amount int) (models.Product, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.Restock")
	defer span.End()

	if amount <= 0 {
		return models.Product{}, s.reject(span, "restock", fmt.Errorf("%w: amount must be greater than zero: %d", models.ErrValidation, amount))
	}

	product, err := s.store.UpdateProduct(name, func(p *models.Product) error {
		if amount > math.MaxInt-p.Quantity {
			return fmt.Errorf("%w: restocking %d units would overflow the stock of %d", models.ErrValidation, amount, p.Quantity)
		}
		p.Quantity += amount
		return nil
	})
	if err != nil {
		return models.Product{}, s.reject(span, "restock", err)
	}

	event := &models.ProductRestockedEvent{
		BaseEvent:   s.baseEvent(models.EventTypeProductRestocked),
		ProductName: name,
		Added:       amount,
		Quantity:    product.Quantity,
	}
	if err := s.eventPublisher.PublishProductRestocked(ctx, event); err != nil {
		s.logger.Error("Failed to publish ProductRestocked event", zap.Error(err))
	}
	return product, nil
}

// SetOnSale applies a discount of 0 < discountPct <= 100 percent
func (s *CatalogService) SetOnSale(ctx context.Context, name string, discountPct decimal.Decimal) (models.Product, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.SetOnSale")
	defer span.End()
	span.SetAttributes(attribute.String("product.name", name), attribute.String("sale.discount_pct", discountPct.String()))

	if !discountPct.IsPositive() || discountPct.GreaterThan(hundred) {
		return models.Product{}, s.reject(span, "set_on_sale",
			fmt.Errorf("%w: discount must be greater than 0 and at most 100: %s", models.ErrValidation, discountPct))
	}

	product, err := s.store.UpdateProduct(name, func(p *models.Product) error {
		p.OnSale = true
		p.DiscountPct = discountPct
		p.SalePrice = discounted(p.Price, discountPct)
		return nil
	})
	if err != nil {
		return models.Product{}, s.reject(span, "set_on_sale", err)
	}

	util.SalesStartedTotal.Inc()
	s.logger.Info("Product on sale",
		zap.String("product", name),
		zap.String("discount_pct", discountPct.String()),
		zap.String("sale_price", product.SalePrice.StringFixed(2)))

	s.publishPrice(ctx, models.EventTypeSaleStarted, product)
	return product, nil
}

// EndSale reverts the product to its regular price
func (s *CatalogService) EndSale(ctx context.Context, name string) (models.Product, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.EndSale")
	defer span.End()

	product, err := s.store.UpdateProduct(name, func(p *models.Product) error {
		p.OnSale = false
		p.DiscountPct = decimal.Zero
		p.SalePrice = p.Price
		return nil
	})
	if err != nil {
		return models.Product{}, s.reject(span, "end_sale", err)
	}

	s.publishPrice(ctx, models.EventTypeSaleEnded, product)
	return product, nil
}

// SetPrice changes the regular price; a running sale keeps its discount
func (s *CatalogService) SetPrice(ctx context.Context, name string, price decimal.Decimal) (models.Product, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.SetPrice")
	defer span.End()

	if !price.IsPositive() {
		return models.Product{}, s.reject(span, "set_price", fmt.Errorf("%w: price must be greater than zero: %s", models.ErrValidation, price))
	}

	product, err := s.store.UpdateProduct(name, func(p *models.Product) error {
		p.Price = price
		if p.OnSale {
			p.SalePrice = discounted(price, p.DiscountPct)
		} else {
			p.SalePrice = price
		}
		return nil
	})
	if err != nil {
		return models.Product{}, s.reject(span, "set_price", err)
	}

	s.publishPrice(ctx, models.EventTypePriceChanged, product)
	return product, nil
}

// AddReview appends a review and recomputes the average rating over all reviews.
// It does not check whether the reviewer bought the product.
func (s *CatalogService) AddReview(ctx context.Context, name, username, comment string, rating int) (models.Review, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.AddReview")
	defer span.End()
	span.SetAttributes(attribute.String("product.name", name), attribute.Int("review.rating", rating))

	if rating < models.MinRating || rating > models.MaxRating {
		return models.Review{}, s.reject(span, "add_review",
			fmt.Errorf("%w: rating must be between %d and %d: %d", models.ErrValidation, models.MinRating, models.MaxRating, rating))
	}

	review := models.Review{
		ID:        uuid.New().String(),
		Username:  username,
		Comment:   comment,
		Rating:    rating,
		CreatedAt: s.now(),
	}

	product, err := s.store.UpdateProduct(name, func(p *models.Product) error {
		p.Reviews = append(p.Reviews, review)
		p.AverageRating = averageRating(p.Reviews)
		return nil
	})
	if err != nil {
		return models.Review{}, s.reject(span, "add_review", err)
	}

	util.ReviewsPostedTotal.Inc()
	s.logger.Info("Review posted",
		zap.String("product", name),
		zap.String("username", username),
		zap.Int("rating", rating),
		zap.Float64("average_rating", product.AverageRating))

	event := &models.ReviewPostedEvent{
		BaseEvent:     s.baseEvent(models.EventTypeReviewPosted),
		ProductName:   name,
		ReviewID:      review.ID,
		Username:      username,
		Rating:        rating,
		AverageRating: product.AverageRating,
	}
	if err := s.eventPublisher.PublishReviewPosted(ctx, event); err != nil {
		s.logger.Error("Failed to publish ReviewPosted event", zap.Error(err))
	}

	return review, nil
}

func (s *CatalogService) publishPrice(ctx context.Context, eventType string, p models.Product) {
	event := &models.PriceEvent{
		BaseEvent:   s.baseEvent(eventType),
		ProductName: p.Name,
		Price:       p.Price.StringFixed(2),
		SalePrice:   p.SalePrice.StringFixed(2),
		OnSale:      p.OnSale,
	}
	if p.OnSale {
		event.DiscountPct = p.DiscountPct.String()
	}
	if err := s.eventPublisher.PublishPriceEvent(ctx, event); err != nil {
		s.logger.Error("Failed to publish price event", zap.String("type", eventType), zap.Error(err))
	}
}

func (s *CatalogService) baseEvent(eventType string) models.BaseEvent {
	return models.BaseEvent{
		EventID:   uuid.New().String(),
		EventType: eventType,
		Timestamp: s.now(),
	}
}

func (s *CatalogService) reject(span trace.Span, operation string, err error) error {
	util.CatalogRejectionsTotal.WithLabelValues(operation, errorReason(err)).Inc()
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	s.logger.Debug("Catalog operation rejected", zap.String("operation", operation), zap.Error(err))
	return err
}

// discounted computes price * (1 - pct/100)
func discounted(price, pct decimal.Decimal) decimal.Decimal {
	return price.Mul(hundred.Sub(pct)).Div(hundred)
}

func averageRating(reviews []models.Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	return float64(sum) / float64(len(reviews))
}
