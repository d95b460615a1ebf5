package service

import (
	"context"
	"fmt"
	"time"

	"minitemu/internal/broker"
	"minitemu/internal/identity"
	"minitemu/internal/models"
	"minitemu/internal/util"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// SessionController drives one interactive session at a time. It authenticates
// against the registry and gates every command by the logged-in role before
// reaching the catalog or the customer's cart.
type SessionController struct {
	registry       *identity.Registry
	catalog        *CatalogService
	sales          *SalesReport
	eventPublisher *broker.EventPublisher
	idempotency    IdempotencyStore
	idempotencyTTL time.Duration
	logger         *zap.Logger

	current identity.Identity
}

// NewSessionController creates a controller in the LoggedOut state. A nil
// idempotency store falls back to process memory.
func NewSessionController(
	registry *identity.Registry,
	catalog *CatalogService,
	sales *SalesReport,
	eventPublisher *broker.EventPublisher,
	idempotency IdempotencyStore,
	idempotencyTTL time.Duration,
) *SessionController {
	if idempotency == nil {
		idempotency = NewMemoryIdempotencyStore()
	}
	return &SessionController{
		registry:       registry,
		catalog:        catalog,
		sales:          sales,
		eventPublisher: eventPublisher,
		idempotency:    idempotency,
		idempotencyTTL: idempotencyTTL,
		logger:         util.GetLogger(),
	}
}

// AddProductRequest carries the fields a seller supplies for a new listing
type AddProductRequest struct {
	Name       string
	Price      decimal.Decimal
	Category   string
	Quantity   int
	SellerName string
}

// CartView is the rendered content of a cart
type CartView struct {
	Lines []models.CartItem `json:"lines"`
	Total decimal.Decimal   `json:"total"`
}

// Current returns the logged-in identity, or nil when logged out
func (sc *SessionController) Current() identity.Identity {
	return sc.current
}

// SignUp registers a new account. role is "customer" or "seller", any case.
func (sc *SessionController) SignUp(ctx context.Context, username, password, role string) (identity.Identity, error) {
	_, span := util.StartSpan(ctx, "SessionController.SignUp")
	defer span.End()

	r, ok := models.ParseRole(role)
	if !ok {
		util.RegistrationsTotal.WithLabelValues("unknown", "invalid_role").Inc()
		return nil, fmt.Errorf("%w: role must be customer or seller, got %q", models.ErrValidation, role)
	}

	id, err := sc.registry.Register(username, password, r)
	if err != nil {
		util.RegistrationsTotal.WithLabelValues(string(r), errorReason(err)).Inc()
		return nil, err
	}

	util.RegistrationsTotal.WithLabelValues(string(r), "ok").Inc()
	sc.logger.Info("Account registered", zap.String("username", username), zap.String("role", string(r)))
	return id, nil
}

// Login authenticates and moves the session to LoggedIn. Logging in while a
// session is active is rejected.
func (sc *SessionController) Login(ctx context.Context, username, password string) (identity.Identity, error) {
	_, span := util.StartSpan(ctx, "SessionController.Login")
	defer span.End()

	if sc.current != nil {
		util.LoginsTotal.WithLabelValues("session_active").Inc()
		return nil, fmt.Errorf("%w: %s is already logged in, log out first", models.ErrAuthorization, sc.current.Username())
	}

	id, err := sc.registry.Authenticate(username, password)
	if err != nil {
		util.LoginsTotal.WithLabelValues("failed").Inc()
		sc.logger.Info("Login failed", zap.String("username", username))
		return nil, err
	}

	sc.current = id
	util.LoginsTotal.WithLabelValues("ok").Inc()
	span.SetAttributes(attribute.String("session.role", string(id.Role())))
	sc.logger.Info("Login successful", zap.String("username", username), zap.String("role", string(id.Role())))
	return id, nil
}

// Logout ends the active session
func (sc *SessionController) Logout(ctx context.Context) error {
	id, err := sc.authorize(identity.CmdLogout)
	if err != nil {
		return err
	}
	sc.current = nil
	sc.logger.Info("Logged out", zap.String("username", id.Username()))
	return nil
}

// ViewAllProducts lists the catalog
func (sc *SessionController) ViewAllProducts(ctx context.Context) ([]models.Product, error) {
	if _, err := sc.authorize(identity.CmdViewAllProducts); err != nil {
		return nil, err
	}
	return sc.catalog.ListProducts(ctx), nil
}

// ViewProductDetails returns one product with its reviews
func (sc *SessionController) ViewProductDetails(ctx context.Context, name string) (models.Product, error) {
	if _, err := sc.authorize(identity.CmdViewProductDetails); err != nil {
		return models.Product{}, err
	}
	return sc.catalog.FindByName(ctx, name)
}

// AddProduct lists a product on behalf of the logged-in seller. The seller name
// on the listing is taken from the request and may differ from the username.
func (sc *SessionController) AddProduct(ctx context.Context, req AddProductRequest) (models.Product, error) {
	if _, err := sc.seller(identity.CmdAddProduct); err != nil {
		return models.Product{}, err
	}
	return sc.catalog.AddProduct(ctx, req.Name, req.Price, req.Category, req.Quantity, req.SellerName)
}

// SetOnSale discounts a product
func (sc *SessionController) SetOnSale(ctx context.Context, name string, discountPct decimal.Decimal) (models.Product, error) {
	if _, err := sc.seller(identity.CmdSetOnSale); err != nil {
		return models.Product{}, err
	}
	return sc.catalog.SetOnSale(ctx, name, discountPct)
}

// EndSale restores the regular price
func (sc *SessionController) EndSale(ctx context.Context, name string) (models.Product, error) {
	if _, err := sc.seller(identity.CmdEndSale); err != nil {
		return models.Product{}, err
	}
	return sc.catalog.EndSale(ctx, name)
}

// SetPrice changes a product's regular price
func (sc *SessionController) SetPrice(ctx context.Context, name string, price decimal.Decimal) (models.Product, error) {
	if _, err := sc.seller(identity.CmdSetPrice); err != nil {
		return models.Product{}, err
	}
	return sc.catalog.SetPrice(ctx, name, price)
}

// Restock adds stock to a product
func (sc *SessionController) Restock(ctx context.Context, name string, amount int) (models.Product, error) {
	if _, err := sc.seller(identity.CmdRestock); err != nil {
		return models.Product{}, err
	}
	return sc.catalog.Restock(ctx, name, amount)
}

// ViewInventory lists every product with stock and rating
func (sc *SessionController) ViewInventory(ctx context.Context) ([]models.Product, error) {
	if _, err := sc.seller(identity.CmdViewInventory); err != nil {
		return nil, err
	}
	return sc.catalog.ListProducts(ctx), nil
}

// ViewSalesReport returns units and revenue per product
func (sc *SessionController) ViewSalesReport(ctx context.Context) ([]models.SalesLine, error) {
	if _, err := sc.seller(identity.CmdViewSalesReport); err != nil {
		return nil, err
	}
	return sc.sales.Lines(), nil
}

// Search finds products by name or category substring
func (sc *SessionController) Search(ctx context.Context, query string) ([]models.Product, error) {
	if _, err := sc.customer(identity.CmdSearch); err != nil {
		return nil, err
	}
	return sc.catalog.Search(ctx, query), nil
}

// AddToCart takes quantity units out of catalog stock and adds a snapshot of
// the product to the customer's cart. Nothing changes when stock is short.
func (sc *SessionController) AddToCart(ctx context.Context, name string, quantity int) (models.CartItem, error) {
	ctx, span := util.StartSpan(ctx, "SessionController.AddToCart")
	defer span.End()

	cust, err := sc.customer(identity.CmdAddToCart)
	if err != nil {
		return models.CartItem{}, err
	}
	if quantity <= 0 {
		return models.CartItem{}, fmt.Errorf("%w: quantity must be greater than zero: %d", models.ErrValidation, quantity)
	}
	if _, err := sc.catalog.FindByName(ctx, name); err != nil {
		return models.CartItem{}, err
	}

	snapshot, err := sc.catalog.ReduceQuantity(ctx, name, quantity)
	if err != nil {
		return models.CartItem{}, err
	}
	if err := cust.Cart().AddItem(snapshot, quantity); err != nil {
		return models.CartItem{}, err
	}

	util.CartAddsTotal.Inc()
	sc.logger.Info("Added to cart",
		zap.String("username", cust.Username()),
		zap.String("product", name),
		zap.Int("quantity", quantity))
	return models.CartItem{Product: snapshot, Quantity: quantity}, nil
}

// ViewCart returns the cart lines and total at captured prices
func (sc *SessionController) ViewCart(ctx context.Context) (CartView, error) {
	cust, err := sc.customer(identity.CmdViewCart)
	if err != nil {
		return CartView{}, err
	}
	return CartView{Lines: cust.Cart().Lines(), Total: cust.Cart().Total()}, nil
}

// Checkout places an order for the whole cart. A non-empty idempotencyKey that
// was already used by this customer returns the earlier order unchanged.
func (sc *SessionController) Checkout(ctx context.Context, shipping models.ShippingInfo, idempotencyKey string) (models.Order, error) {
	ctx, span := util.StartSpan(ctx, "SessionController.Checkout")
	defer span.End()

	start := time.Now()
	defer func() {
		util.CheckoutLatency.Observe(time.Since(start).Seconds())
	}()

	cust, err := sc.customer(identity.CmdCheckout)
	if err != nil {
		return models.Order{}, err
	}

	scopedKey := ""
	if idempotencyKey != "" {
		scopedKey = cust.Username() + ":" + idempotencyKey
		orderID, found, err := sc.idempotency.GetIdempotencyKey(ctx, scopedKey)
		if err != nil {
			sc.logger.Warn("Idempotency lookup failed", zap.String("key", idempotencyKey), zap.Error(err))
		} else if found {
			if order, ok := cust.FindOrder(orderID); ok {
				sc.logger.Info("Duplicate checkout request detected",
					zap.String("idempotency_key", idempotencyKey),
					zap.String("order_id", order.ID))
				return order, nil
			}
		}
	}

	order, err := cust.Checkout(shipping)
	if err != nil {
		util.CheckoutsFailedTotal.WithLabelValues(errorReason(err)).Inc()
		return models.Order{}, err
	}

	if scopedKey != "" {
		if err := sc.idempotency.SetIdempotencyKey(ctx, scopedKey, order.ID, sc.idempotencyTTL); err != nil {
			sc.logger.Error("Failed to store idempotency key", zap.String("order_id", order.ID), zap.Error(err))
		}
	}

	util.CheckoutsTotal.Inc()
	span.SetAttributes(attribute.String("order.id", order.ID), attribute.Int("order.lines", len(order.Lines)))
	sc.logger.Info("Order placed",
		zap.String("order_id", order.ID),
		zap.String("username", cust.Username()),
		zap.String("total", order.Total.StringFixed(2)))

	sc.publishOrderPlaced(ctx, order)
	return order, nil
}

// ViewOrders returns the customer's order history
func (sc *SessionController) ViewOrders(ctx context.Context) ([]models.Order, error) {
	cust, err := sc.customer(identity.CmdViewOrders)
	if err != nil {
		return nil, err
	}
	return cust.Orders(), nil
}

// WriteReview posts a review for a product the customer has checked out
func (sc *SessionController) WriteReview(ctx context.Context, name string, rating int, comment string) (models.Review, error) {
	cust, err := sc.customer(identity.CmdWriteReview)
	if err != nil {
		return models.Review{}, err
	}
	if !cust.HasPurchased(name) {
		util.AuthorizationDeniedTotal.WithLabelValues(string(identity.CmdWriteReview)).Inc()
		return models.Review{}, fmt.Errorf("%w: you can only review products you have purchased", models.ErrAuthorization)
	}
	return sc.catalog.AddReview(ctx, name, cust.Username(), comment, rating)
}

func (sc *SessionController) publishOrderPlaced(ctx context.Context, order models.Order) {
	items := make([]models.OrderItemData, 0, len(order.Lines))
	for _, l := range order.Lines {
		items = append(items, models.OrderItemData{
			ProductName: l.ProductName,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice.String(),
		})
	}

	event := &models.OrderPlacedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderPlaced,
			Timestamp: time.Now(),
		},
		OrderID:  order.ID,
		Username: order.Username,
		Total:    order.Total.String(),
		Items:    items,
	}
	if err := sc.eventPublisher.PublishOrderPlaced(ctx, event); err != nil {
		sc.logger.Error("Failed to publish OrderPlaced event", zap.Error(err))
	}
}

func (sc *SessionController) authorize(cmd identity.Command) (identity.Identity, error) {
	if sc.current == nil {
		util.AuthorizationDeniedTotal.WithLabelValues(string(cmd)).Inc()
		return nil, fmt.Errorf("%w: log in to use %s", models.ErrAuthorization, cmd)
	}
	if !identity.Allowed(sc.current.Role(), cmd) {
		util.AuthorizationDeniedTotal.WithLabelValues(string(cmd)).Inc()
		return nil, fmt.Errorf("%w: %s is not available to %s accounts", models.ErrAuthorization, cmd, sc.current.Role())
	}
	return sc.current, nil
}

func (sc *SessionController) customer(cmd identity.Command) (*identity.Customer, error) {
	id, err := sc.authorize(cmd)
	if err != nil {
		return nil, err
	}
	switch v := id.(type) {
	case *identity.Customer:
		return v, nil
	default:
		return nil, fmt.Errorf("%w: %s requires a customer account", models.ErrAuthorization, cmd)
	}
}

func (sc *SessionController) seller(cmd identity.Command) (*identity.Seller, error) {
	id, err := sc.authorize(cmd)
	if err != nil {
		return nil, err
	}
	switch v := id.(type) {
	case *identity.Seller:
		return v, nil
	default:
		return nil, fmt.Errorf("%w: %s requires a seller account", models.ErrAuthorization, cmd)
	}
}
