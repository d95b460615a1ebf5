package api

import (
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"minitemu/internal/models"
	"minitemu/internal/service"
	"minitemu/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Handler exposes one marketplace session over HTTP. Requests are serialized
// because the session controller holds a single active identity.
type Handler struct {
	mu         sync.Mutex
	controller *service.SessionController
	ready      func() error
	logger     *zap.Logger
}

// NewHandler creates a new HTTP handler. ready may be nil.
func NewHandler(controller *service.SessionController, ready func() error) *Handler {
	return &Handler{
		controller: controller,
		ready:      ready,
		logger:     util.GetLogger(),
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	v1.Use(h.serialize())
	{
		v1.POST("/session/signup", h.signUp)
		v1.POST("/session/login", h.login)
		v1.POST("/session/logout", h.logout)

		v1.GET("/products", h.listProducts)
		v1.GET("/products/search", h.search)
		v1.GET("/products/:name", h.productDetails)
		v1.POST("/products", h.addProduct)
		v1.POST("/products/:name/sale", h.setOnSale)
		v1.DELETE("/products/:name/sale", h.endSale)
		v1.PUT("/products/:name/price", h.setPrice)
		v1.POST("/products/:name/restock", h.restock)
		v1.POST("/products/:name/reviews", h.writeReview)

		v1.GET("/inventory", h.inventory)
		v1.GET("/sales", h.salesReport)

		v1.GET("/cart", h.viewCart)
		v1.POST("/cart/items", h.addToCart)
		v1.POST("/cart/checkout", h.checkout)
		v1.GET("/orders", h.orders)
	}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type addProductRequest struct {
	Name       string          `json:"name" binding:"required"`
	Price      decimal.Decimal `json:"price"`
	Category   string          `json:"category"`
	Quantity   int             `json:"quantity"`
	SellerName string          `json:"seller_name"`
}

type saleRequest struct {
	DiscountPct decimal.Decimal `json:"discount_pct"`
}

type priceRequest struct {
	Price decimal.Decimal `json:"price"`
}

type restockRequest struct {
	Quantity int `json:"quantity"`
}

type reviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

type cartItemRequest struct {
	ProductName string `json:"product_name" binding:"required"`
	Quantity    int    `json:"quantity"`
}

// checkoutRequest is bound without validation tags so an empty cart is
// reported before missing shipping fields.
type checkoutRequest struct {
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
}

type sessionResponse struct {
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck reports whether the optional backends are reachable
func (h *Handler) readinessCheck(c *gin.Context) {
	if h.ready != nil {
		if err := h.ready(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "not ready",
				"details": err.Error(),
			})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

func (h *Handler) signUp(c *gin.Context) {
	var req credentialsRequest
	if !bind(c, &req) {
		return
	}
	id, err := h.controller.SignUp(c.Request.Context(), req.Username, req.Password, req.Role)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, sessionResponse{Username: id.Username(), Role: id.Role()})
}

func (h *Handler) login(c *gin.Context) {
	var req credentialsRequest
	if !bind(c, &req) {
		return
	}
	id, err := h.controller.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse{Username: id.Username(), Role: id.Role()})
}

func (h *Handler) logout(c *gin.Context) {
	if err := h.controller.Logout(c.Request.Context()); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listProducts(c *gin.Context) {
	products, err := h.controller.ViewAllProducts(c.Request.Context())
	respond(h, c, http.StatusOK, products, err)
}

func (h *Handler) search(c *gin.Context) {
	products, err := h.controller.Search(c.Request.Context(), c.Query("q"))
	respond(h, c, http.StatusOK, products, err)
}

func (h *Handler) productDetails(c *gin.Context) {
	product, err := h.controller.ViewProductDetails(c.Request.Context(), c.Param("name"))
	respond(h, c, http.StatusOK, product, err)
}

func (h *Handler) addProduct(c *gin.Context) {
	var req addProductRequest
	if !bind(c, &req) {
		return
	}
	product, err := h.controller.AddProduct(c.Request.Context(), service.AddProductRequest{
		Name:       req.Name,
		Price:      req.Price,
		Category:   req.Category,
		Quantity:   req.Quantity,
		SellerName: req.SellerName,
	})
	respond(h, c, http.StatusCreated, product, err)
}

func (h *Handler) setOnSale(c *gin.Context) {
	var req saleRequest
	if !bind(c, &req) {
		return
	}
	product, err := h.controller.SetOnSale(c.Request.Context(), c.Param("name"), req.DiscountPct)
	respond(h, c, http.StatusOK, product, err)
}

func (h *Handler) endSale(c *gin.Context) {
	product, err := h.controller.EndSale(c.Request.Context(), c.Param("name"))
	respond(h, c, http.StatusOK, product, err)
}

func (h *Handler) setPrice(c *gin.Context) {
	var req priceRequest
	if !bind(c, &req) {
		return
	}
	product, err := h.controller.SetPrice(c.Request.Context(), c.Param("name"), req.Price)
	respond(h, c, http.StatusOK, product, err)
}

func (h *Handler) restock(c *gin.Context) {
	var req restockRequest
	if !bind(c, &req) {
		return
	}
	product, err := h.controller.Restock(c.Request.Context(), c.Param("name"), req.Quantity)
	respond(h, c, http.StatusOK, product, err)
}

func (h *Handler) writeReview(c *gin.Context) {
	var req reviewRequest
	if !bind(c, &req) {
		return
	}
	review, err := h.controller.WriteReview(c.Request.Context(), c.Param("name"), req.Rating, req.Comment)
	respond(h, c, http.StatusCreated, review, err)
}

func (h *Handler) inventory(c *gin.Context) {
	products, err := h.controller.ViewInventory(c.Request.Context())
	respond(h, c, http.StatusOK, products, err)
}

func (h *Handler) salesReport(c *gin.Context) {
	lines, err := h.controller.ViewSalesReport(c.Request.Context())
	respond(h, c, http.StatusOK, lines, err)
}

func (h *Handler) viewCart(c *gin.Context) {
	view, err := h.controller.ViewCart(c.Request.Context())
	respond(h, c, http.StatusOK, view, err)
}

func (h *Handler) addToCart(c *gin.Context) {
	var req cartItemRequest
	if !bind(c, &req) {
		return
	}
	item, err := h.controller.AddToCart(c.Request.Context(), req.ProductName, req.Quantity)
	respond(h, c, http.StatusCreated, item, err)
}

func (h *Handler) checkout(c *gin.Context) {
	var req checkoutRequest
	if !bind(c, &req) {
		return
	}
	shipping := models.ShippingInfo{Address: req.Address, City: req.City, PostalCode: req.PostalCode}
	order, err := h.controller.Checkout(c.Request.Context(), shipping, c.GetHeader("Idempotency-Key"))
	respond(h, c, http.StatusCreated, order, err)
}

func (h *Handler) orders(c *gin.Context) {
	orders, err := h.controller.ViewOrders(c.Request.Context())
	respond(h, c, http.StatusOK, orders, err)
}

func respond(h *Handler, c *gin.Context, status int, body interface{}, err error) {
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(status, body)
}

func bind(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return false
	}
	return true
}

func (h *Handler) fail(c *gin.Context, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("Request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// StatusFor maps a marketplace error kind to an HTTP status
func StatusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrDuplicateUsername):
		return http.StatusConflict
	case errors.Is(err, models.ErrAuthentication):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrAuthorization):
		return http.StatusForbidden
	case errors.Is(err, models.ErrInsufficientStock), errors.Is(err, models.ErrEmptyCart):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) serialize() gin.HandlerFunc {
	return func(c *gin.Context) {
		h.mu.Lock()
		defer h.mu.Unlock()
		c.Next()
	}
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
