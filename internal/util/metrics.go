package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ProductsListedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "products_listed_total",
		Help: "Total number of products added to the catalog",
	})

	CatalogRejectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_rejections_total",
		Help: "Total number of rejected catalog operations",
	}, []string{"operation", "reason"})

	SalesStartedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sales_started_total",
		Help: "Total number of products put on sale",
	})

	StockReductionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stock_reductions_total",
		Help: "Total number of stock reduction attempts",
	}, []string{"result"})

	ReviewsPostedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reviews_posted_total",
		Help: "Total number of reviews accepted",
	})

	CartAddsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cart_adds_total",
		Help: "Total number of successful add-to-cart commands",
	})

	CheckoutsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "checkouts_total",
		Help: "Total number of orders placed",
	})

	CheckoutsFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "checkouts_failed_total",
		Help: "Total number of failed checkouts",
	}, []string{"reason"})

	CheckoutLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "checkout_latency_seconds",
		Help:    "Latency of checkout processing",
		Buckets: prometheus.DefBuckets,
	})

	LoginsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "logins_total",
		Help: "Total number of login attempts",
	}, []string{"result"})

	RegistrationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "registrations_total",
		Help: "Total number of registration attempts",
	}, []string{"role", "result"})

	AuthorizationDeniedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "authorization_denied_total",
		Help: "Total number of commands rejected by role gating",
	}, []string{"command"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
