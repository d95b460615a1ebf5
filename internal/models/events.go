package models

import "time"

// Event types
const (
	EventTypeProductListed    = "PRODUCT_LISTED"
	EventTypeSaleStarted      = "SALE_STARTED"
	EventTypeSaleEnded        = "SALE_ENDED"
	EventTypePriceChanged     = "PRICE_CHANGED"
	EventTypeProductRestocked = "PRODUCT_RESTOCKED"
	EventTypeReviewPosted     = "REVIEW_POSTED"
	EventTypeOrderPlaced      = "ORDER_PLACED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// ProductListedEvent published when a seller adds a product
type ProductListedEvent struct {
	BaseEvent
	ProductName string `json:"product_name"`
	Category    string `json:"category"`
	SellerName  string `json:"seller_name"`
	Price       string `json:"price"`
	Quantity    int    `json:"quantity"`
}

// PriceEvent covers sale start/end and price changes
type PriceEvent struct {
	BaseEvent
	ProductName string `json:"product_name"`
	Price       string `json:"price"`
	SalePrice   string `json:"sale_price"`
	OnSale      bool   `json:"on_sale"`
	DiscountPct string `json:"discount_pct,omitempty"`
}

// ProductRestockedEvent published when stock is added
type ProductRestockedEvent struct {
	BaseEvent
	ProductName string `json:"product_name"`
	Added       int    `json:"added"`
	Quantity    int    `json:"quantity"`
}

// ReviewPostedEvent published when a review is accepted
type ReviewPostedEvent struct {
	BaseEvent
	ProductName   string  `json:"product_name"`
	ReviewID      string  `json:"review_id"`
	Username      string  `json:"username"`
	Rating        int     `json:"rating"`
	AverageRating float64 `json:"average_rating"`
}

// OrderPlacedEvent published after a successful checkout
type OrderPlacedEvent struct {
	BaseEvent
	OrderID  string          `json:"order_id"`
	Username string          `json:"username"`
	Total    string          `json:"total"`
	Items    []OrderItemData `json:"items"`
}

// OrderItemData represents item data in events
type OrderItemData struct {
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
}
