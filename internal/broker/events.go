package broker

import (
	"context"
	"encoding/json"
	"fmt"

	"minitemu/internal/models"
	"minitemu/internal/util"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// EventSink delivers a keyed event. *Producer is the Kafka implementation.
type EventSink interface {
	PublishEvent(ctx context.Context, key string, event interface{}) error
}

// NopSink drops every event; used when Kafka is disabled
type NopSink struct{}

// PublishEvent discards the event
func (NopSink) PublishEvent(context.Context, string, interface{}) error { return nil }

// EventPublisher handles publishing domain events
type EventPublisher struct {
	sink EventSink
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(sink EventSink) *EventPublisher {
	if sink == nil {
		sink = NopSink{}
	}
	return &EventPublisher{sink: sink}
}

func productKey(name string) string { return "product-" + name }

// PublishProductListed publishes ProductListed event
func (ep *EventPublisher) PublishProductListed(ctx context.Context, event *models.ProductListedEvent) error {
	return ep.sink.PublishEvent(ctx, productKey(event.ProductName), event)
}

// PublishPriceEvent publishes SaleStarted, SaleEnded and PriceChanged events
func (ep *EventPublisher) PublishPriceEvent(ctx context.Context, event *models.PriceEvent) error {
	return ep.sink.PublishEvent(ctx, productKey(event.ProductName), event)
}

// PublishProductRestocked publishes ProductRestocked event
func (ep *EventPublisher) PublishProductRestocked(ctx context.Context, event *models.ProductRestockedEvent) error {
	return ep.sink.PublishEvent(ctx, productKey(event.ProductName), event)
}

// PublishReviewPosted publishes ReviewPosted event
func (ep *EventPublisher) PublishReviewPosted(ctx context.Context, event *models.ReviewPostedEvent) error {
	return ep.sink.PublishEvent(ctx, productKey(event.ProductName), event)
}

// PublishOrderPlaced publishes OrderPlaced event
func (ep *EventPublisher) PublishOrderPlaced(ctx context.Context, event *models.OrderPlacedEvent) error {
	return ep.sink.PublishEvent(ctx, fmt.Sprintf("order-%s", event.OrderID), event)
}

// EventHandler handles incoming events
type EventHandler struct {
	onOrderPlaced func(context.Context, *models.OrderPlacedEvent) error
	logger        *zap.Logger
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{logger: util.GetLogger()}
}

// OnOrderPlaced registers a handler for OrderPlaced events
func (eh *EventHandler) OnOrderPlaced(handler func(context.Context, *models.OrderPlacedEvent) error) {
	eh.onOrderPlaced = handler
}

// HandleMessage routes messages to appropriate handlers
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	eh.logger.Debug("Handling event",
		zap.String("type", baseEvent.EventType),
		zap.String("id", baseEvent.EventID))

	switch baseEvent.EventType {
	case models.EventTypeOrderPlaced:
		if eh.onOrderPlaced != nil {
			var event models.OrderPlacedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal OrderPlaced event: %w", err)
			}
			return eh.onOrderPlaced(ctx, &event)
		}

	default:
		eh.logger.Debug("Unhandled event type", zap.String("type", baseEvent.EventType))
	}

	return nil
}
