package broker

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"minitemu/internal/models"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	keys   []string
	events []interface{}
}

func (r *recordingSink) PublishEvent(_ context.Context, key string, event interface{}) error {
	r.keys = append(r.keys, key)
	r.events = append(r.events, event)
	return nil
}

func TestEventPublisherKeys(t *testing.T) {
	sink := &recordingSink{}
	ep := NewEventPublisher(sink)
	ctx := context.Background()

	require.NoError(t, ep.PublishProductListed(ctx, &models.ProductListedEvent{ProductName: "Lamp"}))
	require.NoError(t, ep.PublishPriceEvent(ctx, &models.PriceEvent{ProductName: "Lamp"}))
	require.NoError(t, ep.PublishReviewPosted(ctx, &models.ReviewPostedEvent{ProductName: "Lamp"}))
	require.NoError(t, ep.PublishOrderPlaced(ctx, &models.OrderPlacedEvent{OrderID: "abc"}))

	assert.Equal(t, []string{"product-Lamp", "product-Lamp", "product-Lamp", "order-abc"}, sink.keys)
}

func TestNilSinkFallsBackToNop(t *testing.T) {
	ep := NewEventPublisher(nil)
	assert.NoError(t, ep.PublishProductRestocked(context.Background(), &models.ProductRestockedEvent{ProductName: "Lamp"}))
}

func TestHandleMessageRoutesOrderPlaced(t *testing.T) {
	event := models.OrderPlacedEvent{
		BaseEvent: models.BaseEvent{EventID: "e1", EventType: models.EventTypeOrderPlaced, Timestamp: time.Now()},
		OrderID:   "o1",
		Username:  "alice",
		Total:     "60.00",
		Items:     []models.OrderItemData{{ProductName: "Lamp", Quantity: 3, UnitPrice: "20.00"}},
	}
	payload, err := json.Marshal(event)
	require.NoError(t, err)

	var got *models.OrderPlacedEvent
	eh := NewEventHandler()
	eh.OnOrderPlaced(func(_ context.Context, e *models.OrderPlacedEvent) error {
		got = e
		return nil
	})

	require.NoError(t, eh.HandleMessage(context.Background(), kafka.Message{Value: payload}))
	require.NotNil(t, got)
	assert.Equal(t, "o1", got.OrderID)
	assert.Equal(t, 3, got.Items[0].Quantity)
}

func TestHandleMessageIgnoresOtherEvents(t *testing.T) {
	payload, _ := json.Marshal(models.ReviewPostedEvent{
		BaseEvent: models.BaseEvent{EventType: models.EventTypeReviewPosted},
	})

	called := false
	eh := NewEventHandler()
	eh.OnOrderPlaced(func(context.Context, *models.OrderPlacedEvent) error {
		called = true
		return nil
	})

	require.NoError(t, eh.HandleMessage(context.Background(), kafka.Message{Value: payload}))
	assert.False(t, called)
}

func TestHandleMessageRejectsGarbage(t *testing.T) {
	eh := NewEventHandler()
	assert.Error(t, eh.HandleMessage(context.Background(), kafka.Message{Value: []byte("{")}))
}

func TestLocalSinkDeliversThroughHandler(t *testing.T) {
	var got *models.OrderPlacedEvent
	eh := NewEventHandler()
	eh.OnOrderPlaced(func(_ context.Context, e *models.OrderPlacedEvent) error {
		got = e
		return nil
	})

	ep := NewEventPublisher(NewLocalSink(eh))
	require.NoError(t, ep.PublishOrderPlaced(context.Background(), &models.OrderPlacedEvent{
		BaseEvent: models.BaseEvent{EventID: "e2", EventType: models.EventTypeOrderPlaced},
		OrderID:   "o2",
	}))
	require.NotNil(t, got)
	assert.Equal(t, "o2", got.OrderID)

	require.NoError(t, ep.PublishProductListed(context.Background(), &models.ProductListedEvent{
		BaseEvent:   models.BaseEvent{EventType: models.EventTypeProductListed},
		ProductName: "Lamp",
	}))
}
