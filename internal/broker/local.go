package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// LocalSink delivers events straight to an EventHandler in the same process,
// through the same JSON encoding a Kafka round trip would use. It stands in for
// the producer/consumer pair when Kafka is disabled.
type LocalSink struct {
	handler *EventHandler
}

// NewLocalSink creates a sink that feeds handler
func NewLocalSink(handler *EventHandler) *LocalSink {
	return &LocalSink{handler: handler}
}

// PublishEvent encodes the event and hands it to the handler
func (s *LocalSink) PublishEvent(ctx context.Context, key string, event interface{}) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	return s.handler.HandleMessage(ctx, kafka.Message{
		Key:   []byte(key),
		Value: value,
		Time:  time.Now(),
	})
}
