package worker

import (
	"context"

	"minitemu/internal/broker"
	"minitemu/internal/service"
	"minitemu/internal/util"

	"go.uber.org/zap"
)

// MessageSource is the consuming side of the market events topic.
// *broker.Consumer satisfies it.
type MessageSource interface {
	StartConsuming(ctx context.Context, handler broker.MessageHandler) error
	Close() error
}

// SalesWorker feeds the sales report from OrderPlaced events on the bus
type SalesWorker struct {
	consumer     MessageSource
	eventHandler *broker.EventHandler
	logger       *zap.Logger
}

// NewSalesWorker creates a new sales worker
func NewSalesWorker(consumer MessageSource, report *service.SalesReport) *SalesWorker {
	eventHandler := broker.NewEventHandler()
	eventHandler.OnOrderPlaced(report.HandleOrderPlaced)

	return &SalesWorker{
		consumer:     consumer,
		eventHandler: eventHandler,
		logger:       util.GetLogger(),
	}
}

// Start blocks consuming until ctx is cancelled
func (w *SalesWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting sales worker")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *SalesWorker) Stop() error {
	w.logger.Info("Stopping sales worker")
	return w.consumer.Close()
}
