package main

import (
	"context"
	"log"
	"os"
	"time"

	"minitemu/config"
	"minitemu/internal/broker"
	"minitemu/internal/console"
	"minitemu/internal/identity"
	"minitemu/internal/service"
	"minitemu/internal/store"
	"minitemu/internal/util"

	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	if err := util.InitLogger("console"); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()
	logger := util.GetLogger()

	tp, err := util.InitTracer("minitemu-console", cfg.Observ.JaegerEndpoint)
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = tp.Shutdown(ctx)
	}()

	sales := service.NewSalesReport()
	handler := broker.NewEventHandler()
	handler.OnOrderPlaced(sales.HandleOrderPlaced)
	eventPublisher := broker.NewEventPublisher(broker.NewLocalSink(handler))

	registry := identity.NewRegistry()
	catalog := service.NewCatalogService(store.NewStore(), eventPublisher)

	// SIGINT keeps its default behaviour: the shell blocks on stdin between
	// prompts and could not observe a cancelled context until the next line.
	ctx := context.Background()

	if cfg.Market.SeedDemoData {
		if err := service.SeedDemoData(ctx, registry, catalog); err != nil {
			logger.Fatal("Failed to seed demo data", zap.Error(err))
		}
	}

	controller := service.NewSessionController(registry, catalog, sales, eventPublisher, nil, cfg.Market.CheckoutIdempotencyTTL)

	shell := console.NewShell(controller, os.Stdin, os.Stdout)
	if err := shell.Run(ctx); err != nil {
		logger.Error("Console stopped", zap.Error(err))
		os.Exit(1)
	}
}
