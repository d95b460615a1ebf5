package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"minitemu/config"
	"minitemu/internal/api"
	"minitemu/internal/broker"
	"minitemu/internal/identity"
	"minitemu/internal/redisclient"
	"minitemu/internal/service"
	"minitemu/internal/store"
	"minitemu/internal/util"
	"minitemu/internal/worker"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {

	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting minitemu server", zap.String("env", cfg.Server.Env), zap.String("port", cfg.Server.Port))

	tp, err := util.InitTracer("minitemu", cfg.Observ.JaegerEndpoint)
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			logger.Error("Error shutting down tracer", zap.Error(err))
		}
	}()

	var (
		idempotency service.IdempotencyStore
		ready       func() error
	)
	if cfg.Redis.Enabled {
		redisClient, err := redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		logger.Info("Redis connected", zap.String("addr", cfg.Redis.Addr))

		idempotency = redisClient
		ready = func() error {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			return redisClient.Ping(ctx)
		}
	}

	sales := service.NewSalesReport()

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	var (
		sink        broker.EventSink
		salesWorker *worker.SalesWorker
	)
	if cfg.Kafka.Enabled {
		producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicMarketEvents)
		defer producer.Close()
		sink = producer
		logger.Info("Kafka producer initialized", zap.Strings("brokers", cfg.Kafka.Brokers))

		consumer := broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicMarketEvents, cfg.Kafka.ConsumerGroup)
		salesWorker = worker.NewSalesWorker(consumer, sales)
		go func() {
			if err := salesWorker.Start(workerCtx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("Sales worker error", zap.Error(err))
			}
		}()
	} else {
		handler := broker.NewEventHandler()
		handler.OnOrderPlaced(sales.HandleOrderPlaced)
		sink = broker.NewLocalSink(handler)
	}

	eventPublisher := broker.NewEventPublisher(sink)
	registry := identity.NewRegistry()
	catalog := service.NewCatalogService(store.NewStore(), eventPublisher)

	if cfg.Market.SeedDemoData {
		if err := service.SeedDemoData(context.Background(), registry, catalog); err != nil {
			logger.Fatal("Failed to seed demo data", zap.Error(err))
		}
	}

	controller := service.NewSessionController(registry, catalog, sales, eventPublisher, idempotency, cfg.Market.CheckoutIdempotencyTTL)

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	handler := api.NewHandler(controller, ready)
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Info("Starting HTTP server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	workerCancel()
	if salesWorker != nil {
		if err := salesWorker.Stop(); err != nil {
			logger.Error("Error stopping sales worker", zap.Error(err))
		}
	}

	logger.Info("Server exited")
}
