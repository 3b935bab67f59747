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

	"github.com/fjod/go_cart/bookstore-service/internal/config"
	bookstorehttp "github.com/fjod/go_cart/bookstore-service/internal/http"
	"github.com/fjod/go_cart/bookstore-service/internal/publisher"
	"github.com/fjod/go_cart/bookstore-service/internal/repository"
	"github.com/fjod/go_cart/bookstore-service/internal/service"
	"github.com/fjod/go_cart/bookstore-service/pkg/logger"
	"go.uber.org/zap"
)

type eventPublisher interface {
	service.OrderEventPublisher
	Close() error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zl, err := logger.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zl.Sync()

	zl.Info("bookstore-service starting...", zap.String("driver", cfg.Database.Driver))

	// Database setup
	creds := cfg.Credentials()
	store, err := repository.Open(creds)
	if err != nil {
		zl.Fatal("failed to open store", zap.Error(err))
	}
	defer store.Close()

	if err := store.RunMigrations(creds); err != nil {
		zl.Fatal("failed to run migrations", zap.Error(err))
	}
	zl.Info("database migrations completed")

	var events eventPublisher = publisher.NopPublisher{}
	if cfg.KafkaEnabled() {
		events = publisher.NewKafkaPublisher(publisher.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.Topic,
			Timeout: cfg.Kafka.PublishTimeout,
		}, zl)
		zl.Info("publishing order events", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	}
	defer events.Close()

	catalog := service.NewCatalogService(store, store, zl)
	orders := service.NewOrderService(store, store, store, store, store, events, zl)

	handler := bookstorehttp.NewHandler(catalog, orders, bookstorehttp.RouterConfig{
		RequestTimeout:     cfg.HTTP.RequestTimeout,
		MaxRequestBodySize: cfg.HTTP.MaxRequestBodySize,
	}, zl)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:      handler,
		ReadTimeout:  cfg.HTTP.RequestTimeout,
		WriteTimeout: cfg.HTTP.RequestTimeout + cfg.HTTP.RequestTimeout/2,
	}

	serverErr := make(chan error, 1)
	go func() {
		zl.Info("http server listening", zap.Int("port", cfg.HTTP.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		zl.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-serverErr:
		zl.Error("http server failed", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zl.Error("forced shutdown", zap.Error(err))
	}
	zl.Info("bookstore-service stopped")
}
