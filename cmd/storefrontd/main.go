package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/berat-eth/huglu-storefront/internal/api"
	"github.com/berat-eth/huglu-storefront/internal/api/middleware"
	"github.com/berat-eth/huglu-storefront/internal/backend"
	"github.com/berat-eth/huglu-storefront/internal/cart"
	"github.com/berat-eth/huglu-storefront/internal/checkout"
	"github.com/berat-eth/huglu-storefront/internal/config"
	"github.com/berat-eth/huglu-storefront/internal/payment"
	"github.com/berat-eth/huglu-storefront/internal/threeds"
	"github.com/berat-eth/huglu-storefront/internal/vault"
	"github.com/berat-eth/huglu-storefront/internal/wallet"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	var logger *zap.Logger
	if cfg.Environment == "production" {
		logger, _ = zap.NewProduction()
	} else {
		logger, _ = zap.NewDevelopment()
	}
	defer logger.Sync()

	logger.Info("Starting storefront server",
		zap.String("port", cfg.Port),
		zap.String("environment", cfg.Environment),
	)

	// Redis backs the cart badge cache and idempotency records
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		logger.Warn("Redis unavailable, badge cache and idempotency disabled", zap.Error(err))
		redisClient = nil
	}
	defer func() {
		if redisClient != nil {
			redisClient.Close()
		}
	}()

	// Backend commerce API client
	client := backend.NewClient(cfg.Backend, logger)

	// Cart service with optional badge cache
	var badge cart.Badge
	var idem *middleware.IdempotencyStore
	if redisClient != nil {
		badge = cart.NewBadgeCache(redisClient)
		idem = middleware.NewIdempotencyStore(redisClient, logger)
	}
	cartSvc := cart.NewService(client, badge, cart.ShippingPolicy{
		FreeShippingThreshold: cfg.Checkout.FreeShippingThreshold,
		FlatFee:               cfg.Checkout.FlatShippingFee,
	}, logger)

	// Payment workflow engine shared by checkout and wallet recharge
	cardVault := vault.New(logger)
	workflow := payment.NewWorkflow(cardVault, payment.PollConfig{
		InitialDelay: cfg.Checkout.PollInitialDelay,
		Interval:     cfg.Checkout.PollInterval,
		MaxAttempts:  cfg.Checkout.PollMaxAttempts,
	}, logger)

	// Challenge completions resume the workflow off the request goroutine so
	// the callback page renders immediately.
	monitor := threeds.NewMonitor(cfg.Checkout.CallbackPath, func(_ context.Context, conversationID string) {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			defer cancel()
			if _, err := workflow.CompleteChallenge(ctx, conversationID); err != nil {
				logger.Warn("Challenge completion did not confirm",
					zap.String("conversation_id", conversationID),
					zap.Error(err),
				)
			}
		}()
	}, logger)

	checkoutSvc := checkout.NewService(client, cartSvc, workflow, monitor, logger)
	walletSvc := wallet.NewService(client, workflow, monitor, wallet.Limits{
		Min: cfg.Wallet.MinRecharge,
		Max: cfg.Wallet.MaxRecharge,
	}, logger)

	// Initialize router
	router := api.NewRouter(cfg, api.Deps{
		Cart:        cartSvc,
		Checkout:    checkoutSvc,
		Wallet:      walletSvc,
		Orders:      client,
		Workflow:    workflow,
		Monitor:     monitor,
		Idempotency: idem,
	}, logger)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	logger.Info("Server started successfully", zap.String("address", srv.Addr))

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
