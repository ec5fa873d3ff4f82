package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/analytics"
	"storefront/internal/cart"
	"storefront/internal/catalog"
	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/handler"
	"storefront/internal/repository"
	"storefront/internal/router"
	"storefront/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting storefront API server")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	// Initialize repositories
	productRepo := repository.NewProductRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)
	deliveryRepo := repository.NewDeliveryRepository(pool, logger)
	activityRepo := repository.NewActivityRepository(pool, logger)

	// Initialize the session cart store; without Redis, carts live in
	// process memory only.
	var cartStore cart.Store
	if cfg.Redis.Addr != "" {
		client := database.NewRedisClient(cfg.Redis, logger)
		defer client.Close()

		ttl := time.Duration(cfg.Redis.CartTTLDay) * 24 * time.Hour
		cartStore, err = cart.NewRedisStore(ctx, client, ttl, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize cart store: %w", err)
		}
	} else {
		cartStore = cart.NewMemoryStore()
		logger.Warn().Msg("no redis address configured, carts will not survive restarts")
	}

	// Import the seed catalogue if configured
	if cfg.Seed.Enabled {
		fileLoader := catalog.NewFileLoader(logger)
		var seedLoader catalog.Loader = fileLoader

		if cfg.Seed.S3 {
			s3Loader, err := catalog.NewS3Loader(ctx, cfg.Seed.S3Bucket, cfg.Seed.S3Region, logger)
			if err != nil {
				logger.Warn().
					Err(err).
					Msg("failed to initialise S3 seed loader, falling back to local file system only")
			} else {
				seedLoader = catalog.NewFallbackLoader(s3Loader, fileLoader, cfg.Seed.S3Prefix, true, logger)
			}
		}

		importer := catalog.NewImporter(seedLoader, productRepo, logger)
		if _, err := importer.Import(ctx, cfg.Seed.Path); err != nil {
			return fmt.Errorf("failed to import seed catalogue: %w", err)
		}
	}

	// Resolve delivery charges; defaults apply silently when the
	// lookup fails.
	overrides := service.FetchDeliveryOverrides(ctx, deliveryRepo, logger)

	// Initialize the analytics emitter
	var emitter analytics.Emitter
	if cfg.Pixel.Enabled {
		emitter = analytics.NewPixelEmitter(
			cfg.Pixel.Endpoint,
			time.Duration(cfg.Pixel.TimeoutMS)*time.Millisecond,
			activityRepo,
			logger,
		)
	} else {
		emitter = analytics.NewNopEmitter()
		logger.Info().Msg("analytics pixel disabled")
	}
	defer emitter.Close()

	// Initialize services
	productService := service.NewProductService(productRepo, logger)
	cartService := service.NewCartService(cartStore, productRepo, logger)
	checkoutService := service.NewCheckoutService(orderRepo, productRepo, cartStore, overrides, logger)
	orderService := service.NewOrderService(orderRepo, logger)

	// Initialize HTTP handlers
	productHandler := handler.NewProductHandler(productService, emitter, logger)
	cartHandler := handler.NewCartHandler(cartService, emitter, logger)
	checkoutHandler := handler.NewCheckoutHandler(checkoutService, emitter, logger)
	orderHandler := handler.NewOrderHandler(orderService, logger)

	// Initialize router
	mux := router.New(productHandler, cartHandler, checkoutHandler, orderHandler, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)

	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
