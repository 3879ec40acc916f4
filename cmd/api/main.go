// cmd/api/main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/your-org/storefront-cart/internal/config"
	"github.com/your-org/storefront-cart/internal/domain/cart"
	"github.com/your-org/storefront-cart/internal/domain/catalog"
	"github.com/your-org/storefront-cart/internal/domain/localcart"
	"github.com/your-org/storefront-cart/internal/events"
	"github.com/your-org/storefront-cart/internal/infrastructure/database/postgres"
	"github.com/your-org/storefront-cart/internal/infrastructure/database/redis"
	"github.com/your-org/storefront-cart/internal/interfaces/http"
	"github.com/your-org/storefront-cart/internal/pkg/logger"
	"github.com/your-org/storefront-cart/internal/storefront"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger := logger.New(cfg)
	appLogger.Infof("🚀 Starting %s v%s in %s mode", cfg.App.Name, cfg.App.Version, cfg.App.Environment)

	// Connect to Redis
	redisClient, err := redis.NewConnection(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	if err := redisClient.Health(); err != nil {
		log.Fatalf("Redis health check failed: %v", err)
	}

	bus := events.NewBus()

	// Pick the cart backend: the remote sync engine when a storefront
	// is configured, the durable local variant otherwise.
	var cartService cart.Service
	var catalogService catalog.QueryService
	if cfg.RemoteCartEnabled() {
		appLogger.Info("Remote cart service configured, running in storefront mode")

		gateway := storefront.NewClient(cfg, appLogger)
		handles := cart.NewRedisHandleStore(redisClient.GetClient(), cfg.Session.TTL)
		cartService = cart.NewEngine(gateway, handles, bus, appLogger)
		catalogService = gateway
	} else {
		appLogger.Info("No remote cart service configured, running in local cart mode")

		db, err := postgres.NewConnection(cfg)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		if err := db.Health(); err != nil {
			log.Fatalf("Database health check failed: %v", err)
		}

		migration := postgres.NewMigration(db.GetDB())
		if err := migration.RunAutoMigrations(); err != nil {
			log.Fatalf("Database migration failed: %v", err)
		}

		cartService = localcart.NewService(localcart.NewGormRepository(db.GetDB()), bus, appLogger,
			cfg.Checkout.WhatsAppNumber, cfg.Checkout.StoreName)
	}

	// Forward handle changes made by other instances onto the bus
	watcherCtx, stopWatcher := context.WithCancel(context.Background())
	defer stopWatcher()
	watcher := cart.NewHandleWatcher(redisClient.GetClient(), bus, appLogger)
	go watcher.Run(watcherCtx)

	appLogger.Info("✅ All systems operational!")

	// Create and start HTTP server
	server := http.NewServer(cfg, cartService, catalogService, bus, redisClient.GetClient(), appLogger)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("👋 Shutting down gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Stop(ctx); err != nil {
		appLogger.Errorf("Failed to shutdown HTTP server gracefully: %v", err)
	}

	appLogger.Info("✅ Server shutdown completed")
}
