package main

import (
	"context"
	"log"

	"github.com/shopswift/marketplace/services/common/auth"
	"github.com/shopswift/marketplace/services/common/database"
	"github.com/shopswift/marketplace/services/common/logger"
	"github.com/shopswift/marketplace/services/common/middleware"
	"github.com/shopswift/marketplace/services/common/server"
	"github.com/shopswift/marketplace/services/product-service/cache"
	"github.com/shopswift/marketplace/services/product-service/controllers"
	"github.com/shopswift/marketplace/services/product-service/repository"
	"github.com/shopswift/marketplace/services/product-service/routes"
	"github.com/shopswift/marketplace/services/product-service/services"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := LoadConfig(ctx)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logg, err := logger.New(serviceName, cfg.Env)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = logg.Sync() }()

	db, err := database.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		logg.Fatal("Database connection failed", zap.Error(err))
	}
	defer func() { _ = database.Close(db) }()

	productRepo := repository.NewProductRepository(db)
	productRepo.EnsureIndexes(ctx)

	var productCache cache.ProductCache = cache.NoopCache{}
	if cfg.RedisURL != "" {
		redisClient, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			logg.Warn("Redis unavailable, product cache disabled", zap.Error(err))
		} else {
			defer func() { _ = redisClient.Close() }()
			productCache = cache.NewRedisCache(redisClient, cfg.CacheTTL)
			logg.Info("Product cache enabled", zap.Duration("ttl", cfg.CacheTTL))
		}
	}

	registry := prometheus.NewRegistry()
	productService := services.NewProductService(productRepo, productCache, services.NewMetrics(registry))
	productController := controllers.NewProductController(productService)

	identity := auth.NewIdentityClient(cfg.UserServiceURL, cfg.PeerTimeout)

	r := server.NewEngine(logg, server.Options{
		Service:        serviceName,
		Env:            cfg.Env,
		AllowedOrigins: cfg.AllowedOrigins,
		Registry:       registry,
	})
	routes.RegisterProductRoutes(r, productController, middleware.Authenticate(identity, cfg.InterServiceToken))

	if err := server.Run(logg, cfg.Port, r); err != nil {
		logg.Fatal("Server error", zap.Error(err))
	}
}
