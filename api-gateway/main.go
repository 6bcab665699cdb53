package main

import (
	"context"
	"log"
	"time"

	"github.com/shopswift/marketplace/api-gateway/routes"
	"github.com/shopswift/marketplace/services/common/logger"
	"github.com/shopswift/marketplace/services/common/middleware"
	"github.com/shopswift/marketplace/services/common/server"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logg, err := logger.New(serviceName, cfg.Env)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = logg.Sync() }()

	logg.Info("Starting API Gateway",
		zap.String("user_service", cfg.Upstreams.User),
		zap.String("product_service", cfg.Upstreams.Product),
		zap.String("order_service", cfg.Upstreams.Order),
		zap.String("payment_service", cfg.Upstreams.Payment),
	)

	limiter := middleware.NewRateLimiter(ctx, rate.Limit(cfg.RatePerSecond), cfg.RateBurst, 10*time.Minute)

	r := server.NewEngine(logg, server.Options{
		Service:        serviceName,
		Env:            cfg.Env,
		AllowedOrigins: cfg.AllowedOrigins,
	})
	routes.RegisterAllRoutes(r, cfg.Upstreams, cfg.ProxyTimeout, middleware.RateLimit(limiter))

	if err := server.Run(logg, cfg.Port, r); err != nil {
		logg.Fatal("Server error", zap.Error(err))
	}
}
