package main

import (
	"context"
	"log"

	"github.com/shopswift/marketplace/services/common/auth"
	"github.com/shopswift/marketplace/services/common/database"
	"github.com/shopswift/marketplace/services/common/logger"
	"github.com/shopswift/marketplace/services/common/middleware"
	"github.com/shopswift/marketplace/services/common/server"
	"github.com/shopswift/marketplace/services/order-service/controllers"
	repositories "github.com/shopswift/marketplace/services/order-service/repository"
	"github.com/shopswift/marketplace/services/order-service/routes"
	"github.com/shopswift/marketplace/services/order-service/services"

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

	orderRepo := repositories.NewMongoOrderRepository(db)
	orderRepo.EnsureIndexes(ctx)

	registry := prometheus.NewRegistry()
	productClient := services.NewProductClient(cfg.ProductServiceURL, cfg.InterServiceToken, cfg.PeerTimeout)
	orderService := services.NewOrderService(orderRepo, productClient, services.NewMetrics(registry))
	orderController := controllers.NewOrderController(orderService)

	identity := auth.NewIdentityClient(cfg.UserServiceURL, cfg.PeerTimeout)

	r := server.NewEngine(logg, server.Options{
		Service:        serviceName,
		Env:            cfg.Env,
		AllowedOrigins: cfg.AllowedOrigins,
		Registry:       registry,
	})
	routes.RegisterOrderRoutes(r, orderController, middleware.Authenticate(identity, cfg.InterServiceToken))

	if err := server.Run(logg, cfg.Port, r); err != nil {
		logg.Fatal("Server error", zap.Error(err))
	}
}
