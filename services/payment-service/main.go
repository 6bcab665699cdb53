package main

import (
	"context"
	"log"

	"github.com/shopswift/marketplace/services/common/auth"
	"github.com/shopswift/marketplace/services/common/database"
	"github.com/shopswift/marketplace/services/common/logger"
	"github.com/shopswift/marketplace/services/common/middleware"
	"github.com/shopswift/marketplace/services/common/server"
	"github.com/shopswift/marketplace/services/payment-service/controllers"
	"github.com/shopswift/marketplace/services/payment-service/repository"
	"github.com/shopswift/marketplace/services/payment-service/routes"
	"github.com/shopswift/marketplace/services/payment-service/services"

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

	paymentRepo := repository.NewMongoPaymentRepo(db)
	paymentRepo.EnsureIndexes(ctx)

	registry := prometheus.NewRegistry()
	orderClient := services.NewOrderClient(cfg.OrderServiceURL, cfg.InterServiceToken, cfg.PeerTimeout)
	gateway := services.NewSimulatedGateway(cfg.PaymentDelay, cfg.PaymentSuccessRate)
	paymentService := services.NewPaymentService(paymentRepo, orderClient, gateway, services.NewMetrics(registry))
	paymentController := controllers.NewPaymentController(paymentService)

	logg.Info("Payment gateway configured",
		zap.Duration("delay", cfg.PaymentDelay),
		zap.Float64("success_rate", cfg.PaymentSuccessRate),
	)

	identity := auth.NewIdentityClient(cfg.UserServiceURL, cfg.PeerTimeout)

	r := server.NewEngine(logg, server.Options{
		Service:        serviceName,
		Env:            cfg.Env,
		AllowedOrigins: cfg.AllowedOrigins,
		Registry:       registry,
	})
	routes.RegisterPaymentRoutes(r, paymentController, middleware.Authenticate(identity, cfg.InterServiceToken))

	if err := server.Run(logg, cfg.Port, r); err != nil {
		logg.Fatal("Server error", zap.Error(err))
	}
}
