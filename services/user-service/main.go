package main

import (
	"context"
	"log"
	"time"

	"github.com/shopswift/marketplace/services/common/auth"
	"github.com/shopswift/marketplace/services/common/database"
	"github.com/shopswift/marketplace/services/common/logger"
	"github.com/shopswift/marketplace/services/common/middleware"
	"github.com/shopswift/marketplace/services/common/server"
	"github.com/shopswift/marketplace/services/user-service/controllers"
	"github.com/shopswift/marketplace/services/user-service/repository"
	"github.com/shopswift/marketplace/services/user-service/routes"
	"github.com/shopswift/marketplace/services/user-service/services"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
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

	userRepo := repository.NewUserRepository(db)
	userRepo.EnsureIndexes(ctx)

	tokens, err := auth.NewTokenService(cfg.JWTSecret, cfg.JWTExpiry)
	if err != nil {
		logg.Fatal("Token service init failed", zap.Error(err))
	}

	authService := services.NewAuthService(userRepo, tokens, services.NewBcryptHasher(services.PasswordCost))
	userController := controllers.NewUserController(authService)

	// Credential endpoints: 5 attempts per second per IP, burst of 10.
	limiter := middleware.NewRateLimiter(ctx, rate.Limit(5), 10, 10*time.Minute)

	r := server.NewEngine(logg, server.Options{
		Service:        serviceName,
		Env:            cfg.Env,
		AllowedOrigins: cfg.AllowedOrigins,
	})
	routes.RegisterUserRoutes(r, userController, middleware.Authenticate(tokens, ""), middleware.RateLimit(limiter))

	if err := server.Run(logg, cfg.Port, r); err != nil {
		logg.Fatal("Server error", zap.Error(err))
	}
}
