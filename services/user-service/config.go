package main

import (
	"context"
	"time"

	"github.com/shopswift/marketplace/services/common/auth"
	"github.com/shopswift/marketplace/services/common/config"
	"github.com/shopswift/marketplace/services/common/secrets"
)

const serviceName = "user-service"

// Config holds all environment variables for the user-service.
type Config struct {
	config.Base
	JWTSecret string        // HS256 signing secret
	JWTExpiry time.Duration // access token lifetime
}

// LoadConfig loads environment variables into Config struct and validates them.
func LoadConfig(ctx context.Context) (*Config, error) {
	base, err := config.LoadBase("8081")
	if err != nil {
		return nil, err
	}
	expiry, err := config.GetDuration("JWT_EXPIRY", auth.DefaultTokenTTL)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Base:      base,
		JWTSecret: config.GetEnv("JWT_SECRET", ""),
		JWTExpiry: expiry,
	}

	secrets.FromAWSIfEnabled(ctx, serviceName, map[string]*string{
		"JWT_SECRET": &cfg.JWTSecret,
		"MONGO_URI":  &cfg.MongoURI,
	})

	if err := config.Require(map[string]string{"JWT_SECRET": cfg.JWTSecret}); err != nil {
		return nil, err
	}
	return cfg, nil
}
