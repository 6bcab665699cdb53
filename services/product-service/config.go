package main

import (
	"context"
	"time"

	"github.com/shopswift/marketplace/services/common/config"
	"github.com/shopswift/marketplace/services/common/secrets"
	"github.com/shopswift/marketplace/services/product-service/cache"
)

const serviceName = "product-service"

// Config holds all environment variables for the product-service.
type Config struct {
	config.Base
	InterServiceToken string        // shared secret presented by order-service
	UserServiceURL    string        // identity service used for token verification
	RedisURL          string        // optional; empty disables the product cache
	CacheTTL          time.Duration // product cache entry lifetime
}

// LoadConfig loads environment variables into Config struct and validates them.
// If AWS_USE_SECRETS=true it will attempt to read secrets from Secrets Manager
// and fall back to env vars on failure.
func LoadConfig(ctx context.Context) (*Config, error) {
	base, err := config.LoadBase("8082")
	if err != nil {
		return nil, err
	}
	ttl, err := config.GetDuration("PRODUCT_CACHE_TTL", cache.DefaultTTL)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Base:              base,
		InterServiceToken: config.GetEnv("INTER_SERVICE_TOKEN", ""),
		UserServiceURL:    config.GetEnv("USER_SERVICE_URL", "http://localhost:8081"),
		RedisURL:          config.GetEnv("REDIS_URL", ""),
		CacheTTL:          ttl,
	}

	secrets.FromAWSIfEnabled(ctx, serviceName, map[string]*string{
		"INTER_SERVICE_TOKEN": &cfg.InterServiceToken,
		"MONGO_URI":           &cfg.MongoURI,
		"REDIS_URL":           &cfg.RedisURL,
	})

	if err := config.Require(map[string]string{"INTER_SERVICE_TOKEN": cfg.InterServiceToken}); err != nil {
		return nil, err
	}
	return cfg, nil
}
