package main

import (
	"context"

	"github.com/shopswift/marketplace/services/common/config"
	"github.com/shopswift/marketplace/services/common/secrets"
)

const serviceName = "order-service"

type Config struct {
	config.Base
	InterServiceToken string
	UserServiceURL    string
	ProductServiceURL string
}

// LoadConfig reads the order-service environment. With AWS_USE_SECRETS=true the
// inter-service token and Mongo URI come from Secrets Manager when present.
func LoadConfig(ctx context.Context) (*Config, error) {
	base, err := config.LoadBase("8083")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Base:              base,
		InterServiceToken: config.GetEnv("INTER_SERVICE_TOKEN", ""),
		UserServiceURL:    config.GetEnv("USER_SERVICE_URL", "http://localhost:8081"),
		ProductServiceURL: config.GetEnv("PRODUCT_SERVICE_URL", "http://localhost:8082"),
	}

	secrets.FromAWSIfEnabled(ctx, serviceName, map[string]*string{
		"INTER_SERVICE_TOKEN": &cfg.InterServiceToken,
		"MONGO_URI":           &cfg.MongoURI,
	})

	if err := config.Require(map[string]string{"INTER_SERVICE_TOKEN": cfg.InterServiceToken}); err != nil {
		return nil, err
	}
	return cfg, nil
}
