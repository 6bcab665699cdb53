package main

import (
	"context"
	"fmt"
	"time"

	"github.com/shopswift/marketplace/services/common/config"
	"github.com/shopswift/marketplace/services/common/secrets"
	"github.com/shopswift/marketplace/services/payment-service/services"
)

const serviceName = "payment-service"

type Config struct {
	config.Base
	InterServiceToken  string
	UserServiceURL     string
	OrderServiceURL    string
	PaymentDelay       time.Duration
	PaymentSuccessRate float64
}

// LoadConfig reads the payment-service environment. With AWS_USE_SECRETS=true the
// inter-service token and Mongo URI come from Secrets Manager when present.
func LoadConfig(ctx context.Context) (*Config, error) {
	base, err := config.LoadBase("8084")
	if err != nil {
		return nil, err
	}

	delay, err := config.GetDuration("PAYMENT_DELAY", services.DefaultGatewayDelay)
	if err != nil {
		return nil, err
	}
	rate, err := config.GetFloat("PAYMENT_SUCCESS_RATE", services.DefaultSuccessRate)
	if err != nil {
		return nil, err
	}
	if rate < 0 || rate > 1 {
		return nil, fmt.Errorf("PAYMENT_SUCCESS_RATE must be within [0,1], got %v", rate)
	}

	cfg := &Config{
		Base:               base,
		InterServiceToken:  config.GetEnv("INTER_SERVICE_TOKEN", ""),
		UserServiceURL:     config.GetEnv("USER_SERVICE_URL", "http://localhost:8081"),
		OrderServiceURL:    config.GetEnv("ORDER_SERVICE_URL", "http://localhost:8083"),
		PaymentDelay:       delay,
		PaymentSuccessRate: rate,
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
