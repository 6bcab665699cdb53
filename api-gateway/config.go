package main

import (
	"time"

	"github.com/shopswift/marketplace/api-gateway/routes"
	"github.com/shopswift/marketplace/services/common/config"
)

const serviceName = "api-gateway"

type Config struct {
	config.Base
	Upstreams     routes.Upstreams
	ProxyTimeout  time.Duration
	RatePerSecond float64
	RateBurst     int
}

func LoadConfig() (*Config, error) {
	base, err := config.LoadBase("8080")
	if err != nil {
		return nil, err
	}
	timeout, err := config.GetDuration("PROXY_TIMEOUT", 25*time.Second)
	if err != nil {
		return nil, err
	}
	rps, err := config.GetFloat("GATEWAY_RATE_PER_SECOND", 50)
	if err != nil {
		return nil, err
	}
	burst, err := config.GetFloat("GATEWAY_RATE_BURST", 100)
	if err != nil {
		return nil, err
	}

	return &Config{
		Base: base,
		Upstreams: routes.Upstreams{
			User:    config.GetEnv("USER_SERVICE_URL", "http://localhost:8081"),
			Product: config.GetEnv("PRODUCT_SERVICE_URL", "http://localhost:8082"),
			Order:   config.GetEnv("ORDER_SERVICE_URL", "http://localhost:8083"),
			Payment: config.GetEnv("PAYMENT_SERVICE_URL", "http://localhost:8084"),
		},
		ProxyTimeout:  timeout,
		RatePerSecond: rps,
		RateBurst:     int(burst),
	}, nil
}
