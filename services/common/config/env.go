// Package config holds the environment helpers shared by every service's LoadConfig.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Base is the configuration every service reads.
type Base struct {
	Env            string
	Port           string
	MongoURI       string
	MongoDB        string
	AllowedOrigins string
	PeerTimeout    time.Duration
}

// LoadBase reads .env (if present) and the shared variables.
func LoadBase(defaultPort string) (Base, error) {
	_ = godotenv.Load()

	peerTimeout, err := GetDuration("PEER_TIMEOUT", 5*time.Second)
	if err != nil {
		return Base{}, err
	}

	return Base{
		Env:            GetEnv("ENV", "development"),
		Port:           GetEnv("PORT", defaultPort),
		MongoURI:       GetEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:        GetEnv("MONGO_DB", "marketplace"),
		AllowedOrigins: GetEnv("ALLOWED_ORIGINS", "http://localhost:3000"),
		PeerTimeout:    peerTimeout,
	}, nil
}

func GetEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func GetDuration(key string, fallback time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func GetFloat(key string, fallback float64) (float64, error) {
	val := os.Getenv(key)
	if val == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}

// Require returns an error naming the first empty value.
func Require(values map[string]string) error {
	for key, v := range values {
		if v == "" {
			return fmt.Errorf("%s is required", key)
		}
	}
	return nil
}
