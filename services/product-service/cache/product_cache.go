// Package cache keeps a read-through Redis copy of single products.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopswift/marketplace/services/common/logger"
	"github.com/shopswift/marketplace/services/product-service/models"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	ProductCachePrefix = "product:"
	DefaultTTL         = 5 * time.Minute
	opTimeout          = 500 * time.Millisecond
)

// ProductCache never fails a request: misses and backend errors look the same
// to the caller.
type ProductCache interface {
	Get(ctx context.Context, id string) (*models.Product, bool)
	Set(ctx context.Context, product *models.Product)
	Invalidate(ctx context.Context, id string)
}

// NewRedisClient parses a redis:// URL and pings the server.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid Redis URL: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

type RedisCache struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisCache{redis: client, ttl: ttl}
}

func (rc *RedisCache) Get(ctx context.Context, id string) (*models.Product, bool) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	data, err := rc.redis.Get(ctx, ProductCachePrefix+id).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.FromContext(ctx).Warn("Product cache read failed", zap.String("product_id", id), zap.Error(err))
		}
		return nil, false
	}

	var product models.Product
	if err := json.Unmarshal(data, &product); err != nil {
		logger.FromContext(ctx).Warn("Failed to unmarshal cached product", zap.String("product_id", id), zap.Error(err))
		return nil, false
	}
	return &product, true
}

func (rc *RedisCache) Set(ctx context.Context, product *models.Product) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	id := product.ID.Hex()
	data, err := json.Marshal(product)
	if err != nil {
		logger.FromContext(ctx).Warn("Failed to marshal product for cache", zap.String("product_id", id), zap.Error(err))
		return
	}
	if err := rc.redis.Set(ctx, ProductCachePrefix+id, data, rc.ttl).Err(); err != nil {
		logger.FromContext(ctx).Warn("Failed to cache product", zap.String("product_id", id), zap.Error(err))
	}
}

func (rc *RedisCache) Invalidate(ctx context.Context, id string) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if err := rc.redis.Del(ctx, ProductCachePrefix+id).Err(); err != nil {
		logger.FromContext(ctx).Warn("Failed to delete product cache", zap.String("product_id", id), zap.Error(err))
	}
}

// NoopCache is used when REDIS_URL is unset.
type NoopCache struct{}

func (NoopCache) Get(context.Context, string) (*models.Product, bool) { return nil, false }
func (NoopCache) Set(context.Context, *models.Product) {}
func (NoopCache) Invalidate(context.Context, string) {}
