package cache

import (
	"context"
	"errors"
	"time"

	"gigbridge/config"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// ErrCacheMiss is returned by Get when the key is absent or expired.
var ErrCacheMiss = errors.New("cache: key not found")

// Cache is the single caching contract consumers depend on. Two
// implementations exist: Redis for deployments and an in-memory store used as
// a fallback and in tests. Invalidation is eventually consistent; readers may
// observe a stale entry for at most one TTL window.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	// DeleteByPattern removes every key starting with the given prefix.
	DeleteByPattern(ctx context.Context, prefix string) error
}

// New selects the cache implementation at startup: Redis when reachable,
// otherwise in-memory. The second return value is the Redis client when one
// is in use (for health monitoring), nil otherwise.
func New(logger *zap.Logger) (Cache, *redis.Client) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisCacheDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("Redis unreachable, falling back to in-memory cache", zap.Error(err))
		return NewMemoryCache(), nil
	}
	return NewRedisCache(client), client
}
