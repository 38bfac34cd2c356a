// File: utils/cache.go
package utils

import (
	"context"
	"time"

	"slotengine/config"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

var (
	// CacheClient is the client for the slot cache.
	CacheClient *redis.Client
	// HoldClient is the dedicated client for slot holds.
	HoldClient *redis.Client
)

// InitCache initializes the Redis client for slot caching. A failed ping is
// logged but not fatal: the cache degrades to miss/no-op when unreachable.
func InitCache() {
	CacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisCacheDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := CacheClient.Ping(ctx).Result(); err != nil {
		GetLogger().Warn("Redis (Cache) unreachable, slot cache disabled", zap.Error(err))
	}
}

// GetCacheClient returns the slot cache client.
func GetCacheClient() *redis.Client {
	if CacheClient == nil {
		InitCache()
	}
	return CacheClient
}

// InitHoldStore initializes the Redis client for slot holds (using a separate DB).
func InitHoldStore() {
	HoldClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisHoldDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := HoldClient.Ping(ctx).Result(); err != nil {
		GetLogger().Warn("Redis (Holds) unreachable, falling back is up to the caller", zap.Error(err))
	}
}

// GetHoldClient returns the Redis client for slot holds.
func GetHoldClient() *redis.Client {
	if HoldClient == nil {
		InitHoldStore()
	}
	return HoldClient
}
