package utils

import (
	"context"
	"log"
	"time"

	"cokothon/config"

	"github.com/go-redis/redis/v8"
)

var (
	// SessionClient stores browser sessions.
	SessionClient *redis.Client
	// CacheClient is the generic cache client (category list).
	CacheClient *redis.Client
)

func newRedisClient(db int, name string) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis (%s): %v", name, err)
	}
	return client
}

// InitRedis connects both Redis clients.
func InitRedis() {
	SessionClient = newRedisClient(config.AppConfig.RedisSessionDB, "Session")
	CacheClient = newRedisClient(config.AppConfig.RedisCacheDB, "Cache")
}

// GetSessionClient returns the Redis client for browser sessions.
func GetSessionClient() *redis.Client {
	if SessionClient == nil {
		SessionClient = newRedisClient(config.AppConfig.RedisSessionDB, "Session")
	}
	return SessionClient
}

// GetCacheClient returns the generic cache client.
func GetCacheClient() *redis.Client {
	if CacheClient == nil {
		CacheClient = newRedisClient(config.AppConfig.RedisCacheDB, "Cache")
	}
	return CacheClient
}
