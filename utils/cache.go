// File: utils/cache.go
package utils

import (
	"context"
	"fmt"
	"time"

	"stayease/config"

	"github.com/go-redis/redis/v8"
)

var (
	// TokenCacheClient is the dedicated client for authorization token persistence.
	TokenCacheClient *redis.Client
)

// InitTokenCache initializes the Redis client used by the token store.
func InitTokenCache() error {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisTokenDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		_ = client.Close()
		return fmt.Errorf("failed to connect to Redis (Token Cache): %w", err)
	}
	TokenCacheClient = client
	return nil
}

// GetTokenCacheClient returns the Redis client for token persistence.
func GetTokenCacheClient() (*redis.Client, error) {
	if TokenCacheClient == nil {
		if err := InitTokenCache(); err != nil {
			return nil, err
		}
	}
	return TokenCacheClient, nil
}
