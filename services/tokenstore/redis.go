package tokenstore

import (
	"context"
	"time"

	"stayease/utils"

	"github.com/go-redis/redis/v8"
)

const redisKeyPrefix = "stayease:storage:"

// RedisStore keeps values in Redis. JWT values expire with their "exp" claim.
type RedisStore struct {
	client *redis.Client
	now    func() time.Time
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, now: time.Now}
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	v, err := s.client.Get(ctx, redisKeyPrefix+key).Result()
	if err == redis.Nil {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return v, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	ttl, err := utils.TokenTTL(value, s.now())
	if err != nil {
		// Already expired: storing it would only hand out a dead token.
		return s.Delete(ctx, key)
	}
	return s.client.Set(ctx, redisKeyPrefix+key, value, ttl).Err()
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, redisKeyPrefix+key).Err()
}
