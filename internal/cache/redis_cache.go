package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/veloretail/backoffice/pkg/logger"
)

// Redis is a Cache backed by go-redis. Failures degrade to cache misses and
// are logged at debug level; the cache is never load-bearing.
type Redis struct {
	client *redis.Client
}

func NewRedis(addr, password string, db int) *Redis {
	return &Redis{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
	}
}

func (r *Redis) Get(ctx context.Context, key string) (string, bool) {
	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			logger.Debug(ctx).Err(err).Str("key", key).Msg("Cache get failed")
		}
		return "", false
	}
	return val, true
}

func (r *Redis) Set(ctx context.Context, key, value string, ttl time.Duration) {
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		logger.Debug(ctx).Err(err).Str("key", key).Msg("Cache set failed")
	}
}

func (r *Redis) Delete(ctx context.Context, key string) {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		logger.Debug(ctx).Err(err).Str("key", key).Msg("Cache delete failed")
	}
}

// Ping verifies connectivity at startup.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
