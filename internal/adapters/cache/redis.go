package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

func Connect(_ context.Context, redisURL string) (*redis.Client, error) {
	if strings.HasPrefix(redisURL, "redis://") {
		opt, parseErr := redis.ParseURL(redisURL)
		if parseErr != nil {
			return nil, fmt.Errorf("parse redis url: %w", parseErr)
		}
		return redis.NewClient(opt), nil
	}
	return redis.NewClient(&redis.Options{Addr: redisURL}), nil
}

// RedisVerificationCache caches public verify responses by verification ID.
// Entries are best effort: any redis error is treated as a miss, and revocation
// deletes the key before the registry observes the new status.
type RedisVerificationCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisVerificationCache(client *redis.Client, ttl time.Duration) *RedisVerificationCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisVerificationCache{client: client, ttl: ttl}
}

func (c *RedisVerificationCache) Get(ctx context.Context, verificationID string) ([]byte, bool) {
	raw, err := c.client.Get(ctx, "cert:verify:"+verificationID).Bytes()
	if err != nil {
		return nil, false
	}
	return raw, true
}

func (c *RedisVerificationCache) Put(ctx context.Context, verificationID string, payload []byte) {
	_ = c.client.Set(ctx, "cert:verify:"+verificationID, payload, c.ttl).Err()
}

func (c *RedisVerificationCache) Invalidate(ctx context.Context, verificationID string) {
	_ = c.client.Del(ctx, "cert:verify:"+verificationID).Err()
}

// RedisRateLimiter is a fixed-window counter per API key. The first increment
// in a window sets the expiry; hitting the cap rejects until the window rolls.
type RedisRateLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
}

func NewRedisRateLimiter(client *redis.Client, limit int, window time.Duration) *RedisRateLimiter {
	if limit <= 0 {
		limit = 60
	}
	if window <= 0 {
		window = time.Minute
	}
	return &RedisRateLimiter{client: client, limit: int64(limit), window: window}
}

func (l *RedisRateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := "apikey:ratelimit:" + key
	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, err
	}
	if count == 1 {
		_ = l.client.Expire(ctx, redisKey, l.window).Err()
	}
	return count <= l.limit, nil
}
