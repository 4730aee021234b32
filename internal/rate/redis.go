package rate

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter is a fixed-window counter: INCR plus an expiry set on the
// first hit of each window. Fails open on backend errors so a Redis
// outage never blocks the API.
type RedisLimiter struct {
	client *redis.Client
}

func NewRedisLimiter(client *redis.Client) *RedisLimiter {
	return &RedisLimiter{client: client}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	count, err := l.client.Incr(ctx, "rate:"+key).Result()
	if err != nil {
		return true, nil
	}
	if count == 1 {
		l.client.Expire(ctx, "rate:"+key, window)
	}

	return count <= int64(limit), nil
}
