package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const attemptKeyPrefix = "ecofood:login:failed:"

// RedisAttemptLimiter counts failed sign-ins per key in a fixed window that
// starts at the first failure. State is shared by every instance.
type RedisAttemptLimiter struct {
	client redis.Cmdable
	max    int
	window time.Duration
}

func NewRedisAttemptLimiter(client redis.Cmdable, max int, window time.Duration) *RedisAttemptLimiter {
	return &RedisAttemptLimiter{client: client, max: max, window: window}
}

func (l *RedisAttemptLimiter) Blocked(ctx context.Context, key string) (bool, error) {
	n, err := l.client.Get(ctx, attemptKeyPrefix+key).Int()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return n >= l.max, nil
}

// RecordFailure starts the window on the first failure only, so later
// failures do not extend it.
func (l *RedisAttemptLimiter) RecordFailure(ctx context.Context, key string) error {
	k := attemptKeyPrefix + key
	n, err := l.client.Incr(ctx, k).Result()
	if err != nil {
		return err
	}
	if n == 1 {
		return l.client.Expire(ctx, k, l.window).Err()
	}
	return nil
}

func (l *RedisAttemptLimiter) Reset(ctx context.Context, key string) error {
	return l.client.Del(ctx, attemptKeyPrefix+key).Err()
}
