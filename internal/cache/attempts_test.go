package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestLimiter(t *testing.T, max int) (*RedisAttemptLimiter, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisAttemptLimiter(client, max, time.Minute), srv
}

func TestRedisAttemptLimiterBlocksAfterMax(t *testing.T) {
	limiter, _ := newTestLimiter(t, 3)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		blocked, err := limiter.Blocked(ctx, "10.0.0.1")
		if err != nil {
			t.Fatalf("blocked: %v", err)
		}
		if blocked {
			t.Fatalf("blocked after %d failures", i)
		}
		if err := limiter.RecordFailure(ctx, "10.0.0.1"); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	blocked, err := limiter.Blocked(ctx, "10.0.0.1")
	if err != nil || !blocked {
		t.Fatalf("want blocked, got %v %v", blocked, err)
	}
	other, err := limiter.Blocked(ctx, "10.0.0.2")
	if err != nil || other {
		t.Fatalf("other keys must not be blocked, got %v %v", other, err)
	}
}

func TestRedisAttemptLimiterWindowAndReset(t *testing.T) {
	limiter, srv := newTestLimiter(t, 1)
	ctx := context.Background()

	if err := limiter.RecordFailure(ctx, "ip"); err != nil {
		t.Fatalf("record: %v", err)
	}
	if ttl := srv.TTL(attemptKeyPrefix + "ip"); ttl != time.Minute {
		t.Fatalf("want window ttl, got %v", ttl)
	}
	srv.FastForward(61 * time.Second)
	if blocked, _ := limiter.Blocked(ctx, "ip"); blocked {
		t.Fatal("window must expire")
	}

	if err := limiter.RecordFailure(ctx, "ip"); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := limiter.Reset(ctx, "ip"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if blocked, _ := limiter.Blocked(ctx, "ip"); blocked {
		t.Fatal("reset must clear failures")
	}
}
