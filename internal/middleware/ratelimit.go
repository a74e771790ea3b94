package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// AttemptLimiter counts failed attempts per key.
type AttemptLimiter interface {
	Blocked(ctx context.Context, key string) (bool, error)
	RecordFailure(ctx context.Context, key string) error
	Reset(ctx context.Context, key string) error
}

// LoginRateLimit rejects callers with too many failed sign-ins. Only 401
// responses count as failures; a successful sign-in clears the count.
func LoginRateLimit(limiter AttemptLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		ctx := c.Request.Context()

		blocked, err := limiter.Blocked(ctx, key)
		if err != nil {
			log.Warn().Err(err).Msg("attempt limiter unavailable")
		}
		if blocked {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many failed attempts"})
			return
		}

		c.Next()

		switch c.Writer.Status() {
		case http.StatusUnauthorized:
			err = limiter.RecordFailure(ctx, key)
		case http.StatusOK:
			err = limiter.Reset(ctx, key)
		default:
			err = nil
		}
		if err != nil {
			log.Warn().Err(err).Msg("attempt limiter update failed")
		}
	}
}

// MemoryAttemptLimiter keeps counts in process, for single-instance runs
// without redis.
type MemoryAttemptLimiter struct {
	mu       sync.Mutex
	attempts map[string]*attemptInfo
	max      int
	window   time.Duration
	now      func() time.Time
}

type attemptInfo struct {
	count   int
	firstAt time.Time
}

func NewMemoryAttemptLimiter(max int, window time.Duration) *MemoryAttemptLimiter {
	return &MemoryAttemptLimiter{
		attempts: make(map[string]*attemptInfo),
		max:      max,
		window:   window,
		now:      time.Now,
	}
}

func (l *MemoryAttemptLimiter) Blocked(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	info, ok := l.attempts[key]
	if !ok {
		return false, nil
	}
	if l.now().Sub(info.firstAt) > l.window {
		delete(l.attempts, key)
		return false, nil
	}
	return info.count >= l.max, nil
}

func (l *MemoryAttemptLimiter) RecordFailure(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	info, ok := l.attempts[key]
	if !ok || now.Sub(info.firstAt) > l.window {
		l.attempts[key] = &attemptInfo{count: 1, firstAt: now}
		return nil
	}
	info.count++
	return nil
}

func (l *MemoryAttemptLimiter) Reset(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.attempts, key)
	return nil
}

// Cleanup drops expired entries every interval until ctx is done.
func (l *MemoryAttemptLimiter) Cleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.mu.Lock()
			now := l.now()
			for key, info := range l.attempts {
				if now.Sub(info.firstAt) > l.window {
					delete(l.attempts, key)
				}
			}
			l.mu.Unlock()
		}
	}
}
