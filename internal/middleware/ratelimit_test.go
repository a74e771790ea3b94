package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestMemoryAttemptLimiterWindow(t *testing.T) {
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	l := NewMemoryAttemptLimiter(2, time.Minute)
	l.now = func() time.Time { return now }
	ctx := context.Background()

	_ = l.RecordFailure(ctx, "ip")
	if blocked, _ := l.Blocked(ctx, "ip"); blocked {
		t.Fatal("one failure must not block")
	}
	_ = l.RecordFailure(ctx, "ip")
	if blocked, _ := l.Blocked(ctx, "ip"); !blocked {
		t.Fatal("two failures must block")
	}

	now = now.Add(61 * time.Second)
	if blocked, _ := l.Blocked(ctx, "ip"); blocked {
		t.Fatal("window must expire")
	}
}

func TestLoginRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	limiter := NewMemoryAttemptLimiter(2, time.Minute)

	status := http.StatusUnauthorized
	r := gin.New()
	r.POST("/auth/login", LoginRateLimit(limiter), func(c *gin.Context) {
		c.Status(status)
	})

	do := func() int {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/auth/login", nil))
		return w.Code
	}

	if got := do(); got != http.StatusUnauthorized {
		t.Fatalf("want 401, got %d", got)
	}
	status = http.StatusOK
	if got := do(); got != http.StatusOK {
		t.Fatalf("want 200, got %d", got)
	}

	status = http.StatusUnauthorized
	do()
	do()
	if got := do(); got != http.StatusTooManyRequests {
		t.Fatalf("want 429 after failures, got %d", got)
	}
}
