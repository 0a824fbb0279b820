package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
)

func newTestLimiter(t *testing.T, limit int, window time.Duration) *FixedWindowLimiter {
	t.Helper()
	srv := miniredis.RunT(t)
	l, err := NewFixedWindowLimiter(srv.Addr(), "", "test:ratelimit", limit, window)
	if err != nil {
		t.Fatalf("new limiter: %v", err)
	}
	return l
}

func TestFixedWindowAllowsWithinLimit(t *testing.T) {
	l := newTestLimiter(t, 2, time.Minute)

	if !l.Allow("1.2.3.4") {
		t.Fatal("first request must pass")
	}
	if !l.Allow("1.2.3.4") {
		t.Fatal("second request must pass")
	}
	if l.Allow("1.2.3.4") {
		t.Fatal("third request must be blocked")
	}
	// Other keys keep their own quota.
	if !l.Allow("5.6.7.8") {
		t.Fatal("distinct key must not share the window")
	}
}

func TestFixedWindowFailsClosedWhenRedisDown(t *testing.T) {
	srv := miniredis.RunT(t)
	l, err := NewFixedWindowLimiter(srv.Addr(), "", "", 10, time.Minute)
	if err != nil {
		t.Fatalf("new limiter: %v", err)
	}
	srv.Close()

	if l.Allow("1.2.3.4") {
		t.Fatal("unreachable redis must block requests")
	}
}

func TestFixedWindowConstructorValidation(t *testing.T) {
	if _, err := NewFixedWindowLimiter("", "", "", 10, time.Minute); err == nil {
		t.Fatal("empty addr must error")
	}
	if _, err := NewFixedWindowLimiter("localhost:6379", "", "", 0, time.Minute); err == nil {
		t.Fatal("zero limit must error")
	}
	if _, err := NewFixedWindowLimiter("localhost:6379", "", "", 10, 0); err == nil {
		t.Fatal("zero window must error")
	}
}

func TestMiddlewareReturns429(t *testing.T) {
	gin.SetMode(gin.TestMode)
	l := newTestLimiter(t, 1, time.Minute)

	router := gin.New()
	router.Use(l.Middleware())
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	do := func() int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "1.2.3.4:5678"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}
	if code := do(); code != http.StatusOK {
		t.Fatalf("first request: want 200, got %d", code)
	}
	if code := do(); code != http.StatusTooManyRequests {
		t.Fatalf("second request: want 429, got %d", code)
	}
}
