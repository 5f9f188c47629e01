package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func TestIPRateLimiterAllowsBurstThenBlocks(t *testing.T) {
	limiter := NewIPRateLimiter(1, time.Hour, 2, time.Hour)

	if !limiter.Allow("10.0.0.1") || !limiter.Allow("10.0.0.1") {
		t.Fatal("expected burst to be allowed")
	}
	if limiter.Allow("10.0.0.1") {
		t.Fatal("expected third request to be blocked")
	}
	// other clients are tracked independently
	if !limiter.Allow("10.0.0.2") {
		t.Fatal("expected separate client to be allowed")
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	e := echo.New()
	limiter := NewIPRateLimiter(1, time.Hour, 1, time.Hour)
	handler := RateLimit(limiter)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	for i, want := range []int{http.StatusOK, http.StatusTooManyRequests} {
		req := httptest.NewRequest(http.MethodGet, "/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		if err := handler(c); err != nil {
			c.Error(err)
		}
		if rec.Code != want {
			t.Fatalf("request %d: expected %d got %d", i, want, rec.Code)
		}
	}
}
