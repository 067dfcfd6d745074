package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimiter(t *testing.T) {
	ctx := context.Background()

	t.Run("allows requests under limit", func(t *testing.T) {
		limiter := NewRateLimiter()

		for i := 0; i < 5; i++ {
			allowed, remaining, _ := limiter.Check(ctx, "10.0.0.1", 10)
			assert.True(t, allowed)
			assert.Equal(t, 10-i-1, remaining)
		}
	})

	t.Run("blocks requests over limit", func(t *testing.T) {
		limiter := NewRateLimiter()

		for i := 0; i < 5; i++ {
			limiter.Check(ctx, "10.0.0.2", 5)
		}

		allowed, remaining, _ := limiter.Check(ctx, "10.0.0.2", 5)
		assert.False(t, allowed)
		assert.Equal(t, 0, remaining)
	})

	t.Run("tracks keys separately", func(t *testing.T) {
		limiter := NewRateLimiter()

		for i := 0; i < 5; i++ {
			limiter.Check(ctx, "10.0.0.3", 5)
		}

		allowed, _, _ := limiter.Check(ctx, "10.0.0.4", 5)
		assert.True(t, allowed)
	})

	t.Run("returns reset time", func(t *testing.T) {
		limiter := NewRateLimiter()

		_, _, resetAt := limiter.Check(ctx, "10.0.0.5", 10)
		assert.Greater(t, resetAt, int64(0))
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	t.Run("disabled when limit is zero", func(t *testing.T) {
		handler := NewRateLimitMiddleware(NewRateLimiter(), 0).Handler(okHandler())

		req := httptest.NewRequest("GET", "/scopes-endpoint", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
	})

	t.Run("sets rate limit headers", func(t *testing.T) {
		handler := NewRateLimitMiddleware(NewRateLimiter(), 100).Handler(okHandler())

		req := httptest.NewRequest("GET", "/scopes-endpoint", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "100", rec.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, "99", rec.Header().Get("X-RateLimit-Remaining"))
		assert.NotEmpty(t, rec.Header().Get("X-RateLimit-Reset"))
	})

	t.Run("returns 429 failure envelope when rate limited", func(t *testing.T) {
		handler := NewRateLimitMiddleware(NewRateLimiter(), 2).Handler(okHandler())

		for i := 0; i < 2; i++ {
			req := httptest.NewRequest("GET", "/scopes-endpoint", nil)
			handler.ServeHTTP(httptest.NewRecorder(), req)
		}

		req := httptest.NewRequest("GET", "/scopes-endpoint", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.Equal(t, "60", rec.Header().Get("Retry-After"))

		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "Rate limit exceeded", body["error"])
	})

	t.Run("limits per client ip", func(t *testing.T) {
		handler := NewRateLimitMiddleware(NewRateLimiter(), 1).Handler(okHandler())

		first := httptest.NewRequest("GET", "/scopes-endpoint", nil)
		first.RemoteAddr = "198.51.100.1:4000"
		handler.ServeHTTP(httptest.NewRecorder(), first)

		other := httptest.NewRequest("GET", "/scopes-endpoint", nil)
		other.RemoteAddr = "198.51.100.2:4000"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, other)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
