package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/convoflow/crm-bridge-go/internal/admin"
	"github.com/convoflow/crm-bridge-go/internal/config"
	apperrors "github.com/convoflow/crm-bridge-go/internal/errors"
	"github.com/convoflow/crm-bridge-go/internal/metrics"
	"github.com/convoflow/crm-bridge-go/internal/middleware"
)

type storeFunc func() (admin.Store, error)

func (f storeFunc) Store() (admin.Store, error) { return f() }

func unconfigured() (admin.Store, error) {
	return nil, apperrors.Configuration(errors.New("SUPABASE_URL is required for the rest backend"))
}

func testConfig(diagnostics bool) *config.Config {
	return &config.Config{
		DiagnosticsEnabled:   diagnostics,
		DiagnosticLocationID: "test-location-id",
		RateLimitPerMin:      120,
		CRMAuthorizeURL:      "https://crm.example.com/oauth",
	}
}

func serve(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", path, nil))
	return rec
}

func TestRouter_NoCache(t *testing.T) {
	r := newRouter(testConfig(true), storeFunc(unconfigured), middleware.NewRateLimiter(), metrics.New())

	for _, path := range []string{"/scopes-endpoint", "/diagnostic-endpoint"} {
		t.Run(path, func(t *testing.T) {
			rec := serve(t, r, path)

			cacheControl := rec.Header().Get("Cache-Control")
			assert.Contains(t, cacheControl, "no-cache")
			assert.Contains(t, cacheControl, "no-store")
			assert.Equal(t, "no-cache", rec.Header().Get("Pragma"))
		})
	}
}

func TestRouter_Diagnostics(t *testing.T) {
	t.Run("enabled routes to the handler", func(t *testing.T) {
		r := newRouter(testConfig(true), storeFunc(unconfigured), middleware.NewRateLimiter(), metrics.New())
		rec := serve(t, r, "/diagnostic-endpoint")

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "SUPABASE_URL is required for the rest backend", body["error"])
	})

	t.Run("disabled is not found", func(t *testing.T) {
		r := newRouter(testConfig(false), storeFunc(unconfigured), middleware.NewRateLimiter(), metrics.New())
		rec := serve(t, r, "/diagnostic-endpoint")

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestRouter_Routes(t *testing.T) {
	r := newRouter(testConfig(true), storeFunc(unconfigured), middleware.NewRateLimiter(), metrics.New())

	assert.Equal(t, http.StatusOK, serve(t, r, "/health").Code)
	assert.Equal(t, http.StatusOK, serve(t, r, "/scopes-endpoint").Code)
	assert.Equal(t, http.StatusOK, serve(t, r, "/metrics").Code)
	assert.Equal(t, http.StatusServiceUnavailable, serve(t, r, "/ready").Code)

	rec := serve(t, r, "/scopes-endpoint")
	assert.Equal(t, "120", rec.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}
