package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/convoflow/crm-bridge-go/internal/config"
	"github.com/convoflow/crm-bridge-go/internal/crm"
	"github.com/convoflow/crm-bridge-go/internal/handler"
	"github.com/convoflow/crm-bridge-go/internal/metrics"
	"github.com/convoflow/crm-bridge-go/internal/middleware"
)

// newRouter mounts every route. Application routes are never cached, and the
// diagnostic route exists only when diagnostics are enabled.
func newRouter(cfg *config.Config, stores handler.StoreProvider, limiter middleware.Limiter, m *metrics.Metrics) chi.Router {
	catalog := crm.NewCatalog(cfg.CRMExtraScopes)

	scopesHandler := handler.NewScopesHandler(catalog)
	diagnosticHandler := handler.NewDiagnosticHandler(stores, cfg.DiagnosticLocationID)
	readinessHandler := handler.NewReadinessHandler(stores)
	oauthHandler := handler.NewOAuthHandler(catalog, handler.OAuthConfig{
		AuthorizeURL: cfg.CRMAuthorizeURL,
		ClientID:     cfg.CRMClientID,
		RedirectURL:  cfg.CRMRedirectURL,
	})

	metricsMiddleware := middleware.NewMetricsMiddleware(m)
	securityHeadersMiddleware := middleware.NewSecurityHeadersMiddleware(cfg.IsProduction())
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(limiter, cfg.RateLimitPerMin)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(metricsMiddleware.Handler)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(config.ServerRequestTimeout))

	r.Get("/health", handler.Health)
	r.Method(http.MethodGet, "/ready", readinessHandler)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(securityHeadersMiddleware.Handler)
		r.Use(rateLimitMiddleware.Handler)
		r.Use(chimiddleware.NoCache)

		r.Method(http.MethodGet, "/scopes-endpoint", scopesHandler)
		if cfg.DiagnosticsEnabled {
			r.Method(http.MethodGet, "/diagnostic-endpoint", diagnosticHandler)
		}
		r.Get("/oauth/authorize-url", oauthHandler.AuthorizeURL)
	})

	return r
}
