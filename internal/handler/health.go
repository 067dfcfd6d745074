package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/convoflow/crm-bridge-go/internal/config"
	"github.com/convoflow/crm-bridge-go/internal/httputil"
)

// GET /health
func Health(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UnixMilli(),
	})
}

// ReadinessHandler reports whether the privileged store can be built and
// answers a ping.
type ReadinessHandler struct {
	stores StoreProvider
}

func NewReadinessHandler(stores StoreProvider) *ReadinessHandler {
	return &ReadinessHandler{stores: stores}
}

// GET /ready
func (h *ReadinessHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	store, err := h.stores.Store()
	if err == nil {
		ctx, cancel := context.WithTimeout(r.Context(), config.PingTimeout)
		defer cancel()
		err = store.Ping(ctx)
	}

	if err != nil {
		log.Warn().Err(err).Msg("readiness check failed")
		message, _ := httputil.Describe(err)
		httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "unavailable",
			"error":  message,
		})
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"status":    "ready",
		"timestamp": time.Now().UnixMilli(),
	})
}
