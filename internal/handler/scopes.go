package handler

import (
	"net/http"

	"github.com/convoflow/crm-bridge-go/internal/crm"
	"github.com/convoflow/crm-bridge-go/internal/httputil"
)

type ScopesHandler struct {
	catalog *crm.Catalog
}

func NewScopesHandler(catalog *crm.Catalog) *ScopesHandler {
	return &ScopesHandler{catalog: catalog}
}

// GET /scopes-endpoint
func (h *ScopesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	httputil.WriteSuccess(w, map[string]any{
		"scopes":        h.catalog.Scopes(),
		"defaultScopes": h.catalog.Defaults(),
	})
}
