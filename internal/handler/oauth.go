package handler

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/convoflow/crm-bridge-go/internal/audit"
	"github.com/convoflow/crm-bridge-go/internal/crm"
	apperrors "github.com/convoflow/crm-bridge-go/internal/errors"
	"github.com/convoflow/crm-bridge-go/internal/httputil"
	"github.com/convoflow/crm-bridge-go/internal/util"
)

var errOAuthNotConfigured = errors.New("CRM_CLIENT_ID and CRM_REDIRECT_URL must be set to start the OAuth flow")

type OAuthConfig struct {
	AuthorizeURL string
	ClientID     string
	RedirectURL  string
}

type OAuthHandler struct {
	catalog *crm.Catalog
	cfg     OAuthConfig
}

func NewOAuthHandler(catalog *crm.Catalog, cfg OAuthConfig) *OAuthHandler {
	return &OAuthHandler{catalog: catalog, cfg: cfg}
}

// GET /oauth/authorize-url
func (h *OAuthHandler) AuthorizeURL(w http.ResponseWriter, r *http.Request) {
	if h.cfg.ClientID == "" || h.cfg.RedirectURL == "" {
		httputil.WriteError(w, apperrors.Configuration(errOAuthNotConfigured))
		return
	}

	state, err := util.GenerateToken()
	if err != nil {
		log.Error().Err(err).Msg("failed to generate oauth state")
		httputil.WriteError(w, apperrors.Internal("Failed to generate state"))
		return
	}

	audit.LogFromRequest(r, audit.Event{Type: audit.EventAuthorizeURL})

	httputil.WriteSuccess(w, map[string]any{
		"url":   h.catalog.AuthorizeURL(h.cfg.AuthorizeURL, h.cfg.ClientID, h.cfg.RedirectURL, state),
		"state": state,
	})
}
