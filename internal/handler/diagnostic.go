package handler

import (
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/convoflow/crm-bridge-go/internal/admin"
	"github.com/convoflow/crm-bridge-go/internal/audit"
	"github.com/convoflow/crm-bridge-go/internal/httputil"
	"github.com/convoflow/crm-bridge-go/internal/repository"
)

// StoreProvider hands out the shared privileged store.
type StoreProvider interface {
	Store() (admin.Store, error)
}

// DiagnosticHandler checks database connectivity by looking up the account
// linked to a fixed test location. It is development scaffolding and is only
// mounted when diagnostics are enabled.
type DiagnosticHandler struct {
	stores     StoreProvider
	locationID string
}

func NewDiagnosticHandler(stores StoreProvider, locationID string) *DiagnosticHandler {
	return &DiagnosticHandler{stores: stores, locationID: locationID}
}

// GET /diagnostic-endpoint
func (h *DiagnosticHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer func() {
		if rec := recover(); rec != nil {
			err := fmt.Errorf("%v", rec)
			log.Error().Err(err).Str("locationId", h.locationID).Msg("diagnostic: unexpected error")
			httputil.WriteFault(w, err)
		}
	}()

	ctx := r.Context()

	store, err := h.stores.Store()
	if err != nil {
		log.Error().Err(err).Msg("diagnostic: unexpected error")
		httputil.WriteFault(w, err)
		return
	}

	log.Info().Str("locationId", h.locationID).Msg("diagnostic: querying accounts")

	account, err := repository.NewAccountRepository(store).FindByLocationID(ctx, h.locationID)
	if err != nil {
		log.Error().Err(err).Str("locationId", h.locationID).Msg("diagnostic: query failed")
		audit.LogFromRequest(r, audit.Event{
			Type:       audit.EventDiagnosticAccess,
			LocationID: h.locationID,
			Details:    map[string]any{"found": false},
		})
		httputil.WriteFailure(w, http.StatusInternalServerError, err)
		return
	}

	log.Info().Str("accountId", account.ID).Msg("diagnostic: account fetched")
	audit.LogFromRequest(r, audit.Event{
		Type:       audit.EventDiagnosticAccess,
		LocationID: h.locationID,
		AccountID:  account.ID,
		Details:    map[string]any{"found": true},
	})

	httputil.WriteSuccess(w, map[string]any{"account": account})
}
