package admin

import (
	"context"
	"fmt"

	"github.com/convoflow/crm-bridge-go/internal/config"
	"github.com/convoflow/crm-bridge-go/internal/database"
	apperrors "github.com/convoflow/crm-bridge-go/internal/errors"
	"github.com/convoflow/crm-bridge-go/internal/metrics"
	"github.com/convoflow/crm-bridge-go/internal/postgrest"
)

// Open builds the store for the configured backend. Missing credentials are
// reported here, on first use, rather than at process start.
func Open(cfg *config.Config) (Store, error) {
	if err := cfg.ValidateBackend(); err != nil {
		return nil, apperrors.Configuration(err)
	}

	var store Store
	switch cfg.DatabaseBackend {
	case config.BackendREST:
		store = postgrest.New(cfg.ServiceURL, cfg.ServiceRoleKey, postgrest.WithTimeout(config.RESTRequestTimeout))
	case config.BackendPostgres:
		db, err := database.Connect(cfg.DatabaseDriver, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), config.PingTimeout)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("ping database: %w", err)
		}
		store = database.NewStore(db)
	}

	return WithMetrics(store, cfg.DatabaseBackend, metrics.Global()), nil
}
