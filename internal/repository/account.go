package repository

import (
	"context"

	"github.com/convoflow/crm-bridge-go/internal/admin"
	"github.com/convoflow/crm-bridge-go/internal/model"
)

type AccountRepository interface {
	// FindByLocationID returns the single account linked to a CRM location.
	// Zero or several matches are an error, not a nil result.
	FindByLocationID(ctx context.Context, locationID string) (*model.Account, error)
}

type accountRepo struct {
	store admin.Store
}

func NewAccountRepository(store admin.Store) AccountRepository {
	return &accountRepo{store: store}
}

func (r *accountRepo) FindByLocationID(ctx context.Context, locationID string) (*model.Account, error) {
	var account model.Account
	err := r.store.SelectSingle(ctx, model.TableAccounts, map[string]any{
		"crm_location_id": locationID,
	}, &account)
	if err != nil {
		return nil, err
	}
	return &account, nil
}
