package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/convoflow/crm-bridge-go/internal/audit"
	"github.com/convoflow/crm-bridge-go/internal/model"
)

// PrivilegedWriter is the subset of admin.Factory used to create rows.
type PrivilegedWriter interface {
	Insert(ctx context.Context, table string, data map[string]any) error
	InsertAndSelect(ctx context.Context, table string, data map[string]any, dest any) error
}

type AccountService struct {
	writer PrivilegedWriter
}

func NewAccountService(writer PrivilegedWriter) *AccountService {
	return &AccountService{writer: writer}
}

// CreateAccount inserts an account and its settings row. The account insert
// must yield exactly one row; the settings insert reports only success.
func (s *AccountService) CreateAccount(
	ctx context.Context,
	params model.CreateAccountParams,
	settings map[string]any,
) (*model.Account, error) {
	data := map[string]any{
		"crm_location_id": params.CRMLocationID,
	}
	if params.CRMCompanyID != nil {
		data["crm_company_id"] = *params.CRMCompanyID
	}
	if params.Name != nil {
		data["name"] = *params.Name
	}

	var account model.Account
	if err := s.writer.InsertAndSelect(ctx, model.TableAccounts, data, &account); err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}

	if settings == nil {
		settings = map[string]any{}
	}
	raw, err := json.Marshal(settings)
	if err != nil {
		return nil, fmt.Errorf("encode settings: %w", err)
	}

	err = s.writer.Insert(ctx, model.TableAccountSettings, map[string]any{
		"account_id": account.ID,
		"settings":   model.JSON(raw),
	})
	if err != nil {
		return nil, fmt.Errorf("create account settings: %w", err)
	}

	audit.Log(ctx, audit.Event{
		Type:       audit.EventAccountCreate,
		AccountID:  account.ID,
		LocationID: account.CRMLocationID,
	})

	return &account, nil
}
