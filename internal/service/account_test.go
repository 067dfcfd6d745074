package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/convoflow/crm-bridge-go/internal/errors"
	"github.com/convoflow/crm-bridge-go/internal/model"
)

type mockWriter struct {
	mock.Mock
}

func (m *mockWriter) Insert(ctx context.Context, table string, data map[string]any) error {
	args := m.Called(ctx, table, data)
	return args.Error(0)
}

func (m *mockWriter) InsertAndSelect(ctx context.Context, table string, data map[string]any, dest any) error {
	args := m.Called(ctx, table, data, dest)
	return args.Error(0)
}

func strPtr(s string) *string { return &s }

func TestAccountService_CreateAccount(t *testing.T) {
	ctx := context.Background()

	t.Run("creates account and settings", func(t *testing.T) {
		writer := &mockWriter{}
		writer.On("InsertAndSelect", ctx, model.TableAccounts, map[string]any{
			"crm_location_id": "loc-1",
			"name":            "Acme",
		}, mock.AnythingOfType("*model.Account")).
			Run(func(args mock.Arguments) {
				dest := args.Get(3).(*model.Account)
				dest.ID = "acc-1"
				dest.CRMLocationID = "loc-1"
			}).
			Return(nil)
		writer.On("Insert", ctx, model.TableAccountSettings, map[string]any{
			"account_id": "acc-1",
			"settings":   model.JSON(`{"timezone":"UTC"}`),
		}).Return(nil)

		svc := NewAccountService(writer)
		account, err := svc.CreateAccount(ctx, model.CreateAccountParams{
			CRMLocationID: "loc-1",
			Name:          strPtr("Acme"),
		}, map[string]any{"timezone": "UTC"})

		require.NoError(t, err)
		assert.Equal(t, "acc-1", account.ID)
		writer.AssertExpectations(t)
	})

	t.Run("nil settings default to empty object", func(t *testing.T) {
		writer := &mockWriter{}
		writer.On("InsertAndSelect", ctx, model.TableAccounts, mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				args.Get(3).(*model.Account).ID = "acc-2"
			}).
			Return(nil)
		writer.On("Insert", ctx, model.TableAccountSettings, map[string]any{
			"account_id": "acc-2",
			"settings":   model.JSON(`{}`),
		}).Return(nil)

		_, err := NewAccountService(writer).CreateAccount(ctx, model.CreateAccountParams{CRMLocationID: "loc-2"}, nil)
		require.NoError(t, err)
		writer.AssertExpectations(t)
	})

	t.Run("account insert not returning one row is an error", func(t *testing.T) {
		writer := &mockWriter{}
		writer.On("InsertAndSelect", ctx, model.TableAccounts, mock.Anything, mock.Anything).
			Return(apperrors.NotSingleRow(0))

		account, err := NewAccountService(writer).CreateAccount(ctx, model.CreateAccountParams{CRMLocationID: "loc-3"}, nil)
		assert.Nil(t, account)
		assert.Equal(t, apperrors.ErrCodeNotSingleRow, apperrors.GetCode(err))
		writer.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("settings insert failure is returned", func(t *testing.T) {
		writer := &mockWriter{}
		writer.On("InsertAndSelect", ctx, model.TableAccounts, mock.Anything, mock.Anything).Return(nil)
		writer.On("Insert", ctx, model.TableAccountSettings, mock.Anything).Return(errors.New("permission denied"))

		_, err := NewAccountService(writer).CreateAccount(ctx, model.CreateAccountParams{CRMLocationID: "loc-4"}, nil)
		assert.ErrorContains(t, err, "permission denied")
	})
}
