package admin

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/convoflow/crm-bridge-go/internal/config"
	apperrors "github.com/convoflow/crm-bridge-go/internal/errors"
	"github.com/convoflow/crm-bridge-go/internal/metrics"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) SelectSingle(ctx context.Context, table string, match map[string]any, dest any) error {
	args := m.Called(ctx, table, match, dest)
	return args.Error(0)
}

func (m *mockStore) Insert(ctx context.Context, table string, data map[string]any) error {
	args := m.Called(ctx, table, data)
	return args.Error(0)
}

func (m *mockStore) InsertAndSelect(ctx context.Context, table string, data map[string]any, dest any) error {
	args := m.Called(ctx, table, data, dest)
	return args.Error(0)
}

func (m *mockStore) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func countingFactory(store Store) (*Factory, *int32) {
	var builds int32
	f := NewFactory(func() (Store, error) {
		atomic.AddInt32(&builds, 1)
		return store, nil
	})
	return f, &builds
}

func TestFactory_Store(t *testing.T) {
	t.Run("returns the same instance and builds once", func(t *testing.T) {
		f, builds := countingFactory(&mockStore{})

		first, err := f.Store()
		require.NoError(t, err)
		for i := 0; i < 10; i++ {
			again, err := f.Store()
			require.NoError(t, err)
			assert.Same(t, first, again)
		}
		assert.Equal(t, int32(1), atomic.LoadInt32(builds))
	})

	t.Run("concurrent first use builds once", func(t *testing.T) {
		f, builds := countingFactory(&mockStore{})

		var wg sync.WaitGroup
		results := make([]Store, 32)
		for i := range results {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				results[i], _ = f.Store()
			}(i)
		}
		wg.Wait()

		for _, s := range results {
			assert.Same(t, results[0], s)
		}
		assert.Equal(t, int32(1), atomic.LoadInt32(builds))
	})

	t.Run("failed build is not cached", func(t *testing.T) {
		calls := 0
		store := &mockStore{}
		f := NewFactory(func() (Store, error) {
			calls++
			if calls == 1 {
				return nil, errors.New("SUPABASE_URL is required")
			}
			return store, nil
		})

		_, err := f.Store()
		require.Error(t, err)

		got, err := f.Store()
		require.NoError(t, err)
		assert.Same(t, store, got)
		assert.Equal(t, 2, calls)
	})
}

func TestFactory_Insert(t *testing.T) {
	ctx := context.Background()
	data := map[string]any{"conversation_id": "c1", "role": "user", "content": "hi"}

	t.Run("delegates to shared store", func(t *testing.T) {
		store := &mockStore{}
		store.On("Insert", ctx, "messages", data).Return(nil).Twice()
		f, builds := countingFactory(store)

		require.NoError(t, f.Insert(ctx, "messages", data))
		require.NoError(t, f.Insert(ctx, "messages", data))

		store.AssertExpectations(t)
		assert.Equal(t, int32(1), atomic.LoadInt32(builds))
	})

	t.Run("returns store error unmodified", func(t *testing.T) {
		storeErr := errors.New("duplicate key value violates unique constraint")
		store := &mockStore{}
		store.On("Insert", ctx, "messages", data).Return(storeErr)
		f, _ := countingFactory(store)

		err := f.Insert(ctx, "messages", data)
		assert.Same(t, storeErr, err)
	})

	t.Run("returns build error", func(t *testing.T) {
		f := NewFactory(func() (Store, error) { return nil, errors.New("no config") })
		assert.EqualError(t, f.Insert(ctx, "messages", data), "no config")
	})
}

func TestFactory_InsertAndSelect(t *testing.T) {
	ctx := context.Background()
	data := map[string]any{"crm_location_id": "loc-1"}

	t.Run("fills dest", func(t *testing.T) {
		store := &mockStore{}
		store.On("InsertAndSelect", ctx, "accounts", data, mock.Anything).
			Run(func(args mock.Arguments) {
				dest := args.Get(3).(*map[string]any)
				*dest = map[string]any{"id": "a1", "crm_location_id": "loc-1"}
			}).
			Return(nil)
		f, _ := countingFactory(store)

		var row map[string]any
		require.NoError(t, f.InsertAndSelect(ctx, "accounts", data, &row))
		assert.Equal(t, "a1", row["id"])
	})

	t.Run("zero or many rows is an error", func(t *testing.T) {
		for _, n := range []int{0, 2} {
			store := &mockStore{}
			store.On("InsertAndSelect", ctx, "accounts", data, mock.Anything).Return(apperrors.NotSingleRow(n))
			f, _ := countingFactory(store)

			var row map[string]any
			err := f.InsertAndSelect(ctx, "accounts", data, &row)
			assert.Equal(t, apperrors.ErrCodeNotSingleRow, apperrors.GetCode(err))
			assert.Nil(t, row)
		}
	})
}

func serviceRoleKey(t *testing.T) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"role": "service_role"}).
		SignedString([]byte("secret"))
	require.NoError(t, err)
	return s
}

func TestOpen(t *testing.T) {
	t.Run("missing configuration is a configuration fault", func(t *testing.T) {
		_, err := Open(&config.Config{DatabaseBackend: config.BackendREST})
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrCodeConfiguration, apperrors.GetCode(err))
		assert.ErrorIs(t, err, config.ErrMissingServiceURL)
	})

	t.Run("rest backend", func(t *testing.T) {
		store, err := Open(&config.Config{
			DatabaseBackend: config.BackendREST,
			ServiceURL:      "https://example.supabase.co",
			ServiceRoleKey:  serviceRoleKey(t),
		})
		require.NoError(t, err)
		assert.NotNil(t, store)
	})

	t.Run("postgres backend over sqlite", func(t *testing.T) {
		store, err := Open(&config.Config{
			DatabaseBackend: config.BackendPostgres,
			DatabaseDriver:  "sqlite",
			DatabaseURL:     ":memory:",
		})
		require.NoError(t, err)
		assert.NoError(t, store.Ping(context.Background()))
	})
}

func TestWithMetrics(t *testing.T) {
	ctx := context.Background()
	m := metrics.New()

	inner := &mockStore{}
	inner.On("Ping", ctx).Return(nil).Once()
	inner.On("Insert", ctx, "messages", mock.Anything).Return(errors.New("boom")).Once()

	store := WithMetrics(inner, "rest", m)
	require.NoError(t, store.Ping(ctx))
	require.Error(t, store.Insert(ctx, "messages", map[string]any{"role": "user"}))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.StoreOps.WithLabelValues("rest", "ping", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StoreOps.WithLabelValues("rest", "insert", "error")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.StoreOps.WithLabelValues("rest", "insert", "ok")))
}
