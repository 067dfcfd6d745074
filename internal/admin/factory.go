package admin

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

// BuildFunc constructs the privileged store.
type BuildFunc func() (Store, error)

// Factory lazily builds one privileged store and hands the same instance to
// every caller for the lifetime of the process. A failed build is not cached.
type Factory struct {
	build BuildFunc

	mu    sync.Mutex
	store Store
}

// NewFactory returns a factory that calls build on first use.
func NewFactory(build BuildFunc) *Factory {
	return &Factory{build: build}
}

// Store returns the shared store, building it if no earlier call succeeded.
func (f *Factory) Store() (Store, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.store != nil {
		return f.store, nil
	}

	store, err := f.build()
	if err != nil {
		return nil, err
	}

	f.store = store
	log.Info().Msg("privileged database client initialized")
	return store, nil
}

// Insert writes data into table through the shared store.
func (f *Factory) Insert(ctx context.Context, table string, data map[string]any) error {
	store, err := f.Store()
	if err != nil {
		return err
	}
	return store.Insert(ctx, table, data)
}

// InsertAndSelect writes data into table and reads back exactly one row.
func (f *Factory) InsertAndSelect(ctx context.Context, table string, data map[string]any, dest any) error {
	store, err := f.Store()
	if err != nil {
		return err
	}
	return store.InsertAndSelect(ctx, table, data, dest)
}
