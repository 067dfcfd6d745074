package admin

import (
	"context"
)

// Store is the privileged data access surface. Implementations bypass
// row-level access control and report faults as AppErrors or typed backend
// errors that carry their upstream detail.
type Store interface {
	// SelectSingle reads the one row of table whose columns equal match.
	SelectSingle(ctx context.Context, table string, match map[string]any, dest any) error
	Insert(ctx context.Context, table string, data map[string]any) error
	// InsertAndSelect inserts data and reads the inserted row back into dest.
	InsertAndSelect(ctx context.Context, table string, data map[string]any, dest any) error
	// Ping checks the backend answers. Used by the readiness route.
	Ping(ctx context.Context) error
}
