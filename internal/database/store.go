package database

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"modernc.org/sqlite"

	apperrors "github.com/convoflow/crm-bridge-go/internal/errors"
	"github.com/convoflow/crm-bridge-go/internal/util"
)

// Store runs single-table statements over a direct connection. Rows can be
// read into a struct with db tags or into a *map[string]any.
type Store struct {
	db  *DB
	sql sq.StatementBuilderType
}

func NewStore(db *DB) *Store {
	var placeholder sq.PlaceholderFormat = sq.Question
	if db.driver == DriverPostgres {
		placeholder = sq.Dollar
	}

	return &Store{
		db:  db,
		sql: sq.StatementBuilder.PlaceholderFormat(placeholder),
	}
}

func (s *Store) SelectSingle(ctx context.Context, table string, match map[string]any, dest any) error {
	if err := checkIdentifiers(table, match); err != nil {
		return err
	}

	// Two rows are enough to tell "one" from "many".
	query, args, err := s.sql.Select("*").
		From(table).
		Where(sq.Eq(match)).
		Limit(2).
		ToSql()
	if err != nil {
		return fmt.Errorf("build select %s query: %w", table, err)
	}

	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return driverError(err)
	}
	return driverError(scanSingle(rows, dest))
}

func (s *Store) Insert(ctx context.Context, table string, data map[string]any) error {
	if err := checkIdentifiers(table, data); err != nil {
		return err
	}

	query, args, err := s.sql.Insert(table).SetMap(data).ToSql()
	if err != nil {
		return fmt.Errorf("build insert %s query: %w", table, err)
	}

	_, err = s.db.ExecContext(ctx, query, args...)
	return driverError(err)
}

func (s *Store) InsertAndSelect(ctx context.Context, table string, data map[string]any, dest any) error {
	if err := checkIdentifiers(table, data); err != nil {
		return err
	}

	query, args, err := s.sql.Insert(table).
		SetMap(data).
		Suffix("RETURNING *").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert %s query: %w", table, err)
	}

	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return driverError(err)
	}
	return driverError(scanSingle(rows, dest))
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// scanSingle reads rows into dest and fails unless there was exactly one.
// dest is left zeroed when the count is wrong.
func scanSingle(rows *sqlx.Rows, dest any) error {
	defer rows.Close()

	n := 0
	for rows.Next() {
		n++
		if n > 1 {
			continue
		}
		if err := scanRow(rows, dest); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	if n != 1 {
		if n > 1 {
			resetDest(dest)
		}
		return apperrors.NotSingleRow(n)
	}
	return nil
}

func scanRow(rows *sqlx.Rows, dest any) error {
	if dest == nil {
		return nil
	}
	if m, ok := dest.(*map[string]any); ok {
		if *m == nil {
			*m = make(map[string]any)
		}
		return rows.MapScan(*m)
	}
	return rows.StructScan(dest)
}

func resetDest(dest any) {
	if dest == nil {
		return
	}
	v := reflect.ValueOf(dest)
	if v.Kind() == reflect.Pointer && !v.IsNil() {
		v.Elem().Set(reflect.Zero(v.Elem().Type()))
	}
}

// driverError wraps a driver fault as a DATABASE_ERROR carrying the driver's
// structured fields. AppErrors pass through.
func driverError(err error) error {
	if err == nil || apperrors.IsAppError(err) {
		return err
	}

	appErr := apperrors.Database(err)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return appErr.WithDetails(map[string]any{
			"message":    pqErr.Message,
			"code":       string(pqErr.Code),
			"severity":   pqErr.Severity,
			"detail":     pqErr.Detail,
			"hint":       pqErr.Hint,
			"table":      pqErr.Table,
			"column":     pqErr.Column,
			"constraint": pqErr.Constraint,
		})
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return appErr.WithDetails(map[string]any{
			"message": err.Error(),
			"code":    liteErr.Code(),
		})
	}

	return appErr
}

func checkIdentifiers(table string, columns map[string]any) error {
	if !util.IsValidIdentifier(table) {
		return apperrors.InvalidInput("table", table)
	}
	for col := range columns {
		if !util.IsValidIdentifier(col) {
			return apperrors.InvalidInput("column", col)
		}
	}
	return nil
}
