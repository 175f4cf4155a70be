package errors

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// MapDBError translates failures of the postgres storage backend into AppErrors.
// A missing row or a missing table reads as not found: nothing was stored yet.
// Errors it does not recognise are returned unchanged.
func MapDBError(err error) error {
	if err == nil {
		return nil
	}
	code, message := classifyDBError(err)
	if code == "" {
		return err
	}
	return Wrap(err, code, message)
}

func classifyDBError(err error) (ErrorCode, string) {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return ErrCodeTimeout, "storage request timed out"
	case errors.Is(err, context.Canceled):
		return ErrCodeCanceled, "storage request was canceled"
	case errors.Is(err, pgx.ErrNoRows), errors.Is(err, sql.ErrNoRows):
		return ErrCodeNotFound, "key not found"
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return "", ""
	}
	switch {
	case pgErr.Code == pgerrcode.UndefinedTable:
		return ErrCodeNotFound, "key not found"
	case pgerrcode.IsConnectionException(pgErr.Code),
		pgErr.Code == pgerrcode.AdminShutdown,
		pgErr.Code == pgerrcode.CannotConnectNow:
		return ErrCodeUnavailable, "storage backend unavailable"
	default:
		return ErrCodeInternal, "a storage error occurred"
	}
}
