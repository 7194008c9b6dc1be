package persistence

import (
	"database/sql"
	"errors"

	"mailpilot/pkg/apperr"

	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolation = "23505"

// mapError converts driver errors into app errors. resource names the entity
// in not-found messages.
func mapError(op, resource string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.NotFound(resource)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return apperr.Conflict(resource + " already exists").WithError(err)
	}
	return apperr.DatabaseError(op, err)
}

// requireAffected turns a zero-row write into a not-found error.
func requireAffected(res sql.Result, resource string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return apperr.DatabaseError("rows affected", err)
	}
	if n == 0 {
		return apperr.NotFound(resource)
	}
	return nil
}
