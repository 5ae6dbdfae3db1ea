package repository

import (
	"errors"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// isUniqueViolation reports whether err comes from a unique constraint.
// Postgres is matched on SQLSTATE, sqlite on the driver message.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.UniqueViolation
	}

	for e := err; e != nil; e = errors.Unwrap(e) {
		msg := e.Error()
		if strings.Contains(msg, "UNIQUE constraint failed") ||
			strings.Contains(msg, "duplicate key value") {
			return true
		}
	}

	return false
}

// NewConnectionError reports a database that could not be reached.
func NewConnectionError(err error, driver Driver) error {
	return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to reach database").
		WithMetadata(map[string]any{
			"driver": string(driver),
		})
}
