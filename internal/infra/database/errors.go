package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"github.com/xavierca1/ligue-onboarding/internal/entity"
)

// wrapError maps sql.ErrNoRows to entity.ErrNotFound and anything else to a
// classified *entity.DatastoreError.
func wrapError(operation string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return entity.ErrNotFound
	}
	return &entity.DatastoreError{
		Operation: operation,
		Transient: IsTransient(err),
		Err:       err,
	}
}

// IsTransient reports failures worth retrying: timeouts, dropped connections and
// the connection-exception (08) / operator-intervention (57) SQLSTATE classes.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return true
	}
	if pgconn.Timeout(err) || pgconn.SafeToRetry(err) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return transientClass(pgErr.Code)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return transientClass(string(pqErr.Code))
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}

func transientClass(code string) bool {
	return strings.HasPrefix(code, "08") || strings.HasPrefix(code, "57") || code == "40001" || code == "40P01"
}
