// Package store holds the SQL for every table. Functions take a Querier so the same
// code runs against the pool or inside a transaction.
package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

var (
	ErrNotFound       = errors.New("RECORD_NOT_FOUND")
	ErrDuplicateEmail = errors.New("DUPLICATE_EMAIL")
	ErrDuplicate      = errors.New("DUPLICATE_RECORD")
)

// Querier is satisfied by *sql.DB and *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

const uniqueViolation = "23505"

// isUniqueViolation reports whether err is a Postgres unique constraint failure.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// IsUniqueViolation is exported for callers that insert outside this package's helpers.
func IsUniqueViolation(err error) bool {
	return isUniqueViolation(err)
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
