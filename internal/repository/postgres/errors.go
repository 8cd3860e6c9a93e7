package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"curriculum/internal/domain"
)

// IsPgNoRowsError checks if error is a "no rows" error
func IsPgNoRowsError(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// IsPgUndefinedTableError checks if error is a missing table (42P01)
func IsPgUndefinedTableError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "42P01"
	}
	return false
}

// courseError wraps a failed course query. A missing table means the schema
// was never created for the configured TABLE_PREFIX, which is a
// configuration error rather than a transport failure.
func courseError(op string, err error) error {
	if IsPgUndefinedTableError(err) {
		return fmt.Errorf("%w: %s: courses table missing (run cmd/seed --schema-only): %w", domain.ErrConfiguration, op, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
