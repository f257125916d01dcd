package sqlite

import (
	"context"
	"database/sql"

	"time-tracker-gateway/internal/errors"
)

// HandleDatabaseError converts database errors to structured app errors
func HandleDatabaseError(operation string, err error) error {
	return errors.NewDatabaseError(operation, err)
}

// ExecuteWithRowsAffected executes a statement and returns how many rows it
// touched.
func ExecuteWithRowsAffected(ctx context.Context, db *sql.DB, operation, query string, args ...interface{}) (int64, error) {
	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, HandleDatabaseError(operation, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, HandleDatabaseError("get rows affected", err)
	}
	return rows, nil
}

// QueryOptional runs a single-row query. A missing row is reported through the
// bool rather than as an error.
func QueryOptional[T any](ctx context.Context, db *sql.DB, operation, query string, args ...interface{}) (T, bool, error) {
	var value T
	err := db.QueryRowContext(ctx, query, args...).Scan(&value)
	if err == sql.ErrNoRows {
		return value, false, nil
	}
	if err != nil {
		return value, false, HandleDatabaseError(operation, err)
	}
	return value, true, nil
}
