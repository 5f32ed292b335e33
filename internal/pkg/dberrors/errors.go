package dberrors

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.mongodb.org/mongo-driver/mongo"
)

// PostgreSQL error codes we care about
const (
	pgCheckViolation       = "23514"
	pgNotNullViolation     = "23502"
	pgSerializationFailure = "40001"
)

// IsNotFound reports whether a driver error means that no row or document matched
func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows) || errors.Is(err, mongo.ErrNoDocuments)
}

// IsConstraintViolation reports whether Postgres rejected a row for a CHECK or NOT NULL constraint
func IsConstraintViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && (pgErr.Code == pgCheckViolation || pgErr.Code == pgNotNullViolation)
}

// IsTransactionConflict reports whether a transaction lost a write conflict and may be retried by the caller
func IsTransactionConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgSerializationFailure {
		return true
	}

	var labeled mongo.LabeledError
	if errors.As(err, &labeled) && labeled.HasErrorLabel("TransientTransactionError") {
		return true
	}
	return false
}
