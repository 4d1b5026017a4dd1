package db

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Postgres SQLSTATE codes the repositories care about.
const (
	pgUniqueViolation     = "23505"
	pgNotNullViolation    = "23502"
	pgCheckViolation      = "23514"
	pgNumericOutOfRange   = "22003"
	pgInvalidDatetime     = "22007"
	pgUndefinedTable      = "42P01"
	pgAdminShutdown       = "57P01"
	pgCannotConnectNow    = "57P03"
	pgConnectionException = "08"
)

func IsDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}

	msg := err.Error()
	// MySQL 1062, SQLite 2067.
	return strings.Contains(msg, "Error 1062") || strings.Contains(msg, "UNIQUE constraint failed")
}

// IsUnavailable reports errors that mean the database could not be reached.
func IsUnavailable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return strings.HasPrefix(pgErr.Code, pgConnectionException) ||
			pgErr.Code == pgAdminShutdown ||
			pgErr.Code == pgCannotConnectNow
	}
	return false
}

func IsMissingTable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUndefinedTable
	}
	return err != nil && strings.Contains(err.Error(), "no such table")
}

// Describe turns a database error into a short message safe to show in the
// admin UI. Unknown errors keep their driver text.
func Describe(err error) string {
	if err == nil {
		return ""
	}
	switch {
	case IsUnavailable(err):
		return "database unavailable"
	case IsDuplicateKeyErr(err):
		return "duplicate key"
	case IsMissingTable(err):
		return "table does not exist, run migrations"
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgNotNullViolation:
			return "missing required column " + pgErr.ColumnName
		case pgCheckViolation:
			return "value violates constraint " + pgErr.ConstraintName
		case pgNumericOutOfRange:
			return "numeric value out of range"
		case pgInvalidDatetime:
			return "invalid date/time value"
		}
		return pgErr.Message
	}
	return err.Error()
}
