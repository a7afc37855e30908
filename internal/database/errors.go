package database

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"jobtracker/internal/pkg/apperr"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// IsUniqueViolation reports whether err was raised by a unique constraint.
func IsUniqueViolation(err error) bool {
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
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// IsForeignKeyViolation reports whether err was raised by a foreign key.
func IsForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgForeignKeyViolation
	}
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

// ConstraintName returns the violated constraint when the driver reports it.
// SQLite does not, so callers pass a fallback.
func ConstraintName(err error, fallback string) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.ConstraintName != "" {
		return pgErr.ConstraintName
	}
	return fallback
}

// Conflict maps a unique violation to known, unless the driver names a
// different constraint. Then the 409 reports the one that actually fired.
func Conflict(err error, known *apperr.ConflictError) *apperr.ConflictError {
	name := ConstraintName(err, known.Constraint)
	if name == known.Constraint {
		return known
	}
	return &apperr.ConflictError{Constraint: name}
}

// ForUpdate locks the selected rows until the transaction ends. SQLite has no
// row locks and serializes writers instead, so the clause is skipped there.
func ForUpdate(tx *gorm.DB) *gorm.DB {
	if Dialect(tx) == DialectPostgres {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}
