package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Constraint names declared by the migrations.
const (
	ConstraintCategoryCode = "category_code_key"
	ConstraintItemSku      = "item_sku_key"
	ConstraintItemCategory = "item_category_id_fkey"
	ConstraintItemStock    = "item_stock_check"
	ConstraintItemPrice    = "item_price_check"
)

// PostgreSQL SQLSTATE codes.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrUniqueViolation     = errors.New("unique violation")
	ErrForeignKeyViolation = errors.New("foreign key violation")
	ErrCheckViolation      = errors.New("check violation")
)

// ConstraintError reports a write rejected by a table constraint.
// It matches both its kind sentinel and the driver error with errors.Is.
type ConstraintError struct {
	Constraint string
	kind       error
	cause      error
}

func NewConstraintError(kind error, constraint string, cause error) *ConstraintError {
	return &ConstraintError{Constraint: constraint, kind: kind, cause: cause}
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("%s on %s", e.kind, e.Constraint)
}

func (e *ConstraintError) Unwrap() []error {
	if e.cause == nil {
		return []error{e.kind}
	}
	return []error{e.kind, e.cause}
}

// IsConstraint reports whether err is a ConstraintError for the named constraint.
func IsConstraint(err error, constraint string) bool {
	var cErr *ConstraintError
	return errors.As(err, &cErr) && cErr.Constraint == constraint
}

// translateError maps driver errors onto the package sentinels.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgUniqueViolation:
		return NewConstraintError(ErrUniqueViolation, pgErr.ConstraintName, err)
	case pgForeignKeyViolation:
		return NewConstraintError(ErrForeignKeyViolation, pgErr.ConstraintName, err)
	case pgCheckViolation:
		return NewConstraintError(ErrCheckViolation, pgErr.ConstraintName, err)
	default:
		return err
	}
}
