package database

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

var (
	ErrNotFound            = errors.New("record not found")
	ErrDuplicateKey        = errors.New("duplicate key")
	ErrForeignKeyViolation = errors.New("foreign key violation")
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// TranslateError maps driver errors onto the sentinel errors above.
// The original error stays in the chain.
func TranslateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case codeUniqueViolation:
			return fmt.Errorf("%w: %s: %w", ErrDuplicateKey, pqErr.Constraint, err)
		case codeForeignKeyViolation:
			return fmt.Errorf("%w: %s: %w", ErrForeignKeyViolation, pqErr.Constraint, err)
		}
	}
	return err
}

// ConstraintName returns the constraint a Postgres error names, or "".
func ConstraintName(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Constraint
	}
	return ""
}
