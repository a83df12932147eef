package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/heartmarshall/taskboard-backend/internal/domain"
)

// SQLSTATE codes the board tables can raise.
const (
	codeUniqueViolation      = "23505"
	codeForeignKeyViolation  = "23503"
	codeCheckViolation       = "23514"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
)

var codeErrors = map[string]error{
	codeUniqueViolation:      domain.ErrAlreadyExists,
	codeForeignKeyViolation:  domain.ErrNotFound, // parent board or list is gone
	codeCheckViolation:       domain.ErrValidation,
	codeSerializationFailure: domain.ErrConflict,
	codeDeadlockDetected:     domain.ErrConflict,
}

// MapError translates a pgx error into a domain error, prefixed with the
// entity and its id. Context errors are wrapped unchanged.
func MapError(err error, entity string, id any) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return fmt.Errorf("%s %v: %w", entity, id, err)
	case errors.Is(err, pgx.ErrNoRows):
		return fmt.Errorf("%s %v: %w", entity, id, domain.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if mapped, ok := codeErrors[pgErr.Code]; ok {
			return fmt.Errorf("%s %v: %w", entity, id, mapped)
		}
	}

	return fmt.Errorf("%s %v: %w", entity, id, err)
}
