package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/heartmarshall/taskboard-backend/internal/domain"
)

func TestMapError_Nil(t *testing.T) {
	t.Parallel()

	assert.NoError(t, MapError(nil, "board", uuid.New()))
}

func TestMapError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "no rows", err: pgx.ErrNoRows, want: domain.ErrNotFound},
		{name: "wrapped no rows", err: fmt.Errorf("scan list: %w", pgx.ErrNoRows), want: domain.ErrNotFound},
		{name: "duplicate board id", err: &pgconn.PgError{Code: codeUniqueViolation}, want: domain.ErrAlreadyExists},
		{name: "card for deleted list", err: &pgconn.PgError{Code: codeForeignKeyViolation}, want: domain.ErrNotFound},
		{name: "negative order", err: &pgconn.PgError{Code: codeCheckViolation}, want: domain.ErrValidation},
		{name: "serialization failure", err: &pgconn.PgError{Code: codeSerializationFailure}, want: domain.ErrConflict},
		{name: "deadlock", err: &pgconn.PgError{Code: codeDeadlockDetected}, want: domain.ErrConflict},
		{name: "wrapped pg error", err: fmt.Errorf("insert card: %w", &pgconn.PgError{Code: codeUniqueViolation}), want: domain.ErrAlreadyExists},
		{name: "deadline", err: context.DeadlineExceeded, want: context.DeadlineExceeded},
		{name: "canceled", err: context.Canceled, want: context.Canceled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := MapError(tt.err, "card", uuid.New())
			assert.ErrorIs(t, got, tt.want)
		})
	}
}

func TestMapError_PassesThroughUnknown(t *testing.T) {
	t.Parallel()

	id := uuid.New()

	pgErr := &pgconn.PgError{Code: "42P01", Message: "relation \"cards\" does not exist"}
	got := MapError(pgErr, "card", id)
	var asPg *pgconn.PgError
	assert.ErrorAs(t, got, &asPg)
	for _, domainErr := range []error{domain.ErrNotFound, domain.ErrAlreadyExists, domain.ErrValidation, domain.ErrConflict} {
		assert.NotErrorIs(t, got, domainErr)
	}

	plain := errors.New("connection reset")
	got = MapError(plain, "board", id)
	assert.ErrorIs(t, got, plain)
	assert.Equal(t, fmt.Sprintf("board %s: connection reset", id), got.Error())
}

func TestMapError_MessageNamesEntity(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "org_limit org_9: not found", MapError(pgx.ErrNoRows, "org_limit", "org_9").Error())
	assert.Equal(t, "context deadline exceeded", errors.Unwrap(MapError(context.DeadlineExceeded, "board", 1)).Error())
}
