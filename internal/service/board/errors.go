package board

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/heartmarshall/taskboard-backend/internal/action/schema"
	"github.com/heartmarshall/taskboard-backend/internal/domain"
)

// notFound turns a store miss into a user-facing message naming the entity.
// Other errors pass through wrapped with op.
func notFound(err error, entity, op string) error {
	if errors.Is(err, domain.ErrNotFound) {
		return domain.NewPublicError(domain.ErrNotFound, entity+" not found")
	}
	return fmt.Errorf("%s: %w", op, err)
}

func parseID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, domain.NewValidationError("id", schema.DefaultInvalidUUID)
	}
	return id, nil
}
