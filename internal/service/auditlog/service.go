// Package auditlog appends immutable audit records for mutations and serves
// the activity feeds built from them.
package auditlog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/taskboard-backend/internal/domain"
)

// CardActivityLimit is how many entries the card activity feed shows.
const CardActivityLimit = 3

// DefaultFeedLimit caps the organization activity feed when no limit is given.
const DefaultFeedLimit = 50

type logRepo interface {
	Create(ctx context.Context, log domain.AuditLog) (domain.AuditLog, error)
	ListByOrg(ctx context.Context, orgID string, limit int) ([]domain.AuditLog, error)
	ListByEntity(ctx context.Context, orgID string, entityType domain.EntityType, entityID uuid.UUID, limit int) ([]domain.AuditLog, error)
}

// Service writes and reads audit records.
type Service struct {
	logs logRepo
	log  *slog.Logger
}

// NewService creates a new audit log service.
func NewService(log *slog.Logger, logs logRepo) *Service {
	return &Service{
		logs: logs,
		log:  log.With("service", "auditlog"),
	}
}

// Append records entry on behalf of identity. The user name and image are
// snapshotted from the identity at write time.
func (s *Service) Append(ctx context.Context, identity domain.Identity, entry domain.AuditEntry) (domain.AuditLog, error) {
	if !identity.IsResolved() {
		return domain.AuditLog{}, domain.ErrUnauthorized
	}

	created, err := s.logs.Create(ctx, domain.AuditLog{
		ID:          uuid.New(),
		OrgID:       identity.OrgID,
		EntityID:    entry.EntityID,
		EntityType:  entry.EntityType,
		EntityTitle: entry.EntityTitle,
		Action:      entry.Action,
		UserID:      identity.UserID,
		UserName:    identity.DisplayName(),
		UserImage:   identity.ImageURL,
	})
	if err != nil {
		s.log.ErrorContext(ctx, "[AUDIT_LOG_ERROR]",
			slog.String("org_id", identity.OrgID),
			slog.String("entity_type", string(entry.EntityType)),
			slog.String("entity_id", entry.EntityID.String()),
			slog.String("action", string(entry.Action)),
			slog.String("error", err.Error()),
		)
		return domain.AuditLog{}, fmt.Errorf("create audit log: %w: %w", domain.ErrAuditFailed, err)
	}

	return created, nil
}

// ListForOrg returns the organization's newest records first.
func (s *Service) ListForOrg(ctx context.Context, orgID string, limit int) ([]domain.AuditLog, error) {
	if orgID == "" {
		return nil, domain.ErrUnauthorized
	}
	if limit <= 0 {
		limit = DefaultFeedLimit
	}

	logs, err := s.logs.ListByOrg(ctx, orgID, limit)
	if err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	return logs, nil
}

// ListForEntity returns the newest records for one entity of the organization.
func (s *Service) ListForEntity(ctx context.Context, orgID string, entityType domain.EntityType, entityID uuid.UUID, limit int) ([]domain.AuditLog, error) {
	if orgID == "" {
		return nil, domain.ErrUnauthorized
	}
	if !entityType.IsValid() {
		return nil, domain.NewValidationError("entity_type", "invalid entity type")
	}
	if limit <= 0 {
		limit = CardActivityLimit
	}

	logs, err := s.logs.ListByEntity(ctx, orgID, entityType, entityID, limit)
	if err != nil {
		return nil, fmt.Errorf("list entity audit logs: %w", err)
	}
	return logs, nil
}
