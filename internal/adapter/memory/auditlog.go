package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/taskboard-backend/internal/domain"
)

// AuditLogStore is an append-only slice of audit records.
type AuditLogStore struct {
	mu   sync.RWMutex
	logs []domain.AuditLog
	now  func() time.Time
}

// NewAuditLogStore creates an empty audit store.
func NewAuditLogStore() *AuditLogStore {
	return &AuditLogStore{
		now: func() time.Time { return time.Now().UTC() },
	}
}

// Create appends an entry and stamps its creation time. A missing ID is generated.
func (s *AuditLogStore) Create(_ context.Context, log domain.AuditLog) (domain.AuditLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}
	log.CreatedAt = s.now()
	log.UserImage = copyString(log.UserImage)
	s.logs = append(s.logs, log)
	return log, nil
}

// ListByOrg returns the organization's entries, newest first.
func (s *AuditLogStore) ListByOrg(_ context.Context, orgID string, limit int) ([]domain.AuditLog, error) {
	return s.newestFirst(limit, func(l domain.AuditLog) bool {
		return l.OrgID == orgID
	}), nil
}

// ListByEntity returns one entity's history, newest first.
func (s *AuditLogStore) ListByEntity(_ context.Context, orgID string, entityType domain.EntityType, entityID uuid.UUID, limit int) ([]domain.AuditLog, error) {
	return s.newestFirst(limit, func(l domain.AuditLog) bool {
		return l.OrgID == orgID && l.EntityType == entityType && l.EntityID == entityID
	}), nil
}

// newestFirst walks the log backwards; append order is creation order.
func (s *AuditLogStore) newestFirst(limit int, match func(domain.AuditLog) bool) []domain.AuditLog {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.AuditLog, 0)
	for i := len(s.logs) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		if match(s.logs[i]) {
			l := s.logs[i]
			l.UserImage = copyString(l.UserImage)
			out = append(out, l)
		}
	}
	return out
}

func copyString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
