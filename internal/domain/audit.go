package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditLog is an immutable record of a mutation. EntityTitle and UserName
// are snapshots taken at write time.
type AuditLog struct {
	ID          uuid.UUID
	OrgID       string
	EntityID    uuid.UUID
	EntityType  EntityType
	EntityTitle string
	Action      AuditAction
	UserID      string
	UserName    string
	UserImage   *string
	CreatedAt   time.Time
}

// AuditEntry is what a handler reports about a mutation. The caller identity
// and system fields are filled in by the audit log service.
type AuditEntry struct {
	EntityID    uuid.UUID
	EntityType  EntityType
	EntityTitle string
	Action      AuditAction
}

// OrgLimit counts quota-bound entities of one organization.
type OrgLimit struct {
	OrgID     string
	Count     int
	CreatedAt time.Time
	UpdatedAt time.Time
}
