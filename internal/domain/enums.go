package domain

// EntityType identifies the kind of entity recorded in the audit log.
type EntityType string

const (
	EntityTypeBoard EntityType = "BOARD"
	EntityTypeList  EntityType = "LIST"
	EntityTypeCard  EntityType = "CARD"
)

func (e EntityType) String() string { return string(e) }

func (e EntityType) IsValid() bool {
	switch e {
	case EntityTypeBoard, EntityTypeList, EntityTypeCard:
		return true
	}
	return false
}

// AuditAction represents the kind of mutation recorded in the audit log.
type AuditAction string

const (
	AuditActionCreate AuditAction = "CREATE"
	AuditActionUpdate AuditAction = "UPDATE"
	AuditActionDelete AuditAction = "DELETE"
)

func (a AuditAction) String() string { return string(a) }

func (a AuditAction) IsValid() bool {
	switch a {
	case AuditActionCreate, AuditActionUpdate, AuditActionDelete:
		return true
	}
	return false
}
