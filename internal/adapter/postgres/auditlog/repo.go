// Package auditlog implements the audit log repository using PostgreSQL.
// It provides append-only operations for audit log records.
package auditlog

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	postgres "github.com/heartmarshall/taskboard-backend/internal/adapter/postgres"
	"github.com/heartmarshall/taskboard-backend/internal/domain"
)

const table = "audit_logs"

var columns = []string{
	"id", "org_id", "action::text", "entity_id", "entity_type::text", "entity_title",
	"user_id", "user_image", "user_name", "created_at",
}

// Repo provides audit log persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new audit log repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts a new audit record and returns the persisted row.
func (r *Repo) Create(ctx context.Context, log domain.AuditLog) (domain.AuditLog, error) {
	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}

	query, args, err := postgres.Builder().
		Insert(table).
		Columns("id", "org_id", "action", "entity_id", "entity_type", "entity_title", "user_id", "user_image", "user_name").
		Values(
			log.ID, log.OrgID, sq.Expr("?::audit_action", string(log.Action)), log.EntityID,
			sq.Expr("?::entity_type", string(log.EntityType)), log.EntityTitle,
			log.UserID, log.UserImage, log.UserName,
		).
		Suffix("RETURNING " + joinColumns()).
		ToSql()
	if err != nil {
		return domain.AuditLog{}, fmt.Errorf("build create audit_log: %w", err)
	}

	got, err := scanLog(postgres.QuerierFromCtx(ctx, r.db).QueryRow(ctx, query, args...))
	if err != nil {
		return domain.AuditLog{}, postgres.MapError(err, "audit_log", log.ID)
	}
	return got, nil
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// ListByOrg returns the organization's audit records, newest first.
func (r *Repo) ListByOrg(ctx context.Context, orgID string, limit int) ([]domain.AuditLog, error) {
	b := postgres.Builder().
		Select(columns...).
		From(table).
		Where(sq.Eq{"org_id": orgID}).
		OrderBy("created_at DESC")
	if limit > 0 {
		b = b.Limit(uint64(limit))
	}

	return r.list(ctx, b)
}

// ListByEntity returns the history of one entity of the organization, newest first.
func (r *Repo) ListByEntity(ctx context.Context, orgID string, entityType domain.EntityType, entityID uuid.UUID, limit int) ([]domain.AuditLog, error) {
	b := postgres.Builder().
		Select(columns...).
		From(table).
		Where(sq.Eq{"org_id": orgID, "entity_id": entityID}).
		Where("entity_type = ?::entity_type", string(entityType)).
		OrderBy("created_at DESC")
	if limit > 0 {
		b = b.Limit(uint64(limit))
	}

	return r.list(ctx, b)
}

func (r *Repo) list(ctx context.Context, b sq.SelectBuilder) ([]domain.AuditLog, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list audit_logs: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list audit_logs: %w", err)
	}
	defer rows.Close()

	logs := make([]domain.AuditLog, 0)
	for rows.Next() {
		l, err := scanLog(rows)
		if err != nil {
			return nil, fmt.Errorf("scan audit_log: %w", err)
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("audit_logs rows: %w", err)
	}
	return logs, nil
}

// ---------------------------------------------------------------------------
// Mapping
// ---------------------------------------------------------------------------

func scanLog(row pgx.Row) (domain.AuditLog, error) {
	var (
		l          domain.AuditLog
		action     string
		entityType string
	)
	err := row.Scan(
		&l.ID, &l.OrgID, &action, &l.EntityID, &entityType, &l.EntityTitle,
		&l.UserID, &l.UserImage, &l.UserName, &l.CreatedAt,
	)
	if err != nil {
		return domain.AuditLog{}, err
	}
	l.Action = domain.AuditAction(action)
	l.EntityType = domain.EntityType(entityType)
	l.CreatedAt = l.CreatedAt.UTC()
	return l, nil
}

func joinColumns() string {
	out := columns[0]
	for _, c := range columns[1:] {
		out += ", " + c
	}
	return out
}
