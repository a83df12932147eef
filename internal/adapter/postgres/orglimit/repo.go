// Package orglimit implements the per-organization quota counter using PostgreSQL.
// Counts change only by single-statement update-by-delta so concurrent
// writers never lose an increment.
package orglimit

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	postgres "github.com/heartmarshall/taskboard-backend/internal/adapter/postgres"
	"github.com/heartmarshall/taskboard-backend/internal/domain"
)

const table = "org_limits"

const returning = "RETURNING org_id, count, created_at, updated_at"

// Repo provides quota counter persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new org limit repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// Ensure returns the organization's record, creating it with count 0 if absent.
// The row is read FOR UPDATE: inside a transaction it stays locked until
// commit, which serializes admission checks for one organization.
func (r *Repo) Ensure(ctx context.Context, orgID string) (domain.OrgLimit, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	insert, args, err := postgres.Builder().
		Insert(table).
		Columns("org_id", "count").
		Values(orgID, 0).
		Suffix("ON CONFLICT (org_id) DO NOTHING").
		ToSql()
	if err != nil {
		return domain.OrgLimit{}, fmt.Errorf("build ensure org_limit: %w", err)
	}

	if _, err := q.Exec(ctx, insert, args...); err != nil {
		return domain.OrgLimit{}, postgres.MapError(err, "org_limit", orgID)
	}

	query, args, err := postgres.Builder().
		Select("org_id", "count", "created_at", "updated_at").
		From(table).
		Where(sq.Eq{"org_id": orgID}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return domain.OrgLimit{}, fmt.Errorf("build lock org_limit: %w", err)
	}

	return r.scanOne(ctx, orgID, query, args)
}

// Get returns the organization's record or domain.ErrNotFound.
func (r *Repo) Get(ctx context.Context, orgID string) (domain.OrgLimit, error) {
	query, args, err := postgres.Builder().
		Select("org_id", "count", "created_at", "updated_at").
		From(table).
		Where(sq.Eq{"org_id": orgID}).
		ToSql()
	if err != nil {
		return domain.OrgLimit{}, fmt.Errorf("build get org_limit: %w", err)
	}

	return r.scanOne(ctx, orgID, query, args)
}

// Increment atomically adds one to the count, creating the record if needed.
func (r *Repo) Increment(ctx context.Context, orgID string) (domain.OrgLimit, error) {
	query, args, err := postgres.Builder().
		Insert(table).
		Columns("org_id", "count").
		Values(orgID, 1).
		Suffix("ON CONFLICT (org_id) DO UPDATE SET count = " + table + ".count + 1, updated_at = now() " + returning).
		ToSql()
	if err != nil {
		return domain.OrgLimit{}, fmt.Errorf("build increment org_limit: %w", err)
	}

	return r.scanOne(ctx, orgID, query, args)
}

// Decrement atomically subtracts one from the count, never going below zero.
// A missing record is created with count 0.
func (r *Repo) Decrement(ctx context.Context, orgID string) (domain.OrgLimit, error) {
	query, args, err := postgres.Builder().
		Insert(table).
		Columns("org_id", "count").
		Values(orgID, 0).
		Suffix("ON CONFLICT (org_id) DO UPDATE SET count = GREATEST(" + table + ".count - 1, 0), updated_at = now() " + returning).
		ToSql()
	if err != nil {
		return domain.OrgLimit{}, fmt.Errorf("build decrement org_limit: %w", err)
	}

	return r.scanOne(ctx, orgID, query, args)
}

// Set overwrites the count. Used by reconciliation only.
func (r *Repo) Set(ctx context.Context, orgID string, count int) (domain.OrgLimit, error) {
	if count < 0 {
		count = 0
	}

	query, args, err := postgres.Builder().
		Insert(table).
		Columns("org_id", "count").
		Values(orgID, count).
		Suffix("ON CONFLICT (org_id) DO UPDATE SET count = EXCLUDED.count, updated_at = now() " + returning).
		ToSql()
	if err != nil {
		return domain.OrgLimit{}, fmt.Errorf("build set org_limit: %w", err)
	}

	return r.scanOne(ctx, orgID, query, args)
}

// ListOrgIDs returns every organization that has a quota record.
func (r *Repo) ListOrgIDs(ctx context.Context) ([]string, error) {
	query, args, err := postgres.Builder().
		Select("org_id").
		From(table).
		OrderBy("org_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list org_limits: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list org_limits: %w", err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("collect org_limits: %w", err)
	}
	return ids, nil
}

func (r *Repo) scanOne(ctx context.Context, orgID, query string, args []any) (domain.OrgLimit, error) {
	var l domain.OrgLimit
	err := postgres.QuerierFromCtx(ctx, r.db).
		QueryRow(ctx, query, args...).
		Scan(&l.OrgID, &l.Count, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return domain.OrgLimit{}, postgres.MapError(err, "org_limit", orgID)
	}
	return l, nil
}
