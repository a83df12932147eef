package auditlog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/taskboard-backend/internal/domain"
)

func newMockRepo(t *testing.T) (*Repo, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return New(mock), mock
}

func logRows(logs ...domain.AuditLog) *pgxmock.Rows {
	rows := pgxmock.NewRows([]string{
		"id", "org_id", "action", "entity_id", "entity_type", "entity_title",
		"user_id", "user_image", "user_name", "created_at",
	})
	for _, l := range logs {
		rows.AddRow(l.ID, l.OrgID, string(l.Action), l.EntityID, string(l.EntityType), l.EntityTitle,
			l.UserID, l.UserImage, l.UserName, l.CreatedAt)
	}
	return rows
}

func sampleLog() domain.AuditLog {
	return domain.AuditLog{
		ID:          uuid.New(),
		OrgID:       "org_1",
		EntityID:    uuid.New(),
		EntityType:  domain.EntityTypeCard,
		EntityTitle: "Write docs",
		Action:      domain.AuditActionCreate,
		UserID:      "user_1",
		UserName:    "Ada Lovelace",
		CreatedAt:   time.Now().UTC(),
	}
}

func TestRepo_Create(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(mock pgxmock.PgxPoolIface, l domain.AuditLog)
		wantErr bool
	}{
		{
			name: "successful creation",
			setup: func(mock pgxmock.PgxPoolIface, l domain.AuditLog) {
				mock.ExpectQuery(`INSERT INTO audit_logs .+ RETURNING`).
					WithArgs(l.ID, l.OrgID, "CREATE", l.EntityID, "CARD", l.EntityTitle, l.UserID, l.UserImage, l.UserName).
					WillReturnRows(logRows(l))
			},
		},
		{
			name: "database error",
			setup: func(mock pgxmock.PgxPoolIface, l domain.AuditLog) {
				mock.ExpectQuery(`INSERT INTO audit_logs`).
					WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
						pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
					WillReturnError(errors.New("disk full"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepo(t)
			in := sampleLog()
			tt.setup(mock, in)

			got, err := repo.Create(context.Background(), in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, in.ID, got.ID)
			assert.Equal(t, domain.AuditActionCreate, got.Action)
			assert.Equal(t, domain.EntityTypeCard, got.EntityType)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepo_ListByOrg_AppliesLimit(t *testing.T) {
	repo, mock := newMockRepo(t)
	l1, l2 := sampleLog(), sampleLog()

	mock.ExpectQuery(`SELECT .+ FROM audit_logs WHERE org_id = \$1 ORDER BY created_at DESC LIMIT 2`).
		WithArgs("org_1").
		WillReturnRows(logRows(l1, l2))

	got, err := repo.ListByOrg(context.Background(), "org_1", 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, l1.ID, got[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepo_ListByEntity(t *testing.T) {
	repo, mock := newMockRepo(t)
	l := sampleLog()

	mock.ExpectQuery(`FROM audit_logs WHERE entity_id = \$1 AND org_id = \$2 AND entity_type = \$3::entity_type ORDER BY created_at DESC LIMIT 3`).
		WithArgs(l.EntityID.String(), "org_1", "CARD").
		WillReturnRows(logRows(l))

	got, err := repo.ListByEntity(context.Background(), "org_1", domain.EntityTypeCard, l.EntityID, 3)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Write docs", got[0].EntityTitle)
	assert.NoError(t, mock.ExpectationsWereMet())
}
