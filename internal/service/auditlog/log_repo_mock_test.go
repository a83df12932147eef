package auditlog

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/taskboard-backend/internal/domain"
)

var _ logRepo = &logRepoMock{}

type logRepoMock struct {
	CreateFunc       func(ctx context.Context, log domain.AuditLog) (domain.AuditLog, error)
	ListByOrgFunc    func(ctx context.Context, orgID string, limit int) ([]domain.AuditLog, error)
	ListByEntityFunc func(ctx context.Context, orgID string, entityType domain.EntityType, entityID uuid.UUID, limit int) ([]domain.AuditLog, error)

	calls struct {
		Create []struct {
			Ctx context.Context
			Log domain.AuditLog
		}
		ListByOrg []struct {
			Ctx   context.Context
			OrgID string
			Limit int
		}
		ListByEntity []struct {
			Ctx        context.Context
			OrgID      string
			EntityType domain.EntityType
			EntityID   uuid.UUID
			Limit      int
		}
	}
	lockCreate       sync.RWMutex
	lockListByOrg    sync.RWMutex
	lockListByEntity sync.RWMutex
}

func (mock *logRepoMock) Create(ctx context.Context, log domain.AuditLog) (domain.AuditLog, error) {
	if mock.CreateFunc == nil {
		panic("logRepoMock.CreateFunc: method is nil but logRepo.Create was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Log domain.AuditLog
	}{Ctx: ctx, Log: log}
	mock.lockCreate.Lock()
	mock.calls.Create = append(mock.calls.Create, callInfo)
	mock.lockCreate.Unlock()
	return mock.CreateFunc(ctx, log)
}

func (mock *logRepoMock) CreateCalls() []struct {
	Ctx context.Context
	Log domain.AuditLog
} {
	mock.lockCreate.RLock()
	calls := mock.calls.Create
	mock.lockCreate.RUnlock()
	return calls
}

func (mock *logRepoMock) ListByOrg(ctx context.Context, orgID string, limit int) ([]domain.AuditLog, error) {
	if mock.ListByOrgFunc == nil {
		panic("logRepoMock.ListByOrgFunc: method is nil but logRepo.ListByOrg was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		OrgID string
		Limit int
	}{Ctx: ctx, OrgID: orgID, Limit: limit}
	mock.lockListByOrg.Lock()
	mock.calls.ListByOrg = append(mock.calls.ListByOrg, callInfo)
	mock.lockListByOrg.Unlock()
	return mock.ListByOrgFunc(ctx, orgID, limit)
}

func (mock *logRepoMock) ListByOrgCalls() []struct {
	Ctx   context.Context
	OrgID string
	Limit int
} {
	mock.lockListByOrg.RLock()
	calls := mock.calls.ListByOrg
	mock.lockListByOrg.RUnlock()
	return calls
}

func (mock *logRepoMock) ListByEntity(ctx context.Context, orgID string, entityType domain.EntityType, entityID uuid.UUID, limit int) ([]domain.AuditLog, error) {
	if mock.ListByEntityFunc == nil {
		panic("logRepoMock.ListByEntityFunc: method is nil but logRepo.ListByEntity was just called")
	}
	callInfo := struct {
		Ctx        context.Context
		OrgID      string
		EntityType domain.EntityType
		EntityID   uuid.UUID
		Limit      int
	}{Ctx: ctx, OrgID: orgID, EntityType: entityType, EntityID: entityID, Limit: limit}
	mock.lockListByEntity.Lock()
	mock.calls.ListByEntity = append(mock.calls.ListByEntity, callInfo)
	mock.lockListByEntity.Unlock()
	return mock.ListByEntityFunc(ctx, orgID, entityType, entityID, limit)
}

func (mock *logRepoMock) ListByEntityCalls() []struct {
	Ctx        context.Context
	OrgID      string
	EntityType domain.EntityType
	EntityID   uuid.UUID
	Limit      int
} {
	mock.lockListByEntity.RLock()
	calls := mock.calls.ListByEntity
	mock.lockListByEntity.RUnlock()
	return calls
}
