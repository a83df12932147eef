package board

import (
	"context"
	"sync"

	"github.com/heartmarshall/taskboard-backend/internal/domain"
)

var _ auditAppender = &auditAppenderMock{}

type auditAppenderMock struct {
	AppendFunc func(ctx context.Context, identity domain.Identity, entry domain.AuditEntry) (domain.AuditLog, error)

	calls struct {
		Append []struct {
			Ctx      context.Context
			Identity domain.Identity
			Entry    domain.AuditEntry
		}
	}
	lockAppend sync.RWMutex
}

func (mock *auditAppenderMock) Append(ctx context.Context, identity domain.Identity, entry domain.AuditEntry) (domain.AuditLog, error) {
	if mock.AppendFunc == nil {
		panic("auditAppenderMock.AppendFunc: method is nil but auditAppender.Append was just called")
	}
	callInfo := struct {
		Ctx      context.Context
		Identity domain.Identity
		Entry    domain.AuditEntry
	}{Ctx: ctx, Identity: identity, Entry: entry}
	mock.lockAppend.Lock()
	mock.calls.Append = append(mock.calls.Append, callInfo)
	mock.lockAppend.Unlock()
	return mock.AppendFunc(ctx, identity, entry)
}

func (mock *auditAppenderMock) AppendCalls() []struct {
	Ctx      context.Context
	Identity domain.Identity
	Entry    domain.AuditEntry
} {
	mock.lockAppend.RLock()
	calls := mock.calls.Append
	mock.lockAppend.RUnlock()
	return calls
}
