package board

import (
	"context"
	"sync"

	"github.com/heartmarshall/taskboard-backend/internal/domain"
)

var _ quotaLedger = &quotaLedgerMock{}

type quotaLedgerMock struct {
	IsUnderLimitFunc func(ctx context.Context, orgID string) (bool, error)
	IncrementFunc    func(ctx context.Context, orgID string) (domain.OrgLimit, error)
	DecrementFunc    func(ctx context.Context, orgID string) (domain.OrgLimit, error)

	calls struct {
		IsUnderLimit []struct {
			Ctx   context.Context
			OrgID string
		}
		Increment []struct {
			Ctx   context.Context
			OrgID string
		}
		Decrement []struct {
			Ctx   context.Context
			OrgID string
		}
	}
	lockIsUnderLimit sync.RWMutex
	lockIncrement    sync.RWMutex
	lockDecrement    sync.RWMutex
}

func (mock *quotaLedgerMock) IsUnderLimit(ctx context.Context, orgID string) (bool, error) {
	if mock.IsUnderLimitFunc == nil {
		panic("quotaLedgerMock.IsUnderLimitFunc: method is nil but quotaLedger.IsUnderLimit was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		OrgID string
	}{Ctx: ctx, OrgID: orgID}
	mock.lockIsUnderLimit.Lock()
	mock.calls.IsUnderLimit = append(mock.calls.IsUnderLimit, callInfo)
	mock.lockIsUnderLimit.Unlock()
	return mock.IsUnderLimitFunc(ctx, orgID)
}

func (mock *quotaLedgerMock) IsUnderLimitCalls() []struct {
	Ctx   context.Context
	OrgID string
} {
	mock.lockIsUnderLimit.RLock()
	calls := mock.calls.IsUnderLimit
	mock.lockIsUnderLimit.RUnlock()
	return calls
}

func (mock *quotaLedgerMock) Increment(ctx context.Context, orgID string) (domain.OrgLimit, error) {
	if mock.IncrementFunc == nil {
		panic("quotaLedgerMock.IncrementFunc: method is nil but quotaLedger.Increment was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		OrgID string
	}{Ctx: ctx, OrgID: orgID}
	mock.lockIncrement.Lock()
	mock.calls.Increment = append(mock.calls.Increment, callInfo)
	mock.lockIncrement.Unlock()
	return mock.IncrementFunc(ctx, orgID)
}

func (mock *quotaLedgerMock) IncrementCalls() []struct {
	Ctx   context.Context
	OrgID string
} {
	mock.lockIncrement.RLock()
	calls := mock.calls.Increment
	mock.lockIncrement.RUnlock()
	return calls
}

func (mock *quotaLedgerMock) Decrement(ctx context.Context, orgID string) (domain.OrgLimit, error) {
	if mock.DecrementFunc == nil {
		panic("quotaLedgerMock.DecrementFunc: method is nil but quotaLedger.Decrement was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		OrgID string
	}{Ctx: ctx, OrgID: orgID}
	mock.lockDecrement.Lock()
	mock.calls.Decrement = append(mock.calls.Decrement, callInfo)
	mock.lockDecrement.Unlock()
	return mock.DecrementFunc(ctx, orgID)
}

func (mock *quotaLedgerMock) DecrementCalls() []struct {
	Ctx   context.Context
	OrgID string
} {
	mock.lockDecrement.RLock()
	calls := mock.calls.Decrement
	mock.lockDecrement.RUnlock()
	return calls
}
