package quota

import (
	"context"
	"sync"

	"github.com/heartmarshall/taskboard-backend/internal/domain"
)

var _ limitRepo = &limitRepoMock{}

type limitRepoMock struct {
	EnsureFunc    func(ctx context.Context, orgID string) (domain.OrgLimit, error)
	IncrementFunc func(ctx context.Context, orgID string) (domain.OrgLimit, error)
	DecrementFunc func(ctx context.Context, orgID string) (domain.OrgLimit, error)
	SetFunc       func(ctx context.Context, orgID string, count int) (domain.OrgLimit, error)

	calls struct {
		Ensure []struct {
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
		Set []struct {
			Ctx   context.Context
			OrgID string
			Count int
		}
	}
	lockEnsure    sync.RWMutex
	lockIncrement sync.RWMutex
	lockDecrement sync.RWMutex
	lockSet       sync.RWMutex
}

func (mock *limitRepoMock) Ensure(ctx context.Context, orgID string) (domain.OrgLimit, error) {
	if mock.EnsureFunc == nil {
		panic("limitRepoMock.EnsureFunc: method is nil but limitRepo.Ensure was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		OrgID string
	}{Ctx: ctx, OrgID: orgID}
	mock.lockEnsure.Lock()
	mock.calls.Ensure = append(mock.calls.Ensure, callInfo)
	mock.lockEnsure.Unlock()
	return mock.EnsureFunc(ctx, orgID)
}

func (mock *limitRepoMock) EnsureCalls() []struct {
	Ctx   context.Context
	OrgID string
} {
	mock.lockEnsure.RLock()
	calls := mock.calls.Ensure
	mock.lockEnsure.RUnlock()
	return calls
}

func (mock *limitRepoMock) Increment(ctx context.Context, orgID string) (domain.OrgLimit, error) {
	if mock.IncrementFunc == nil {
		panic("limitRepoMock.IncrementFunc: method is nil but limitRepo.Increment was just called")
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

func (mock *limitRepoMock) IncrementCalls() []struct {
	Ctx   context.Context
	OrgID string
} {
	mock.lockIncrement.RLock()
	calls := mock.calls.Increment
	mock.lockIncrement.RUnlock()
	return calls
}

func (mock *limitRepoMock) Decrement(ctx context.Context, orgID string) (domain.OrgLimit, error) {
	if mock.DecrementFunc == nil {
		panic("limitRepoMock.DecrementFunc: method is nil but limitRepo.Decrement was just called")
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

func (mock *limitRepoMock) DecrementCalls() []struct {
	Ctx   context.Context
	OrgID string
} {
	mock.lockDecrement.RLock()
	calls := mock.calls.Decrement
	mock.lockDecrement.RUnlock()
	return calls
}

func (mock *limitRepoMock) Set(ctx context.Context, orgID string, count int) (domain.OrgLimit, error) {
	if mock.SetFunc == nil {
		panic("limitRepoMock.SetFunc: method is nil but limitRepo.Set was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		OrgID string
		Count int
	}{Ctx: ctx, OrgID: orgID, Count: count}
	mock.lockSet.Lock()
	mock.calls.Set = append(mock.calls.Set, callInfo)
	mock.lockSet.Unlock()
	return mock.SetFunc(ctx, orgID, count)
}

func (mock *limitRepoMock) SetCalls() []struct {
	Ctx   context.Context
	OrgID string
	Count int
} {
	mock.lockSet.RLock()
	calls := mock.calls.Set
	mock.lockSet.RUnlock()
	return calls
}
