// Package actionclient drives action invocations from the caller side and
// keeps the state a UI needs: whether a call is in flight and the latest
// data, error and field errors.
package actionclient

import (
	"context"
	"errors"
	"sync"

	"github.com/heartmarshall/taskboard-backend/internal/action"
)

// MsgSomethingWentWrong replaces transport failures and panics.
const MsgSomethingWentWrong = "Something went wrong"

var errPanicked = errors.New("actionclient: invoker panicked")

// Invoker performs one invocation. A nil result with a nil error leaves the
// state untouched.
type Invoker[TIn, TOut any] func(ctx context.Context, in TIn) (*action.Result[TOut], error)

// Local invokes an in-process action.
func Local[TIn, TOut any](a *action.Action[TIn, TOut]) Invoker[TIn, TOut] {
	return func(ctx context.Context, in TIn) (*action.Result[TOut], error) {
		res := a.Invoke(ctx, in)
		return &res, nil
	}
}

// State is the caller-visible view of the adapter.
type State[T any] struct {
	IsLoading   bool
	Data        *T
	Error       string
	FieldErrors map[string][]string
}

// Options holds optional callbacks. They run on the goroutine that called
// Execute, after the state has been updated.
type Options[T any] struct {
	OnSuccess  func(data T)
	OnError    func(msg string)
	OnComplete func()
}

// Adapter wraps an Invoker. Each Execute gets a sequence number; a result
// is applied only if no newer Execute started in the meantime.
type Adapter[TIn, TOut any] struct {
	invoke Invoker[TIn, TOut]
	opts   Options[TOut]

	mu    sync.Mutex
	seq   uint64
	state State[TOut]
}

// New creates an Adapter.
func New[TIn, TOut any](invoke Invoker[TIn, TOut], opts Options[TOut]) *Adapter[TIn, TOut] {
	return &Adapter[TIn, TOut]{invoke: invoke, opts: opts}
}

// State returns a snapshot of the current state.
func (a *Adapter[TIn, TOut]) State() State[TOut] {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// IsLoading reports whether the newest invocation is still in flight.
func (a *Adapter[TIn, TOut]) IsLoading() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state.IsLoading
}

// Execute runs one invocation and blocks until it completes. It never
// panics because of the invoker and never returns an error: failures are
// reported through State and OnError. OnComplete fires exactly once.
func (a *Adapter[TIn, TOut]) Execute(ctx context.Context, in TIn) {
	if a.opts.OnComplete != nil {
		defer a.opts.OnComplete()
	}

	a.mu.Lock()
	a.seq++
	seq := a.seq
	a.state.IsLoading = true
	a.mu.Unlock()

	res, err := a.call(ctx, in)

	a.mu.Lock()
	if seq != a.seq {
		a.mu.Unlock()
		return
	}
	notify := a.apply(res, err)
	a.state.IsLoading = false
	a.mu.Unlock()

	notify()
}

func (a *Adapter[TIn, TOut]) call(ctx context.Context, in TIn) (res *action.Result[TOut], err error) {
	defer func() {
		if r := recover(); r != nil {
			res, err = nil, errPanicked
		}
	}()
	return a.invoke(ctx, in)
}

// apply updates the state under the lock and returns the callbacks to run
// once the lock is released.
func (a *Adapter[TIn, TOut]) apply(res *action.Result[TOut], err error) func() {
	if err != nil {
		a.state.Error = MsgSomethingWentWrong
		return func() { a.onError(MsgSomethingWentWrong) }
	}
	if res == nil {
		return func() {}
	}

	a.state.FieldErrors = res.FieldErrors

	var calls []func()
	if res.Error != "" {
		msg := res.Error
		a.state.Error = msg
		calls = append(calls, func() { a.onError(msg) })
	}
	if res.Data != nil {
		data := *res.Data
		a.state.Data = res.Data
		calls = append(calls, func() { a.onSuccess(data) })
	}
	return func() {
		for _, c := range calls {
			c()
		}
	}
}

func (a *Adapter[TIn, TOut]) onError(msg string) {
	if a.opts.OnError != nil {
		a.opts.OnError(msg)
	}
}

func (a *Adapter[TIn, TOut]) onSuccess(data TOut) {
	if a.opts.OnSuccess != nil {
		a.opts.OnSuccess(data)
	}
}
