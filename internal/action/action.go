// Package action runs validated mutations and reports a structured Result.
//
// Every action follows the same pipeline: parse the untrusted input against
// a schema, call the business handler, and normalize whatever the handler
// returned (value, error or panic) into exactly one of field errors, a
// user-facing error message, or data.
package action

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"runtime/debug"
	"strings"

	"github.com/heartmarshall/taskboard-backend/internal/action/schema"
	"github.com/heartmarshall/taskboard-backend/internal/domain"
)

// Messages for errors whose detail must not reach the caller.
const (
	MsgUnauthorized = "Unauthorized"
	MsgNotFound     = "Not found"
	MsgAuditFailed  = "Failed to create audit log"
)

// Handler performs identity resolution, admission, mutation and audit
// append, in that order. Returning a *domain.ValidationError reports field
// errors; a *domain.PublicError reports its message; anything else is a
// system failure.
type Handler[TIn, TOut any] func(ctx context.Context, in TIn) (TOut, error)

// Action binds a schema to a handler.
type Action[TIn, TOut any] struct {
	name    string
	failMsg string
	schema  *schema.Schema[TIn]
	handler Handler[TIn, TOut]
	log     *slog.Logger
}

// Option customizes an Action.
type Option func(*options)

type options struct {
	failMsg string
}

// WithFailureMessage overrides the generic message reported for system failures.
func WithFailureMessage(msg string) Option {
	return func(o *options) { o.failMsg = msg }
}

// New creates an action. The default failure message is derived from the
// name: "create-board" fails with "Failed to create board".
func New[TIn, TOut any](name string, s *schema.Schema[TIn], h Handler[TIn, TOut], log *slog.Logger, opts ...Option) *Action[TIn, TOut] {
	o := options{failMsg: "Failed to " + strings.ReplaceAll(name, "-", " ")}
	for _, opt := range opts {
		opt(&o)
	}

	return &Action[TIn, TOut]{
		name:    name,
		failMsg: o.failMsg,
		schema:  s,
		handler: h,
		log:     log.With("action", name),
	}
}

// Name returns the action's registry name.
func (a *Action[TIn, TOut]) Name() string { return a.name }

// Execute validates raw and, only if it is valid, runs the handler.
func (a *Action[TIn, TOut]) Execute(ctx context.Context, raw []byte) Result[TOut] {
	in, fieldErrs := a.schema.Parse(raw)
	if len(fieldErrs) > 0 {
		a.log.DebugContext(ctx, "action input rejected", slog.Int("fields", len(fieldErrs)))
		return Invalid[TOut](fieldErrs)
	}

	return a.run(ctx, in)
}

// Invoke runs a typed input through the same validation as Execute.
// TIn must marshal to the JSON object the schema expects.
func (a *Action[TIn, TOut]) Invoke(ctx context.Context, in TIn) Result[TOut] {
	raw, err := json.Marshal(in)
	if err != nil {
		a.log.ErrorContext(ctx, "marshal action input", slog.String("error", err.Error()))
		return Failure[TOut](a.failMsg)
	}
	return a.Execute(ctx, raw)
}

// Run implements Runner for the registry.
func (a *Action[TIn, TOut]) Run(ctx context.Context, raw []byte) Outcome {
	return a.Execute(ctx, raw)
}

func (a *Action[TIn, TOut]) run(ctx context.Context, in TIn) (res Result[TOut]) {
	defer func() {
		if r := recover(); r != nil {
			a.log.ErrorContext(ctx, "action panicked",
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())),
			)
			res = Failure[TOut](a.failMsg)
		}
	}()

	out, err := a.handler(ctx, in)
	if err != nil {
		return a.normalize(ctx, err)
	}
	return Success(out)
}

// normalize maps a handler error onto a Result without leaking internals.
func (a *Action[TIn, TOut]) normalize(ctx context.Context, err error) Result[TOut] {
	var ve *domain.ValidationError
	if errors.As(err, &ve) && len(ve.Errors) > 0 {
		return Invalid[TOut](ve.Fields())
	}

	var pe *domain.PublicError
	if errors.As(err, &pe) {
		if errors.Is(pe.Kind, domain.ErrAuditFailed) {
			a.log.WarnContext(ctx, "mutation committed without audit record", slog.String("error", err.Error()))
		}
		return Failure[TOut](pe.Message)
	}

	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return Failure[TOut](MsgUnauthorized)
	case errors.Is(err, domain.ErrNotFound):
		return Failure[TOut](MsgNotFound)
	case errors.Is(err, domain.ErrAuditFailed):
		a.log.WarnContext(ctx, "mutation committed without audit record", slog.String("error", err.Error()))
		return Failure[TOut](MsgAuditFailed)
	}

	a.log.ErrorContext(ctx, "action failed", slog.String("error", err.Error()))
	return Failure[TOut](a.failMsg)
}
