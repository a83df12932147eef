package action

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/taskboard-backend/internal/action/schema"
	"github.com/heartmarshall/taskboard-backend/internal/domain"
)

type titleInput struct {
	Title string `json:"title"`
}

type titleOutput struct {
	Title string `json:"title"`
}

func titleSchema() *schema.Schema[titleInput] {
	return schema.Object[titleInput](
		schema.String("title", func(in *titleInput, v string) { in.Title = v }).
			Required("Title is required").
			MinLen(3, "Title is too short"),
	)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestAction(h Handler[titleInput, titleOutput]) *Action[titleInput, titleOutput] {
	return New("create-board", titleSchema(), h, discardLogger())
}

// exactlyOne asserts the result has exactly one populated member.
func exactlyOne[T any](t *testing.T, r Result[T]) {
	t.Helper()
	n := 0
	if len(r.FieldErrors) > 0 {
		n++
	}
	if r.Error != "" {
		n++
	}
	if r.Data != nil {
		n++
	}
	assert.Equal(t, 1, n, "result must populate exactly one member: %+v", r)
}

func TestAction_Execute_InvalidInputSkipsHandler(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	a := newTestAction(func(ctx context.Context, in titleInput) (titleOutput, error) {
		calls.Add(1)
		return titleOutput{Title: in.Title}, nil
	})

	res := a.Execute(context.Background(), []byte(`{"title":"ab"}`))

	exactlyOne(t, res)
	assert.Equal(t, map[string][]string{"title": {"Title is too short"}}, res.FieldErrors)
	assert.Equal(t, KindFieldErrors, res.Kind())
	assert.Zero(t, calls.Load())
}

func TestAction_Execute_Success(t *testing.T) {
	t.Parallel()

	a := newTestAction(func(ctx context.Context, in titleInput) (titleOutput, error) {
		return titleOutput{Title: in.Title}, nil
	})

	res := a.Execute(context.Background(), []byte(`{"title":"  Roadmap "}`))

	exactlyOne(t, res)
	require.NotNil(t, res.Data)
	assert.Equal(t, "Roadmap", res.Data.Title)
	assert.Equal(t, KindSuccess, res.Kind())
}

func TestAction_Execute_NormalizesErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		err       error
		wantError string
		wantField map[string][]string
	}{
		{
			name:      "unauthorized",
			err:       domain.ErrUnauthorized,
			wantError: MsgUnauthorized,
		},
		{
			name:      "wrapped not found",
			err:       fmt.Errorf("board 123: %w", domain.ErrNotFound),
			wantError: MsgNotFound,
		},
		{
			name:      "public quota error",
			err:       domain.NewPublicError(domain.ErrQuotaExceeded, "You have reached your limit of free boards."),
			wantError: "You have reached your limit of free boards.",
		},
		{
			name:      "audit failure",
			err:       fmt.Errorf("append: %w", domain.ErrAuditFailed),
			wantError: MsgAuditFailed,
		},
		{
			name:      "handler field errors",
			err:       domain.NewValidationError("title", "Title already used"),
			wantField: map[string][]string{"title": {"Title already used"}},
		},
		{
			name:      "system error is generic",
			err:       errors.New("pq: connection refused on 10.0.0.3"),
			wantError: "Failed to create board",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			a := newTestAction(func(ctx context.Context, in titleInput) (titleOutput, error) {
				return titleOutput{}, tt.err
			})

			res := a.Execute(context.Background(), []byte(`{"title":"Roadmap"}`))

			exactlyOne(t, res)
			assert.Equal(t, tt.wantError, res.Error)
			assert.Equal(t, tt.wantField, res.FieldErrors)
			assert.Nil(t, res.Data)
		})
	}
}

func TestAction_Execute_SystemErrorIsLoggedNotLeaked(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))
	a := New("update-card", titleSchema(), func(ctx context.Context, in titleInput) (titleOutput, error) {
		return titleOutput{}, errors.New("secret internal detail")
	}, log)

	res := a.Execute(context.Background(), []byte(`{"title":"Roadmap"}`))

	assert.Equal(t, "Failed to update card", res.Error)
	assert.NotContains(t, res.Error, "secret")
	assert.Contains(t, buf.String(), "secret internal detail")
	assert.Contains(t, buf.String(), "action=update-card")
}

func TestAction_Execute_RecoversPanic(t *testing.T) {
	t.Parallel()

	a := newTestAction(func(ctx context.Context, in titleInput) (titleOutput, error) {
		panic("nil map write")
	})

	var res Result[titleOutput]
	assert.NotPanics(t, func() {
		res = a.Execute(context.Background(), []byte(`{"title":"Roadmap"}`))
	})
	exactlyOne(t, res)
	assert.Equal(t, "Failed to create board", res.Error)
}

func TestAction_WithFailureMessage(t *testing.T) {
	t.Parallel()

	a := New("create-board", titleSchema(), func(ctx context.Context, in titleInput) (titleOutput, error) {
		return titleOutput{}, errors.New("boom")
	}, discardLogger(), WithFailureMessage("Failed to create."))

	res := a.Execute(context.Background(), []byte(`{"title":"Roadmap"}`))
	assert.Equal(t, "Failed to create.", res.Error)
}

func TestAction_Invoke_ValidatesTypedInput(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	a := newTestAction(func(ctx context.Context, in titleInput) (titleOutput, error) {
		calls.Add(1)
		return titleOutput{Title: in.Title}, nil
	})

	res := a.Invoke(context.Background(), titleInput{Title: ""})
	assert.Equal(t, map[string][]string{"title": {"Title is too short"}}, res.FieldErrors)
	assert.Zero(t, calls.Load())

	res = a.Invoke(context.Background(), titleInput{Title: "Roadmap"})
	require.NotNil(t, res.Data)
	assert.Equal(t, int32(1), calls.Load())
}

func TestAction_Execute_NonObjectInput(t *testing.T) {
	t.Parallel()

	a := newTestAction(func(ctx context.Context, in titleInput) (titleOutput, error) {
		return titleOutput{}, nil
	})

	res := a.Execute(context.Background(), []byte(`[1,2]`))
	assert.Equal(t, map[string][]string{"input": {"Expected object"}}, res.FieldErrors)
}
