package ctxutil

import (
	"context"
	"testing"

	"github.com/heartmarshall/taskboard-backend/internal/domain"
)

func TestWithIdentity_And_IdentityFromCtx(t *testing.T) {
	t.Parallel()

	id := domain.Identity{UserID: "user_1", OrgID: "org_1", FirstName: "Ada"}
	ctx := WithIdentity(context.Background(), id)

	got, ok := IdentityFromCtx(ctx)
	if !ok {
		t.Fatal("expected ok=true for stored identity")
	}
	if got != id {
		t.Fatalf("expected %+v, got %+v", id, got)
	}
}

func TestIdentityFromCtx_EmptyContext(t *testing.T) {
	t.Parallel()

	got, ok := IdentityFromCtx(context.Background())
	if ok {
		t.Fatal("expected ok=false for empty context")
	}
	if got != (domain.Identity{}) {
		t.Fatalf("expected zero identity, got %+v", got)
	}
}

func TestIdentityFromCtx_NoUserID(t *testing.T) {
	t.Parallel()

	ctx := WithIdentity(context.Background(), domain.Identity{OrgID: "org_1"})

	if _, ok := IdentityFromCtx(ctx); ok {
		t.Fatal("expected ok=false for identity without user ID")
	}
}

func TestIdentityFromCtx_WrongType(t *testing.T) {
	t.Parallel()

	ctx := context.WithValue(context.Background(), ctxKey("identity"), "user_1")

	if _, ok := IdentityFromCtx(ctx); ok {
		t.Fatal("expected ok=false for wrong type")
	}
}

func TestRequestID_RoundTrip(t *testing.T) {
	t.Parallel()

	ctx := WithRequestID(context.Background(), "req-123")
	if got := RequestIDFromCtx(ctx); got != "req-123" {
		t.Fatalf("expected req-123, got %q", got)
	}
	if got := RequestIDFromCtx(context.Background()); got != "" {
		t.Fatalf("expected empty request ID, got %q", got)
	}
}
