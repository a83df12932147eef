package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/heartmarshall/taskboard-backend/internal/domain"
	"github.com/heartmarshall/taskboard-backend/pkg/ctxutil"
)

func TestResolver_Resolve(t *testing.T) {
	t.Parallel()

	r := NewResolver()

	if _, err := r.Resolve(context.Background()); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for empty context, got %v", err)
	}

	ctx := ctxutil.WithIdentity(context.Background(), domain.Identity{UserID: "user_1", OrgID: "org_1"})
	id, err := r.Resolve(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id.UserID != "user_1" {
		t.Errorf("expected user_1, got %q", id.UserID)
	}
}

func TestResolver_ResolveOrg_RequiresOrganization(t *testing.T) {
	t.Parallel()

	r := NewResolver()
	ctx := ctxutil.WithIdentity(context.Background(), domain.Identity{UserID: "user_1"})

	if _, err := r.Resolve(ctx); err != nil {
		t.Fatalf("Resolve: unexpected error: %v", err)
	}
	if _, err := r.ResolveOrg(ctx); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("ResolveOrg: expected ErrUnauthorized, got %v", err)
	}
}
