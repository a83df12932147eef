package auth

import (
	"context"

	"github.com/heartmarshall/taskboard-backend/internal/domain"
	"github.com/heartmarshall/taskboard-backend/pkg/ctxutil"
)

// Resolver answers "who is calling, and in which organization" from the
// request context populated by the auth middleware.
type Resolver struct{}

// NewResolver creates a context-backed identity resolver.
func NewResolver() Resolver {
	return Resolver{}
}

// Resolve returns the verified caller or domain.ErrUnauthorized.
func (Resolver) Resolve(ctx context.Context) (domain.Identity, error) {
	id, ok := ctxutil.IdentityFromCtx(ctx)
	if !ok {
		return domain.Identity{}, domain.ErrUnauthorized
	}
	return id, nil
}

// ResolveOrg returns the verified caller only if it acts inside an organization.
func (r Resolver) ResolveOrg(ctx context.Context) (domain.Identity, error) {
	id, err := r.Resolve(ctx)
	if err != nil {
		return domain.Identity{}, err
	}
	if !id.HasOrg() {
		return domain.Identity{}, domain.ErrUnauthorized
	}
	return id, nil
}
