// Package quota implements the per-organization ledger of quota-bound
// entities (boards). Counters change only through atomic store deltas.
package quota

import (
	"context"
	"log/slog"

	"github.com/heartmarshall/taskboard-backend/internal/domain"
)

type limitRepo interface {
	Ensure(ctx context.Context, orgID string) (domain.OrgLimit, error)
	Increment(ctx context.Context, orgID string) (domain.OrgLimit, error)
	Decrement(ctx context.Context, orgID string) (domain.OrgLimit, error)
	Set(ctx context.Context, orgID string, count int) (domain.OrgLimit, error)
}

// Service is the quota ledger.
type Service struct {
	limits limitRepo
	max    int
	log    *slog.Logger
}

// NewService creates a new quota ledger that admits up to maxFreeBoards
// boards per organization.
func NewService(
	log *slog.Logger,
	limits limitRepo,
	maxFreeBoards int,
) *Service {
	return &Service{
		limits: limits,
		max:    maxFreeBoards,
		log:    log.With("service", "quota"),
	}
}

// Max returns the per-organization ceiling.
func (s *Service) Max() int {
	return s.max
}

// requireOrg rejects calls made without a resolved organization.
func requireOrg(orgID string) error {
	if orgID == "" {
		return domain.ErrUnauthorized
	}
	return nil
}
