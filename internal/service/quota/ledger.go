package quota

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/heartmarshall/taskboard-backend/internal/domain"
)

// EnsureRecord returns the organization's record, creating it with count 0.
func (s *Service) EnsureRecord(ctx context.Context, orgID string) (domain.OrgLimit, error) {
	if err := requireOrg(orgID); err != nil {
		return domain.OrgLimit{}, err
	}

	l, err := s.limits.Ensure(ctx, orgID)
	if err != nil {
		return domain.OrgLimit{}, fmt.Errorf("ensure org limit: %w", err)
	}
	return l, nil
}

// Increment records one more quota-bound entity.
func (s *Service) Increment(ctx context.Context, orgID string) (domain.OrgLimit, error) {
	if err := requireOrg(orgID); err != nil {
		return domain.OrgLimit{}, err
	}

	l, err := s.limits.Increment(ctx, orgID)
	if err != nil {
		return domain.OrgLimit{}, fmt.Errorf("increment org limit: %w", err)
	}

	s.log.DebugContext(ctx, "org limit incremented",
		slog.String("org_id", orgID),
		slog.Int("count", l.Count),
	)
	return l, nil
}

// Decrement records one fewer quota-bound entity; the count never goes below zero.
func (s *Service) Decrement(ctx context.Context, orgID string) (domain.OrgLimit, error) {
	if err := requireOrg(orgID); err != nil {
		return domain.OrgLimit{}, err
	}

	l, err := s.limits.Decrement(ctx, orgID)
	if err != nil {
		return domain.OrgLimit{}, fmt.Errorf("decrement org limit: %w", err)
	}

	s.log.DebugContext(ctx, "org limit decremented",
		slog.String("org_id", orgID),
		slog.Int("count", l.Count),
	)
	return l, nil
}

// IsUnderLimit reports whether the organization may create another entity.
func (s *Service) IsUnderLimit(ctx context.Context, orgID string) (bool, error) {
	l, err := s.EnsureRecord(ctx, orgID)
	if err != nil {
		return false, err
	}
	return l.Count < s.max, nil
}

// AvailableCount returns the organization's current count for display.
// It never fails: any error is logged and reported as 0.
func (s *Service) AvailableCount(ctx context.Context, orgID string) int {
	l, err := s.EnsureRecord(ctx, orgID)
	if err != nil {
		s.log.ErrorContext(ctx, "get available count",
			slog.String("org_id", orgID),
			slog.String("error", err.Error()),
		)
		return 0
	}
	return l.Count
}

// Remaining returns how many more entities the organization may create.
// Lenient like AvailableCount.
func (s *Service) Remaining(ctx context.Context, orgID string) int {
	return max(s.max-s.AvailableCount(ctx, orgID), 0)
}

// Reconcile overwrites the organization's count with an observed number of
// entities. It repairs drift left by failed or missing decrements.
func (s *Service) Reconcile(ctx context.Context, orgID string, actual int) (domain.OrgLimit, error) {
	if err := requireOrg(orgID); err != nil {
		return domain.OrgLimit{}, err
	}

	before, err := s.limits.Ensure(ctx, orgID)
	if err != nil {
		return domain.OrgLimit{}, fmt.Errorf("ensure org limit: %w", err)
	}
	if before.Count == actual {
		return before, nil
	}

	l, err := s.limits.Set(ctx, orgID, actual)
	if err != nil {
		return domain.OrgLimit{}, fmt.Errorf("set org limit: %w", err)
	}

	s.log.InfoContext(ctx, "org limit reconciled",
		slog.String("org_id", orgID),
		slog.Int("before", before.Count),
		slog.Int("after", l.Count),
	)
	return l, nil
}

// ReconcileAll reconciles every organization that either owns boards
// (actual) or already has a ledger record (known). Known organizations
// missing from actual are reset to zero. It keeps going after a failure and
// returns how many organizations were reconciled plus the joined errors.
func (s *Service) ReconcileAll(ctx context.Context, actual map[string]int, known []string) (int, error) {
	orgs := make(map[string]struct{}, len(actual)+len(known))
	for orgID := range actual {
		orgs[orgID] = struct{}{}
	}
	for _, orgID := range known {
		orgs[orgID] = struct{}{}
	}

	ids := make([]string, 0, len(orgs))
	for orgID := range orgs {
		ids = append(ids, orgID)
	}
	sort.Strings(ids)

	var (
		done int
		errs []error
	)
	for _, orgID := range ids {
		if _, err := s.Reconcile(ctx, orgID, actual[orgID]); err != nil {
			errs = append(errs, fmt.Errorf("reconcile %s: %w", orgID, err))
			continue
		}
		done++
	}
	return done, errors.Join(errs...)
}
