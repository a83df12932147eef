package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/heartmarshall/taskboard-backend/internal/domain"
)

// OrgLimitStore keeps quota counters. Each operation reads and writes a
// counter under one lock acquisition, so deltas are never lost.
type OrgLimitStore struct {
	mu     sync.Mutex
	limits map[string]*domain.OrgLimit
	now    func() time.Time
}

// NewOrgLimitStore creates an empty quota store.
func NewOrgLimitStore() *OrgLimitStore {
	return &OrgLimitStore{
		limits: make(map[string]*domain.OrgLimit),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *OrgLimitStore) ensureLocked(orgID string) *domain.OrgLimit {
	l, ok := s.limits[orgID]
	if !ok {
		now := s.now()
		l = &domain.OrgLimit{OrgID: orgID, CreatedAt: now, UpdatedAt: now}
		s.limits[orgID] = l
	}
	return l
}

// Ensure returns the organization's record, creating it with count 0.
func (s *OrgLimitStore) Ensure(_ context.Context, orgID string) (domain.OrgLimit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.ensureLocked(orgID), nil
}

// Get returns the organization's record or domain.ErrNotFound.
func (s *OrgLimitStore) Get(_ context.Context, orgID string) (domain.OrgLimit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.limits[orgID]
	if !ok {
		return domain.OrgLimit{}, fmt.Errorf("org_limit %s: %w", orgID, domain.ErrNotFound)
	}
	return *l, nil
}

// Increment adds one to the count, creating the record if needed.
func (s *OrgLimitStore) Increment(_ context.Context, orgID string) (domain.OrgLimit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l := s.ensureLocked(orgID)
	l.Count++
	l.UpdatedAt = s.now()
	return *l, nil
}

// Decrement subtracts one from the count, never going below zero.
func (s *OrgLimitStore) Decrement(_ context.Context, orgID string) (domain.OrgLimit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l := s.ensureLocked(orgID)
	if l.Count > 0 {
		l.Count--
	}
	l.UpdatedAt = s.now()
	return *l, nil
}

// Set overwrites the count, clamping negatives to zero.
func (s *OrgLimitStore) Set(_ context.Context, orgID string, count int) (domain.OrgLimit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l := s.ensureLocked(orgID)
	l.Count = max(count, 0)
	l.UpdatedAt = s.now()
	return *l, nil
}

// ListOrgIDs returns every organization with a record, sorted.
func (s *OrgLimitStore) ListOrgIDs(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.limits))
	for id := range s.limits {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
