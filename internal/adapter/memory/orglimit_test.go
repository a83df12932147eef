package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/taskboard-backend/internal/domain"
)

func TestOrgLimitStore_ConcurrentIncrements(t *testing.T) {
	t.Parallel()
	s := NewOrgLimitStore()
	ctx := context.Background()

	const n = 100
	var wg sync.WaitGroup
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Increment(ctx, "org_1")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := s.Get(ctx, "org_1")
	require.NoError(t, err)
	assert.Equal(t, n, got.Count)
}

func TestOrgLimitStore_ConcurrentMixedDeltas(t *testing.T) {
	t.Parallel()
	s := NewOrgLimitStore()
	ctx := context.Background()

	_, err := s.Set(ctx, "org_1", 50)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 30 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = s.Increment(ctx, "org_1")
		}()
		go func() {
			defer wg.Done()
			_, _ = s.Decrement(ctx, "org_1")
		}()
	}
	wg.Wait()

	got, err := s.Get(ctx, "org_1")
	require.NoError(t, err)
	assert.Equal(t, 50, got.Count)
}

func TestOrgLimitStore_DecrementFloorsAtZero(t *testing.T) {
	t.Parallel()
	s := NewOrgLimitStore()
	ctx := context.Background()

	got, err := s.Decrement(ctx, "org_1")
	require.NoError(t, err)
	assert.Equal(t, 0, got.Count)

	got, err = s.Decrement(ctx, "org_1")
	require.NoError(t, err)
	assert.Equal(t, 0, got.Count)
}

func TestOrgLimitStore_EnsureKeepsExisting(t *testing.T) {
	t.Parallel()
	s := NewOrgLimitStore()
	ctx := context.Background()

	_, err := s.Get(ctx, "org_1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	first, err := s.Ensure(ctx, "org_1")
	require.NoError(t, err)
	assert.Equal(t, 0, first.Count)

	_, err = s.Increment(ctx, "org_1")
	require.NoError(t, err)

	second, err := s.Ensure(ctx, "org_1")
	require.NoError(t, err)
	assert.Equal(t, 1, second.Count)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)

	ids, err := s.ListOrgIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"org_1"}, ids)
}
