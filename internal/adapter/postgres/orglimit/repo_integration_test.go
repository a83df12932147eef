package orglimit_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	postgres "github.com/heartmarshall/taskboard-backend/internal/adapter/postgres"
	"github.com/heartmarshall/taskboard-backend/internal/adapter/postgres/orglimit"
	"github.com/heartmarshall/taskboard-backend/internal/adapter/postgres/testhelper"
)

func TestRepo_Integration_ConcurrentIncrements(t *testing.T) {
	t.Parallel()
	pool := testhelper.SetupTestDB(t)
	repo := orglimit.New(pool)
	ctx := context.Background()
	org := testhelper.NewOrgID()

	const n = 20
	var wg sync.WaitGroup
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Increment(ctx, org)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := repo.Get(ctx, org)
	require.NoError(t, err)
	assert.Equal(t, n, got.Count)
}

func TestRepo_Integration_DecrementNeverNegative(t *testing.T) {
	t.Parallel()
	pool := testhelper.SetupTestDB(t)
	repo := orglimit.New(pool)
	ctx := context.Background()
	org := testhelper.NewOrgID()

	_, err := repo.Increment(ctx, org)
	require.NoError(t, err)

	for range 3 {
		_, err := repo.Decrement(ctx, org)
		require.NoError(t, err)
	}

	got, err := repo.Ensure(ctx, org)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Count)
}

func TestRepo_Integration_EnsureIsIdempotent(t *testing.T) {
	t.Parallel()
	pool := testhelper.SetupTestDB(t)
	repo := orglimit.New(pool)
	ctx := context.Background()
	org := testhelper.NewOrgID()

	first, err := repo.Ensure(ctx, org)
	require.NoError(t, err)
	_, err = repo.Increment(ctx, org)
	require.NoError(t, err)

	second, err := repo.Ensure(ctx, org)
	require.NoError(t, err)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)
	assert.Equal(t, 1, second.Count)
}

func TestRepo_Integration_EnsureLocksAdmission(t *testing.T) {
	t.Parallel()
	pool := testhelper.SetupTestDB(t)
	repo := orglimit.New(pool)
	tx := postgres.NewTxManager(pool)
	ctx := context.Background()
	org := testhelper.NewOrgID()

	const ceiling = 3
	_, err := repo.Set(ctx, org, ceiling-1)
	require.NoError(t, err)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		admitted int
	)
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := tx.RunInTx(ctx, func(txCtx context.Context) error {
				l, err := repo.Ensure(txCtx, org)
				if err != nil {
					return err
				}
				if l.Count >= ceiling {
					return nil
				}
				if _, err := repo.Increment(txCtx, org); err != nil {
					return err
				}
				mu.Lock()
				admitted++
				mu.Unlock()
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, admitted)
	got, err := repo.Get(ctx, org)
	require.NoError(t, err)
	assert.Equal(t, ceiling, got.Count)
}
