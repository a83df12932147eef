// Package dataloader provides per-request DataLoaders that batch the board
// view's list and card lookups into single store calls. Loaders call the
// store directly and do not scope by organization: callers load only the
// lists of a board they already fetched through the org-scoped service.
package dataloader

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/graph-gophers/dataloader/v7"

	"github.com/heartmarshall/taskboard-backend/internal/domain"
)

const (
	maxBatch = 100
	wait     = 2 * time.Millisecond
)

type listRepo interface {
	ListsByBoardIDs(ctx context.Context, boardIDs []uuid.UUID) ([]domain.List, error)
}

type cardRepo interface {
	CardsByListIDs(ctx context.Context, listIDs []uuid.UUID) ([]domain.Card, error)
}

// Repos holds the stores required by the loaders.
type Repos struct {
	Lists listRepo
	Cards cardRepo
}

// Loaders contains the per-request DataLoaders. Created per request via NewLoaders.
type Loaders struct {
	ListsByBoardID *dataloader.Loader[uuid.UUID, []domain.List]
	CardsByListID  *dataloader.Loader[uuid.UUID, []domain.Card]
}

// NewLoaders creates a new set of DataLoaders backed by the given stores.
// Must be called per request (loaders cache results within a single request).
func NewLoaders(repos *Repos) *Loaders {
	return &Loaders{
		ListsByBoardID: newLoader(newListsBatchFn(repos.Lists)),
		CardsByListID:  newLoader(newCardsBatchFn(repos.Cards)),
	}
}

func newLoader[V any](batchFn dataloader.BatchFunc[uuid.UUID, V]) *dataloader.Loader[uuid.UUID, V] {
	return dataloader.NewBatchedLoader(
		batchFn,
		dataloader.WithWait[uuid.UUID, V](wait),
		dataloader.WithBatchCapacity[uuid.UUID, V](maxBatch),
	)
}

type contextKey string

const loadersKey contextKey = "dataloaders"

// WithLoaders stores Loaders in the context.
func WithLoaders(ctx context.Context, l *Loaders) context.Context {
	return context.WithValue(ctx, loadersKey, l)
}

// FromContext retrieves Loaders from the context.
// Panics if loaders are not present (middleware misconfiguration).
func FromContext(ctx context.Context) *Loaders {
	l, ok := ctx.Value(loadersKey).(*Loaders)
	if !ok || l == nil {
		panic("dataloader: loaders not found in context, is the middleware configured?")
	}
	return l
}
