package dataloader

import (
	"context"

	"github.com/google/uuid"
	"github.com/graph-gophers/dataloader/v7"

	"github.com/heartmarshall/taskboard-backend/internal/domain"
)

func newListsBatchFn(repo listRepo) dataloader.BatchFunc[uuid.UUID, []domain.List] {
	return func(ctx context.Context, keys []uuid.UUID) []*dataloader.Result[[]domain.List] {
		lists, err := repo.ListsByBoardIDs(ctx, keys)
		if err != nil {
			return errorResults[[]domain.List](len(keys), err)
		}

		grouped := make(map[uuid.UUID][]domain.List, len(keys))
		for _, l := range lists {
			grouped[l.BoardID] = append(grouped[l.BoardID], l)
		}

		return mapResults(keys, grouped, emptySlice[domain.List])
	}
}

func newCardsBatchFn(repo cardRepo) dataloader.BatchFunc[uuid.UUID, []domain.Card] {
	return func(ctx context.Context, keys []uuid.UUID) []*dataloader.Result[[]domain.Card] {
		cards, err := repo.CardsByListIDs(ctx, keys)
		if err != nil {
			return errorResults[[]domain.Card](len(keys), err)
		}

		grouped := make(map[uuid.UUID][]domain.Card, len(keys))
		for _, c := range cards {
			grouped[c.ListID] = append(grouped[c.ListID], c)
		}

		return mapResults(keys, grouped, emptySlice[domain.Card])
	}
}

// errorResults returns the same error for every key.
func errorResults[V any](n int, err error) []*dataloader.Result[V] {
	results := make([]*dataloader.Result[V], n)
	for i := range results {
		results[i] = &dataloader.Result[V]{Error: err}
	}
	return results
}

// mapResults maps grouped results back to key order, using defaultFn for missing keys.
func mapResults[V any](keys []uuid.UUID, grouped map[uuid.UUID]V, defaultFn func() V) []*dataloader.Result[V] {
	results := make([]*dataloader.Result[V], len(keys))
	for i, key := range keys {
		if v, ok := grouped[key]; ok {
			results[i] = &dataloader.Result[V]{Data: v}
		} else {
			results[i] = &dataloader.Result[V]{Data: defaultFn()}
		}
	}
	return results
}

func emptySlice[T any]() []T {
	return []T{}
}

// LoadBoardLists loads the lists of boardID with their cards, issuing one
// batched call for lists and one for all their cards.
func (l *Loaders) LoadBoardLists(ctx context.Context, boardID uuid.UUID) ([]domain.List, error) {
	lists, err := l.ListsByBoardID.Load(ctx, boardID)()
	if err != nil {
		return nil, err
	}

	thunks := make([]dataloader.Thunk[[]domain.Card], len(lists))
	for i, list := range lists {
		thunks[i] = l.CardsByListID.Load(ctx, list.ID)
	}

	out := make([]domain.List, len(lists))
	for i, list := range lists {
		cards, err := thunks[i]()
		if err != nil {
			return nil, err
		}
		list.Cards = cards
		out[i] = list
	}
	return out, nil
}
