package board

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/heartmarshall/taskboard-backend/internal/domain"
)

// copySuffix is appended to the title of a copied list or card.
const copySuffix = " - Copy"

// CreateList appends a list to the end of a board.
func (s *Service) CreateList(ctx context.Context, in CreateListInput) (List, error) {
	id, err := s.identity.ResolveOrg(ctx)
	if err != nil {
		return List{}, err
	}

	if _, err := s.store.GetBoard(ctx, id.OrgID, in.BoardID); err != nil {
		return List{}, notFound(err, "Board", "get board")
	}

	var created domain.List
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		last, lastErr := s.store.LastListOrder(txCtx, in.BoardID)
		if lastErr != nil {
			return fmt.Errorf("last list order: %w", lastErr)
		}

		var createErr error
		created, createErr = s.store.CreateList(txCtx, domain.List{
			BoardID: in.BoardID,
			Title:   in.Title,
			Order:   last + 1,
		})
		if createErr != nil {
			return fmt.Errorf("create list: %w", createErr)
		}
		return nil
	})
	if err != nil {
		return List{}, err
	}

	if err := s.record(ctx, id, domain.AuditActionCreate, domain.EntityTypeList, created.ID, created.Title); err != nil {
		return List{}, err
	}

	return ToList(created), nil
}

// UpdateList renames a list.
func (s *Service) UpdateList(ctx context.Context, in UpdateListInput) (List, error) {
	id, err := s.identity.ResolveOrg(ctx)
	if err != nil {
		return List{}, err
	}

	updated, err := s.store.UpdateListTitle(ctx, id.OrgID, in.BoardID, in.ID, in.Title)
	if err != nil {
		return List{}, notFound(err, "List", "update list")
	}

	if err := s.record(ctx, id, domain.AuditActionUpdate, domain.EntityTypeList, updated.ID, updated.Title); err != nil {
		return List{}, err
	}

	return ToList(updated), nil
}

// DeleteList deletes a list with its cards.
func (s *Service) DeleteList(ctx context.Context, in ListRef) (List, error) {
	id, err := s.identity.ResolveOrg(ctx)
	if err != nil {
		return List{}, err
	}

	deleted, err := s.store.DeleteList(ctx, id.OrgID, in.BoardID, in.ID)
	if err != nil {
		return List{}, notFound(err, "List", "delete list")
	}

	if err := s.record(ctx, id, domain.AuditActionDelete, domain.EntityTypeList, deleted.ID, deleted.Title); err != nil {
		return List{}, err
	}

	return ToList(deleted), nil
}

// CopyList duplicates a list and its cards at the end of the same board.
// Copied cards keep their order.
func (s *Service) CopyList(ctx context.Context, in ListRef) (List, error) {
	id, err := s.identity.ResolveOrg(ctx)
	if err != nil {
		return List{}, err
	}

	src, err := s.store.GetList(ctx, id.OrgID, in.BoardID, in.ID)
	if err != nil {
		return List{}, notFound(err, "List", "get list")
	}

	cards, err := s.store.CardsByListIDs(ctx, []uuid.UUID{src.ID})
	if err != nil {
		return List{}, fmt.Errorf("get list cards: %w", err)
	}

	var copied domain.List
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		last, lastErr := s.store.LastListOrder(txCtx, in.BoardID)
		if lastErr != nil {
			return fmt.Errorf("last list order: %w", lastErr)
		}

		var createErr error
		copied, createErr = s.store.CreateList(txCtx, domain.List{
			BoardID: in.BoardID,
			Title:   src.Title + copySuffix,
			Order:   last + 1,
		})
		if createErr != nil {
			return fmt.Errorf("create list copy: %w", createErr)
		}

		copied.Cards = make([]domain.Card, 0, len(cards))
		for _, c := range cards {
			card, cardErr := s.store.CreateCard(txCtx, domain.Card{
				ListID:      copied.ID,
				Title:       c.Title,
				Description: c.Description,
				Order:       c.Order,
			})
			if cardErr != nil {
				return fmt.Errorf("copy card %s: %w", c.ID, cardErr)
			}
			copied.Cards = append(copied.Cards, card)
		}
		return nil
	})
	if err != nil {
		return List{}, err
	}

	if err := s.record(ctx, id, domain.AuditActionCreate, domain.EntityTypeList, copied.ID, copied.Title); err != nil {
		return List{}, err
	}

	return ToList(copied), nil
}

// UpdateListOrder persists an already computed order of a board's lists.
// The board must belong to the caller's organization; lists of other boards
// are left untouched. Reordering is not audited.
func (s *Service) UpdateListOrder(ctx context.Context, in UpdateListOrderInput) ([]List, error) {
	id, err := s.identity.ResolveOrg(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := s.store.GetBoard(ctx, id.OrgID, in.BoardID); err != nil {
		return nil, notFound(err, "Board", "get board")
	}

	items := make([]domain.ItemOrder, len(in.Items))
	for i, it := range in.Items {
		items[i] = domain.ItemOrder{ID: it.ID, Order: it.Order}
	}

	var updated []domain.List
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var updateErr error
		updated, updateErr = s.store.UpdateListOrders(txCtx, id.OrgID, in.BoardID, items)
		if updateErr != nil {
			return fmt.Errorf("update list orders: %w", updateErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return toLists(updated), nil
}
