package board

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/heartmarshall/taskboard-backend/internal/domain"
)

// cardOfBoard returns the card only if its list belongs to boardID.
func (s *Service) cardOfBoard(ctx context.Context, orgID string, boardID, cardID uuid.UUID) (domain.Card, error) {
	card, err := s.store.GetCard(ctx, orgID, cardID)
	if err != nil {
		return domain.Card{}, notFound(err, "Card", "get card")
	}
	if _, err := s.store.GetList(ctx, orgID, boardID, card.ListID); err != nil {
		return domain.Card{}, notFound(err, "Card", "get card list")
	}
	return card, nil
}

// CreateCard appends a card to the end of a list.
func (s *Service) CreateCard(ctx context.Context, in CreateCardInput) (Card, error) {
	id, err := s.identity.ResolveOrg(ctx)
	if err != nil {
		return Card{}, err
	}

	if _, err := s.store.GetList(ctx, id.OrgID, in.BoardID, in.ListID); err != nil {
		return Card{}, notFound(err, "List", "get list")
	}

	var created domain.Card
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		last, lastErr := s.store.LastCardOrder(txCtx, in.ListID)
		if lastErr != nil {
			return fmt.Errorf("last card order: %w", lastErr)
		}

		var createErr error
		created, createErr = s.store.CreateCard(txCtx, domain.Card{
			ListID: in.ListID,
			Title:  in.Title,
			Order:  last + 1,
		})
		if createErr != nil {
			return fmt.Errorf("create card: %w", createErr)
		}
		return nil
	})
	if err != nil {
		return Card{}, err
	}

	if err := s.record(ctx, id, domain.AuditActionCreate, domain.EntityTypeCard, created.ID, created.Title); err != nil {
		return Card{}, err
	}

	return ToCard(created), nil
}

// UpdateCard changes the fields present in the input. The audit record
// carries the title after the update.
func (s *Service) UpdateCard(ctx context.Context, in UpdateCardInput) (Card, error) {
	id, err := s.identity.ResolveOrg(ctx)
	if err != nil {
		return Card{}, err
	}

	if _, err := s.cardOfBoard(ctx, id.OrgID, in.BoardID, in.ID); err != nil {
		return Card{}, err
	}

	updated, err := s.store.UpdateCard(ctx, id.OrgID, in.ID, domain.CardUpdateParams{
		Title:       in.Title,
		Description: in.Description,
	})
	if err != nil {
		return Card{}, notFound(err, "Card", "update card")
	}

	if err := s.record(ctx, id, domain.AuditActionUpdate, domain.EntityTypeCard, updated.ID, updated.Title); err != nil {
		return Card{}, err
	}

	return ToCard(updated), nil
}

// DeleteCard deletes a card.
func (s *Service) DeleteCard(ctx context.Context, in CardRef) (Card, error) {
	id, err := s.identity.ResolveOrg(ctx)
	if err != nil {
		return Card{}, err
	}

	if _, err := s.cardOfBoard(ctx, id.OrgID, in.BoardID, in.ID); err != nil {
		return Card{}, err
	}

	deleted, err := s.store.DeleteCard(ctx, id.OrgID, in.ID)
	if err != nil {
		return Card{}, notFound(err, "Card", "delete card")
	}

	if err := s.record(ctx, id, domain.AuditActionDelete, domain.EntityTypeCard, deleted.ID, deleted.Title); err != nil {
		return Card{}, err
	}

	return ToCard(deleted), nil
}

// CopyCard duplicates a card at the end of its list.
func (s *Service) CopyCard(ctx context.Context, in CardRef) (Card, error) {
	id, err := s.identity.ResolveOrg(ctx)
	if err != nil {
		return Card{}, err
	}

	src, err := s.cardOfBoard(ctx, id.OrgID, in.BoardID, in.ID)
	if err != nil {
		return Card{}, err
	}

	var copied domain.Card
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		last, lastErr := s.store.LastCardOrder(txCtx, src.ListID)
		if lastErr != nil {
			return fmt.Errorf("last card order: %w", lastErr)
		}

		var createErr error
		copied, createErr = s.store.CreateCard(txCtx, domain.Card{
			ListID:      src.ListID,
			Title:       src.Title + copySuffix,
			Description: src.Description,
			Order:       last + 1,
		})
		if createErr != nil {
			return fmt.Errorf("create card copy: %w", createErr)
		}
		return nil
	})
	if err != nil {
		return Card{}, err
	}

	if err := s.record(ctx, id, domain.AuditActionCreate, domain.EntityTypeCard, copied.ID, copied.Title); err != nil {
		return Card{}, err
	}

	return ToCard(copied), nil
}

// UpdateCardOrder persists an already computed card order. Every target list
// must belong to the board. Reordering is not audited.
func (s *Service) UpdateCardOrder(ctx context.Context, in UpdateCardOrderInput) ([]Card, error) {
	id, err := s.identity.ResolveOrg(ctx)
	if err != nil {
		return nil, err
	}

	checked := make(map[uuid.UUID]struct{})
	items := make([]domain.CardPosition, len(in.Items))
	for i, it := range in.Items {
		if _, ok := checked[it.ListID]; !ok {
			if _, err := s.store.GetList(ctx, id.OrgID, in.BoardID, it.ListID); err != nil {
				return nil, notFound(err, "List", "get list")
			}
			checked[it.ListID] = struct{}{}
		}
		items[i] = domain.CardPosition{ID: it.ID, ListID: it.ListID, Order: it.Order}
	}

	var updated []domain.Card
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var updateErr error
		updated, updateErr = s.store.UpdateCardPositions(txCtx, id.OrgID, items)
		if updateErr != nil {
			return fmt.Errorf("update card positions: %w", updateErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return toCards(updated), nil
}
