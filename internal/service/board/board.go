package board

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/taskboard-backend/internal/domain"
)

// CreateBoard creates a board if the organization is under its free board
// limit, and counts it against the limit.
func (s *Service) CreateBoard(ctx context.Context, in CreateBoardInput) (Board, error) {
	id, err := s.identity.ResolveOrg(ctx)
	if err != nil {
		return Board{}, err
	}

	img, ok := parseBoardImage(in.Image)
	if !ok {
		return Board{}, domain.NewPublicError(domain.ErrValidation, "Missing fields. Failed to create board.")
	}

	var created domain.Board
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		// The ledger row stays locked until commit, so concurrent creates
		// for one organization are admitted one at a time.
		under, limitErr := s.quota.IsUnderLimit(txCtx, id.OrgID)
		if limitErr != nil {
			return fmt.Errorf("check board limit: %w", limitErr)
		}
		if !under {
			return domain.NewPublicError(domain.ErrQuotaExceeded, MsgBoardLimit)
		}

		var createErr error
		created, createErr = s.store.CreateBoard(txCtx, domain.Board{
			OrgID:         id.OrgID,
			Title:         in.Title,
			ImageID:       img.ID,
			ImageThumbURL: img.ThumbURL,
			ImageFullURL:  img.FullURL,
			ImageLinkHTML: img.LinkHTML,
			ImageUserName: img.UserName,
		})
		if createErr != nil {
			return fmt.Errorf("create board: %w", createErr)
		}

		if _, incErr := s.quota.Increment(txCtx, id.OrgID); incErr != nil {
			return fmt.Errorf("increment board count: %w", incErr)
		}
		return nil
	})
	if err != nil {
		return Board{}, err
	}

	if err := s.record(ctx, id, domain.AuditActionCreate, domain.EntityTypeBoard, created.ID, created.Title); err != nil {
		return Board{}, err
	}

	s.log.InfoContext(ctx, "board created",
		slog.String("org_id", id.OrgID),
		slog.String("board_id", created.ID.String()),
	)

	return ToBoard(created), nil
}

// UpdateBoard renames a board.
func (s *Service) UpdateBoard(ctx context.Context, in UpdateBoardInput) (Board, error) {
	id, err := s.identity.ResolveOrg(ctx)
	if err != nil {
		return Board{}, err
	}

	updated, err := s.store.UpdateBoardTitle(ctx, id.OrgID, in.ID, in.Title)
	if err != nil {
		return Board{}, notFound(err, "Board", "update board")
	}

	if err := s.record(ctx, id, domain.AuditActionUpdate, domain.EntityTypeBoard, updated.ID, updated.Title); err != nil {
		return Board{}, err
	}

	return ToBoard(updated), nil
}

// DeleteBoard deletes a board with its lists and cards and releases its
// slot in the organization's board limit.
func (s *Service) DeleteBoard(ctx context.Context, in DeleteBoardInput) (Board, error) {
	id, err := s.identity.ResolveOrg(ctx)
	if err != nil {
		return Board{}, err
	}

	var deleted domain.Board
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var deleteErr error
		deleted, deleteErr = s.store.DeleteBoard(txCtx, id.OrgID, in.ID)
		if deleteErr != nil {
			return notFound(deleteErr, "Board", "delete board")
		}

		if _, decErr := s.quota.Decrement(txCtx, id.OrgID); decErr != nil {
			return fmt.Errorf("decrement board count: %w", decErr)
		}
		return nil
	})
	if err != nil {
		return Board{}, err
	}

	if err := s.record(ctx, id, domain.AuditActionDelete, domain.EntityTypeBoard, deleted.ID, deleted.Title); err != nil {
		return Board{}, err
	}

	s.log.InfoContext(ctx, "board deleted",
		slog.String("org_id", id.OrgID),
		slog.String("board_id", deleted.ID.String()),
	)

	return ToBoard(deleted), nil
}
