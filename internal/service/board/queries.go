package board

import (
	"context"
	"fmt"
)

// Boards returns the caller's organization boards, newest first.
func (s *Service) Boards(ctx context.Context) ([]Board, error) {
	id, err := s.identity.ResolveOrg(ctx)
	if err != nil {
		return nil, err
	}

	boards, err := s.store.ListBoards(ctx, id.OrgID)
	if err != nil {
		return nil, fmt.Errorf("list boards: %w", err)
	}

	out := make([]Board, len(boards))
	for i, b := range boards {
		out[i] = ToBoard(b)
	}
	return out, nil
}

// Board returns one board of the caller's organization, without its lists.
func (s *Service) Board(ctx context.Context, boardID string) (Board, error) {
	id, err := s.identity.ResolveOrg(ctx)
	if err != nil {
		return Board{}, err
	}

	bid, err := parseID(boardID)
	if err != nil {
		return Board{}, err
	}

	b, err := s.store.GetBoard(ctx, id.OrgID, bid)
	if err != nil {
		return Board{}, notFound(err, "Board", "get board")
	}
	return ToBoard(b), nil
}
