// Package memory implements the board, quota and audit stores with in-memory
// maps. It backs the "memory" storage driver and service tests. Every store
// serializes access under its own mutex and hands out copies.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/taskboard-backend/internal/domain"
)

type boardRow struct {
	seq   int64
	board domain.Board
}

type listRow struct {
	seq  int64
	list domain.List
}

type cardRow struct {
	seq  int64
	card domain.Card
}

// BoardStore keeps boards, lists and cards with the same org scoping and
// cascade rules as the PostgreSQL repository.
type BoardStore struct {
	mu     sync.RWMutex
	seq    int64
	boards map[uuid.UUID]*boardRow
	lists  map[uuid.UUID]*listRow
	cards  map[uuid.UUID]*cardRow
	now    func() time.Time
}

// NewBoardStore creates an empty board store.
func NewBoardStore() *BoardStore {
	return &BoardStore{
		boards: make(map[uuid.UUID]*boardRow),
		lists:  make(map[uuid.UUID]*listRow),
		cards:  make(map[uuid.UUID]*cardRow),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *BoardStore) nextSeq() int64 {
	s.seq++
	return s.seq
}

// ---------------------------------------------------------------------------
// Boards
// ---------------------------------------------------------------------------

// CreateBoard stores a new board.
func (s *BoardStore) CreateBoard(_ context.Context, b domain.Board) (domain.Board, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if _, exists := s.boards[b.ID]; exists {
		return domain.Board{}, fmt.Errorf("board %s: %w", b.ID, domain.ErrAlreadyExists)
	}
	now := s.now()
	b.CreatedAt, b.UpdatedAt = now, now
	s.boards[b.ID] = &boardRow{seq: s.nextSeq(), board: b}
	return b, nil
}

// GetBoard returns a board of the organization or domain.ErrNotFound.
func (s *BoardStore) GetBoard(_ context.Context, orgID string, id uuid.UUID) (domain.Board, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row, ok := s.boards[id]
	if !ok || row.board.OrgID != orgID {
		return domain.Board{}, fmt.Errorf("board %s: %w", id, domain.ErrNotFound)
	}
	return row.board, nil
}

// ListBoards returns the organization's boards, newest first.
func (s *BoardStore) ListBoards(_ context.Context, orgID string) ([]domain.Board, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := make([]*boardRow, 0)
	for _, row := range s.boards {
		if row.board.OrgID == orgID {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq > rows[j].seq })

	out := make([]domain.Board, len(rows))
	for i, row := range rows {
		out[i] = row.board
	}
	return out, nil
}

// UpdateBoardTitle renames a board of the organization.
func (s *BoardStore) UpdateBoardTitle(_ context.Context, orgID string, id uuid.UUID, title string) (domain.Board, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.boards[id]
	if !ok || row.board.OrgID != orgID {
		return domain.Board{}, fmt.Errorf("board %s: %w", id, domain.ErrNotFound)
	}
	row.board.Title = title
	row.board.UpdatedAt = s.now()
	return row.board, nil
}

// DeleteBoard removes a board with its lists and cards.
func (s *BoardStore) DeleteBoard(_ context.Context, orgID string, id uuid.UUID) (domain.Board, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.boards[id]
	if !ok || row.board.OrgID != orgID {
		return domain.Board{}, fmt.Errorf("board %s: %w", id, domain.ErrNotFound)
	}
	for listID, l := range s.lists {
		if l.list.BoardID == id {
			s.deleteListLocked(listID)
		}
	}
	delete(s.boards, id)
	return row.board, nil
}

// CountBoards returns how many boards the organization owns.
func (s *BoardStore) CountBoards(_ context.Context, orgID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, row := range s.boards {
		if row.board.OrgID == orgID {
			n++
		}
	}
	return n, nil
}

// CountBoardsByOrg returns the board count of every organization.
func (s *BoardStore) CountBoardsByOrg(_ context.Context) (map[string]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[string]int)
	for _, row := range s.boards {
		counts[row.board.OrgID]++
	}
	return counts, nil
}

// ---------------------------------------------------------------------------
// Lists
// ---------------------------------------------------------------------------

// listOfOrgLocked returns the list if it sits on boardID owned by orgID.
func (s *BoardStore) listOfOrgLocked(orgID string, boardID, id uuid.UUID) (*listRow, bool) {
	l, ok := s.lists[id]
	if !ok || l.list.BoardID != boardID {
		return nil, false
	}
	b, ok := s.boards[l.list.BoardID]
	if !ok || b.board.OrgID != orgID {
		return nil, false
	}
	return l, true
}

// GetList returns a list on a board of the organization.
func (s *BoardStore) GetList(_ context.Context, orgID string, boardID, id uuid.UUID) (domain.List, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.listOfOrgLocked(orgID, boardID, id)
	if !ok {
		return domain.List{}, fmt.Errorf("list %s: %w", id, domain.ErrNotFound)
	}
	return l.list, nil
}

// ListsByBoardIDs returns the lists of the given boards, ordered by position.
func (s *BoardStore) ListsByBoardIDs(_ context.Context, boardIDs []uuid.UUID) ([]domain.List, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	want := make(map[uuid.UUID]struct{}, len(boardIDs))
	for _, id := range boardIDs {
		want[id] = struct{}{}
	}

	rows := make([]*listRow, 0)
	for _, l := range s.lists {
		if _, ok := want[l.list.BoardID]; ok {
			rows = append(rows, l)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].list.Order != rows[j].list.Order {
			return rows[i].list.Order < rows[j].list.Order
		}
		return rows[i].seq < rows[j].seq
	})

	out := make([]domain.List, len(rows))
	for i, l := range rows {
		out[i] = l.list
	}
	return out, nil
}

// LastListOrder returns the highest list position on a board, or 0.
func (s *BoardStore) LastListOrder(_ context.Context, boardID uuid.UUID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	last := 0
	for _, l := range s.lists {
		if l.list.BoardID == boardID && l.list.Order > last {
			last = l.list.Order
		}
	}
	return last, nil
}

// CreateList stores a new list.
func (s *BoardStore) CreateList(_ context.Context, l domain.List) (domain.List, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.boards[l.BoardID]; !ok {
		return domain.List{}, fmt.Errorf("list %s: %w", l.ID, domain.ErrNotFound)
	}
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	now := s.now()
	l.CreatedAt, l.UpdatedAt = now, now
	l.Cards = nil
	s.lists[l.ID] = &listRow{seq: s.nextSeq(), list: l}
	return l, nil
}

// UpdateListTitle renames a list.
func (s *BoardStore) UpdateListTitle(_ context.Context, orgID string, boardID, id uuid.UUID, title string) (domain.List, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.listOfOrgLocked(orgID, boardID, id)
	if !ok {
		return domain.List{}, fmt.Errorf("list %s: %w", id, domain.ErrNotFound)
	}
	l.list.Title = title
	l.list.UpdatedAt = s.now()
	return l.list, nil
}

// DeleteList removes a list with its cards.
func (s *BoardStore) DeleteList(_ context.Context, orgID string, boardID, id uuid.UUID) (domain.List, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.listOfOrgLocked(orgID, boardID, id)
	if !ok {
		return domain.List{}, fmt.Errorf("list %s: %w", id, domain.ErrNotFound)
	}
	s.deleteListLocked(id)
	return l.list, nil
}

func (s *BoardStore) deleteListLocked(id uuid.UUID) {
	for cardID, c := range s.cards {
		if c.card.ListID == id {
			delete(s.cards, cardID)
		}
	}
	delete(s.lists, id)
}

// UpdateListOrders sets list positions; lists of other boards are skipped.
func (s *BoardStore) UpdateListOrders(_ context.Context, orgID string, boardID uuid.UUID, items []domain.ItemOrder) ([]domain.List, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	out := make([]domain.List, 0, len(items))
	for _, it := range items {
		l, ok := s.listOfOrgLocked(orgID, boardID, it.ID)
		if !ok {
			continue
		}
		l.list.Order = it.Order
		l.list.UpdatedAt = now
		out = append(out, l.list)
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Cards
// ---------------------------------------------------------------------------

// listOwnedLocked reports whether the list exists on a board of orgID.
func (s *BoardStore) listOwnedLocked(orgID string, listID uuid.UUID) bool {
	l, ok := s.lists[listID]
	if !ok {
		return false
	}
	b, ok := s.boards[l.list.BoardID]
	return ok && b.board.OrgID == orgID
}

func (s *BoardStore) cardOfOrgLocked(orgID string, id uuid.UUID) (*cardRow, bool) {
	c, ok := s.cards[id]
	if !ok || !s.listOwnedLocked(orgID, c.card.ListID) {
		return nil, false
	}
	return c, true
}

// GetCard returns a card on a board of the organization.
func (s *BoardStore) GetCard(_ context.Context, orgID string, id uuid.UUID) (domain.Card, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.cardOfOrgLocked(orgID, id)
	if !ok {
		return domain.Card{}, fmt.Errorf("card %s: %w", id, domain.ErrNotFound)
	}
	return copyCard(c.card), nil
}

// CardsByListIDs returns the cards of the given lists, ordered by position.
func (s *BoardStore) CardsByListIDs(_ context.Context, listIDs []uuid.UUID) ([]domain.Card, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	want := make(map[uuid.UUID]struct{}, len(listIDs))
	for _, id := range listIDs {
		want[id] = struct{}{}
	}

	rows := make([]*cardRow, 0)
	for _, c := range s.cards {
		if _, ok := want[c.card.ListID]; ok {
			rows = append(rows, c)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].card.Order != rows[j].card.Order {
			return rows[i].card.Order < rows[j].card.Order
		}
		return rows[i].seq < rows[j].seq
	})

	out := make([]domain.Card, len(rows))
	for i, c := range rows {
		out[i] = copyCard(c.card)
	}
	return out, nil
}

// LastCardOrder returns the highest card position in a list, or 0.
func (s *BoardStore) LastCardOrder(_ context.Context, listID uuid.UUID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	last := 0
	for _, c := range s.cards {
		if c.card.ListID == listID && c.card.Order > last {
			last = c.card.Order
		}
	}
	return last, nil
}

// CreateCard stores a new card.
func (s *BoardStore) CreateCard(_ context.Context, c domain.Card) (domain.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.lists[c.ListID]; !ok {
		return domain.Card{}, fmt.Errorf("card %s: %w", c.ID, domain.ErrNotFound)
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	now := s.now()
	c.CreatedAt, c.UpdatedAt = now, now
	c = copyCard(c)
	s.cards[c.ID] = &cardRow{seq: s.nextSeq(), card: c}
	return copyCard(c), nil
}

// UpdateCard applies the given fields to a card.
func (s *BoardStore) UpdateCard(_ context.Context, orgID string, id uuid.UUID, params domain.CardUpdateParams) (domain.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.cardOfOrgLocked(orgID, id)
	if !ok {
		return domain.Card{}, fmt.Errorf("card %s: %w", id, domain.ErrNotFound)
	}
	if params.Title != nil {
		c.card.Title = *params.Title
	}
	if params.Description != nil {
		d := *params.Description
		c.card.Description = &d
	}
	c.card.UpdatedAt = s.now()
	return copyCard(c.card), nil
}

// DeleteCard removes a card.
func (s *BoardStore) DeleteCard(_ context.Context, orgID string, id uuid.UUID) (domain.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.cardOfOrgLocked(orgID, id)
	if !ok {
		return domain.Card{}, fmt.Errorf("card %s: %w", id, domain.ErrNotFound)
	}
	delete(s.cards, id)
	return c.card, nil
}

// UpdateCardPositions moves cards; targets outside the organization are skipped.
func (s *BoardStore) UpdateCardPositions(_ context.Context, orgID string, items []domain.CardPosition) ([]domain.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	out := make([]domain.Card, 0, len(items))
	for _, it := range items {
		c, ok := s.cardOfOrgLocked(orgID, it.ID)
		if !ok || !s.listOwnedLocked(orgID, it.ListID) {
			continue
		}
		c.card.ListID = it.ListID
		c.card.Order = it.Order
		c.card.UpdatedAt = now
		out = append(out, copyCard(c.card))
	}
	return out, nil
}

func copyCard(c domain.Card) domain.Card {
	if c.Description != nil {
		d := *c.Description
		c.Description = &d
	}
	return c
}
