package board

import (
	"github.com/heartmarshall/taskboard-backend/internal/action"
)

// Action names as exposed on the HTTP surface.
const (
	ActionCreateBoard     = "create-board"
	ActionUpdateBoard     = "update-board"
	ActionDeleteBoard     = "delete-board"
	ActionCreateList      = "create-list"
	ActionUpdateList      = "update-list"
	ActionDeleteList      = "delete-list"
	ActionCopyList        = "copy-list"
	ActionUpdateListOrder = "update-list-order"
	ActionCreateCard      = "create-card"
	ActionUpdateCard      = "update-card"
	ActionDeleteCard      = "delete-card"
	ActionCopyCard        = "copy-card"
	ActionUpdateCardOrder = "update-card-order"
)

const msgReorderFailed = "Failed to reorder"

// CreateBoardAction validates a new board and admits it against the free board limit.
func (s *Service) CreateBoardAction() *action.Action[CreateBoardInput, Board] {
	return action.New(ActionCreateBoard, createBoardSchema, s.CreateBoard, s.log)
}

// UpdateBoardAction renames a board.
func (s *Service) UpdateBoardAction() *action.Action[UpdateBoardInput, Board] {
	return action.New(ActionUpdateBoard, updateBoardSchema, s.UpdateBoard, s.log)
}

// DeleteBoardAction deletes a board with its lists and cards and releases its quota slot.
func (s *Service) DeleteBoardAction() *action.Action[DeleteBoardInput, Board] {
	return action.New(ActionDeleteBoard, deleteBoardSchema, s.DeleteBoard, s.log)
}

// CreateListAction appends a list to a board.
func (s *Service) CreateListAction() *action.Action[CreateListInput, List] {
	return action.New(ActionCreateList, createListSchema, s.CreateList, s.log)
}

// UpdateListAction renames a list.
func (s *Service) UpdateListAction() *action.Action[UpdateListInput, List] {
	return action.New(ActionUpdateList, updateListSchema, s.UpdateList, s.log)
}

// DeleteListAction deletes a list with its cards.
func (s *Service) DeleteListAction() *action.Action[ListRef, List] {
	return action.New(ActionDeleteList, listRefSchema, s.DeleteList, s.log)
}

// CopyListAction duplicates a list and its cards at the end of the board.
func (s *Service) CopyListAction() *action.Action[ListRef, List] {
	return action.New(ActionCopyList, listRefSchema, s.CopyList, s.log)
}

// UpdateListOrderAction persists a reordering of a board's lists.
func (s *Service) UpdateListOrderAction() *action.Action[UpdateListOrderInput, []List] {
	return action.New(ActionUpdateListOrder, updateListOrderSchema, s.UpdateListOrder, s.log,
		action.WithFailureMessage(msgReorderFailed))
}

// CreateCardAction appends a card to a list.
func (s *Service) CreateCardAction() *action.Action[CreateCardInput, Card] {
	return action.New(ActionCreateCard, createCardSchema, s.CreateCard, s.log)
}

// UpdateCardAction changes a card's title or description.
func (s *Service) UpdateCardAction() *action.Action[UpdateCardInput, Card] {
	return action.New(ActionUpdateCard, updateCardSchema, s.UpdateCard, s.log)
}

// DeleteCardAction deletes a card.
func (s *Service) DeleteCardAction() *action.Action[CardRef, Card] {
	return action.New(ActionDeleteCard, cardRefSchema, s.DeleteCard, s.log)
}

// CopyCardAction duplicates a card at the end of its list.
func (s *Service) CopyCardAction() *action.Action[CardRef, Card] {
	return action.New(ActionCopyCard, cardRefSchema, s.CopyCard, s.log)
}

// UpdateCardOrderAction persists card positions, including moves between lists.
func (s *Service) UpdateCardOrderAction() *action.Action[UpdateCardOrderInput, []Card] {
	return action.New(ActionUpdateCardOrder, updateCardOrderSchema, s.UpdateCardOrder, s.log,
		action.WithFailureMessage(msgReorderFailed))
}

// Actions returns every board action for registration.
func (s *Service) Actions() []action.Runner {
	return []action.Runner{
		s.CreateBoardAction(),
		s.UpdateBoardAction(),
		s.DeleteBoardAction(),
		s.CreateListAction(),
		s.UpdateListAction(),
		s.DeleteListAction(),
		s.CopyListAction(),
		s.UpdateListOrderAction(),
		s.CreateCardAction(),
		s.UpdateCardAction(),
		s.DeleteCardAction(),
		s.CopyCardAction(),
		s.UpdateCardOrderAction(),
	}
}
