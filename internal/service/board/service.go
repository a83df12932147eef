// Package board implements the board, list and card actions. Every mutating
// handler resolves the caller, checks admission where the entity is
// quota-bound, mutates inside a transaction, and then appends an audit record.
package board

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/taskboard-backend/internal/domain"
)

// MsgBoardLimit is reported when an organization has used all free boards.
const MsgBoardLimit = "You have reached your limit of free boards. Please upgrade to create more."

type boardStore interface {
	CreateBoard(ctx context.Context, b domain.Board) (domain.Board, error)
	GetBoard(ctx context.Context, orgID string, id uuid.UUID) (domain.Board, error)
	ListBoards(ctx context.Context, orgID string) ([]domain.Board, error)
	UpdateBoardTitle(ctx context.Context, orgID string, id uuid.UUID, title string) (domain.Board, error)
	DeleteBoard(ctx context.Context, orgID string, id uuid.UUID) (domain.Board, error)

	GetList(ctx context.Context, orgID string, boardID, id uuid.UUID) (domain.List, error)
	LastListOrder(ctx context.Context, boardID uuid.UUID) (int, error)
	CreateList(ctx context.Context, l domain.List) (domain.List, error)
	UpdateListTitle(ctx context.Context, orgID string, boardID, id uuid.UUID, title string) (domain.List, error)
	DeleteList(ctx context.Context, orgID string, boardID, id uuid.UUID) (domain.List, error)
	UpdateListOrders(ctx context.Context, orgID string, boardID uuid.UUID, items []domain.ItemOrder) ([]domain.List, error)

	GetCard(ctx context.Context, orgID string, id uuid.UUID) (domain.Card, error)
	CardsByListIDs(ctx context.Context, listIDs []uuid.UUID) ([]domain.Card, error)
	LastCardOrder(ctx context.Context, listID uuid.UUID) (int, error)
	CreateCard(ctx context.Context, c domain.Card) (domain.Card, error)
	UpdateCard(ctx context.Context, orgID string, id uuid.UUID, params domain.CardUpdateParams) (domain.Card, error)
	DeleteCard(ctx context.Context, orgID string, id uuid.UUID) (domain.Card, error)
	UpdateCardPositions(ctx context.Context, orgID string, items []domain.CardPosition) ([]domain.Card, error)
}

type quotaLedger interface {
	IsUnderLimit(ctx context.Context, orgID string) (bool, error)
	Increment(ctx context.Context, orgID string) (domain.OrgLimit, error)
	Decrement(ctx context.Context, orgID string) (domain.OrgLimit, error)
}

type auditAppender interface {
	Append(ctx context.Context, identity domain.Identity, entry domain.AuditEntry) (domain.AuditLog, error)
}

type identityResolver interface {
	ResolveOrg(ctx context.Context) (domain.Identity, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service provides the board actions and their read paths.
type Service struct {
	store    boardStore
	quota    quotaLedger
	audit    auditAppender
	identity identityResolver
	tx       txManager
	log      *slog.Logger
}

// NewService creates a new board service.
func NewService(
	log *slog.Logger,
	store boardStore,
	quota quotaLedger,
	audit auditAppender,
	identity identityResolver,
	tx txManager,
) *Service {
	return &Service{
		store:    store,
		quota:    quota,
		audit:    audit,
		identity: identity,
		tx:       tx,
		log:      log.With("service", "board"),
	}
}

// record appends the audit entry for a committed mutation.
func (s *Service) record(ctx context.Context, id domain.Identity, action domain.AuditAction, typ domain.EntityType, entityID uuid.UUID, title string) error {
	_, err := s.audit.Append(ctx, id, domain.AuditEntry{
		EntityID:    entityID,
		EntityType:  typ,
		EntityTitle: title,
		Action:      action,
	})
	return err
}
