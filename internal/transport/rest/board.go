package rest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/taskboard-backend/internal/domain"
	"github.com/heartmarshall/taskboard-backend/internal/service/auditlog"
	"github.com/heartmarshall/taskboard-backend/internal/service/board"
	"github.com/heartmarshall/taskboard-backend/internal/transport/dataloader"
)

const maxFeedLimit = 100

type boardQueries interface {
	Boards(ctx context.Context) ([]board.Board, error)
	Board(ctx context.Context, boardID string) (board.Board, error)
}

type activityReader interface {
	ListForOrg(ctx context.Context, orgID string, limit int) ([]domain.AuditLog, error)
	ListForEntity(ctx context.Context, orgID string, entityType domain.EntityType, entityID uuid.UUID, limit int) ([]domain.AuditLog, error)
}

type quotaReader interface {
	AvailableCount(ctx context.Context, orgID string) int
	Remaining(ctx context.Context, orgID string) int
	Max() int
}

type identityResolver interface {
	ResolveOrg(ctx context.Context) (domain.Identity, error)
}

// BoardHandler serves the read side of the board UI.
type BoardHandler struct {
	boards   boardQueries
	activity activityReader
	quota    quotaReader
	identity identityResolver
	log      *slog.Logger
}

// NewBoardHandler creates a BoardHandler.
func NewBoardHandler(
	boards boardQueries,
	activity activityReader,
	quota quotaReader,
	identity identityResolver,
	logger *slog.Logger,
) *BoardHandler {
	return &BoardHandler{
		boards:   boards,
		activity: activity,
		quota:    quota,
		identity: identity,
		log:      logger.With("handler", "board"),
	}
}

// AuditLogResponse is the JSON shape of one activity entry.
type AuditLogResponse struct {
	ID          uuid.UUID `json:"id"`
	Action      string    `json:"action"`
	EntityID    uuid.UUID `json:"entityId"`
	EntityType  string    `json:"entityType"`
	EntityTitle string    `json:"entityTitle"`
	UserID      string    `json:"userId"`
	UserName    string    `json:"userName"`
	UserImage   *string   `json:"userImage"`
	CreatedAt   time.Time `json:"createdAt"`
}

// QuotaResponse reports the caller organization's board allowance.
type QuotaResponse struct {
	Count     int `json:"count"`
	Max       int `json:"max"`
	Remaining int `json:"remaining"`
}

// Boards handles GET /api/boards.
func (h *BoardHandler) Boards(w http.ResponseWriter, r *http.Request) {
	boards, err := h.boards.Boards(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, boards)
}

// Board handles GET /api/boards/{id}. Lists and their cards are batched
// through the request's loaders once the board is known to belong to the
// caller's organization.
func (h *BoardHandler) Board(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	b, err := h.boards.Board(ctx, r.PathValue("id"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	lists, err := dataloader.FromContext(ctx).LoadBoardLists(ctx, b.ID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	b.Lists = make([]board.List, len(lists))
	for i, l := range lists {
		b.Lists[i] = board.ToList(l)
	}
	writeJSON(w, http.StatusOK, b)
}

// AuditLogs handles GET /api/audit-logs?limit=N.
func (h *BoardHandler) AuditLogs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := h.identity.ResolveOrg(ctx)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	limit, ok := parseLimit(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid limit")
		return
	}

	logs, err := h.activity.ListForOrg(ctx, id.OrgID, limit)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toAuditLogResponses(logs))
}

// CardAuditLogs handles GET /api/cards/{id}/audit-logs.
func (h *BoardHandler) CardAuditLogs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := h.identity.ResolveOrg(ctx)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	cardID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid card id")
		return
	}

	logs, err := h.activity.ListForEntity(ctx, id.OrgID, domain.EntityTypeCard, cardID, auditlog.CardActivityLimit)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toAuditLogResponses(logs))
}

// Quota handles GET /api/quota.
func (h *BoardHandler) Quota(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := h.identity.ResolveOrg(ctx)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, QuotaResponse{
		Count:     h.quota.AvailableCount(ctx, id.OrgID),
		Max:       h.quota.Max(),
		Remaining: h.quota.Remaining(ctx, id.OrgID),
	})
}

func (h *BoardHandler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		validation *domain.ValidationError
		public     *domain.PublicError
	)
	switch {
	case errors.As(err, &validation):
		writeJSON(w, http.StatusBadRequest, map[string]any{"fieldErrors": validation.Fields()})
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "Unauthorized")
	case errors.As(err, &public):
		writeError(w, statusFor(public.Kind), public.Message)
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "Not found")
	default:
		h.log.ErrorContext(r.Context(), "board read failed",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "Something went wrong")
	}
}

func statusFor(kind error) int {
	switch {
	case errors.Is(kind, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(kind, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(kind, domain.ErrConflict), errors.Is(kind, domain.ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(kind, domain.ErrQuotaExceeded):
		return http.StatusPaymentRequired
	default:
		return http.StatusBadRequest
	}
}

// parseLimit reads ?limit=. Absent means the service default (0).
func parseLimit(r *http.Request) (int, bool) {
	v := r.URL.Query().Get("limit")
	if v == "" {
		return 0, true
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, false
	}
	return min(n, maxFeedLimit), true
}

func toAuditLogResponses(logs []domain.AuditLog) []AuditLogResponse {
	out := make([]AuditLogResponse, len(logs))
	for i, l := range logs {
		out[i] = AuditLogResponse{
			ID:          l.ID,
			Action:      string(l.Action),
			EntityID:    l.EntityID,
			EntityType:  string(l.EntityType),
			EntityTitle: l.EntityTitle,
			UserID:      l.UserID,
			UserName:    l.UserName,
			UserImage:   l.UserImage,
			CreatedAt:   l.CreatedAt,
		}
	}
	return out
}
