// Package board implements the board, list and card repository using PostgreSQL.
// Every read and write is scoped to an organization: lists and cards are
// reached through their owning board's org_id.
package board

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	postgres "github.com/heartmarshall/taskboard-backend/internal/adapter/postgres"
	"github.com/heartmarshall/taskboard-backend/internal/domain"
)

const (
	boardsTable = "boards"
	listsTable  = "lists"
	cardsTable  = "cards"
)

var (
	boardColumns = []string{
		"id", "org_id", "title", "image_id", "image_thumb_url", "image_full_url",
		"image_link_html", "image_user_name", "created_at", "updated_at",
	}
	listColumns = []string{"l.id", "l.board_id", "l.title", `l."order"`, "l.created_at", "l.updated_at"}
	cardColumns = []string{"c.id", "c.list_id", "c.title", "c.description", `c."order"`, "c.created_at", "c.updated_at"}
)

// Repo provides board, list and card persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new board repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

func (r *Repo) q(ctx context.Context) postgres.Querier {
	return postgres.QuerierFromCtx(ctx, r.db)
}

// ---------------------------------------------------------------------------
// Boards
// ---------------------------------------------------------------------------

// CreateBoard inserts a board and returns the persisted row.
func (r *Repo) CreateBoard(ctx context.Context, b domain.Board) (domain.Board, error) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}

	query, args, err := postgres.Builder().
		Insert(boardsTable).
		Columns("id", "org_id", "title", "image_id", "image_thumb_url", "image_full_url", "image_link_html", "image_user_name").
		Values(b.ID, b.OrgID, b.Title, b.ImageID, b.ImageThumbURL, b.ImageFullURL, b.ImageLinkHTML, b.ImageUserName).
		Suffix("RETURNING " + joinColumns(boardColumns)).
		ToSql()
	if err != nil {
		return domain.Board{}, fmt.Errorf("build create board: %w", err)
	}

	got, err := scanBoard(r.q(ctx).QueryRow(ctx, query, args...))
	if err != nil {
		return domain.Board{}, postgres.MapError(err, "board", b.ID)
	}
	return got, nil
}

// GetBoard returns a board of the organization.
func (r *Repo) GetBoard(ctx context.Context, orgID string, id uuid.UUID) (domain.Board, error) {
	query, args, err := postgres.Builder().
		Select(boardColumns...).
		From(boardsTable).
		Where(sq.Eq{"id": id, "org_id": orgID}).
		ToSql()
	if err != nil {
		return domain.Board{}, fmt.Errorf("build get board: %w", err)
	}

	b, err := scanBoard(r.q(ctx).QueryRow(ctx, query, args...))
	if err != nil {
		return domain.Board{}, postgres.MapError(err, "board", id)
	}
	return b, nil
}

// ListBoards returns the organization's boards, newest first.
func (r *Repo) ListBoards(ctx context.Context, orgID string) ([]domain.Board, error) {
	query, args, err := postgres.Builder().
		Select(boardColumns...).
		From(boardsTable).
		Where(sq.Eq{"org_id": orgID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list boards: %w", err)
	}

	rows, err := r.q(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list boards: %w", err)
	}
	defer rows.Close()

	boards := make([]domain.Board, 0)
	for rows.Next() {
		b, err := scanBoard(rows)
		if err != nil {
			return nil, fmt.Errorf("scan board: %w", err)
		}
		boards = append(boards, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list boards rows: %w", err)
	}
	return boards, nil
}

// UpdateBoardTitle renames a board of the organization.
func (r *Repo) UpdateBoardTitle(ctx context.Context, orgID string, id uuid.UUID, title string) (domain.Board, error) {
	query, args, err := postgres.Builder().
		Update(boardsTable).
		Set("title", title).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id, "org_id": orgID}).
		Suffix("RETURNING " + joinColumns(boardColumns)).
		ToSql()
	if err != nil {
		return domain.Board{}, fmt.Errorf("build update board: %w", err)
	}

	b, err := scanBoard(r.q(ctx).QueryRow(ctx, query, args...))
	if err != nil {
		return domain.Board{}, postgres.MapError(err, "board", id)
	}
	return b, nil
}

// DeleteBoard removes a board (and, by cascade, its lists and cards) and
// returns the deleted row.
func (r *Repo) DeleteBoard(ctx context.Context, orgID string, id uuid.UUID) (domain.Board, error) {
	query, args, err := postgres.Builder().
		Delete(boardsTable).
		Where(sq.Eq{"id": id, "org_id": orgID}).
		Suffix("RETURNING " + joinColumns(boardColumns)).
		ToSql()
	if err != nil {
		return domain.Board{}, fmt.Errorf("build delete board: %w", err)
	}

	b, err := scanBoard(r.q(ctx).QueryRow(ctx, query, args...))
	if err != nil {
		return domain.Board{}, postgres.MapError(err, "board", id)
	}
	return b, nil
}

// CountBoards returns how many boards the organization owns.
func (r *Repo) CountBoards(ctx context.Context, orgID string) (int, error) {
	query, args, err := postgres.Builder().
		Select("count(*)").
		From(boardsTable).
		Where(sq.Eq{"org_id": orgID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count boards: %w", err)
	}

	var n int
	if err := r.q(ctx).QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, postgres.MapError(err, "org", orgID)
	}
	return n, nil
}

// CountBoardsByOrg returns the number of boards of every organization that
// owns at least one board.
func (r *Repo) CountBoardsByOrg(ctx context.Context) (map[string]int, error) {
	query, args, err := postgres.Builder().
		Select("org_id", "count(*)").
		From(boardsTable).
		GroupBy("org_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build count boards by org: %w", err)
	}

	rows, err := r.q(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("count boards by org: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			orgID string
			n     int
		)
		if err := rows.Scan(&orgID, &n); err != nil {
			return nil, fmt.Errorf("scan board count: %w", err)
		}
		counts[orgID] = n
	}
	return counts, rows.Err()
}

// ---------------------------------------------------------------------------
// Lists
// ---------------------------------------------------------------------------

func listsOfOrg(orgID string) sq.SelectBuilder {
	return postgres.Builder().
		Select(listColumns...).
		From(listsTable + " l").
		Join(boardsTable + " b ON b.id = l.board_id").
		Where(sq.Eq{"b.org_id": orgID})
}

// GetList returns a list that belongs to the given board of the organization.
func (r *Repo) GetList(ctx context.Context, orgID string, boardID, id uuid.UUID) (domain.List, error) {
	query, args, err := listsOfOrg(orgID).
		Where(sq.Eq{"l.id": id, "l.board_id": boardID}).
		ToSql()
	if err != nil {
		return domain.List{}, fmt.Errorf("build get list: %w", err)
	}

	l, err := scanList(r.q(ctx).QueryRow(ctx, query, args...))
	if err != nil {
		return domain.List{}, postgres.MapError(err, "list", id)
	}
	return l, nil
}

// ListsByBoardIDs returns the lists of the given boards ordered by board and position.
func (r *Repo) ListsByBoardIDs(ctx context.Context, boardIDs []uuid.UUID) ([]domain.List, error) {
	if len(boardIDs) == 0 {
		return []domain.List{}, nil
	}

	query, args, err := postgres.Builder().
		Select(listColumns...).
		From(listsTable + " l").
		Where(sq.Eq{"l.board_id": boardIDs}).
		OrderBy("l.board_id", `l."order" ASC`).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build lists by board ids: %w", err)
	}

	rows, err := r.q(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("lists by board ids: %w", err)
	}
	defer rows.Close()

	lists := make([]domain.List, 0)
	for rows.Next() {
		l, err := scanList(rows)
		if err != nil {
			return nil, fmt.Errorf("scan list: %w", err)
		}
		lists = append(lists, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("lists rows: %w", err)
	}
	return lists, nil
}

// LastListOrder returns the highest list position on a board, 0 when empty.
func (r *Repo) LastListOrder(ctx context.Context, boardID uuid.UUID) (int, error) {
	query, args, err := postgres.Builder().
		Select(`COALESCE(MAX("order"), 0)`).
		From(listsTable).
		Where(sq.Eq{"board_id": boardID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build last list order: %w", err)
	}

	var order int
	if err := r.q(ctx).QueryRow(ctx, query, args...).Scan(&order); err != nil {
		return 0, postgres.MapError(err, "board", boardID)
	}
	return order, nil
}

// CreateList inserts a list.
func (r *Repo) CreateList(ctx context.Context, l domain.List) (domain.List, error) {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}

	query, args, err := postgres.Builder().
		Insert(listsTable).
		Columns("id", "board_id", "title", `"order"`).
		Values(l.ID, l.BoardID, l.Title, l.Order).
		Suffix(`RETURNING id, board_id, title, "order", created_at, updated_at`).
		ToSql()
	if err != nil {
		return domain.List{}, fmt.Errorf("build create list: %w", err)
	}

	got, err := scanList(r.q(ctx).QueryRow(ctx, query, args...))
	if err != nil {
		return domain.List{}, postgres.MapError(err, "list", l.ID)
	}
	return got, nil
}

// UpdateListTitle renames a list of the organization's board.
func (r *Repo) UpdateListTitle(ctx context.Context, orgID string, boardID, id uuid.UUID, title string) (domain.List, error) {
	query, args, err := postgres.Builder().
		Update(listsTable+" l").
		Set("title", title).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"l.id": id, "l.board_id": boardID}).
		Where(sq.Expr("EXISTS (SELECT 1 FROM boards b WHERE b.id = l.board_id AND b.org_id = ?)", orgID)).
		Suffix(`RETURNING l.id, l.board_id, l.title, l."order", l.created_at, l.updated_at`).
		ToSql()
	if err != nil {
		return domain.List{}, fmt.Errorf("build update list: %w", err)
	}

	l, err := scanList(r.q(ctx).QueryRow(ctx, query, args...))
	if err != nil {
		return domain.List{}, postgres.MapError(err, "list", id)
	}
	return l, nil
}

// DeleteList removes a list (and its cards) and returns the deleted row.
func (r *Repo) DeleteList(ctx context.Context, orgID string, boardID, id uuid.UUID) (domain.List, error) {
	query, args, err := postgres.Builder().
		Delete(listsTable+" l").
		Where(sq.Eq{"l.id": id, "l.board_id": boardID}).
		Where(sq.Expr("EXISTS (SELECT 1 FROM boards b WHERE b.id = l.board_id AND b.org_id = ?)", orgID)).
		Suffix(`RETURNING l.id, l.board_id, l.title, l."order", l.created_at, l.updated_at`).
		ToSql()
	if err != nil {
		return domain.List{}, fmt.Errorf("build delete list: %w", err)
	}

	l, err := scanList(r.q(ctx).QueryRow(ctx, query, args...))
	if err != nil {
		return domain.List{}, postgres.MapError(err, "list", id)
	}
	return l, nil
}

// UpdateListOrders persists the given positions of lists on a board in one batch.
// Lists not on the organization's board are left untouched.
func (r *Repo) UpdateListOrders(ctx context.Context, orgID string, boardID uuid.UUID, items []domain.ItemOrder) ([]domain.List, error) {
	if len(items) == 0 {
		return []domain.List{}, nil
	}

	batch := &pgx.Batch{}
	for _, it := range items {
		query, args, err := postgres.Builder().
			Update(listsTable+" l").
			Set(`"order"`, it.Order).
			Set("updated_at", sq.Expr("now()")).
			Where(sq.Eq{"l.id": it.ID, "l.board_id": boardID}).
			Where(sq.Expr("EXISTS (SELECT 1 FROM boards b WHERE b.id = l.board_id AND b.org_id = ?)", orgID)).
			Suffix(`RETURNING l.id, l.board_id, l.title, l."order", l.created_at, l.updated_at`).
			ToSql()
		if err != nil {
			return nil, fmt.Errorf("build update list order: %w", err)
		}
		batch.Queue(query, args...)
	}

	br := r.q(ctx).SendBatch(ctx, batch)
	defer br.Close()

	lists := make([]domain.List, 0, len(items))
	for _, it := range items {
		l, err := scanList(br.QueryRow())
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				continue
			}
			return nil, postgres.MapError(err, "list", it.ID)
		}
		lists = append(lists, l)
	}
	return lists, nil
}

// ---------------------------------------------------------------------------
// Cards
// ---------------------------------------------------------------------------

// GetCard returns a card whose list belongs to the organization.
func (r *Repo) GetCard(ctx context.Context, orgID string, id uuid.UUID) (domain.Card, error) {
	query, args, err := postgres.Builder().
		Select(cardColumns...).
		From(cardsTable + " c").
		Join(listsTable + " l ON l.id = c.list_id").
		Join(boardsTable + " b ON b.id = l.board_id").
		Where(sq.Eq{"c.id": id, "b.org_id": orgID}).
		ToSql()
	if err != nil {
		return domain.Card{}, fmt.Errorf("build get card: %w", err)
	}

	c, err := scanCard(r.q(ctx).QueryRow(ctx, query, args...))
	if err != nil {
		return domain.Card{}, postgres.MapError(err, "card", id)
	}
	return c, nil
}

// CardsByListIDs returns the cards of the given lists ordered by list and position.
func (r *Repo) CardsByListIDs(ctx context.Context, listIDs []uuid.UUID) ([]domain.Card, error) {
	if len(listIDs) == 0 {
		return []domain.Card{}, nil
	}

	query, args, err := postgres.Builder().
		Select(cardColumns...).
		From(cardsTable + " c").
		Where(sq.Eq{"c.list_id": listIDs}).
		OrderBy("c.list_id", `c."order" ASC`).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build cards by list ids: %w", err)
	}

	rows, err := r.q(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("cards by list ids: %w", err)
	}
	defer rows.Close()

	cards := make([]domain.Card, 0)
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("scan card: %w", err)
		}
		cards = append(cards, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("cards rows: %w", err)
	}
	return cards, nil
}

// LastCardOrder returns the highest card position in a list, 0 when empty.
func (r *Repo) LastCardOrder(ctx context.Context, listID uuid.UUID) (int, error) {
	query, args, err := postgres.Builder().
		Select(`COALESCE(MAX("order"), 0)`).
		From(cardsTable).
		Where(sq.Eq{"list_id": listID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build last card order: %w", err)
	}

	var order int
	if err := r.q(ctx).QueryRow(ctx, query, args...).Scan(&order); err != nil {
		return 0, postgres.MapError(err, "list", listID)
	}
	return order, nil
}

// CreateCard inserts a card.
func (r *Repo) CreateCard(ctx context.Context, c domain.Card) (domain.Card, error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}

	query, args, err := postgres.Builder().
		Insert(cardsTable).
		Columns("id", "list_id", "title", "description", `"order"`).
		Values(c.ID, c.ListID, c.Title, c.Description, c.Order).
		Suffix(`RETURNING id, list_id, title, description, "order", created_at, updated_at`).
		ToSql()
	if err != nil {
		return domain.Card{}, fmt.Errorf("build create card: %w", err)
	}

	got, err := scanCard(r.q(ctx).QueryRow(ctx, query, args...))
	if err != nil {
		return domain.Card{}, postgres.MapError(err, "card", c.ID)
	}
	return got, nil
}

// UpdateCard applies the non-nil fields of params to a card of the organization.
func (r *Repo) UpdateCard(ctx context.Context, orgID string, id uuid.UUID, params domain.CardUpdateParams) (domain.Card, error) {
	b := postgres.Builder().
		Update(cardsTable+" c").
		Set("updated_at", sq.Expr("now()"))
	if params.Title != nil {
		b = b.Set("title", *params.Title)
	}
	if params.Description != nil {
		b = b.Set("description", *params.Description)
	}

	query, args, err := b.
		Where(sq.Eq{"c.id": id}).
		Where(sq.Expr("EXISTS (SELECT 1 FROM lists l JOIN boards b ON b.id = l.board_id WHERE l.id = c.list_id AND b.org_id = ?)", orgID)).
		Suffix(`RETURNING c.id, c.list_id, c.title, c.description, c."order", c.created_at, c.updated_at`).
		ToSql()
	if err != nil {
		return domain.Card{}, fmt.Errorf("build update card: %w", err)
	}

	c, err := scanCard(r.q(ctx).QueryRow(ctx, query, args...))
	if err != nil {
		return domain.Card{}, postgres.MapError(err, "card", id)
	}
	return c, nil
}

// DeleteCard removes a card of the organization and returns the deleted row.
func (r *Repo) DeleteCard(ctx context.Context, orgID string, id uuid.UUID) (domain.Card, error) {
	query, args, err := postgres.Builder().
		Delete(cardsTable+" c").
		Where(sq.Eq{"c.id": id}).
		Where(sq.Expr("EXISTS (SELECT 1 FROM lists l JOIN boards b ON b.id = l.board_id WHERE l.id = c.list_id AND b.org_id = ?)", orgID)).
		Suffix(`RETURNING c.id, c.list_id, c.title, c.description, c."order", c.created_at, c.updated_at`).
		ToSql()
	if err != nil {
		return domain.Card{}, fmt.Errorf("build delete card: %w", err)
	}

	c, err := scanCard(r.q(ctx).QueryRow(ctx, query, args...))
	if err != nil {
		return domain.Card{}, postgres.MapError(err, "card", id)
	}
	return c, nil
}

// UpdateCardPositions moves cards to the given list and position in one batch.
// Both the card and its target list must belong to the organization;
// positions that do not are skipped.
func (r *Repo) UpdateCardPositions(ctx context.Context, orgID string, items []domain.CardPosition) ([]domain.Card, error) {
	if len(items) == 0 {
		return []domain.Card{}, nil
	}

	const ownedList = "SELECT 1 FROM lists l JOIN boards b ON b.id = l.board_id WHERE l.id = %s AND b.org_id = ?"

	batch := &pgx.Batch{}
	for _, it := range items {
		query, args, err := postgres.Builder().
			Update(cardsTable+" c").
			Set(`"order"`, it.Order).
			Set("list_id", it.ListID).
			Set("updated_at", sq.Expr("now()")).
			Where(sq.Eq{"c.id": it.ID}).
			Where(sq.Expr("EXISTS ("+fmt.Sprintf(ownedList, "c.list_id")+")", orgID)).
			Where(sq.Expr("EXISTS ("+fmt.Sprintf(ownedList, "?")+")", it.ListID, orgID)).
			Suffix(`RETURNING c.id, c.list_id, c.title, c.description, c."order", c.created_at, c.updated_at`).
			ToSql()
		if err != nil {
			return nil, fmt.Errorf("build update card position: %w", err)
		}
		batch.Queue(query, args...)
	}

	br := r.q(ctx).SendBatch(ctx, batch)
	defer br.Close()

	cards := make([]domain.Card, 0, len(items))
	for _, it := range items {
		c, err := scanCard(br.QueryRow())
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				continue
			}
			return nil, postgres.MapError(err, "card", it.ID)
		}
		cards = append(cards, c)
	}
	return cards, nil
}

// ---------------------------------------------------------------------------
// Scanning
// ---------------------------------------------------------------------------

func scanBoard(row pgx.Row) (domain.Board, error) {
	var b domain.Board
	err := row.Scan(
		&b.ID, &b.OrgID, &b.Title, &b.ImageID, &b.ImageThumbURL, &b.ImageFullURL,
		&b.ImageLinkHTML, &b.ImageUserName, &b.CreatedAt, &b.UpdatedAt,
	)
	b.CreatedAt = utc(b.CreatedAt)
	b.UpdatedAt = utc(b.UpdatedAt)
	return b, err
}

func scanList(row pgx.Row) (domain.List, error) {
	var l domain.List
	err := row.Scan(&l.ID, &l.BoardID, &l.Title, &l.Order, &l.CreatedAt, &l.UpdatedAt)
	l.CreatedAt = utc(l.CreatedAt)
	l.UpdatedAt = utc(l.UpdatedAt)
	return l, err
}

func scanCard(row pgx.Row) (domain.Card, error) {
	var c domain.Card
	err := row.Scan(&c.ID, &c.ListID, &c.Title, &c.Description, &c.Order, &c.CreatedAt, &c.UpdatedAt)
	c.CreatedAt = utc(c.CreatedAt)
	c.UpdatedAt = utc(c.UpdatedAt)
	return c, err
}

func utc(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

func joinColumns(cols []string) string {
	return strings.Join(cols, ", ")
}
