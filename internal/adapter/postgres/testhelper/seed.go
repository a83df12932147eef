package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/taskboard-backend/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// NewOrgID returns an organization ID that no other test uses.
func NewOrgID() string {
	return "org_" + uniqueSuffix()
}

// SeedBoard inserts a board for orgID and returns it.
func SeedBoard(t *testing.T, pool *pgxpool.Pool, orgID, title string) domain.Board {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Microsecond)
	b := domain.Board{
		ID:            uuid.New(),
		OrgID:         orgID,
		Title:         title,
		ImageID:       "img-" + uniqueSuffix(),
		ImageThumbURL: "https://images.example.com/thumb.jpg",
		ImageFullURL:  "https://images.example.com/full.jpg",
		ImageLinkHTML: "https://example.com/photo",
		ImageUserName: "Photographer",
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO boards (id, org_id, title, image_id, image_thumb_url, image_full_url,
		                     image_link_html, image_user_name, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		b.ID, b.OrgID, b.Title, b.ImageID, b.ImageThumbURL, b.ImageFullURL,
		b.ImageLinkHTML, b.ImageUserName, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedBoard insert: %v", err)
	}

	return b
}

// SeedList inserts a list at the given position on a board.
func SeedList(t *testing.T, pool *pgxpool.Pool, boardID uuid.UUID, title string, order int) domain.List {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Microsecond)
	l := domain.List{ID: uuid.New(), BoardID: boardID, Title: title, Order: order, CreatedAt: now, UpdatedAt: now}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO lists (id, board_id, title, "order", created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		l.ID, l.BoardID, l.Title, l.Order, l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedList insert: %v", err)
	}

	return l
}

// SeedCard inserts a card at the given position in a list.
func SeedCard(t *testing.T, pool *pgxpool.Pool, listID uuid.UUID, title string, order int) domain.Card {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Microsecond)
	c := domain.Card{ID: uuid.New(), ListID: listID, Title: title, Order: order, CreatedAt: now, UpdatedAt: now}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO cards (id, list_id, title, "order", created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		c.ID, c.ListID, c.Title, c.Order, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedCard insert: %v", err)
	}

	return c
}
