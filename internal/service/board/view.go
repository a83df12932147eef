package board

import (
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/taskboard-backend/internal/domain"
)

// Board is the JSON shape of a board returned by actions and read paths.
type Board struct {
	ID            uuid.UUID `json:"id"`
	OrgID         string    `json:"orgId"`
	Title         string    `json:"title"`
	ImageID       string    `json:"imageId"`
	ImageThumbURL string    `json:"imageThumbUrl"`
	ImageFullURL  string    `json:"imageFullUrl"`
	ImageLinkHTML string    `json:"imageLinkHTML"`
	ImageUserName string    `json:"imageUserName"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
	Lists         []List    `json:"lists,omitempty"`
}

// List is the JSON shape of a list.
type List struct {
	ID        uuid.UUID `json:"id"`
	BoardID   uuid.UUID `json:"boardId"`
	Title     string    `json:"title"`
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Cards     []Card    `json:"cards,omitempty"`
}

// Card is the JSON shape of a card.
type Card struct {
	ID          uuid.UUID `json:"id"`
	ListID      uuid.UUID `json:"listId"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Order       int       `json:"order"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ToBoard converts a domain board.
func ToBoard(b domain.Board) Board {
	return Board{
		ID:            b.ID,
		OrgID:         b.OrgID,
		Title:         b.Title,
		ImageID:       b.ImageID,
		ImageThumbURL: b.ImageThumbURL,
		ImageFullURL:  b.ImageFullURL,
		ImageLinkHTML: b.ImageLinkHTML,
		ImageUserName: b.ImageUserName,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

// ToList converts a domain list together with its loaded cards.
func ToList(l domain.List) List {
	out := List{
		ID:        l.ID,
		BoardID:   l.BoardID,
		Title:     l.Title,
		Order:     l.Order,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
	if len(l.Cards) > 0 {
		out.Cards = make([]Card, len(l.Cards))
		for i, c := range l.Cards {
			out.Cards[i] = ToCard(c)
		}
	}
	return out
}

// ToCard converts a domain card.
func ToCard(c domain.Card) Card {
	return Card{
		ID:          c.ID,
		ListID:      c.ListID,
		Title:       c.Title,
		Description: c.Description,
		Order:       c.Order,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func toLists(ls []domain.List) []List {
	out := make([]List, len(ls))
	for i, l := range ls {
		out[i] = ToList(l)
	}
	return out
}

func toCards(cs []domain.Card) []Card {
	out := make([]Card, len(cs))
	for i, c := range cs {
		out[i] = ToCard(c)
	}
	return out
}
