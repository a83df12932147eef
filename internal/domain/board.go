package domain

import (
	"time"

	"github.com/google/uuid"
)

// Board is the top-level container of lists, owned by an organization.
type Board struct {
	ID            uuid.UUID
	OrgID         string
	Title         string
	ImageID       string
	ImageThumbURL string
	ImageFullURL  string
	ImageLinkHTML string
	ImageUserName string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// List is an ordered column on a board.
type List struct {
	ID        uuid.UUID
	BoardID   uuid.UUID
	Title     string
	Order     int
	CreatedAt time.Time
	UpdatedAt time.Time
	Cards     []Card // populated by read paths only
}

// Card is an ordered item inside a list.
type Card struct {
	ID          uuid.UUID
	ListID      uuid.UUID
	Title       string
	Description *string
	Order       int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CardUpdateParams holds the optional fields of a card update.
// nil means "don't change".
type CardUpdateParams struct {
	Title       *string
	Description *string
}

// ItemOrder is one (id, position) pair of a reorder request.
type ItemOrder struct {
	ID    uuid.UUID
	Order int
}

// CardPosition places a card at an order inside a (possibly different) list.
type CardPosition struct {
	ID     uuid.UUID
	ListID uuid.UUID
	Order  int
}
