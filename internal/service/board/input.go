package board

import (
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/taskboard-backend/internal/action/schema"
)

// Validation messages shared by several schemas.
const (
	msgTitleRequired = "Title is required"
	msgTitleShort    = "Title is too short"
	msgImageRequired = "Image is required"
	msgDescRequired  = "Description is required"
	msgDescShort     = "Description is too short"
	msgItemsRequired = "Items are required"

	minTitleLen = 3
	maxTitleLen = 255
	maxDescLen  = 10000
	maxItems    = 500
)

// imageParts is the number of "|"-separated parts of a board image descriptor:
// id, thumb URL, full URL, attribution link HTML and author name.
const imageParts = 5

// ---------------------------------------------------------------------------
// Boards
// ---------------------------------------------------------------------------

// CreateBoardInput creates a board with a stock image.
type CreateBoardInput struct {
	Title string `json:"title"`
	Image string `json:"image"`
}

// UpdateBoardInput renames a board.
type UpdateBoardInput struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title"`
}

// DeleteBoardInput deletes a board with its lists and cards.
type DeleteBoardInput struct {
	ID uuid.UUID `json:"id"`
}

// ---------------------------------------------------------------------------
// Lists
// ---------------------------------------------------------------------------

// CreateListInput appends a list to a board.
type CreateListInput struct {
	BoardID uuid.UUID `json:"boardId"`
	Title   string    `json:"title"`
}

// UpdateListInput renames a list.
type UpdateListInput struct {
	ID      uuid.UUID `json:"id"`
	BoardID uuid.UUID `json:"boardId"`
	Title   string    `json:"title"`
}

// ListRef points at one list of a board.
type ListRef struct {
	ID      uuid.UUID `json:"id"`
	BoardID uuid.UUID `json:"boardId"`
}

// ListOrderItem is one list of a reorder request.
type ListOrderItem struct {
	ID    uuid.UUID `json:"id"`
	Order int       `json:"order"`
}

// UpdateListOrderInput persists an already computed list order.
type UpdateListOrderInput struct {
	BoardID uuid.UUID       `json:"boardId"`
	Items   []ListOrderItem `json:"items"`
}

// ---------------------------------------------------------------------------
// Cards
// ---------------------------------------------------------------------------

// CreateCardInput appends a card to a list.
type CreateCardInput struct {
	BoardID uuid.UUID `json:"boardId"`
	ListID  uuid.UUID `json:"listId"`
	Title   string    `json:"title"`
}

// UpdateCardInput changes a card's title and/or description.
// nil means "don't change".
type UpdateCardInput struct {
	ID          uuid.UUID `json:"id"`
	BoardID     uuid.UUID `json:"boardId"`
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
}

// CardRef points at one card of a board.
type CardRef struct {
	ID      uuid.UUID `json:"id"`
	BoardID uuid.UUID `json:"boardId"`
}

// CardOrderItem places a card at an order inside a list.
type CardOrderItem struct {
	ID     uuid.UUID `json:"id"`
	ListID uuid.UUID `json:"listId"`
	Order  int       `json:"order"`
}

// UpdateCardOrderInput persists an already computed card order, possibly
// moving cards between lists of the same board.
type UpdateCardOrderInput struct {
	BoardID uuid.UUID       `json:"boardId"`
	Items   []CardOrderItem `json:"items"`
}

// ---------------------------------------------------------------------------
// Schemas
// ---------------------------------------------------------------------------

func titleField[T any](set func(*T, string)) *schema.StringField[T] {
	return schema.String("title", set).
		Required(msgTitleRequired).
		TypeError(msgTitleRequired).
		NotEmpty().
		MinLen(minTitleLen, msgTitleShort).
		MaxLen(maxTitleLen, "Title is too long")
}

var (
	createBoardSchema = schema.Object[CreateBoardInput](
		titleField(func(in *CreateBoardInput, v string) { in.Title = v }),
		schema.String("image", func(in *CreateBoardInput, v string) { in.Image = v }).
			Required(msgImageRequired).
			TypeError(msgImageRequired).
			NotEmpty(),
	)

	updateBoardSchema = schema.Object[UpdateBoardInput](
		schema.UUID("id", func(in *UpdateBoardInput, v uuid.UUID) { in.ID = v }),
		titleField(func(in *UpdateBoardInput, v string) { in.Title = v }),
	)

	deleteBoardSchema = schema.Object[DeleteBoardInput](
		schema.UUID("id", func(in *DeleteBoardInput, v uuid.UUID) { in.ID = v }),
	)

	createListSchema = schema.Object[CreateListInput](
		schema.UUID("boardId", func(in *CreateListInput, v uuid.UUID) { in.BoardID = v }),
		titleField(func(in *CreateListInput, v string) { in.Title = v }),
	)

	updateListSchema = schema.Object[UpdateListInput](
		schema.UUID("id", func(in *UpdateListInput, v uuid.UUID) { in.ID = v }),
		schema.UUID("boardId", func(in *UpdateListInput, v uuid.UUID) { in.BoardID = v }),
		titleField(func(in *UpdateListInput, v string) { in.Title = v }),
	)

	listRefSchema = schema.Object[ListRef](
		schema.UUID("id", func(in *ListRef, v uuid.UUID) { in.ID = v }),
		schema.UUID("boardId", func(in *ListRef, v uuid.UUID) { in.BoardID = v }),
	)

	listOrderItemSchema = schema.Object[ListOrderItem](
		schema.UUID("id", func(in *ListOrderItem, v uuid.UUID) { in.ID = v }),
		schema.Int("order", func(in *ListOrderItem, v int) { in.Order = v }).Min(0, "Order must not be negative"),
	)

	updateListOrderSchema = schema.Object[UpdateListOrderInput](
		schema.UUID("boardId", func(in *UpdateListOrderInput, v uuid.UUID) { in.BoardID = v }),
		schema.Slice("items", listOrderItemSchema, func(in *UpdateListOrderInput, v []ListOrderItem) { in.Items = v }).
			Required(msgItemsRequired).
			MinItems(1, msgItemsRequired).
			MaxItems(maxItems, "Too many items"),
	).Refine("items", func(in UpdateListOrderInput) bool {
		return uniqueIDs(in.Items, func(it ListOrderItem) uuid.UUID { return it.ID })
	}, "Items must not repeat")

	createCardSchema = schema.Object[CreateCardInput](
		schema.UUID("boardId", func(in *CreateCardInput, v uuid.UUID) { in.BoardID = v }),
		schema.UUID("listId", func(in *CreateCardInput, v uuid.UUID) { in.ListID = v }),
		titleField(func(in *CreateCardInput, v string) { in.Title = v }),
	)

	updateCardSchema = schema.Object[UpdateCardInput](
		schema.UUID("id", func(in *UpdateCardInput, v uuid.UUID) { in.ID = v }),
		schema.UUID("boardId", func(in *UpdateCardInput, v uuid.UUID) { in.BoardID = v }),
		schema.OptionalString("title", func(in *UpdateCardInput, v *string) { in.Title = v }).
			TypeError(msgTitleRequired).
			MinLen(minTitleLen, msgTitleShort).
			MaxLen(maxTitleLen, "Title is too long"),
		schema.OptionalString("description", func(in *UpdateCardInput, v *string) { in.Description = v }).
			TypeError(msgDescRequired).
			MinLen(minTitleLen, msgDescShort).
			MaxLen(maxDescLen, "Description is too long"),
	)

	cardRefSchema = schema.Object[CardRef](
		schema.UUID("id", func(in *CardRef, v uuid.UUID) { in.ID = v }),
		schema.UUID("boardId", func(in *CardRef, v uuid.UUID) { in.BoardID = v }),
	)

	cardOrderItemSchema = schema.Object[CardOrderItem](
		schema.UUID("id", func(in *CardOrderItem, v uuid.UUID) { in.ID = v }),
		schema.UUID("listId", func(in *CardOrderItem, v uuid.UUID) { in.ListID = v }),
		schema.Int("order", func(in *CardOrderItem, v int) { in.Order = v }).Min(0, "Order must not be negative"),
	)

	updateCardOrderSchema = schema.Object[UpdateCardOrderInput](
		schema.UUID("boardId", func(in *UpdateCardOrderInput, v uuid.UUID) { in.BoardID = v }),
		schema.Slice("items", cardOrderItemSchema, func(in *UpdateCardOrderInput, v []CardOrderItem) { in.Items = v }).
			Required(msgItemsRequired).
			MinItems(1, msgItemsRequired).
			MaxItems(maxItems, "Too many items"),
	).Refine("items", func(in UpdateCardOrderInput) bool {
		return uniqueIDs(in.Items, func(it CardOrderItem) uuid.UUID { return it.ID })
	}, "Items must not repeat")
)

func uniqueIDs[E any](items []E, id func(E) uuid.UUID) bool {
	seen := make(map[uuid.UUID]struct{}, len(items))
	for _, it := range items {
		if _, dup := seen[id(it)]; dup {
			return false
		}
		seen[id(it)] = struct{}{}
	}
	return true
}

// boardImage is a parsed "id|thumbUrl|fullUrl|linkHtml|userName" descriptor.
type boardImage struct {
	ID, ThumbURL, FullURL, LinkHTML, UserName string
}

func parseBoardImage(s string) (boardImage, bool) {
	parts := strings.Split(s, "|")
	if len(parts) != imageParts {
		return boardImage{}, false
	}
	for _, p := range parts {
		if strings.TrimSpace(p) == "" {
			return boardImage{}, false
		}
	}
	return boardImage{
		ID:       parts[0],
		ThumbURL: parts[1],
		FullURL:  parts[2],
		LinkHTML: parts[3],
		UserName: parts[4],
	}, true
}
