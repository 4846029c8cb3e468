package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Card struct {
	ID          uuid.UUID `json:"id"`
	ColumnID    uuid.UUID `json:"column_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Order       int       `json:"order"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewCard validates the title and returns a card placed at order within
// columnID. Callers derive order from the number of cards already in the
// column.
func NewCard(columnID uuid.UUID, title, description string, order int) (*Card, error) {
	if err := checkTitle("card", title, MinCardTitle); err != nil {
		return nil, err
	}
	return &Card{
		ID:          uuid.New(),
		ColumnID:    columnID,
		Title:       title,
		Description: description,
		Order:       order,
		CreatedAt:   time.Now(),
	}, nil
}

// CardOrder is one row of a batch reorder upsert.
type CardOrder struct {
	ID          uuid.UUID `json:"id"`
	ColumnID    uuid.UUID `json:"column_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Order       int       `json:"order"`
}

// OrderFromList assigns each card its index in cards as the persisted order.
func OrderFromList(cards []Card) []CardOrder {
	out := make([]CardOrder, len(cards))
	for i, c := range cards {
		out[i] = CardOrder{
			ID:          c.ID,
			ColumnID:    c.ColumnID,
			Title:       c.Title,
			Description: c.Description,
			Order:       i,
		}
	}
	return out
}

type CardRepository interface {
	Create(ctx context.Context, c *Card) error
	GetByID(ctx context.Context, id uuid.UUID) (*Card, error)
	ListByColumn(ctx context.Context, columnID uuid.UUID) ([]*Card, error)
	CountByColumn(ctx context.Context, columnID uuid.UUID) (int, error)
	Update(ctx context.Context, c *Card) error
	UpsertOrder(ctx context.Context, orders []CardOrder) error
	Delete(ctx context.Context, id uuid.UUID) error
}
