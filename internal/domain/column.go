package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Column struct {
	ID        uuid.UUID `json:"id"`
	BoardID   uuid.UUID `json:"board_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// NewColumn validates the title and returns a column owned by boardID.
func NewColumn(boardID uuid.UUID, title string) (*Column, error) {
	if err := checkTitle("column", title, MinColumnTitle); err != nil {
		return nil, err
	}
	return &Column{
		ID:        uuid.New(),
		BoardID:   boardID,
		Title:     title,
		CreatedAt: time.Now(),
	}, nil
}

type ColumnRepository interface {
	Create(ctx context.Context, c *Column) error
	GetByID(ctx context.Context, id uuid.UUID) (*Column, error)
	ListByBoard(ctx context.Context, boardID uuid.UUID) ([]*Column, error)
	Update(ctx context.Context, c *Column) error
	Delete(ctx context.Context, id uuid.UUID) error
}
