package domain

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Minimum title lengths accepted by the creation dialogs.
const (
	MinBoardTitle  = 2
	MinColumnTitle = 1
	MinCardTitle   = 1
)

type Board struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewBoard validates the title and returns a board ready for insertion.
// An empty description is stored as NULL.
func NewBoard(title, description string) (*Board, error) {
	if err := checkTitle("board", title, MinBoardTitle); err != nil {
		return nil, err
	}
	return &Board{
		ID:          uuid.New(),
		Title:       title,
		Description: optional(description),
		CreatedAt:   time.Now(),
	}, nil
}

// BoardSummary is a board as shown in the list/search view.
type BoardSummary struct {
	Board
	ColumnCount int `json:"column_count"`
	CardCount   int `json:"card_count"`
}

// ColumnWithCards is one column of a snapshot, cards ordered ascending.
type ColumnWithCards struct {
	Column
	Cards []Card `json:"cards"`
}

// BoardSnapshot is the full nested read of one board.
type BoardSnapshot struct {
	Board
	Columns []ColumnWithCards `json:"columns"`
}

// AllCards flattens the snapshot in column order, then card order.
func (s *BoardSnapshot) AllCards() []Card {
	n := 0
	for _, c := range s.Columns {
		n += len(c.Cards)
	}
	cards := make([]Card, 0, n)
	for _, c := range s.Columns {
		cards = append(cards, c.Cards...)
	}
	return cards
}

// HasColumn reports whether columnID belongs to the snapshot's board.
func (s *BoardSnapshot) HasColumn(columnID uuid.UUID) bool {
	for _, c := range s.Columns {
		if c.ID == columnID {
			return true
		}
	}
	return false
}

type BoardRepository interface {
	Create(ctx context.Context, b *Board) error
	GetByID(ctx context.Context, id uuid.UUID) (*Board, error)
	Snapshot(ctx context.Context, id uuid.UUID) (*BoardSnapshot, error)
	Search(ctx context.Context, query string, limit int) ([]*BoardSummary, error)
	Update(ctx context.Context, b *Board) error
	Delete(ctx context.Context, id uuid.UUID) error
}

func checkTitle(kind, title string, minLen int) error {
	if utf8.RuneCountInString(title) < minLen {
		return fmt.Errorf("%s title must be at least %d character(s): %w", kind, minLen, ErrTitleTooShort)
	}
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
