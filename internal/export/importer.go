package export

import (
	"context"
	"fmt"

	"github.com/gosuda/kanban/internal/domain"
)

// Repositories is the store surface the importer writes through.
// *postgres.Store satisfies it.
type Repositories interface {
	Boards() domain.BoardRepository
	Columns() domain.ColumnRepository
	Cards() domain.CardRepository
}

// Import validates every title in doc, then creates the board, its columns in
// document order and each column's cards with order equal to their position.
// Nothing is written when any title is invalid.
func Import(ctx context.Context, repos Repositories, doc *Document) (*domain.Board, error) {
	board, err := domain.NewBoard(doc.Title, doc.Description)
	if err != nil {
		return nil, fmt.Errorf("export.Import: %w", err)
	}

	type plannedColumn struct {
		column *domain.Column
		cards  []*domain.Card
	}
	plan := make([]plannedColumn, 0, len(doc.Columns))

	for _, dc := range doc.Columns {
		col, err := domain.NewColumn(board.ID, dc.Title)
		if err != nil {
			return nil, fmt.Errorf("export.Import: column %q: %w", dc.Title, err)
		}
		pc := plannedColumn{column: col, cards: make([]*domain.Card, 0, len(dc.Cards))}
		for i, card := range dc.Cards {
			c, err := domain.NewCard(col.ID, card.Title, card.Description, i)
			if err != nil {
				return nil, fmt.Errorf("export.Import: column %q card %d: %w", dc.Title, i, err)
			}
			pc.cards = append(pc.cards, c)
		}
		plan = append(plan, pc)
	}

	if err := repos.Boards().Create(ctx, board); err != nil {
		return nil, fmt.Errorf("export.Import: %w", err)
	}
	for _, pc := range plan {
		if err := repos.Columns().Create(ctx, pc.column); err != nil {
			return nil, fmt.Errorf("export.Import: %w", err)
		}
		for _, c := range pc.cards {
			if err := repos.Cards().Create(ctx, c); err != nil {
				return nil, fmt.Errorf("export.Import: %w", err)
			}
		}
	}

	return board, nil
}
