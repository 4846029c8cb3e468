package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gosuda/kanban/internal/domain"
)

type BoardRepo struct {
	pool *pgxpool.Pool
}

func NewBoardRepo(pool *pgxpool.Pool) *BoardRepo {
	return &BoardRepo{pool: pool}
}

func (r *BoardRepo) Create(ctx context.Context, b *domain.Board) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO boards (id, title, description, created_at) VALUES ($1, $2, $3, $4)`,
		b.ID, b.Title, b.Description, b.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("boardRepo.Create: %w", err)
	}

	return nil
}

func (r *BoardRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Board, error) {
	var b domain.Board

	err := r.pool.QueryRow(ctx,
		`SELECT id, title, description, created_at FROM boards WHERE id = $1`,
		id,
	).Scan(&b.ID, &b.Title, &b.Description, &b.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("boardRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("boardRepo.GetByID: %w", err)
	}

	return &b, nil
}

// Snapshot reads the board with its columns and their cards. Columns come in
// creation order; cards in ascending order within each column.
func (r *BoardRepo) Snapshot(ctx context.Context, id uuid.UUID) (*domain.BoardSnapshot, error) {
	board, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("boardRepo.Snapshot: %w", err)
	}

	snap := &domain.BoardSnapshot{Board: *board, Columns: []domain.ColumnWithCards{}}

	colRows, err := r.pool.Query(ctx,
		`SELECT id, board_id, title, created_at FROM columns
		 WHERE board_id = $1
		 ORDER BY created_at, id`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("boardRepo.Snapshot: columns: %w", err)
	}
	columns, err := scanColumns(colRows, "boardRepo.Snapshot")
	colRows.Close()
	if err != nil {
		return nil, err
	}

	index := make(map[uuid.UUID]int, len(columns))
	for i, c := range columns {
		index[c.ID] = i
		snap.Columns = append(snap.Columns, domain.ColumnWithCards{Column: *c, Cards: []domain.Card{}})
	}

	cardRows, err := r.pool.Query(ctx,
		`SELECT k.id, k.column_id, k.title, k.description, k."order", k.created_at
		 FROM cards k JOIN columns c ON c.id = k.column_id
		 WHERE c.board_id = $1
		 ORDER BY k."order", k.created_at`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("boardRepo.Snapshot: cards: %w", err)
	}
	cards, err := scanCards(cardRows, "boardRepo.Snapshot")
	cardRows.Close()
	if err != nil {
		return nil, err
	}

	for _, k := range cards {
		if i, ok := index[k.ColumnID]; ok {
			snap.Columns[i].Cards = append(snap.Columns[i].Cards, *k)
		}
	}

	return snap, nil
}

// Search runs a websearch-syntax full-text query against board titles.
func (r *BoardRepo) Search(ctx context.Context, query string, limit int) ([]*domain.BoardSummary, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT b.id, b.title, b.description, b.created_at,
		        (SELECT count(*) FROM columns c WHERE c.board_id = b.id),
		        (SELECT count(*) FROM cards k JOIN columns c ON c.id = k.column_id WHERE c.board_id = b.id)
		 FROM boards b
		 WHERE to_tsvector('english', b.title) @@ websearch_to_tsquery('english', $1)
		 ORDER BY b.created_at DESC
		 LIMIT $2`,
		query, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("boardRepo.Search: %w", err)
	}
	defer rows.Close()

	var out []*domain.BoardSummary
	for rows.Next() {
		var s domain.BoardSummary
		if err := rows.Scan(&s.ID, &s.Title, &s.Description, &s.CreatedAt, &s.ColumnCount, &s.CardCount); err != nil {
			return nil, fmt.Errorf("boardRepo.Search: scan: %w", err)
		}
		out = append(out, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("boardRepo.Search: rows: %w", err)
	}

	return out, nil
}

func (r *BoardRepo) Update(ctx context.Context, b *domain.Board) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE boards SET title = $1, description = $2 WHERE id = $3`,
		b.Title, b.Description, b.ID,
	)
	if err != nil {
		return fmt.Errorf("boardRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("boardRepo.Update: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *BoardRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM boards WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("boardRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("boardRepo.Delete: %w", domain.ErrNotFound)
	}

	return nil
}
