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

type ColumnRepo struct {
	pool *pgxpool.Pool
}

func NewColumnRepo(pool *pgxpool.Pool) *ColumnRepo {
	return &ColumnRepo{pool: pool}
}

func (r *ColumnRepo) Create(ctx context.Context, c *domain.Column) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO columns (id, board_id, title, created_at) VALUES ($1, $2, $3, $4)`,
		c.ID, c.BoardID, c.Title, c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("columnRepo.Create: %w", err)
	}

	return nil
}

func (r *ColumnRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Column, error) {
	var c domain.Column

	err := r.pool.QueryRow(ctx,
		`SELECT id, board_id, title, created_at FROM columns WHERE id = $1`,
		id,
	).Scan(&c.ID, &c.BoardID, &c.Title, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("columnRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("columnRepo.GetByID: %w", err)
	}

	return &c, nil
}

func (r *ColumnRepo) ListByBoard(ctx context.Context, boardID uuid.UUID) ([]*domain.Column, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, board_id, title, created_at FROM columns
		 WHERE board_id = $1
		 ORDER BY created_at, id`,
		boardID,
	)
	if err != nil {
		return nil, fmt.Errorf("columnRepo.ListByBoard: %w", err)
	}
	defer rows.Close()

	return scanColumns(rows, "columnRepo.ListByBoard")
}

func (r *ColumnRepo) Update(ctx context.Context, c *domain.Column) error {
	tag, err := r.pool.Exec(ctx, `UPDATE columns SET title = $1 WHERE id = $2`, c.Title, c.ID)
	if err != nil {
		return fmt.Errorf("columnRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("columnRepo.Update: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *ColumnRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM columns WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("columnRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("columnRepo.Delete: %w", domain.ErrNotFound)
	}

	return nil
}

func scanColumns(rows pgx.Rows, caller string) ([]*domain.Column, error) {
	var columns []*domain.Column
	for rows.Next() {
		var c domain.Column
		if err := rows.Scan(&c.ID, &c.BoardID, &c.Title, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", caller, err)
		}
		columns = append(columns, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", caller, err)
	}

	return columns, nil
}
