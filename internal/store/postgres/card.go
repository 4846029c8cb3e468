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

type CardRepo struct {
	pool *pgxpool.Pool
}

func NewCardRepo(pool *pgxpool.Pool) *CardRepo {
	return &CardRepo{pool: pool}
}

func (r *CardRepo) Create(ctx context.Context, c *domain.Card) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO cards (id, column_id, title, description, "order", created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		c.ID, c.ColumnID, c.Title, c.Description, c.Order, c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("cardRepo.Create: %w", err)
	}

	return nil
}

func (r *CardRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	var c domain.Card

	err := r.pool.QueryRow(ctx,
		`SELECT id, column_id, title, description, "order", created_at FROM cards WHERE id = $1`,
		id,
	).Scan(&c.ID, &c.ColumnID, &c.Title, &c.Description, &c.Order, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("cardRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("cardRepo.GetByID: %w", err)
	}

	return &c, nil
}

func (r *CardRepo) ListByColumn(ctx context.Context, columnID uuid.UUID) ([]*domain.Card, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, column_id, title, description, "order", created_at FROM cards
		 WHERE column_id = $1
		 ORDER BY "order", created_at`,
		columnID,
	)
	if err != nil {
		return nil, fmt.Errorf("cardRepo.ListByColumn: %w", err)
	}
	defer rows.Close()

	return scanCards(rows, "cardRepo.ListByColumn")
}

func (r *CardRepo) CountByColumn(ctx context.Context, columnID uuid.UUID) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM cards WHERE column_id = $1`, columnID).Scan(&n); err != nil {
		return 0, fmt.Errorf("cardRepo.CountByColumn: %w", err)
	}
	return n, nil
}

func (r *CardRepo) Update(ctx context.Context, c *domain.Card) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE cards SET title = $1, description = $2 WHERE id = $3`,
		c.Title, c.Description, c.ID,
	)
	if err != nil {
		return fmt.Errorf("cardRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("cardRepo.Update: %w", domain.ErrNotFound)
	}

	return nil
}

// upsertOrderSQL only touches rows that still exist, so a stale working list
// cannot bring back a card another client deleted.
const upsertOrderSQL = `UPDATE cards SET
    column_id = $2,
    title = $3,
    description = $4,
    "order" = $5
 WHERE id = $1`

// UpsertOrder writes every row in one transaction. Rows are matched by id;
// ids no longer in the table are skipped.
func (r *CardRepo) UpsertOrder(ctx context.Context, orders []domain.CardOrder) error {
	if len(orders) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, o := range orders {
		batch.Queue(upsertOrderSQL, o.ID, o.ColumnID, o.Title, o.Description, o.Order)
	}

	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		return tx.SendBatch(ctx, batch).Close()
	})
	if err != nil {
		return fmt.Errorf("cardRepo.UpsertOrder: %w", err)
	}

	return nil
}

func (r *CardRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM cards WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("cardRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("cardRepo.Delete: %w", domain.ErrNotFound)
	}

	return nil
}

func scanCards(rows pgx.Rows, caller string) ([]*domain.Card, error) {
	var cards []*domain.Card
	for rows.Next() {
		var c domain.Card
		if err := rows.Scan(&c.ID, &c.ColumnID, &c.Title, &c.Description, &c.Order, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", caller, err)
		}
		cards = append(cards, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", caller, err)
	}

	return cards, nil
}
