package postgres

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gosuda/kanban/internal/domain"
)

//go:embed schema.sql
var schemaSQL string

type Store struct {
	pool    *pgxpool.Pool
	boards  *BoardRepo
	columns *ColumnRepo
	cards   *CardRepo
}

func New(ctx context.Context, dsn string, maxConns int32) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: parse config: %w", err)
	}

	cfg.MaxConns = maxConns

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: connect: %w", err)
	}

	err = pool.Ping(ctx)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres.New: ping: %w", err)
	}

	return &Store{
		pool:    pool,
		boards:  NewBoardRepo(pool),
		columns: NewColumnRepo(pool),
		cards:   NewCardRepo(pool),
	}, nil
}

// Migrate creates the boards, columns and cards tables if they are missing.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("postgres.Store.Migrate: %w", err)
	}
	return nil
}

func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) Boards() domain.BoardRepository   { return s.boards }
func (s *Store) Columns() domain.ColumnRepository { return s.columns }
func (s *Store) Cards() domain.CardRepository     { return s.cards }
