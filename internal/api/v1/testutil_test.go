package v1_test

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/gosuda/kanban/internal/domain"
	"github.com/gosuda/kanban/internal/search"
)

// ---------------------------------------------------------------------------
// Mock DataStore
// ---------------------------------------------------------------------------

type mockDataStore struct {
	boards  domain.BoardRepository
	columns domain.ColumnRepository
	cards   domain.CardRepository
}

func (m *mockDataStore) Boards() domain.BoardRepository   { return m.boards }
func (m *mockDataStore) Columns() domain.ColumnRepository { return m.columns }
func (m *mockDataStore) Cards() domain.CardRepository     { return m.cards }

// ---------------------------------------------------------------------------
// Mock BoardRepository
// ---------------------------------------------------------------------------

type mockBoardRepo struct {
	createFunc   func(ctx context.Context, b *domain.Board) error
	getByIDFunc  func(ctx context.Context, id uuid.UUID) (*domain.Board, error)
	snapshotFunc func(ctx context.Context, id uuid.UUID) (*domain.BoardSnapshot, error)
	searchFunc   func(ctx context.Context, query string, limit int) ([]*domain.BoardSummary, error)
	updateFunc   func(ctx context.Context, b *domain.Board) error
	deleteFunc   func(ctx context.Context, id uuid.UUID) error
}

func (m *mockBoardRepo) Create(ctx context.Context, b *domain.Board) error {
	return m.createFunc(ctx, b)
}

func (m *mockBoardRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Board, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockBoardRepo) Snapshot(ctx context.Context, id uuid.UUID) (*domain.BoardSnapshot, error) {
	return m.snapshotFunc(ctx, id)
}

func (m *mockBoardRepo) Search(ctx context.Context, query string, limit int) ([]*domain.BoardSummary, error) {
	return m.searchFunc(ctx, query, limit)
}

func (m *mockBoardRepo) Update(ctx context.Context, b *domain.Board) error {
	return m.updateFunc(ctx, b)
}

func (m *mockBoardRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.deleteFunc(ctx, id)
}

// ---------------------------------------------------------------------------
// Mock ColumnRepository
// ---------------------------------------------------------------------------

type mockColumnRepo struct {
	createFunc      func(ctx context.Context, c *domain.Column) error
	getByIDFunc     func(ctx context.Context, id uuid.UUID) (*domain.Column, error)
	listByBoardFunc func(ctx context.Context, boardID uuid.UUID) ([]*domain.Column, error)
	updateFunc      func(ctx context.Context, c *domain.Column) error
	deleteFunc      func(ctx context.Context, id uuid.UUID) error
}

func (m *mockColumnRepo) Create(ctx context.Context, c *domain.Column) error {
	return m.createFunc(ctx, c)
}

func (m *mockColumnRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Column, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockColumnRepo) ListByBoard(ctx context.Context, boardID uuid.UUID) ([]*domain.Column, error) {
	return m.listByBoardFunc(ctx, boardID)
}

func (m *mockColumnRepo) Update(ctx context.Context, c *domain.Column) error {
	return m.updateFunc(ctx, c)
}

func (m *mockColumnRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.deleteFunc(ctx, id)
}

// ---------------------------------------------------------------------------
// Mock CardRepository
// ---------------------------------------------------------------------------

type mockCardRepo struct {
	createFunc        func(ctx context.Context, c *domain.Card) error
	getByIDFunc       func(ctx context.Context, id uuid.UUID) (*domain.Card, error)
	listByColumnFunc  func(ctx context.Context, columnID uuid.UUID) ([]*domain.Card, error)
	countByColumnFunc func(ctx context.Context, columnID uuid.UUID) (int, error)
	updateFunc        func(ctx context.Context, c *domain.Card) error
	upsertOrderFunc   func(ctx context.Context, orders []domain.CardOrder) error
	deleteFunc        func(ctx context.Context, id uuid.UUID) error
}

func (m *mockCardRepo) Create(ctx context.Context, c *domain.Card) error {
	return m.createFunc(ctx, c)
}

func (m *mockCardRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockCardRepo) ListByColumn(ctx context.Context, columnID uuid.UUID) ([]*domain.Card, error) {
	return m.listByColumnFunc(ctx, columnID)
}

func (m *mockCardRepo) CountByColumn(ctx context.Context, columnID uuid.UUID) (int, error) {
	return m.countByColumnFunc(ctx, columnID)
}

func (m *mockCardRepo) Update(ctx context.Context, c *domain.Card) error {
	return m.updateFunc(ctx, c)
}

func (m *mockCardRepo) UpsertOrder(ctx context.Context, orders []domain.CardOrder) error {
	return m.upsertOrderFunc(ctx, orders)
}

func (m *mockCardRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.deleteFunc(ctx, id)
}

// ---------------------------------------------------------------------------
// Recording ChangePublisher
// ---------------------------------------------------------------------------

type publishedEvent struct {
	boardID uuid.UUID
	op      domain.ChangeOp
	row     domain.Row
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *recordingPublisher) Publish(_ context.Context, boardID uuid.UUID, op domain.ChangeOp, row domain.Row) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{boardID: boardID, op: op, row: row})
}

func (p *recordingPublisher) all() []publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]publishedEvent(nil), p.events...)
}

// ---------------------------------------------------------------------------
// Mock BoardSearcher
// ---------------------------------------------------------------------------

type mockSearcher struct {
	searchFunc func(ctx context.Context, query string) search.Result
}

func (m *mockSearcher) Search(ctx context.Context, query string) search.Result {
	return m.searchFunc(ctx, query)
}
