// Package board holds the server-side state of one open board view: the
// current snapshot, the reorder engine over its cards, and the realtime
// subscription that refreshes both.
package board

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/gosuda/kanban/internal/changefeed"
	"github.com/gosuda/kanban/internal/domain"
	"github.com/gosuda/kanban/internal/reorder"
)

// Snapshotter reads a full board. domain.BoardRepository satisfies it.
type Snapshotter interface {
	Snapshot(ctx context.Context, id uuid.UUID) (*domain.BoardSnapshot, error)
}

// EventSource opens change feed subscriptions. *changefeed.Feed satisfies it.
type EventSource interface {
	Subscribe(ctx context.Context, scope changefeed.Scope, boardID uuid.UUID) (*changefeed.Subscription, error)
}

// Manager opens sessions that share one store and one change feed.
type Manager struct {
	boards Snapshotter
	cards  reorder.Persister
	pub    Publisher
	feed   EventSource
	scope  changefeed.Scope
	opts   []reorder.Option
}

func NewManager(boards Snapshotter, cards reorder.Persister, pub Publisher, feed EventSource, scope changefeed.Scope, legacyEmptyColumnDrop bool) *Manager {
	m := &Manager{boards: boards, cards: cards, pub: pub, feed: feed, scope: scope}
	if legacyEmptyColumnDrop {
		m.opts = append(m.opts, reorder.WithLegacyEmptyColumnDrop())
	}
	return m
}

// Open fetches the initial snapshot and subscribes to the change feed. The
// returned session must be closed.
func (m *Manager) Open(ctx context.Context, boardID uuid.UUID) (*Session, error) {
	snap, err := m.boards.Snapshot(ctx, boardID)
	if err != nil {
		return nil, fmt.Errorf("board.Manager.Open: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	sub, err := m.feed.Subscribe(ctx, m.scope, boardID)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("board.Manager.Open: %w", err)
	}

	s := &Session{
		boardID: boardID,
		boards:  m.boards,
		snap:    snap,
		sub:     sub,
		cancel:  cancel,
		updates: make(chan struct{}, 1),
	}
	store := &announcingStore{Persister: m.cards, pub: m.pub, boardID: boardID, lookup: s.cardRow}
	s.engine = reorder.New(store, snap.AllCards(), m.opts...)

	s.wg.Add(1)
	go s.watch(ctx)

	return s, nil
}

// Session is one client's view of one board.
type Session struct {
	boardID uuid.UUID
	boards  Snapshotter
	engine  *reorder.Engine
	sub     *changefeed.Subscription
	cancel  context.CancelFunc
	updates chan struct{}
	wg      sync.WaitGroup

	mu   sync.RWMutex
	snap *domain.BoardSnapshot

	closeOnce sync.Once
}

// Updates signals after each realtime refresh. Signals coalesce: a reader
// that falls behind sees one pending signal.
func (s *Session) Updates() <-chan struct{} { return s.updates }

// Snapshot returns the last fetched snapshot.
func (s *Session) Snapshot() *domain.BoardSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

func (s *Session) DragStart(cardID uuid.UUID) bool {
	return s.engine.DragStart(cardID)
}

func (s *Session) DragOver(ctx context.Context, cardID uuid.UUID, over reorder.Target) bool {
	return s.engine.DragOver(ctx, cardID, over)
}

func (s *Session) DragEnd(ctx context.Context, cardID uuid.UUID, over reorder.Target) bool {
	return s.engine.DragEnd(ctx, cardID, over)
}

func (s *Session) DeleteCard(ctx context.Context, cardID uuid.UUID) bool {
	return s.engine.DeleteCard(ctx, cardID)
}

// cardRow returns the card as last fetched, or a row carrying only the id
// when the snapshot does not hold it.
func (s *Session) cardRow(id uuid.UUID) *domain.Card {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.snap.AllCards() {
		if c.ID == id {
			return &c
		}
	}
	return &domain.Card{ID: id}
}

// Close stops the realtime subscription and waits for the refresh goroutine.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.cancel()
		s.sub.Close()
		s.wg.Wait()
	})
}

func (s *Session) watch(ctx context.Context) {
	defer s.wg.Done()

	for ev := range s.sub.Events() {
		log.Debug().
			Str("board_id", s.boardID.String()).
			Str("op", string(ev.Op)).
			Str("table", ev.Table()).
			Msg("board: change received, refetching")
		s.refresh(ctx)
	}
}

// refresh replaces the snapshot and the working list wholesale. A failed
// read keeps the previous snapshot.
func (s *Session) refresh(ctx context.Context) {
	snap, err := s.boards.Snapshot(ctx, s.boardID)
	if err != nil {
		log.Error().Err(err).Str("board_id", s.boardID.String()).Msg("board: refetch failed")
		return
	}

	s.mu.Lock()
	s.snap = snap
	s.engine.Reset(snap.AllCards())
	s.mu.Unlock()

	select {
	case s.updates <- struct{}{}:
	default:
	}
}
