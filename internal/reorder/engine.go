// Package reorder keeps the working copy of a board's cards in step with drag
// gestures and persists the resulting order.
package reorder

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/gosuda/kanban/internal/domain"
)

// Persister writes reorder results. domain.CardRepository satisfies it.
type Persister interface {
	UpsertOrder(ctx context.Context, orders []domain.CardOrder) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Target is what the pointer is over: a card, or the empty area of a column.
// The zero Target means nothing is under the pointer.
type Target struct {
	CardID   uuid.UUID `json:"card_id,omitzero"`
	ColumnID uuid.UUID `json:"column_id,omitzero"`
}

func CardTarget(id uuid.UUID) Target   { return Target{CardID: id} }
func ColumnTarget(id uuid.UUID) Target { return Target{ColumnID: id} }

func (t Target) IsZero() bool { return t.CardID == uuid.Nil && t.ColumnID == uuid.Nil }
func (t Target) IsCard() bool { return t.CardID != uuid.Nil }

type Option func(*Engine)

// WithLegacyEmptyColumnDrop keeps the older hover-over-empty-column
// behavior: the card is moved to index 0 of the whole list and keeps its
// column.
func WithLegacyEmptyColumnDrop() Option {
	return func(e *Engine) { e.legacyEmptyColumn = true }
}

// Engine owns the working list. Its methods may be called from several
// goroutines; mutations are applied one at a time.
type Engine struct {
	store             Persister
	legacyEmptyColumn bool

	mu     sync.Mutex
	cards  []domain.Card
	active *domain.Card
}

// New starts an engine over cards, which must already be in display order.
func New(store Persister, cards []domain.Card, opts ...Option) *Engine {
	e := &Engine{store: store, cards: slices.Clone(cards)}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Reset replaces the working list and clears the active card.
func (e *Engine) Reset(cards []domain.Card) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.cards = slices.Clone(cards)
	e.active = nil
}

// Cards returns a copy of the working list.
func (e *Engine) Cards() []domain.Card {
	e.mu.Lock()
	defer e.mu.Unlock()

	return slices.Clone(e.cards)
}

// ColumnCards returns the cards of one column in working-list order.
func (e *Engine) ColumnCards(columnID uuid.UUID) []domain.Card {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]domain.Card, 0)
	for _, c := range e.cards {
		if c.ColumnID == columnID {
			out = append(out, c)
		}
	}
	return out
}

// Active returns the card currently lifted, if any.
func (e *Engine) Active() (domain.Card, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.active == nil {
		return domain.Card{}, false
	}
	return *e.active, true
}

// DragStart records the lifted card for overlay rendering.
func (e *Engine) DragStart(cardID uuid.UUID) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	i := e.indexOf(cardID)
	if i < 0 {
		return false
	}
	c := e.cards[i]
	e.active = &c
	return true
}

// DragOver applies a hover and persists the new order. It reports whether
// the working list changed.
func (e *Engine) DragOver(ctx context.Context, activeID uuid.UUID, over Target) bool {
	e.mu.Lock()
	changed := e.applyOver(activeID, over)
	orders := e.ordersIfChanged(changed)
	e.mu.Unlock()

	e.persist(ctx, orders)
	return changed
}

// DragEnd clears the active card and, when dropped on another card, splices
// the lifted card to that card's index.
func (e *Engine) DragEnd(ctx context.Context, activeID uuid.UUID, over Target) bool {
	e.mu.Lock()
	e.active = nil
	changed := false
	if over.IsCard() && over.CardID != activeID {
		from, to := e.indexOf(activeID), e.indexOf(over.CardID)
		if from >= 0 && to >= 0 {
			e.cards = move(e.cards, from, to)
			changed = true
		}
	}
	orders := e.ordersIfChanged(changed)
	e.mu.Unlock()

	e.persist(ctx, orders)
	return changed
}

// DeleteCard removes the card from the working list and deletes it from the
// store. Unknown ids are ignored.
func (e *Engine) DeleteCard(ctx context.Context, cardID uuid.UUID) bool {
	e.mu.Lock()
	i := e.indexOf(cardID)
	if i < 0 {
		e.mu.Unlock()
		return false
	}
	e.cards = slices.Delete(slices.Clone(e.cards), i, i+1)
	if e.active != nil && e.active.ID == cardID {
		e.active = nil
	}
	e.mu.Unlock()

	if err := e.store.Delete(ctx, cardID); err != nil {
		log.Error().Err(err).Str("card_id", cardID.String()).Msg("reorder: error deleting card")
	}
	return true
}

func (e *Engine) applyOver(activeID uuid.UUID, over Target) bool {
	if over.IsZero() || over.CardID == activeID {
		return false
	}
	from := e.indexOf(activeID)
	if from < 0 {
		return false
	}

	if over.IsCard() {
		to := e.indexOf(over.CardID)
		if to < 0 {
			return false
		}
		if e.cards[from].ColumnID != e.cards[to].ColumnID {
			e.cards = moveBefore(e.cards, from, over.CardID, e.cards[to].ColumnID)
			return true
		}
		e.cards = move(e.cards, from, to)
		return true
	}

	if e.legacyEmptyColumn {
		e.cards = move(e.cards, from, 0)
		return true
	}
	return e.moveIntoColumn(from, over.ColumnID)
}

// moveIntoColumn places the card at from after the last card of columnID.
// An empty column keeps the card at its current index.
func (e *Engine) moveIntoColumn(from int, columnID uuid.UUID) bool {
	if e.cards[from].ColumnID == columnID {
		return false
	}

	c := e.cards[from]
	c.ColumnID = columnID
	rest := slices.Delete(slices.Clone(e.cards), from, from+1)

	at := from
	for i, k := range rest {
		if k.ColumnID == columnID {
			at = i + 1
		}
	}
	e.cards = slices.Insert(rest, at, c)
	return true
}

func (e *Engine) ordersIfChanged(changed bool) []domain.CardOrder {
	if !changed {
		return nil
	}
	return domain.OrderFromList(e.cards)
}

// persist issues one batch upsert. Errors are logged only; the working list
// is never rolled back.
func (e *Engine) persist(ctx context.Context, orders []domain.CardOrder) {
	if orders == nil {
		return
	}
	if err := e.store.UpsertOrder(ctx, orders); err != nil {
		log.Error().Err(err).Int("cards", len(orders)).Msg("reorder: error updating card order")
	}
}

func (e *Engine) indexOf(id uuid.UUID) int {
	return slices.IndexFunc(e.cards, func(c domain.Card) bool { return c.ID == id })
}

// move removes the element at from and reinserts it at to, returning a new
// slice.
func move(cards []domain.Card, from, to int) []domain.Card {
	out := slices.Clone(cards)
	c := out[from]
	out = slices.Delete(out, from, from+1)
	return slices.Insert(out, to, c)
}

// moveBefore reassigns the card at from to columnID and inserts it directly
// ahead of the card overID. A hovered card at the head of the list keeps the
// moved card at the head; it never wraps to the end.
func moveBefore(cards []domain.Card, from int, overID, columnID uuid.UUID) []domain.Card {
	c := cards[from]
	c.ColumnID = columnID
	rest := slices.Delete(slices.Clone(cards), from, from+1)
	at := slices.IndexFunc(rest, func(k domain.Card) bool { return k.ID == overID })
	return slices.Insert(rest, at, c)
}
