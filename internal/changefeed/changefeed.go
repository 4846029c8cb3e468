// Package changefeed carries insert and delete notifications for boards,
// columns and cards between API handlers and open board sessions.
package changefeed

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/gosuda/kanban/internal/domain"
	redisstore "github.com/gosuda/kanban/internal/store/redis"
)

// Broker is the pub/sub transport. *redisstore.PubSub satisfies it.
type Broker interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, func(), error)
}

// Scope selects which events a subscription receives.
type Scope string

const (
	// ScopeSchema delivers every insert and delete in the schema.
	ScopeSchema Scope = "schema"
	// ScopeBoard delivers only events published for one board.
	ScopeBoard Scope = "board"
)

// ParseScope validates a configured scope name.
func ParseScope(s string) (Scope, error) {
	switch Scope(s) {
	case ScopeSchema, ScopeBoard:
		return Scope(s), nil
	default:
		return "", fmt.Errorf("changefeed.ParseScope: unknown scope %q", s)
	}
}

// Publisher emits change events after successful writes.
type Publisher struct {
	broker Broker
	schema string
}

func NewPublisher(broker Broker, schema string) *Publisher {
	return &Publisher{broker: broker, schema: schema}
}

// Publish sends the event on the schema channel and, when boardID is known,
// on that board's channel. Failures are logged and never returned: a missed
// notification only delays other viewers until their next refetch.
func (p *Publisher) Publish(ctx context.Context, boardID uuid.UUID, op domain.ChangeOp, row domain.Row) {
	ev := domain.ChangeEvent{Op: op, Schema: p.schema, Row: row}
	payload, err := ev.MarshalJSON()
	if err != nil {
		log.Error().Err(err).Str("op", string(op)).Msg("changefeed: encode event")
		return
	}

	channels := []string{redisstore.ChangesChannel(p.schema)}
	if boardID != uuid.Nil {
		channels = append(channels, redisstore.BoardChannel(boardID))
	}

	for _, ch := range channels {
		if pubErr := p.broker.Publish(ctx, ch, payload); pubErr != nil {
			log.Error().Err(pubErr).Str("channel", ch).Str("table", ev.Table()).Msg("changefeed: publish")
		}
	}
}

// Feed opens typed subscriptions on the broker.
type Feed struct {
	broker Broker
	schema string
}

func NewFeed(broker Broker, schema string) *Feed {
	return &Feed{broker: broker, schema: schema}
}

// Subscribe starts delivering events for scope. boardID is required for
// ScopeBoard and ignored otherwise.
func (f *Feed) Subscribe(ctx context.Context, scope Scope, boardID uuid.UUID) (*Subscription, error) {
	var channel string
	switch scope {
	case ScopeSchema:
		channel = redisstore.ChangesChannel(f.schema)
	case ScopeBoard:
		if boardID == uuid.Nil {
			return nil, fmt.Errorf("changefeed.Feed.Subscribe: board scope without board id")
		}
		channel = redisstore.BoardChannel(boardID)
	default:
		return nil, fmt.Errorf("changefeed.Feed.Subscribe: unknown scope %q", scope)
	}

	raw, cleanup, err := f.broker.Subscribe(ctx, channel)
	if err != nil {
		return nil, fmt.Errorf("changefeed.Feed.Subscribe: %w", err)
	}

	s := &Subscription{
		events:  make(chan domain.ChangeEvent),
		done:    make(chan struct{}),
		exited:  make(chan struct{}),
		cleanup: cleanup,
	}
	go s.run(raw)

	return s, nil
}

// Subscription is a live stream of validated change events.
type Subscription struct {
	events  chan domain.ChangeEvent
	done    chan struct{}
	exited  chan struct{}
	cleanup func()
	once    sync.Once
}

// Events is closed after Close or when the underlying transport ends.
func (s *Subscription) Events() <-chan domain.ChangeEvent {
	return s.events
}

// Close unsubscribes and waits for the delivery goroutine to stop. It is safe
// to call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		close(s.done)
		if s.cleanup != nil {
			s.cleanup()
		}
	})
	<-s.exited
}

func (s *Subscription) run(raw <-chan []byte) {
	defer close(s.exited)
	defer close(s.events)

	for {
		select {
		case <-s.done:
			return
		case payload, ok := <-raw:
			if !ok {
				return
			}
			ev, err := domain.DecodeChangeEvent(payload)
			if err != nil {
				log.Warn().Err(err).Msg("changefeed: dropping malformed event")
				continue
			}
			select {
			case s.events <- ev:
			case <-s.done:
				return
			}
		}
	}
}
