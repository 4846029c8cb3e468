package redis

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// subscriptionBuffer is the number of payloads held for a slow reader before
// the forwarding goroutine blocks.
const subscriptionBuffer = 64

// PubSub is the change-notification transport. Messages are fire-and-forget;
// subscribers that are not connected when a message is published miss it.
type PubSub struct {
	client *redis.Client
}

func New(ctx context.Context, addr, password string, db int) (*PubSub, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis.New: ping: %w", err)
	}

	return &PubSub{client: client}, nil
}

func (ps *PubSub) Close() error {
	if err := ps.client.Close(); err != nil {
		return fmt.Errorf("redis.PubSub.Close: %w", err)
	}
	return nil
}

func (ps *PubSub) Publish(ctx context.Context, channel string, payload []byte) error {
	if err := ps.client.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("redis.PubSub.Publish: %w", err)
	}
	return nil
}

// Subscribe returns a channel of payloads published on channel after the
// subscription is confirmed. The returned channel is closed when ctx is done
// or cleanup is called. cleanup is safe to call more than once.
func (ps *PubSub) Subscribe(ctx context.Context, channel string) (<-chan []byte, func(), error) {
	sub := ps.client.Subscribe(ctx, channel)

	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, nil, fmt.Errorf("redis.PubSub.Subscribe: receive confirmation: %w", err)
	}

	out := make(chan []byte, subscriptionBuffer)
	done := make(chan struct{})
	redisCh := sub.Channel()

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case <-done:
				return
			case msg, ok := <-redisCh:
				if !ok {
					return
				}
				select {
				case out <- []byte(msg.Payload):
				case <-ctx.Done():
					return
				case <-done:
					return
				}
			}
		}
	}()

	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			close(done)
			_ = sub.Close()
		})
	}

	return out, cleanup, nil
}

// ChangesChannel returns the Redis channel carrying insert/delete events for
// every table of a schema.
func ChangesChannel(schema string) string {
	return "changes:" + schema
}

// BoardChannel returns the Redis channel name for pushes to viewers of one
// board.
func BoardChannel(boardID uuid.UUID) string {
	return "board:" + boardID.String()
}
