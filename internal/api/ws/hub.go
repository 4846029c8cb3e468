package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/gosuda/kanban/internal/board"
	"github.com/gosuda/kanban/internal/domain"
)

const writeTimeout = 5 * time.Second

// SessionOpener opens board sessions. *board.Manager satisfies it.
type SessionOpener interface {
	Open(ctx context.Context, boardID uuid.UUID) (*board.Session, error)
}

// Hub serves board views over WebSocket, one session per connection.
type Hub struct {
	sessions SessionOpener
	accept   *websocket.AcceptOptions
}

// NewHub creates a hub. originPatterns is passed to the WebSocket handshake;
// an empty list accepts same-origin requests only.
func NewHub(sessions SessionOpener, originPatterns []string) *Hub {
	return &Hub{
		sessions: sessions,
		accept:   &websocket.AcceptOptions{OriginPatterns: originPatterns},
	}
}

type inbound struct {
	msg ClientMessage
	err error
}

// ServeBoard handles GET /ws/board/{boardID}. The client receives a snapshot
// after the handshake, after every message it sends and after every realtime
// refresh.
func (h *Hub) ServeBoard(w http.ResponseWriter, r *http.Request) {
	boardID, err := uuid.Parse(chi.URLParam(r, "boardID"))
	if err != nil {
		http.Error(w, "invalid board id", http.StatusBadRequest)
		return
	}

	sess, err := h.sessions.Open(r.Context(), boardID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.Error(w, "board not found", http.StatusNotFound)
			return
		}
		log.Error().Err(err).Str("board_id", boardID.String()).Msg("websocket open session")
		http.Error(w, "failed to open board", http.StatusInternalServerError)
		return
	}
	defer sess.Close()

	conn, err := websocket.Accept(w, r, h.accept)
	if err != nil {
		log.Error().Err(err).Msg("websocket accept")
		return
	}
	defer conn.CloseNow()

	var wg sync.WaitGroup
	defer wg.Wait()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	messages := make(chan inbound)
	wg.Add(1)
	go func() {
		defer wg.Done()
		readLoop(ctx, conn, messages)
	}()

	if err := write(ctx, conn, snapshotMessage(sess.View())); err != nil {
		log.Debug().Err(err).Msg("websocket write")
		return
	}

	for {
		var out ServerMessage
		select {
		case <-ctx.Done():
			_ = conn.Close(websocket.StatusNormalClosure, "connection closed")
			return
		case <-sess.Updates():
			out = snapshotMessage(sess.View())
		case in, ok := <-messages:
			if !ok {
				return
			}
			if in.err != nil {
				out = errorMessage(in.err)
			} else {
				apply(ctx, sess, in.msg)
				out = snapshotMessage(sess.View())
			}
		}

		if err := write(ctx, conn, out); err != nil {
			log.Debug().Err(err).Msg("websocket write")
			return
		}
	}
}

// readLoop decodes frames until the connection fails. Decode errors are
// passed on so the client gets an error reply.
func readLoop(ctx context.Context, conn *websocket.Conn, out chan<- inbound) {
	defer close(out)

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) == -1 && ctx.Err() == nil {
				log.Debug().Err(err).Msg("websocket read")
			}
			return
		}

		msg, decodeErr := DecodeClientMessage(data)
		select {
		case out <- inbound{msg: msg, err: decodeErr}:
		case <-ctx.Done():
			return
		}
	}
}

func apply(ctx context.Context, sess *board.Session, m ClientMessage) {
	switch m.Type {
	case TypeDragStart:
		sess.DragStart(m.CardID)
	case TypeDragOver:
		sess.DragOver(ctx, m.CardID, m.Target())
	case TypeDragEnd:
		sess.DragEnd(ctx, m.CardID, m.Target())
	case TypeDeleteCard:
		sess.DeleteCard(ctx, m.CardID)
	}
}

func write(ctx context.Context, conn *websocket.Conn, m ServerMessage) error {
	payload, err := json.Marshal(m)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return conn.Write(ctx, websocket.MessageText, payload)
}
