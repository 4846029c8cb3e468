package ws

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/gosuda/kanban/internal/board"
	"github.com/gosuda/kanban/internal/reorder"
)

// Client message types.
const (
	TypeDragStart  = "drag_start"
	TypeDragOver   = "drag_over"
	TypeDragEnd    = "drag_end"
	TypeDeleteCard = "delete_card"
)

// Server message types.
const (
	TypeSnapshot = "snapshot"
	TypeError    = "error"
)

var errMissingCard = errors.New("card_id is required")

// ClientMessage is one drag gesture or delete sent by the board view.
type ClientMessage struct {
	Type   string          `json:"type"`
	CardID uuid.UUID       `json:"card_id"`
	Over   *reorder.Target `json:"over,omitempty"`
}

// Target returns the hovered target, or the zero Target when none was sent.
func (m ClientMessage) Target() reorder.Target {
	if m.Over == nil {
		return reorder.Target{}
	}
	return *m.Over
}

// ServerMessage is either a full snapshot of the view or an error notice.
type ServerMessage struct {
	Type string `json:"type"`
	*board.View
	Message string `json:"message,omitempty"`
}

func snapshotMessage(v board.View) ServerMessage {
	return ServerMessage{Type: TypeSnapshot, View: &v}
}

func errorMessage(err error) ServerMessage {
	return ServerMessage{Type: TypeError, Message: err.Error()}
}

// DecodeClientMessage parses and validates one inbound frame.
func DecodeClientMessage(data []byte) (ClientMessage, error) {
	var m ClientMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return ClientMessage{}, fmt.Errorf("malformed message: %w", err)
	}

	switch m.Type {
	case TypeDragStart, TypeDragOver, TypeDragEnd, TypeDeleteCard:
	default:
		return ClientMessage{}, fmt.Errorf("unknown message type %q", m.Type)
	}

	if m.CardID == uuid.Nil {
		return ClientMessage{}, fmt.Errorf("%s: %w", m.Type, errMissingCard)
	}
	return m, nil
}
