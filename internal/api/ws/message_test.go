package ws_test

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gosuda/kanban/internal/api/ws"
	"github.com/gosuda/kanban/internal/board"
	"github.com/gosuda/kanban/internal/domain"
	"github.com/gosuda/kanban/internal/reorder"
)

func TestDecodeClientMessage(t *testing.T) {
	t.Parallel()

	cardID := uuid.New()
	overCard := uuid.New()
	overColumn := uuid.New()

	tests := []struct {
		name     string
		payload  string
		wantErr  bool
		wantType string
		want     reorder.Target
	}{
		{
			name:     "drag_start",
			payload:  `{"type":"drag_start","card_id":"` + cardID.String() + `"}`,
			wantType: ws.TypeDragStart,
		},
		{
			name:     "drag_over_card",
			payload:  `{"type":"drag_over","card_id":"` + cardID.String() + `","over":{"card_id":"` + overCard.String() + `"}}`,
			wantType: ws.TypeDragOver,
			want:     reorder.CardTarget(overCard),
		},
		{
			name:     "drag_over_column",
			payload:  `{"type":"drag_over","card_id":"` + cardID.String() + `","over":{"column_id":"` + overColumn.String() + `"}}`,
			wantType: ws.TypeDragOver,
			want:     reorder.ColumnTarget(overColumn),
		},
		{
			name:     "drag_end_without_target",
			payload:  `{"type":"drag_end","card_id":"` + cardID.String() + `"}`,
			wantType: ws.TypeDragEnd,
		},
		{
			name:     "delete_card",
			payload:  `{"type":"delete_card","card_id":"` + cardID.String() + `"}`,
			wantType: ws.TypeDeleteCard,
		},
		{name: "unknown_type", payload: `{"type":"rename","card_id":"` + cardID.String() + `"}`, wantErr: true},
		{name: "missing_card", payload: `{"type":"drag_start"}`, wantErr: true},
		{name: "bad_uuid", payload: `{"type":"drag_start","card_id":"nope"}`, wantErr: true},
		{name: "not_json", payload: `drag`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m, err := ws.DecodeClientMessage([]byte(tt.payload))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, m.Type)
			assert.Equal(t, cardID, m.CardID)
			assert.Equal(t, tt.want, m.Target())
		})
	}
}

func TestServerMessage_JSON(t *testing.T) {
	t.Parallel()

	t.Run("snapshot", func(t *testing.T) {
		t.Parallel()

		boardID := uuid.New()
		msg := ws.ServerMessage{Type: ws.TypeSnapshot, View: &board.View{
			Board:   domain.Board{ID: boardID, Title: "Roadmap"},
			Columns: []board.ColumnView{},
		}}

		raw, err := json.Marshal(msg)
		require.NoError(t, err)

		var got map[string]any
		require.NoError(t, json.Unmarshal(raw, &got))
		assert.Equal(t, "snapshot", got["type"])
		assert.Contains(t, got, "board")
		assert.Contains(t, got, "columns")
		assert.NotContains(t, got, "message")
	})

	t.Run("error", func(t *testing.T) {
		t.Parallel()

		raw, err := json.Marshal(ws.ServerMessage{Type: ws.TypeError, Message: "boom"})
		require.NoError(t, err)

		var got map[string]any
		require.NoError(t, json.Unmarshal(raw, &got))
		assert.Equal(t, "error", got["type"])
		assert.Equal(t, "boom", got["message"])
		assert.NotContains(t, got, "board")
	})
}
