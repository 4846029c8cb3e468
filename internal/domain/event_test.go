package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gosuda/kanban/internal/domain"
)

func TestChangeEvent_RoundTrip(t *testing.T) {
	t.Parallel()

	boardID := uuid.New()
	rows := []domain.Row{
		&domain.Board{ID: boardID, Title: "Roadmap"},
		&domain.Column{ID: uuid.New(), BoardID: boardID, Title: "Todo"},
		&domain.Card{ID: uuid.New(), ColumnID: uuid.New(), Title: "Ship", Order: 2},
	}

	for _, row := range rows {
		ev := domain.NewChangeEvent(domain.OpInsert, row)
		t.Run(ev.Table(), func(t *testing.T) {
			t.Parallel()

			payload, err := json.Marshal(ev)
			require.NoError(t, err)

			got, err := domain.DecodeChangeEvent(payload)
			require.NoError(t, err)
			assert.Equal(t, domain.OpInsert, got.Op)
			assert.Equal(t, domain.DefaultSchema, got.Schema)
			assert.Equal(t, ev.Table(), got.Table())
			assert.IsType(t, row, got.Row)
		})
	}
}

func TestChangeEvent_MarshalWithoutRow(t *testing.T) {
	t.Parallel()

	_, err := domain.ChangeEvent{Op: domain.OpDelete}.MarshalJSON()
	assert.ErrorIs(t, err, domain.ErrInvalidEvent)
}

func TestDecodeChangeEvent_Invalid(t *testing.T) {
	t.Parallel()

	id := uuid.NewString()
	tests := []struct {
		name    string
		payload string
	}{
		{name: "not json", payload: `{`},
		{name: "update op", payload: `{"op":"update","table":"cards","row":{"id":"` + id + `"}}`},
		{name: "missing op", payload: `{"table":"cards","row":{"id":"` + id + `"}}`},
		{name: "missing row", payload: `{"op":"insert","table":"cards"}`},
		{name: "null row", payload: `{"op":"insert","table":"cards","row":null}`},
		{name: "unknown table", payload: `{"op":"insert","table":"users","row":{"id":"` + id + `"}}`},
		{name: "row without id", payload: `{"op":"delete","table":"boards","row":{"title":"x"}}`},
		{name: "row wrong shape", payload: `{"op":"delete","table":"columns","row":[1,2]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := domain.DecodeChangeEvent([]byte(tt.payload))
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidEvent)
		})
	}
}

func TestDecodeChangeEvent_DefaultsSchema(t *testing.T) {
	t.Parallel()

	ev, err := domain.DecodeChangeEvent([]byte(`{"op":"delete","table":"boards","row":{"id":"` + uuid.NewString() + `","title":"x"}}`))
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSchema, ev.Schema)
	assert.Equal(t, domain.TableBoards, ev.Table())
}
