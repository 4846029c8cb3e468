package domain

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// ChangeOp is the kind of row change carried by the change feed. Updates are
// not published.
type ChangeOp string

const (
	OpInsert ChangeOp = "insert"
	OpDelete ChangeOp = "delete"
)

// Table names of the change feed.
const (
	TableBoards  = "boards"
	TableColumns = "columns"
	TableCards   = "cards"
)

// DefaultSchema is the schema every table lives in.
const DefaultSchema = "public"

// Row is implemented by *Board, *Column and *Card only.
type Row interface {
	table() string
}

func (*Board) table() string  { return TableBoards }
func (*Column) table() string { return TableColumns }
func (*Card) table() string   { return TableCards }

// ChangeEvent is an insert or delete of exactly one typed row.
type ChangeEvent struct {
	Op     ChangeOp
	Schema string
	Row    Row
}

// NewChangeEvent builds an event in the default schema.
func NewChangeEvent(op ChangeOp, row Row) ChangeEvent {
	return ChangeEvent{Op: op, Schema: DefaultSchema, Row: row}
}

// Table returns the table of the carried row.
func (e ChangeEvent) Table() string {
	if e.Row == nil {
		return ""
	}
	return e.Row.table()
}

type wireEvent struct {
	Op     ChangeOp        `json:"op"`
	Table  string          `json:"table"`
	Schema string          `json:"schema"`
	Row    json.RawMessage `json:"row"`
}

// MarshalJSON encodes the event with its table tag.
func (e ChangeEvent) MarshalJSON() ([]byte, error) {
	if e.Row == nil {
		return nil, fmt.Errorf("domain.ChangeEvent.MarshalJSON: %w: missing row", ErrInvalidEvent)
	}
	row, err := json.Marshal(e.Row)
	if err != nil {
		return nil, fmt.Errorf("domain.ChangeEvent.MarshalJSON: %w", err)
	}
	return json.Marshal(wireEvent{Op: e.Op, Table: e.Table(), Schema: e.Schema, Row: row})
}

// DecodeChangeEvent parses and validates a change feed payload.
func DecodeChangeEvent(payload []byte) (ChangeEvent, error) {
	var w wireEvent
	if err := json.Unmarshal(payload, &w); err != nil {
		return ChangeEvent{}, fmt.Errorf("domain.DecodeChangeEvent: %w: %w", ErrInvalidEvent, err)
	}

	switch w.Op {
	case OpInsert, OpDelete:
	default:
		return ChangeEvent{}, fmt.Errorf("domain.DecodeChangeEvent: %w: unknown op %q", ErrInvalidEvent, w.Op)
	}

	if len(w.Row) == 0 || string(w.Row) == "null" {
		return ChangeEvent{}, fmt.Errorf("domain.DecodeChangeEvent: %w: missing row", ErrInvalidEvent)
	}

	var row Row
	switch w.Table {
	case TableBoards:
		row = &Board{}
	case TableColumns:
		row = &Column{}
	case TableCards:
		row = &Card{}
	default:
		return ChangeEvent{}, fmt.Errorf("domain.DecodeChangeEvent: %w: unknown table %q", ErrInvalidEvent, w.Table)
	}
	if err := json.Unmarshal(w.Row, row); err != nil {
		return ChangeEvent{}, fmt.Errorf("domain.DecodeChangeEvent: %w: %w", ErrInvalidEvent, err)
	}
	if rowID(row) == uuid.Nil {
		return ChangeEvent{}, fmt.Errorf("domain.DecodeChangeEvent: %w: row without id", ErrInvalidEvent)
	}

	schema := w.Schema
	if schema == "" {
		schema = DefaultSchema
	}
	return ChangeEvent{Op: w.Op, Schema: schema, Row: row}, nil
}

func rowID(r Row) uuid.UUID {
	switch v := r.(type) {
	case *Board:
		return v.ID
	case *Column:
		return v.ID
	case *Card:
		return v.ID
	default:
		return uuid.Nil
	}
}
