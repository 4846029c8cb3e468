package board

import "github.com/gosuda/kanban/internal/domain"

// ColumnView is a column with the cards the working list currently assigns
// to it.
type ColumnView struct {
	domain.Column
	Cards []domain.Card `json:"cards"`
}

// View is what a client renders: the board, its columns in snapshot order,
// and the lifted card for the drag overlay.
type View struct {
	Board   domain.Board `json:"board"`
	Columns []ColumnView `json:"columns"`
	Active  *domain.Card `json:"active"`
}

// View projects the engine's working list onto the snapshot's columns.
func (s *Session) View() View {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v := View{
		Board:   s.snap.Board,
		Columns: make([]ColumnView, 0, len(s.snap.Columns)),
	}
	for _, c := range s.snap.Columns {
		v.Columns = append(v.Columns, ColumnView{
			Column: c.Column,
			Cards:  s.engine.ColumnCards(c.ID),
		})
	}
	if active, ok := s.engine.Active(); ok {
		v.Active = &active
	}
	return v
}
