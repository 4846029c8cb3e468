// Package search backs the board list page: full-text lookup in the store,
// re-ranked by fuzzy title match.
package search

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/sahilm/fuzzy"

	"github.com/gosuda/kanban/internal/domain"
)

// DefaultLimit caps the rows requested from the store.
const DefaultLimit = 50

// Store runs the text search. domain.BoardRepository satisfies it.
type Store interface {
	Search(ctx context.Context, query string, limit int) ([]*domain.BoardSummary, error)
}

// Result is what the list page renders. EmptyState is set when no query was
// entered; NotFound when a query matched nothing.
type Result struct {
	Boards     []*domain.BoardSummary `json:"boards"`
	EmptyState bool                   `json:"empty_state"`
	NotFound   bool                   `json:"not_found"`
}

type Service struct {
	store Store
	limit int
}

func NewService(store Store, limit int) *Service {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Service{store: store, limit: limit}
}

// Search never returns read errors; a failed lookup is logged and renders
// as an empty list.
func (s *Service) Search(ctx context.Context, query string) Result {
	if strings.TrimSpace(query) == "" {
		return Result{Boards: []*domain.BoardSummary{}, EmptyState: true}
	}

	rows, err := s.store.Search(ctx, query, s.limit)
	if err != nil {
		log.Error().Err(err).Str("query", query).Msg("search: error fetching boards")
		return Result{Boards: []*domain.BoardSummary{}}
	}
	if len(rows) == 0 {
		return Result{Boards: []*domain.BoardSummary{}, NotFound: true}
	}

	return Result{Boards: rank(query, rows)}
}

// rank moves fuzzy title matches to the front, best score first. Rows the
// fuzzy matcher misses keep their store order after the matches.
func rank(query string, rows []*domain.BoardSummary) []*domain.BoardSummary {
	titles := make([]string, len(rows))
	for i, r := range rows {
		titles[i] = r.Title
	}

	matches := fuzzy.Find(query, titles)
	out := make([]*domain.BoardSummary, 0, len(rows))
	seen := make([]bool, len(rows))
	for _, m := range matches {
		out = append(out, rows[m.Index])
		seen[m.Index] = true
	}
	for i, r := range rows {
		if !seen[i] {
			out = append(out, r)
		}
	}
	return out
}
