package v1

import (
	"context"

	"github.com/google/uuid"

	"github.com/gosuda/kanban/internal/domain"
	"github.com/gosuda/kanban/internal/search"
)

// DataStore abstracts the repository accessor pattern for handler testing.
// *postgres.Store satisfies this interface.
type DataStore interface {
	Boards() domain.BoardRepository
	Columns() domain.ColumnRepository
	Cards() domain.CardRepository
}

// ChangePublisher announces inserts and deletes to open board views.
// *changefeed.Publisher satisfies this interface.
type ChangePublisher interface {
	Publish(ctx context.Context, boardID uuid.UUID, op domain.ChangeOp, row domain.Row)
}

// BoardSearcher backs the list page. *search.Service satisfies this interface.
type BoardSearcher interface {
	Search(ctx context.Context, query string) search.Result
}
