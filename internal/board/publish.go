package board

import (
	"context"

	"github.com/google/uuid"

	"github.com/gosuda/kanban/internal/domain"
	"github.com/gosuda/kanban/internal/reorder"
)

// Publisher announces inserts and deletes to other open views.
// *changefeed.Publisher satisfies it.
type Publisher interface {
	Publish(ctx context.Context, boardID uuid.UUID, op domain.ChangeOp, row domain.Row)
}

// announcingStore publishes a delete event after every card delete the store
// accepted, so other sessions refetch. Order upserts are not announced.
type announcingStore struct {
	reorder.Persister
	pub     Publisher
	boardID uuid.UUID
	lookup  func(uuid.UUID) *domain.Card
}

func (a *announcingStore) Delete(ctx context.Context, id uuid.UUID) error {
	if err := a.Persister.Delete(ctx, id); err != nil {
		return err
	}
	a.pub.Publish(ctx, a.boardID, domain.OpDelete, a.lookup(id))
	return nil
}
