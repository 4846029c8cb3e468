package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/gosuda/kanban/internal/domain"
	"github.com/gosuda/kanban/internal/search"
)

type ListBoardsInput struct {
	Query string `query:"query" doc:"Web-search style query on board titles"`
}

type ListBoardsOutput struct {
	Body search.Result
}

type CreateBoardInput struct {
	Body struct {
		Title       string `json:"title" minLength:"2" maxLength:"200" doc:"Board title"`
		Description string `json:"description,omitempty" doc:"Optional description"`
	}
}

type CreateBoardOutput struct {
	Location string `header:"Location" doc:"Path of the new board view"`
	Body     *domain.Board
}

type GetBoardInput struct {
	ID uuid.UUID `path:"id" doc:"Board ID"`
}

type GetBoardOutput struct {
	Body *domain.BoardSnapshot
}

type UpdateBoardInput struct {
	ID   uuid.UUID `path:"id" doc:"Board ID"`
	Body struct {
		Title       string `json:"title" minLength:"2" maxLength:"200" doc:"Board title"`
		Description string `json:"description,omitempty" doc:"Description; empty clears it"`
	}
}

type UpdateBoardOutput struct {
	Body *domain.Board
}

type DeleteBoardInput struct {
	ID uuid.UUID `path:"id" doc:"Board ID"`
}

type CardOrderItem struct {
	ID          uuid.UUID `json:"id" doc:"Card ID"`
	ColumnID    uuid.UUID `json:"column_id" doc:"Column the card belongs to after the move"`
	Title       string    `json:"title" minLength:"1" doc:"Card title"`
	Description string    `json:"description,omitempty" doc:"Card description"`
}

type ReorderCardsInput struct {
	ID   uuid.UUID `path:"id" doc:"Board ID"`
	Body struct {
		Cards []CardOrderItem `json:"cards" doc:"Every card of the board in display order; order is the index"`
	}
}

func RegisterBoardRoutes(api huma.API, store DataStore, searcher BoardSearcher, pub ChangePublisher) {
	huma.Register(api, huma.Operation{
		OperationID: "list-boards",
		Method:      http.MethodGet,
		Path:        "/boards",
		Summary:     "Search boards by title",
		Tags:        []string{"Boards"},
	}, func(ctx context.Context, input *ListBoardsInput) (*ListBoardsOutput, error) {
		return &ListBoardsOutput{Body: searcher.Search(ctx, input.Query)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "create-board",
		Method:        http.MethodPost,
		Path:          "/boards",
		Summary:       "Create a board",
		Tags:          []string{"Boards"},
		DefaultStatus: http.StatusCreated,
	}, func(ctx context.Context, input *CreateBoardInput) (*CreateBoardOutput, error) {
		b, err := domain.NewBoard(input.Body.Title, input.Body.Description)
		if err != nil {
			return nil, huma.Error422UnprocessableEntity(err.Error())
		}

		if err := store.Boards().Create(ctx, b); err != nil {
			return nil, huma.Error500InternalServerError("failed to create board", err)
		}
		pub.Publish(ctx, b.ID, domain.OpInsert, b)

		return &CreateBoardOutput{Location: "/board/" + b.ID.String(), Body: b}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-board",
		Method:      http.MethodGet,
		Path:        "/boards/{id}",
		Summary:     "Get a board with its columns and cards",
		Tags:        []string{"Boards"},
	}, func(ctx context.Context, input *GetBoardInput) (*GetBoardOutput, error) {
		snap, err := store.Boards().Snapshot(ctx, input.ID)
		if err != nil {
			return nil, boardError(err, "failed to get board")
		}

		return &GetBoardOutput{Body: snap}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-board",
		Method:      http.MethodPut,
		Path:        "/boards/{id}",
		Summary:     "Edit a board's title and description",
		Tags:        []string{"Boards"},
	}, func(ctx context.Context, input *UpdateBoardInput) (*UpdateBoardOutput, error) {
		existing, err := store.Boards().GetByID(ctx, input.ID)
		if err != nil {
			return nil, boardError(err, "failed to get board")
		}

		edited, err := domain.NewBoard(input.Body.Title, input.Body.Description)
		if err != nil {
			return nil, huma.Error422UnprocessableEntity(err.Error())
		}
		existing.Title = edited.Title
		existing.Description = edited.Description

		if err := store.Boards().Update(ctx, existing); err != nil {
			return nil, boardError(err, "failed to update board")
		}

		return &UpdateBoardOutput{Body: existing}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "delete-board",
		Method:        http.MethodDelete,
		Path:          "/boards/{id}",
		Summary:       "Delete a board with its columns and cards",
		Tags:          []string{"Boards"},
		DefaultStatus: http.StatusNoContent,
	}, func(ctx context.Context, input *DeleteBoardInput) (*struct{}, error) {
		existing, err := store.Boards().GetByID(ctx, input.ID)
		if err != nil {
			return nil, boardError(err, "failed to get board")
		}

		if err := store.Boards().Delete(ctx, input.ID); err != nil {
			return nil, boardError(err, "failed to delete board")
		}
		pub.Publish(ctx, existing.ID, domain.OpDelete, existing)

		return nil, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "reorder-cards",
		Method:        http.MethodPut,
		Path:          "/boards/{id}/cards/order",
		Summary:       "Persist the display order of a board's cards",
		Tags:          []string{"Boards"},
		DefaultStatus: http.StatusNoContent,
	}, func(ctx context.Context, input *ReorderCardsInput) (*struct{}, error) {
		snap, err := store.Boards().Snapshot(ctx, input.ID)
		if err != nil {
			return nil, boardError(err, "failed to get board")
		}

		cards := make([]domain.Card, 0, len(input.Body.Cards))
		for _, item := range input.Body.Cards {
			if !snap.HasColumn(item.ColumnID) {
				return nil, huma.Error400BadRequest("column " + item.ColumnID.String() + " is not on this board")
			}
			cards = append(cards, domain.Card{
				ID:          item.ID,
				ColumnID:    item.ColumnID,
				Title:       item.Title,
				Description: item.Description,
			})
		}

		if err := store.Cards().UpsertOrder(ctx, domain.OrderFromList(cards)); err != nil {
			return nil, huma.Error500InternalServerError("failed to update card order", err)
		}

		return nil, nil
	})
}

// boardError maps repository errors to HTTP errors shared by the board,
// column and card handlers.
func boardError(err error, msg string) error {
	if errors.Is(err, domain.ErrNotFound) {
		return huma.Error404NotFound("not found")
	}
	if errors.Is(err, domain.ErrTitleTooShort) {
		return huma.Error422UnprocessableEntity(err.Error())
	}
	return huma.Error500InternalServerError(msg, err)
}
