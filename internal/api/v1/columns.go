package v1

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/gosuda/kanban/internal/domain"
)

type CreateColumnInput struct {
	BoardID uuid.UUID `path:"id" doc:"Board ID"`
	Body    struct {
		Title string `json:"title" minLength:"1" maxLength:"200" doc:"Column title"`
	}
}

type ColumnOutput struct {
	Body *domain.Column
}

type UpdateColumnInput struct {
	ID   uuid.UUID `path:"id" doc:"Column ID"`
	Body struct {
		Title string `json:"title" minLength:"1" maxLength:"200" doc:"Column title"`
	}
}

type ListColumnsInput struct {
	BoardID uuid.UUID `path:"id" doc:"Board ID"`
}

type ListColumnsOutput struct {
	Body []*domain.Column
}

type DeleteColumnInput struct {
	ID uuid.UUID `path:"id" doc:"Column ID"`
}

func RegisterColumnRoutes(api huma.API, store DataStore, pub ChangePublisher) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-column",
		Method:        http.MethodPost,
		Path:          "/boards/{id}/columns",
		Summary:       "Add a column to a board",
		Tags:          []string{"Columns"},
		DefaultStatus: http.StatusCreated,
	}, func(ctx context.Context, input *CreateColumnInput) (*ColumnOutput, error) {
		col, err := domain.NewColumn(input.BoardID, input.Body.Title)
		if err != nil {
			return nil, huma.Error422UnprocessableEntity(err.Error())
		}

		if _, err := store.Boards().GetByID(ctx, input.BoardID); err != nil {
			return nil, boardError(err, "failed to get board")
		}

		if err := store.Columns().Create(ctx, col); err != nil {
			return nil, huma.Error500InternalServerError("failed to create column", err)
		}
		pub.Publish(ctx, col.BoardID, domain.OpInsert, col)

		return &ColumnOutput{Body: col}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-column",
		Method:      http.MethodPut,
		Path:        "/columns/{id}",
		Summary:     "Rename a column",
		Tags:        []string{"Columns"},
	}, func(ctx context.Context, input *UpdateColumnInput) (*ColumnOutput, error) {
		existing, err := store.Columns().GetByID(ctx, input.ID)
		if err != nil {
			return nil, boardError(err, "failed to get column")
		}

		existing.Title = input.Body.Title
		if err := store.Columns().Update(ctx, existing); err != nil {
			return nil, boardError(err, "failed to update column")
		}

		return &ColumnOutput{Body: existing}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-columns",
		Method:      http.MethodGet,
		Path:        "/boards/{id}/columns",
		Summary:     "List a board's columns in creation order",
		Tags:        []string{"Columns"},
	}, func(ctx context.Context, input *ListColumnsInput) (*ListColumnsOutput, error) {
		if _, err := store.Boards().GetByID(ctx, input.BoardID); err != nil {
			return nil, boardError(err, "failed to get board")
		}

		cols, err := store.Columns().ListByBoard(ctx, input.BoardID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list columns", err)
		}
		if cols == nil {
			cols = []*domain.Column{}
		}

		return &ListColumnsOutput{Body: cols}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "delete-column",
		Method:        http.MethodDelete,
		Path:          "/columns/{id}",
		Summary:       "Delete a column and its cards",
		Tags:          []string{"Columns"},
		DefaultStatus: http.StatusNoContent,
	}, func(ctx context.Context, input *DeleteColumnInput) (*struct{}, error) {
		existing, err := store.Columns().GetByID(ctx, input.ID)
		if err != nil {
			return nil, boardError(err, "failed to get column")
		}

		if err := store.Columns().Delete(ctx, input.ID); err != nil {
			return nil, boardError(err, "failed to delete column")
		}
		pub.Publish(ctx, existing.BoardID, domain.OpDelete, existing)

		return nil, nil
	})
}
