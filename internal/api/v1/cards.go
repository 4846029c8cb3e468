package v1

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/gosuda/kanban/internal/domain"
)

type CreateCardInput struct {
	ColumnID uuid.UUID `path:"id" doc:"Column ID"`
	Body     struct {
		Title       string `json:"title" minLength:"1" maxLength:"500" doc:"Card title"`
		Description string `json:"description,omitempty" doc:"Card description"`
	}
}

type CardOutput struct {
	Body *domain.Card
}

type UpdateCardInput struct {
	ID   uuid.UUID `path:"id" doc:"Card ID"`
	Body struct {
		Title       string `json:"title" minLength:"1" maxLength:"500" doc:"Card title"`
		Description string `json:"description,omitempty" doc:"Card description"`
	}
}

type ListCardsInput struct {
	ColumnID uuid.UUID `path:"id" doc:"Column ID"`
}

type ListCardsOutput struct {
	Body []*domain.Card
}

type DeleteCardInput struct {
	ID uuid.UUID `path:"id" doc:"Card ID"`
}

func RegisterCardRoutes(api huma.API, store DataStore, pub ChangePublisher) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-card",
		Method:        http.MethodPost,
		Path:          "/columns/{id}/cards",
		Summary:       "Add a card at the end of a column",
		Tags:          []string{"Cards"},
		DefaultStatus: http.StatusCreated,
	}, func(ctx context.Context, input *CreateCardInput) (*CardOutput, error) {
		// Validate before the first store call.
		if _, err := domain.NewCard(input.ColumnID, input.Body.Title, input.Body.Description, 0); err != nil {
			return nil, huma.Error422UnprocessableEntity(err.Error())
		}

		col, err := store.Columns().GetByID(ctx, input.ColumnID)
		if err != nil {
			return nil, boardError(err, "failed to get column")
		}

		n, err := store.Cards().CountByColumn(ctx, input.ColumnID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to count cards", err)
		}

		card, err := domain.NewCard(input.ColumnID, input.Body.Title, input.Body.Description, n)
		if err != nil {
			return nil, huma.Error422UnprocessableEntity(err.Error())
		}

		if err := store.Cards().Create(ctx, card); err != nil {
			return nil, huma.Error500InternalServerError("failed to create card", err)
		}
		pub.Publish(ctx, col.BoardID, domain.OpInsert, card)

		return &CardOutput{Body: card}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-card",
		Method:      http.MethodPut,
		Path:        "/cards/{id}",
		Summary:     "Edit a card's title and description",
		Tags:        []string{"Cards"},
	}, func(ctx context.Context, input *UpdateCardInput) (*CardOutput, error) {
		existing, err := store.Cards().GetByID(ctx, input.ID)
		if err != nil {
			return nil, boardError(err, "failed to get card")
		}

		existing.Title = input.Body.Title
		existing.Description = input.Body.Description
		if err := store.Cards().Update(ctx, existing); err != nil {
			return nil, boardError(err, "failed to update card")
		}

		return &CardOutput{Body: existing}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-cards",
		Method:      http.MethodGet,
		Path:        "/columns/{id}/cards",
		Summary:     "List a column's cards in ascending order",
		Tags:        []string{"Cards"},
	}, func(ctx context.Context, input *ListCardsInput) (*ListCardsOutput, error) {
		if _, err := store.Columns().GetByID(ctx, input.ColumnID); err != nil {
			return nil, boardError(err, "failed to get column")
		}

		cards, err := store.Cards().ListByColumn(ctx, input.ColumnID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list cards", err)
		}
		if cards == nil {
			cards = []*domain.Card{}
		}

		return &ListCardsOutput{Body: cards}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "delete-card",
		Method:        http.MethodDelete,
		Path:          "/cards/{id}",
		Summary:       "Delete a card",
		Tags:          []string{"Cards"},
		DefaultStatus: http.StatusNoContent,
	}, func(ctx context.Context, input *DeleteCardInput) (*struct{}, error) {
		existing, err := store.Cards().GetByID(ctx, input.ID)
		if err != nil {
			return nil, boardError(err, "failed to get card")
		}

		// Without the column only the schema-wide event goes out.
		boardID := uuid.Nil
		if col, colErr := store.Columns().GetByID(ctx, existing.ColumnID); colErr == nil {
			boardID = col.BoardID
		}

		if err := store.Cards().Delete(ctx, input.ID); err != nil {
			return nil, boardError(err, "failed to delete card")
		}
		pub.Publish(ctx, boardID, domain.OpDelete, existing)

		return nil, nil
	})
}
