package v1_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/gosuda/kanban/internal/api/v1"
	"github.com/gosuda/kanban/internal/domain"
)

func TestCreateColumn(t *testing.T) {
	t.Parallel()

	boardID := uuid.New()

	t.Run("happy_path", func(t *testing.T) {
		t.Parallel()

		pub := &recordingPublisher{}
		_, api := humatest.New(t)
		store := &mockDataStore{
			boards: &mockBoardRepo{getByIDFunc: func(_ context.Context, id uuid.UUID) (*domain.Board, error) {
				return &domain.Board{ID: id}, nil
			}},
			columns: &mockColumnRepo{createFunc: func(_ context.Context, c *domain.Column) error {
				assert.Equal(t, boardID, c.BoardID)
				assert.Equal(t, "Todo", c.Title)
				return nil
			}},
		}
		v1.RegisterColumnRoutes(api, store, pub)

		resp := api.Post("/boards/"+boardID.String()+"/columns", map[string]any{"title": "Todo"})

		require.Equal(t, http.StatusCreated, resp.Code)
		var body domain.Column
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.NotEqual(t, uuid.Nil, body.ID)

		events := pub.all()
		require.Len(t, events, 1)
		assert.Equal(t, boardID, events[0].boardID)
		assert.Equal(t, domain.OpInsert, events[0].op)
		assert.IsType(t, &domain.Column{}, events[0].row)
	})

	t.Run("empty_title", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		v1.RegisterColumnRoutes(api, &mockDataStore{boards: &mockBoardRepo{}, columns: &mockColumnRepo{}}, &recordingPublisher{})

		resp := api.Post("/boards/"+boardID.String()+"/columns", map[string]any{"title": ""})

		assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	})

	t.Run("board_not_found", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{
			boards: &mockBoardRepo{getByIDFunc: func(context.Context, uuid.UUID) (*domain.Board, error) {
				return nil, domain.ErrNotFound
			}},
			columns: &mockColumnRepo{},
		}
		v1.RegisterColumnRoutes(api, store, &recordingPublisher{})

		resp := api.Post("/boards/"+boardID.String()+"/columns", map[string]any{"title": "Todo"})

		assert.Equal(t, http.StatusNotFound, resp.Code)
	})
}

func TestUpdateColumn(t *testing.T) {
	t.Parallel()

	columnID := uuid.New()

	var updated *domain.Column
	_, api := humatest.New(t)
	store := &mockDataStore{columns: &mockColumnRepo{
		getByIDFunc: func(_ context.Context, id uuid.UUID) (*domain.Column, error) {
			return &domain.Column{ID: id, BoardID: uuid.New(), Title: "Old"}, nil
		},
		updateFunc: func(_ context.Context, c *domain.Column) error {
			updated = c
			return nil
		},
	}}
	v1.RegisterColumnRoutes(api, store, &recordingPublisher{})

	resp := api.Put("/columns/"+columnID.String(), map[string]any{"title": "New"})

	require.Equal(t, http.StatusOK, resp.Code)
	require.NotNil(t, updated)
	assert.Equal(t, "New", updated.Title)
}

func TestDeleteColumn(t *testing.T) {
	t.Parallel()

	columnID, boardID := uuid.New(), uuid.New()

	t.Run("happy_path", func(t *testing.T) {
		t.Parallel()

		pub := &recordingPublisher{}
		_, api := humatest.New(t)
		store := &mockDataStore{columns: &mockColumnRepo{
			getByIDFunc: func(_ context.Context, id uuid.UUID) (*domain.Column, error) {
				return &domain.Column{ID: id, BoardID: boardID, Title: "Todo"}, nil
			},
			deleteFunc: func(_ context.Context, id uuid.UUID) error {
				assert.Equal(t, columnID, id)
				return nil
			},
		}}
		v1.RegisterColumnRoutes(api, store, pub)

		resp := api.Delete("/columns/" + columnID.String())

		require.Equal(t, http.StatusNoContent, resp.Code)
		events := pub.all()
		require.Len(t, events, 1)
		assert.Equal(t, boardID, events[0].boardID)
		assert.Equal(t, domain.OpDelete, events[0].op)
	})

	t.Run("delete_race_not_found", func(t *testing.T) {
		t.Parallel()

		pub := &recordingPublisher{}
		_, api := humatest.New(t)
		store := &mockDataStore{columns: &mockColumnRepo{
			getByIDFunc: func(_ context.Context, id uuid.UUID) (*domain.Column, error) {
				return &domain.Column{ID: id, BoardID: boardID}, nil
			},
			deleteFunc: func(context.Context, uuid.UUID) error { return domain.ErrNotFound },
		}}
		v1.RegisterColumnRoutes(api, store, pub)

		resp := api.Delete("/columns/" + columnID.String())

		assert.Equal(t, http.StatusNotFound, resp.Code)
		assert.Empty(t, pub.all())
	})
}

func TestListColumns(t *testing.T) {
	t.Parallel()

	boardID := uuid.New()

	t.Run("happy_path", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{
			boards: &mockBoardRepo{getByIDFunc: func(_ context.Context, id uuid.UUID) (*domain.Board, error) {
				return &domain.Board{ID: id}, nil
			}},
			columns: &mockColumnRepo{listByBoardFunc: func(_ context.Context, id uuid.UUID) ([]*domain.Column, error) {
				assert.Equal(t, boardID, id)
				return []*domain.Column{{ID: uuid.New(), BoardID: id, Title: "Todo"}}, nil
			}},
		}
		v1.RegisterColumnRoutes(api, store, &recordingPublisher{})

		resp := api.Get("/boards/" + boardID.String() + "/columns")

		require.Equal(t, http.StatusOK, resp.Code)
		var body []domain.Column
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		require.Len(t, body, 1)
		assert.Equal(t, "Todo", body[0].Title)
	})

	t.Run("board_not_found", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{boards: &mockBoardRepo{
			getByIDFunc: func(context.Context, uuid.UUID) (*domain.Board, error) { return nil, domain.ErrNotFound },
		}}
		v1.RegisterColumnRoutes(api, store, &recordingPublisher{})

		resp := api.Get("/boards/" + boardID.String() + "/columns")

		assert.Equal(t, http.StatusNotFound, resp.Code)
	})
}
