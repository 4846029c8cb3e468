package server

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"

	v1 "github.com/gosuda/kanban/internal/api/v1"
	"github.com/gosuda/kanban/internal/api/ws"
)

func registerAPIRoutes(api huma.API, store v1.DataStore, searcher v1.BoardSearcher, pub v1.ChangePublisher) {
	v1.RegisterBoardRoutes(api, store, searcher, pub)
	v1.RegisterColumnRoutes(api, store, pub)
	v1.RegisterCardRoutes(api, store, pub)
}

func registerWSRoutes(r chi.Router, hub *ws.Hub) {
	r.Get("/board/{boardID}", hub.ServeBoard)
}
