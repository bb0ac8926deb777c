package routers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yogaputrap/createsync-platform/internal/middleware"
	"github.com/yogaputrap/createsync-platform/internal/websocket"
	"github.com/yogaputrap/createsync-platform/state"
)

func NewRouter(state *state.AppState, wsHub *websocket.Hub, wsHandler *websocket.WebSocketHandler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.WithRequestId)
	r.Use(middleware.GetDeviceFingerprint)
	UserRouter(r, state)
	ProjectRouter(r, state)
	InviteRouter(r, state)
	ChatRouter(r, state)
	HubRouter(r, wsHub, wsHandler)
	return r
}
