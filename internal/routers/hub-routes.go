package routers

import (
	"github.com/go-chi/chi/v5"

	"github.com/yogaputrap/createsync-platform/internal/handlers"
	hub_handler "github.com/yogaputrap/createsync-platform/internal/handlers/hub-handler"
	"github.com/yogaputrap/createsync-platform/internal/websocket"
)

func HubRouter(r chi.Router, wsHub *websocket.Hub, wsHandler *websocket.WebSocketHandler) {
	hubHandler := hub_handler.NewHubHandler(wsHub)

	r.Get("/ws", wsHandler.HandleWS)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", hubHandler.HandleHealth)
		r.Get("/stats", handlers.WrapHandler(hubHandler.HandleGetStats))

		r.Get("/rooms/{roomId}/size", handlers.WrapHandler(hubHandler.HandleGetRoomSize))
		r.Get("/users/{userId}/status", handlers.WrapHandler(hubHandler.HandleGetUserStatus))
	})
}
