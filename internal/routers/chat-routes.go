package routers

import (
	"github.com/go-chi/chi/v5"

	"github.com/yogaputrap/createsync-platform/internal/handlers"
	chat_handler "github.com/yogaputrap/createsync-platform/internal/handlers/chat-handler"
	"github.com/yogaputrap/createsync-platform/internal/middleware"
	"github.com/yogaputrap/createsync-platform/state"
)

func ChatRouter(r chi.Router, state *state.AppState) {
	chatHandler := chat_handler.NewChatHandler(state)
	r.Group(func(protected chi.Router) {
		protected.Use(middleware.JWTAuth(state.JwtSecret.Public))
		protected.Get("/api/v1/projects/{projectId}/messages", handlers.WrapHandler(chatHandler.ListRootMessages))
		protected.Get("/api/v1/messages/{messageId}/replies", handlers.WrapHandler(chatHandler.ListReplies))
	})
}
