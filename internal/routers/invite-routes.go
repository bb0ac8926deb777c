package routers

import (
	"github.com/go-chi/chi/v5"

	"github.com/yogaputrap/createsync-platform/internal/handlers"
	invite_handler "github.com/yogaputrap/createsync-platform/internal/handlers/invite-handler"
	"github.com/yogaputrap/createsync-platform/internal/middleware"
	"github.com/yogaputrap/createsync-platform/state"
)

func InviteRouter(r chi.Router, state *state.AppState) {
	inviteHandler := invite_handler.NewInviteHandler(state)
	r.Group(func(protected chi.Router) {
		protected.Use(middleware.JWTAuth(state.JwtSecret.Public))
		protected.Post("/api/v1/invitations", handlers.WrapHandler(inviteHandler.SendInvitation))
		protected.Get("/api/v1/invitations", handlers.WrapHandler(inviteHandler.ListMyPending))
		protected.Post("/api/v1/invitations/{invitationId}/respond", handlers.WrapHandler(inviteHandler.RespondInvitation))
	})
}
