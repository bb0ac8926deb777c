package routers

import (
	"github.com/go-chi/chi/v5"

	"github.com/yogaputrap/createsync-platform/internal/handlers"
	project_handler "github.com/yogaputrap/createsync-platform/internal/handlers/project-handler"
	"github.com/yogaputrap/createsync-platform/internal/middleware"
	"github.com/yogaputrap/createsync-platform/state"
)

func ProjectRouter(r chi.Router, state *state.AppState) {
	projectHandler := project_handler.NewProjectHandler(state)
	r.Group(func(protected chi.Router) {
		protected.Use(middleware.JWTAuth(state.JwtSecret.Public))
		protected.Post("/api/v1/projects", handlers.WrapHandler(projectHandler.CreateProject))
		protected.Get("/api/v1/projects", handlers.WrapHandler(projectHandler.ListMyProjects))
		protected.Get("/api/v1/projects/{projectId}", handlers.WrapHandler(projectHandler.GetProject))
	})
}
