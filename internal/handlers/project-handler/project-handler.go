package project_handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/yogaputrap/createsync-platform/internal/dtos/project_dto"
	app_error "github.com/yogaputrap/createsync-platform/internal/errors"
	"github.com/yogaputrap/createsync-platform/internal/handlers"
	"github.com/yogaputrap/createsync-platform/internal/middleware"
	project_service "github.com/yogaputrap/createsync-platform/internal/use-case/project-case"
	"github.com/yogaputrap/createsync-platform/state"
)

type ProjectHandler struct {
	State    *state.AppState
	Validate *validator.Validate
	Service  project_service.ProjectServiceContract
}

func NewProjectHandler(state *state.AppState) *ProjectHandler {
	return &ProjectHandler{
		State:    state,
		Validate: validator.New(),
		Service:  project_service.NewProjectService(state),
	}
}

func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	userID, ok := r.Context().Value(middleware.UserClaimsKey).(string)
	if !ok || userID == "" {
		return app_error.Unauthorized("missing user claims", "auth")
	}

	var req project_dto.CreateProjectRequest
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return app_error.NewAppError(http.StatusBadRequest, "Invalid JSON", "body")
	}

	if err := h.Validate.Struct(req); err != nil {
		return app_error.NewAppError(http.StatusBadRequest, fmt.Sprintf("Invalid fields: %v", err), "validation")
	}

	resp, err := h.Service.CreateProject(r.Context(), req, userID)
	if err != nil {
		return err
	}

	reqID, ok := r.Context().Value(middleware.RequestIdKey).(string)
	if !ok {
		reqID = "unknown"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(handlers.CreateResponse("project created successfully", *resp, reqID))

	return nil
}

func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	userID, ok := r.Context().Value(middleware.UserClaimsKey).(string)
	if !ok || userID == "" {
		return app_error.Unauthorized("missing user claims", "auth")
	}

	projectID, appErr := parseProjectID(r)
	if appErr != nil {
		return appErr
	}

	resp, err := h.Service.GetProject(r.Context(), projectID, userID)
	if err != nil {
		return err
	}

	reqID, ok := r.Context().Value(middleware.RequestIdKey).(string)
	if !ok {
		reqID = "unknown"
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(handlers.CreateResponse("project retrieved", *resp, reqID))

	return nil
}

func (h *ProjectHandler) ListMyProjects(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	userID, ok := r.Context().Value(middleware.UserClaimsKey).(string)
	if !ok || userID == "" {
		return app_error.Unauthorized("missing user claims", "auth")
	}

	resp, err := h.Service.ListMyProjects(r.Context(), userID)
	if err != nil {
		return err
	}

	reqID, ok := r.Context().Value(middleware.RequestIdKey).(string)
	if !ok {
		reqID = "unknown"
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(handlers.CreateResponse("projects retrieved", resp, reqID))

	return nil
}

func parseProjectID(r *http.Request) (uint, *app_error.AppError) {
	raw := chi.URLParam(r, "projectId")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, app_error.NewAppError(http.StatusBadRequest, "invalid project id", "projectId")
	}
	return uint(id), nil
}
