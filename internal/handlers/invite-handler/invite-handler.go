package invite_handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/yogaputrap/createsync-platform/internal/dtos/invite_dto"
	app_error "github.com/yogaputrap/createsync-platform/internal/errors"
	"github.com/yogaputrap/createsync-platform/internal/handlers"
	"github.com/yogaputrap/createsync-platform/internal/middleware"
	invite_service "github.com/yogaputrap/createsync-platform/internal/use-case/invite-case"
	"github.com/yogaputrap/createsync-platform/state"
)

type InviteHandler struct {
	State    *state.AppState
	Validate *validator.Validate
	Service  invite_service.InviteServiceContract
}

func NewInviteHandler(state *state.AppState) *InviteHandler {
	return &InviteHandler{
		State:    state,
		Validate: validator.New(),
		Service:  invite_service.NewInviteService(state),
	}
}

func (h *InviteHandler) SendInvitation(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	userID, ok := r.Context().Value(middleware.UserClaimsKey).(string)
	if !ok || userID == "" {
		return app_error.Unauthorized("missing user claims", "auth")
	}

	var req invite_dto.SendInvitationRequest
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return app_error.NewAppError(http.StatusBadRequest, "Invalid JSON", "body")
	}

	if err := h.Validate.Struct(req); err != nil {
		return app_error.NewAppError(http.StatusBadRequest, fmt.Sprintf("Invalid fields: %v", err), "validation")
	}

	resp, err := h.Service.SendInvitation(r.Context(), req, userID)
	if err != nil {
		return err
	}

	reqID, ok := r.Context().Value(middleware.RequestIdKey).(string)
	if !ok {
		reqID = "unknown"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(handlers.CreateResponse("invitation sent", *resp, reqID))

	return nil
}

func (h *InviteHandler) ListMyPending(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	userID, ok := r.Context().Value(middleware.UserClaimsKey).(string)
	if !ok || userID == "" {
		return app_error.Unauthorized("missing user claims", "auth")
	}

	resp, err := h.Service.ListMyPending(r.Context(), userID)
	if err != nil {
		return err
	}

	reqID, ok := r.Context().Value(middleware.RequestIdKey).(string)
	if !ok {
		reqID = "unknown"
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(handlers.CreateResponse("pending invitations retrieved", resp, reqID))

	return nil
}

func (h *InviteHandler) RespondInvitation(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	userID, ok := r.Context().Value(middleware.UserClaimsKey).(string)
	if !ok || userID == "" {
		return app_error.Unauthorized("missing user claims", "auth")
	}

	raw := chi.URLParam(r, "invitationId")
	id, parseErr := strconv.ParseUint(raw, 10, 64)
	if parseErr != nil || id == 0 {
		return app_error.NewAppError(http.StatusBadRequest, "invalid invitation id", "invitationId")
	}

	var req invite_dto.RespondInvitationRequest
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return app_error.NewAppError(http.StatusBadRequest, "Invalid JSON", "body")
	}

	if err := h.Validate.Struct(req); err != nil {
		return app_error.NewAppError(http.StatusBadRequest, fmt.Sprintf("Invalid fields: %v", err), "validation")
	}

	resp, err := h.Service.RespondInvitation(r.Context(), uint(id), userID, req.Action)
	if err != nil {
		return err
	}

	reqID, ok := r.Context().Value(middleware.RequestIdKey).(string)
	if !ok {
		reqID = "unknown"
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(handlers.CreateResponse("invitation "+resp.Status, *resp, reqID))

	return nil
}
