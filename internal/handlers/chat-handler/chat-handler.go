package chat_handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/yogaputrap/createsync-platform/internal/dtos/chat_dto"
	app_error "github.com/yogaputrap/createsync-platform/internal/errors"
	"github.com/yogaputrap/createsync-platform/internal/handlers"
	"github.com/yogaputrap/createsync-platform/internal/middleware"
	chat_service "github.com/yogaputrap/createsync-platform/internal/use-case/chat-case"
	"github.com/yogaputrap/createsync-platform/state"
)

// ChatHandler serves message history over REST. Live delivery happens on
// the websocket gateway; these endpoints back the initial room render.
type ChatHandler struct {
	State   *state.AppState
	Service chat_service.ChatServiceContract
}

func NewChatHandler(state *state.AppState) *ChatHandler {
	return &ChatHandler{
		State:   state,
		Service: chat_service.NewChatService(state),
	}
}

func (h *ChatHandler) ListRootMessages(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	userID, ok := r.Context().Value(middleware.UserClaimsKey).(string)
	if !ok || userID == "" {
		return app_error.Unauthorized("missing user claims", "auth")
	}

	raw := chi.URLParam(r, "projectId")
	id, parseErr := strconv.ParseUint(raw, 10, 64)
	if parseErr != nil || id == 0 {
		return app_error.NewAppError(http.StatusBadRequest, "invalid project id", "projectId")
	}

	rows, err := h.Service.ListRootMessages(r.Context(), uint(id), userID)
	if err != nil {
		return err
	}

	reqID, ok := r.Context().Value(middleware.RequestIdKey).(string)
	if !ok {
		reqID = "unknown"
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(handlers.CreateResponse("messages retrieved", chat_dto.ListMessagesResponse{Messages: rows}, reqID))

	return nil
}

func (h *ChatHandler) ListReplies(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	userID, ok := r.Context().Value(middleware.UserClaimsKey).(string)
	if !ok || userID == "" {
		return app_error.Unauthorized("missing user claims", "auth")
	}

	raw := chi.URLParam(r, "messageId")
	id, parseErr := strconv.ParseUint(raw, 10, 64)
	if parseErr != nil || id == 0 {
		return app_error.NewAppError(http.StatusBadRequest, "invalid message id", "messageId")
	}

	rows, err := h.Service.ListReplies(r.Context(), uint(id), userID)
	if err != nil {
		return err
	}

	reqID, ok := r.Context().Value(middleware.RequestIdKey).(string)
	if !ok {
		reqID = "unknown"
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(handlers.CreateResponse("replies retrieved", chat_dto.ListMessagesResponse{Messages: rows}, reqID))

	return nil
}
