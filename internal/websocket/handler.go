package websocket

import (
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	app_error "github.com/yogaputrap/createsync-platform/internal/errors"
	project_repo "github.com/yogaputrap/createsync-platform/internal/repo/project"
	chat_service "github.com/yogaputrap/createsync-platform/internal/use-case/chat-case"
	"github.com/yogaputrap/createsync-platform/internal/utils"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// TODO: limit your cors, don't get true so easy in production
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WebSocketHandler is the messaging gateway: it owns the per-connection
// lifecycle and turns inbound frames into store writes and room
// publishes. It only ever touches the hub through its public methods, so
// the router could be swapped for a distributed backplane underneath it.
type WebSocketHandler struct {
	Hub           *Hub
	Chat          chat_service.ChatServiceContract
	Projects      project_repo.ProjectRepoContract
	authenticator AuthenticatorFunc
	publicKey     *rsa.PublicKey

	MaxConnections int64
	connCount      atomic.Int64
}

func NewWebSocketHandler(hub *Hub, authenticator AuthenticatorFunc, chat chat_service.ChatServiceContract, projects project_repo.ProjectRepoContract, publicKey *rsa.PublicKey) *WebSocketHandler {
	return &WebSocketHandler{
		Hub:            hub,
		Chat:           chat,
		Projects:       projects,
		authenticator:  authenticator,
		publicKey:      publicKey,
		MaxConnections: 10000,
	}
}

// HandleWS authenticates the handshake, upgrades, and starts the client
// pumps. The connection starts in no rooms; every subscription goes
// through an authorization-checked join op.
func (h *WebSocketHandler) HandleWS(w http.ResponseWriter, r *http.Request) {
	userID, err := h.authenticator(r)
	if err != nil {
		log.Warn().Err(err).Msg("ws: handshake rejected")
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	if h.connCount.Load() >= h.MaxConnections {
		http.Error(w, "too many connections", http.StatusServiceUnavailable)
		return
	}

	conn, upgradeErr := upgrader.Upgrade(w, r, nil)
	if upgradeErr != nil {
		log.Error().Err(upgradeErr).Msg("ws: upgrade failed")
		return
	}

	client := newClient(uuid.New().String(), userID, conn, h.Hub, h.handleFrame)
	h.connCount.Add(1)

	h.Hub.Track(client)
	client.Start()

	go func() {
		<-client.ctx.Done()
		h.connCount.Add(-1)
	}()
}

// handleFrame processes one client operation. Domain errors are sent as
// error events to the originating connection only; the connection is
// never closed for them.
func (h *WebSocketHandler) handleFrame(c *Client, data []byte) {
	var frame IncomingFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		c.SendEvent(NewErrorEvent("malformed frame"))
		return
	}

	switch frame.Op {
	case OpJoinRoom:
		h.handleJoinRoom(c, frame)
	case OpSendMessage:
		h.handleSendMessage(c, frame)
	case OpJoinThread:
		h.handleJoinThread(c, frame)
	case OpLeaveThread:
		h.Hub.Unsubscribe(ThreadRoom(frame.MessageID), c)
	default:
		c.SendEvent(NewErrorEvent("unknown operation"))
	}
}

func (h *WebSocketHandler) handleJoinRoom(c *Client, frame IncomingFrame) {
	// membership is checked against the store on every join; the client
	// identity alone is never trusted for a subscription
	role, err := h.Projects.GetRole(c.ctx, frame.ProjectID, c.UserID)
	if err != nil {
		c.SendEvent(NewErrorEvent("failed to join room"))
		return
	}
	if role == "" {
		c.SendEvent(NewErrorEvent("not a member of this project"))
		return
	}

	roomID := ProjectRoom(frame.ProjectID)
	h.Hub.Subscribe(roomID, c)
	c.SendEvent(NewJoinAck(roomID))
}

func (h *WebSocketHandler) handleJoinThread(c *Client, frame IncomingFrame) {
	if err := h.Chat.AuthorizeThread(c.ctx, frame.MessageID, c.UserID); err != nil {
		c.SendEvent(NewErrorEvent(err.Message))
		return
	}

	roomID := ThreadRoom(frame.MessageID)
	h.Hub.Subscribe(roomID, c)
	c.SendEvent(NewJoinAck(roomID))
}

func (h *WebSocketHandler) handleSendMessage(c *Client, frame IncomingFrame) {
	// fresh verification per message; a token that expired mid-session
	// rejects the message even though the handshake once passed
	claims, err := utils.ParseAndVerifySign(frame.Token, h.publicKey)
	if err != nil {
		c.SendEvent(NewErrorEvent("invalid or expired token"))
		return
	}

	row, appErr := h.Chat.SendMessage(c.ctx, claims.Sub, frame.ProjectID, frame.Content, frame.ParentID)
	if appErr != nil {
		c.SendEvent(NewErrorEvent(h.clientReason(appErr)))
		return
	}

	// append-then-publish: the row is persisted before anyone sees it.
	// A root message goes to the project room, a reply only to its
	// thread room, never both.
	if row.ParentMessageID != nil {
		h.Hub.Publish(ThreadRoom(*row.ParentMessageID), NewMessageEvent(ThreadRoom(*row.ParentMessageID), row))
	} else {
		h.Hub.Publish(ProjectRoom(row.ProjectID), NewMessageEvent(ProjectRoom(row.ProjectID), row))
	}
}

// clientReason decides what an error event may say: domain reasons pass
// through, infrastructure detail never does.
func (h *WebSocketHandler) clientReason(appErr *app_error.AppError) string {
	if appErr.Code >= http.StatusInternalServerError {
		return "temporary failure, please retry"
	}
	return appErr.Message
}
