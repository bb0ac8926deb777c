package websocket

import (
	"fmt"
	"time"

	chat_repo "github.com/yogaputrap/createsync-platform/internal/repo/chat"
	"github.com/yogaputrap/createsync-platform/internal/utils/types"
)

// Room identifiers are transient fan-out keys; they are never persisted
// and die with the connections subscribed to them. A thread room is
// independent of its parent project room.
func ProjectRoom(projectID uint) string {
	return fmt.Sprintf("project:%d", projectID)
}

func ThreadRoom(messageID uint) string {
	return fmt.Sprintf("thread:%d", messageID)
}

const (
	EventJoined     = "joined"
	EventMessage    = "message"
	EventInvitation = "invitation"
	EventError      = "error"
)

// OutgoingEvent is the closed set of event variants sent to clients.
// A "message" event is a root message or a reply depending on whether
// the embedded row carries a parent id.
type OutgoingEvent struct {
	Type       string                         `json:"type"`
	Room       string                         `json:"room,omitempty"`
	Message    *chat_repo.MessageRow          `json:"message,omitempty"`
	Invitation *types.NotifyInvitationPayload `json:"invitation,omitempty"`
	Reason     string                         `json:"reason,omitempty"`
	Timestamp  int64                          `json:"timestamp"`
}

func NewJoinAck(room string) OutgoingEvent {
	return OutgoingEvent{
		Type:      EventJoined,
		Room:      room,
		Timestamp: time.Now().Unix(),
	}
}

func NewMessageEvent(room string, msg *chat_repo.MessageRow) OutgoingEvent {
	return OutgoingEvent{
		Type:      EventMessage,
		Room:      room,
		Message:   msg,
		Timestamp: time.Now().Unix(),
	}
}

func NewInvitationEvent(payload *types.NotifyInvitationPayload) OutgoingEvent {
	return OutgoingEvent{
		Type:       EventInvitation,
		Invitation: payload,
		Timestamp:  time.Now().Unix(),
	}
}

func NewErrorEvent(reason string) OutgoingEvent {
	return OutgoingEvent{
		Type:      EventError,
		Reason:    reason,
		Timestamp: time.Now().Unix(),
	}
}

const (
	OpJoinRoom    = "join_room"
	OpSendMessage = "send_message"
	OpJoinThread  = "join_thread"
	OpLeaveThread = "leave_thread"
)

// IncomingFrame is one client operation. send_message carries the token
// again: identity is re-verified per message, never cached from the
// handshake.
type IncomingFrame struct {
	Op        string `json:"op"`
	Token     string `json:"token,omitempty"`
	ProjectID uint   `json:"project_id,omitempty"`
	MessageID uint   `json:"message_id,omitempty"`
	ParentID  *uint  `json:"parent_id,omitempty"`
	Content   string `json:"content,omitempty"`
}
