package chat_repo

import (
	"context"
	"time"

	"github.com/yogaputrap/createsync-platform/internal/entity"
	app_error "github.com/yogaputrap/createsync-platform/internal/errors"
)

// MessageRow is a message annotated with its sender name and, for root
// messages, a reply count computed from the store at read time.
type MessageRow struct {
	ID              uint      `json:"message_id"`
	ProjectID       uint      `json:"project_id"`
	UserID          string    `json:"user_id"`
	SenderName      string    `json:"sender_name"`
	Content         string    `json:"content"`
	ParentMessageID *uint     `json:"parent_message_id,omitempty"`
	SentAt          time.Time `json:"sent_at"`
	ReplyCount      int64     `json:"reply_count"`
}

type ChatRepoContract interface {
	// Append persists a message. With a parent id it verifies, inside the
	// insert transaction, that the parent exists, is itself a root message
	// and belongs to the same project. Once committed the message is
	// permanent regardless of delivery outcome.
	Append(ctx context.Context, msg *entity.ChatMessage) *app_error.AppError

	FindMessageByID(ctx context.Context, messageID uint) (*entity.ChatMessage, *app_error.AppError)

	// ListRootMessages returns root messages in creation order (sent_at
	// ascending, id as tiebreak), each with its computed reply count.
	ListRootMessages(ctx context.Context, projectID uint) ([]MessageRow, *app_error.AppError)

	// ListReplies returns the replies of one root message in creation order.
	ListReplies(ctx context.Context, parentID uint) ([]MessageRow, *app_error.AppError)
}
