package chat_service

import (
	"context"

	app_error "github.com/yogaputrap/createsync-platform/internal/errors"
	chat_repo "github.com/yogaputrap/createsync-platform/internal/repo/chat"
)

type ChatServiceContract interface {
	// SendMessage persists a message for a verified member. The returned
	// row carries everything the gateway needs to build the outbound
	// event; a non-nil ParentMessageID marks it as a thread reply.
	SendMessage(ctx context.Context, userID string, projectID uint, content string, parentID *uint) (*chat_repo.MessageRow, *app_error.AppError)

	ListRootMessages(ctx context.Context, projectID uint, userID string) ([]chat_repo.MessageRow, *app_error.AppError)
	ListReplies(ctx context.Context, parentID uint, userID string) ([]chat_repo.MessageRow, *app_error.AppError)

	// AuthorizeThread checks that the message exists and that the user is
	// a member of its project. Room subscriptions are never granted on
	// client-supplied trust alone.
	AuthorizeThread(ctx context.Context, messageID uint, userID string) *app_error.AppError
}
