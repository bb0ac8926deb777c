package chat_repo

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/yogaputrap/createsync-platform/internal/entity"
	app_error "github.com/yogaputrap/createsync-platform/internal/errors"
	"github.com/yogaputrap/createsync-platform/state"
)

type ChatRepo struct {
	AppState *state.AppState
}

func NewChatRepo(appState *state.AppState) ChatRepoContract {
	return &ChatRepo{
		AppState: appState,
	}
}

func (r *ChatRepo) Append(ctx context.Context, msg *entity.ChatMessage) *app_error.AppError {
	var appErr *app_error.AppError

	err := r.AppState.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if msg.ParentMessageID != nil {
			var parent entity.ChatMessage
			if err := tx.Where("id = ?", *msg.ParentMessageID).First(&parent).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					appErr = app_error.NewAppError(http.StatusNotFound, "parent message not found", "parent-message")
				} else {
					appErr = app_error.NewAppError(http.StatusInternalServerError, "failed to fetch parent message", "db-error")
				}
				return errors.New("abort")
			}

			// threads are exactly one level deep
			if parent.ParentMessageID != nil {
				appErr = app_error.NewAppError(http.StatusConflict, "cannot reply to a reply", "parent-message")
				return errors.New("abort")
			}

			if parent.ProjectID != msg.ProjectID {
				appErr = app_error.NewAppError(http.StatusConflict, "parent message belongs to another project", "parent-message")
				return errors.New("abort")
			}
		}

		return tx.Create(msg).Error
	})

	if err != nil {
		if appErr == nil {
			log.Error().Err(err).Uint("projectID", msg.ProjectID).Msg("failed to append message")
			appErr = app_error.NewAppError(http.StatusInternalServerError, "failed to save message", "db-error")
		}
		return appErr
	}

	return nil
}

func (r *ChatRepo) FindMessageByID(ctx context.Context, messageID uint) (*entity.ChatMessage, *app_error.AppError) {
	var msg entity.ChatMessage
	if err := r.AppState.DB.WithContext(ctx).Where("id = ?", messageID).First(&msg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, app_error.NewAppError(http.StatusNotFound, "message not found", "not-found")
		}
		return nil, app_error.NewAppError(http.StatusInternalServerError, "failed to fetch message", "db-error")
	}
	return &msg, nil
}

func (r *ChatRepo) ListRootMessages(ctx context.Context, projectID uint) ([]MessageRow, *app_error.AppError) {
	var rows []MessageRow

	err := r.AppState.DB.WithContext(ctx).
		Model(&entity.ChatMessage{}).
		Select(`chat_messages.id,
			chat_messages.project_id,
			chat_messages.user_id,
			chat_messages.content,
			chat_messages.parent_message_id,
			chat_messages.sent_at,
			users.full_name AS sender_name,
			(SELECT COUNT(*) FROM chat_messages replies
			 WHERE replies.parent_message_id = chat_messages.id) AS reply_count`).
		Joins("JOIN users ON users.id = chat_messages.user_id").
		Where("chat_messages.project_id = ? AND chat_messages.parent_message_id IS NULL", projectID).
		Order("chat_messages.sent_at ASC, chat_messages.id ASC").
		Scan(&rows).Error

	if err != nil {
		return nil, app_error.NewAppError(http.StatusInternalServerError, "failed to fetch messages", "db-error")
	}

	return rows, nil
}

func (r *ChatRepo) ListReplies(ctx context.Context, parentID uint) ([]MessageRow, *app_error.AppError) {
	var rows []MessageRow

	err := r.AppState.DB.WithContext(ctx).
		Model(&entity.ChatMessage{}).
		Select(`chat_messages.id,
			chat_messages.project_id,
			chat_messages.user_id,
			chat_messages.content,
			chat_messages.parent_message_id,
			chat_messages.sent_at,
			users.full_name AS sender_name`).
		Joins("JOIN users ON users.id = chat_messages.user_id").
		Where("chat_messages.parent_message_id = ?", parentID).
		Order("chat_messages.sent_at ASC, chat_messages.id ASC").
		Scan(&rows).Error

	if err != nil {
		return nil, app_error.NewAppError(http.StatusInternalServerError, "failed to fetch replies", "db-error")
	}

	return rows, nil
}
