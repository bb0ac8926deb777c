package chat_service

import (
	"context"
	"net/http"
	"strings"

	"github.com/yogaputrap/createsync-platform/internal/entity"
	app_error "github.com/yogaputrap/createsync-platform/internal/errors"
	chat_repo "github.com/yogaputrap/createsync-platform/internal/repo/chat"
	project_repo "github.com/yogaputrap/createsync-platform/internal/repo/project"
	user_repo "github.com/yogaputrap/createsync-platform/internal/repo/user"
	"github.com/yogaputrap/createsync-platform/state"
)

type ChatService struct {
	AppState    *state.AppState
	ChatRepo    chat_repo.ChatRepoContract
	ProjectRepo project_repo.ProjectRepoContract
	UserRepo    user_repo.UserRepoContract
}

func NewChatService(appState *state.AppState) ChatServiceContract {
	return &ChatService{
		AppState:    appState,
		ChatRepo:    chat_repo.NewChatRepo(appState),
		ProjectRepo: project_repo.NewProjectRepo(appState),
		UserRepo:    user_repo.NewUserRepo(appState),
	}
}

func (c *ChatService) SendMessage(ctx context.Context, userID string, projectID uint, content string, parentID *uint) (*chat_repo.MessageRow, *app_error.AppError) {
	if strings.TrimSpace(content) == "" {
		return nil, app_error.NewAppError(http.StatusBadRequest, "message content is empty", "content")
	}

	role, err := c.ProjectRepo.GetRole(ctx, projectID, userID)
	if err != nil {
		return nil, err
	}
	if role == "" {
		return nil, app_error.NewAppError(http.StatusForbidden, "not a member of this project", "membership")
	}

	msg := &entity.ChatMessage{
		ProjectID:       projectID,
		UserID:          userID,
		Content:         content,
		ParentMessageID: parentID,
	}

	if err := c.ChatRepo.Append(ctx, msg); err != nil {
		return nil, err
	}

	senderName := ""
	if user, err := c.UserRepo.FindUserByID(ctx, userID); err == nil {
		senderName = user.FullName
	}

	return &chat_repo.MessageRow{
		ID:              msg.ID,
		ProjectID:       msg.ProjectID,
		UserID:          msg.UserID,
		SenderName:      senderName,
		Content:         msg.Content,
		ParentMessageID: msg.ParentMessageID,
		SentAt:          msg.SentAt,
	}, nil
}

func (c *ChatService) ListRootMessages(ctx context.Context, projectID uint, userID string) ([]chat_repo.MessageRow, *app_error.AppError) {
	role, err := c.ProjectRepo.GetRole(ctx, projectID, userID)
	if err != nil {
		return nil, err
	}
	if role == "" {
		return nil, app_error.NewAppError(http.StatusForbidden, "not a member of this project", "membership")
	}

	return c.ChatRepo.ListRootMessages(ctx, projectID)
}

func (c *ChatService) AuthorizeThread(ctx context.Context, messageID uint, userID string) *app_error.AppError {
	msg, err := c.ChatRepo.FindMessageByID(ctx, messageID)
	if err != nil {
		return err
	}

	role, err := c.ProjectRepo.GetRole(ctx, msg.ProjectID, userID)
	if err != nil {
		return err
	}
	if role == "" {
		return app_error.NewAppError(http.StatusForbidden, "not a member of this project", "membership")
	}

	return nil
}

func (c *ChatService) ListReplies(ctx context.Context, parentID uint, userID string) ([]chat_repo.MessageRow, *app_error.AppError) {
	parent, err := c.ChatRepo.FindMessageByID(ctx, parentID)
	if err != nil {
		return nil, err
	}

	role, err := c.ProjectRepo.GetRole(ctx, parent.ProjectID, userID)
	if err != nil {
		return nil, err
	}
	if role == "" {
		return nil, app_error.NewAppError(http.StatusForbidden, "not a member of this project", "membership")
	}

	return c.ChatRepo.ListReplies(ctx, parentID)
}
