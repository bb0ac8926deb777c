package invite_service

import (
	"context"

	"github.com/yogaputrap/createsync-platform/internal/dtos/invite_dto"
	app_error "github.com/yogaputrap/createsync-platform/internal/errors"
	project_repo "github.com/yogaputrap/createsync-platform/internal/repo/project"
)

type InviteServiceContract interface {
	SendInvitation(ctx context.Context, req invite_dto.SendInvitationRequest, inviterID string) (*invite_dto.InvitationResponse, *app_error.AppError)
	ListMyPending(ctx context.Context, inviteeID string) ([]project_repo.PendingInvitationRow, *app_error.AppError)
	RespondInvitation(ctx context.Context, invitationID uint, userID, action string) (*invite_dto.InvitationResponse, *app_error.AppError)
}
