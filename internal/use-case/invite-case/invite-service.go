package invite_service

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/yogaputrap/createsync-platform/internal/dtos/invite_dto"
	"github.com/yogaputrap/createsync-platform/internal/entity"
	app_error "github.com/yogaputrap/createsync-platform/internal/errors"
	"github.com/yogaputrap/createsync-platform/internal/queue"
	project_repo "github.com/yogaputrap/createsync-platform/internal/repo/project"
	user_repo "github.com/yogaputrap/createsync-platform/internal/repo/user"
	"github.com/yogaputrap/createsync-platform/internal/utils/types"
	"github.com/yogaputrap/createsync-platform/state"
)

type InviteService struct {
	AppState    *state.AppState
	ProjectRepo project_repo.ProjectRepoContract
	UserRepo    user_repo.UserRepoContract
	Producer    queue.Producer
}

func NewInviteService(appState *state.AppState) InviteServiceContract {
	return &InviteService{
		AppState:    appState,
		ProjectRepo: project_repo.NewProjectRepo(appState),
		UserRepo:    user_repo.NewUserRepo(appState),
		Producer:    queue.NewProducer(appState.Redis),
	}
}

func (s *InviteService) SendInvitation(ctx context.Context, req invite_dto.SendInvitationRequest, inviterID string) (*invite_dto.InvitationResponse, *app_error.AppError) {
	// only the project Owner may invite
	role, err := s.ProjectRepo.GetRole(ctx, req.ProjectID, inviterID)
	if err != nil {
		return nil, err
	}
	if role != entity.RoleOwner {
		return nil, app_error.NewAppError(http.StatusForbidden, "only the project owner can send invitations", "role")
	}

	if _, err := s.UserRepo.FindUserByID(ctx, req.InviteeID); err != nil {
		return nil, err
	}

	inviteeRole, err := s.ProjectRepo.GetRole(ctx, req.ProjectID, req.InviteeID)
	if err != nil {
		return nil, err
	}
	if inviteeRole != "" {
		return nil, app_error.NewAppError(http.StatusConflict, "user is already a member of this project", "membership")
	}

	inv := &entity.ProjectInvitation{
		ProjectID: req.ProjectID,
		InviterID: inviterID,
		InviteeID: req.InviteeID,
		Role:      req.Role,
		Message:   req.Message,
		Status:    entity.InvitationPending,
	}

	if err := s.ProjectRepo.CreateInvitation(ctx, inv); err != nil {
		return nil, err
	}

	s.notify(ctx, "invitation_created", inv)

	return toResponse(inv), nil
}

func (s *InviteService) ListMyPending(ctx context.Context, inviteeID string) ([]project_repo.PendingInvitationRow, *app_error.AppError) {
	return s.ProjectRepo.ListPendingInvitations(ctx, inviteeID)
}

func (s *InviteService) RespondInvitation(ctx context.Context, invitationID uint, userID, action string) (*invite_dto.InvitationResponse, *app_error.AppError) {
	accept := action == "accept"

	inv, err := s.ProjectRepo.ResolveInvitation(ctx, invitationID, userID, accept)
	if err != nil {
		return nil, err
	}

	s.notify(ctx, "invitation_resolved", inv)

	return toResponse(inv), nil
}

// notify enqueues a delivery job for the worker pool; the event reaches
// the counterpart's live connections only. Enqueue failures are logged and
// swallowed: the invitation state change has already committed.
func (s *InviteService) notify(ctx context.Context, jobType string, inv *entity.ProjectInvitation) {
	projectName := ""
	if project, err := s.ProjectRepo.FindProjectByID(ctx, inv.ProjectID); err == nil {
		projectName = project.Name
	}

	payload := &types.NotifyInvitationPayload{
		InvitationID: inv.ID,
		ProjectID:    inv.ProjectID,
		ProjectName:  projectName,
		InviterID:    inv.InviterID,
		InviteeID:    inv.InviteeID,
		Role:         inv.Role,
		Message:      inv.Message,
		Status:       inv.Status,
	}

	job := queue.Job{
		ID:        uuid.New().String(),
		Type:      jobType,
		Payload:   queue.MustMarshal(payload),
		Priority:  2,
		Retry:     0,
		MaxRetry:  3,
		CreatedAt: time.Now().Unix(),
		ExpireAt:  time.Now().Add(5 * time.Minute).Unix(),
	}

	if err := s.Producer.Enqueue(ctx, job); err != nil {
		log.Error().Err(err).Str("job_id", job.ID).Uint("invitationID", inv.ID).Msg("failed to enqueue invitation notification")
	}
}

func toResponse(inv *entity.ProjectInvitation) *invite_dto.InvitationResponse {
	return &invite_dto.InvitationResponse{
		ID:        inv.ID,
		ProjectID: inv.ProjectID,
		InviterID: inv.InviterID,
		InviteeID: inv.InviteeID,
		Role:      inv.Role,
		Message:   inv.Message,
		Status:    inv.Status,
		CreatedAt: inv.CreatedAt,
	}
}
