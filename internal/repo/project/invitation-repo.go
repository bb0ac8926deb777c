package project_repo

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/yogaputrap/createsync-platform/internal/entity"
	app_error "github.com/yogaputrap/createsync-platform/internal/errors"
)

func (r *ProjectRepo) CreateInvitation(ctx context.Context, inv *entity.ProjectInvitation) *app_error.AppError {
	if err := r.AppState.DB.WithContext(ctx).Create(inv).Error; err != nil {
		if isDuplicateErr(err) {
			return app_error.NewAppError(http.StatusConflict, "a pending invitation for this user to this project already exists", "invitation")
		}
		log.Error().Err(err).Uint("projectID", inv.ProjectID).Msg("failed to create invitation")
		return app_error.NewAppError(http.StatusInternalServerError, "failed to create invitation", "db-error")
	}

	return nil
}

func (r *ProjectRepo) ListPendingInvitations(ctx context.Context, inviteeID string) ([]PendingInvitationRow, *app_error.AppError) {
	var rows []PendingInvitationRow

	err := r.AppState.DB.WithContext(ctx).
		Model(&entity.ProjectInvitation{}).
		Select(`project_invitations.id AS invitation_id,
			project_invitations.project_id,
			project_invitations.role,
			project_invitations.message,
			project_invitations.created_at,
			projects.name AS project_name,
			users.full_name AS inviter_name`).
		Joins("JOIN projects ON projects.id = project_invitations.project_id").
		Joins("JOIN users ON users.id = project_invitations.inviter_id").
		Where("project_invitations.invitee_id = ? AND project_invitations.status = ?", inviteeID, entity.InvitationPending).
		Order("project_invitations.created_at DESC").
		Scan(&rows).Error

	if err != nil {
		return nil, app_error.NewAppError(http.StatusInternalServerError, "failed to list invitations", "db-error")
	}

	return rows, nil
}

// ResolveInvitation is the accept/decline workflow. The status flip uses a
// conditional UPDATE guarded by RowsAffected so two concurrent accepts for
// the same invitation cannot both pass: the loser sees zero rows and gets
// NotFound. On accept the membership insert shares the transaction with
// the status update; a duplicate membership rolls both back and the
// invitation stays pending.
func (r *ProjectRepo) ResolveInvitation(ctx context.Context, invitationID uint, userID string, accept bool) (*entity.ProjectInvitation, *app_error.AppError) {
	var inv entity.ProjectInvitation
	var appErr *app_error.AppError

	err := r.AppState.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND invitee_id = ?", invitationID, userID).First(&inv).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				appErr = app_error.NewAppError(http.StatusNotFound, "invitation not found or already resolved", "invitation")
			} else {
				appErr = app_error.NewAppError(http.StatusInternalServerError, "failed to fetch invitation", "db-error")
			}
			return errors.New("abort")
		}

		newStatus := entity.InvitationDeclined
		if accept {
			newStatus = entity.InvitationAccepted
		}

		res := tx.Model(&entity.ProjectInvitation{}).
			Where("id = ? AND status = ?", invitationID, entity.InvitationPending).
			Update("status", newStatus)
		if res.Error != nil {
			appErr = app_error.NewAppError(http.StatusInternalServerError, "failed to update invitation", "db-error")
			return res.Error
		}
		if res.RowsAffected == 0 {
			// lost the race to another resolver
			appErr = app_error.NewAppError(http.StatusNotFound, "invitation not found or already resolved", "invitation")
			return errors.New("abort")
		}

		if accept {
			member := entity.ProjectMember{
				ProjectID: inv.ProjectID,
				UserID:    userID,
				Role:      inv.Role,
			}
			if err := tx.Create(&member).Error; err != nil {
				if isDuplicateErr(err) {
					appErr = app_error.NewAppError(http.StatusConflict, "user is already a member of this project", "membership")
				} else {
					appErr = app_error.NewAppError(http.StatusInternalServerError, "failed to add project member", "db-error")
				}
				return err
			}
		}

		inv.Status = newStatus
		return nil
	})

	if err != nil {
		if appErr == nil {
			log.Error().Err(err).Uint("invitationID", invitationID).Msg("invitation resolution failed")
			appErr = app_error.NewAppError(http.StatusInternalServerError, "failed to resolve invitation", "db-error")
		}
		return nil, appErr
	}

	return &inv, nil
}
