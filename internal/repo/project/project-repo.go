package project_repo

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/yogaputrap/createsync-platform/internal/entity"
	app_error "github.com/yogaputrap/createsync-platform/internal/errors"
	"github.com/yogaputrap/createsync-platform/state"
)

type ProjectRepo struct {
	AppState *state.AppState
}

func NewProjectRepo(appState *state.AppState) ProjectRepoContract {
	return &ProjectRepo{
		AppState: appState,
	}
}

func isDuplicateErr(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique")
}

func (r *ProjectRepo) CreateWithOwner(ctx context.Context, project *entity.Project) *app_error.AppError {
	err := r.AppState.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(project).Error; err != nil {
			return err
		}

		member := entity.ProjectMember{
			ProjectID: project.ID,
			UserID:    project.OwnerID,
			Role:      entity.RoleOwner,
		}
		return tx.Create(&member).Error
	})

	if err != nil {
		log.Error().Err(err).Str("ownerID", project.OwnerID).Msg("failed to create project with owner")
		return app_error.NewAppError(http.StatusInternalServerError, "failed to create project", "db-error")
	}

	return nil
}

func (r *ProjectRepo) FindProjectByID(ctx context.Context, projectID uint) (*entity.Project, *app_error.AppError) {
	var project entity.Project
	if err := r.AppState.DB.WithContext(ctx).Where("id = ?", projectID).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, app_error.NewAppError(http.StatusNotFound, "project not found", "not-found")
		}
		return nil, app_error.NewAppError(http.StatusInternalServerError, "failed to fetch project", "db-error")
	}
	return &project, nil
}

func (r *ProjectRepo) ListProjectsByMember(ctx context.Context, userID string) ([]ProjectWithRole, *app_error.AppError) {
	var rows []ProjectWithRole

	err := r.AppState.DB.WithContext(ctx).
		Model(&entity.Project{}).
		Select("projects.*, project_members.role AS role").
		Joins("JOIN project_members ON project_members.project_id = projects.id").
		Where("project_members.user_id = ?", userID).
		Order("projects.created_at DESC").
		Scan(&rows).Error

	if err != nil {
		return nil, app_error.NewAppError(http.StatusInternalServerError, "failed to list projects", "db-error")
	}

	return rows, nil
}

func (r *ProjectRepo) GetRole(ctx context.Context, projectID uint, userID string) (string, *app_error.AppError) {
	var member entity.ProjectMember

	err := r.AppState.DB.WithContext(ctx).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		First(&member).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", app_error.NewAppError(http.StatusInternalServerError, "failed to fetch membership", "db-error")
	}

	return member.Role, nil
}

func (r *ProjectRepo) InsertMember(ctx context.Context, member *entity.ProjectMember) *app_error.AppError {
	if err := r.AppState.DB.WithContext(ctx).Create(member).Error; err != nil {
		if isDuplicateErr(err) {
			return app_error.NewAppError(http.StatusConflict, "user is already a member of this project", "membership")
		}
		return app_error.NewAppError(http.StatusInternalServerError, "failed to add project member", "db-error")
	}

	return nil
}
