package project_service

import (
	"context"

	"github.com/yogaputrap/createsync-platform/internal/dtos/project_dto"
	app_error "github.com/yogaputrap/createsync-platform/internal/errors"
)

type ProjectServiceContract interface {
	CreateProject(ctx context.Context, req project_dto.CreateProjectRequest, creatorID string) (*project_dto.ProjectResponse, *app_error.AppError)
	GetProject(ctx context.Context, projectID uint, userID string) (*project_dto.ProjectResponse, *app_error.AppError)
	ListMyProjects(ctx context.Context, userID string) ([]project_dto.ProjectResponse, *app_error.AppError)
}
