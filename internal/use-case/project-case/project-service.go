package project_service

import (
	"context"
	"net/http"

	"github.com/yogaputrap/createsync-platform/internal/dtos/project_dto"
	"github.com/yogaputrap/createsync-platform/internal/entity"
	app_error "github.com/yogaputrap/createsync-platform/internal/errors"
	project_repo "github.com/yogaputrap/createsync-platform/internal/repo/project"
	"github.com/yogaputrap/createsync-platform/state"
)

type ProjectService struct {
	AppState    *state.AppState
	ProjectRepo project_repo.ProjectRepoContract
}

func NewProjectService(appState *state.AppState) ProjectServiceContract {
	return &ProjectService{
		AppState:    appState,
		ProjectRepo: project_repo.NewProjectRepo(appState),
	}
}

func (s *ProjectService) CreateProject(ctx context.Context, req project_dto.CreateProjectRequest, creatorID string) (*project_dto.ProjectResponse, *app_error.AppError) {
	project := &entity.Project{
		OwnerID:     creatorID,
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
	}

	if err := s.ProjectRepo.CreateWithOwner(ctx, project); err != nil {
		return nil, err
	}

	return &project_dto.ProjectResponse{
		ID:          project.ID,
		OwnerID:     project.OwnerID,
		Name:        project.Name,
		Description: project.Description,
		Category:    project.Category,
		Role:        entity.RoleOwner,
		CreatedAt:   project.CreatedAt,
	}, nil
}

func (s *ProjectService) GetProject(ctx context.Context, projectID uint, userID string) (*project_dto.ProjectResponse, *app_error.AppError) {
	role, err := s.ProjectRepo.GetRole(ctx, projectID, userID)
	if err != nil {
		return nil, err
	}
	if role == "" {
		return nil, app_error.NewAppError(http.StatusForbidden, "not a member of this project", "membership")
	}

	project, err := s.ProjectRepo.FindProjectByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	return &project_dto.ProjectResponse{
		ID:          project.ID,
		OwnerID:     project.OwnerID,
		Name:        project.Name,
		Description: project.Description,
		Category:    project.Category,
		Role:        role,
		CreatedAt:   project.CreatedAt,
	}, nil
}

func (s *ProjectService) ListMyProjects(ctx context.Context, userID string) ([]project_dto.ProjectResponse, *app_error.AppError) {
	rows, err := s.ProjectRepo.ListProjectsByMember(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := make([]project_dto.ProjectResponse, 0, len(rows))
	for _, row := range rows {
		resp = append(resp, project_dto.ProjectResponse{
			ID:          row.ID,
			OwnerID:     row.OwnerID,
			Name:        row.Name,
			Description: row.Description,
			Category:    row.Category,
			Role:        row.Role,
			CreatedAt:   row.CreatedAt,
		})
	}

	return resp, nil
}
