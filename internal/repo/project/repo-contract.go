package project_repo

import (
	"context"
	"time"

	"github.com/yogaputrap/createsync-platform/internal/entity"
	app_error "github.com/yogaputrap/createsync-platform/internal/errors"
)

type ProjectWithRole struct {
	entity.Project
	Role string
}

type PendingInvitationRow struct {
	InvitationID uint      `json:"invitation_id"`
	ProjectID    uint      `json:"project_id"`
	ProjectName  string    `json:"project_name"`
	InviterName  string    `json:"inviter_name"`
	Role         string    `json:"role"`
	Message      string    `json:"message,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type ProjectRepoContract interface {
	// CreateWithOwner inserts the project row and the creator's Owner
	// membership in one transaction; either both are visible or neither.
	CreateWithOwner(ctx context.Context, project *entity.Project) *app_error.AppError

	FindProjectByID(ctx context.Context, projectID uint) (*entity.Project, *app_error.AppError)
	ListProjectsByMember(ctx context.Context, userID string) ([]ProjectWithRole, *app_error.AppError)

	// GetRole returns ("", nil) when no membership row exists; callers
	// treat that as a hard Forbidden, never a soft default.
	GetRole(ctx context.Context, projectID uint, userID string) (string, *app_error.AppError)
	InsertMember(ctx context.Context, member *entity.ProjectMember) *app_error.AppError

	CreateInvitation(ctx context.Context, inv *entity.ProjectInvitation) *app_error.AppError
	ListPendingInvitations(ctx context.Context, inviteeID string) ([]PendingInvitationRow, *app_error.AppError)

	// ResolveInvitation transitions a pending invitation addressed to
	// userID. On accept the membership insert and the status update commit
	// together; any failure leaves the invitation pending. A second
	// resolver of the same invitation gets NotFound.
	ResolveInvitation(ctx context.Context, invitationID uint, userID string, accept bool) (*entity.ProjectInvitation, *app_error.AppError)
}
