package user_service

import (
	"context"

	"github.com/yogaputrap/createsync-platform/internal/dtos/user_dto"
	app_error "github.com/yogaputrap/createsync-platform/internal/errors"
)

type UserServiceContract interface {
	Register(ctx context.Context, req user_dto.CreateUserRequest) (*user_dto.UserResponse, *app_error.AppError)
	Login(ctx context.Context, req user_dto.LoginRequest, fingerprint string) (*user_dto.LoginResponse, *app_error.AppError)
	Logout(ctx context.Context, userID, fingerprint string) *app_error.AppError
}
