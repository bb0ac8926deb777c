package user_service

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/yogaputrap/createsync-platform/internal/dtos/user_dto"
	"github.com/yogaputrap/createsync-platform/internal/entity"
	app_error "github.com/yogaputrap/createsync-platform/internal/errors"
	user_repo "github.com/yogaputrap/createsync-platform/internal/repo/user"
	"github.com/yogaputrap/createsync-platform/internal/utils"
	"github.com/yogaputrap/createsync-platform/internal/utils/types"
	"github.com/yogaputrap/createsync-platform/state"
)

const sessionTTL = 7 * 24 * time.Hour

type UserService struct {
	AppState *state.AppState
	UserRepo user_repo.UserRepoContract
}

func NewUserService(appState *state.AppState) UserServiceContract {
	return &UserService{
		AppState: appState,
		UserRepo: user_repo.NewUserRepo(appState),
	}
}

func (u *UserService) Register(ctx context.Context, req user_dto.CreateUserRequest) (*user_dto.UserResponse, *app_error.AppError) {
	// count user, is the user already registered or not
	filter := &entity.UserFilter{
		Email:    &req.Email,
		Username: &req.Username,
	}
	count, err := u.UserRepo.CountUser(ctx, *filter)
	if err != nil {
		return nil, err
	}

	if count > 0 {
		return nil, app_error.NewAppError(http.StatusConflict, "username or email already registered", "credential-registered")
	}

	hashed, hashErr := utils.GenerateHash(req.Password)
	if hashErr != nil {
		return nil, app_error.NewAppError(http.StatusInternalServerError, hashErr.Error(), "password")
	}

	user := &entity.User{
		ID:           uuid.New().String(),
		Username:     req.Username,
		Email:        req.Email,
		FullName:     req.FullName,
		PasswordHash: hashed,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	err = u.UserRepo.SaveUser(ctx, *user)
	if err != nil {
		return nil, err
	}

	return &user_dto.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Username:  user.Username,
		FullName:  user.FullName,
		CreatedAt: user.CreatedAt,
	}, nil
}

func (u *UserService) Login(ctx context.Context, req user_dto.LoginRequest, fingerprint string) (*user_dto.LoginResponse, *app_error.AppError) {
	user, err := u.UserRepo.FindUserByCredential(ctx, req.Username)
	if err != nil {
		if err.Code == http.StatusNotFound {
			return nil, app_error.NewAppError(http.StatusUnauthorized, "invalid username or password", "credential")
		}
		return nil, err
	}

	ok, hashErr := utils.VerifyHash(user.PasswordHash, req.Password)
	if hashErr != nil {
		return nil, app_error.NewAppError(http.StatusInternalServerError, "failed to verify password", "password")
	}
	if !ok {
		return nil, app_error.NewAppError(http.StatusUnauthorized, "invalid username or password", "credential")
	}

	access, refresh, _, signErr := utils.IssueNewTokens(user.ID, user.Username, u.AppState.JwtSecret.Private)
	if signErr != nil {
		return nil, app_error.NewAppError(http.StatusInternalServerError, "failed to issue tokens", "auth")
	}

	issueAt := time.Now().Unix()
	session := types.Session{
		UserId:      user.ID,
		Fingerprint: fingerprint,
		IssueAt:     issueAt,
		ExpireAt:    issueAt + int64(sessionTTL.Seconds()),
		Status:      "valid",
	}

	sessionKey := fmt.Sprintf("session:%s:%s", user.ID, fingerprint)
	if cacheErr := utils.SetCacheData(ctx, u.AppState.Redis, sessionKey, &session, sessionTTL); cacheErr != nil {
		return nil, app_error.NewAppError(http.StatusInternalServerError, "failed to store session", "redis")
	}

	return &user_dto.LoginResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		UserID:       user.ID,
		Username:     user.Username,
	}, nil
}

// Logout revokes the session for one device; websocket handshakes with
// this fingerprint fail from here on.
func (u *UserService) Logout(ctx context.Context, userID, fingerprint string) *app_error.AppError {
	sessionKey := fmt.Sprintf("session:%s:%s", userID, fingerprint)
	if err := utils.DeleteCacheData(ctx, u.AppState.Redis, sessionKey); err != nil {
		return app_error.NewAppError(http.StatusInternalServerError, "failed to revoke session", "redis")
	}
	return nil
}
