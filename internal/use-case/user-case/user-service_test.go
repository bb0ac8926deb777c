package user_service

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"fmt"
	"net/http"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yogaputrap/createsync-platform/internal/dtos/user_dto"
	"github.com/yogaputrap/createsync-platform/internal/utils"
	"github.com/yogaputrap/createsync-platform/state"
)

func newTestState(t *testing.T) *state.AppState {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "should open in-memory sqlite")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, state.Migrate(db), "migration should succeed")

	mockRedis := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mockRedis.Addr()})
	t.Cleanup(func() { rdb.Close() })

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	return &state.AppState{
		Ctx:       context.Background(),
		DB:        db,
		Redis:     rdb,
		JwtSecret: &state.JwtSecret{Private: key, Public: &key.PublicKey},
	}
}

func registerReq(username string) user_dto.CreateUserRequest {
	return user_dto.CreateUserRequest{
		Username: username,
		Email:    fmt.Sprintf("%s@example.com", username),
		FullName: "Maya Chen",
		Password: "s3cretpass",
	}
}

func TestRegister(t *testing.T) {
	st := newTestState(t)
	svc := NewUserService(st)

	resp, appErr := svc.Register(context.Background(), registerReq("maya"))
	require.Nil(t, appErr)
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "maya", resp.Username)
	assert.Equal(t, "maya@example.com", resp.Email)
}

func TestRegister_DuplicateCredential(t *testing.T) {
	st := newTestState(t)
	svc := NewUserService(st)

	_, appErr := svc.Register(context.Background(), registerReq("maya"))
	require.Nil(t, appErr)

	_, appErr = svc.Register(context.Background(), registerReq("maya"))
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusConflict, appErr.Code)
}

func TestLogin(t *testing.T) {
	st := newTestState(t)
	svc := NewUserService(st)

	registered, appErr := svc.Register(context.Background(), registerReq("maya"))
	require.Nil(t, appErr)

	resp, appErr := svc.Login(context.Background(), user_dto.LoginRequest{
		Username: "maya",
		Password: "s3cretpass",
	}, "device-fp-1")
	require.Nil(t, appErr)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, registered.ID, resp.UserID)

	// token verifies against the public key and names the user
	claims, err := utils.ParseAndVerifySign(resp.AccessToken, st.JwtSecret.Public)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, claims.Sub)

	// a session row exists for the device
	sessionKey := fmt.Sprintf("session:%s:%s", registered.ID, "device-fp-1")
	exists, err := st.Redis.Exists(context.Background(), sessionKey).Result()
	require.NoError(t, err)
	assert.EqualValues(t, 1, exists)
}

func TestLogin_EmailAsCredential(t *testing.T) {
	st := newTestState(t)
	svc := NewUserService(st)

	_, appErr := svc.Register(context.Background(), registerReq("maya"))
	require.Nil(t, appErr)

	_, appErr = svc.Login(context.Background(), user_dto.LoginRequest{
		Username: "maya@example.com",
		Password: "s3cretpass",
	}, "device-fp-1")
	assert.Nil(t, appErr, "email works in place of the username")
}

func TestLogin_WrongPassword(t *testing.T) {
	st := newTestState(t)
	svc := NewUserService(st)

	_, appErr := svc.Register(context.Background(), registerReq("maya"))
	require.Nil(t, appErr)

	_, appErr = svc.Login(context.Background(), user_dto.LoginRequest{
		Username: "maya",
		Password: "wrongpass",
	}, "device-fp-1")
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusUnauthorized, appErr.Code)
}

func TestLogin_UnknownUser(t *testing.T) {
	st := newTestState(t)
	svc := NewUserService(st)

	_, appErr := svc.Login(context.Background(), user_dto.LoginRequest{
		Username: "ghost",
		Password: "whatever",
	}, "device-fp-1")
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusUnauthorized, appErr.Code, "unknown users look like bad credentials")
}

func TestLogout_RevokesSession(t *testing.T) {
	st := newTestState(t)
	svc := NewUserService(st)

	registered, appErr := svc.Register(context.Background(), registerReq("maya"))
	require.Nil(t, appErr)

	_, appErr = svc.Login(context.Background(), user_dto.LoginRequest{
		Username: "maya",
		Password: "s3cretpass",
	}, "device-fp-1")
	require.Nil(t, appErr)

	require.Nil(t, svc.Logout(context.Background(), registered.ID, "device-fp-1"))

	sessionKey := fmt.Sprintf("session:%s:%s", registered.ID, "device-fp-1")
	exists, err := st.Redis.Exists(context.Background(), sessionKey).Result()
	require.NoError(t, err)
	assert.Zero(t, exists, "the session must be gone after logout")
}

func TestRegister_DuplicateUsernameNewEmail(t *testing.T) {
	st := newTestState(t)
	svc := NewUserService(st)

	_, appErr := svc.Register(context.Background(), registerReq("maya"))
	require.Nil(t, appErr)

	req := registerReq("maya")
	req.Email = "maya.other@example.com"
	_, appErr = svc.Register(context.Background(), req)
	require.NotNil(t, appErr, "a taken username conflicts regardless of email")
	assert.Equal(t, http.StatusConflict, appErr.Code)
}
