package invite_service

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yogaputrap/createsync-platform/internal/dtos/invite_dto"
	"github.com/yogaputrap/createsync-platform/internal/entity"
	"github.com/yogaputrap/createsync-platform/internal/queue"
	project_repo "github.com/yogaputrap/createsync-platform/internal/repo/project"
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

	return &state.AppState{Ctx: context.Background(), DB: db, Redis: rdb}
}

func seedUser(t *testing.T, st *state.AppState, username string) *entity.User {
	t.Helper()
	user := &entity.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        fmt.Sprintf("%s@example.com", username),
		FullName:     username,
		PasswordHash: "hash",
	}
	require.NoError(t, st.DB.Create(user).Error)
	return user
}

func seedProjectWithOwner(t *testing.T, st *state.AppState, ownerID string) *entity.Project {
	t.Helper()
	repo := project_repo.NewProjectRepo(st)
	project := &entity.Project{OwnerID: ownerID, Name: "Orbit"}
	require.Nil(t, repo.CreateWithOwner(context.Background(), project))
	return project
}

func TestSendInvitation_OwnerInvites(t *testing.T) {
	st := newTestState(t)
	svc := NewInviteService(st)
	owner := seedUser(t, st, "maya")
	invitee := seedUser(t, st, "liam")
	project := seedProjectWithOwner(t, st, owner.ID)

	resp, appErr := svc.SendInvitation(context.Background(), invite_dto.SendInvitationRequest{
		ProjectID: project.ID,
		InviteeID: invitee.ID,
		Role:      entity.RoleEditor,
		Message:   "join us",
	}, owner.ID)
	require.Nil(t, appErr)
	assert.Equal(t, entity.InvitationPending, resp.Status)
	assert.Equal(t, invitee.ID, resp.InviteeID)

	// a notification job lands on the queue
	n, err := st.Redis.ZCard(context.Background(), queue.QueueKey).Result()
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestSendInvitation_NonOwnerForbidden(t *testing.T) {
	st := newTestState(t)
	svc := NewInviteService(st)
	owner := seedUser(t, st, "maya")
	editor := seedUser(t, st, "liam")
	outsider := seedUser(t, st, "noah")
	project := seedProjectWithOwner(t, st, owner.ID)

	repo := project_repo.NewProjectRepo(st)
	require.Nil(t, repo.InsertMember(context.Background(), &entity.ProjectMember{
		ProjectID: project.ID, UserID: editor.ID, Role: entity.RoleEditor,
	}))

	_, appErr := svc.SendInvitation(context.Background(), invite_dto.SendInvitationRequest{
		ProjectID: project.ID,
		InviteeID: outsider.ID,
		Role:      entity.RoleViewer,
	}, editor.ID)
	require.NotNil(t, appErr, "editors cannot invite")
	assert.Equal(t, http.StatusForbidden, appErr.Code)
}

func TestSendInvitation_UnknownInvitee(t *testing.T) {
	st := newTestState(t)
	svc := NewInviteService(st)
	owner := seedUser(t, st, "maya")
	project := seedProjectWithOwner(t, st, owner.ID)

	_, appErr := svc.SendInvitation(context.Background(), invite_dto.SendInvitationRequest{
		ProjectID: project.ID,
		InviteeID: uuid.New().String(),
		Role:      entity.RoleEditor,
	}, owner.ID)
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusNotFound, appErr.Code)
}

func TestSendInvitation_ExistingMemberConflicts(t *testing.T) {
	st := newTestState(t)
	svc := NewInviteService(st)
	owner := seedUser(t, st, "maya")
	project := seedProjectWithOwner(t, st, owner.ID)

	_, appErr := svc.SendInvitation(context.Background(), invite_dto.SendInvitationRequest{
		ProjectID: project.ID,
		InviteeID: owner.ID,
		Role:      entity.RoleViewer,
	}, owner.ID)
	require.NotNil(t, appErr, "members cannot be invited again")
	assert.Equal(t, http.StatusConflict, appErr.Code)
}

func TestRespondInvitation_AcceptGrantsMembership(t *testing.T) {
	st := newTestState(t)
	svc := NewInviteService(st)
	owner := seedUser(t, st, "maya")
	invitee := seedUser(t, st, "liam")
	project := seedProjectWithOwner(t, st, owner.ID)

	created, appErr := svc.SendInvitation(context.Background(), invite_dto.SendInvitationRequest{
		ProjectID: project.ID,
		InviteeID: invitee.ID,
		Role:      entity.RoleEditor,
	}, owner.ID)
	require.Nil(t, appErr)

	resp, appErr := svc.RespondInvitation(context.Background(), created.ID, invitee.ID, "accept")
	require.Nil(t, appErr)
	assert.Equal(t, entity.InvitationAccepted, resp.Status)

	repo := project_repo.NewProjectRepo(st)
	role, appErr := repo.GetRole(context.Background(), project.ID, invitee.ID)
	require.Nil(t, appErr)
	assert.Equal(t, entity.RoleEditor, role)

	// created + resolved notifications
	n, err := st.Redis.ZCard(context.Background(), queue.QueueKey).Result()
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}

func TestRespondInvitation_DeclineLeavesNoMembership(t *testing.T) {
	st := newTestState(t)
	svc := NewInviteService(st)
	owner := seedUser(t, st, "maya")
	invitee := seedUser(t, st, "liam")
	project := seedProjectWithOwner(t, st, owner.ID)

	created, appErr := svc.SendInvitation(context.Background(), invite_dto.SendInvitationRequest{
		ProjectID: project.ID,
		InviteeID: invitee.ID,
		Role:      entity.RoleViewer,
	}, owner.ID)
	require.Nil(t, appErr)

	resp, appErr := svc.RespondInvitation(context.Background(), created.ID, invitee.ID, "decline")
	require.Nil(t, appErr)
	assert.Equal(t, entity.InvitationDeclined, resp.Status)

	repo := project_repo.NewProjectRepo(st)
	role, appErr := repo.GetRole(context.Background(), project.ID, invitee.ID)
	require.Nil(t, appErr)
	assert.Empty(t, role)
}
