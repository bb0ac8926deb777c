package project_repo

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yogaputrap/createsync-platform/internal/entity"
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
	// a single connection keeps the in-memory database alive and shared
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, state.Migrate(db), "migration should succeed")

	return &state.AppState{Ctx: context.Background(), DB: db}
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

func TestCreateWithOwner(t *testing.T) {
	st := newTestState(t)
	repo := NewProjectRepo(st)
	owner := seedUser(t, st, "maya")

	project := &entity.Project{OwnerID: owner.ID, Name: "Orbit", Category: "design"}
	require.Nil(t, repo.CreateWithOwner(context.Background(), project))
	assert.NotZero(t, project.ID, "project id should be assigned")

	role, appErr := repo.GetRole(context.Background(), project.ID, owner.ID)
	require.Nil(t, appErr)
	assert.Equal(t, entity.RoleOwner, role, "creator should hold the Owner role")
}

func TestCreateWithOwner_RollsBackOnMemberFailure(t *testing.T) {
	st := newTestState(t)
	repo := NewProjectRepo(st)
	owner := seedUser(t, st, "maya")

	// sabotage the membership insert so the transaction must abort
	require.NoError(t, st.DB.Exec("DROP TABLE project_members").Error)

	project := &entity.Project{OwnerID: owner.ID, Name: "Orbit"}
	appErr := repo.CreateWithOwner(context.Background(), project)
	require.NotNil(t, appErr, "create should fail without the members table")

	var count int64
	require.NoError(t, st.DB.Model(&entity.Project{}).Count(&count).Error)
	assert.Zero(t, count, "no orphan project row may remain")
}

func TestGetRole_NonMember(t *testing.T) {
	st := newTestState(t)
	repo := NewProjectRepo(st)
	owner := seedUser(t, st, "maya")

	project := &entity.Project{OwnerID: owner.ID, Name: "Orbit"}
	require.Nil(t, repo.CreateWithOwner(context.Background(), project))

	role, appErr := repo.GetRole(context.Background(), project.ID, uuid.New().String())
	require.Nil(t, appErr, "a missing membership is not an error")
	assert.Empty(t, role)
}

func TestInsertMember_DuplicateConflicts(t *testing.T) {
	st := newTestState(t)
	repo := NewProjectRepo(st)
	owner := seedUser(t, st, "maya")
	viewer := seedUser(t, st, "liam")

	project := &entity.Project{OwnerID: owner.ID, Name: "Orbit"}
	require.Nil(t, repo.CreateWithOwner(context.Background(), project))

	member := &entity.ProjectMember{ProjectID: project.ID, UserID: viewer.ID, Role: entity.RoleViewer}
	require.Nil(t, repo.InsertMember(context.Background(), member))

	again := &entity.ProjectMember{ProjectID: project.ID, UserID: viewer.ID, Role: entity.RoleEditor}
	appErr := repo.InsertMember(context.Background(), again)
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusConflict, appErr.Code, "second membership for the same pair must conflict")
}

func TestListProjectsByMember(t *testing.T) {
	st := newTestState(t)
	repo := NewProjectRepo(st)
	owner := seedUser(t, st, "maya")
	editor := seedUser(t, st, "liam")

	first := &entity.Project{OwnerID: owner.ID, Name: "Orbit"}
	require.Nil(t, repo.CreateWithOwner(context.Background(), first))
	second := &entity.Project{OwnerID: owner.ID, Name: "Atlas"}
	require.Nil(t, repo.CreateWithOwner(context.Background(), second))

	require.Nil(t, repo.InsertMember(context.Background(), &entity.ProjectMember{
		ProjectID: first.ID, UserID: editor.ID, Role: entity.RoleEditor,
	}))

	rows, appErr := repo.ListProjectsByMember(context.Background(), editor.ID)
	require.Nil(t, appErr)
	require.Len(t, rows, 1, "editor belongs to one project only")
	assert.Equal(t, "Orbit", rows[0].Name)
	assert.Equal(t, entity.RoleEditor, rows[0].Role)

	ownerRows, appErr := repo.ListProjectsByMember(context.Background(), owner.ID)
	require.Nil(t, appErr)
	assert.Len(t, ownerRows, 2)
}
