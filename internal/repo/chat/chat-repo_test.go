package chat_repo

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

func seedProject(t *testing.T, st *state.AppState, ownerID string) *entity.Project {
	t.Helper()
	project := &entity.Project{OwnerID: ownerID, Name: "Orbit"}
	require.NoError(t, st.DB.Create(project).Error)
	return project
}

func TestAppend_RootMessage(t *testing.T) {
	st := newTestState(t)
	repo := NewChatRepo(st)
	user := seedUser(t, st, "maya")
	project := seedProject(t, st, user.ID)

	msg := &entity.ChatMessage{ProjectID: project.ID, UserID: user.ID, Content: "kicking off"}
	require.Nil(t, repo.Append(context.Background(), msg))
	assert.NotZero(t, msg.ID)
	assert.Nil(t, msg.ParentMessageID)
}

func TestAppend_ReplyToRoot(t *testing.T) {
	st := newTestState(t)
	repo := NewChatRepo(st)
	user := seedUser(t, st, "maya")
	project := seedProject(t, st, user.ID)

	root := &entity.ChatMessage{ProjectID: project.ID, UserID: user.ID, Content: "root"}
	require.Nil(t, repo.Append(context.Background(), root))

	reply := &entity.ChatMessage{ProjectID: project.ID, UserID: user.ID, Content: "reply", ParentMessageID: &root.ID}
	require.Nil(t, repo.Append(context.Background(), reply))
}

func TestAppend_ReplyToReplyRejected(t *testing.T) {
	st := newTestState(t)
	repo := NewChatRepo(st)
	user := seedUser(t, st, "maya")
	project := seedProject(t, st, user.ID)

	root := &entity.ChatMessage{ProjectID: project.ID, UserID: user.ID, Content: "root"}
	require.Nil(t, repo.Append(context.Background(), root))

	reply := &entity.ChatMessage{ProjectID: project.ID, UserID: user.ID, Content: "reply", ParentMessageID: &root.ID}
	require.Nil(t, repo.Append(context.Background(), reply))

	// threads are exactly one level deep
	deeper := &entity.ChatMessage{ProjectID: project.ID, UserID: user.ID, Content: "too deep", ParentMessageID: &reply.ID}
	appErr := repo.Append(context.Background(), deeper)
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusConflict, appErr.Code)

	var count int64
	require.NoError(t, st.DB.Model(&entity.ChatMessage{}).Count(&count).Error)
	assert.EqualValues(t, 2, count, "rejected reply must not be persisted")
}

func TestAppend_MissingParentRejected(t *testing.T) {
	st := newTestState(t)
	repo := NewChatRepo(st)
	user := seedUser(t, st, "maya")
	project := seedProject(t, st, user.ID)

	ghost := uint(999)
	reply := &entity.ChatMessage{ProjectID: project.ID, UserID: user.ID, Content: "orphan", ParentMessageID: &ghost}
	appErr := repo.Append(context.Background(), reply)
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusNotFound, appErr.Code)
}

func TestAppend_CrossProjectParentRejected(t *testing.T) {
	st := newTestState(t)
	repo := NewChatRepo(st)
	user := seedUser(t, st, "maya")
	first := seedProject(t, st, user.ID)
	second := &entity.Project{OwnerID: user.ID, Name: "Atlas"}
	require.NoError(t, st.DB.Create(second).Error)

	root := &entity.ChatMessage{ProjectID: first.ID, UserID: user.ID, Content: "root"}
	require.Nil(t, repo.Append(context.Background(), root))

	stray := &entity.ChatMessage{ProjectID: second.ID, UserID: user.ID, Content: "stray", ParentMessageID: &root.ID}
	appErr := repo.Append(context.Background(), stray)
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusConflict, appErr.Code)
}

func TestListRootMessages_OrderAndReplyCounts(t *testing.T) {
	st := newTestState(t)
	repo := NewChatRepo(st)
	user := seedUser(t, st, "maya")
	project := seedProject(t, st, user.ID)

	first := &entity.ChatMessage{ProjectID: project.ID, UserID: user.ID, Content: "first"}
	require.Nil(t, repo.Append(context.Background(), first))
	second := &entity.ChatMessage{ProjectID: project.ID, UserID: user.ID, Content: "second"}
	require.Nil(t, repo.Append(context.Background(), second))

	for i := 0; i < 3; i++ {
		reply := &entity.ChatMessage{
			ProjectID: project.ID, UserID: user.ID,
			Content: fmt.Sprintf("reply %d", i), ParentMessageID: &first.ID,
		}
		require.Nil(t, repo.Append(context.Background(), reply))
	}

	rows, appErr := repo.ListRootMessages(context.Background(), project.ID)
	require.Nil(t, appErr)
	require.Len(t, rows, 2, "replies never appear among root messages")

	assert.Equal(t, first.ID, rows[0].ID, "creation order")
	assert.Equal(t, second.ID, rows[1].ID)
	assert.EqualValues(t, 3, rows[0].ReplyCount)
	assert.EqualValues(t, 0, rows[1].ReplyCount)
	assert.Equal(t, "maya", rows[0].SenderName)
}

func TestListReplies(t *testing.T) {
	st := newTestState(t)
	repo := NewChatRepo(st)
	user := seedUser(t, st, "maya")
	other := seedUser(t, st, "liam")
	project := seedProject(t, st, user.ID)

	root := &entity.ChatMessage{ProjectID: project.ID, UserID: user.ID, Content: "root"}
	require.Nil(t, repo.Append(context.Background(), root))
	otherRoot := &entity.ChatMessage{ProjectID: project.ID, UserID: user.ID, Content: "other root"}
	require.Nil(t, repo.Append(context.Background(), otherRoot))

	mine := &entity.ChatMessage{ProjectID: project.ID, UserID: other.ID, Content: "on topic", ParentMessageID: &root.ID}
	require.Nil(t, repo.Append(context.Background(), mine))
	elsewhere := &entity.ChatMessage{ProjectID: project.ID, UserID: other.ID, Content: "off topic", ParentMessageID: &otherRoot.ID}
	require.Nil(t, repo.Append(context.Background(), elsewhere))

	rows, appErr := repo.ListReplies(context.Background(), root.ID)
	require.Nil(t, appErr)
	require.Len(t, rows, 1, "only replies of the requested root")
	assert.Equal(t, "on topic", rows[0].Content)
	assert.Equal(t, "liam", rows[0].SenderName)
	require.NotNil(t, rows[0].ParentMessageID)
	assert.Equal(t, root.ID, *rows[0].ParentMessageID)
}

func TestFindMessageByID(t *testing.T) {
	st := newTestState(t)
	repo := NewChatRepo(st)
	user := seedUser(t, st, "maya")
	project := seedProject(t, st, user.ID)

	msg := &entity.ChatMessage{ProjectID: project.ID, UserID: user.ID, Content: "hello"}
	require.Nil(t, repo.Append(context.Background(), msg))

	found, appErr := repo.FindMessageByID(context.Background(), msg.ID)
	require.Nil(t, appErr)
	assert.Equal(t, msg.Content, found.Content)

	_, appErr = repo.FindMessageByID(context.Background(), 9999)
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusNotFound, appErr.Code)
}
