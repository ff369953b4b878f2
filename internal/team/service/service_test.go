package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/taskhive/taskhive/internal/config"
	"github.com/taskhive/taskhive/internal/invite"
	"github.com/taskhive/taskhive/internal/mail"
	notificationModel "github.com/taskhive/taskhive/internal/notification/model"
	notificationRepository "github.com/taskhive/taskhive/internal/notification/repository"
	notificationService "github.com/taskhive/taskhive/internal/notification/service"
	teamModel "github.com/taskhive/taskhive/internal/team/model"
	"github.com/taskhive/taskhive/internal/team/repository"
	taskModel "github.com/taskhive/taskhive/internal/teamtask/model"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&teamModel.Team{},
		&teamModel.TeamMember{},
		&teamModel.Invite{},
		&taskModel.Task{},
		&notificationModel.Notification{},
	)
	require.NoError(t, err)
	return db
}

func setupService(t *testing.T, db *gorm.DB) Service {
	logger := zap.NewNop().Sugar()
	repo := repository.New(db)
	invites := invite.New(repo, db, mail.NopMailer{}, config.InviteConfig{TTL: 24 * time.Hour}, logger)
	notifications := notificationService.New(notificationRepository.New(db), repo, logger)
	return New(repo, invites, notifications, db, logger)
}

func teamNotifications(t *testing.T, db *gorm.DB, teamID string) []string {
	var rows []notificationModel.Notification
	require.NoError(t, db.Where("team_id = ?", teamID).Order("timestamp ASC").Find(&rows).Error)
	messages := make([]string, 0, len(rows))
	for _, row := range rows {
		messages = append(messages, row.Message)
	}
	return messages
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creator becomes the first member", func(t *testing.T) {
		db := setupTestDB(t)
		svc := setupService(t, db)

		resp, err := svc.Create(ctx, "backend", "user-a", "a@x.com")
		require.NoError(t, err)

		assert.NotEmpty(t, resp.ID)
		assert.Equal(t, "backend", resp.Name)
		assert.Equal(t, "user-a", resp.CreatorID)
		assert.Equal(t, []string{"user-a"}, resp.Members)
	})

	t.Run("name is trimmed", func(t *testing.T) {
		db := setupTestDB(t)
		svc := setupService(t, db)

		resp, err := svc.Create(ctx, "  backend  ", "user-a", "a@x.com")
		require.NoError(t, err)
		assert.Equal(t, "backend", resp.Name)
	})

	t.Run("blank name", func(t *testing.T) {
		db := setupTestDB(t)
		svc := setupService(t, db)

		_, err := svc.Create(ctx, "   ", "user-a", "a@x.com")
		assert.ErrorIs(t, err, teamModel.ErrInvalidTeamName)
	})

	t.Run("duplicate name per creator", func(t *testing.T) {
		db := setupTestDB(t)
		svc := setupService(t, db)

		_, err := svc.Create(ctx, "backend", "user-a", "a@x.com")
		require.NoError(t, err)

		_, err = svc.Create(ctx, "backend", "user-a", "a@x.com")
		assert.ErrorIs(t, err, teamModel.ErrTeamExists)

		_, err = svc.Create(ctx, "backend", "user-b", "b@x.com")
		assert.NoError(t, err)
	})
}

func TestService_Get(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc := setupService(t, db)

	created, err := svc.Create(ctx, "backend", "user-a", "a@x.com")
	require.NoError(t, err)

	t.Run("member sees the team", func(t *testing.T) {
		resp, err := svc.Get(ctx, created.ID, "user-a", "a@x.com")
		require.NoError(t, err)
		assert.Equal(t, created.ID, resp.ID)
	})

	t.Run("non-member is forbidden", func(t *testing.T) {
		_, err := svc.Get(ctx, created.ID, "stranger", "s@x.com")
		assert.ErrorIs(t, err, teamModel.ErrNotAMember)
	})

	t.Run("missing team is not found", func(t *testing.T) {
		_, err := svc.Get(ctx, "missing", "user-a", "a@x.com")
		assert.ErrorIs(t, err, teamModel.ErrTeamNotFound)
	})
}

func TestService_Join(t *testing.T) {
	ctx := context.Background()

	t.Run("join with code appends a notification", func(t *testing.T) {
		db := setupTestDB(t)
		svc := setupService(t, db)

		created, err := svc.Create(ctx, "backend", "user-a", "a@x.com")
		require.NoError(t, err)
		inv, err := svc.CreateInvite(ctx, created.ID, "user-a", "d@x.com")
		require.NoError(t, err)

		resp, err := svc.Join(ctx, created.ID, "user-d", "d@x.com", inv.Code)
		require.NoError(t, err)
		assert.Equal(t, []string{"user-a", "user-d"}, resp.Members)

		assert.Equal(t, []string{"User d@x.com joined the team"}, teamNotifications(t, db, created.ID))
	})

	t.Run("code for another team is rejected", func(t *testing.T) {
		db := setupTestDB(t)
		svc := setupService(t, db)

		teamA, err := svc.Create(ctx, "backend", "user-a", "a@x.com")
		require.NoError(t, err)
		teamB, err := svc.Create(ctx, "frontend", "user-b", "b@x.com")
		require.NoError(t, err)
		inv, err := svc.CreateInvite(ctx, teamA.ID, "user-a", "d@x.com")
		require.NoError(t, err)

		_, err = svc.Join(ctx, teamB.ID, "user-d", "d@x.com", inv.Code)
		assert.ErrorIs(t, err, teamModel.ErrInviteInvalid)

		// The mismatch must not consume the code.
		_, err = svc.Join(ctx, teamA.ID, "user-d", "d@x.com", inv.Code)
		assert.NoError(t, err)
	})

	t.Run("join by code resolves the team", func(t *testing.T) {
		db := setupTestDB(t)
		svc := setupService(t, db)

		created, err := svc.Create(ctx, "backend", "user-a", "a@x.com")
		require.NoError(t, err)
		inv, err := svc.CreateInvite(ctx, created.ID, "user-a", "d@x.com")
		require.NoError(t, err)

		resp, err := svc.JoinByCode(ctx, "user-d", "d@x.com", inv.Code)
		require.NoError(t, err)
		assert.Equal(t, created.ID, resp.ID)
		assert.Contains(t, resp.Members, "user-d")
	})

	t.Run("join by code enforces the invite email", func(t *testing.T) {
		db := setupTestDB(t)
		svc := setupService(t, db)

		created, err := svc.Create(ctx, "backend", "user-a", "a@x.com")
		require.NoError(t, err)
		inv, err := svc.CreateInvite(ctx, created.ID, "user-a", "d@x.com")
		require.NoError(t, err)

		_, err = svc.JoinByCode(ctx, "user-e", "e@x.com", inv.Code)
		assert.ErrorIs(t, err, teamModel.ErrInviteWrongEmail)
	})
}

func TestService_Leave(t *testing.T) {
	ctx := context.Background()

	join := func(t *testing.T, svc Service, teamID, userID, email string) {
		inv, err := svc.CreateInvite(ctx, teamID, "user-a", email)
		require.NoError(t, err)
		_, err = svc.Join(ctx, teamID, userID, email, inv.Code)
		require.NoError(t, err)
	}

	t.Run("leaving unassigns the member's tasks", func(t *testing.T) {
		db := setupTestDB(t)
		svc := setupService(t, db)

		created, err := svc.Create(ctx, "backend", "user-a", "a@x.com")
		require.NoError(t, err)
		join(t, svc, created.ID, "user-b", "b@x.com")

		assignee := "user-b"
		require.NoError(t, db.Create(&taskModel.Task{
			ID: "task-1", Title: "ship it", Status: taskModel.StatusTodo,
			TeamID: created.ID, AssigneeID: &assignee, CreatorID: "user-a",
		}).Error)

		require.NoError(t, svc.Leave(ctx, created.ID, "user-b", "b@x.com"))

		resp, err := svc.Get(ctx, created.ID, "user-a", "a@x.com")
		require.NoError(t, err)
		assert.Equal(t, []string{"user-a"}, resp.Members)

		var task taskModel.Task
		require.NoError(t, db.First(&task, "id = ?", "task-1").Error)
		assert.Nil(t, task.AssigneeID)

		assert.Contains(t, teamNotifications(t, db, created.ID), "User b@x.com left the team")
	})

	t.Run("creator cannot leave", func(t *testing.T) {
		db := setupTestDB(t)
		svc := setupService(t, db)

		created, err := svc.Create(ctx, "backend", "user-a", "a@x.com")
		require.NoError(t, err)

		err = svc.Leave(ctx, created.ID, "user-a", "a@x.com")
		assert.ErrorIs(t, err, teamModel.ErrCreatorCannotLeave)
	})

	t.Run("non-member cannot leave", func(t *testing.T) {
		db := setupTestDB(t)
		svc := setupService(t, db)

		created, err := svc.Create(ctx, "backend", "user-a", "a@x.com")
		require.NoError(t, err)

		err = svc.Leave(ctx, created.ID, "stranger", "s@x.com")
		assert.ErrorIs(t, err, teamModel.ErrNotAMember)
	})
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("creator deletes the team and all scoped records", func(t *testing.T) {
		db := setupTestDB(t)
		svc := setupService(t, db)

		created, err := svc.Create(ctx, "backend", "user-a", "a@x.com")
		require.NoError(t, err)
		_, err = svc.CreateInvite(ctx, created.ID, "user-a", "d@x.com")
		require.NoError(t, err)
		require.NoError(t, db.Create(&taskModel.Task{
			ID: "task-1", Title: "ship it", Status: taskModel.StatusTodo,
			TeamID: created.ID, CreatorID: "user-a",
		}).Error)

		require.NoError(t, svc.Delete(ctx, created.ID, "user-a"))

		_, err = svc.Get(ctx, created.ID, "user-a", "a@x.com")
		assert.ErrorIs(t, err, teamModel.ErrTeamNotFound)

		for _, table := range []string{"team_members", "invites", "team_tasks", "notifications"} {
			var count int64
			require.NoError(t, db.Table(table).Where("team_id = ?", created.ID).Count(&count).Error)
			assert.Zero(t, count, table)
		}
	})

	t.Run("only the creator may delete", func(t *testing.T) {
		db := setupTestDB(t)
		svc := setupService(t, db)

		created, err := svc.Create(ctx, "backend", "user-a", "a@x.com")
		require.NoError(t, err)

		err = svc.Delete(ctx, created.ID, "user-b")
		assert.ErrorIs(t, err, teamModel.ErrNotCreator)
	})
}
