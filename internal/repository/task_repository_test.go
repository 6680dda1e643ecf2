package repository_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pomodoro/internal/db"
	"pomodoro/internal/model"
	"pomodoro/internal/repository"
	"pomodoro/migrations"
)

func setupRepos(t *testing.T) (*repository.UserRepository, *repository.TaskRepository) {
	t.Helper()

	database, err := db.OpenSQLite(filepath.Join(t.TempDir(), "repo.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	require.NoError(t, db.RunMigrations(database, migrations.Server()))

	return repository.NewUserRepository(database), repository.NewTaskRepository(database)
}

func createUser(t *testing.T, users *repository.UserRepository, id, email string) {
	t.Helper()
	now := time.Now().UTC()
	require.NoError(t, users.Create(context.Background(), &model.User{
		ID: id, Email: email, PasswordHash: "x", CreatedAt: now, UpdatedAt: now,
	}))
}

func TestTaskRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	users, tasks := setupRepos(t)
	createUser(t, users, "u1", "u1@example.com")

	description := "write the report"
	estimated := 3
	due := time.Date(2026, 11, 2, 9, 0, 0, 0, time.UTC)
	now := time.Now().UTC()
	task := &model.Task{
		UserID:             "u1",
		Title:              "Report",
		Description:        &description,
		DueAt:              &due,
		EstimatedPomodoros: &estimated,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	require.NoError(t, tasks.Create(ctx, task))
	assert.NotZero(t, task.ID)

	loaded, err := tasks.Get(ctx, "u1", task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Report", loaded.Title)
	require.NotNil(t, loaded.Description)
	assert.Equal(t, description, *loaded.Description)
	require.NotNil(t, loaded.EstimatedPomodoros)
	assert.Equal(t, 3, *loaded.EstimatedPomodoros)
	require.NotNil(t, loaded.DueAt)
	assert.True(t, due.Equal(*loaded.DueAt))

	loaded.IsCompleted = true
	loaded.CompletedPomodoros = 2
	loaded.Description = nil
	require.NoError(t, tasks.Update(ctx, loaded))

	list, err := tasks.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].IsCompleted)
	assert.Equal(t, 2, list[0].CompletedPomodoros)
	assert.Nil(t, list[0].Description)

	require.NoError(t, tasks.Delete(ctx, "u1", task.ID))
	_, err = tasks.Get(ctx, "u1", task.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestTaskRepositoryScopesByUser(t *testing.T) {
	ctx := context.Background()
	users, tasks := setupRepos(t)
	createUser(t, users, "u1", "u1@example.com")
	createUser(t, users, "u2", "u2@example.com")

	now := time.Now().UTC()
	task := &model.Task{UserID: "u1", Title: "Mine", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, tasks.Create(ctx, task))

	_, err := tasks.Get(ctx, "u2", task.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	assert.ErrorIs(t, tasks.Delete(ctx, "u2", task.ID), repository.ErrNotFound)

	other := *task
	other.UserID = "u2"
	assert.ErrorIs(t, tasks.Update(ctx, &other), repository.ErrNotFound)

	list, err := tasks.ListByUser(ctx, "u2")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestUserRepositoryGetByEmail(t *testing.T) {
	ctx := context.Background()
	users, _ := setupRepos(t)
	createUser(t, users, "u1", "u1@example.com")

	user, err := users.GetByEmail(ctx, "u1@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)

	_, err = users.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	exists, err := users.Exists(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, exists)
}
