package service

import (
	"context"
	"errors"
	"strings"
	"time"

	apperrors "pomodoro/internal/errors"
	"pomodoro/internal/model"
	"pomodoro/internal/repository"
)

type TaskService struct {
	repo *repository.TaskRepository
	now  func() time.Time
}

func NewTaskService(repo *repository.TaskRepository) *TaskService {
	return &TaskService{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// List returns the user's tasks. A user without tasks gets a 404, which
// clients treat as an empty list.
func (s *TaskService) List(ctx context.Context, userID string) ([]model.Task, *apperrors.APIError) {
	tasks, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal("failed to list tasks")
	}
	if len(tasks) == 0 {
		return nil, apperrors.NotFound("tasks_not_found", "no tasks found")
	}
	return tasks, nil
}

func (s *TaskService) Get(ctx context.Context, userID string, id int64) (*model.Task, *apperrors.APIError) {
	task, err := s.repo.Get(ctx, userID, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("task_not_found", "task not found")
	}
	if err != nil {
		return nil, apperrors.Internal("failed to get task")
	}
	return task, nil
}

func (s *TaskService) Create(ctx context.Context, userID string, fields model.TaskFields) (*model.Task, *apperrors.APIError) {
	if apiErr := validateFields(&fields); apiErr != nil {
		return nil, apiErr
	}

	now := s.now()
	task := model.Task{
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	task.Apply(fields)

	if err := s.repo.Create(ctx, &task); err != nil {
		return nil, apperrors.Internal("failed to create task")
	}
	return &task, nil
}

func (s *TaskService) Update(ctx context.Context, userID string, id int64, fields model.TaskFields) *apperrors.APIError {
	if fields.ID != 0 && fields.ID != id {
		return apperrors.BadRequest("id_mismatch", "body id does not match path id")
	}
	if apiErr := validateFields(&fields); apiErr != nil {
		return apiErr
	}

	task, apiErr := s.Get(ctx, userID, id)
	if apiErr != nil {
		return apiErr
	}
	task.Apply(fields)
	task.UpdatedAt = s.now()

	err := s.repo.Update(ctx, task)
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound("task_not_found", "task not found")
	}
	if err != nil {
		return apperrors.Internal("failed to update task")
	}
	return nil
}

func (s *TaskService) Delete(ctx context.Context, userID string, id int64) *apperrors.APIError {
	err := s.repo.Delete(ctx, userID, id)
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound("task_not_found", "task not found")
	}
	if err != nil {
		return apperrors.Internal("failed to delete task")
	}
	return nil
}

func validateFields(fields *model.TaskFields) *apperrors.APIError {
	fields.Title = strings.TrimSpace(fields.Title)
	if fields.Title == "" {
		return apperrors.BadRequest("invalid_title", "title is required")
	}
	if fields.CompletedPomodoros < 0 {
		return apperrors.BadRequest("invalid_completed_pomodoros", "completedPomodoros must not be negative")
	}
	if fields.EstimatedPomodoros != nil && *fields.EstimatedPomodoros <= 0 {
		return apperrors.BadRequest("invalid_estimated_pomodoros", "estimatedPomodoros must be positive")
	}
	return nil
}
