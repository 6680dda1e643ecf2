package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"pomodoro/internal/model"
)

type TaskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

const taskColumns = `id, user_id, title, description, is_completed, created_at, due_at,
		        estimated_pomodoros, completed_pomodoros, updated_at`

// Create inserts task and fills in its assigned ID.
func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	result, err := r.db.ExecContext(
		ctx,
		`INSERT INTO task_items (
			user_id, title, description, is_completed, created_at, due_at,
			estimated_pomodoros, completed_pomodoros, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		task.UserID,
		task.Title,
		nullableString(task.Description),
		task.IsCompleted,
		formatTime(task.CreatedAt),
		nullableTime(task.DueAt),
		nullableInt(task.EstimatedPomodoros),
		task.CompletedPomodoros,
		formatTime(task.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("create task: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("read task id: %w", err)
	}
	task.ID = id
	return nil
}

func (r *TaskRepository) ListByUser(ctx context.Context, userID string) ([]model.Task, error) {
	rows, err := r.db.QueryContext(
		ctx,
		`SELECT `+taskColumns+`
		 FROM task_items
		 WHERE user_id = ?
		 ORDER BY id ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]model.Task, 0)
	for rows.Next() {
		task, scanErr := scanTask(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		tasks = append(tasks, *task)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	return tasks, nil
}

func (r *TaskRepository) Get(ctx context.Context, userID string, id int64) (*model.Task, error) {
	row := r.db.QueryRowContext(
		ctx,
		`SELECT `+taskColumns+`
		 FROM task_items
		 WHERE id = ? AND user_id = ?`,
		id,
		userID,
	)
	return scanTask(row)
}

func (r *TaskRepository) Update(ctx context.Context, task *model.Task) error {
	result, err := r.db.ExecContext(
		ctx,
		`UPDATE task_items
		 SET title = ?,
		     description = ?,
			 is_completed = ?,
			 due_at = ?,
			 estimated_pomodoros = ?,
			 completed_pomodoros = ?,
			 updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		task.Title,
		nullableString(task.Description),
		task.IsCompleted,
		nullableTime(task.DueAt),
		nullableInt(task.EstimatedPomodoros),
		task.CompletedPomodoros,
		formatTime(task.UpdatedAt),
		task.ID,
		task.UserID,
	)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	return requireAffected(result)
}

func (r *TaskRepository) Delete(ctx context.Context, userID string, id int64) error {
	result, err := r.db.ExecContext(
		ctx,
		`DELETE FROM task_items WHERE id = ? AND user_id = ?`,
		id,
		userID,
	)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return requireAffected(result)
}

func requireAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanTask(s scanner) (*model.Task, error) {
	task := model.Task{}
	var description sql.NullString
	var createdAt string
	var dueAt sql.NullString
	var estimated sql.NullInt64
	var updatedAt string
	err := s.Scan(
		&task.ID,
		&task.UserID,
		&task.Title,
		&description,
		&task.IsCompleted,
		&createdAt,
		&dueAt,
		&estimated,
		&task.CompletedPomodoros,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan task: %w", err)
	}

	if description.Valid {
		value := description.String
		task.Description = &value
	}
	if estimated.Valid {
		value := int(estimated.Int64)
		task.EstimatedPomodoros = &value
	}

	if task.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse task created_at: %w", err)
	}
	if task.DueAt, err = parseNullableTime(dueAt); err != nil {
		return nil, fmt.Errorf("parse task due_at: %w", err)
	}
	if task.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parse task updated_at: %w", err)
	}
	return &task, nil
}

func nullableString(value *string) interface{} {
	if value == nil {
		return nil
	}
	return *value
}

func nullableInt(value *int) interface{} {
	if value == nil {
		return nil
	}
	return *value
}
