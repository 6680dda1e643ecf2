package model

import "time"

// Task is a task item as exchanged with the Task API.
type Task struct {
	ID                 int64      `json:"id"`
	UserID             string     `json:"-"`
	Title              string     `json:"title"`
	Description        *string    `json:"description,omitempty"`
	IsCompleted        bool       `json:"isCompleted"`
	CreatedAt          time.Time  `json:"createdAt"`
	DueAt              *time.Time `json:"dueAt,omitempty"`
	EstimatedPomodoros *int       `json:"estimatedPomodoros,omitempty"`
	CompletedPomodoros int        `json:"completedPomodoros"`
	UpdatedAt          time.Time  `json:"-"`

	// Expanded is view state and never leaves the process.
	Expanded bool `json:"-"`
}

// TaskFields is the writable part of a task. The server assigns ID and
// CreatedAt on create; on update ID echoes the path id.
type TaskFields struct {
	ID                 int64      `json:"id,omitempty"`
	Title              string     `json:"title"`
	Description        *string    `json:"description,omitempty"`
	IsCompleted        bool       `json:"isCompleted"`
	DueAt              *time.Time `json:"dueAt,omitempty"`
	EstimatedPomodoros *int       `json:"estimatedPomodoros,omitempty"`
	CompletedPomodoros int        `json:"completedPomodoros"`
}

// Fields returns the update payload for t.
func (t Task) Fields() TaskFields {
	return TaskFields{
		ID:                 t.ID,
		Title:              t.Title,
		Description:        t.Description,
		IsCompleted:        t.IsCompleted,
		DueAt:              t.DueAt,
		EstimatedPomodoros: t.EstimatedPomodoros,
		CompletedPomodoros: t.CompletedPomodoros,
	}
}

// Apply copies the writable fields onto t.
func (t *Task) Apply(fields TaskFields) {
	t.Title = fields.Title
	t.Description = fields.Description
	t.IsCompleted = fields.IsCompleted
	t.DueAt = fields.DueAt
	t.EstimatedPomodoros = fields.EstimatedPomodoros
	t.CompletedPomodoros = fields.CompletedPomodoros
}
