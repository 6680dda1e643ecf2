// Package tasks keeps the local copy of the user's task list. Every mutation
// goes to the Task API first and is committed locally only after it
// succeeds; the one exception is IncrementCompleted.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	apperrors "pomodoro/internal/errors"
	"pomodoro/internal/model"
	"pomodoro/internal/observe"
)

var (
	ErrEmptyTitle   = errors.New("task title is required")
	ErrTaskNotFound = errors.New("task not found")
)

// API is the remote Task API.
type API interface {
	ListTasks(ctx context.Context) ([]model.Task, error)
	CreateTask(ctx context.Context, fields model.TaskFields) (model.Task, error)
	UpdateTask(ctx context.Context, id int64, fields model.TaskFields) error
	DeleteTask(ctx context.Context, id int64) error
}

// Binding is the part of the active-task binding the store needs.
type Binding interface {
	Current() (int64, bool)
	ClearActive(id int64) bool
}

type Store struct {
	api     API
	binding Binding

	mu       sync.Mutex
	tasks    []model.Task
	unsynced map[int64]bool
	changed  observe.Subject[[]model.Task]
}

func NewStore(api API, binding Binding) *Store {
	return &Store{
		api:      api,
		binding:  binding,
		unsynced: make(map[int64]bool),
	}
}

// Fetch replaces the collection with the server's. A not-found answer
// means an empty list. Any other error, including an authorization failure,
// leaves the collection untouched and is returned to the caller.
func (s *Store) Fetch(ctx context.Context) error {
	remote, err := s.api.ListTasks(ctx)
	if err != nil {
		if !apperrors.IsNotFound(err) {
			return fmt.Errorf("fetch tasks: %w", err)
		}
		remote = nil
	}

	s.mu.Lock()
	expanded := make(map[int64]bool, len(s.tasks))
	for _, task := range s.tasks {
		if task.Expanded {
			expanded[task.ID] = true
		}
	}
	s.tasks = make([]model.Task, 0, len(remote))
	for _, task := range remote {
		task.Expanded = expanded[task.ID]
		s.tasks = append(s.tasks, task)
	}
	s.unsynced = make(map[int64]bool)
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.changed.Notify(snapshot)
	return nil
}

// Create sends fields to the server and appends the returned task. An empty
// title is rejected without a remote call.
func (s *Store) Create(ctx context.Context, fields model.TaskFields) (model.Task, error) {
	fields.Title = strings.TrimSpace(fields.Title)
	if fields.Title == "" {
		return model.Task{}, ErrEmptyTitle
	}
	fields.ID = 0

	created, err := s.api.CreateTask(ctx, fields)
	if err != nil {
		return model.Task{}, fmt.Errorf("create task: %w", err)
	}

	s.mu.Lock()
	s.tasks = append(s.tasks, created)
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.changed.Notify(snapshot)
	return created, nil
}

// Update sends the full record and commits it locally after success.
func (s *Store) Update(ctx context.Context, task model.Task) error {
	if strings.TrimSpace(task.Title) == "" {
		return ErrEmptyTitle
	}
	if _, ok := s.Get(task.ID); !ok {
		return fmt.Errorf("update task %d: %w", task.ID, ErrTaskNotFound)
	}
	return s.push(ctx, task.ID, task.Fields())
}

// ToggleCompletion flips the completion flag of a copy, sends it, and
// commits the flip only once the server accepted it.
func (s *Store) ToggleCompletion(ctx context.Context, id int64) error {
	task, ok := s.Get(id)
	if !ok {
		return fmt.Errorf("toggle task %d: %w", id, ErrTaskNotFound)
	}
	fields := task.Fields()
	fields.IsCompleted = !fields.IsCompleted
	return s.push(ctx, id, fields)
}

func (s *Store) push(ctx context.Context, id int64, fields model.TaskFields) error {
	fields.ID = id
	if err := s.api.UpdateTask(ctx, id, fields); err != nil {
		return fmt.Errorf("update task %d: %w", id, err)
	}

	s.mu.Lock()
	index := s.indexLocked(id)
	if index < 0 {
		s.mu.Unlock()
		return nil
	}
	s.tasks[index].Apply(fields)
	delete(s.unsynced, id)
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.changed.Notify(snapshot)
	return nil
}

// Delete removes the task after the server did, and clears the active
// binding when it pointed at it.
func (s *Store) Delete(ctx context.Context, id int64) error {
	if err := s.api.DeleteTask(ctx, id); err != nil {
		return fmt.Errorf("delete task %d: %w", id, err)
	}

	s.mu.Lock()
	if index := s.indexLocked(id); index >= 0 {
		s.tasks = append(s.tasks[:index], s.tasks[index+1:]...)
	}
	delete(s.unsynced, id)
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	if s.binding != nil {
		s.binding.ClearActive(id)
	}
	s.changed.Notify(snapshot)
	return nil
}

// IncrementCompleted credits one focus session to the task. The local
// counter moves first and is kept even when the server rejects the update;
// such a task is reported by Unsynced until a later fetch or update.
func (s *Store) IncrementCompleted(ctx context.Context, id int64) error {
	s.mu.Lock()
	index := s.indexLocked(id)
	if index < 0 {
		s.mu.Unlock()
		return fmt.Errorf("credit task %d: %w", id, ErrTaskNotFound)
	}
	s.tasks[index].CompletedPomodoros++
	fields := s.tasks[index].Fields()
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.changed.Notify(snapshot)

	if err := s.api.UpdateTask(ctx, id, fields); err != nil {
		s.mu.Lock()
		if s.indexLocked(id) >= 0 {
			s.unsynced[id] = true
		}
		snapshot = s.snapshotLocked()
		s.mu.Unlock()

		s.changed.Notify(snapshot)
		return fmt.Errorf("credit task %d: %w", id, err)
	}

	s.mu.Lock()
	delete(s.unsynced, id)
	s.mu.Unlock()
	return nil
}

// ToggleExpanded flips the view-only expanded flag. No remote call.
func (s *Store) ToggleExpanded(id int64) bool {
	s.mu.Lock()
	index := s.indexLocked(id)
	if index < 0 {
		s.mu.Unlock()
		return false
	}
	s.tasks[index].Expanded = !s.tasks[index].Expanded
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.changed.Notify(snapshot)
	return true
}

// Clear forgets every task, used when the session ends.
func (s *Store) Clear() {
	s.mu.Lock()
	s.tasks = nil
	s.unsynced = make(map[int64]bool)
	s.mu.Unlock()

	s.changed.Notify(nil)
}

func (s *Store) Get(id int64) (model.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	index := s.indexLocked(id)
	if index < 0 {
		return model.Task{}, false
	}
	return s.tasks[index], true
}

func (s *Store) Exists(id int64) bool {
	_, ok := s.Get(id)
	return ok
}

// Unsynced reports whether the local completed count of id is ahead of the
// server's.
func (s *Store) Unsynced(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unsynced[id]
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Tasks returns the tasks in server order.
func (s *Store) Tasks() []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Sorted returns the tasks in display order: the active task, then
// incomplete before complete, then newest first.
func (s *Store) Sorted() []model.Task {
	var activeID int64
	var hasActive bool
	if s.binding != nil {
		activeID, hasActive = s.binding.Current()
	}
	return SortForDisplay(s.Tasks(), activeID, hasActive)
}

// Subscribe calls fn with a copy of the collection after every change.
func (s *Store) Subscribe(fn func([]model.Task)) func() {
	return s.changed.Subscribe(fn)
}

func (s *Store) indexLocked(id int64) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) snapshotLocked() []model.Task {
	if s.tasks == nil {
		return nil
	}
	return append([]model.Task(nil), s.tasks...)
}

// SortForDisplay orders tasks in place and returns them.
func SortForDisplay(tasks []model.Task, activeID int64, hasActive bool) []model.Task {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		if hasActive {
			aActive, bActive := a.ID == activeID, b.ID == activeID
			if aActive != bActive {
				return aActive
			}
		}
		if a.IsCompleted != b.IsCompleted {
			return !a.IsCompleted
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
	return tasks
}
