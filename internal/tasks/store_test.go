package tasks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pomodoro/internal/activetask"
	apperrors "pomodoro/internal/errors"
	"pomodoro/internal/kv"
	"pomodoro/internal/model"
)

var errNetwork = errors.New("connection refused")

type fakeAPI struct {
	tasks  []model.Task
	nextID int64

	listErr   error
	createErr error
	updateErr error
	deleteErr error

	creates []model.TaskFields
	updates []model.TaskFields
	deletes []int64
}

func (f *fakeAPI) ListTasks(context.Context) ([]model.Task, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]model.Task(nil), f.tasks...), nil
}

func (f *fakeAPI) CreateTask(_ context.Context, fields model.TaskFields) (model.Task, error) {
	f.creates = append(f.creates, fields)
	if f.createErr != nil {
		return model.Task{}, f.createErr
	}
	f.nextID++
	task := model.Task{ID: f.nextID, CreatedAt: time.Date(2026, 1, 1, 0, 0, int(f.nextID), 0, time.UTC)}
	task.Apply(fields)
	f.tasks = append(f.tasks, task)
	return task, nil
}

func (f *fakeAPI) UpdateTask(_ context.Context, id int64, fields model.TaskFields) error {
	f.updates = append(f.updates, fields)
	if f.updateErr != nil {
		return f.updateErr
	}
	for i := range f.tasks {
		if f.tasks[i].ID == id {
			f.tasks[i].Apply(fields)
		}
	}
	return nil
}

func (f *fakeAPI) DeleteTask(_ context.Context, id int64) error {
	f.deletes = append(f.deletes, id)
	return f.deleteErr
}

func at(minute int) time.Time {
	return time.Date(2026, 3, 1, 9, minute, 0, 0, time.UTC)
}

func newStore(t *testing.T, api *fakeAPI) (*Store, *activetask.Binding) {
	t.Helper()
	binding := activetask.New(activetask.KVPersistence{Store: kv.NewMemory()}, nil)
	store := NewStore(api, binding)
	require.NoError(t, store.Fetch(context.Background()))
	return store, binding
}

func TestFetchReplacesCollection(t *testing.T) {
	api := &fakeAPI{tasks: []model.Task{{ID: 1, Title: "one"}, {ID: 2, Title: "two"}}}
	store, _ := newStore(t, api)
	assert.Equal(t, 2, store.Len())

	api.tasks = []model.Task{{ID: 3, Title: "three"}}
	require.NoError(t, store.Fetch(context.Background()))
	assert.Equal(t, []model.Task{{ID: 3, Title: "three"}}, store.Tasks())
}

func TestFetchTreatsNotFoundAsEmpty(t *testing.T) {
	api := &fakeAPI{tasks: []model.Task{{ID: 1, Title: "one"}}}
	store, _ := newStore(t, api)

	api.listErr = apperrors.NotFound("tasks_not_found", "no tasks")
	require.NoError(t, store.Fetch(context.Background()))
	assert.Equal(t, 0, store.Len())
}

func TestFetchReportsUnauthorizedAndKeepsTasks(t *testing.T) {
	api := &fakeAPI{tasks: []model.Task{{ID: 1, Title: "one"}}}
	store, _ := newStore(t, api)

	api.listErr = apperrors.Unauthorized("token expired")
	err := store.Fetch(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsUnauthorized(err))
	assert.Equal(t, 1, store.Len())
}

func TestCreateWithEmptyTitleMakesNoRemoteCall(t *testing.T) {
	api := &fakeAPI{}
	store, _ := newStore(t, api)

	_, err := store.Create(context.Background(), model.TaskFields{Title: "   "})
	assert.ErrorIs(t, err, ErrEmptyTitle)
	assert.Empty(t, api.creates)
	assert.Equal(t, 0, store.Len())
}

func TestCreateAppendsServerRecord(t *testing.T) {
	api := &fakeAPI{}
	store, _ := newStore(t, api)

	created, err := store.Create(context.Background(), model.TaskFields{Title: "  write report  "})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, "write report", created.Title)
	assert.False(t, created.CreatedAt.IsZero())

	got, ok := store.Get(created.ID)
	require.True(t, ok)
	assert.Equal(t, created, got)
}

func TestCreateFailureAddsNothing(t *testing.T) {
	api := &fakeAPI{createErr: errNetwork}
	store, _ := newStore(t, api)

	_, err := store.Create(context.Background(), model.TaskFields{Title: "x"})
	assert.ErrorIs(t, err, errNetwork)
	assert.Equal(t, 0, store.Len())
}

func TestToggleCompletionCommitsAfterSuccess(t *testing.T) {
	api := &fakeAPI{tasks: []model.Task{{ID: 1, Title: "one", CompletedPomodoros: 2}}}
	store, _ := newStore(t, api)

	require.NoError(t, store.ToggleCompletion(context.Background(), 1))
	task, _ := store.Get(1)
	assert.True(t, task.IsCompleted)

	require.Len(t, api.updates, 1)
	assert.Equal(t, model.TaskFields{ID: 1, Title: "one", IsCompleted: true, CompletedPomodoros: 2}, api.updates[0])
}

func TestUpdateFailureLeavesTasksUnchanged(t *testing.T) {
	api := &fakeAPI{tasks: []model.Task{{ID: 1, Title: "one"}, {ID: 2, Title: "two"}}}
	store, _ := newStore(t, api)
	before := store.Tasks()

	api.updateErr = errNetwork
	assert.ErrorIs(t, store.ToggleCompletion(context.Background(), 1), errNetwork)

	renamed, _ := store.Get(2)
	renamed.Title = "renamed"
	assert.ErrorIs(t, store.Update(context.Background(), renamed), errNetwork)

	assert.Equal(t, before, store.Tasks())
}

func TestUpdateRejectsUnknownAndUntitledTasks(t *testing.T) {
	api := &fakeAPI{tasks: []model.Task{{ID: 1, Title: "one"}}}
	store, _ := newStore(t, api)

	assert.ErrorIs(t, store.Update(context.Background(), model.Task{ID: 9, Title: "x"}), ErrTaskNotFound)
	assert.ErrorIs(t, store.Update(context.Background(), model.Task{ID: 1, Title: ""}), ErrEmptyTitle)
	assert.Empty(t, api.updates)
}

func TestDeleteClearsActiveBinding(t *testing.T) {
	api := &fakeAPI{tasks: []model.Task{{ID: 1, Title: "one"}, {ID: 2, Title: "two"}}}
	store, binding := newStore(t, api)

	binding.SetActive(2)
	require.NoError(t, store.Delete(context.Background(), 1))
	assert.True(t, binding.Is(2), "deleting another task keeps the binding")

	require.NoError(t, store.Delete(context.Background(), 2))
	_, bound := binding.Current()
	assert.False(t, bound)
	assert.Equal(t, 0, store.Len())
}

func TestDeleteFailureKeepsTaskAndBinding(t *testing.T) {
	api := &fakeAPI{tasks: []model.Task{{ID: 1, Title: "one"}}, deleteErr: errNetwork}
	store, binding := newStore(t, api)
	binding.SetActive(1)

	assert.Error(t, store.Delete(context.Background(), 1))
	assert.True(t, store.Exists(1))
	assert.True(t, binding.Is(1))
}

func TestIncrementCompletedSendsUpdate(t *testing.T) {
	api := &fakeAPI{tasks: []model.Task{{ID: 1, Title: "one", CompletedPomodoros: 1}}}
	store, _ := newStore(t, api)

	require.NoError(t, store.IncrementCompleted(context.Background(), 1))
	task, _ := store.Get(1)
	assert.Equal(t, 2, task.CompletedPomodoros)
	require.Len(t, api.updates, 1)
	assert.Equal(t, 2, api.updates[0].CompletedPomodoros)
	assert.False(t, store.Unsynced(1))
}

// The local counter is not rolled back when the server rejects the credit.
// The task is flagged instead, until the next successful fetch.
func TestIncrementCompletedFailureKeepsLocalCountAndFlagsDivergence(t *testing.T) {
	api := &fakeAPI{tasks: []model.Task{{ID: 1, Title: "one", CompletedPomodoros: 1}}}
	store, _ := newStore(t, api)

	api.updateErr = errNetwork
	err := store.IncrementCompleted(context.Background(), 1)
	assert.ErrorIs(t, err, errNetwork)

	task, _ := store.Get(1)
	assert.Equal(t, 2, task.CompletedPomodoros)
	assert.Equal(t, 1, api.tasks[0].CompletedPomodoros, "server still has the old count")
	assert.True(t, store.Unsynced(1))

	api.updateErr = nil
	require.NoError(t, store.Fetch(context.Background()))
	task, _ = store.Get(1)
	assert.Equal(t, 1, task.CompletedPomodoros)
	assert.False(t, store.Unsynced(1))
}

func TestIncrementCompletedUnknownTask(t *testing.T) {
	api := &fakeAPI{}
	store, _ := newStore(t, api)

	assert.ErrorIs(t, store.IncrementCompleted(context.Background(), 5), ErrTaskNotFound)
	assert.Empty(t, api.updates)
}

func TestToggleExpandedIsLocalAndSurvivesFetch(t *testing.T) {
	api := &fakeAPI{tasks: []model.Task{{ID: 1, Title: "one"}}}
	store, _ := newStore(t, api)

	assert.True(t, store.ToggleExpanded(1))
	assert.False(t, store.ToggleExpanded(99))
	assert.Empty(t, api.updates)

	require.NoError(t, store.Fetch(context.Background()))
	task, _ := store.Get(1)
	assert.True(t, task.Expanded)
}

func TestSortedOrder(t *testing.T) {
	api := &fakeAPI{tasks: []model.Task{
		{ID: 1, Title: "old open", CreatedAt: at(1)},
		{ID: 2, Title: "new done", CreatedAt: at(5), IsCompleted: true},
		{ID: 3, Title: "new open", CreatedAt: at(4)},
		{ID: 4, Title: "old done", CreatedAt: at(2), IsCompleted: true},
	}}
	store, binding := newStore(t, api)

	ids := func(list []model.Task) []int64 {
		out := make([]int64, 0, len(list))
		for _, task := range list {
			out = append(out, task.ID)
		}
		return out
	}

	assert.Equal(t, []int64{3, 1, 2, 4}, ids(store.Sorted()))

	binding.SetActive(4)
	assert.Equal(t, []int64{4, 3, 1, 2}, ids(store.Sorted()))
	assert.Equal(t, []int64{1, 2, 3, 4}, ids(store.Tasks()), "server order is kept")
}

func TestSubscribersSeeMutationsBeforeReturn(t *testing.T) {
	api := &fakeAPI{}
	store, _ := newStore(t, api)

	var seen []int
	store.Subscribe(func(list []model.Task) { seen = append(seen, len(list)) })

	_, err := store.Create(context.Background(), model.TaskFields{Title: "a"})
	require.NoError(t, err)
	store.Clear()

	assert.Equal(t, []int{1, 0}, seen)
}
