// Package app coordinates the home screen: the timer, the task list, the
// active task, the settings and the login state. Views call its methods
// and subscribe to its events; they never talk to the stores directly.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"pomodoro/internal/activetask"
	"pomodoro/internal/auth"
	apperrors "pomodoro/internal/errors"
	"pomodoro/internal/model"
	"pomodoro/internal/observe"
	"pomodoro/internal/settings"
	"pomodoro/internal/tasks"
	"pomodoro/internal/timer"
)

// Deps are the collaborators of a Controller. Engine may be nil, in which
// case one is built over Settings.
type Deps struct {
	Engine   *timer.Engine
	Settings *settings.Store
	Tasks    *tasks.Store
	Binding  *activetask.Binding
	Session  *auth.Session
	Logger   *log.Logger
}

type Controller struct {
	engine   *timer.Engine
	settings *settings.Store
	tasks    *tasks.Store
	binding  *activetask.Binding
	session  *auth.Session
	logger   *log.Logger

	events       observe.Subject[Event]
	unsubscribes []func()
}

func New(deps Deps) *Controller {
	c := &Controller{
		engine:   deps.Engine,
		settings: deps.Settings,
		tasks:    deps.Tasks,
		binding:  deps.Binding,
		session:  deps.Session,
		logger:   deps.Logger,
	}
	if c.logger == nil {
		c.logger = log.Default()
	}
	if c.engine == nil {
		c.engine = timer.New(TimerDurations(c.settings))
	}

	c.unsubscribes = append(c.unsubscribes,
		c.engine.Subscribe(c.onTimer),
		c.settings.Subscribe(c.onSettings),
		c.tasks.Subscribe(func([]model.Task) { c.events.Notify(Event{Kind: TasksChanged}) }),
		c.binding.Subscribe(func(activetask.Change) { c.events.Notify(Event{Kind: ActiveChanged}) }),
		c.session.Subscribe(c.onAuth),
	)
	return c
}

// Subscribe registers fn for every change the home screen shows.
func (c *Controller) Subscribe(fn func(Event)) func() {
	return c.events.Subscribe(fn)
}

// Close stops the ticker. Requests already in flight are left alone.
func (c *Controller) Close() {
	for _, unsubscribe := range c.unsubscribes {
		unsubscribe()
	}
	c.unsubscribes = nil
	c.engine.Close()
}

func (c *Controller) post(level Level, text string) {
	c.events.Notify(Event{Kind: NoticePosted, Notice: Notice{Level: level, Text: text}})
}

func (c *Controller) onTimer(event timer.Event) {
	c.events.Notify(Event{Kind: TimerChanged, Timer: event.State})
	c.expireSession()
	if event.Type != timer.EventCompleted {
		return
	}

	c.post(Info, event.Message())
	if event.Ended == timer.Focus {
		c.creditActiveTask()
	}
}

// creditActiveTask adds the finished focus session to the bound task.
func (c *Controller) creditActiveTask() {
	if !c.signedIn() {
		return
	}
	id, ok := c.binding.Current()
	if !ok {
		return
	}
	err := c.tasks.IncrementCompleted(context.Background(), id)
	switch {
	case err == nil:
	case errors.Is(err, tasks.ErrTaskNotFound):
		c.logger.Printf("app: %v", err)
		c.binding.ClearActive(id)
	case apperrors.IsUnauthorized(err):
		c.logger.Printf("app: %v", err)
		c.session.Logout()
		c.post(Error, msgSessionExpired)
	default:
		c.logger.Printf("app: %v", err)
		c.post(Error, msgCreditFailed)
	}
}

// expireSession signs out once the token's expiry has passed, which
// clears the account state through onAuth.
func (c *Controller) expireSession() bool {
	if !c.session.DropExpired() {
		return false
	}
	c.logger.Printf("app: access token expired")
	c.post(Error, msgSessionExpired)
	return true
}

func (c *Controller) signedIn() bool {
	c.expireSession()
	return c.session.IsAuthenticated()
}

func (c *Controller) onSettings(settings.Snapshot) {
	c.engine.ApplySettings()
	c.events.Notify(Event{Kind: SettingsChanged})
}

// onAuth drops everything tied to the account when the session ends. The
// timer keeps running.
func (c *Controller) onAuth(authenticated bool) {
	if !authenticated {
		c.binding.Clear()
		c.tasks.Clear()
	}
	c.events.Notify(Event{Kind: AuthChanged})
}

// Timer

func (c *Controller) Timer() timer.State { return c.engine.State() }
func (c *Controller) Start()             { c.engine.Start() }
func (c *Controller) Pause()             { c.engine.Pause() }
func (c *Controller) ToggleTimer()       { c.engine.Toggle() }
func (c *Controller) ResetTimer()        { c.engine.Reset() }

func (c *Controller) SwitchMode(mode timer.Mode) error {
	return c.engine.SwitchMode(mode)
}

// Auth

func (c *Controller) Authenticated() bool {
	return c.session.IsAuthenticated()
}

// Login signs in and loads the task list.
func (c *Controller) Login(ctx context.Context, email, password string) error {
	if err := c.session.Login(ctx, email, password); err != nil {
		c.logger.Printf("app: login: %v", err)
		c.post(Error, "Login failed: "+describe(err))
		return err
	}
	c.post(Info, msgLoggedIn)
	return c.Refresh(ctx)
}

func (c *Controller) Register(ctx context.Context, email, password, confirm string) error {
	err := c.session.Register(ctx, email, password, confirm)
	switch {
	case errors.Is(err, auth.ErrPasswordMismatch):
		c.post(Error, msgPasswordsDiffer)
		return err
	case err != nil:
		c.logger.Printf("app: register: %v", err)
		c.post(Error, "Registration failed: "+describe(err))
		return err
	}
	c.post(Info, msgRegistered)
	return nil
}

func (c *Controller) Logout() {
	c.session.Logout()
	c.post(Info, msgLoggedOut)
}

// Tasks

// Refresh reloads the task list. A rejected token signs the user out.
// Afterwards the persisted active task is restored if it still exists.
func (c *Controller) Refresh(ctx context.Context) error {
	if !c.signedIn() {
		return auth.ErrNotAuthenticated
	}

	if err := c.tasks.Fetch(ctx); err != nil {
		c.logger.Printf("app: fetch tasks: %v", err)
		if apperrors.IsUnauthorized(err) {
			c.session.Logout()
			c.post(Error, msgSessionExpired)
			return err
		}
		c.post(Error, msgLoadFailed)
		return err
	}

	if id, ok := c.binding.Current(); ok {
		if !c.tasks.Exists(id) {
			c.binding.ClearActive(id)
		}
		return nil
	}
	c.binding.Restore(c.tasks.Exists)
	return nil
}

// Tasks returns the list in display order.
func (c *Controller) Tasks() []model.Task {
	return c.tasks.Sorted()
}

func (c *Controller) Task(id int64) (model.Task, bool) {
	return c.tasks.Get(id)
}

// Unsynced reports a task whose completed count the server did not accept.
func (c *Controller) Unsynced(id int64) bool {
	return c.tasks.Unsynced(id)
}

func (c *Controller) AddTask(ctx context.Context, fields model.TaskFields) (model.Task, error) {
	if !c.signedIn() {
		c.post(Error, msgLoginToCreate)
		return model.Task{}, auth.ErrNotAuthenticated
	}

	created, err := c.tasks.Create(ctx, fields)
	if errors.Is(err, tasks.ErrEmptyTitle) {
		c.post(Error, msgTitleRequired)
		return model.Task{}, err
	}
	if err != nil {
		c.logger.Printf("app: %v", err)
		c.post(Error, msgCreateFailed)
		return model.Task{}, err
	}
	return created, nil
}

func (c *Controller) ToggleTask(ctx context.Context, id int64) error {
	if !c.signedIn() {
		c.post(Error, msgLoginToUpdate)
		return auth.ErrNotAuthenticated
	}
	if err := c.tasks.ToggleCompletion(ctx, id); err != nil {
		c.logger.Printf("app: %v", err)
		c.post(Error, msgUpdateFailed)
		return err
	}
	return nil
}

func (c *Controller) UpdateTask(ctx context.Context, task model.Task) error {
	if !c.signedIn() {
		c.post(Error, msgLoginToUpdate)
		return auth.ErrNotAuthenticated
	}
	err := c.tasks.Update(ctx, task)
	if errors.Is(err, tasks.ErrEmptyTitle) {
		c.post(Error, msgTitleRequired)
		return err
	}
	if err != nil {
		c.logger.Printf("app: %v", err)
		c.post(Error, msgUpdateFailed)
		return err
	}
	return nil
}

func (c *Controller) DeleteTask(ctx context.Context, id int64) error {
	if !c.signedIn() {
		c.post(Error, msgLoginToDelete)
		return auth.ErrNotAuthenticated
	}
	if err := c.tasks.Delete(ctx, id); err != nil {
		c.logger.Printf("app: %v", err)
		c.post(Error, msgDeleteFailed)
		return err
	}
	return nil
}

func (c *Controller) ToggleExpanded(id int64) {
	c.tasks.ToggleExpanded(id)
}

// Active task

func (c *Controller) ActiveTask() (int64, bool) {
	return c.binding.Current()
}

// SetActive binds id. The task must be in the list.
func (c *Controller) SetActive(id int64) error {
	if !c.tasks.Exists(id) {
		return fmt.Errorf("set active task %d: %w", id, tasks.ErrTaskNotFound)
	}
	c.binding.SetActive(id)
	return nil
}

func (c *Controller) ClearActive(id int64) {
	c.binding.ClearActive(id)
}

// ToggleActive binds id, or unbinds it when it already is the active task.
// It returns whether id is active afterwards.
func (c *Controller) ToggleActive(id int64) (bool, error) {
	if c.binding.Is(id) {
		c.binding.ClearActive(id)
		return false, nil
	}
	if err := c.SetActive(id); err != nil {
		return false, err
	}
	return true, nil
}

// Settings

func (c *Controller) Settings() settings.Snapshot {
	return c.settings.Snapshot()
}

// UpdateSettings validates all three inputs before storing any of them.
// Values are then stored one at a time; if one fails, those before it stay
// saved and applied, and the notice names them.
func (c *Controller) UpdateSettings(focus, shortBreak, longBreak string) error {
	inputs := []struct {
		kind settings.Kind
		raw  string
	}{
		{settings.Focus, focus},
		{settings.ShortBreak, shortBreak},
		{settings.LongBreak, longBreak},
	}

	values := make([]int, len(inputs))
	for i, in := range inputs {
		minutes, err := strconv.Atoi(strings.TrimSpace(in.raw))
		if err != nil || minutes <= 0 {
			c.post(Error, fmt.Sprintf("%s duration must be a positive number.", in.kind.Label()))
			return fmt.Errorf("%s %w", in.kind.Label(), settings.ErrInvalidDuration)
		}
		values[i] = minutes
	}

	var saved []string
	for i, in := range inputs {
		if values[i] == c.settings.Get(in.kind) {
			continue
		}
		if err := c.settings.Set(in.kind, values[i]); err != nil {
			c.logger.Printf("app: %v", err)
			c.post(Error, settingsFailure(in.kind, saved))
			return err
		}
		saved = append(saved, in.kind.Label())
	}
	c.post(Info, msgSettingsSaved)
	return nil
}

func settingsFailure(failed settings.Kind, saved []string) string {
	if len(saved) == 0 {
		return msgSettingsFailed
	}
	return fmt.Sprintf("Failed to save the %s duration. Saved: %s.", failed.Label(), strings.Join(saved, ", "))
}

// UpdateSetting changes a single duration.
func (c *Controller) UpdateSetting(kind settings.Kind, input string) error {
	if err := c.settings.SetText(kind, input); err != nil {
		if errors.Is(err, settings.ErrInvalidDuration) {
			c.post(Error, fmt.Sprintf("%s duration must be a positive number.", kind.Label()))
		} else {
			c.logger.Printf("app: %v", err)
			c.post(Error, msgSettingsFailed)
		}
		return err
	}
	c.post(Info, msgSettingsSaved)
	return nil
}

func describe(err error) string {
	var apiErr *apperrors.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
