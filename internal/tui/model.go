// Package tui is the terminal home screen: the timer on top, the task list
// below.
package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"pomodoro/internal/app"
	"pomodoro/internal/model"
	"pomodoro/internal/settings"
	"pomodoro/internal/timer"
)

type screen int

const (
	screenList screen = iota
	screenAdd
	screenConfirmDelete
	screenSettings
)

// eventMsg carries a controller event into the program.
type eventMsg struct {
	event app.Event
}

// doneMsg ends an action command; Update resyncs on it.
type doneMsg struct{}

type Model struct {
	ctrl *app.Controller
	ctx  context.Context

	timer     timer.State
	tasks     []model.Task
	authed    bool
	activeID  int64
	hasActive bool

	cursor     int
	screen     screen
	input      textinput.Model
	fields     [3]textinput.Model
	fieldIndex int
	pendingDel *model.Task
	notice     app.Notice
	width      int
}

func New(ctx context.Context, ctrl *app.Controller) Model {
	ti := textinput.New()
	ti.Placeholder = "Task title"
	ti.CharLimit = 256
	ti.Width = 40

	m := Model{
		ctrl:   ctrl,
		ctx:    ctx,
		input:  ti,
		screen: screenList,
		notice: app.Notice{Text: "Press space to start the timer."},
	}
	for i := range m.fields {
		field := textinput.New()
		field.CharLimit = 4
		field.Width = 6
		m.fields[i] = field
	}
	m.sync()
	return m
}

func (m Model) Init() tea.Cmd {
	return m.action(func() { _ = m.ctrl.Refresh(m.ctx) })
}

// action runs fn off the event loop. Controller calls notify subscribers,
// which send back into the program, so they never run inside Update.
func (m Model) action(fn func()) tea.Cmd {
	return func() tea.Msg {
		fn()
		return doneMsg{}
	}
}

func (m *Model) sync() {
	m.timer = m.ctrl.Timer()
	m.authed = m.ctrl.Authenticated()
	m.activeID, m.hasActive = m.ctrl.ActiveTask()
	if m.authed {
		m.tasks = m.ctrl.Tasks()
	} else {
		m.tasks = nil
	}
	m.cursor = clampCursor(m.cursor, len(m.tasks))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		if msg.event.Kind == app.NoticePosted {
			m.notice = msg.event.Notice
		}
		m.sync()
		return m, nil
	case doneMsg:
		m.sync()
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(msg.Width-10, 10)
		return m, nil
	case tea.KeyMsg:
		switch m.screen {
		case screenAdd:
			return m.updateAdd(msg)
		case screenConfirmDelete:
			return m.updateConfirmDelete(msg.String())
		case screenSettings:
			return m.updateSettings(msg)
		}
		return m.updateList(msg.String())
	}
	return m, nil
}

func (m Model) selected() (model.Task, bool) {
	if len(m.tasks) == 0 {
		return model.Task{}, false
	}
	return m.tasks[clampCursor(m.cursor, len(m.tasks))], true
}

func (m Model) updateList(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "ctrl+c", "q":
		return m, tea.Quit
	case " ":
		return m, m.action(m.ctrl.ToggleTimer)
	case "r":
		return m, m.action(m.ctrl.ResetTimer)
	case "1", "2", "3":
		mode := timer.Modes[key[0]-'1']
		return m, m.action(func() { _ = m.ctrl.SwitchMode(mode) })
	case "j", "down":
		m.cursor = clampCursor(m.cursor+1, len(m.tasks))
	case "k", "up":
		m.cursor = clampCursor(m.cursor-1, len(m.tasks))
	case "a":
		if !m.authed {
			return m, m.action(func() { _, _ = m.ctrl.AddTask(m.ctx, model.TaskFields{}) })
		}
		m.screen = screenAdd
		m.input.SetValue("")
		m.input.Focus()
		m.notice = app.Notice{Text: "New task: type a title and press Enter, Esc to cancel."}
	case "x":
		task, ok := m.selected()
		if !ok {
			return m, nil
		}
		return m, m.action(func() { _ = m.ctrl.ToggleTask(m.ctx, task.ID) })
	case "d":
		task, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.pendingDel = &task
		m.screen = screenConfirmDelete
		m.notice = app.Notice{Text: fmt.Sprintf("Delete %q? y/n", task.Title)}
	case "enter":
		task, ok := m.selected()
		if !ok {
			return m, nil
		}
		return m, m.action(func() { _, _ = m.ctrl.ToggleActive(task.ID) })
	case "e":
		task, ok := m.selected()
		if !ok {
			return m, nil
		}
		return m, m.action(func() { m.ctrl.ToggleExpanded(task.ID) })
	case "s":
		m.startSettings()
	case "ctrl+r":
		return m, m.action(func() { _ = m.ctrl.Refresh(m.ctx) })
	case "L":
		return m, m.action(m.ctrl.Logout)
	}
	return m, nil
}

func (m Model) updateAdd(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.screen = screenList
		m.input.Blur()
		m.input.SetValue("")
		m.notice = app.Notice{Text: "Cancelled."}
		return m, nil
	case "enter":
		title := m.input.Value()
		m.screen = screenList
		m.input.Blur()
		m.input.SetValue("")
		return m, m.action(func() { _, _ = m.ctrl.AddTask(m.ctx, model.TaskFields{Title: title}) })
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateConfirmDelete(key string) (tea.Model, tea.Cmd) {
	task := m.pendingDel
	m.pendingDel = nil
	m.screen = screenList
	if task == nil || (key != "y" && key != "Y") {
		m.notice = app.Notice{Text: "Delete cancelled."}
		return m, nil
	}
	id := task.ID
	return m, m.action(func() { _ = m.ctrl.DeleteTask(m.ctx, id) })
}

func (m *Model) startSettings() {
	snapshot := m.ctrl.Settings()
	for i, kind := range []settings.Kind{settings.Focus, settings.ShortBreak, settings.LongBreak} {
		m.fields[i].SetValue(fmt.Sprint(snapshot.Minutes(kind)))
		m.fields[i].Blur()
	}
	m.fieldIndex = 0
	m.fields[0].Focus()
	m.screen = screenSettings
	m.notice = app.Notice{Text: "Durations in minutes. Tab to move, Enter to save, Esc to cancel."}
}

func (m Model) updateSettings(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.screen = screenList
		m.notice = app.Notice{Text: "Settings unchanged."}
		return m, nil
	case "tab", "down":
		m.focusField(m.fieldIndex + 1)
		return m, nil
	case "shift+tab", "up":
		m.focusField(m.fieldIndex - 1)
		return m, nil
	case "enter":
		focus := m.fields[0].Value()
		short := m.fields[1].Value()
		long := m.fields[2].Value()
		m.screen = screenList
		return m, m.action(func() { _ = m.ctrl.UpdateSettings(focus, short, long) })
	}
	var cmd tea.Cmd
	m.fields[m.fieldIndex], cmd = m.fields[m.fieldIndex].Update(msg)
	return m, cmd
}

func (m *Model) focusField(index int) {
	m.fields[m.fieldIndex].Blur()
	m.fieldIndex = wrapIndex(index, len(m.fields))
	m.fields[m.fieldIndex].Focus()
}

func clampCursor(cur, n int) int {
	if n <= 0 || cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}

func wrapIndex(idx, n int) int {
	if n <= 0 {
		return 0
	}
	idx %= n
	if idx < 0 {
		idx += n
	}
	return idx
}
