package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"pomodoro/internal/app"
	"pomodoro/internal/model"
	"pomodoro/internal/timer"
)

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Pomodoro"))
	b.WriteString("\n\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n")
	b.WriteString(m.renderClock())
	b.WriteString("\n")

	switch m.screen {
	case screenSettings:
		b.WriteString(m.renderSettings())
	default:
		b.WriteString(m.renderTasks())
		if m.screen == screenAdd {
			b.WriteString("\n")
			b.WriteString(m.input.View())
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(renderNotice(m.notice))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help()))
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderTabs() string {
	tabs := make([]string, 0, len(timer.Modes))
	for i, mode := range timer.Modes {
		label := fmt.Sprintf("%d %s", i+1, mode.Label())
		if mode == m.timer.Mode {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, tabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) renderClock() string {
	state := "paused"
	if m.timer.Running {
		state = "running"
	}
	line := fmt.Sprintf("%s  %s", m.timer.Clock(), mutedStyle.Render(state))
	sessions := mutedStyle.Render(fmt.Sprintf("Completed focus sessions: %d", m.timer.CompletedFocus))
	return clockStyle.Render(line) + "\n" + sessions
}

func (m Model) renderTasks() string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("Tasks"))
	b.WriteString("\n")

	if !m.authed {
		b.WriteString(mutedStyle.Render("Log in with `pomodoro login` to manage tasks."))
		b.WriteString("\n")
		return b.String()
	}
	if len(m.tasks) == 0 {
		b.WriteString(mutedStyle.Render("No tasks yet. Press 'a' to add one."))
		b.WriteString("\n")
		return b.String()
	}

	for i, task := range m.tasks {
		b.WriteString(m.renderTask(i, task))
		b.WriteString("\n")
		if task.Expanded {
			b.WriteString(renderDetails(task))
		}
	}
	return b.String()
}

func (m Model) renderTask(index int, task model.Task) string {
	pointer := " "
	if index == m.cursor {
		pointer = cursorStyle.Render(">")
	}
	check := "[ ]"
	if task.IsCompleted {
		check = "[x]"
	}

	title := task.Title
	if task.IsCompleted {
		title = doneStyle.Render(title)
	}

	count := fmt.Sprintf("%d", task.CompletedPomodoros)
	if task.EstimatedPomodoros != nil {
		count = fmt.Sprintf("%d/%d", task.CompletedPomodoros, *task.EstimatedPomodoros)
	}

	line := fmt.Sprintf("%s %s %s  %s", pointer, check, title, mutedStyle.Render("("+count+")"))
	if m.hasActive && task.ID == m.activeID {
		line += " " + activeStyle.Render("* active")
	}
	if m.ctrl.Unsynced(task.ID) {
		line += " " + unsyncedStyle.Render("! not saved")
	}
	return line
}

func renderDetails(task model.Task) string {
	var lines []string
	if task.Description != nil && strings.TrimSpace(*task.Description) != "" {
		lines = append(lines, *task.Description)
	}
	if task.DueAt != nil {
		lines = append(lines, "Due: "+task.DueAt.Local().Format("2006-01-02 15:04"))
	}
	if !task.CreatedAt.IsZero() {
		lines = append(lines, "Created: "+task.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	if len(lines) == 0 {
		lines = append(lines, "(no details)")
	}
	return detailStyle.Render(strings.Join(lines, "\n")) + "\n"
}

func (m Model) renderSettings() string {
	labels := []string{"Pomodoro", "Short Break", "Long Break"}
	var b strings.Builder
	b.WriteString(sectionStyle.Render("Settings"))
	b.WriteString("\n")
	for i, label := range labels {
		style := unfocusedLabel
		if i == m.fieldIndex {
			style = focusedLabel
		}
		b.WriteString(fmt.Sprintf("%s %s min\n", style.Render(fmt.Sprintf("%-12s", label)), m.fields[i].View()))
	}
	return b.String()
}

func renderNotice(notice app.Notice) string {
	if notice.Text == "" {
		return ""
	}
	if notice.Level == app.Error {
		return errorStyle.Render(notice.Text)
	}
	return infoStyle.Render(notice.Text)
}

func (m Model) help() string {
	switch m.screen {
	case screenAdd:
		return "enter save • esc cancel"
	case screenConfirmDelete:
		return "y delete • any other key cancels"
	case screenSettings:
		return "tab next • enter save • esc cancel"
	}
	keys := "space start/pause • r reset • 1/2/3 mode • s settings"
	if m.authed {
		keys += " • a add • x done • d delete • enter active • e details • j/k move • ctrl+r reload • L logout"
	}
	return keys + " • q quit"
}
