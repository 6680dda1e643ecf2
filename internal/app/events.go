package app

import "pomodoro/internal/timer"

// Level grades a notice.
type Level int

const (
	Info Level = iota
	Error
)

func (l Level) String() string {
	if l == Error {
		return "error"
	}
	return "info"
}

// Notice is a message for the user.
type Notice struct {
	Level Level
	Text  string
}

// EventKind says which part of the home screen changed.
type EventKind int

const (
	TimerChanged EventKind = iota
	TasksChanged
	ActiveChanged
	SettingsChanged
	AuthChanged
	NoticePosted
)

// Event is delivered to views after every change, on the goroutine that
// made it.
type Event struct {
	Kind   EventKind
	Timer  timer.State
	Notice Notice
}

const (
	msgLoginToCreate   = "You must be logged in to create tasks."
	msgLoginToUpdate   = "You must be logged in to update tasks."
	msgLoginToDelete   = "You must be logged in to delete tasks."
	msgCreateFailed    = "Failed to add task. Please ensure you are logged in."
	msgUpdateFailed    = "Failed to update task. Please ensure you are logged in."
	msgDeleteFailed    = "Failed to delete task. Please ensure you are logged in."
	msgLoadFailed      = "Failed to load tasks."
	msgSessionExpired  = "Your session has expired. Please log in again."
	msgTitleRequired   = "Task title is required."
	msgCreditFailed    = "Failed to save the completed pomodoro. The task count is only stored locally."
	msgSettingsSaved   = "Settings updated successfully!"
	msgSettingsFailed  = "Failed to save settings."
	msgPasswordsDiffer = "Passwords do not match."
	msgRegistered      = "Registration successful. Please log in."
	msgLoggedIn        = "Logged in."
	msgLoggedOut       = "Logged out."
)
