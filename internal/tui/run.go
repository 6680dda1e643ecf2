package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"pomodoro/internal/app"
)

// Run shows the home screen until the user quits.
func Run(ctx context.Context, ctrl *app.Controller) error {
	program := tea.NewProgram(New(ctx, ctrl), tea.WithAltScreen(), tea.WithContext(ctx))

	unsubscribe := ctrl.Subscribe(func(event app.Event) {
		program.Send(eventMsg{event: event})
	})
	defer unsubscribe()

	_, err := program.Run()
	return err
}
