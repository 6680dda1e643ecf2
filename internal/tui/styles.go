package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203"))

	clockStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("203"))

	tabStyle       = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("245"))
	activeTabStyle = lipgloss.NewStyle().Padding(0, 1).Bold(true).
			Foreground(lipgloss.Color("230")).Background(lipgloss.Color("203"))

	cursorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	activeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	doneStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Strikethrough(true)
	detailStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).PaddingLeft(6)
	unsyncedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	infoStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("78"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	helpStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	sectionStyle   = lipgloss.NewStyle().Bold(true).MarginTop(1)
	mutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	focusedLabel   = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	unfocusedLabel = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)
