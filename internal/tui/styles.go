package tui

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	primaryColor = lipgloss.Color("#7C3AED")
	successColor = lipgloss.Color("#10B981")
	errorColor   = lipgloss.Color("#EF4444")
	mutedColor   = lipgloss.Color("#6B7280")
	fgColor      = lipgloss.Color("#F9FAFB")
	cyanColor    = lipgloss.Color("#06B6D4")
	systemColor  = lipgloss.Color("#F59E0B")

	// Styles
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			Padding(0, 1)

	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#374151")).
			Foreground(fgColor).
			Padding(0, 1)

	inputBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(0, 1)

	commandStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(cyanColor)

	outputStyle = lipgloss.NewStyle().
			Foreground(fgColor)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor)

	systemStyle = lipgloss.NewStyle().
			Foreground(systemColor).
			Italic(true)

	aiStyle = lipgloss.NewStyle().
			Foreground(primaryColor)

	metaStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	successMarkStyle = lipgloss.NewStyle().
				Foreground(successColor).
				Bold(true)

	failureMarkStyle = lipgloss.NewStyle().
				Foreground(errorColor).
				Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Italic(true)
)
