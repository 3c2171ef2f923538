package ui

import "github.com/charmbracelet/lipgloss"

var (
	ToolCallStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // Blue

	ToolResultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")) // Dim gray

	ToolFailureStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("196")) // Red

	DiagnosticStyle = lipgloss.NewStyle().Faint(true)

	WarningStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214")) // Orange

	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))
)
