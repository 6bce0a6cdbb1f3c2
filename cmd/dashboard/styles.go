package main

import (
	"github.com/charmbracelet/lipgloss"
)

// Style definitions.
var (
	// TitleStyle for headers.
	TitleStyle = lipgloss.NewStyle().Bold(true)

	// HelpStyle for help text.
	HelpStyle = lipgloss.NewStyle().Faint(true)

	// ErrorStyle for error messages.
	ErrorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))

	// NoticeStyle for non-fatal notes such as a strategy fallback.
	NoticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

// FormatReturn appends a direction marker to a formatted percentage.
func FormatReturn(formatted string, value float64) string {
	switch {
	case value > 0:
		return formatted + " ▲"
	case value < 0:
		return formatted + " ▼"
	default:
		return formatted
	}
}
