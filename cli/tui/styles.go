// Package tui provides the Bubble Tea live-capture view for the irminsul
// CLI.
//
// The TUI is opt-in (--tui flag) and read-only except for the export key:
// it renders the same session state the plain log output reports.
package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/irminsul-dev/irminsul/types"
)

// Color palette.
var (
	primaryColor   = lipgloss.Color("#7C3AED") // Purple
	successColor   = lipgloss.Color("#10B981") // Green
	warningColor   = lipgloss.Color("#F59E0B") // Amber
	errorColor     = lipgloss.Color("#EF4444") // Red
	mutedColor     = lipgloss.Color("#6B7280") // Gray
	highlightColor = lipgloss.Color("#3B82F6") // Blue
)

// Styles for TUI components.
var (
	// TitleStyle for headers and titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			MarginBottom(1)

	// LabelStyle for field labels.
	LabelStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Width(12)

	// ValueStyle for field values.
	ValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	// SuccessStyle for complete categories.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(successColor)

	// WarningStyle for in-progress categories.
	WarningStyle = lipgloss.NewStyle().
			Foreground(warningColor)

	// ErrorStyle for error lines.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(errorColor)

	// MutedStyle for not-started categories and secondary text.
	MutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	// BoxStyle for bordered containers.
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mutedColor).
			Padding(1, 2)

	// HelpStyle for help text.
	HelpStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			MarginTop(1)

	// CountStyle for record counts.
	CountStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(highlightColor)
)

// StatusStyle returns the style for an enumeration status.
func StatusStyle(status types.EnumStatus) lipgloss.Style {
	switch status {
	case types.EnumComplete:
		return SuccessStyle
	case types.EnumInProgress:
		return WarningStyle
	default:
		return MutedStyle
	}
}
