package theme

import (
	"charm.land/lipgloss/v2"
)

// Color palette
var (
	Primary   = lipgloss.Color("#8B5CF6") // Vivid Purple
	Secondary = lipgloss.Color("#14B8A6") // Teal
	Warning   = lipgloss.Color("#F59E0B") // Amber
	Success   = lipgloss.Color("#22C55E") // Green
	Error     = lipgloss.Color("#F43F5E") // Rose
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	Border    = lipgloss.Color("#334155") // Slate
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)
)

// Priorities
var (
	PriorityHigh = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	PriorityMedium = lipgloss.NewStyle().
			Foreground(Warning)

	PriorityLow = lipgloss.NewStyle().
			Foreground(Secondary)

	Urgent = lipgloss.NewStyle().
		Foreground(Text).
		Background(Error).
		Bold(true).
		Padding(0, 1)
)

// Insight kinds
var (
	Info = lipgloss.NewStyle().
		Foreground(Secondary)

	Alert = lipgloss.NewStyle().
		Foreground(Error).
		Bold(true)

	Good = lipgloss.NewStyle().
		Foreground(Success)
)

// Layout
var (
	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 1)
)

// Components
var (
	ProgressFilled = lipgloss.NewStyle().
			Background(Secondary)

	ProgressEmpty = lipgloss.NewStyle().
			Background(Border)
)

// ForPriority returns the style for a priority name ("high", "medium",
// "low"). Unknown names render as body text.
func ForPriority(p string) lipgloss.Style {
	switch p {
	case "high":
		return PriorityHigh
	case "medium":
		return PriorityMedium
	case "low":
		return PriorityLow
	default:
		return Body
	}
}

// ForInsight returns the style for an insight kind ("info", "warning",
// "alert").
func ForInsight(kind string) lipgloss.Style {
	switch kind {
	case "alert":
		return Alert
	case "warning":
		return PriorityMedium
	default:
		return Info
	}
}
