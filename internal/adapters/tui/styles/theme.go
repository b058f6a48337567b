package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	Primary = lipgloss.Color("#0052CC") // Jira blue
	Accent  = lipgloss.Color("#36B37E") // Green
	Muted   = lipgloss.Color("#6B7280") // Gray
	Warning = lipgloss.Color("#F59E0B") // Amber
	Error   = lipgloss.Color("#EF4444") // Red
	White   = lipgloss.Color("#FFFFFF")

	// Swimlane colors
	LaneOverdue    = lipgloss.Color("#EF4444")
	LaneOnSchedule = lipgloss.Color("#36B37E")
	LaneOthers     = lipgloss.Color("#6B7280")

	// Base styles
	App = lipgloss.NewStyle().
		Padding(1, 2)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		MarginBottom(1)

	Subtitle = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true)

	LaneHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(White).
			Padding(0, 1)

	StageHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#60A5FA"))

	Card = lipgloss.NewStyle().
		PaddingLeft(2)

	CardSelected = lipgloss.NewStyle().
			PaddingLeft(2).
			Background(Primary).
			Foreground(White).
			Bold(true)

	CardKey = lipgloss.NewStyle().
		Foreground(Accent)

	CardMeta = lipgloss.NewStyle().
			Foreground(Muted)

	StatusLine = lipgloss.NewStyle().
			Foreground(Muted).
			MarginTop(1)

	ErrorLine = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)
)

// LaneColor returns the header color for a swimlane id.
func LaneColor(lane string) lipgloss.Color {
	switch lane {
	case "overdue":
		return LaneOverdue
	case "onSchedule":
		return LaneOnSchedule
	default:
		return LaneOthers
	}
}
