package views

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"jiraflow/internal/adapters/tui/styles"
)

// HelpModel is the static key reference.
type HelpModel struct {
	width  int
	height int
}

// NewHelpModel creates the help view.
func NewHelpModel() *HelpModel {
	return &HelpModel{}
}

// SetSize stores the window size.
func (m *HelpModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Init implements tea.Model.
func (m *HelpModel) Init() tea.Cmd {
	return nil
}

// Update returns to the board on any key.
func (m *HelpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(tea.KeyMsg); ok {
		return m, func() tea.Msg { return SwitchToBoardMsg{} }
	}
	return m, nil
}

// View renders the key reference.
func (m *HelpModel) View() string {
	var b strings.Builder
	b.WriteString(styles.Title.Render("Keys"))
	b.WriteString("\n")

	lines := []struct{ key, desc string }{
		{"j / k", "move between cards"},
		{"g / G", "jump to first / last card"},
		{"s or r", "sync with the remote tracker"},
		{"m", "move the selected record to another stage"},
		{"n", "create a new local task"},
		{"a", "archive the selected record"},
		{"v", "toggle archived records"},
		{"f", "cycle scope: all / sprint / local"},
		{"c or y", "copy the record key to the clipboard"},
		{"o / enter", "open the record in Obsidian"},
		{"e", "open the record in $EDITOR"},
		{"q", "quit"},
	}
	for _, l := range lines {
		b.WriteString(styles.CardKey.Render(padRight(l.key, 12)))
		b.WriteString(l.desc)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.StatusLine.Render("any key to go back"))
	return styles.App.Render(b.String())
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
