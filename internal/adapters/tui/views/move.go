package views

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"jiraflow/internal/adapters/tui/styles"
	"jiraflow/internal/domain"
	"jiraflow/internal/ports"
)

// MoveModel is the stage picker shown when moving a record. Only stages the
// workflow allows from the record's current position are offered.
type MoveModel struct {
	record  ports.StoredRecord
	choices []domain.StageDef
	cursor  int

	width  int
	height int
}

// NewMoveModel creates the stage picker.
func NewMoveModel() *MoveModel {
	return &MoveModel{}
}

// SetRecord points the picker at a record and recomputes the legal targets.
func (m *MoveModel) SetRecord(record ports.StoredRecord) {
	m.record = record
	m.cursor = 0
	m.choices = m.choices[:0]
	for _, def := range domain.Stages() {
		if domain.TransitionAllowed(record.Record.Category, record.Record.Stage, def.ID, record.Record.Origin) {
			m.choices = append(m.choices, def)
		}
	}
}

// SetSize stores the window size.
func (m *MoveModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Init implements tea.Model.
func (m *MoveModel) Init() tea.Cmd {
	return nil
}

// Update handles picker keys.
func (m *MoveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "j", "down":
		if m.cursor < len(m.choices)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "enter":
		if len(m.choices) == 0 {
			return m, func() tea.Msg { return SwitchToBoardMsg{} }
		}
		choice := m.choices[m.cursor]
		recordKey := m.record.Record.Key
		return m, func() tea.Msg {
			return MoveRequestMsg{Key: recordKey, Stage: choice.ID}
		}
	case "esc", "q":
		return m, func() tea.Msg { return SwitchToBoardMsg{} }
	}
	return m, nil
}

// View renders the picker.
func (m *MoveModel) View() string {
	var b strings.Builder
	r := m.record.Record
	b.WriteString(styles.Title.Render(fmt.Sprintf("Move %s", r.Key)))
	b.WriteString("\n")
	b.WriteString(styles.Subtitle.Render(fmt.Sprintf("%s · currently %s", r.Summary, r.Stage)))
	b.WriteString("\n\n")

	if len(m.choices) == 0 {
		b.WriteString(styles.Subtitle.Render("The workflow allows no move from here."))
	}
	for i, def := range m.choices {
		line := fmt.Sprintf("%s  %s", def.Label, styles.CardMeta.Render(string(def.Phase)))
		if i == m.cursor {
			b.WriteString(styles.CardSelected.Render("> " + def.Label))
		} else {
			b.WriteString(styles.Card.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.StatusLine.Render("enter move · esc cancel"))
	return styles.App.Render(b.String())
}
