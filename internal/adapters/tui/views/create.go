package views

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"jiraflow/internal/adapters/tui/styles"
)

// CreateKeyMap defines key bindings for the create view
type CreateKeyMap struct {
	Submit key.Binding
	Cancel key.Binding
	Tab    key.Binding
}

var CreateKeys = CreateKeyMap{
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "create"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next field"),
	),
}

// CreateModel is the form for a new locally authored task.
type CreateModel struct {
	backend *Backend

	summaryInput textinput.Model
	dueInput     textinput.Model
	focusedField int

	message    string
	messageErr bool

	width  int
	height int
}

// NewCreateModel creates the create view.
func NewCreateModel(backend *Backend) *CreateModel {
	summaryInput := textinput.New()
	summaryInput.Placeholder = "Summary"
	summaryInput.CharLimit = 150

	dueInput := textinput.New()
	dueInput.Placeholder = "Due date (YYYY-MM-DD, optional)"
	dueInput.CharLimit = 10

	return &CreateModel{
		backend:      backend,
		summaryInput: summaryInput,
		dueInput:     dueInput,
	}
}

// Reset clears the form for a fresh entry.
func (m *CreateModel) Reset() {
	m.summaryInput.SetValue("")
	m.dueInput.SetValue("")
	m.message = ""
	m.messageErr = false
	m.focusedField = 0
	m.summaryInput.Focus()
	m.dueInput.Blur()
}

// SetSize stores the window size.
func (m *CreateModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Init starts the cursor blink.
func (m *CreateModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles form keys.
func (m *CreateModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, CreateKeys.Cancel):
			return m, func() tea.Msg { return SwitchToBoardMsg{} }

		case key.Matches(msg, CreateKeys.Tab):
			m.focusedField = (m.focusedField + 1) % 2
			if m.focusedField == 0 {
				m.summaryInput.Focus()
				m.dueInput.Blur()
			} else {
				m.dueInput.Focus()
				m.summaryInput.Blur()
			}
			return m, nil

		case key.Matches(msg, CreateKeys.Submit):
			return m, m.create()
		}
	}

	var cmd tea.Cmd
	if m.focusedField == 0 {
		m.summaryInput, cmd = m.summaryInput.Update(msg)
	} else {
		m.dueInput, cmd = m.dueInput.Update(msg)
	}
	return m, cmd
}

func (m *CreateModel) create() tea.Cmd {
	summary := strings.TrimSpace(m.summaryInput.Value())
	due := strings.TrimSpace(m.dueInput.Value())

	if summary == "" {
		m.message = "Summary is required"
		m.messageErr = true
		return nil
	}

	return func() tea.Msg {
		result, err := m.backend.Create(context.Background(), summary, due)
		if err != nil {
			return StatusMsg{Text: err.Error(), IsErr: true}
		}
		return StatusMsg{Text: result.Message}
	}
}

// View renders the form.
func (m *CreateModel) View() string {
	var b strings.Builder
	b.WriteString(styles.Title.Render("New local task"))
	b.WriteString("\n\n")
	b.WriteString(m.summaryInput.View())
	b.WriteString("\n")
	b.WriteString(m.dueInput.View())
	b.WriteString("\n\n")
	if m.message != "" {
		if m.messageErr {
			b.WriteString(styles.ErrorLine.Render(m.message))
		} else {
			b.WriteString(styles.StatusLine.Render(m.message))
		}
		b.WriteString("\n")
	}
	b.WriteString(styles.Subtitle.Render("enter create · tab next field · esc cancel"))
	return styles.App.Render(b.String())
}
