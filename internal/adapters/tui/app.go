// Package tui is the interactive terminal board.
package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"jiraflow/internal/adapters/editor"
	"jiraflow/internal/adapters/obsidian"
	"jiraflow/internal/adapters/tui/views"
)

// ViewState represents the current view
type ViewState int

const (
	ViewBoard ViewState = iota
	ViewMove
	ViewHelp
	ViewCreate
)

// App is the main TUI application model
type App struct {
	backend  *views.Backend
	editor   *editor.Opener
	obsidian *obsidian.Opener

	state  ViewState
	board  *views.BoardModel
	move   *views.MoveModel
	help   *views.HelpModel
	create *views.CreateModel

	// syncInterval drives the periodic background sync; zero disables it.
	syncInterval time.Duration

	width  int
	height int
}

// NewApp creates a new TUI application. editor and obsidian may be nil.
func NewApp(backend *views.Backend, ed *editor.Opener, obs *obsidian.Opener, syncInterval time.Duration) *App {
	return &App{
		backend:      backend,
		editor:       ed,
		obsidian:     obs,
		state:        ViewBoard,
		board:        views.NewBoardModel(backend),
		move:         views.NewMoveModel(),
		help:         views.NewHelpModel(),
		create:       views.NewCreateModel(backend),
		syncInterval: syncInterval,
	}
}

type syncTickMsg time.Time

func (a *App) scheduleSync() tea.Cmd {
	if a.syncInterval <= 0 {
		return nil
	}
	return tea.Tick(a.syncInterval, func(t time.Time) tea.Msg {
		return syncTickMsg(t)
	})
}

// Init initializes the application
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.board.Init(), a.scheduleSync())
}

// Update handles messages for the application
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.board.SetSize(msg.Width, msg.Height)
		a.move.SetSize(msg.Width, msg.Height)
		a.help.SetSize(msg.Width, msg.Height)
		a.create.SetSize(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if a.state == ViewBoard && (msg.String() == "q" || msg.String() == "ctrl+c") {
			return a, tea.Quit
		}
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

	case syncTickMsg:
		return a, tea.Batch(a.board.StartSync(), a.scheduleSync())

	case views.SwitchToMoveMsg:
		a.state = ViewMove
		a.move.SetRecord(msg.Record)
		return a, nil

	case views.SwitchToHelpMsg:
		a.state = ViewHelp
		return a, nil

	case views.SwitchToCreateMsg:
		a.state = ViewCreate
		a.create.Reset()
		return a, a.create.Init()

	case views.SwitchToBoardMsg:
		a.state = ViewBoard
		return a, a.board.Reload()

	case views.MoveRequestMsg:
		a.state = ViewBoard
		return a, a.runMove(msg)

	case views.StatusMsg:
		a.state = ViewBoard
		a.board.SetStatus(msg.Text, msg.IsErr)
		return a, a.board.Reload()

	case views.OpenObsidianMsg:
		return a, a.openObsidian(msg.Path)

	case views.OpenEditorMsg:
		return a, a.openEditor(msg.Path)
	}

	var cmd tea.Cmd
	switch a.state {
	case ViewBoard:
		_, cmd = a.board.Update(msg)
	case ViewMove:
		_, cmd = a.move.Update(msg)
	case ViewHelp:
		_, cmd = a.help.Update(msg)
	case ViewCreate:
		_, cmd = a.create.Update(msg)
	}
	return a, cmd
}

func (a *App) runMove(msg views.MoveRequestMsg) tea.Cmd {
	return func() tea.Msg {
		result, err := a.backend.Move(context.Background(), msg.Key, msg.Stage)
		if err != nil {
			return views.StatusMsg{Text: err.Error(), IsErr: true}
		}
		return views.StatusMsg{Text: result.Message}
	}
}

func (a *App) openObsidian(path string) tea.Cmd {
	if a.obsidian == nil {
		return func() tea.Msg {
			return views.StatusMsg{Text: "Obsidian opener not configured", IsErr: true}
		}
	}
	return func() tea.Msg {
		if err := a.obsidian.OpenFile(path); err != nil {
			return views.StatusMsg{Text: err.Error(), IsErr: true}
		}
		return nil
	}
}

type editorFinishedMsg struct{ err error }

func (a *App) openEditor(path string) tea.Cmd {
	if a.editor == nil {
		return nil
	}
	cmd, err := a.editor.Command(path)
	if err != nil {
		return func() tea.Msg {
			return views.StatusMsg{Text: err.Error(), IsErr: true}
		}
	}
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return editorFinishedMsg{err: err}
	})
}

// View renders the current view
func (a *App) View() string {
	switch a.state {
	case ViewMove:
		return a.move.View()
	case ViewHelp:
		return a.help.View()
	case ViewCreate:
		return a.create.View()
	default:
		return a.board.View()
	}
}
