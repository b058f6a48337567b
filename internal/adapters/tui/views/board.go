package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"jiraflow/internal/adapters/tui/styles"
	"jiraflow/internal/application/commands"
	"jiraflow/internal/domain"
	"jiraflow/internal/ports"
)

// rowKind discriminates the flattened board rows.
type rowKind int

const (
	rowLane rowKind = iota
	rowStage
	rowCard
)

type boardRow struct {
	kind   rowKind
	lane   domain.SwimlaneDef
	stage  domain.StageDef
	record ports.StoredRecord
	count  int
}

// BoardLoadedMsg delivers a fresh snapshot.
type BoardLoadedMsg struct {
	Board *commands.BoardResult
	Err   error
}

// SyncDoneMsg delivers a finished sync pass.
type SyncDoneMsg struct {
	Result *domain.SyncResult
	Err    error
}

// BoardModel renders the kanban board: swimlanes outer, stages inner, one
// card per record.
type BoardModel struct {
	backend *Backend

	rows            []boardRow
	cursor          int
	offset          int
	includeArchived bool
	scope           commands.BoardScope
	syncing         bool

	status    string
	statusErr bool

	width  int
	height int
}

// NewBoardModel creates the board view.
func NewBoardModel(backend *Backend) *BoardModel {
	return &BoardModel{backend: backend}
}

// Init loads the first snapshot.
func (m *BoardModel) Init() tea.Cmd {
	return m.Reload()
}

// Reload rebuilds the snapshot from the vault.
func (m *BoardModel) Reload() tea.Cmd {
	include := m.includeArchived
	scope := m.scope
	return func() tea.Msg {
		board, err := m.backend.Board(context.Background(), include, scope)
		return BoardLoadedMsg{Board: board, Err: err}
	}
}

// StartSync kicks off a sync pass unless one is already running.
func (m *BoardModel) StartSync() tea.Cmd {
	if m.syncing {
		return nil
	}
	m.syncing = true
	m.setStatus("Syncing...", false)
	return func() tea.Msg {
		result, err := m.backend.Sync(context.Background())
		return SyncDoneMsg{Result: result, Err: err}
	}
}

// SetSize stores the window size.
func (m *BoardModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *BoardModel) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
}

// SetStatus exposes the status line to the app.
func (m *BoardModel) SetStatus(text string, isErr bool) {
	m.setStatus(text, isErr)
}

// Update handles board messages.
func (m *BoardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case BoardLoadedMsg:
		if msg.Err != nil {
			m.setStatus(msg.Err.Error(), true)
			return m, nil
		}
		m.rows = flattenBoard(msg.Board)
		m.clampCursor()
		return m, nil

	case SyncDoneMsg:
		m.syncing = false
		if msg.Err != nil {
			m.setStatus("Sync failed: "+msg.Err.Error(), true)
			return m, m.Reload()
		}
		text := fmt.Sprintf("Synced: %d new, %d updated", msg.Result.Created, msg.Result.Updated)
		if n := len(msg.Result.Errors); n > 0 {
			text += fmt.Sprintf(", %d failed", n)
		}
		m.setStatus(text, false)
		return m, m.Reload()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *BoardModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		m.moveCursor(1)
	case "k", "up":
		m.moveCursor(-1)
	case "g":
		m.cursor = firstCard(m.rows)
	case "G":
		m.cursor = lastCard(m.rows)
	case "s", "r":
		return m, m.StartSync()
	case "v":
		m.includeArchived = !m.includeArchived
		return m, m.Reload()
	case "f":
		m.scope = nextScope(m.scope)
		m.setStatus("Scope: "+string(m.scope), false)
		return m, m.Reload()
	case "m":
		if record, ok := m.selected(); ok {
			return m, func() tea.Msg { return SwitchToMoveMsg{Record: record} }
		}
	case "n":
		return m, func() tea.Msg { return SwitchToCreateMsg{} }
	case "a":
		if record, ok := m.selected(); ok {
			key := record.Record.Key
			return m, func() tea.Msg {
				if _, err := m.backend.Archive(context.Background(), key); err != nil {
					return StatusMsg{Text: err.Error(), IsErr: true}
				}
				return StatusMsg{Text: "Archived " + key}
			}
		}
	case "c", "y":
		if record, ok := m.selected(); ok {
			if err := clipboard.WriteAll(record.Record.Key); err != nil {
				m.setStatus("Clipboard unavailable: "+err.Error(), true)
			} else {
				m.setStatus("Copied "+record.Record.Key, false)
			}
		}
	case "o", "enter":
		if record, ok := m.selected(); ok {
			path := record.Handle.Path
			return m, func() tea.Msg { return OpenObsidianMsg{Path: path} }
		}
	case "e":
		if record, ok := m.selected(); ok {
			path := record.Handle.Path
			return m, func() tea.Msg { return OpenEditorMsg{Path: path} }
		}
	case "?":
		return m, func() tea.Msg { return SwitchToHelpMsg{} }
	}
	return m, nil
}

func (m *BoardModel) selected() (ports.StoredRecord, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) || m.rows[m.cursor].kind != rowCard {
		return ports.StoredRecord{}, false
	}
	return m.rows[m.cursor].record, true
}

func (m *BoardModel) moveCursor(delta int) {
	next := m.cursor
	for {
		next += delta
		if next < 0 || next >= len(m.rows) {
			return
		}
		if m.rows[next].kind == rowCard {
			m.cursor = next
			return
		}
	}
}

func (m *BoardModel) clampCursor() {
	if m.cursor >= len(m.rows) || m.cursor < 0 || (len(m.rows) > 0 && m.rows[m.cursor].kind != rowCard) {
		m.cursor = firstCard(m.rows)
	}
}

func nextScope(scope commands.BoardScope) commands.BoardScope {
	switch scope {
	case commands.ScopeSprint:
		return commands.ScopeLocal
	case commands.ScopeLocal:
		return commands.ScopeAll
	default:
		return commands.ScopeSprint
	}
}

func firstCard(rows []boardRow) int {
	for i, row := range rows {
		if row.kind == rowCard {
			return i
		}
	}
	return 0
}

func lastCard(rows []boardRow) int {
	for i := len(rows) - 1; i >= 0; i-- {
		if rows[i].kind == rowCard {
			return i
		}
	}
	return 0
}

// flattenBoard turns the nested snapshot into renderable rows, skipping
// empty stage columns so the board stays readable in a terminal.
func flattenBoard(board *commands.BoardResult) []boardRow {
	var rows []boardRow
	for _, lane := range board.Lanes {
		if lane.Count == 0 {
			continue
		}
		rows = append(rows, boardRow{kind: rowLane, lane: lane.Lane, count: lane.Count})
		for _, column := range lane.Columns {
			if len(column.Records) == 0 {
				continue
			}
			rows = append(rows, boardRow{kind: rowStage, stage: column.Stage, count: len(column.Records)})
			for _, record := range column.Records {
				rows = append(rows, boardRow{kind: rowCard, record: record})
			}
		}
	}
	return rows
}

// View renders the board.
func (m *BoardModel) View() string {
	var b strings.Builder
	b.WriteString(styles.Title.Render("Jira Flow"))
	b.WriteString("\n")

	if len(m.rows) == 0 {
		b.WriteString(styles.Subtitle.Render("No records. Press s to sync."))
	}

	visible := m.visibleWindow()
	for i := visible.from; i < visible.to; i++ {
		row := m.rows[i]
		switch row.kind {
		case rowLane:
			header := fmt.Sprintf(" %s (%d) ", strings.ToUpper(row.lane.Label), row.count)
			b.WriteString(styles.LaneHeader.Background(styles.LaneColor(string(row.lane.ID))).Render(header))
		case rowStage:
			b.WriteString("  " + styles.StageHeader.Render(fmt.Sprintf("%s (%d)", row.stage.Label, row.count)))
		case rowCard:
			b.WriteString(m.renderCard(row.record, i == m.cursor))
		}
		b.WriteString("\n")
	}

	status := m.status
	if m.syncing {
		status = "Syncing..."
	}
	if status != "" {
		style := styles.StatusLine
		if m.statusErr {
			style = styles.ErrorLine
		}
		b.WriteString(style.Render(status))
		b.WriteString("\n")
	}
	b.WriteString(styles.StatusLine.Render("j/k move · s sync · m stage · a archive · c copy · o obsidian · e edit · ? help · q quit"))
	return styles.App.Render(b.String())
}

func (m *BoardModel) renderCard(record ports.StoredRecord, selected bool) string {
	r := record.Record
	line := styles.CardKey.Render(r.Key) + " " + r.Summary
	var meta []string
	if r.DueDate != nil {
		meta = append(meta, "due "+r.DueDate.Format("2006-01-02"))
	}
	if r.SprintName != "" {
		meta = append(meta, r.SprintName)
	}
	if r.StoryPoints > 0 {
		meta = append(meta, fmt.Sprintf("%gp", r.StoryPoints))
	}
	if len(meta) > 0 {
		line += " " + styles.CardMeta.Render("["+strings.Join(meta, " · ")+"]")
	}
	if selected {
		return styles.CardSelected.Render("> " + lipgloss.NewStyle().Render(r.Key+" "+r.Summary))
	}
	return styles.Card.Render(line)
}

type window struct{ from, to int }

// visibleWindow keeps the cursor on screen for vaults larger than the
// terminal.
func (m *BoardModel) visibleWindow() window {
	usable := m.height - 6
	if usable <= 0 || len(m.rows) <= usable {
		return window{0, len(m.rows)}
	}
	from := m.cursor - usable/2
	if from < 0 {
		from = 0
	}
	to := from + usable
	if to > len(m.rows) {
		to = len(m.rows)
		from = to - usable
	}
	return window{from, to}
}
