package views

import (
	"context"

	"jiraflow/internal/application"
	"jiraflow/internal/application/commands"
	"jiraflow/internal/domain"
	"jiraflow/internal/ports"
)

// Backend bundles the dependencies the views run commands against.
type Backend struct {
	Store      ports.RecordStore
	Tracker    ports.RemoteTracker
	WorkLog    ports.WorkLog
	Guard      *commands.SyncGuard
	Normalizer application.Normalizer
	ProjectKey string
	Filter     string
}

// Board builds the current board snapshot.
func (b *Backend) Board(ctx context.Context, includeArchived bool, scope commands.BoardScope) (*commands.BoardResult, error) {
	cmd := commands.NewBoardCommand(b.Store)
	cmd.IncludeArchived = includeArchived
	cmd.Scope = scope
	return cmd.Execute(ctx)
}

// Sync runs one sync pass. Refused when no remote tracker is configured.
func (b *Backend) Sync(ctx context.Context) (*domain.SyncResult, error) {
	if b.Tracker == nil {
		return nil, application.ErrNotConfigured
	}
	return commands.NewSyncCommand(b.Tracker, b.Store, b.Normalizer, b.Guard, b.ProjectKey, b.Filter).Execute(ctx)
}

// Move moves a record to another stage.
func (b *Backend) Move(ctx context.Context, key string, stage domain.Stage) (*commands.MoveResult, error) {
	return commands.NewMoveCommand(b.Tracker, b.Store, b.WorkLog, key, string(stage)).Execute(ctx)
}

// Archive archives a record.
func (b *Backend) Archive(ctx context.Context, key string) (*commands.ArchiveResult, error) {
	return commands.NewArchiveCommand(b.Store, key).Execute(ctx)
}

// Create creates a locally authored task.
func (b *Backend) Create(ctx context.Context, summary, due string) (*commands.CreateLocalResult, error) {
	cmd := commands.NewCreateLocalCommand(b.Store, summary)
	cmd.DueDate = due
	return cmd.Execute(ctx)
}

// View switching messages

// SwitchToMoveMsg opens the stage picker for a record.
type SwitchToMoveMsg struct {
	Record ports.StoredRecord
}

// SwitchToBoardMsg returns to the board.
type SwitchToBoardMsg struct{}

// SwitchToHelpMsg shows the key reference.
type SwitchToHelpMsg struct{}

// SwitchToCreateMsg opens the new-task form.
type SwitchToCreateMsg struct{}

// MoveRequestMsg asks the app to run a move.
type MoveRequestMsg struct {
	Key   string
	Stage domain.Stage
}

// OpenObsidianMsg asks the app to open a file in Obsidian.
type OpenObsidianMsg struct {
	Path string
}

// OpenEditorMsg asks the app to open a file in the editor.
type OpenEditorMsg struct {
	Path string
}

// StatusMsg carries a one-line outcome for the status bar.
type StatusMsg struct {
	Text  string
	IsErr bool
}
