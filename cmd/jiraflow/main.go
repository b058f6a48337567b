package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"jiraflow/internal/adapters/editor"
	"jiraflow/internal/adapters/jira"
	"jiraflow/internal/adapters/obsidian"
	"jiraflow/internal/adapters/tui"
	"jiraflow/internal/adapters/tui/views"
	"jiraflow/internal/adapters/vault"
	"jiraflow/internal/application"
	"jiraflow/internal/application/commands"
	"jiraflow/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	store := vault.NewStore(cfg.Vault.TasksDir())
	if err := store.EnsureFolders(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	backend := &views.Backend{
		Store:   store,
		WorkLog: vault.NewDailyWorkLog(cfg.Vault.DailyDir()),
		Guard:   &commands.SyncGuard{},
		Normalizer: application.Normalizer{
			StoryPointsField: cfg.Jira.StoryPointsField,
			DueDateField:     cfg.Jira.DueDateField,
		},
		ProjectKey: cfg.Jira.ProjectKey,
		Filter:     cfg.Jira.Filter,
	}
	if cfg.Configured() {
		backend.Tracker = jira.NewClient(cfg.Jira.Host, cfg.Jira.Email, cfg.Jira.APIToken)
	}

	app := tui.NewApp(backend, editor.NewOpener(), obsidian.NewOpener(cfg.Vault.Root), cfg.SyncInterval.Std())

	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
