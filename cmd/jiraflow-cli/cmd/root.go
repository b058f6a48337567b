package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"jiraflow/internal/adapters/jira"
	"jiraflow/internal/adapters/vault"
	"jiraflow/internal/application"
	"jiraflow/internal/application/commands"
	"jiraflow/internal/config"
	"jiraflow/internal/ports"
)

var (
	configPath string
	cfg        *config.Config

	store      ports.RecordStore
	worklog    ports.WorkLog
	normalizer application.Normalizer
	guard      = &commands.SyncGuard{}
)

var rootCmd = &cobra.Command{
	Use:   "jiraflow-cli",
	Short: "CLI for the Jira-to-Obsidian task board",
	Long: `jiraflow-cli mirrors your Jira issues into an Obsidian vault and manages
them as a kanban board from the terminal.

It provides commands to sync, inspect, move, create, archive, and delete
records on the board.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		var err error
		cfg, err = config.LoadFile(configPath)
		if err != nil {
			return err
		}
		store = vault.NewStore(cfg.Vault.TasksDir())
		worklog = vault.NewDailyWorkLog(cfg.Vault.DailyDir())
		normalizer = application.Normalizer{
			StoryPointsField: cfg.Jira.StoryPointsField,
			DueDateField:     cfg.Jira.DueDateField,
		}
		return nil
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.Path(), "path to the config file")
}

// tracker builds the remote client, refusing when the connection settings
// are incomplete.
func tracker() (ports.RemoteTracker, error) {
	if !cfg.Configured() {
		return nil, fmt.Errorf("%w: set jira host, email and api_token (config %s or JIRAFLOW_* env)", application.ErrNotConfigured, configPath)
	}
	return jira.NewClient(cfg.Jira.Host, cfg.Jira.Email, cfg.Jira.APIToken), nil
}
