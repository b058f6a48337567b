package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"jiraflow/internal/adapters/obsidian"
	"jiraflow/internal/application"
)

var showCmd = &cobra.Command{
	Use:   "show <key>",
	Short: "Show one record's metadata",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := args[0]
		handle, err := store.FindExisting(key, "")
		if err != nil {
			return err
		}
		if handle == nil {
			return fmt.Errorf("record %s: %w", key, application.ErrNotFound)
		}
		record, err := store.Read(*handle)
		if err != nil {
			return err
		}

		fmt.Printf("%s  %s\n", record.Key, record.Summary)
		fmt.Printf("  stage:    %s\n", record.Stage)
		if record.RawStatus != "" {
			fmt.Printf("  status:   %s\n", record.RawStatus)
		}
		fmt.Printf("  type:     %s\n", record.Category)
		if record.Priority != "" {
			fmt.Printf("  priority: %s\n", record.Priority)
		}
		if record.Assignee != "" {
			fmt.Printf("  assignee: %s\n", record.Assignee)
		}
		if record.SprintName != "" {
			fmt.Printf("  sprint:   %s (%s)\n", record.SprintName, record.SprintState)
		}
		if record.DueDate != nil {
			fmt.Printf("  due:      %s\n", record.DueDate.Format("2006-01-02"))
		}
		if record.StoryPoints > 0 {
			fmt.Printf("  points:   %g\n", record.StoryPoints)
		}
		if record.Archived {
			fmt.Printf("  archived: %s\n", record.ArchivedAt.Format("2006-01-02"))
		}
		fmt.Printf("  file:     %s\n", handle.Path)
		return nil
	},
}

var openCmd = &cobra.Command{
	Use:   "open <key>",
	Short: "Open a record's note in Obsidian",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := args[0]
		handle, err := store.FindExisting(key, "")
		if err != nil {
			return err
		}
		if handle == nil {
			return fmt.Errorf("record %s: %w", key, application.ErrNotFound)
		}
		return obsidian.NewOpener(cfg.Vault.Root).OpenFile(handle.Path)
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(openCmd)
}
