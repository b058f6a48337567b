package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"jiraflow/internal/application/commands"
)

var archiveCmd = &cobra.Command{
	Use:   "archive <key>",
	Short: "Archive a record",
	Long: `Archive a record. The file stays in the vault, flagged and hidden from
the board.

Examples:
  jiraflow-cli archive PROJ-123`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		archiveCmd := commands.NewArchiveCommand(store, args[0])
		result, err := archiveCmd.Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

var unarchiveCmd = &cobra.Command{
	Use:   "unarchive <key>",
	Short: "Restore an archived record to the board",
	Long: `Clear a record's archive flag so it shows on the board again.

Examples:
  jiraflow-cli unarchive PROJ-123`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		unarchiveCmd := commands.NewUnarchiveCommand(store, args[0])
		result, err := unarchiveCmd.Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <key>",
	Short: "Delete a locally authored record",
	Long: `Delete a locally authored record's file. Remote-mirrored records are
refused; archive those instead.

Examples:
  jiraflow-cli delete LOCAL-1700000000000`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		deleteCmd := commands.NewDeleteCommand(store, args[0])
		result, err := deleteCmd.Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(archiveCmd)
	rootCmd.AddCommand(unarchiveCmd)
	rootCmd.AddCommand(deleteCmd)
}
