package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"jiraflow/internal/application/commands"
)

var moveCmd = &cobra.Command{
	Use:   "move <key> <stage>",
	Short: "Move a record to another pipeline stage",
	Long: `Move a record to another pipeline stage.

Remote-mirrored records also transition on the tracker; if the tracker
refuses, the local file is rolled back. Local records move freely.

Examples:
  jiraflow-cli move PROJ-123 EXECUTION
  jiraflow-cli move PROJ-123 "TESTING & REVIEW"
  jiraflow-cli move LOCAL-1700000000000 DONE`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		tr, err := tracker()
		if err != nil {
			return err
		}
		moveCmd := commands.NewMoveCommand(tr, store, worklog, args[0], args[1])
		result, err := moveCmd.Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(moveCmd)
}
