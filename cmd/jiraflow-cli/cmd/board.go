package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"jiraflow/internal/application/commands"
)

var (
	boardArchived bool
	boardScope    string
)

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Show the kanban board",
	Long: `Show the board snapshot: records grouped by swimlane and pipeline stage.

Examples:
  jiraflow-cli board
  jiraflow-cli board --scope sprint
  jiraflow-cli board --archived`,
	RunE: func(cmd *cobra.Command, args []string) error {
		scope, ok := commands.ParseBoardScope(boardScope)
		if !ok {
			return fmt.Errorf("unknown scope %q (all, sprint, local)", boardScope)
		}
		boardCmd := commands.NewBoardCommand(store)
		boardCmd.IncludeArchived = boardArchived
		boardCmd.Scope = scope
		board, err := boardCmd.Execute(context.Background())
		if err != nil {
			return err
		}
		if board.Total == 0 {
			fmt.Println("The board is empty. Run `jiraflow-cli sync` first.")
			return nil
		}

		for _, lane := range board.Lanes {
			if lane.Count == 0 {
				continue
			}
			fmt.Printf("== %s (%d) ==\n", lane.Lane.Label, lane.Count)
			for _, column := range lane.Columns {
				if len(column.Records) == 0 {
					continue
				}
				fmt.Printf("  %s:\n", column.Stage.Label)
				for _, stored := range column.Records {
					r := stored.Record
					if r.DueDate != nil {
						fmt.Printf("    %-12s %s (due %s)\n", r.Key, r.Summary, r.DueDate.Format("2006-01-02"))
					} else {
						fmt.Printf("    %-12s %s\n", r.Key, r.Summary)
					}
				}
			}
		}
		return nil
	},
}

func init() {
	boardCmd.Flags().BoolVarP(&boardArchived, "archived", "a", false, "include archived records")
	boardCmd.Flags().StringVarP(&boardScope, "scope", "s", "all", "records to show: all, sprint, or local")
	rootCmd.AddCommand(boardCmd)
}
