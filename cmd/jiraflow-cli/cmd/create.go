package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"jiraflow/internal/application/commands"
)

var (
	createDescription string
	createStage       string
	createPriority    string
	createDue         string
)

var createCmd = &cobra.Command{
	Use:   "create <summary>",
	Short: "Create a locally authored task",
	Long: `Create a locally authored task on the board. Local tasks never touch the
remote tracker and move freely across stages.

Examples:
  jiraflow-cli create "Refactor the deploy script"
  jiraflow-cli create "Prepare demo" --stage EXECUTION --due 2026-09-15`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		createCmd := commands.NewCreateLocalCommand(store, args[0])
		createCmd.Description = createDescription
		if createStage != "" {
			createCmd.Stage = createStage
		}
		createCmd.Priority = createPriority
		createCmd.DueDate = createDue
		result, err := createCmd.Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

func init() {
	createCmd.Flags().StringVarP(&createDescription, "description", "d", "", "note body")
	createCmd.Flags().StringVarP(&createStage, "stage", "s", "", "initial stage (default TO DO)")
	createCmd.Flags().StringVarP(&createPriority, "priority", "p", "", "priority label")
	createCmd.Flags().StringVar(&createDue, "due", "", "due date, YYYY-MM-DD")
	rootCmd.AddCommand(createCmd)
}
