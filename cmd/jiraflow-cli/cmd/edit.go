package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"jiraflow/internal/domain"
)

var (
	editDue    string
	editPoints float64
)

var editCmd = &cobra.Command{
	Use:   "edit <key>",
	Short: "Update a record's due date or story points on the tracker",
	Long: `Update a remote-mirrored record's due date or story points on the
tracker. The vault copy picks the change up on the next sync.

Examples:
  jiraflow-cli edit PROJ-123 --due 2026-09-15
  jiraflow-cli edit PROJ-123 --points 5`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := args[0]
		if strings.HasPrefix(key, domain.LocalKeyPrefix) {
			return fmt.Errorf("%s is a local task; edit its note directly", key)
		}
		if editDue == "" && !cmd.Flags().Changed("points") {
			return fmt.Errorf("nothing to update: pass --due and/or --points")
		}

		fields := map[string]any{}
		if editDue != "" {
			if _, err := time.Parse("2006-01-02", editDue); err != nil {
				return fmt.Errorf("--due is not a YYYY-MM-DD date: %s", editDue)
			}
			fields[cfg.Jira.DueDateField] = editDue
		}
		if cmd.Flags().Changed("points") {
			fields[cfg.Jira.StoryPointsField] = editPoints
		}

		tr, err := tracker()
		if err != nil {
			return err
		}
		if err := tr.UpdateFields(context.Background(), key, fields); err != nil {
			return err
		}
		fmt.Printf("Updated %s; run `jiraflow-cli sync` to refresh the vault copy\n", key)
		return nil
	},
}

func init() {
	editCmd.Flags().StringVar(&editDue, "due", "", "due date, YYYY-MM-DD")
	editCmd.Flags().Float64Var(&editPoints, "points", 0, "story points")
	rootCmd.AddCommand(editCmd)
}
