package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"jiraflow/internal/adapters/sqlite"
)

var searchArchived bool

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search records by key or summary",
	Long: `Search the indexed records by key or summary substring.

Examples:
  jiraflow-cli search login
  jiraflow-cli search PROJ-123`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := args[0]

		idx := sqlite.NewIndex()
		if err := idx.Open(cfg.Vault.TasksDir()); err != nil {
			return err
		}
		defer idx.Close()

		if idx.NeedsFullRebuild() {
			if _, err := idx.SyncFull(); err != nil {
				return err
			}
		} else if _, err := idx.SyncIncremental(); err != nil {
			return err
		}

		// Exact key match short-circuits the scan.
		if entry, err := idx.GetByKey(query); err != nil {
			return err
		} else if entry != nil {
			fmt.Printf("%-12s %-18s %s\n", entry.Key, entry.Stage, entry.Summary)
			return nil
		}

		entries, err := idx.ListEntries(searchArchived)
		if err != nil {
			return err
		}

		needle := strings.ToLower(query)
		found := 0
		for _, entry := range entries {
			if !strings.Contains(strings.ToLower(entry.Key), needle) &&
				!strings.Contains(strings.ToLower(entry.Summary), needle) {
				continue
			}
			found++
			fmt.Printf("%-12s %-18s %s\n", entry.Key, entry.Stage, entry.Summary)
		}
		if found == 0 {
			fmt.Printf("No records matching %q\n", query)
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().BoolVarP(&searchArchived, "archived", "a", false, "include archived records")
	rootCmd.AddCommand(searchCmd)
}
