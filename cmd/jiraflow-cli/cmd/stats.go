package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"jiraflow/internal/adapters/sqlite"
	"jiraflow/internal/domain"
	"jiraflow/internal/ports"
)

var statsRebuild bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show per-stage record counts",
	Long: `Show per-stage record counts from the SQLite index.

The index is refreshed incrementally from file modification times before
counting; --rebuild forces a full rescan.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		idx := sqlite.NewIndex()
		if err := idx.Open(cfg.Vault.TasksDir()); err != nil {
			return err
		}
		defer idx.Close()

		var stats *ports.IndexStats
		var err error
		if statsRebuild || idx.NeedsFullRebuild() {
			stats, err = idx.SyncFull()
		} else {
			stats, err = idx.SyncIncremental()
		}
		if err != nil {
			return err
		}

		counts, err := idx.CountByStage()
		if err != nil {
			return err
		}

		total := 0
		for _, def := range domain.Stages() {
			n := counts[def.ID]
			total += n
			if n > 0 {
				fmt.Printf("%-18s %d\n", def.Label, n)
			}
		}
		fmt.Printf("total: %d (%d files scanned in %dms)\n", total, stats.FilesScanned, stats.DurationMs)
		return nil
	},
}

func init() {
	statsCmd.Flags().BoolVar(&statsRebuild, "rebuild", false, "force a full index rescan")
	rootCmd.AddCommand(statsCmd)
}
