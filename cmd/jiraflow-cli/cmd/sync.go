package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"jiraflow/internal/application/commands"
	"jiraflow/internal/domain"
	"jiraflow/internal/ports"
)

var (
	watchFlag bool
	checkFlag bool
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Mirror remote issues into the vault",
	Long: `Pull your issues from the remote tracker and reconcile the vault mirror.

With --watch the sync repeats on the configured interval until interrupted.
With --check only the connection is tested; nothing is written.

Examples:
  jiraflow-cli sync
  jiraflow-cli sync --check
  jiraflow-cli sync --watch`,
	RunE: func(cmd *cobra.Command, args []string) error {
		tr, err := tracker()
		if err != nil {
			return err
		}

		ctx := context.Background()
		if checkFlag {
			if err := tr.TestConnection(ctx); err != nil {
				return fmt.Errorf("connection failed: %w", err)
			}
			fmt.Printf("Connected to %s\n", cfg.Jira.Host)
			return nil
		}

		if !watchFlag {
			result, err := runSync(ctx, tr)
			if err != nil {
				return err
			}
			printSyncResult(result)
			return nil
		}

		ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		interval := cfg.SyncInterval.Std()
		fmt.Printf("Watching, syncing every %s. Ctrl-C to stop.\n", interval)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			result, err := runSync(ctx, tr)
			if err != nil {
				fmt.Printf("sync failed: %v\n", err)
			} else {
				printSyncResult(result)
			}
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
			}
		}
	},
}

func runSync(ctx context.Context, tr ports.RemoteTracker) (*domain.SyncResult, error) {
	return commands.NewSyncCommand(tr, store, normalizer, guard, cfg.Jira.ProjectKey, cfg.Jira.Filter).Execute(ctx)
}

func printSyncResult(result *domain.SyncResult) {
	fmt.Printf("Synced: %d created, %d updated\n", result.Created, result.Updated)
	for _, e := range result.Errors {
		fmt.Printf("  failed %s\n", e.String())
	}
}

func init() {
	syncCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "keep syncing on the configured interval")
	syncCmd.Flags().BoolVar(&checkFlag, "check", false, "test the remote connection and exit")
	rootCmd.AddCommand(syncCmd)
}
