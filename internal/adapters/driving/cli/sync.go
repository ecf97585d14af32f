package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/atelier-labs/showroom/internal/core/domain"
	"github.com/atelier-labs/showroom/internal/core/ports/driving"
)

var syncRebuild bool

var syncCmd = &cobra.Command{
	Use:   "sync [source-id]",
	Short: "Synchronise the vector index with the catalog",
	Long: `Brings the vector index up to date with the canonical catalog.
Without arguments, missing records are indexed incrementally. With a source
id, only that source's index entries are rebuilt. --rebuild clears the
collection and re-indexes everything.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSync,
}

func init() {
	syncCmd.Flags().BoolVar(&syncRebuild, "rebuild", false, "clear the index and re-index every record")
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	if indexSyncer == nil {
		return errors.New("sync service not configured")
	}

	ctx := cmd.Context()

	var (
		status *driving.SyncStatus
		err    error
	)
	switch {
	case len(args) > 0:
		cmd.Printf("Re-syncing source %s...\n", args[0])
		status, err = indexSyncer.SyncSource(ctx, args[0])
	case syncRebuild:
		cmd.Println("Rebuilding index from scratch...")
		status, err = indexSyncer.Rebuild(ctx)
	default:
		cmd.Println("Syncing missing records...")
		status, err = indexSyncer.Sync(ctx)
	}

	if errors.Is(err, domain.ErrSyncInProgress) {
		return errors.New("a sync is already running")
	}
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	cmd.Printf("Indexed %d records (%d skipped, %d failed).\n",
		status.Indexed, status.Skipped, status.Failed)
	return nil
}
