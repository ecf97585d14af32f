package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/atelier-labs/showroom/internal/logger"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch source files and keep the catalog fresh",
	Long: `Watches the per-source record files for external edits. When a file
is rewritten, the canonical catalog is rebuilt and the affected sources are
re-indexed. Runs until interrupted.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	if catalogService == nil {
		return errors.New("catalog service not configured")
	}
	if watcherFactory == nil {
		return errors.New("source watcher not configured")
	}

	watcher, err := watcherFactory()
	if err != nil {
		return err
	}
	defer watcher.Close() //nolint:errcheck // Best-effort shutdown

	ctx := cmd.Context()
	cmd.Println("Watching source files. Press Ctrl+C to stop.")

	for {
		select {
		case <-ctx.Done():
			cmd.Println("Stopped.")
			return nil

		case batch, ok := <-watcher.Events():
			if !ok {
				return nil
			}
			cmd.Printf("Change detected: %s\n", strings.Join(batch, ", "))

			if _, err := catalogService.Rebuild(ctx); err != nil {
				logger.Warn("Catalog rebuild failed: %v", err)
				continue
			}
			if indexSyncer == nil {
				continue
			}
			for _, sourceID := range batch {
				if _, err := indexSyncer.SyncSource(ctx, sourceID); err != nil {
					logger.Warn("Re-sync of %s failed: %v", sourceID, err)
				}
			}
		}
	}
}
