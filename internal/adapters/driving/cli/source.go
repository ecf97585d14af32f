package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var sourceCmd = &cobra.Command{
	Use:   "source",
	Short: "Manage product sources",
	Long: `List, rename and remove the registered product sources.
Sources load into the canonical catalog in position order; earlier sources
win key collisions. The shared catalog and custom-links sources are always
present and cannot be removed.`,
}

var sourceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List visible sources",
	Args:  cobra.NoArgs,
	RunE:  runSourceList,
}

var sourceRenameCmd = &cobra.Command{
	Use:   "rename [source-id] [new-name]",
	Short: "Rename a source",
	Long: `Renames a source. For owned sources the id follows the new name;
shared sources only change their label and keep their fixed id.`,
	Args: cobra.ExactArgs(2),
	RunE: runSourceRename,
}

var sourceRemoveCmd = &cobra.Command{
	Use:   "remove [source-id]",
	Short: "Remove a source and its records",
	Args:  cobra.ExactArgs(1),
	RunE:  runSourceRemove,
}

func init() {
	sourceCmd.AddCommand(sourceListCmd)
	sourceCmd.AddCommand(sourceRenameCmd)
	sourceCmd.AddCommand(sourceRemoveCmd)
	rootCmd.AddCommand(sourceCmd)
}

func runSourceList(cmd *cobra.Command, _ []string) error {
	if catalogService == nil {
		return errors.New("catalog service not configured")
	}

	sources, err := catalogService.ListSources(cmd.Context(), identity)
	if err != nil {
		return fmt.Errorf("failed to list sources: %w", err)
	}

	if len(sources) == 0 {
		cmd.Println("No sources registered.")
		return nil
	}

	snapshot := catalogService.Snapshot()

	cmd.Println("Sources:")
	for _, source := range sources {
		count := len(snapshot.BySource(source.ID))
		owner := source.OwnerID
		if source.Shared() {
			owner = "(shared)"
		}
		cmd.Printf("  %-20s %-24s %-12s %d records\n", source.ID, source.Name, owner, count)
	}
	return nil
}

func runSourceRename(cmd *cobra.Command, args []string) error {
	if mutationService == nil {
		return errors.New("mutation service not configured")
	}

	result, err := mutationService.RenameSource(cmd.Context(), args[0], args[1], identity)
	if err != nil {
		return fmt.Errorf("rename failed: %w", err)
	}

	cmd.Printf("Source renamed to %q (id: %s).\n", args[1], result.SourceID)
	reportIndexErr(cmd, result.IndexErr)
	return nil
}

func runSourceRemove(cmd *cobra.Command, args []string) error {
	if mutationService == nil {
		return errors.New("mutation service not configured")
	}

	result, err := mutationService.DeleteSource(cmd.Context(), args[0], identity)
	if err != nil {
		return fmt.Errorf("remove failed: %w", err)
	}

	cmd.Printf("Source %s removed.\n", args[0])
	reportIndexErr(cmd, result.IndexErr)
	return nil
}

// reportIndexErr surfaces a best-effort index failure without failing the
// command: the durable write already succeeded.
func reportIndexErr(cmd *cobra.Command, err error) {
	if err != nil {
		cmd.Printf("Warning: index update failed: %v\n", err)
		cmd.Println("Run 'showroom sync --rebuild' to restore index freshness.")
	}
}
