package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/atelier-labs/showroom/internal/core/domain"
)

var importCmd = &cobra.Command{
	Use:   "import [name] [file]",
	Short: "Import a product source from a JSON file",
	Long: `Registers a new source from a JSON file holding an array of product
objects. Field names are reconciled during normalisation, so differently
shaped exports can be imported as-is. The new source loads before the shared
catalog and wins key collisions against it.`,
	Args: cobra.ExactArgs(2),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	name, path := args[0], args[1]

	if mutationService == nil {
		return errors.New("mutation service not configured")
	}
	if identity == "" {
		return errors.New("import requires an identity (use --identity)")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	var records []domain.RawProduct
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("failed to parse %s: expected a JSON array of products: %w", path, err)
	}

	result, err := mutationService.ImportSource(cmd.Context(), name, records, identity)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	cmd.Printf("Imported %d records into source %s.\n", len(records), result.SourceID)
	if result.Indexed > 0 {
		cmd.Printf("Indexed %d records.\n", result.Indexed)
	}
	reportIndexErr(cmd, result.IndexErr)
	return nil
}
