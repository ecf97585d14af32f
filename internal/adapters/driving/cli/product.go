package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/atelier-labs/showroom/internal/core/domain"
	"github.com/atelier-labs/showroom/internal/core/ports/driving"
)

var (
	productJSON        bool
	productPrice       string
	productAddImage    string
	productRemoveImage string
)

var productCmd = &cobra.Command{
	Use:   "product",
	Short: "Inspect and edit catalog products",
}

var productGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Show a canonical product record",
	Args:  cobra.ExactArgs(1),
	RunE:  runProductGet,
}

var productUpdateCmd = &cobra.Command{
	Use:   "update [key]",
	Short: "Edit fields of a product record",
	Long: `Applies a field edit to one product record. The edit is written back
to the owning source file; the canonical catalog and the vector index are
refreshed afterwards.`,
	Args: cobra.ExactArgs(1),
	RunE: runProductUpdate,
}

var productRemoveCmd = &cobra.Command{
	Use:   "remove [key]",
	Short: "Remove a product record from its source",
	Args:  cobra.ExactArgs(1),
	RunE:  runProductRemove,
}

func init() {
	productGetCmd.Flags().BoolVar(&productJSON, "json", false, "output record as JSON")
	productUpdateCmd.Flags().StringVar(&productPrice, "price", "", `new price, e.g. "120.50 EUR" or "999"`)
	productUpdateCmd.Flags().StringVar(&productAddImage, "add-image", "", "image URL to append")
	productUpdateCmd.Flags().StringVar(&productRemoveImage, "remove-image", "", "image URL to remove")

	productCmd.AddCommand(productGetCmd)
	productCmd.AddCommand(productUpdateCmd)
	productCmd.AddCommand(productRemoveCmd)
	rootCmd.AddCommand(productCmd)
}

func runProductGet(cmd *cobra.Command, args []string) error {
	if catalogService == nil {
		return errors.New("catalog service not configured")
	}

	record, err := catalogService.Get(args[0])
	if err != nil {
		return fmt.Errorf("product %s: %w", args[0], err)
	}

	if productJSON {
		data, err := json.MarshalIndent(record, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal record: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Printf("%s\n", record.DisplayName)
	cmd.Printf("  Key:      %s\n", record.Key)
	if record.Article != "" {
		cmd.Printf("  Article:  %s\n", record.Article)
	}
	if record.Brand != "" {
		cmd.Printf("  Brand:    %s\n", record.Brand)
	}
	if record.Category != "" {
		cmd.Printf("  Category: %s\n", record.Category)
	}
	if record.Price != nil {
		cmd.Printf("  Price:    %s\n", record.Price)
	}
	cmd.Printf("  Source:   %s\n", record.SourceID)
	for i, img := range record.Images {
		if i == 0 {
			cmd.Printf("  Images:   %s\n", img)
		} else {
			cmd.Printf("            %s\n", img)
		}
	}
	if len(record.Attributes) > 0 {
		labels := make([]string, 0, len(record.Attributes))
		for label := range record.Attributes {
			labels = append(labels, label)
		}
		sort.Strings(labels)
		cmd.Println("  Attributes:")
		for _, label := range labels {
			cmd.Printf("    %s: %s\n", label, record.Attributes[label])
		}
	}
	return nil
}

func runProductUpdate(cmd *cobra.Command, args []string) error {
	if mutationService == nil {
		return errors.New("mutation service not configured")
	}

	patch := driving.FieldPatch{
		AddImage:    productAddImage,
		RemoveImage: productRemoveImage,
	}

	if productPrice != "" {
		price, ok := domain.ParsePrice(productPrice, defaultCurrency())
		if !ok {
			return fmt.Errorf("unparseable price %q", productPrice)
		}
		patch.Price = price
	}

	result, err := mutationService.UpdateField(cmd.Context(), args[0], patch, identity)
	if err != nil {
		return fmt.Errorf("update failed: %w", err)
	}

	cmd.Printf("Product %s updated.\n", args[0])
	reportIndexErr(cmd, result.IndexErr)
	return nil
}

func runProductRemove(cmd *cobra.Command, args []string) error {
	if mutationService == nil {
		return errors.New("mutation service not configured")
	}

	result, err := mutationService.DeleteProduct(cmd.Context(), args[0], identity)
	if err != nil {
		return fmt.Errorf("remove failed: %w", err)
	}

	cmd.Printf("Product %s removed from source %s.\n", args[0], result.SourceID)
	reportIndexErr(cmd, result.IndexErr)
	return nil
}

// defaultCurrency reads the configured fallback currency for price parsing.
func defaultCurrency() string {
	if configStore != nil {
		if currency := configStore.GetString("catalog.default_currency"); currency != "" {
			return currency
		}
	}
	return "EUR"
}
