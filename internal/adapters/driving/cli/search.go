package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/atelier-labs/showroom/internal/core/domain"
)

var (
	searchLimit    int
	searchJSON     bool
	searchSources  []string
	searchNoRerank bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the canonical catalog",
	Long: `Runs staged retrieval over the canonical catalog.
Substring matches on name and article code are returned first; otherwise the
query falls through to vector similarity. When an LLM provider is configured,
survivors are reranked against the query constraints.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 5, "maximum number of results")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	searchCmd.Flags().StringSliceVar(&searchSources, "source", nil, "restrict to specific source ids")
	searchCmd.Flags().BoolVar(&searchNoRerank, "no-rerank", false, "skip the LLM rerank stage")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	if searchService == nil {
		return errors.New("search service not configured")
	}

	opts := domain.SearchOptions{
		Limit:         searchLimit,
		SourceIDs:     searchSources,
		ViewerID:      identity,
		DisableRerank: searchNoRerank,
	}

	results, err := searchService.Search(cmd.Context(), query, opts)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, results)
	}

	return outputSearchTable(cmd, results)
}

func outputSearchJSON(cmd *cobra.Command, results []domain.SearchResult) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, results []domain.SearchResult) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range results {
		product := results[i].Product

		header := product.DisplayName
		if header == "" {
			header = product.Key
		}
		if results[i].Relevance > 0 {
			cmd.Printf("  [%d] %s (%.2f)\n", i+1, header, results[i].Relevance)
		} else {
			cmd.Printf("  [%d] %s\n", i+1, header)
		}
		if product.Price != nil {
			cmd.Printf("      Price: %s\n", product.Price)
		}
		if product.Brand != "" {
			cmd.Printf("      Brand: %s\n", product.Brand)
		}
		cmd.Printf("      Source: %s  Stage: %s\n", product.SourceID, results[i].Stage)
		cmd.Println()
	}

	return nil
}
