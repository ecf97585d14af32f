// Package cli implements the showroom command-line interface. Commands are
// thin adapters over the driving ports; all catalog and retrieval logic lives
// in the core services.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/atelier-labs/showroom/internal/core/ports/driven"
	"github.com/atelier-labs/showroom/internal/core/ports/driving"
	"github.com/atelier-labs/showroom/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// Services wired in by main before Execute. Nil services degrade to a
// "not configured" error at command run time, never at startup.
var (
	searchService   driving.SearchService
	catalogService  driving.CatalogService
	mutationService driving.MutationService
	indexSyncer     driving.IndexSyncer
	configStore     driven.ConfigStore
	watcherFactory  WatcherFactory
)

// SourceWatcher reports batches of source ids whose files changed on disk.
type SourceWatcher interface {
	Events() <-chan []string
	Close() error
}

// WatcherFactory creates a watcher over the source record files. Wired by
// main so the command layer stays independent of the storage adapter.
type WatcherFactory func() (SourceWatcher, error)

var (
	verbose  bool
	identity string
)

var rootCmd = &cobra.Command{
	Use:   "showroom",
	Short: "Catalog aggregation and product retrieval",
	Long: `Showroom aggregates loosely-structured product sources into one
canonical catalog and serves staged retrieval over it: substring match,
vector similarity and an optional LLM rerank.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&identity, "identity", "i", "", "acting identity for ownership and visibility")
}

// Services bundles everything the commands depend on.
type Services struct {
	Search   driving.SearchService
	Catalog  driving.CatalogService
	Mutation driving.MutationService
	Syncer   driving.IndexSyncer
	Config   driven.ConfigStore
	Watcher  WatcherFactory
}

// SetServices wires the core services into the command tree.
func SetServices(s Services) {
	searchService = s.Search
	catalogService = s.Catalog
	mutationService = s.Mutation
	indexSyncer = s.Syncer
	configStore = s.Config
	watcherFactory = s.Watcher
}

// SetVersion overrides the reported version string.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// ExecuteContext runs the root command. The context cancels long-running
// commands such as watch on interrupt.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
