// Command showroom is the catalog aggregation and retrieval CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/atelier-labs/showroom/internal/adapters/driven/ai"
	configfile "github.com/atelier-labs/showroom/internal/adapters/driven/config/file"
	storagefile "github.com/atelier-labs/showroom/internal/adapters/driven/storage/file"
	vectorsqlite "github.com/atelier-labs/showroom/internal/adapters/driven/vector/sqlite"
	"github.com/atelier-labs/showroom/internal/adapters/driving/cli"
	"github.com/atelier-labs/showroom/internal/core/ports/driven"
	"github.com/atelier-labs/showroom/internal/core/ports/driving"
	"github.com/atelier-labs/showroom/internal/core/services"
	"github.com/atelier-labs/showroom/internal/logger"
)

// version is injected at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	configStore, err := configfile.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}

	sourceStore, err := storagefile.NewSourceStore(configStore.GetString("data_dir"))
	if err != nil {
		return fmt.Errorf("open data directory: %w", err)
	}

	defaultCurrency := configStore.GetString("catalog.default_currency")
	if defaultCurrency == "" {
		defaultCurrency = "EUR"
	}

	catalog := services.NewCatalogService(sourceStore, defaultCurrency)
	if _, err := catalog.Rebuild(ctx); err != nil {
		logger.Warn("Initial catalog rebuild failed: %v", err)
	}

	embedder, err := ai.CreateEmbeddingService(ai.EmbeddingConfig{
		Provider:   configStore.GetString("embedding.provider"),
		APIKey:     configStore.GetString("embedding.api_key"),
		BaseURL:    configStore.GetString("embedding.base_url"),
		Model:      configStore.GetString("embedding.model"),
		Dimensions: configStore.GetInt("embedding.dimensions"),
	})
	if err != nil {
		logger.Warn("Embedding provider unavailable, vector search disabled: %v", err)
	}

	llm, err := ai.CreateLLMService(ai.LLMConfig{
		Provider: configStore.GetString("llm.provider"),
		APIKey:   configStore.GetString("llm.api_key"),
		BaseURL:  configStore.GetString("llm.base_url"),
		Model:    configStore.GetString("llm.model"),
	})
	if err != nil {
		logger.Warn("LLM provider unavailable, rerank disabled: %v", err)
	}

	// The vector index and syncer only exist with a working embedder; the
	// search and mutation services degrade gracefully without them.
	var (
		vectorIndex driven.VectorIndex
		syncer      driving.IndexSyncer
	)
	if embedder != nil {
		// One collection per dimensionality, so switching the embedding
		// model never mixes incompatible vectors.
		collection := fmt.Sprintf("products-%d", embedder.Dimensions())
		index, err := vectorsqlite.NewIndex(sourceStore.DataDir(), collection, embedder)
		if err != nil {
			logger.Warn("Vector index unavailable, vector search disabled: %v", err)
		} else {
			defer index.Close() //nolint:errcheck // Best-effort shutdown
			vectorIndex = index
			syncer = services.NewSyncService(catalog, index)
		}
	}

	cli.SetVersion(version)
	cli.SetServices(cli.Services{
		Search:   services.NewSearchService(catalog, vectorIndex, llm),
		Catalog:  catalog,
		Mutation: services.NewMutationService(sourceStore, catalog, syncer, vectorIndex),
		Syncer:   syncer,
		Config:   configStore,
		Watcher: func() (cli.SourceWatcher, error) {
			return storagefile.NewWatcher(sourceStore.RecordsDir(), 0)
		},
	})

	return cli.ExecuteContext(ctx)
}
