package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	storagemem "github.com/atelier-labs/showroom/internal/adapters/driven/storage/memory"
	vectormem "github.com/atelier-labs/showroom/internal/adapters/driven/vector/memory"
	"github.com/atelier-labs/showroom/internal/core/domain"
	"github.com/atelier-labs/showroom/internal/core/services"
)

// setupTestServices wires real services over in-memory adapters and seeds a
// small catalog. Returns a cleanup restoring the previous wiring.
func setupTestServices() func() {
	old := Services{
		Search:   searchService,
		Catalog:  catalogService,
		Mutation: mutationService,
		Syncer:   indexSyncer,
		Config:   configStore,
	}

	ctx := context.Background()
	store := storagemem.NewSourceStore()
	_ = store.Save(ctx, domain.Source{
		ID: domain.SharedSourceCatalog, Name: "Catalog", Position: 9999,
	})
	_ = store.SaveRecords(ctx, domain.SharedSourceCatalog, []domain.RawProduct{
		{"id": "red-chair", "name": "Red Chair", "price": 120.0, "currency": "EUR", "brand": "Sitwell"},
		{"id": "blue-sofa", "name": "Blue Sofa", "article": "SOF-99"},
	})
	_ = store.Save(ctx, domain.Source{
		ID: "my-import", Name: "My Import", OwnerID: "user-1", Position: 0,
	})
	_ = store.SaveRecords(ctx, "my-import", []domain.RawProduct{
		{"id": "oak-table", "name": "Oak Table"},
	})

	catalog := services.NewCatalogService(store, "EUR")
	_, _ = catalog.Rebuild(ctx)

	index := vectormem.NewIndex()
	syncer := services.NewSyncService(catalog, index)
	_, _ = syncer.Rebuild(ctx)

	mutation := services.NewMutationService(store, catalog, syncer, index)
	search := services.NewSearchService(catalog, index, nil)

	config := storagemem.NewConfigStore()
	_ = config.Set("catalog.default_currency", "EUR")

	SetServices(Services{
		Search:   search,
		Catalog:  catalog,
		Mutation: mutation,
		Syncer:   syncer,
		Config:   config,
	})

	return func() {
		SetServices(old)
		identity = ""
	}
}

// captureOutput redirects rootCmd output while fn runs and returns it.
func captureOutput(t *testing.T, fn func() error) string {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	require.NoError(t, fn())
	return buf.String()
}

// execute runs the root command with args and captures combined output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "showroom", rootCmd.Use)
}

func TestRootCmd_HasVerboseFlag(t *testing.T) {
	flag := rootCmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, flag)
	assert.Equal(t, "v", flag.Shorthand)
}

func TestRootCmd_HasIdentityFlag(t *testing.T) {
	flag := rootCmd.PersistentFlags().Lookup("identity")
	require.NotNil(t, flag)
	assert.Equal(t, "i", flag.Shorthand)
}

func TestRootCmd_HasSubcommands(t *testing.T) {
	names := make([]string, 0)
	for _, cmd := range rootCmd.Commands() {
		names = append(names, cmd.Name())
	}
	assert.Contains(t, names, "search")
	assert.Contains(t, names, "source")
	assert.Contains(t, names, "import")
	assert.Contains(t, names, "product")
	assert.Contains(t, names, "sync")
	assert.Contains(t, names, "config")
	assert.Contains(t, names, "version")
}

func TestSetVersion(t *testing.T) {
	old := version
	defer func() { version = old }()

	SetVersion("1.2.3")
	assert.Equal(t, "1.2.3", version)

	SetVersion("")
	assert.Equal(t, "1.2.3", version)
}
