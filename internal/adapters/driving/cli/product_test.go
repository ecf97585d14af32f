package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProductCmd_HasSubcommands(t *testing.T) {
	names := make([]string, 0)
	for _, cmd := range productCmd.Commands() {
		names = append(names, cmd.Name())
	}
	assert.Contains(t, names, "get")
	assert.Contains(t, names, "update")
	assert.Contains(t, names, "remove")
}

func TestProductGetCmd_ShowsRecord(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "product", "get", "red-chair")

	assert.NoError(t, err)
	assert.Contains(t, out, "Red Chair")
	assert.Contains(t, out, "120 EUR")
	assert.Contains(t, out, "Sitwell")
	assert.Contains(t, out, "catalog")
}

func TestProductGetCmd_JSON(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	defer func() { productJSON = false }()

	out, err := execute(t, "product", "get", "--json", "red-chair")

	assert.NoError(t, err)
	assert.Contains(t, out, "\"Key\": \"red-chair\"")
}

func TestProductGetCmd_NotFound(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "product", "get", "unknown-key")

	assert.Error(t, err)
}

func TestProductUpdateCmd_SetsPrice(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	defer func() { productPrice = "" }()

	out, err := execute(t, "--identity", "user-1",
		"product", "update", "oak-table", "--price", "89,90 €")

	assert.NoError(t, err)
	assert.Contains(t, out, "updated")

	out, err = execute(t, "product", "get", "oak-table")
	assert.NoError(t, err)
	assert.Contains(t, out, "89.9 EUR")
}

func TestProductUpdateCmd_UnparseablePrice(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	defer func() { productPrice = "" }()

	_, err := execute(t, "--identity", "user-1",
		"product", "update", "oak-table", "--price", "cheap")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unparseable price")
}

func TestProductUpdateCmd_AddImage(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	defer func() { productAddImage = "" }()

	out, err := execute(t, "--identity", "user-1",
		"product", "update", "oak-table", "--add-image", "https://img.example/oak.jpg")

	assert.NoError(t, err)
	assert.Contains(t, out, "updated")

	out, err = execute(t, "product", "get", "oak-table")
	assert.NoError(t, err)
	assert.Contains(t, out, "https://img.example/oak.jpg")
}

func TestProductUpdateCmd_ForbiddenForNonOwner(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	defer func() { productPrice = "" }()

	_, err := execute(t, "--identity", "intruder",
		"product", "update", "oak-table", "--price", "1 EUR")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "update failed")
}

func TestProductRemoveCmd_RemovesRecord(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "--identity", "user-1", "product", "remove", "oak-table")

	assert.NoError(t, err)
	assert.Contains(t, out, "removed")

	_, err = execute(t, "product", "get", "oak-table")
	assert.Error(t, err)
}

func TestProductCmds_ServiceNotConfigured(t *testing.T) {
	oldMutation := mutationService
	oldCatalog := catalogService
	mutationService = nil
	catalogService = nil
	defer func() {
		mutationService = oldMutation
		catalogService = oldCatalog
		identity = ""
	}()

	_, err := execute(t, "product", "get", "x")
	assert.Error(t, err)

	_, err = execute(t, "product", "remove", "x")
	assert.Error(t, err)
}

func TestDefaultCurrency(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	assert.Equal(t, "EUR", defaultCurrency())
}
