package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeImportFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "products.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestImportCmd_Use(t *testing.T) {
	assert.Equal(t, "import [name] [file]", importCmd.Use)
}

func TestImportCmd_RequiresTwoArgs(t *testing.T) {
	_, err := execute(t, "import", "only-name")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 2 arg(s)")
}

func TestImportCmd_ImportsRecords(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	path := writeImportFile(t, `[
		{"id": "standing-desk", "name": "Standing Desk", "price": 450},
		{"id": "desk-lamp", "name": "Desk Lamp"}
	]`)

	out, err := execute(t, "--identity", "user-2", "import", "Office Desks", path)

	assert.NoError(t, err)
	assert.Contains(t, out, "Imported 2 records")
	assert.Contains(t, out, "office-desks")

	// The records are immediately searchable.
	out, err = execute(t, "search", "standing desk")
	assert.NoError(t, err)
	assert.Contains(t, out, "Standing Desk")
}

func TestImportCmd_RequiresIdentity(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	path := writeImportFile(t, `[]`)

	_, err := execute(t, "import", "Nameless", path)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "identity")
}

func TestImportCmd_MissingFile(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "--identity", "user-2", "import", "Ghost", "/nonexistent/products.json")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read")
}

func TestImportCmd_MalformedJSON(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	path := writeImportFile(t, `{"not": "an array"}`)

	_, err := execute(t, "--identity", "user-2", "import", "Broken", path)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse")
}

func TestImportCmd_DuplicateName(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	path := writeImportFile(t, `[{"id": "x", "name": "X"}]`)

	_, err := execute(t, "--identity", "user-1", "import", "My Import", path)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "import failed")
}

func TestImportCmd_ServiceNotConfigured(t *testing.T) {
	oldService := mutationService
	mutationService = nil
	defer func() {
		mutationService = oldService
		identity = ""
	}()

	_, err := execute(t, "--identity", "u", "import", "Name", "file.json")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}
