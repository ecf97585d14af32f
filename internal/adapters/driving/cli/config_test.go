package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigCmd_HasSubcommands(t *testing.T) {
	names := make([]string, 0)
	for _, cmd := range configCmd.Commands() {
		names = append(names, cmd.Name())
	}
	assert.Contains(t, names, "show")
	assert.Contains(t, names, "get")
	assert.Contains(t, names, "set")
}

func TestConfigSetAndGet(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "config", "set", "llm.provider", "gemini")
	assert.NoError(t, err)
	assert.Contains(t, out, "Set llm.provider")

	out, err = execute(t, "config", "get", "llm.provider")
	assert.NoError(t, err)
	assert.Contains(t, out, "gemini")
}

func TestConfigGet_MissingKey(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "config", "get", "nonexistent.key")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not set")
}

func TestConfigSet_RequiresValue(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "config", "set", "some.key")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "value is required")
}

func TestConfigShow_MasksAPIKeys(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "config", "set", "embedding.api_key", "sk-super-secret-value")
	assert.NoError(t, err)

	out, err := execute(t, "config", "show")
	assert.NoError(t, err)
	assert.NotContains(t, out, "sk-super-secret-value")
	assert.Contains(t, out, "sk-s...alue")
}

func TestConfigCmds_StoreNotConfigured(t *testing.T) {
	oldStore := configStore
	configStore = nil
	defer func() { configStore = oldStore }()

	_, err := execute(t, "config", "show")
	assert.Error(t, err)

	_, err = execute(t, "config", "get", "x")
	assert.Error(t, err)

	_, err = execute(t, "config", "set", "x", "y")
	assert.Error(t, err)
}

func TestCoerceValue(t *testing.T) {
	assert.Equal(t, true, coerceValue("true"))
	assert.Equal(t, false, coerceValue("false"))
	assert.Equal(t, 768, coerceValue("768"))
	assert.Equal(t, "gemini", coerceValue("gemini"))
	assert.Equal(t, "1.5", coerceValue("1.5"))
}

func TestSensitiveKey(t *testing.T) {
	assert.True(t, sensitiveKey("embedding.api_key"))
	assert.True(t, sensitiveKey("llm.api_key"))
	assert.False(t, sensitiveKey("llm.model"))
}

func TestMaskAPIKey(t *testing.T) {
	assert.Equal(t, "****", maskAPIKey("short"))
	assert.Equal(t, "sk-1...wxyz", maskAPIKey("sk-1234567890wxyz"))
}
