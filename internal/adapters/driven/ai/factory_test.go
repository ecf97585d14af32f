package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelier-labs/showroom/internal/core/domain"
)

func TestCreateEmbeddingService_Unconfigured(t *testing.T) {
	svc, err := CreateEmbeddingService(EmbeddingConfig{})
	require.NoError(t, err)
	assert.Nil(t, svc)

	svc, err = CreateEmbeddingService(EmbeddingConfig{Provider: ProviderGemini})
	require.NoError(t, err)
	assert.Nil(t, svc)
}

func TestCreateEmbeddingService_Gemini(t *testing.T) {
	svc, err := CreateEmbeddingService(EmbeddingConfig{
		Provider: ProviderGemini,
		APIKey:   "key",
	})
	require.NoError(t, err)
	require.NotNil(t, svc)
	assert.Equal(t, "text-embedding-004", svc.ModelName())
	assert.Equal(t, 768, svc.Dimensions())
}

func TestCreateEmbeddingService_OpenAI(t *testing.T) {
	svc, err := CreateEmbeddingService(EmbeddingConfig{
		Provider: ProviderOpenAI,
		APIKey:   "key",
		Model:    "text-embedding-3-large",
	})
	require.NoError(t, err)
	require.NotNil(t, svc)
	assert.Equal(t, 3072, svc.Dimensions())
}

func TestCreateEmbeddingService_UnknownProvider(t *testing.T) {
	_, err := CreateEmbeddingService(EmbeddingConfig{
		Provider: "cohere",
		APIKey:   "key",
	})
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}

func TestCreateLLMService_Unconfigured(t *testing.T) {
	svc, err := CreateLLMService(LLMConfig{})
	require.NoError(t, err)
	assert.Nil(t, svc)
}

func TestCreateLLMService_Gemini(t *testing.T) {
	svc, err := CreateLLMService(LLMConfig{
		Provider: ProviderGemini,
		APIKey:   "key",
	})
	require.NoError(t, err)
	require.NotNil(t, svc)
	assert.Equal(t, "gemini-1.5-flash", svc.ModelName())
}

func TestCreateLLMService_UnknownProvider(t *testing.T) {
	_, err := CreateLLMService(LLMConfig{
		Provider: "mistral",
		APIKey:   "key",
	})
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
}
