package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, handler http.HandlerFunc) *EmbeddingService {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	svc, err := NewEmbeddingService(Config{
		APIKey:     "test-key",
		BaseURL:    server.URL,
		Model:      "text-embedding-ada-002",
		Dimensions: 4,
	})
	require.NoError(t, err)
	return svc
}

func TestNewEmbeddingService_RequiresAPIKey(t *testing.T) {
	_, err := NewEmbeddingService(Config{})
	assert.Error(t, err)
}

func TestEmbedBatch_Success(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req embeddingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, []string{"red chair", "blue sofa"}, req.Input)

		_, _ = w.Write([]byte(`{"data": [
			{"embedding": [0.5, 0.6, 0.7, 0.8], "index": 1},
			{"embedding": [0.1, 0.2, 0.3, 0.4], "index": 0}
		]}`))
	})

	embeddings, err := svc.EmbedBatch(context.Background(), []string{"red chair", "blue sofa"})
	require.NoError(t, err)
	require.Len(t, embeddings, 2)
	// Results are reordered by the response index field.
	assert.Equal(t, []float32{0.1, 0.2, 0.3, 0.4}, embeddings[0])
	assert.Equal(t, []float32{0.5, 0.6, 0.7, 0.8}, embeddings[1])
}

func TestEmbedBatch_ServerError_ZeroVectors(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"message": "rate limit", "type": "rate_limit_error"}}`))
	})

	embeddings, err := svc.EmbedBatch(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	require.Len(t, embeddings, 2)
	assert.Equal(t, []float32{0, 0, 0, 0}, embeddings[0])
	assert.Equal(t, []float32{0, 0, 0, 0}, embeddings[1])
}

func TestEmbedBatch_Empty(t *testing.T) {
	svc := newTestService(t, func(_ http.ResponseWriter, _ *http.Request) {
		t.Error("no request expected for empty input")
	})

	embeddings, err := svc.EmbedBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, embeddings)
}
