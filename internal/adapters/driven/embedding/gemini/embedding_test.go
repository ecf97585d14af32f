package gemini

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
		Dimensions: 3,
	})
	require.NoError(t, err)
	return svc
}

func embeddingsResponse(vectors ...[]float32) []byte {
	type embedding struct {
		Values []float32 `json:"values"`
	}
	payload := struct {
		Embeddings []embedding `json:"embeddings"`
	}{}
	for _, v := range vectors {
		payload.Embeddings = append(payload.Embeddings, embedding{Values: v})
	}
	body, _ := json.Marshal(payload)
	return body
}

func TestNewEmbeddingService_RequiresAPIKey(t *testing.T) {
	_, err := NewEmbeddingService(Config{})
	assert.Error(t, err)
}

func TestNewEmbeddingService_Defaults(t *testing.T) {
	svc, err := NewEmbeddingService(Config{APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, svc.ModelName())
	assert.Equal(t, 768, svc.Dimensions())
}

func TestEmbedBatch_Success(t *testing.T) {
	var gotPath string
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		_, _ = w.Write(embeddingsResponse(
			[]float32{0.1, 0.2, 0.3},
			[]float32{0.4, 0.5, 0.6},
		))
	})

	embeddings, err := svc.EmbedBatch(context.Background(), []string{"red chair", "blue sofa"})
	require.NoError(t, err)
	require.Len(t, embeddings, 2)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, embeddings[0])
	assert.Equal(t, []float32{0.4, 0.5, 0.6}, embeddings[1])
	assert.Contains(t, gotPath, "text-embedding-004:batchEmbedContents")
}

func TestEmbedBatch_Empty(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
		t.Error("no request expected for empty input")
	})

	embeddings, err := svc.EmbedBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, embeddings)
}

func TestEmbedBatch_ServerError_ZeroVectors(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	embeddings, err := svc.EmbedBatch(context.Background(), []string{"a", "b", "c"})
	require.NoError(t, err)
	require.Len(t, embeddings, 3)
	for _, vector := range embeddings {
		assert.Equal(t, []float32{0, 0, 0}, vector)
	}
}

func TestEmbedBatch_DimensionMismatch_ZeroVector(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(embeddingsResponse(
			[]float32{0.1, 0.2, 0.3},
			[]float32{0.9}, // wrong dimensionality
		))
	})

	embeddings, err := svc.EmbedBatch(context.Background(), []string{"good", "bad"})
	require.NoError(t, err)
	require.Len(t, embeddings, 2)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, embeddings[0])
	assert.Equal(t, []float32{0, 0, 0}, embeddings[1])
}

func TestEmbedBatch_APIError_ZeroVectors(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": {"message": "quota exceeded", "status": "RESOURCE_EXHAUSTED"}}`))
	})

	embeddings, err := svc.EmbedBatch(context.Background(), []string{"a"})
	require.NoError(t, err)
	require.Len(t, embeddings, 1)
	assert.Equal(t, []float32{0, 0, 0}, embeddings[0])
}

func TestEmbed_Single(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(embeddingsResponse([]float32{1, 2, 3}))
	})

	vector, err := svc.Embed(context.Background(), "oak table")
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2, 3}, vector)
}
