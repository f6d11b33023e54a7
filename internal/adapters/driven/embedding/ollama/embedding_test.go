package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/phapdien/internal/adapters/driven/embedding"
)

func fakeOllama(t *testing.T, dims int) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/embed", func(w http.ResponseWriter, r *http.Request) {
		var req embedRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "nomic-embed-text", req.Model)

		out := make([][]float64, len(req.Input))
		for i, in := range req.Input {
			out[i] = make([]float64, dims)
			out[i][0] = float64(len(in))
		}
		_ = json.NewEncoder(w).Encode(embedResponse{Embeddings: out})
	})
	mux.HandleFunc("GET /api/tags", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"models": [{"name": "nomic-embed-text:latest", "model": "nomic-embed-text:latest"}]}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestService(srv *httptest.Server, model string) *EmbeddingService {
	return NewEmbeddingService(Config{BaseURL: srv.URL, Model: model, HTTPClient: srv.Client()})
}

func TestNewEmbeddingService_Defaults(t *testing.T) {
	svc := NewEmbeddingService(Config{})

	assert.Equal(t, DefaultModel, svc.ModelName())
	assert.Equal(t, DefaultDimensions, svc.Dimensions())
	assert.Equal(t, DefaultBaseURL, svc.baseURL)
}

func TestEmbedBatch(t *testing.T) {
	svc := newTestService(fakeOllama(t, 4), "")

	vecs, err := svc.EmbedBatch(context.Background(), []string{"a", "bbb"})
	require.NoError(t, err)

	require.Len(t, vecs, 2)
	assert.Equal(t, []float32{1, 0, 0, 0}, vecs[0])
	assert.Equal(t, []float32{3, 0, 0, 0}, vecs[1])
}

func TestEmbed_LearnsDimensions(t *testing.T) {
	svc := newTestService(fakeOllama(t, 4), "")
	assert.Equal(t, DefaultDimensions, svc.Dimensions())

	_, err := svc.Embed(context.Background(), "xin chào")
	require.NoError(t, err)
	assert.Equal(t, 4, svc.Dimensions())
}

func TestEmbedBatch_Empty(t *testing.T) {
	vecs, err := NewEmbeddingService(Config{}).EmbedBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, vecs)
}

func TestEmbedBatch_CountMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"embeddings": []}`))
	}))
	defer srv.Close()

	_, err := newTestService(srv, "").EmbedBatch(context.Background(), []string{"a"})
	assert.ErrorContains(t, err, "0 embeddings returned for 1 inputs")
}

func TestEmbed_ModelMissing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"model not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newTestService(srv, "").Embed(context.Background(), "a")

	var apiErr *embedding.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.False(t, apiErr.Retryable())
}

func TestPing(t *testing.T) {
	srv := fakeOllama(t, 4)

	assert.NoError(t, newTestService(srv, "nomic-embed-text").Ping(context.Background()))
	assert.NoError(t, newTestService(srv, "nomic-embed-text:latest").Ping(context.Background()))
	assert.ErrorContains(t, newTestService(srv, "bge-m3").Ping(context.Background()), "ollama pull bge-m3")
}

func TestPing_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	assert.ErrorContains(t, newTestService(srv, "").Ping(context.Background()), "ping failed")
}

func TestSameModel(t *testing.T) {
	assert.True(t, sameModel("a", "a:latest"))
	assert.True(t, sameModel("a:v1", "a:v1"))
	assert.False(t, sameModel("a:v1", "a"))
	assert.False(t, sameModel("", "a"))
}
