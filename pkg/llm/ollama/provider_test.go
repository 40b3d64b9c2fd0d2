package ollama

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kart-io/secq/pkg/llm"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Provider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := DefaultConfig()
	cfg.BaseURL = server.URL
	cfg.ChatModel = "llama3"
	cfg.Timeout = time.Second
	return NewProviderWithConfig(cfg)
}

func TestGenerate(t *testing.T) {
	p := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"model":"llama3","prompt":"What is TLS?","stream":false}`, string(body))
		_, _ = w.Write([]byte(`{"model":"llama3","response":"Transport Layer Security.","done":true}`))
	})

	answer, err := p.Generate(context.Background(), "What is TLS?", "")
	require.NoError(t, err)
	assert.Equal(t, "Transport Layer Security.", answer)
}

func TestGenerateDoesNotRetry(t *testing.T) {
	var calls int32
	p := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "overloaded", http.StatusInternalServerError)
	})

	_, err := p.Generate(context.Background(), "q", "")
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestGenerateRequiresModel(t *testing.T) {
	p := NewProviderWithConfig(DefaultConfig())
	_, err := p.Generate(context.Background(), "q", "")
	assert.ErrorContains(t, err, "model is not configured")
}

func TestEmbed(t *testing.T) {
	p := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/embed", r.URL.Path)
		_, _ = w.Write([]byte(`{"model":"nomic-embed-text","embeddings":[[0.1,0.2],[0.3,0.4]]}`))
	})

	vecs, err := p.Embed(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, [][]float32{{0.1, 0.2}, {0.3, 0.4}}, vecs)

	empty, err := p.Embed(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, empty)
}

func TestEmbedCountMismatch(t *testing.T) {
	p := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"embeddings":[]}`))
	})

	_, err := p.EmbedSingle(context.Background(), "a")
	assert.Error(t, err)
}

func TestPingAndListModels(t *testing.T) {
	p := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		_, _ = w.Write([]byte(`{"models":[{"name":"llama3:latest"},{"name":"nomic-embed-text"}]}`))
	})

	require.NoError(t, p.Ping(context.Background()))

	models, err := p.ListModels(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"llama3:latest", "nomic-embed-text"}, models)
}

func TestPingUnavailable(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BaseURL = "http://127.0.0.1:1"
	cfg.Timeout = 100 * time.Millisecond

	err := NewProviderWithConfig(cfg).Ping(context.Background())
	assert.ErrorContains(t, err, "ollama unavailable")
}

func TestNewProviderFromRegistry(t *testing.T) {
	p, err := llm.NewChatProvider(ProviderName, map[string]any{
		"base_url":   "http://ollama:11434",
		"chat_model": "mistral",
		"timeout":    5 * time.Second,
	})
	require.NoError(t, err)

	op, ok := p.(*Provider)
	require.True(t, ok)
	assert.Equal(t, "http://ollama:11434", op.config.BaseURL)
	assert.Equal(t, "mistral", op.config.ChatModel)
	assert.Equal(t, "nomic-embed-text", op.config.EmbedModel)
	assert.Equal(t, 5*time.Second, op.config.Timeout)
	assert.Equal(t, 0, op.config.MaxRetries)
}

func TestEmbedRetriesFromRegistry(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			http.Error(w, "loading model", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"embeddings":[[0.6,0.8]]}`))
	}))
	t.Cleanup(server.Close)

	p, err := llm.NewEmbeddingProvider(ProviderName, map[string]any{
		"base_url":    server.URL,
		"embed_model": "nomic-embed-text",
		"timeout":     time.Second,
		"max_retries": 1,
	})
	require.NoError(t, err)

	vec, err := p.EmbedSingle(context.Background(), "policy")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.6, 0.8}, vec)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}
