package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	secqerrors "github.com/kart-io/secq/pkg/errors"
	"github.com/kart-io/secq/pkg/llm/local"
)

type failingEmbedder struct{}

func (failingEmbedder) Embed(context.Context, []string) ([][]float32, error) {
	return nil, errors.New("embedding backend down")
}

func (failingEmbedder) EmbedSingle(context.Context, string) ([]float32, error) {
	return nil, errors.New("embedding backend down")
}

func (failingEmbedder) Name() string { return "failing" }

// rawEmbedder returns vectors that are not unit length.
type rawEmbedder struct{}

func (rawEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{3, 4}
	}
	return out, nil
}

func (rawEmbedder) EmbedSingle(context.Context, string) ([]float32, error) {
	return []float32{3, 4}, nil
}

func (rawEmbedder) Name() string { return "raw" }

// switchEmbedder fails once fail is set.
type switchEmbedder struct{ fail bool }

func (e *switchEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		v, err := e.EmbedSingle(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (e *switchEmbedder) EmbedSingle(context.Context, string) ([]float32, error) {
	if e.fail {
		return nil, errors.New("embedding backend down")
	}
	return []float32{1, 0}, nil
}

func (e *switchEmbedder) Name() string { return "switch" }

func TestBuildAndQueryRoundTrip(t *testing.T) {
	ctx := context.Background()
	text := "All customer data is encrypted at rest using AES-256."

	idx, err := Build(ctx, text, local.NewEmbedder(64), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, idx.Count())

	docs, err := idx.Query(ctx, "Is data encrypted?", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{text}, docs)
}

func TestQueryClampsK(t *testing.T) {
	ctx := context.Background()
	idx, err := Build(ctx, "policy text", local.NewEmbedder(32), DefaultConfig())
	require.NoError(t, err)

	for _, k := range []int{0, 1, 5} {
		docs, err := idx.Query(ctx, "anything", k)
		require.NoError(t, err)
		assert.Len(t, docs, 1, "k=%d", k)
	}
}

func TestQueryEmptyIndex(t *testing.T) {
	var idx *Index
	docs, err := idx.Query(context.Background(), "q", 1)
	require.NoError(t, err)
	assert.Empty(t, docs)
	assert.Equal(t, 0, idx.Count())
}

func TestQueryAnyQuestionReturnsDocument(t *testing.T) {
	ctx := context.Background()
	text := "All data is encrypted at rest with AES-256."
	idx, err := Build(ctx, text, local.NewEmbedder(32), nil)
	require.NoError(t, err)

	for _, q := range []string{"", "   ", "???", "Is data encrypted?"} {
		docs, err := idx.Query(ctx, q, 1)
		require.NoError(t, err, "question %q", q)
		assert.Equal(t, []string{text}, docs, "question %q", q)
	}
}

func TestQueryEmbeddingFailure(t *testing.T) {
	ctx := context.Background()
	emb := &switchEmbedder{}
	idx, err := Build(ctx, "policy text", emb, nil)
	require.NoError(t, err)

	emb.fail = true
	_, err = idx.Query(ctx, "q", 1)
	assert.ErrorContains(t, err, "embed question")
}

func TestBuildEmptyDocument(t *testing.T) {
	ctx := context.Background()
	idx, err := Build(ctx, "", local.NewEmbedder(32), nil)
	require.NoError(t, err)

	docs, err := idx.Query(ctx, "question", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{""}, docs)
}

func TestBuildEmbeddingFailure(t *testing.T) {
	_, err := Build(context.Background(), "text", failingEmbedder{}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, secqerrors.ErrIndex))
}

func TestBuildWithoutEmbedder(t *testing.T) {
	_, err := Build(context.Background(), "text", nil, nil)
	assert.True(t, errors.Is(err, secqerrors.ErrIndex))
}

func TestBuildNormalizesRemoteVectors(t *testing.T) {
	ctx := context.Background()
	idx, err := Build(ctx, "text", rawEmbedder{}, &Config{Collection: "c", DocumentID: "d"})
	require.NoError(t, err)

	docs, err := idx.Query(ctx, "q", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"text"}, docs)
}

func TestConcurrentQuery(t *testing.T) {
	ctx := context.Background()
	idx, err := Build(ctx, "shared context", local.NewEmbedder(32), nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			docs, err := idx.Query(ctx, "question", 1)
			assert.NoError(t, err)
			assert.Equal(t, []string{"shared context"}, docs)
		}()
	}
	wg.Wait()
}

func TestNormalize(t *testing.T) {
	v := normalize([]float32{3, 4})
	assert.InDelta(t, 0.6, v[0], 1e-6)
	assert.InDelta(t, 0.8, v[1], 1e-6)
	assert.Equal(t, []float32{0, 0}, normalize([]float32{0, 0}))
}
