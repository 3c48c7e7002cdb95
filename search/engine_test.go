package search

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexidocs/docflow/ai/mock"
	"github.com/lexidocs/docflow/core"
	"github.com/lexidocs/docflow/storage"
	"github.com/lexidocs/docflow/storage/badger"
)

// axisEmbedder maps known texts to fixed axis vectors so similarity
// rankings in tests are exact.
func axisEmbedder(vectors map[string][]float32) *mock.MockEmbedder {
	lookup := func(text string) []float32 {
		if v, ok := vectors[text]; ok {
			return v
		}
		return []float32{0, 0, 0}
	}

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return lookup(text), nil
	}
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		out := make([][]float32, len(texts))
		for i, text := range texts {
			out[i] = lookup(text)
		}
		return out, nil
	}
	return embedder
}

func setupEngine(t *testing.T, embedder *mock.MockEmbedder, opts ...EngineOption) (*Engine, storage.VectorRepository) {
	docRepo, vectorRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() {
		vectorRepo.Close()
		docRepo.Close()
		backend.Close()
	})

	engine, err := NewEngine(vectorRepo, embedder, opts...)
	require.NoError(t, err)
	return engine, vectorRepo
}

func TestNewEngine_Validation(t *testing.T) {
	_, vectorRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	_, err = NewEngine(nil, mock.NewMockEmbedder())
	assert.ErrorIs(t, err, ErrVectorRepositoryRequired)

	_, err = NewEngine(vectorRepo, nil)
	assert.ErrorIs(t, err, ErrEmbedderRequired)
}

func TestEngine_IndexAndSearch(t *testing.T) {
	embedder := axisEmbedder(map[string][]float32{
		"the contract covers payment": {1, 0, 0},
		"the appendix lists parties":  {0, 1, 0},
		"quarterly revenue grew":      {0, 0, 1},
		"payment terms":               {1, 0, 0},
	})
	engine, _ := setupEngine(t, embedder)
	ctx := context.Background()

	count, err := engine.IndexDocument(ctx, "doc-contract",
		"the contract covers payment", map[string]any{"document_type": "contract"})
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	_, err = engine.IndexDocument(ctx, "doc-report",
		"quarterly revenue grew", map[string]any{"document_type": "report"})
	require.NoError(t, err)

	hits, err := engine.Search(ctx, "payment terms", 5, "")
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "doc-contract", hits[0].DocumentID)
	assert.InDelta(t, 1.0, float64(hits[0].Score), 1e-6)
	assert.Equal(t, "the contract covers payment", hits[0].TextPreview)
	assert.Equal(t, "contract", hits[0].Metadata["document_type"])
}

func TestEngine_SearchDeduplicatesPerDocument(t *testing.T) {
	// Two chunks of doc-a outrank doc-b's only chunk; doc-a must still
	// appear once, leaving room for doc-b.
	embedder := axisEmbedder(map[string][]float32{
		"first part about payment. " + strings.Repeat("filler words here and there. ", 3):  {1, 0, 0},
		"second part about payment. " + strings.Repeat("other filler goes right here. ", 3): {0.9, 0, 0},
		"unrelated note":  {0.5, 0, 0},
		"payment":         {1, 0, 0},
	})
	engine, vectorRepo := setupEngine(t, embedder, WithMaxChunkSize(40))
	ctx := context.Background()

	chunkA1 := "first part about payment. " + strings.Repeat("filler words here and there. ", 3)
	chunkA2 := "second part about payment. " + strings.Repeat("other filler goes right here. ", 3)
	require.NoError(t, vectorRepo.UpsertChunks(ctx,
		&core.Chunk{ID: core.ChunkID("doc-a", 0), DocumentID: "doc-a", Index: 0, Text: chunkA1, Embedding: []float32{1, 0, 0}},
		&core.Chunk{ID: core.ChunkID("doc-a", 1), DocumentID: "doc-a", Index: 1, Text: chunkA2, Embedding: []float32{0.9, 0, 0}},
		&core.Chunk{ID: core.ChunkID("doc-b", 0), DocumentID: "doc-b", Index: 0, Text: "unrelated note", Embedding: []float32{0.5, 0, 0}},
	))

	hits, err := engine.Search(ctx, "payment", 2, "")
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "doc-a", hits[0].DocumentID)
	assert.Equal(t, 0, hits[0].ChunkIndex, "best chunk represents the document")
	assert.Equal(t, "doc-b", hits[1].DocumentID)
}

func TestEngine_SearchLimit(t *testing.T) {
	embedder := axisEmbedder(map[string][]float32{"q": {1, 0, 0}})
	engine, vectorRepo := setupEngine(t, embedder)
	ctx := context.Background()

	for _, id := range []string{"doc-a", "doc-b", "doc-c"} {
		require.NoError(t, vectorRepo.UpsertChunks(ctx,
			&core.Chunk{ID: core.ChunkID(id, 0), DocumentID: id, Index: 0, Text: "t", Embedding: []float32{1, 0, 0}},
		))
	}

	hits, err := engine.Search(ctx, "q", 2, "")
	require.NoError(t, err)
	assert.Len(t, hits, 2)
}

func TestEngine_SearchInvalidLimit(t *testing.T) {
	engine, _ := setupEngine(t, mock.NewMockEmbedder())

	_, err := engine.Search(context.Background(), "q", 0, "")
	assert.ErrorIs(t, err, ErrInvalidLimit)

	_, err = engine.Search(context.Background(), "q", -1, "")
	assert.ErrorIs(t, err, ErrInvalidLimit)
}

func TestEngine_SearchTypeFilter(t *testing.T) {
	embedder := axisEmbedder(map[string][]float32{"q": {1, 0, 0}})
	engine, vectorRepo := setupEngine(t, embedder)
	ctx := context.Background()

	require.NoError(t, vectorRepo.UpsertChunks(ctx,
		&core.Chunk{ID: core.ChunkID("doc-a", 0), DocumentID: "doc-a", Index: 0, Text: "a",
			Embedding: []float32{1, 0, 0}, Metadata: map[string]any{"document_type": "contract"}},
		&core.Chunk{ID: core.ChunkID("doc-b", 0), DocumentID: "doc-b", Index: 0, Text: "b",
			Embedding: []float32{1, 0, 0}, Metadata: map[string]any{"document_type": "invoice"}},
	))

	hits, err := engine.Search(ctx, "q", 10, "invoice")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "doc-b", hits[0].DocumentID)
}

func TestEngine_SearchEmptyCorpus(t *testing.T) {
	engine, _ := setupEngine(t, mock.NewMockEmbedder())

	hits, err := engine.Search(context.Background(), "anything", 5, "")
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestEngine_ReindexReplacesWholesale(t *testing.T) {
	engine, _ := setupEngine(t, mock.NewMockEmbedder(), WithMaxChunkSize(60))
	ctx := context.Background()

	long := strings.TrimSpace(strings.Repeat("a full sentence sits right here. ", 8))
	count, err := engine.IndexDocument(ctx, "doc-1", long, nil)
	require.NoError(t, err)
	require.Greater(t, count, 1)

	count, err = engine.IndexDocument(ctx, "doc-1", "short text", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	stored, err := engine.CountDocumentChunks(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, 1, stored, "no orphan chunks may survive a shorter reindex")
}

func TestEngine_IndexEmbedderFailure(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, errors.New("embedding service down")
	}
	engine, _ := setupEngine(t, embedder)

	_, err := engine.IndexDocument(context.Background(), "doc-1", "some text", nil)
	assert.ErrorIs(t, err, ErrIndexing)
}

func TestEngine_SearchPreviewTruncated(t *testing.T) {
	embedder := axisEmbedder(map[string][]float32{"q": {1, 0, 0}})
	engine, vectorRepo := setupEngine(t, embedder)
	ctx := context.Background()

	longText := strings.Repeat("x", 500)
	require.NoError(t, vectorRepo.UpsertChunks(ctx,
		&core.Chunk{ID: core.ChunkID("doc-a", 0), DocumentID: "doc-a", Index: 0, Text: longText, Embedding: []float32{1, 0, 0}},
	))

	hits, err := engine.Search(ctx, "q", 1, "")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, strings.Repeat("x", 200)+"...", hits[0].TextPreview)
}

func TestEngine_DeleteDocument(t *testing.T) {
	engine, _ := setupEngine(t, mock.NewMockEmbedder())
	ctx := context.Background()

	_, err := engine.IndexDocument(ctx, "doc-1", "some text to index", nil)
	require.NoError(t, err)

	require.NoError(t, engine.DeleteDocument(ctx, "doc-1"))

	count, err := engine.CountDocumentChunks(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
