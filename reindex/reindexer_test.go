package reindex

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexidocs/docflow/ai/mock"
	"github.com/lexidocs/docflow/core"
	"github.com/lexidocs/docflow/search"
	"github.com/lexidocs/docflow/storage"
	"github.com/lexidocs/docflow/storage/badger"
)

func setupReindexer(t *testing.T, embedder *mock.MockEmbedder, config *Config) (*Reindexer, storage.DocumentRepository, storage.VectorRepository, *bytes.Buffer) {
	docRepo, vectorRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() {
		vectorRepo.Close()
		docRepo.Close()
		backend.Close()
	})

	engine, err := search.NewEngine(vectorRepo, embedder)
	require.NoError(t, err)

	progress := &bytes.Buffer{}
	reindexer, err := NewReindexer(docRepo, engine, config, progress)
	require.NoError(t, err)
	return reindexer, docRepo, vectorRepo, progress
}

func addCompletedDocument(t *testing.T, repo storage.DocumentRepository, id, text string) {
	doc := &core.Document{
		ID:            id,
		Filename:      id + ".pdf",
		FilePath:      "/data/" + id + ".pdf",
		DocumentType:  "report",
		Status:        core.StatusCompleted,
		ExtractedText: text,
		Analysis:      core.AnalysisResult{"summary": "summary of " + id},
	}
	require.NoError(t, repo.AddDocument(context.Background(), doc))
}

func TestReindexer_Run(t *testing.T) {
	reindexer, docRepo, vectorRepo, progress := setupReindexer(t, mock.NewMockEmbedder(), nil)
	ctx := context.Background()

	addCompletedDocument(t, docRepo, "doc-1", "first document text")
	addCompletedDocument(t, docRepo, "doc-2", "second document text")

	// An uploaded document has no text to reindex yet.
	require.NoError(t, docRepo.AddDocument(ctx, &core.Document{
		ID: "doc-3", FilePath: "/data/doc-3.pdf", Status: core.StatusUploaded,
	}))

	require.NoError(t, reindexer.Run(ctx))

	for _, id := range []string{"doc-1", "doc-2"} {
		count, err := vectorRepo.CountDocumentChunks(ctx, id)
		require.NoError(t, err)
		assert.Greater(t, count, 0, "document %s must be indexed", id)
	}

	count, err := vectorRepo.CountDocumentChunks(ctx, "doc-3")
	require.NoError(t, err)
	assert.Equal(t, 0, count, "non-completed documents are skipped")

	// Rebuilt chunks carry the full metadata, analysis summary included.
	matches, err := vectorRepo.QuerySimilar(ctx, []float32{1, 0, 0}, 10, "")
	require.NoError(t, err)
	require.NotEmpty(t, matches)
	for _, match := range matches {
		assert.Equal(t, "report", match.Chunk.Metadata["document_type"])
		assert.Equal(t, "summary of "+match.Chunk.DocumentID, match.Chunk.Metadata["summary"])
	}

	assert.Contains(t, progress.String(), "Starting reindex of 2 documents")
	assert.Contains(t, progress.String(), "Reindex complete")
}

func TestReindexer_RunEmptyCorpus(t *testing.T) {
	reindexer, _, _, progress := setupReindexer(t, mock.NewMockEmbedder(), nil)

	require.NoError(t, reindexer.Run(context.Background()))
	assert.Contains(t, progress.String(), "No completed documents")
}

func TestReindexer_RetriesTransientFailures(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	failures := 2
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		if failures > 0 {
			failures--
			return nil, errors.New("transient")
		}
		out := make([][]float32, len(texts))
		for i := range texts {
			out[i] = []float32{1, 0, 0}
		}
		return out, nil
	}

	config := &Config{ReportInterval: 1, MaxRetries: 3, RetryDelay: time.Millisecond}
	reindexer, docRepo, vectorRepo, _ := setupReindexer(t, embedder, config)
	ctx := context.Background()

	addCompletedDocument(t, docRepo, "doc-1", "text that fails twice before embedding")

	require.NoError(t, reindexer.Run(ctx))

	count, err := vectorRepo.CountDocumentChunks(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestReindexer_FailsAfterExhaustedRetries(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, errors.New("embedding service down")
	}

	config := &Config{ReportInterval: 1, MaxRetries: 2, RetryDelay: time.Millisecond}
	reindexer, docRepo, _, _ := setupReindexer(t, embedder, config)
	ctx := context.Background()

	addCompletedDocument(t, docRepo, "doc-1", "text")

	err := reindexer.Run(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "doc-1")
}

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()

	t.Run("invalid attempts", func(t *testing.T) {
		err := retryWithBackoff(ctx, func() error { return nil }, 0, time.Millisecond)
		assert.ErrorIs(t, err, ErrInvalidMaxAttempts)
	})

	t.Run("succeeds first try", func(t *testing.T) {
		calls := 0
		err := retryWithBackoff(ctx, func() error { calls++; return nil }, 3, time.Millisecond)
		require.NoError(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("exhausts attempts", func(t *testing.T) {
		calls := 0
		err := retryWithBackoff(ctx, func() error { calls++; return errors.New("nope") }, 3, time.Millisecond)
		require.Error(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("cancelled context", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		err := retryWithBackoff(cancelled, func() error { return errors.New("nope") }, 3, time.Millisecond)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
