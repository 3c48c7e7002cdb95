package search

import (
	"context"
	"fmt"
	"log/slog"
	"maps"

	"github.com/lexidocs/docflow/ai"
	"github.com/lexidocs/docflow/core"
	"github.com/lexidocs/docflow/storage"
)

const (
	// defaultMaxChunkSize bounds chunk length in characters.
	defaultMaxChunkSize = 1000

	// previewRunes is the length of the text preview on each search hit.
	previewRunes = 200

	// overFetchFactor controls how many chunk matches are pulled per search.
	// Several chunks of one document can rank ahead of other documents, so
	// the engine over-fetches before deduplicating per document.
	overFetchFactor = 2
)

// Engine indexes document text as embedded chunks and answers similarity
// queries over them. Results are deduplicated so each document appears at
// most once, represented by its best-scoring chunk.
type Engine struct {
	vectors      storage.VectorRepository
	embedder     ai.Embedder
	maxChunkSize int
	logger       *slog.Logger
}

// EngineOption is a functional option for configuring an Engine.
type EngineOption func(*Engine)

// WithMaxChunkSize overrides the maximum chunk length in characters.
func WithMaxChunkSize(size int) EngineOption {
	return func(e *Engine) {
		e.maxChunkSize = size
	}
}

// WithLogger sets the logger. Defaults to slog.Default.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// NewEngine creates a search engine over the given vector repository and embedder.
func NewEngine(vectors storage.VectorRepository, embedder ai.Embedder, opts ...EngineOption) (*Engine, error) {
	if vectors == nil {
		return nil, ErrVectorRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	e := &Engine{
		vectors:      vectors,
		embedder:     embedder,
		maxChunkSize: defaultMaxChunkSize,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With("component", "search-engine")

	return e, nil
}

// IndexDocument chunks, embeds, and stores the text of a document, replacing
// any chunks previously indexed for it. Passing metadata attaches a copy to
// every chunk. Returns the number of chunks indexed.
func (e *Engine) IndexDocument(ctx context.Context, documentID, text string, metadata map[string]any) (int, error) {
	texts := SplitText(text, e.maxChunkSize)

	// Replace wholesale so a shorter reindex leaves no orphan chunks.
	if err := e.vectors.DeleteDocumentChunks(ctx, documentID); err != nil {
		return 0, fmt.Errorf("%w: clearing previous chunks for %s: %w", ErrIndexing, documentID, err)
	}

	vectors, err := e.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("%w: embedding %d chunks for %s: %w", ErrIndexing, len(texts), documentID, err)
	}
	if len(vectors) != len(texts) {
		return 0, fmt.Errorf("%w: embedder returned %d vectors for %d chunks", ErrIndexing, len(vectors), len(texts))
	}

	chunks := make([]*core.Chunk, len(texts))
	for i, chunkText := range texts {
		chunks[i] = &core.Chunk{
			ID:         core.ChunkID(documentID, i),
			DocumentID: documentID,
			Index:      i,
			Text:       chunkText,
			Embedding:  vectors[i],
			Metadata:   maps.Clone(metadata),
		}
	}

	if err := e.vectors.UpsertChunks(ctx, chunks...); err != nil {
		return 0, fmt.Errorf("%w: storing chunks for %s: %w", ErrIndexing, documentID, err)
	}

	e.logger.Info("indexed document", "document_id", documentID, "chunks", len(chunks))
	return len(chunks), nil
}

// Search embeds the query and returns up to limit hits, at most one per
// document, ranked by similarity. typeFilter, when non-empty, restricts
// hits to chunks whose metadata carries that document type.
func (e *Engine) Search(ctx context.Context, query string, limit int, typeFilter string) ([]*core.SearchHit, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, limit)
	}

	vector, err := e.embedder.EmbedText(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: embedding query: %w", ErrSearch, err)
	}

	matches, err := e.vectors.QuerySimilar(ctx, vector, limit*overFetchFactor, typeFilter)
	if err != nil {
		return nil, fmt.Errorf("%w: querying index: %w", ErrSearch, err)
	}

	hits := make([]*core.SearchHit, 0, limit)
	seen := make(map[string]struct{}, limit)
	for _, match := range matches {
		if _, ok := seen[match.Chunk.DocumentID]; ok {
			continue
		}
		seen[match.Chunk.DocumentID] = struct{}{}

		hits = append(hits, &core.SearchHit{
			DocumentID:  match.Chunk.DocumentID,
			Score:       match.Score,
			TextPreview: preview(match.Chunk.Text),
			Metadata:    match.Chunk.Metadata,
			ChunkIndex:  match.Chunk.Index,
		})
		if len(hits) >= limit {
			break
		}
	}

	e.logger.Debug("search complete", "matches", len(matches), "hits", len(hits))
	return hits, nil
}

// DeleteDocument removes every indexed chunk for a document.
func (e *Engine) DeleteDocument(ctx context.Context, documentID string) error {
	return e.vectors.DeleteDocumentChunks(ctx, documentID)
}

// CountDocumentChunks reports how many chunks are indexed for a document.
func (e *Engine) CountDocumentChunks(ctx context.Context, documentID string) (int, error) {
	return e.vectors.CountDocumentChunks(ctx, documentID)
}

// preview truncates chunk text to previewRunes runes for display.
func preview(text string) string {
	runes := []rune(text)
	if len(runes) <= previewRunes {
		return text
	}
	return string(runes[:previewRunes]) + "..."
}
