package storage

import (
	"context"

	"github.com/lexidocs/docflow/core"
)

// DocumentRepository provides persistence for document records.
// Implementations must be thread-safe and support concurrent access.
type DocumentRepository interface {
	// AddDocument stores a new document record.
	// Sets CreatedAt and UpdatedAt if not already set.
	// Returns ErrDuplicateKey if a document with the same ID exists.
	AddDocument(ctx context.Context, doc *core.Document) error

	// GetDocument retrieves a document by ID.
	// Returns ErrNotFound if the document doesn't exist.
	GetDocument(ctx context.Context, id string) (*core.Document, error)

	// UpdateDocument replaces the stored record for the document's ID.
	// Updates the UpdatedAt timestamp automatically.
	// Returns ErrNotFound if the document doesn't exist.
	UpdateDocument(ctx context.Context, doc *core.Document) (*core.Document, error)

	// CompareAndSwapStatus atomically transitions the document's status to
	// `to` if, and only if, its current status is one of `from`. The check
	// and the write commit as one unit; a concurrent conflicting transition
	// causes exactly one caller to win.
	// Returns the stored document. On a status mismatch, or when a concurrent
	// commit beat this one, the error is ErrStatusConflict and the returned
	// document reflects the losing read.
	// Returns ErrNotFound if the document doesn't exist.
	CompareAndSwapStatus(ctx context.Context, id string, to core.DocumentStatus, from ...core.DocumentStatus) (*core.Document, error)

	// ListDocuments returns all stored documents, ordered by ID.
	ListDocuments(ctx context.Context) ([]*core.Document, error)

	// DeleteDocument removes a document record by ID.
	// Returns ErrNotFound if the document doesn't exist.
	DeleteDocument(ctx context.Context, id string) error

	// Close closes the repository and releases resources.
	Close() error
}

// VectorRepository persists chunk embeddings and supports nearest-neighbor
// search. Implementations must be thread-safe.
type VectorRepository interface {
	// UpsertChunks stores chunks, replacing any existing entries with the
	// same chunk ID.
	UpsertChunks(ctx context.Context, chunks ...*core.Chunk) error

	// QuerySimilar returns up to topK chunks ranked by inner-product
	// similarity against the query vector, highest first. A non-empty
	// typeFilter restricts hits to chunks whose metadata "document_type"
	// equals it. An empty corpus yields an empty result, not an error.
	QuerySimilar(ctx context.Context, vector []float32, topK int, typeFilter string) ([]*core.ChunkMatch, error)

	// DeleteDocumentChunks removes all chunks belonging to a document.
	// Idempotent: deleting a document with no chunks is a no-op.
	DeleteDocumentChunks(ctx context.Context, documentID string) error

	// CountDocumentChunks returns the number of chunks stored for a document.
	CountDocumentChunks(ctx context.Context, documentID string) (int, error)

	// Close closes the repository and releases resources.
	Close() error
}
