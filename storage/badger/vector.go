package badger

import (
	"context"
	"sort"

	"github.com/dgraph-io/badger/v4"
	"github.com/lexidocs/docflow/core"
	"github.com/lexidocs/docflow/storage"
)

// VectorRepository implements storage.VectorRepository for BadgerDB.
// Queries perform a brute-force inner-product scan over all stored chunks,
// which is adequate for corpora up to the tens of thousands of chunks.
type VectorRepository struct {
	backend *Backend
}

var _ storage.VectorRepository = (*VectorRepository)(nil)

// NewVectorRepository creates a new VectorRepository.
func NewVectorRepository(backend *Backend) *VectorRepository {
	return &VectorRepository{backend: backend}
}

// Close releases repository resources.
func (r *VectorRepository) Close() error {
	return nil
}

// UpsertChunks stores chunks, replacing existing entries with the same ID.
func (r *VectorRepository) UpsertChunks(ctx context.Context, chunks ...*core.Chunk) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, chunk := range chunks {
			value, err := storage.MarshalChunk(chunk)
			if err != nil {
				return err
			}

			key := makeChunkKey(chunk.ID)
			if err := tx.Set(key, value); err != nil {
				return err
			}
			// Index entry maps the document to its chunk's primary key.
			if err := tx.Set(makeChunkDocKey(chunk.DocumentID, chunk.ID), key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// QuerySimilar returns up to topK chunks ranked by inner-product similarity.
func (r *VectorRepository) QuerySimilar(ctx context.Context, vector []float32, topK int, typeFilter string) ([]*core.ChunkMatch, error) {
	var matches []*core.ChunkMatch

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(chunkPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var chunk *core.Chunk
			err := iter.Item().Value(func(val []byte) error {
				var err error
				chunk, err = storage.UnmarshalChunk(val)
				return err
			})
			if err != nil {
				return err
			}

			if typeFilter != "" && !matchesTypeFilter(chunk.Metadata, typeFilter) {
				continue
			}

			matches = append(matches, &core.ChunkMatch{
				Chunk: chunk,
				Score: innerProduct(vector, chunk.Embedding),
			})
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if topK >= 0 && len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

// DeleteDocumentChunks removes all chunks belonging to a document.
func (r *VectorRepository) DeleteDocumentChunks(ctx context.Context, documentID string) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		indexKeys, chunkKeys, err := collectDocumentChunkKeys(tx, documentID)
		if err != nil {
			return err
		}
		if len(indexKeys) == 0 {
			return nil
		}

		for _, key := range chunkKeys {
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		for _, key := range indexKeys {
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// CountDocumentChunks returns the number of chunks stored for a document.
func (r *VectorRepository) CountDocumentChunks(ctx context.Context, documentID string) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeChunkDocPrefix(documentID)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// collectDocumentChunkKeys gathers index and primary keys for one document's
// chunks. Collected up front so deletion doesn't mutate under the iterator.
func collectDocumentChunkKeys(tx *badger.Txn, documentID string) (indexKeys, chunkKeys [][]byte, err error) {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = makeChunkDocPrefix(documentID)
	iter := tx.NewIterator(opts)
	defer iter.Close()

	for iter.Rewind(); iter.Valid(); iter.Next() {
		item := iter.Item()
		indexKeys = append(indexKeys, item.KeyCopy(nil))

		chunkKey, err := item.ValueCopy(nil)
		if err != nil {
			return nil, nil, err
		}
		chunkKeys = append(chunkKeys, chunkKey)
	}
	return indexKeys, chunkKeys, nil
}

// matchesTypeFilter reports whether the chunk metadata's document_type equals
// the filter value.
func matchesTypeFilter(metadata map[string]any, typeFilter string) bool {
	docType, ok := metadata["document_type"].(string)
	return ok && docType == typeFilter
}

// innerProduct computes the dot product of two vectors. Mismatched lengths
// score over the shared prefix only.
func innerProduct(a, b []float32) float32 {
	n := min(len(a), len(b))
	var sum float32
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
