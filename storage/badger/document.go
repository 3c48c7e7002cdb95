package badger

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/lexidocs/docflow/core"
	"github.com/lexidocs/docflow/storage"
)

// DocumentRepository implements storage.DocumentRepository for BadgerDB.
type DocumentRepository struct {
	backend *Backend
}

var _ storage.DocumentRepository = (*DocumentRepository)(nil)

// NewDocumentRepository creates a new DocumentRepository.
func NewDocumentRepository(backend *Backend) *DocumentRepository {
	return &DocumentRepository{backend: backend}
}

// Close releases repository resources.
func (r *DocumentRepository) Close() error {
	return nil
}

// AddDocument stores a new document record.
func (r *DocumentRepository) AddDocument(ctx context.Context, doc *core.Document) error {
	if err := core.ValidateDocument(doc); err != nil {
		return err
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeDocumentKey(doc.ID)

		if _, err := tx.Get(key); err == nil {
			return fmt.Errorf("%w: document %s", storage.ErrDuplicateKey, doc.ID)
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		now := time.Now().UTC()
		if doc.CreatedAt.IsZero() {
			doc.CreatedAt = now
		}
		doc.UpdatedAt = now

		value, err := storage.MarshalDocument(doc)
		if err != nil {
			return err
		}
		if err := tx.Set(key, value); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// GetDocument retrieves a document by ID.
func (r *DocumentRepository) GetDocument(ctx context.Context, id string) (*core.Document, error) {
	var doc *core.Document

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		doc, err = readDocument(tx, id)
		return err
	}, false)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// UpdateDocument replaces the stored record for the document's ID.
func (r *DocumentRepository) UpdateDocument(ctx context.Context, doc *core.Document) (*core.Document, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		if _, err := readDocument(tx, doc.ID); err != nil {
			return err
		}

		doc.UpdatedAt = time.Now().UTC()

		value, err := storage.MarshalDocument(doc)
		if err != nil {
			return err
		}
		if err := tx.Set(makeDocumentKey(doc.ID), value); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// CompareAndSwapStatus atomically transitions the document's status.
// The read of the current status and the write of the new one share a single
// Badger transaction; when two racing transitions both read the old status,
// the second commit fails with a conflict and is reported as
// storage.ErrStatusConflict, so exactly one caller wins.
func (r *DocumentRepository) CompareAndSwapStatus(ctx context.Context, id string, to core.DocumentStatus, from ...core.DocumentStatus) (*core.Document, error) {
	var doc *core.Document

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		doc, err = readDocument(tx, id)
		if err != nil {
			return err
		}

		if !slices.Contains(from, doc.Status) {
			return fmt.Errorf("%w: document %s is %q", storage.ErrStatusConflict, id, doc.Status)
		}

		doc.Status = to
		doc.UpdatedAt = time.Now().UTC()

		value, err := storage.MarshalDocument(doc)
		if err != nil {
			return err
		}
		if err := tx.Set(makeDocumentKey(id), value); err != nil {
			return err
		}
		return tx.Commit()
	}, true)

	if errors.Is(err, badger.ErrConflict) {
		err = fmt.Errorf("%w: concurrent transition on document %s", storage.ErrStatusConflict, id)
	}
	if err != nil {
		return doc, err
	}
	return doc, nil
}

// ListDocuments returns all stored documents, ordered by ID.
func (r *DocumentRepository) ListDocuments(ctx context.Context) ([]*core.Document, error) {
	var docs []*core.Document

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(documentPrefix + ":")

		it := tx.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				doc, err := storage.UnmarshalDocument(val)
				if err != nil {
					return err
				}
				docs = append(docs, doc)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return docs, nil
}

// DeleteDocument removes a document record by ID.
func (r *DocumentRepository) DeleteDocument(ctx context.Context, id string) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		if _, err := readDocument(tx, id); err != nil {
			return err
		}
		if err := tx.Delete(makeDocumentKey(id)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// readDocument reads and unmarshals a document inside a transaction.
// Returns storage.ErrNotFound if the key is absent.
func readDocument(tx *badger.Txn, id string) (*core.Document, error) {
	item, err := tx.Get(makeDocumentKey(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: document %s", storage.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	var doc *core.Document
	err = item.Value(func(val []byte) error {
		doc, err = storage.UnmarshalDocument(val)
		return err
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}
