package badger

import (
	"context"
	"testing"

	"github.com/lexidocs/docflow/core"
	"github.com/lexidocs/docflow/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupDocumentRepository(t *testing.T) storage.DocumentRepository {
	docRepo, vectorRepo, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() {
		vectorRepo.Close()
		docRepo.Close()
		backend.Close()
	})
	return docRepo
}

func newTestDocument(id string) *core.Document {
	return &core.Document{
		ID:           id,
		Filename:     "report.pdf",
		FilePath:     "/data/uploads/" + id + ".pdf",
		DocumentType: core.DocumentTypeOther,
		Status:       core.StatusUploaded,
	}
}

func TestDocumentRepository_AddAndGet(t *testing.T) {
	repo := setupDocumentRepository(t)
	ctx := context.Background()

	doc := newTestDocument("doc-1")
	require.NoError(t, repo.AddDocument(ctx, doc))
	assert.False(t, doc.CreatedAt.IsZero())
	assert.False(t, doc.UpdatedAt.IsZero())

	got, err := repo.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "doc-1", got.ID)
	assert.Equal(t, core.StatusUploaded, got.Status)
	assert.Equal(t, core.DocumentTypeOther, got.DocumentType)
}

func TestDocumentRepository_AddDuplicate(t *testing.T) {
	repo := setupDocumentRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.AddDocument(ctx, newTestDocument("doc-1")))
	err := repo.AddDocument(ctx, newTestDocument("doc-1"))
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestDocumentRepository_GetMissing(t *testing.T) {
	repo := setupDocumentRepository(t)

	_, err := repo.GetDocument(context.Background(), "nope")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestDocumentRepository_Update(t *testing.T) {
	repo := setupDocumentRepository(t)
	ctx := context.Background()

	doc := newTestDocument("doc-1")
	require.NoError(t, repo.AddDocument(ctx, doc))

	doc.ExtractedText = "hello world"
	doc.PagesCount = 3
	doc.Analysis = core.AnalysisResult{"summary": "greeting", "confidence": 0.9}
	updated, err := repo.UpdateDocument(ctx, doc)
	require.NoError(t, err)
	assert.Equal(t, 3, updated.PagesCount)

	got, err := repo.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "hello world", got.ExtractedText)
	assert.Equal(t, "greeting", got.Analysis["summary"])

	t.Run("missing document", func(t *testing.T) {
		_, err := repo.UpdateDocument(ctx, newTestDocument("ghost"))
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestDocumentRepository_CompareAndSwapStatus(t *testing.T) {
	repo := setupDocumentRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.AddDocument(ctx, newTestDocument("doc-1")))

	t.Run("matching status transitions", func(t *testing.T) {
		doc, err := repo.CompareAndSwapStatus(ctx, "doc-1", core.StatusProcessing, core.StatusUploaded, core.StatusFailed)
		require.NoError(t, err)
		assert.Equal(t, core.StatusProcessing, doc.Status)

		got, err := repo.GetDocument(ctx, "doc-1")
		require.NoError(t, err)
		assert.Equal(t, core.StatusProcessing, got.Status)
	})

	t.Run("mismatch reports conflict with current document", func(t *testing.T) {
		doc, err := repo.CompareAndSwapStatus(ctx, "doc-1", core.StatusProcessing, core.StatusUploaded, core.StatusFailed)
		assert.ErrorIs(t, err, storage.ErrStatusConflict)
		require.NotNil(t, doc)
		assert.Equal(t, core.StatusProcessing, doc.Status)

		// Status unchanged by the losing call.
		got, err := repo.GetDocument(ctx, "doc-1")
		require.NoError(t, err)
		assert.Equal(t, core.StatusProcessing, got.Status)
	})

	t.Run("missing document", func(t *testing.T) {
		_, err := repo.CompareAndSwapStatus(ctx, "ghost", core.StatusProcessing, core.StatusUploaded)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestDocumentRepository_ConcurrentCAS(t *testing.T) {
	repo := setupDocumentRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.AddDocument(ctx, newTestDocument("doc-1")))

	const attempts = 8
	errs := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		go func() {
			_, err := repo.CompareAndSwapStatus(ctx, "doc-1", core.StatusProcessing, core.StatusUploaded)
			errs <- err
		}()
	}

	wins := 0
	for i := 0; i < attempts; i++ {
		err := <-errs
		if err == nil {
			wins++
		} else {
			assert.ErrorIs(t, err, storage.ErrStatusConflict)
		}
	}
	assert.Equal(t, 1, wins, "exactly one concurrent transition must win")
}

func TestDocumentRepository_List(t *testing.T) {
	repo := setupDocumentRepository(t)
	ctx := context.Background()

	docs, err := repo.ListDocuments(ctx)
	require.NoError(t, err)
	assert.Empty(t, docs)

	require.NoError(t, repo.AddDocument(ctx, newTestDocument("doc-b")))
	require.NoError(t, repo.AddDocument(ctx, newTestDocument("doc-a")))
	require.NoError(t, repo.AddDocument(ctx, newTestDocument("doc-c")))

	docs, err = repo.ListDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, "doc-a", docs[0].ID)
	assert.Equal(t, "doc-b", docs[1].ID)
	assert.Equal(t, "doc-c", docs[2].ID)
}

func TestDocumentRepository_Delete(t *testing.T) {
	repo := setupDocumentRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.AddDocument(ctx, newTestDocument("doc-1")))
	require.NoError(t, repo.DeleteDocument(ctx, "doc-1"))

	_, err := repo.GetDocument(ctx, "doc-1")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	assert.ErrorIs(t, repo.DeleteDocument(ctx, "doc-1"), storage.ErrNotFound)
}
