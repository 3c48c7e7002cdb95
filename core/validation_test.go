package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDocument() *Document {
	return &Document{
		ID:           "doc-1",
		Filename:     "report.pdf",
		FilePath:     "/data/uploads/report.pdf",
		DocumentType: DocumentTypeOther,
		Status:       StatusUploaded,
	}
}

func TestValidateDocument(t *testing.T) {
	t.Run("valid document", func(t *testing.T) {
		require.NoError(t, ValidateDocument(validDocument()))
	})

	t.Run("nil document", func(t *testing.T) {
		err := ValidateDocument(nil)
		assert.ErrorIs(t, err, ErrInvalidDocument)
	})

	t.Run("empty id", func(t *testing.T) {
		doc := validDocument()
		doc.ID = ""
		err := ValidateDocument(doc)
		assert.ErrorIs(t, err, ErrInvalidDocument)
		assert.ErrorIs(t, err, ErrEmptyDocumentID)
	})

	t.Run("empty file path", func(t *testing.T) {
		doc := validDocument()
		doc.FilePath = ""
		err := ValidateDocument(doc)
		assert.ErrorIs(t, err, ErrEmptyFilePath)
	})

	t.Run("unknown status", func(t *testing.T) {
		doc := validDocument()
		doc.Status = DocumentStatus("queued")
		err := ValidateDocument(doc)
		assert.ErrorIs(t, err, ErrInvalidStatus)
	})
}

func TestValidateStatus(t *testing.T) {
	for _, status := range []DocumentStatus{StatusUploaded, StatusProcessing, StatusCompleted, StatusFailed} {
		assert.NoError(t, ValidateStatus(status))
	}
	assert.ErrorIs(t, ValidateStatus(""), ErrInvalidStatus)
}

func TestChunkID(t *testing.T) {
	assert.Equal(t, "doc-1_chunk_0", ChunkID("doc-1", 0))
	assert.Equal(t, "doc-1_chunk_12", ChunkID("doc-1", 12))
}
