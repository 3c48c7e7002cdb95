package storage

import (
	"testing"

	"github.com/lexidocs/docflow/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentSerialization(t *testing.T) {
	doc := &core.Document{
		ID:            "doc-1",
		FilePath:      "/data/doc-1.pdf",
		DocumentType:  "contract",
		Status:        core.StatusCompleted,
		ExtractedText: "whereas the parties agree",
		OCRConfidence: 0.92,
		PagesCount:    4,
		Analysis: core.AnalysisResult{
			"summary": "a contract",
			"parties": []any{"acme", "globex"},
			"nested":  map[string]any{"key_terms": []any{"term"}},
		},
	}

	data, err := MarshalDocument(doc)
	require.NoError(t, err)

	got, err := UnmarshalDocument(data)
	require.NoError(t, err)
	assert.Equal(t, doc.ID, got.ID)
	assert.Equal(t, doc.Status, got.Status)
	assert.Equal(t, "a contract", got.Analysis["summary"])
	assert.Equal(t, []any{"acme", "globex"}, got.Analysis["parties"])
}

func TestChunkSerialization(t *testing.T) {
	chunk := &core.Chunk{
		ID:         core.ChunkID("doc-1", 2),
		DocumentID: "doc-1",
		Index:      2,
		Text:       "some chunk",
		Embedding:  []float32{0.1, 0.2, 0.3},
		Metadata:   map[string]any{"document_type": "report"},
	}

	data, err := MarshalChunk(chunk)
	require.NoError(t, err)

	got, err := UnmarshalChunk(data)
	require.NoError(t, err)
	assert.Equal(t, chunk.ID, got.ID)
	assert.Equal(t, chunk.Embedding, got.Embedding)
	assert.Equal(t, "report", got.Metadata["document_type"])
}

func TestUnmarshalDocument_Corrupt(t *testing.T) {
	_, err := UnmarshalDocument([]byte("{not json"))
	assert.ErrorIs(t, err, ErrSerializationFailed)
}
