package core

import (
	"fmt"
	"time"
)

// DocumentStatus is the lifecycle state of a document in the pipeline.
type DocumentStatus string

const (
	// StatusUploaded means the document record exists but processing has not started.
	StatusUploaded DocumentStatus = "uploaded"
	// StatusProcessing means a pipeline run is in flight for the document.
	StatusProcessing DocumentStatus = "processing"
	// StatusCompleted means the last run finished all stages successfully.
	StatusCompleted DocumentStatus = "completed"
	// StatusFailed means the last run stopped at a failing stage.
	StatusFailed DocumentStatus = "failed"
)

// DocumentTypeOther marks a document whose type has not been determined yet.
// It is the only type label the classification stage may overwrite.
const DocumentTypeOther = "other"

// AnalysisResult is the schema-less structured output of the analysis stage.
// Its shape varies by document type and must not be assumed by callers.
type AnalysisResult map[string]any

// Document is a unit of uploaded content tracked through the pipeline.
// The record is persisted by a storage.DocumentRepository; the pipeline
// references it by ID only.
type Document struct {
	ID            string
	Filename      string
	FilePath      string
	FileSizeBytes int64
	DocumentType  string
	Status        DocumentStatus

	// Populated by the extraction stage.
	ExtractedText    string
	OCRConfidence    float64
	PagesCount       int
	LanguageDetected string

	// Populated by the analysis stage.
	Analysis AnalysisResult

	// Failure bookkeeping. RetryCount increments on every failed run and
	// resets only on explicit reprocessing.
	ErrorMessage string
	RetryCount   int

	// Wall-clock duration of the last successful run.
	ProcessingTimeSeconds float64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Chunk is a bounded-length slice of a document's text, the unit indexed
// for similarity search. Chunks are derived data: the full batch for a
// document is replaced wholesale on reprocessing.
type Chunk struct {
	ID         string
	DocumentID string
	Index      int
	Text       string
	Embedding  []float32
	Metadata   map[string]any
}

// ChunkID returns the stable identifier for the chunk at index of a document.
func ChunkID(documentID string, index int) string {
	return fmt.Sprintf("%s_chunk_%d", documentID, index)
}

// ChunkMetadata builds the metadata attached to every indexed chunk of the
// document: its type, filename, and the analysis summary when one exists.
func (d *Document) ChunkMetadata() map[string]any {
	metadata := map[string]any{
		"document_type": d.DocumentType,
		"filename":      d.Filename,
	}
	if summary, ok := d.Analysis["summary"].(string); ok && summary != "" {
		metadata["summary"] = summary
	}
	return metadata
}

// ChunkMatch is a single chunk hit from vector similarity search.
type ChunkMatch struct {
	Chunk *Chunk
	Score float32
}

// SearchHit is one deduplicated similarity search result. At most one hit
// per document is returned; the hit carries that document's best chunk.
type SearchHit struct {
	DocumentID  string
	Score       float32
	TextPreview string
	Metadata    map[string]any
	ChunkIndex  int
}

// StatusSnapshot is the read model returned by status lookups.
type StatusSnapshot struct {
	DocumentID   string
	Status       DocumentStatus
	DocumentType string
	Filename     string
	RetryCount   int
	ErrorMessage string
	UpdatedAt    time.Time
}

// Results is the read model returned for a completed document.
type Results struct {
	DocumentID            string
	Status                DocumentStatus
	DocumentType          string
	ExtractedText         string
	Analysis              AnalysisResult
	OCRConfidence         float64
	PagesCount            int
	LanguageDetected      string
	ProcessingTimeSeconds float64
}
