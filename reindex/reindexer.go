// Copyright 2025 Lexidocs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package reindex

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/lexidocs/docflow/core"
	"github.com/lexidocs/docflow/search"
	"github.com/lexidocs/docflow/storage"
)

// Config holds configuration for a reindexing run.
type Config struct {
	// ReportInterval is how often to report progress (number of documents)
	ReportInterval int

	// MaxRetries is the maximum number of retry attempts per document
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		ReportInterval: 10,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Reindexer rebuilds the search index for every completed document,
// re-chunking and re-embedding its extracted text. Run it after switching
// embedding models, since vectors from different models are not comparable.
type Reindexer struct {
	documents storage.DocumentRepository
	engine    *search.Engine
	config    *Config
	progress  io.Writer
}

// NewReindexer creates a reindexer writing progress to the given writer
// (typically os.Stderr).
func NewReindexer(documents storage.DocumentRepository, engine *search.Engine, config *Config, progress io.Writer) (*Reindexer, error) {
	if documents == nil {
		return nil, ErrDocumentRepositoryRequired
	}
	if engine == nil {
		return nil, ErrSearchEngineRequired
	}
	if config == nil {
		config = DefaultConfig()
	}

	return &Reindexer{
		documents: documents,
		engine:    engine,
		config:    config,
		progress:  progress,
	}, nil
}

// Run reindexes every completed document that has extracted text.
// Documents in other states are skipped: their text is absent or about to
// change. Each document is retried with backoff before the run fails.
func (r *Reindexer) Run(ctx context.Context) error {
	docs, err := r.documents.ListDocuments(ctx)
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	var eligible []*core.Document
	for _, doc := range docs {
		if doc.Status == core.StatusCompleted && doc.ExtractedText != "" {
			eligible = append(eligible, doc)
		}
	}

	if len(eligible) == 0 {
		fmt.Fprintf(r.progress, "No completed documents to reindex (%d records total)\n", len(docs))
		return nil
	}

	fmt.Fprintf(r.progress, "Starting reindex of %d documents\n", len(eligible))

	tracker := NewProgressTracker(r.progress, len(eligible), r.config.ReportInterval)
	tracker.Start()

	for i, doc := range eligible {
		err := retryWithBackoff(ctx, func() error {
			_, indexErr := r.engine.IndexDocument(ctx, doc.ID, doc.ExtractedText, doc.ChunkMetadata())
			return indexErr
		}, r.config.MaxRetries, r.config.RetryDelay)
		if err != nil {
			return fmt.Errorf("failed to reindex document %s: %w", doc.ID, err)
		}

		tracker.Update(i + 1)
	}

	tracker.Finish()

	elapsed := tracker.Elapsed()
	fmt.Fprintf(r.progress, "Reindex complete. Processed %d documents in %v (%.1f docs/sec)\n",
		len(eligible), elapsed.Round(time.Second), float64(len(eligible))/elapsed.Seconds())

	return nil
}
