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


package docflow

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/lexidocs/docflow/ai"
	"github.com/lexidocs/docflow/ai/openai"
	"github.com/lexidocs/docflow/ai/pdf"
	"github.com/lexidocs/docflow/cache"
	"github.com/lexidocs/docflow/core"
	"github.com/lexidocs/docflow/pipeline"
	"github.com/lexidocs/docflow/search"
	"github.com/lexidocs/docflow/storage"
	"github.com/lexidocs/docflow/storage/badger"
)

// Service is the top-level entry point. It wires storage, the result
// cache, the AI services, the search engine, and the pipeline orchestrator
// into one handle.
type Service struct {
	backend      *badger.Backend
	documents    storage.DocumentRepository
	vectors      storage.VectorRepository
	cache        *cache.ResultCache
	engine       *search.Engine
	orchestrator *pipeline.Orchestrator
	logger       *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*serviceOptions)

type serviceOptions struct {
	aiConfig  *ai.Config
	extractor ai.Extractor
	analyzer  ai.Analyzer
	embedder  ai.Embedder
}

// WithAIConfig sets the configuration used to build the default AI services.
func WithAIConfig(config *ai.Config) ServiceOption {
	return func(o *serviceOptions) {
		o.aiConfig = config
	}
}

// WithExtractor replaces the default PDF extractor.
func WithExtractor(extractor ai.Extractor) ServiceOption {
	return func(o *serviceOptions) {
		o.extractor = extractor
	}
}

// WithAnalyzer replaces the default OpenAI-compatible analyzer.
func WithAnalyzer(analyzer ai.Analyzer) ServiceOption {
	return func(o *serviceOptions) {
		o.analyzer = analyzer
	}
}

// WithEmbedder replaces the default OpenAI-compatible embedder.
func WithEmbedder(embedder ai.Embedder) ServiceOption {
	return func(o *serviceOptions) {
		o.embedder = embedder
	}
}

// New opens a document service backed by the store at filePath.
func New(filePath string, opts ...ServiceOption) (*Service, error) {
	options := &serviceOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	logger := slog.Default().With("component", "docflow")

	// Open backend
	backend, err := badger.OpenBackend(filePath, false)
	if err != nil {
		return nil, err
	}

	documents := badger.NewDocumentRepository(backend)
	vectors := badger.NewVectorRepository(backend)

	// AI services: defaults can each be overridden for testing or custom stacks.
	extractor := options.extractor
	if extractor == nil {
		extractor = pdf.NewExtractor()
	}

	analyzer := options.analyzer
	if analyzer == nil {
		analyzer, err = openai.NewAnalyzer(options.aiConfig)
		if err != nil {
			backend.Close()
			return nil, err
		}
	}

	embedder := options.embedder
	if embedder == nil {
		embedder, err = openai.NewEmbedder(options.aiConfig)
		if err != nil {
			backend.Close()
			return nil, err
		}
	}

	engine, err := search.NewEngine(vectors, embedder)
	if err != nil {
		backend.Close()
		return nil, err
	}

	// A cache failure is not fatal: a nil cache is an always-miss cache.
	resultCache, err := cache.New()
	if err != nil {
		logger.Warn("result cache unavailable, reads go straight to storage", "err", err)
		resultCache = nil
	}

	orchestrator, err := pipeline.NewOrchestrator(documents, extractor, analyzer, engine,
		pipeline.WithCache(resultCache))
	if err != nil {
		resultCache.Close()
		backend.Close()
		return nil, err
	}

	return &Service{
		backend:      backend,
		documents:    documents,
		vectors:      vectors,
		cache:        resultCache,
		engine:       engine,
		orchestrator: orchestrator,
		logger:       logger,
	}, nil
}

// Close shuts down the pipeline, the cache, and storage.
func (s *Service) Close() error {
	s.orchestrator.Release()
	s.cache.Close()

	if err := s.vectors.Close(); err != nil {
		s.logger.Error("error closing vector repository", "err", err)
		return err
	}
	if err := s.documents.Close(); err != nil {
		s.logger.Error("error closing document repository", "err", err)
		return err
	}
	if err := s.backend.Close(); err != nil {
		s.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// AddDocument registers the file at filePath as a new document in the
// uploaded state and returns its record. documentType may be empty or
// "other", in which case the pipeline classifies the document from its
// content during processing.
func (s *Service) AddDocument(ctx context.Context, filePath, documentType string) (*core.Document, error) {
	info, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("stat upload: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", core.ErrInvalidDocument, filePath)
	}

	if documentType == "" {
		documentType = core.DocumentTypeOther
	}

	doc := &core.Document{
		ID:            uuid.NewString(),
		Filename:      filepath.Base(filePath),
		FilePath:      filePath,
		FileSizeBytes: info.Size(),
		DocumentType:  documentType,
		Status:        core.StatusUploaded,
	}
	if err := core.ValidateDocument(doc); err != nil {
		return nil, err
	}
	if err := s.documents.AddDocument(ctx, doc); err != nil {
		return nil, err
	}

	s.logger.Info("document added", "document_id", doc.ID, "filename", doc.Filename, "type", doc.DocumentType)
	return doc, nil
}

// Submit starts processing a document. See pipeline.Orchestrator.Submit.
func (s *Service) Submit(ctx context.Context, documentID string) error {
	return s.orchestrator.Submit(ctx, documentID)
}

// Reprocess restarts processing for a settled document.
func (s *Service) Reprocess(ctx context.Context, documentID string) error {
	return s.orchestrator.Reprocess(ctx, documentID)
}

// GetStatus returns the document's current status snapshot.
func (s *Service) GetStatus(ctx context.Context, documentID string) (*core.StatusSnapshot, error) {
	return s.orchestrator.GetStatus(ctx, documentID)
}

// GetResults returns the processing results of a completed document.
func (s *Service) GetResults(ctx context.Context, documentID string) (*core.Results, error) {
	return s.orchestrator.GetResults(ctx, documentID)
}

// GetInsights returns the derived insights view of a completed document.
func (s *Service) GetInsights(ctx context.Context, documentID string) (map[string]any, error) {
	return s.orchestrator.GetInsights(ctx, documentID)
}

// DeleteDocument removes a document, its index entries, and cached state.
func (s *Service) DeleteDocument(ctx context.Context, documentID string) error {
	return s.orchestrator.Delete(ctx, documentID)
}

// Search runs a similarity search over indexed documents. typeFilter,
// when non-empty, restricts hits to that document type.
func (s *Service) Search(ctx context.Context, query string, limit int, typeFilter string) ([]*core.SearchHit, error) {
	return s.engine.Search(ctx, query, limit, typeFilter)
}

// DocumentRepository exposes the underlying document store.
func (s *Service) DocumentRepository() storage.DocumentRepository {
	return s.documents
}

// SearchEngine exposes the underlying search engine.
func (s *Service) SearchEngine() *search.Engine {
	return s.engine
}
