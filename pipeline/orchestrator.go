package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/lexidocs/docflow/ai"
	"github.com/lexidocs/docflow/cache"
	"github.com/lexidocs/docflow/core"
	"github.com/lexidocs/docflow/search"
	"github.com/lexidocs/docflow/storage"
)

// TaskRunner schedules background pipeline runs. *ants.Pool satisfies it.
type TaskRunner interface {
	Submit(task func()) error
}

// Orchestrator drives documents through the processing pipeline:
// extract, classify, analyze, index. It owns the status state machine
// and guarantees at most one run is in flight per document.
type Orchestrator struct {
	documents storage.DocumentRepository
	extractor ai.Extractor
	analyzer  ai.Analyzer
	engine    *search.Engine
	cache     *cache.ResultCache
	runner    TaskRunner
	pool      *ants.Pool
	logger    *slog.Logger
}

// Option is a functional option for configuring an Orchestrator.
type Option func(*Orchestrator) error

// WithPoolSize sets the size of the worker pool running pipeline stages.
// Ignored when a custom TaskRunner is provided.
func WithPoolSize(size int) Option {
	return func(o *Orchestrator) error {
		if size < 1 {
			return errors.New("pool size must be positive")
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		o.runner = pool
		o.pool = pool
		return nil
	}
}

// WithTaskRunner replaces the worker pool with a custom runner.
// Intended for tests that need synchronous or manually drained runs.
func WithTaskRunner(runner TaskRunner) Option {
	return func(o *Orchestrator) error {
		o.runner = runner
		return nil
	}
}

// WithCache attaches a result cache. Without one the orchestrator reads
// straight from storage on every status or results call.
func WithCache(c *cache.ResultCache) Option {
	return func(o *Orchestrator) error {
		o.cache = c
		return nil
	}
}

// WithLogger sets the logger. Defaults to slog.Default.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) error {
		o.logger = logger
		return nil
	}
}

// NewOrchestrator creates a pipeline orchestrator over the given collaborators.
func NewOrchestrator(documents storage.DocumentRepository, extractor ai.Extractor, analyzer ai.Analyzer, engine *search.Engine, opts ...Option) (*Orchestrator, error) {
	if documents == nil {
		return nil, ErrDocumentRepositoryRequired
	}
	if extractor == nil {
		return nil, ErrExtractorRequired
	}
	if analyzer == nil {
		return nil, ErrAnalyzerRequired
	}
	if engine == nil {
		return nil, ErrSearchEngineRequired
	}

	o := &Orchestrator{
		documents: documents,
		extractor: extractor,
		analyzer:  analyzer,
		engine:    engine,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	o.logger = o.logger.With("component", "pipeline")

	if o.runner == nil {
		size := max(runtime.NumCPU()/2, 1)
		pool, err := ants.NewPool(size)
		if err != nil {
			return nil, err
		}
		o.runner = pool
		o.pool = pool
	}

	return o, nil
}

// Release shuts down the orchestrator's worker pool, if it owns one.
// In-flight runs finish; queued runs are dropped.
func (o *Orchestrator) Release() {
	if o.pool != nil {
		o.pool.Release()
	}
}

// Submit starts a pipeline run for a document in the uploaded or failed
// state. Submitting a document that is already processing is a no-op, so
// concurrent submits collapse into one run. Submitting a completed document
// returns core.ErrInvalidState; use Reprocess instead.
func (o *Orchestrator) Submit(ctx context.Context, documentID string) error {
	doc, err := o.documents.CompareAndSwapStatus(ctx, documentID, core.StatusProcessing,
		core.StatusUploaded, core.StatusFailed)
	if err != nil {
		if errors.Is(err, storage.ErrStatusConflict) {
			if doc != nil && doc.Status == core.StatusProcessing {
				o.logger.Debug("document already processing, submit is a no-op", "document_id", documentID)
				return nil
			}
			status := core.DocumentStatus("unknown")
			if doc != nil {
				status = doc.Status
			}
			return fmt.Errorf("%w: cannot process document in status %q", core.ErrInvalidState, status)
		}
		return err
	}

	o.cache.ClearDocument(documentID)
	return o.schedule(documentID)
}

// Reprocess restarts the pipeline for a document in any settled state,
// including completed. Failure bookkeeping is reset before the run.
func (o *Orchestrator) Reprocess(ctx context.Context, documentID string) error {
	doc, err := o.documents.CompareAndSwapStatus(ctx, documentID, core.StatusProcessing,
		core.StatusUploaded, core.StatusFailed, core.StatusCompleted)
	if err != nil {
		if errors.Is(err, storage.ErrStatusConflict) {
			return fmt.Errorf("%w: document is already processing", core.ErrInvalidState)
		}
		return err
	}

	doc.ErrorMessage = ""
	doc.RetryCount = 0
	if _, err := o.documents.UpdateDocument(ctx, doc); err != nil {
		return err
	}

	o.cache.ClearDocument(documentID)
	return o.schedule(documentID)
}

// schedule hands a run to the task runner. Scheduling failures mark the
// document failed so it does not stay stuck in processing.
func (o *Orchestrator) schedule(documentID string) error {
	err := o.runner.Submit(func() {
		o.run(context.Background(), documentID)
	})
	if err != nil {
		o.logger.Error("failed to schedule pipeline run", "document_id", documentID, "err", err)
		ctx := context.Background()
		if doc, getErr := o.documents.GetDocument(ctx, documentID); getErr == nil {
			o.failDocument(ctx, doc, fmt.Errorf("scheduling run: %w", err))
		}
		return err
	}
	return nil
}

// run executes the pipeline stages for one document. The document is in
// the processing state when run starts; run always leaves it settled as
// completed or failed.
func (o *Orchestrator) run(ctx context.Context, documentID string) {
	started := time.Now()
	logger := o.logger.With("document_id", documentID)

	doc, err := o.documents.GetDocument(ctx, documentID)
	if err != nil {
		logger.Error("document vanished before run", "err", err)
		return
	}

	// Stage 1: extraction.
	extraction, err := o.extractor.Extract(ctx, doc.FilePath)
	if err != nil {
		o.failDocument(ctx, doc, fmt.Errorf("%w: %w", ErrExtraction, err))
		return
	}
	doc.ExtractedText = extraction.Text
	doc.OCRConfidence = extraction.Confidence
	doc.PagesCount = extraction.PagesCount
	doc.LanguageDetected = extraction.Language
	if doc, err = o.persist(ctx, doc); err != nil {
		logger.Error("failed to persist extraction results", "err", err)
		return
	}

	// Stage 2: classification, only when no explicit type was supplied.
	if doc.DocumentType == "" || doc.DocumentType == core.DocumentTypeOther {
		doc.DocumentType = ai.Classify(doc.ExtractedText)
		logger.Info("classified document", "document_type", doc.DocumentType)
	}

	// Stage 3: analysis.
	analysis, confidence, err := o.analyzer.Analyze(ctx, doc.ExtractedText, doc.DocumentType, map[string]any{
		"filename":        doc.Filename,
		"file_size_bytes": doc.FileSizeBytes,
	})
	if err != nil {
		o.failDocument(ctx, doc, fmt.Errorf("%w: %w", ErrAnalysis, err))
		return
	}
	analysis["confidence"] = confidence
	doc.Analysis = analysis
	if doc, err = o.persist(ctx, doc); err != nil {
		logger.Error("failed to persist analysis results", "err", err)
		return
	}

	// Stage 4: indexing for similarity search.
	chunks, err := o.engine.IndexDocument(ctx, doc.ID, doc.ExtractedText, doc.ChunkMetadata())
	if err != nil {
		o.failDocument(ctx, doc, fmt.Errorf("%w: %w", ErrIndexing, err))
		return
	}

	// Finalize.
	doc.Status = core.StatusCompleted
	doc.ErrorMessage = ""
	doc.ProcessingTimeSeconds = time.Since(started).Seconds()
	if _, err = o.persist(ctx, doc); err != nil {
		logger.Error("failed to persist completion", "err", err)
		return
	}

	logger.Info("pipeline run complete",
		"document_type", doc.DocumentType,
		"chunks", chunks,
		"seconds", doc.ProcessingTimeSeconds)
}

// persist writes the document record and drops its cached read models.
func (o *Orchestrator) persist(ctx context.Context, doc *core.Document) (*core.Document, error) {
	updated, err := o.documents.UpdateDocument(ctx, doc)
	if err != nil {
		return nil, err
	}
	o.cache.ClearDocument(doc.ID)
	return updated, nil
}

// failDocument settles a run as failed. Stage results persisted before the
// failing stage are kept so a later retry has the partial work.
func (o *Orchestrator) failDocument(ctx context.Context, doc *core.Document, cause error) {
	o.logger.Error("pipeline run failed", "document_id", doc.ID, "err", cause)

	doc.Status = core.StatusFailed
	doc.ErrorMessage = cause.Error()
	doc.RetryCount++
	if _, err := o.persist(ctx, doc); err != nil {
		o.logger.Error("failed to persist failure", "document_id", doc.ID, "err", err)
	}
}

// GetStatus returns the current status snapshot for a document, served
// from cache when fresh.
func (o *Orchestrator) GetStatus(ctx context.Context, documentID string) (*core.StatusSnapshot, error) {
	if snapshot, ok := o.cache.GetStatus(documentID); ok {
		return snapshot, nil
	}

	doc, err := o.documents.GetDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}

	snapshot := &core.StatusSnapshot{
		DocumentID:   doc.ID,
		Status:       doc.Status,
		DocumentType: doc.DocumentType,
		Filename:     doc.Filename,
		RetryCount:   doc.RetryCount,
		ErrorMessage: doc.ErrorMessage,
		UpdatedAt:    doc.UpdatedAt,
	}
	o.cache.SetStatus(documentID, snapshot)
	return snapshot, nil
}

// GetResults returns the processing results for a completed document.
// Documents in any other state return core.ErrInvalidState; that answer
// is never cached since the state is about to change.
func (o *Orchestrator) GetResults(ctx context.Context, documentID string) (*core.Results, error) {
	if results, ok := o.cache.GetResults(documentID); ok {
		return results, nil
	}

	doc, err := o.documents.GetDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if doc.Status != core.StatusCompleted {
		return nil, fmt.Errorf("%w: results unavailable for document in status %q", core.ErrInvalidState, doc.Status)
	}

	results := &core.Results{
		DocumentID:            doc.ID,
		Status:                doc.Status,
		DocumentType:          doc.DocumentType,
		ExtractedText:         doc.ExtractedText,
		Analysis:              doc.Analysis,
		OCRConfidence:         doc.OCRConfidence,
		PagesCount:            doc.PagesCount,
		LanguageDetected:      doc.LanguageDetected,
		ProcessingTimeSeconds: doc.ProcessingTimeSeconds,
	}
	o.cache.SetResults(documentID, results)
	return results, nil
}

// GetInsights compiles a derived view of a completed document: processing
// stats, its analysis, similar documents, and type-specific recommendations.
func (o *Orchestrator) GetInsights(ctx context.Context, documentID string) (map[string]any, error) {
	if insights, ok := o.cache.GetInsights(documentID); ok {
		return insights, nil
	}

	doc, err := o.documents.GetDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if doc.Status != core.StatusCompleted {
		return nil, fmt.Errorf("%w: insights unavailable for document in status %q", core.ErrInvalidState, doc.Status)
	}

	// Similar documents are found by querying with the document's own text.
	var similar []*core.SearchHit
	if doc.ExtractedText != "" {
		query := doc.ExtractedText
		if len(query) > 500 {
			query = query[:500]
		}
		similar, err = o.engine.Search(ctx, query, 3, doc.DocumentType)
		if err != nil {
			o.logger.Warn("similar document lookup failed", "document_id", documentID, "err", err)
			similar = nil
		}
	}

	insights := map[string]any{
		"document_info": map[string]any{
			"id":       doc.ID,
			"filename": doc.Filename,
			"type":     doc.DocumentType,
			"status":   string(doc.Status),
		},
		"processing_results": map[string]any{
			"ocr_confidence":    doc.OCRConfidence,
			"processing_time":   doc.ProcessingTimeSeconds,
			"pages_count":       doc.PagesCount,
			"language_detected": doc.LanguageDetected,
			"text_length":       len(doc.ExtractedText),
		},
		"analysis":          doc.Analysis,
		"similar_documents": similar,
		"recommendations":   recommendations(doc.Analysis, doc.DocumentType),
	}
	o.cache.SetInsights(documentID, insights)
	return insights, nil
}

// Delete removes a document, its indexed chunks, and its cached entries.
// Documents that are currently processing cannot be deleted.
func (o *Orchestrator) Delete(ctx context.Context, documentID string) error {
	doc, err := o.documents.GetDocument(ctx, documentID)
	if err != nil {
		return err
	}
	if doc.Status == core.StatusProcessing {
		return fmt.Errorf("%w: cannot delete document while processing", core.ErrInvalidState)
	}

	if err := o.engine.DeleteDocument(ctx, documentID); err != nil {
		return fmt.Errorf("deleting indexed chunks: %w", err)
	}
	if err := o.documents.DeleteDocument(ctx, documentID); err != nil {
		return err
	}
	o.cache.ClearDocument(documentID)
	return nil
}

// recommendations derives advisory notes from an analysis, mirroring what
// a reviewer would flag for each document type.
func recommendations(analysis core.AnalysisResult, documentType string) []string {
	var recs []string

	switch documentType {
	case "resume":
		// A missing or non-numeric value counts as no experience.
		years, _ := analysis["years_experience"].(float64)
		if years < 2 {
			recs = append(recs, "Consider highlighting education and projects more prominently")
		}
		if info, ok := analysis["candidate_info"].(map[string]any); ok {
			if email, _ := info["email"].(string); email == "" {
				recs = append(recs, "Ensure contact information is clearly visible")
			}
		}
	case "contract":
		if risks, ok := analysis["risk_factors"].([]any); ok && len(risks) > 0 {
			recs = append(recs, "Review identified risk factors carefully")
		}
		if expiry, _ := analysis["expiry_date"].(string); expiry == "" {
			recs = append(recs, "Consider adding clear contract expiry dates")
		}
	case "invoice":
		if due, _ := analysis["due_date"].(string); due == "" {
			recs = append(recs, "Ensure payment due date is clearly specified")
		}
	}

	if confidence, ok := analysis["confidence"].(float64); ok && confidence < 0.7 {
		recs = append(recs, "Document quality could be improved for better analysis")
	}

	return recs
}
