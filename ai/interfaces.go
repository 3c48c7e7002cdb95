package ai

import "context"

// Extraction is the outcome of the text extraction stage for one file.
type Extraction struct {
	// Text is the extracted plain text of the whole document.
	Text string

	// Confidence is the extractor's confidence in the text, in [0,1].
	Confidence float64

	// PagesCount is the number of pages in the source file.
	PagesCount int

	// Language is the detected language code, or "unknown".
	Language string
}

// Extractor pulls text out of an uploaded file.
// Implementations must be thread-safe for concurrent use.
type Extractor interface {
	// Extract returns the extracted text and extraction metadata for the
	// file at filePath. Returns an error if the source is unreadable or
	// the underlying engine fails.
	Extract(ctx context.Context, filePath string) (*Extraction, error)
}

// Analyzer produces a structured analysis of extracted text.
// Implementations must be thread-safe for concurrent use.
type Analyzer interface {
	// Analyze returns a structured analysis of the text together with a
	// confidence score in [0,1]. The documentType hints at the expected
	// shape of the result; extra carries opaque context (filename, size).
	//
	// Malformed or unparsable model output is NOT an error: implementations
	// degrade to a raw-form result with a lowered confidence. An error is
	// returned only when the underlying service is unreachable or erroring.
	Analyze(ctx context.Context, text, documentType string, extra map[string]any) (map[string]any, float64, error)
}

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// Batch processing is more efficient than calling EmbedText multiple times.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}
