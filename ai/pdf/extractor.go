package pdf

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/lexidocs/docflow/ai"
)

// ErrNoText is returned when a PDF contains no extractable text layer,
// for example a pure scan without OCR.
var ErrNoText = errors.New("pdf has no extractable text")

// englishStopwords are common English function words used for naive
// language detection over the extracted text.
var englishStopwords = []string{" the ", " and ", " of ", " to ", " in ", " is ", " for "}

// Extractor implements ai.Extractor for PDF files with a native text layer.
type Extractor struct {
	logger *slog.Logger
}

// newExtractor is an internal constructor that returns the concrete type.
func newExtractor() *Extractor {
	return &Extractor{
		logger: slog.Default().With("component", "pdf-extractor"),
	}
}

// NewExtractor creates an extractor for PDFs with native text layers.
//
// Returns ai.Extractor interface to enforce abstraction.
func NewExtractor() ai.Extractor {
	return newExtractor()
}

// Extract reads the text layer of every page in the PDF at filePath.
// Confidence is the fraction of pages that yielded text. Files where no
// page yields text return ErrNoText.
func (e *Extractor) Extract(ctx context.Context, filePath string) (*ai.Extraction, error) {
	f, reader, err := pdf.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", filePath, err)
	}
	defer f.Close()

	totalPages := reader.NumPage()
	extractedPages := 0
	var builder strings.Builder

	for i := 1; i <= totalPages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			e.logger.Warn("failed to read page text", "file", filePath, "page", i, "err", err)
			continue
		}

		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		if builder.Len() > 0 {
			builder.WriteString("\n\n")
		}
		builder.WriteString(text)
		extractedPages++
	}

	if builder.Len() == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoText, filePath)
	}

	extracted := builder.String()
	confidence := float64(extractedPages) / float64(totalPages)

	e.logger.Debug("extracted pdf text",
		"file", filePath,
		"pages", totalPages,
		"pages_with_text", extractedPages,
		"chars", len(extracted))

	return &ai.Extraction{
		Text:       extracted,
		Confidence: confidence,
		PagesCount: totalPages,
		Language:   detectLanguage(extracted),
	}, nil
}

// detectLanguage guesses the text language from stopword frequency.
// Only English is recognized; everything else reports "unknown".
func detectLanguage(text string) string {
	lower := " " + strings.ToLower(text) + " "
	hits := 0
	for _, word := range englishStopwords {
		hits += strings.Count(lower, word)
	}
	// A handful of hits across a whole document is enough signal.
	if hits >= 3 {
		return "en"
	}
	return "unknown"
}
