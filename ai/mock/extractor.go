package mock

import (
	"context"

	"github.com/lexidocs/docflow/ai"
)

// MockExtractor is a test double for ai.Extractor.
// It allows custom behavior injection via function fields.
type MockExtractor struct {
	// ExtractFunc is called by Extract if set.
	// If nil, uses default canned behavior.
	ExtractFunc func(ctx context.Context, filePath string) (*ai.Extraction, error)

	callCount int
}

// NewMockExtractor creates a mock extractor with default canned behavior.
// Returns the concrete type to allow test assertions.
func NewMockExtractor() *MockExtractor {
	return &MockExtractor{}
}

// Extract returns a canned single-page extraction unless ExtractFunc is set.
func (m *MockExtractor) Extract(ctx context.Context, filePath string) (*ai.Extraction, error) {
	m.callCount++

	if m.ExtractFunc != nil {
		return m.ExtractFunc(ctx, filePath)
	}

	return &ai.Extraction{
		Text:       "mock extracted text from " + filePath,
		Confidence: 1.0,
		PagesCount: 1,
		Language:   "en",
	}, nil
}

// CallCount returns the number of times Extract was called.
func (m *MockExtractor) CallCount() int {
	return m.callCount
}

// Reset clears the call count and injected behavior.
func (m *MockExtractor) Reset() {
	m.callCount = 0
	m.ExtractFunc = nil
}
