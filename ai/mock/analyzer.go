package mock

import "context"

// MockAnalyzer is a test double for ai.Analyzer.
// It allows custom behavior injection via function fields.
type MockAnalyzer struct {
	// AnalyzeFunc is called by Analyze if set.
	// If nil, uses default canned behavior.
	AnalyzeFunc func(ctx context.Context, text, documentType string, extra map[string]any) (map[string]any, float64, error)

	callCount int
}

// NewMockAnalyzer creates a mock analyzer with default canned behavior.
// Returns the concrete type to allow test assertions.
func NewMockAnalyzer() *MockAnalyzer {
	return &MockAnalyzer{}
}

// Analyze returns a canned analysis unless AnalyzeFunc is set.
func (m *MockAnalyzer) Analyze(ctx context.Context, text, documentType string, extra map[string]any) (map[string]any, float64, error) {
	m.callCount++

	if m.AnalyzeFunc != nil {
		return m.AnalyzeFunc(ctx, text, documentType, extra)
	}

	return map[string]any{
		"document_type": documentType,
		"summary":       "mock analysis summary",
	}, 0.9, nil
}

// CallCount returns the number of times Analyze was called.
func (m *MockAnalyzer) CallCount() int {
	return m.callCount
}

// Reset clears the call count and injected behavior.
func (m *MockAnalyzer) Reset() {
	m.callCount = 0
	m.AnalyzeFunc = nil
}
