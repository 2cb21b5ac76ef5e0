package mock

import (
	"context"
	"strings"

	"github.com/symposic/agendaquery/core"
)

// MockKeywordExtractor is a test double for ai.KeywordExtractor.
// It allows custom behavior injection via function fields.
type MockKeywordExtractor struct {
	// ExtractQueryFunc is called by ExtractQuery if set.
	// If nil, uses default simple word extraction.
	ExtractQueryFunc func(ctx context.Context, queryText string) (*core.ResolvedQuery, error)

	callCount int
}

// NewMockKeywordExtractor creates a mock extractor with default behavior.
// Note: Returns concrete type to allow test assertions via GetMockExtractor().
func NewMockKeywordExtractor() *MockKeywordExtractor {
	return &MockKeywordExtractor{}
}

// ExtractQuery produces a minimal resolved query from the text.
// Default behavior: every lowercased word becomes a free-text term and the
// combination verdict defaults to OR.
func (m *MockKeywordExtractor) ExtractQuery(ctx context.Context, queryText string) (*core.ResolvedQuery, error) {
	m.callCount++

	if m.ExtractQueryFunc != nil {
		return m.ExtractQueryFunc(ctx, queryText)
	}

	resolved := &core.ResolvedQuery{
		Query:   queryText,
		Combine: core.CombineOr,
	}
	for _, word := range strings.Fields(strings.ToLower(queryText)) {
		word = strings.Trim(word, ".,!?;:\"'()[]{}")
		if word == "" {
			continue
		}
		resolved.FreeText = append(resolved.FreeText, word)
	}
	return resolved, nil
}

// CallCount returns the number of times ExtractQuery was called.
func (m *MockKeywordExtractor) CallCount() int {
	return m.callCount
}

// Reset clears the call count and custom functions.
func (m *MockKeywordExtractor) Reset() {
	m.callCount = 0
	m.ExtractQueryFunc = nil
}
