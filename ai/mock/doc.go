// Package mock provides test double implementations of AI service interfaces.
//
// This package contains mock implementations of ai.KeywordExtractor,
// ai.Narrator, and ai.AIProvider for use in unit tests. The mocks allow tests
// to run without external AI service dependencies and enable controlled,
// deterministic behavior.
//
// # Usage in Tests
//
//	// Basic usage with default behavior
//	mockProvider := mock.NewMockProvider()
//	resolved, err := mockProvider.KeywordExtractor().ExtractQuery(ctx, "sessions about osimertinib")
//
//	// Custom behavior injection
//	mockNarrator := mock.NewMockNarrator()
//	mockNarrator.NarrateFunc = func(ctx context.Context, payload string, verbosity core.Verbosity) (string, error) {
//	    return "canned narration", nil
//	}
//
//	// Check call counts
//	count := mockNarrator.CallCount()
//
// # Default Behavior
//
// The mock implementations provide sensible defaults:
//
//   - MockKeywordExtractor: Lowercases the query words into free-text terms
//   - MockNarrator: Echoes the first line of the payload
//   - MockProvider: Aggregates mock extractor and narrator
package mock
