package ai

import (
	"context"

	"github.com/symposic/agendaquery/core"
)

// KeywordExtractor interprets unstructured query phrasing into the same
// ResolvedQuery shape the deterministic resolver produces, so the rest of
// the pipeline is agnostic to where entities came from.
// Implementations must be thread-safe for concurrent use.
type KeywordExtractor interface {
	// ExtractQuery analyzes free-form query text and returns candidate
	// entities, dates, and field requests in ResolvedQuery shape.
	// Returns an error if extraction fails; callers fall back to the
	// deterministic resolver.
	ExtractQuery(ctx context.Context, queryText string) (*core.ResolvedQuery, error)
}

// Narrator turns a finalized search payload into prose for the UI layer.
// The narration text is passed through unmodified; this core never inspects
// or post-processes it. Implementations must be thread-safe.
type Narrator interface {
	// Narrate generates a natural-language summary of the payload.
	// The verbosity hint controls how much the narration says.
	Narrate(ctx context.Context, payload string, verbosity core.Verbosity) (string, error)
}

// AIProvider aggregates the LLM-backed services for convenient
// initialization and lifecycle management.
type AIProvider interface {
	// KeywordExtractor returns the query interpretation service.
	// The returned KeywordExtractor is safe for concurrent use.
	KeywordExtractor() KeywordExtractor

	// Narrator returns the narration service.
	// The returned Narrator is safe for concurrent use.
	Narrator() Narrator

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
