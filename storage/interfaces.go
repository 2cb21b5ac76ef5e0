package storage

import (
	"context"

	"github.com/symposic/agendaquery/core"
)

// ReportCache provides persistence for narrated query reports.
// Implementations must be thread-safe and support concurrent access.
//
// Reports are keyed by core.ReportKey, which binds the cache entry to both
// the query text and the corpus version it was answered against. A corpus
// reload therefore invalidates old entries implicitly; PurgeCorpus exists
// so callers can reclaim the space eagerly.
type ReportCache interface {
	// GetReport retrieves a cached report by key.
	// Returns ErrNotFound if no entry exists for the key.
	GetReport(ctx context.Context, key core.ID) (*core.CachedReport, error)

	// PutReport stores a report, overwriting any existing entry for its key.
	// Sets CreatedAt if not already set.
	PutReport(ctx context.Context, report *core.CachedReport) error

	// PurgeCorpus removes all cached reports for a corpus version.
	// Returns the number of entries removed.
	PurgeCorpus(ctx context.Context, corpusVersion core.ID) (int, error)

	// Close closes the storage backend and releases resources.
	Close() error
}
