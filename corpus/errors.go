package corpus

import "errors"

var (
	// ErrCorpusUnavailable indicates no corpus has been loaded yet.
	// Fatal for the current request only; the caller should retry after load.
	ErrCorpusUnavailable = errors.New("corpus unavailable")

	// ErrDuplicateRecordID indicates two records share an identifier.
	ErrDuplicateRecordID = errors.New("duplicate record id")

	// ErrMissingHeader indicates a CSV file without a recognizable header row.
	ErrMissingHeader = errors.New("missing csv header")
)
