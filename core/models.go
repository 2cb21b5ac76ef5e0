package core

import (
	"encoding/binary"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier derived from content.
// It is used for corpus versions and narration cache keys.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// Identical content always produces the same ID.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Record represents a single conference presentation.
// Records are immutable after corpus load.
type Record struct {
	ID          string // Abstract/presentation identifier, unique within the corpus
	Title       string
	Speakers    []string
	Affiliation string    // Presenter affiliation or session location
	Session     string    // Session label, e.g. "Oral Abstract Session"
	Date        time.Time // Zero value means no date on record
	Time        string    // Scheduled time as printed in the program
	Theme       string    // Free-text theme/track label
}

// SearchText is the precomputed matching substrate for one record.
// Raw joins all textual fields with a separator; Normalized is the
// case-folded, whitespace-collapsed copy patterns run against.
type SearchText struct {
	Raw        string
	Normalized string
}

// IndexedRecord pairs a record with its precomputed search text.
type IndexedRecord struct {
	Record     Record
	SearchText SearchText
}

// CombineMode is the combination-logic verdict for multiple entities
// of the same category in one query.
type CombineMode int

const (
	// CombineOr matches records containing any resolved entity.
	// This is the default and is always stated in output assumptions.
	CombineOr CombineMode = iota + 1
	// CombineAnd matches only records containing every resolved entity.
	CombineAnd
	// CombineNeedsClarification means the query joined entities with a bare
	// conjunction and the caller must be asked before searching.
	CombineNeedsClarification
)

func (m CombineMode) String() string {
	switch m {
	case CombineOr:
		return "OR"
	case CombineAnd:
		return "AND"
	case CombineNeedsClarification:
		return "NEEDS_CLARIFICATION"
	default:
		return "UNKNOWN"
	}
}

// Intent classifies what the user wants back.
type Intent int

const (
	// IntentFactualLookup wants one attribute of one or few records.
	IntentFactualLookup Intent = iota + 1
	// IntentList wants the matching record set.
	IntentList
	// IntentSynthesis wants cross-record analysis and requires narration.
	IntentSynthesis
	// IntentComparison contrasts two or more entity groups explicitly.
	IntentComparison
)

func (i Intent) String() string {
	switch i {
	case IntentFactualLookup:
		return "FACTUAL_LOOKUP"
	case IntentList:
		return "LIST"
	case IntentSynthesis:
		return "SYNTHESIS"
	case IntentComparison:
		return "COMPARISON"
	default:
		return "UNKNOWN"
	}
}

// Verbosity hints how much the narration layer should say.
type Verbosity int

const (
	VerbosityMinimal Verbosity = iota + 1
	VerbosityQuick
	VerbosityDetailed
)

func (v Verbosity) String() string {
	switch v {
	case VerbosityMinimal:
		return "minimal"
	case VerbosityQuick:
		return "quick"
	case VerbosityDetailed:
		return "detailed"
	default:
		return "unknown"
	}
}

// Field names a single record attribute a query asks for directly.
type Field int

const (
	FieldNone Field = iota
	FieldTitle
	FieldSpeakers
	FieldLocation
	FieldSession
	FieldDate
	FieldTime
	FieldTheme
)

func (f Field) String() string {
	switch f {
	case FieldTitle:
		return "title"
	case FieldSpeakers:
		return "speakers"
	case FieldLocation:
		return "location"
	case FieldSession:
		return "session"
	case FieldDate:
		return "date"
	case FieldTime:
		return "time"
	case FieldTheme:
		return "theme"
	default:
		return ""
	}
}

// TemporalFilter restricts matching to a single day or an inclusive range.
// A single date is represented as From == To.
type TemporalFilter struct {
	From time.Time
	To   time.Time
}

// Day truncates a timestamp to its calendar day in UTC.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Contains reports whether day falls inside the filter.
// Records without a date never match a temporal filter.
func (t *TemporalFilter) Contains(day time.Time) bool {
	if day.IsZero() {
		return false
	}
	d := Day(day)
	return !d.Before(Day(t.From)) && !d.After(Day(t.To))
}

// EntityMatch records which query phrase resolved to which canonical form,
// so downstream output can state the substitution that was made.
type EntityMatch struct {
	Phrase    string // Literal phrase from the query
	Canonical string // Canonical name substituted for it
	Category  string // "drug", "institution", or "category"
}

// ResolvedQuery is the structured interpretation of one free-text query.
// It is produced per request, by the deterministic resolver or by an LLM
// keyword extractor, and never persisted.
type ResolvedQuery struct {
	Query        string      // Original query text
	Drugs        []string    // Canonical drug-like entities
	Institutions []string    // Canonical institution/geography entities
	Identifiers  []string    // Record identifiers named verbatim in the query
	FreeText     []string    // Unresolved tokens degraded to free-text terms
	Matches      []EntityMatch // Phrase -> canonical substitutions made
	Combine      CombineMode   // Intra-category combination verdict
	CombineHits  []string      // Literal tokens that triggered the verdict
	Temporal     *TemporalFilter
	TargetField  Field
	Intent       Intent
	Verbosity    Verbosity
}

// HasEntities reports whether any dictionary-resolved entities are present.
func (q *ResolvedQuery) HasEntities() bool {
	return len(q.Drugs) > 0 || len(q.Institutions) > 0
}

// CachedReport is a narration completion cached against a specific
// corpus version and canonical query text.
type CachedReport struct {
	Key           ID // ReportKey of corpus version + canonical query
	CorpusVersion ID
	Query         string
	Narration     string
	CreatedAt     time.Time
}

// ReportKey derives the cache key for a narration report.
func ReportKey(corpusVersion ID, query string) ID {
	var b strings.Builder
	b.WriteString(strings.ToLower(strings.TrimSpace(query)))
	b.WriteString("@")
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, uint64(corpusVersion))
	b.Write(buf)
	return IDFromContent(b.String())
}
