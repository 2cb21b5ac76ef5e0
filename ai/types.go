package ai

import (
	"strings"
	"time"

	"github.com/symposic/agendaquery/core"
)

// ExtractedQuery is the wire shape an LLM extractor returns. It converts
// into a core.ResolvedQuery so the pipeline treats extractor output exactly
// like deterministic resolver output.
type ExtractedQuery struct {
	Drugs        []string `json:"drugs"`
	Institutions []string `json:"institutions"`
	Identifiers  []string `json:"identifiers"`
	FreeText     []string `json:"free_text"`
	Combine      string   `json:"combine"`      // "AND", "OR", or "NEEDS_CLARIFICATION"
	Date         string   `json:"date"`         // "YYYY-MM-DD" or empty
	TargetField  string   `json:"target_field"` // field name or empty
}

// ToResolvedQuery converts the wire shape into the pipeline contract.
// Unrecognized combine verdicts fall back to the stated OR default;
// an unparseable date is dropped rather than failing the query.
func (e *ExtractedQuery) ToResolvedQuery(queryText string) *core.ResolvedQuery {
	resolved := &core.ResolvedQuery{
		Query:        queryText,
		Drugs:        lowerAll(e.Drugs),
		Institutions: lowerAll(e.Institutions),
		FreeText:     lowerAll(e.FreeText),
		Combine:      core.CombineOr,
	}
	for _, id := range e.Identifiers {
		if id = strings.ToUpper(strings.TrimSpace(id)); id != "" {
			resolved.Identifiers = append(resolved.Identifiers, id)
		}
	}

	switch strings.ToUpper(strings.TrimSpace(e.Combine)) {
	case "AND":
		resolved.Combine = core.CombineAnd
	case "NEEDS_CLARIFICATION":
		resolved.Combine = core.CombineNeedsClarification
	}

	if e.Date != "" {
		if t, err := time.Parse("2006-01-02", e.Date); err == nil {
			d := core.Day(t)
			resolved.Temporal = &core.TemporalFilter{From: d, To: d}
		}
	}

	switch strings.ToLower(strings.TrimSpace(e.TargetField)) {
	case "title":
		resolved.TargetField = core.FieldTitle
	case "speakers", "speaker":
		resolved.TargetField = core.FieldSpeakers
	case "location", "room", "affiliation":
		resolved.TargetField = core.FieldLocation
	case "session":
		resolved.TargetField = core.FieldSession
	case "date":
		resolved.TargetField = core.FieldDate
	case "time":
		resolved.TargetField = core.FieldTime
	case "theme", "track":
		resolved.TargetField = core.FieldTheme
	}

	return resolved
}

func lowerAll(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.ToLower(strings.TrimSpace(v)); v != "" {
			out = append(out, v)
		}
	}
	return out
}
