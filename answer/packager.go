// Copyright 2025 Symposic Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package answer turns a search result into the response shape the caller
// consumes: a direct attribute answer for factual lookups, or the record
// list plus a statement of every assumption made along the way.
package answer

import (
	"fmt"
	"strings"

	"github.com/symposic/agendaquery/core"
	"github.com/symposic/agendaquery/search"
)

// PackagedResponse is the final, serializable output of one query.
type PackagedResponse struct {
	Intent core.Intent

	// Answer holds the target field's values for factual lookups;
	// empty for other intents.
	Answer []string

	// Records is the flat attribute-map list for non-factual intents,
	// truncated per the search result.
	Records []map[string]string

	// Assumptions states every interpretation decision the pipeline made.
	Assumptions []string

	Total     int
	Truncated bool
	Stages    []search.StageCount

	SessionCounts   map[string]int
	TopAffiliations []search.NameCount
}

// Package builds the response for one completed search.
func Package(result *search.Result, resolved *core.ResolvedQuery) *PackagedResponse {
	resp := &PackagedResponse{
		Intent:          resolved.Intent,
		Assumptions:     assumptions(result, resolved),
		Total:           result.Total,
		Truncated:       result.Truncated,
		Stages:          result.Stages,
		SessionCounts:   result.SessionCounts,
		TopAffiliations: result.TopAffiliations,
	}

	if resolved.Intent == core.IntentFactualLookup && resolved.TargetField != core.FieldNone {
		resp.Answer = fieldValues(result.Records, resolved.TargetField)
		return resp
	}

	resp.Records = make([]map[string]string, 0, len(result.Records))
	for i := range result.Records {
		resp.Records = append(resp.Records, recordAttributes(&result.Records[i].Record))
	}
	return resp
}

// fieldValues extracts the target attribute from each record, deduplicated
// in corpus order.
func fieldValues(records []core.IndexedRecord, field core.Field) []string {
	seen := make(map[string]bool)
	var values []string
	for i := range records {
		v := fieldValue(&records[i].Record, field)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		values = append(values, v)
	}
	return values
}

func fieldValue(rec *core.Record, field core.Field) string {
	switch field {
	case core.FieldTitle:
		return rec.Title
	case core.FieldSpeakers:
		return strings.Join(rec.Speakers, "; ")
	case core.FieldLocation:
		return rec.Affiliation
	case core.FieldSession:
		return rec.Session
	case core.FieldDate:
		if rec.Date.IsZero() {
			return ""
		}
		return rec.Date.Format("2006-01-02")
	case core.FieldTime:
		return rec.Time
	case core.FieldTheme:
		return rec.Theme
	default:
		return ""
	}
}

func recordAttributes(rec *core.Record) map[string]string {
	return map[string]string{
		"id":          rec.ID,
		"title":       rec.Title,
		"speakers":    strings.Join(rec.Speakers, "; "),
		"affiliation": rec.Affiliation,
		"session":     rec.Session,
		"date":        fieldValue(rec, core.FieldDate),
		"time":        rec.Time,
		"theme":       rec.Theme,
	}
}

// assumptions states which combination logic ran, which temporal filter
// applied, which phrases resolved to which canonical forms, and whether the
// result was truncated. Zero-result queries keep the block intact so the
// caller can explain why nothing matched.
func assumptions(result *search.Result, resolved *core.ResolvedQuery) []string {
	var out []string

	if resolved.HasEntities() {
		switch result.Combine {
		case core.CombineAnd:
			out = append(out, fmt.Sprintf("entities combined with AND (triggered by %q)",
				strings.Join(resolved.CombineHits, ", ")))
		default:
			if len(resolved.CombineHits) > 0 {
				out = append(out, fmt.Sprintf("entities combined with OR (triggered by %q)",
					strings.Join(resolved.CombineHits, ", ")))
			} else {
				out = append(out, "entities combined with OR (default: no combination marker in query)")
			}
		}
	}

	for _, m := range resolved.Matches {
		out = append(out, fmt.Sprintf("%s %q interpreted as %q", m.Category, m.Phrase, m.Canonical))
	}

	if resolved.Temporal != nil {
		from := resolved.Temporal.From.Format("2006-01-02")
		to := resolved.Temporal.To.Format("2006-01-02")
		if from == to {
			out = append(out, fmt.Sprintf("restricted to %s", from))
		} else {
			out = append(out, fmt.Sprintf("restricted to %s through %s", from, to))
		}
	}

	if len(resolved.FreeText) > 0 {
		out = append(out, fmt.Sprintf("free-text terms (all required): %s",
			strings.Join(resolved.FreeText, ", ")))
	}

	if result.Truncated {
		out = append(out, fmt.Sprintf("result truncated to %d of %d records",
			len(result.Records), result.Total))
	}

	return out
}
