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


// Package query classifies what a resolved query wants back: the intent,
// an optional single target field, a temporal filter, and a hint for how
// verbose the narration should be.
package query

import (
	"log/slog"
	"strings"
	"time"

	"github.com/symposic/agendaquery/core"
)

// Analysis is the query-intelligence verdict for one request.
type Analysis struct {
	Intent            core.Intent
	Verbosity         core.Verbosity
	TargetField       core.Field
	Temporal          *core.TemporalFilter
	RequiresNarration bool
}

// Intelligence classifies queries. It is stateless and safe for concurrent use.
type Intelligence struct {
	logger *slog.Logger
}

// Option configures an Intelligence.
type Option func(*Intelligence)

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(i *Intelligence) {
		if logger == nil {
			logger = slog.Default()
		}
		i.logger = logger
	}
}

// NewIntelligence creates a query classifier.
func NewIntelligence(opts ...Option) *Intelligence {
	i := &Intelligence{logger: slog.Default()}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

var comparisonKeywords = map[string]bool{
	"vs": true, "versus": true, "compare": true, "compared": true,
	"difference": true, "differences": true, "better": true,
}

var synthesisKeywords = map[string]bool{
	"summarize": true, "summary": true, "synthesize": true, "overview": true,
	"trend": true, "trends": true, "takeaways": true, "landscape": true,
	"insights": true, "analysis": true, "analyze": true, "across": true,
	"count": true, "total": true, "breakdown": true,
}

// Classify derives intent, verbosity, target field, and temporal filter for
// one query. The reference date anchors relative expressions like "today".
func (i *Intelligence) Classify(queryText string, resolved *core.ResolvedQuery, ref time.Time) Analysis {
	a := Analysis{
		Temporal:    ParseTemporal(queryText, ref),
		TargetField: TargetField(queryText),
	}

	tokens := strings.Fields(strings.ToLower(queryText))
	hasComparison := false
	hasSynthesis := false
	for _, tok := range tokens {
		tok = strings.Trim(tok, ".,?!")
		if comparisonKeywords[tok] {
			hasComparison = true
		}
		if synthesisKeywords[tok] {
			hasSynthesis = true
		}
	}
	if strings.Contains(strings.ToLower(queryText), "how many") {
		hasSynthesis = true
	}

	switch {
	case hasComparison && resolved != nil && (len(resolved.Drugs) >= 2 || len(resolved.Institutions) >= 2):
		a.Intent = core.IntentComparison
	case hasSynthesis:
		a.Intent = core.IntentSynthesis
	case a.TargetField != core.FieldNone:
		a.Intent = core.IntentFactualLookup
	case resolved != nil && len(resolved.Identifiers) > 0 && !resolved.HasEntities() && len(resolved.FreeText) == 0:
		// Naming an abstract by identifier with nothing else is a lookup.
		a.Intent = core.IntentFactualLookup
	default:
		a.Intent = core.IntentList
	}

	switch a.Intent {
	case core.IntentFactualLookup:
		a.Verbosity = core.VerbosityMinimal
		a.RequiresNarration = false
	case core.IntentList:
		a.Verbosity = core.VerbosityQuick
		a.RequiresNarration = false
	default:
		a.Verbosity = core.VerbosityDetailed
		a.RequiresNarration = true
	}

	i.logger.Debug("query classified",
		"intent", a.Intent.String(),
		"verbosity", a.Verbosity.String(),
		"targetField", a.TargetField.String(),
		"temporal", a.Temporal != nil)

	return a
}
