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


// Package search executes ordered, composable filtering over the precomputed
// corpus search text. Filters run sequentially in a fixed priority order so
// results are deterministic and explainable; each stage records its survivor
// count for the trace.
package search

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/symposic/agendaquery/core"
	"github.com/symposic/agendaquery/corpus"
)

// ResultCap bounds the records returned in one result set. Overflow is
// truncated deterministically in corpus order; the true total is retained.
const ResultCap = 500

// defaultMatcherCacheSize bounds the compiled-pattern LRU.
const defaultMatcherCacheSize = 512

// Stage names, in the fixed order they can run.
const (
	StagePrefilter    = "prefilter"
	StageIdentifier   = "identifier"
	StageTemporal     = "temporal"
	StageDrugs        = "drugs"
	StageInstitutions = "institutions"
	StageFreeText     = "freetext"
)

// StageCount records how many records survived one filter stage.
type StageCount struct {
	Stage     string
	Survivors int
}

// NameCount is one bucket of an aggregate histogram.
type NameCount struct {
	Name  string
	Count int
}

// Prefilter carries structural filters established independently of the
// query text (UI scope controls).
type Prefilter struct {
	Themes       []string
	SessionTypes []string
	Temporal     *core.TemporalFilter
}

func (p *Prefilter) empty() bool {
	return p == nil || (len(p.Themes) == 0 && len(p.SessionTypes) == 0 && p.Temporal == nil)
}

// Result is the outcome of one search: the ordered surviving records, the
// per-stage trace, and summary statistics for narration.
type Result struct {
	Records   []core.IndexedRecord // At most ResultCap, in corpus order
	Total     int                  // True survivor count before truncation
	Truncated bool
	Stages    []StageCount
	Combine   core.CombineMode

	SessionCounts   map[string]int
	TopAffiliations []NameCount
}

// Engine is the multi-field search engine. It is stateless per request and
// safe for concurrent use against shared read-only snapshots.
type Engine struct {
	patterns *PatternBuilder
	logger   *slog.Logger
	topN     int
}

// Option configures an Engine.
type Option func(*Engine) error

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// WithTopAffiliations sets how many institutions the summary keeps.
// Default is 5.
func WithTopAffiliations(n int) Option {
	return func(e *Engine) error {
		if n < 1 {
			n = 1
		}
		e.topN = n
		return nil
	}
}

// NewEngine creates a search engine with a shared matcher cache.
func NewEngine(opts ...Option) (*Engine, error) {
	patterns, err := NewPatternBuilder(defaultMatcherCacheSize)
	if err != nil {
		return nil, err
	}
	e := &Engine{
		patterns: patterns,
		logger:   slog.Default(),
		topN:     5,
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// Search applies the resolved query to the snapshot. Stages run in fixed
// order: structural prefilters, exact identifiers, temporal filter, drug
// entities, institution entities, free text. Target-field-only queries
// short-circuit after the identifier/temporal stages.
//
// A request either fully completes a stage or fails outright; no partial
// result is ever returned.
func (e *Engine) Search(ctx context.Context, resolved *core.ResolvedQuery, snap *corpus.Snapshot, pre *Prefilter, monitor TraceMonitor) (*Result, error) {
	if resolved == nil {
		return nil, ErrQueryRequired
	}
	if snap == nil {
		return nil, ErrSnapshotRequired
	}
	if resolved.Combine == core.CombineNeedsClarification {
		return nil, ErrUnresolvedCombination
	}
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	monitor.Start(resolved.Query)

	result := &Result{Combine: resolved.Combine}
	mask := make([]bool, snap.Len())
	for i := range mask {
		mask[i] = true
	}

	record := func(stage string) {
		survivors := countTrue(mask)
		result.Stages = append(result.Stages, StageCount{Stage: stage, Survivors: survivors})
		monitor.StageComplete(stage, survivors)
	}

	// 0. Structural prefilters from the UI layer.
	if !pre.empty() {
		e.applyPrefilter(mask, snap, pre)
		record(StagePrefilter)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// 1. Exact-identifier filter.
	if len(resolved.Identifiers) > 0 {
		wanted := make(map[string]bool, len(resolved.Identifiers))
		for _, id := range resolved.Identifiers {
			wanted[strings.ToUpper(id)] = true
		}
		for i := range mask {
			mask[i] = mask[i] && wanted[strings.ToUpper(snap.Records[i].Record.ID)]
		}
		record(StageIdentifier)
	}

	// 2. Temporal filter.
	if resolved.Temporal != nil {
		for i := range mask {
			mask[i] = mask[i] && resolved.Temporal.Contains(snap.Records[i].Record.Date)
		}
		record(StageTemporal)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// 3. Entity filters, one category at a time. Skipped entirely when the
	// query only asks for one attribute of already-identified records.
	targetFieldOnly := resolved.TargetField != core.FieldNone &&
		!resolved.HasEntities() && len(resolved.FreeText) == 0
	if !targetFieldOnly {
		if len(resolved.Drugs) > 0 {
			if err := e.applyEntities(mask, snap, resolved.Drugs, resolved.Combine, drugOpts, StageDrugs, monitor); err != nil {
				return nil, err
			}
			record(StageDrugs)
		}
		if len(resolved.Institutions) > 0 {
			if err := e.applyEntities(mask, snap, resolved.Institutions, resolved.Combine, institutionOpts, StageInstitutions, monitor); err != nil {
				return nil, err
			}
			record(StageInstitutions)
		}
		if len(resolved.FreeText) > 0 {
			// Free-text terms all have to appear; they are leftovers of one
			// phrase, not alternative entities.
			if err := e.applyEntities(mask, snap, resolved.FreeText, core.CombineAnd, freeTextOpts, StageFreeText, monitor); err != nil {
				return nil, err
			}
			record(StageFreeText)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.collect(result, snap, mask)
	monitor.Finish(result)

	e.logger.Debug("search complete",
		"query", resolved.Query,
		"total", result.Total,
		"truncated", result.Truncated,
		"stages", len(result.Stages))

	return result, nil
}

// Pattern policies per category. Drug names take optional productized
// dash-suffixes; acronym-ish tokens take optional plurals. All use strict
// boundaries so short tokens never match inside longer codes.
var (
	drugOpts        = PatternOpts{Boundary: BoundaryStrict, AllowSuffix: true, AllowPlural: true}
	institutionOpts = PatternOpts{Boundary: BoundaryStrict, AllowSuffix: false, AllowPlural: false}
	freeTextOpts    = PatternOpts{Boundary: BoundaryStrict, AllowSuffix: false, AllowPlural: true}
)

// applyEntities narrows the mask by one entity category. Per-entity boolean
// masks combine by union (OR) or intersection (AND) within the category;
// the category result always intersects with the running mask.
func (e *Engine) applyEntities(mask []bool, snap *corpus.Snapshot, entities []string, mode core.CombineMode, opts PatternOpts, category string, monitor TraceMonitor) error {
	combined := make([]bool, len(mask))
	if mode == core.CombineAnd {
		for i := range combined {
			combined[i] = true
		}
	}

	for _, entity := range entities {
		re, err := e.patterns.Build(entity, opts)
		if err != nil {
			return err
		}
		hits := 0
		for i := range combined {
			matched := re.MatchString(snap.Records[i].SearchText.Normalized)
			if matched {
				hits++
			}
			if mode == core.CombineAnd {
				combined[i] = combined[i] && matched
			} else {
				combined[i] = combined[i] || matched
			}
		}
		monitor.EntityMatched(category, entity, hits)
	}

	for i := range mask {
		mask[i] = mask[i] && combined[i]
	}
	return nil
}

func (e *Engine) applyPrefilter(mask []bool, snap *corpus.Snapshot, pre *Prefilter) {
	themes := lowerSet(pre.Themes)
	sessions := lowerSet(pre.SessionTypes)
	for i := range mask {
		if !mask[i] {
			continue
		}
		rec := &snap.Records[i].Record
		if len(themes) > 0 && !themes[strings.ToLower(rec.Theme)] {
			mask[i] = false
			continue
		}
		if len(sessions) > 0 && !sessions[strings.ToLower(rec.Session)] {
			mask[i] = false
			continue
		}
		if pre.Temporal != nil && !pre.Temporal.Contains(rec.Date) {
			mask[i] = false
		}
	}
}

// collect gathers survivors in corpus order, truncates at ResultCap, and
// computes the summary histograms over the full survivor set.
func (e *Engine) collect(result *Result, snap *corpus.Snapshot, mask []bool) {
	result.SessionCounts = make(map[string]int)
	affiliations := make(map[string]int)

	for i := range mask {
		if !mask[i] {
			continue
		}
		result.Total++
		rec := &snap.Records[i].Record
		if rec.Session != "" {
			result.SessionCounts[rec.Session]++
		}
		if rec.Affiliation != "" {
			affiliations[rec.Affiliation]++
		}
		if len(result.Records) < ResultCap {
			result.Records = append(result.Records, snap.Records[i])
		}
	}
	result.Truncated = result.Total > len(result.Records)

	result.TopAffiliations = topCounts(affiliations, e.topN)
}

// topCounts ranks buckets by count descending, breaking ties alphabetically
// so the output is deterministic.
func topCounts(counts map[string]int, n int) []NameCount {
	ranked := make([]NameCount, 0, len(counts))
	for name, count := range counts {
		ranked = append(ranked, NameCount{Name: name, Count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Name < ranked[j].Name
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

func lowerSet(values []string) map[string]bool {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[strings.ToLower(strings.TrimSpace(v))] = true
	}
	return set
}

func countTrue(mask []bool) int {
	n := 0
	for _, b := range mask {
		if b {
			n++
		}
	}
	return n
}
