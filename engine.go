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


package agendaquery

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/symposic/agendaquery/ai"
	"github.com/symposic/agendaquery/answer"
	"github.com/symposic/agendaquery/core"
	"github.com/symposic/agendaquery/corpus"
	"github.com/symposic/agendaquery/dictionary"
	"github.com/symposic/agendaquery/query"
	"github.com/symposic/agendaquery/resolve"
	"github.com/symposic/agendaquery/search"
	"github.com/symposic/agendaquery/storage"
)

// ErrEmptyQuery is returned when a request carries no query text.
var ErrEmptyQuery = errors.New("query text is required")

// Engine wires the resolver, query intelligence, corpus store, search
// engine, and answer packager behind one entry point. The AI provider and
// the narration report cache are optional collaborators.
type Engine struct {
	dict         *dictionary.Dictionary
	resolver     *resolve.Resolver
	intelligence *query.Intelligence
	store        *corpus.Store
	searcher     *search.Engine
	provider     ai.AIProvider
	cache        storage.ReportCache
	logger       *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	dict     *dictionary.Dictionary
	provider ai.AIProvider
	cache    storage.ReportCache
	logger   *slog.Logger
}

// WithDictionary sets a custom entity dictionary. Default is the embedded one.
func WithDictionary(dict *dictionary.Dictionary) EngineOption {
	return func(o *engineOptions) {
		o.dict = dict
	}
}

// WithAIProvider attaches an AI provider for keyword extraction and
// narration. Without one, Ask serves packaged results only.
func WithAIProvider(provider ai.AIProvider) EngineOption {
	return func(o *engineOptions) {
		o.provider = provider
	}
}

// WithReportCache attaches a persistent cache for narration reports.
func WithReportCache(cache storage.ReportCache) EngineOption {
	return func(o *engineOptions) {
		o.cache = cache
	}
}

// WithEngineLogger sets a custom logger. Default is slog.Default().
func WithEngineLogger(logger *slog.Logger) EngineOption {
	return func(o *engineOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// NewEngine creates an engine over an empty corpus. Load records with
// LoadCorpus or LoadCorpusCSV before asking queries.
func NewEngine(opts ...EngineOption) (*Engine, error) {
	options := &engineOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(options)
	}

	dict := options.dict
	if dict == nil {
		var err error
		dict, err = dictionary.Default()
		if err != nil {
			return nil, err
		}
	}

	resolver, err := resolve.NewResolver(dict, resolve.WithLogger(options.logger))
	if err != nil {
		return nil, err
	}

	store, err := corpus.NewStore(corpus.WithLogger(options.logger))
	if err != nil {
		return nil, err
	}

	searcher, err := search.NewEngine(search.WithLogger(options.logger))
	if err != nil {
		store.Release()
		return nil, err
	}

	return &Engine{
		dict:         dict,
		resolver:     resolver,
		intelligence: query.NewIntelligence(query.WithLogger(options.logger)),
		store:        store,
		searcher:     searcher,
		provider:     options.provider,
		cache:        options.cache,
		logger:       options.logger,
	}, nil
}

// Close releases the engine's resources. Every collaborator is closed even
// when an earlier one fails; the failures are joined.
func (e *Engine) Close() error {
	var errs []error
	if e.provider != nil {
		if err := e.provider.Close(); err != nil {
			e.logger.Error("error closing AI provider", "err", err)
			errs = append(errs, err)
		}
	}
	if e.cache != nil {
		if err := e.cache.Close(); err != nil {
			e.logger.Error("error closing report cache", "err", err)
			errs = append(errs, err)
		}
	}
	e.store.Release()
	return errors.Join(errs...)
}

// LoadCorpus replaces the active corpus with the given records.
// In-flight queries keep the snapshot they started with.
func (e *Engine) LoadCorpus(ctx context.Context, records []core.Record) error {
	_, err := e.store.Load(ctx, records)
	return err
}

// LoadCorpusCSV reads records from CSV and loads them as the active corpus.
// Returns the number of records loaded.
func (e *Engine) LoadCorpusCSV(ctx context.Context, r io.Reader) (int, error) {
	records, err := corpus.ReadRecords(r)
	if err != nil {
		return 0, err
	}
	if err := e.LoadCorpus(ctx, records); err != nil {
		return 0, err
	}
	return len(records), nil
}

// CorpusVersion returns the content-derived version of the active corpus.
func (e *Engine) CorpusVersion() (core.ID, error) {
	snap, err := e.store.Snapshot()
	if err != nil {
		return 0, err
	}
	return snap.Version, nil
}

// Request is one query against the active corpus.
type Request struct {
	// Query is the raw query text. Required.
	Query string

	// ReferenceDate anchors relative expressions like "today".
	// Zero value means time.Now().
	ReferenceDate time.Time

	// Prefilter carries structural scope filters established by the caller
	// independently of the query text.
	Prefilter *search.Prefilter

	// PriorEntities carries entities resolved in earlier turns. A category
	// the current query does not mention inherits them, so follow-ups like
	// "what about at MSK" keep the drugs from the previous question.
	PriorEntities []core.EntityMatch

	// AssumeOrOnAmbiguity answers the clarification gate non-interactively:
	// an ambiguous bare conjunction is read as OR and the assumption is
	// stated in the response instead of a question.
	AssumeOrOnAmbiguity bool

	// UseExtractor routes query interpretation through the AI keyword
	// extractor instead of the deterministic resolver. Requires a provider;
	// extraction failures fall back to the resolver.
	UseExtractor bool

	// Narrate requests an LLM narration even for intents that would not
	// normally get one. Requires a provider.
	Narrate bool

	// Monitor receives trace callbacks during search. Optional.
	Monitor search.TraceMonitor
}

// Response is the outcome of one request. Exactly one of Clarification or
// Packaged is set: a clarification means the query was not executed.
type Response struct {
	RequestID string
	Resolved  *core.ResolvedQuery
	Analysis  query.Analysis

	Clarification *resolve.ClarificationRequest

	Packaged        *answer.PackagedResponse
	Narration       string
	NarrationCached bool
}

// Ask resolves, classifies, searches, and packages one query.
//
// An ambiguous combination returns a Response carrying only the
// clarification request. A missing corpus returns corpus.ErrCorpusUnavailable;
// the caller should load records and retry.
func (e *Engine) Ask(ctx context.Context, req Request) (*Response, error) {
	if req.Query == "" {
		return nil, ErrEmptyQuery
	}
	snap, err := e.store.Snapshot()
	if err != nil {
		return nil, err
	}

	ref := req.ReferenceDate
	if ref.IsZero() {
		ref = time.Now().UTC()
	}

	resp := &Response{RequestID: uuid.NewString()}
	log := e.logger.With("requestId", resp.RequestID)

	resolved := e.resolveRequest(ctx, req, log)
	resp.Resolved = resolved

	if clar := resolve.Gate(resolved); clar != nil {
		if !req.AssumeOrOnAmbiguity {
			log.Info("clarification required", "entities", clar.Entities)
			resp.Clarification = clar
			return resp, nil
		}
		resolved.Combine = core.CombineOr
		log.Debug("ambiguous conjunction assumed OR", "entities", clar.Entities)
	}

	e.mergePriorEntities(resolved, req.PriorEntities)

	analysis := e.intelligence.Classify(req.Query, resolved, ref)
	resp.Analysis = analysis
	resolved.Intent = analysis.Intent
	resolved.Verbosity = analysis.Verbosity
	if resolved.TargetField == core.FieldNone {
		resolved.TargetField = analysis.TargetField
	}
	if resolved.Temporal == nil {
		resolved.Temporal = analysis.Temporal
	}

	result, err := e.searcher.Search(ctx, resolved, snap, req.Prefilter, req.Monitor)
	if err != nil {
		return nil, err
	}
	resp.Packaged = answer.Package(result, resolved)

	if e.provider != nil && (req.Narrate || analysis.RequiresNarration) {
		narration, cached, err := e.narrate(ctx, snap.Version, req.Query, result, resp.Packaged, analysis.Verbosity)
		if err != nil {
			// A narration failure never voids the packaged result.
			log.Warn("narration failed", "err", err)
		} else {
			resp.Narration = narration
			resp.NarrationCached = cached
		}
	}

	return resp, nil
}

// resolveRequest interprets the query text, via the AI extractor when asked
// for and available, otherwise via the deterministic resolver.
func (e *Engine) resolveRequest(ctx context.Context, req Request, log *slog.Logger) *core.ResolvedQuery {
	if req.UseExtractor && e.provider != nil {
		resolved, err := e.provider.KeywordExtractor().ExtractQuery(ctx, req.Query)
		if err == nil && resolved != nil {
			e.canonicalize(resolved)
			return resolved
		}
		log.Warn("keyword extraction failed, using resolver", "err", err)
	}
	return e.resolver.Resolve(req.Query)
}

// canonicalize maps extractor output through the dictionary so both
// interpretation paths feed the search engine the same canonical names.
func (e *Engine) canonicalize(resolved *core.ResolvedQuery) {
	resolved.Drugs = e.canonicalizeList(resolved.Drugs, "drug", resolved)
	resolved.Institutions = e.canonicalizeList(resolved.Institutions, "institution", resolved)
}

func (e *Engine) canonicalizeList(names []string, category string, resolved *core.ResolvedQuery) []string {
	out := names[:0]
	for _, name := range names {
		canonical, ok := e.dict.CanonicalFor(name)
		if !ok {
			out = append(out, name)
			continue
		}
		if canonical != name {
			resolved.Matches = append(resolved.Matches, core.EntityMatch{
				Phrase:    name,
				Canonical: canonical,
				Category:  category,
			})
		}
		out = append(out, canonical)
	}
	return out
}

// mergePriorEntities inherits prior-turn entities for categories the current
// query left empty. Whether a category inherits is decided up front, so every
// prior entity of an empty category carries over, not just the first.
func (e *Engine) mergePriorEntities(resolved *core.ResolvedQuery, prior []core.EntityMatch) {
	inheritDrugs := len(resolved.Drugs) == 0
	inheritInstitutions := len(resolved.Institutions) == 0

	for _, match := range prior {
		switch match.Category {
		case "drug", "category":
			if inheritDrugs {
				resolved.Drugs = append(resolved.Drugs, match.Canonical)
				resolved.Matches = append(resolved.Matches, match)
			}
		case "institution":
			if inheritInstitutions {
				resolved.Institutions = append(resolved.Institutions, match.Canonical)
				resolved.Matches = append(resolved.Matches, match)
			}
		}
	}
}

// narrate returns the narration for the result, serving it from the report
// cache when the same query already ran against this corpus version.
func (e *Engine) narrate(ctx context.Context, corpusVersion core.ID, queryText string, result *search.Result, packaged *answer.PackagedResponse, verbosity core.Verbosity) (string, bool, error) {
	key := core.ReportKey(corpusVersion, queryText)

	if e.cache != nil {
		report, err := e.cache.GetReport(ctx, key)
		if err == nil {
			return report.Narration, true, nil
		}
		if !errors.Is(err, storage.ErrNotFound) {
			e.logger.Warn("report cache read failed", "err", err)
		}
	}

	payload := answer.NarrationPayload(result, packaged)
	narration, err := e.provider.Narrator().Narrate(ctx, payload, verbosity)
	if err != nil {
		return "", false, err
	}

	if e.cache != nil && narration != "" {
		report := &core.CachedReport{
			Key:           key,
			CorpusVersion: corpusVersion,
			Query:         queryText,
			Narration:     narration,
		}
		if err := e.cache.PutReport(ctx, report); err != nil {
			e.logger.Warn("report cache write failed", "err", err)
		}
	}

	return narration, false, nil
}
