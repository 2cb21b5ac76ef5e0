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
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/symposic/agendaquery/ai"
	"github.com/symposic/agendaquery/ai/mock"
	"github.com/symposic/agendaquery/core"
	"github.com/symposic/agendaquery/corpus"
	"github.com/symposic/agendaquery/storage"
	badgerstore "github.com/symposic/agendaquery/storage/badger"
)

func testAgendaRecords() []core.Record {
	oct18 := time.Date(2025, time.October, 18, 0, 0, 0, 0, time.UTC)
	return []core.Record{
		{
			ID:          "OA12.03",
			Title:       "Osimertinib in resected EGFR-mutant NSCLC",
			Speakers:    []string{"R. Vega"},
			Affiliation: "Memorial Sloan Kettering",
			Session:     "Oral",
			Date:        oct18,
			Time:        "14:30",
			Theme:       "Early-Stage NSCLC",
		},
		{
			ID:          "P2.04",
			Title:       "Pembrolizumab plus nivolumab in advanced disease",
			Speakers:    []string{"L. Okafor"},
			Affiliation: "Memorial Sloan Kettering",
			Session:     "Poster",
			Date:        oct18,
			Time:        "10:00",
			Theme:       "Metastatic NSCLC",
		},
		{
			ID:          "P2.05",
			Title:       "Pembrolizumab monotherapy outcomes",
			Affiliation: "MD Anderson",
			Session:     "Poster",
			Date:        oct18.AddDate(0, 0, 1),
			Theme:       "Metastatic NSCLC",
		},
		{
			ID:      "P2.06",
			Title:   "Nivolumab maintenance in SCLC",
			Session: "Poster",
			Date:    oct18.AddDate(0, 0, 1),
			Theme:   "SCLC",
		},
		{
			ID:      "MA7.01",
			Title:   "Chemotherapy control arm follow-up",
			Session: "Mini Oral",
			Date:    oct18,
			Theme:   "Metastatic NSCLC",
		},
	}
}

func newLoadedEngine(t *testing.T, opts ...EngineOption) *Engine {
	t.Helper()
	e, err := NewEngine(opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = e.Close() })
	require.NoError(t, e.LoadCorpus(context.Background(), testAgendaRecords()))
	return e
}

func TestAskGuards(t *testing.T) {
	t.Run("empty query", func(t *testing.T) {
		e := newLoadedEngine(t)
		_, err := e.Ask(context.Background(), Request{})
		assert.ErrorIs(t, err, ErrEmptyQuery)
	})

	t.Run("no corpus loaded", func(t *testing.T) {
		e, err := NewEngine()
		require.NoError(t, err)
		defer e.Close()

		_, err = e.Ask(context.Background(), Request{Query: "pembrolizumab"})
		assert.ErrorIs(t, err, corpus.ErrCorpusUnavailable)

		_, err = e.CorpusVersion()
		assert.ErrorIs(t, err, corpus.ErrCorpusUnavailable)
	})
}

func TestAskFactualLookup(t *testing.T) {
	e := newLoadedEngine(t)

	resp, err := e.Ask(context.Background(), Request{Query: "what time is OA12.03"})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.RequestID)
	assert.Nil(t, resp.Clarification)
	require.NotNil(t, resp.Packaged)
	assert.Equal(t, core.IntentFactualLookup, resp.Packaged.Intent)
	assert.Equal(t, []string{"14:30"}, resp.Packaged.Answer)
	assert.Equal(t, core.VerbosityMinimal, resp.Resolved.Verbosity)
}

func TestAskClarificationGate(t *testing.T) {
	ctx := context.Background()

	t.Run("bare conjunction stops the pipeline", func(t *testing.T) {
		e := newLoadedEngine(t)
		resp, err := e.Ask(ctx, Request{Query: "pembrolizumab and nivolumab"})
		require.NoError(t, err)

		require.NotNil(t, resp.Clarification)
		assert.Nil(t, resp.Packaged, "a clarification means the query was not executed")
		assert.Contains(t, resp.Clarification.Entities, "pembrolizumab")
		assert.Contains(t, resp.Clarification.Entities, "nivolumab")
		assert.Len(t, resp.Clarification.Options, 2)
	})

	t.Run("assume OR proceeds and states the assumption", func(t *testing.T) {
		e := newLoadedEngine(t)
		resp, err := e.Ask(ctx, Request{
			Query:               "pembrolizumab and nivolumab",
			AssumeOrOnAmbiguity: true,
		})
		require.NoError(t, err)

		assert.Nil(t, resp.Clarification)
		require.NotNil(t, resp.Packaged)
		assert.Equal(t, core.CombineOr, resp.Resolved.Combine)
		assert.Equal(t, 3, resp.Packaged.Total, "union of pembrolizumab and nivolumab records")
	})

	t.Run("explicit combination needs no gate", func(t *testing.T) {
		e := newLoadedEngine(t)
		resp, err := e.Ask(ctx, Request{Query: "pembrolizumab plus nivolumab"})
		require.NoError(t, err)

		assert.Nil(t, resp.Clarification)
		require.NotNil(t, resp.Packaged)
		assert.Equal(t, 1, resp.Packaged.Total)
		assert.Equal(t, "P2.04", resp.Packaged.Records[0]["id"])
	})
}

func TestAskPriorEntities(t *testing.T) {
	ctx := context.Background()

	t.Run("empty category inherits all prior entities", func(t *testing.T) {
		e := newLoadedEngine(t)
		resp, err := e.Ask(ctx, Request{
			Query: "what about MSK",
			PriorEntities: []core.EntityMatch{
				{Phrase: "pembrolizumab", Canonical: "pembrolizumab", Category: "drug"},
				{Phrase: "nivolumab", Canonical: "nivolumab", Category: "drug"},
			},
		})
		require.NoError(t, err)

		assert.Equal(t, []string{"pembrolizumab", "nivolumab"}, resp.Resolved.Drugs,
			"every drug from the previous turn carries into the follow-up")
		assert.Equal(t, []string{"memorial sloan kettering"}, resp.Resolved.Institutions)
		require.NotNil(t, resp.Packaged)
		require.Equal(t, 1, resp.Packaged.Total)
		assert.Equal(t, "P2.04", resp.Packaged.Records[0]["id"])
	})

	t.Run("mentioned category ignores prior entities", func(t *testing.T) {
		e := newLoadedEngine(t)
		resp, err := e.Ask(ctx, Request{
			Query: "osimertinib sessions",
			PriorEntities: []core.EntityMatch{
				{Phrase: "pembrolizumab", Canonical: "pembrolizumab", Category: "drug"},
			},
		})
		require.NoError(t, err)

		assert.Equal(t, []string{"osimertinib"}, resp.Resolved.Drugs)
		require.NotNil(t, resp.Packaged)
		require.Equal(t, 1, resp.Packaged.Total)
		assert.Equal(t, "OA12.03", resp.Packaged.Records[0]["id"])
	})
}

type failingCloseProvider struct {
	ai.AIProvider
	err error
}

func (p *failingCloseProvider) Close() error { return p.err }

type failingCloseCache struct {
	storage.ReportCache
	err error
}

func (c *failingCloseCache) Close() error {
	_ = c.ReportCache.Close()
	return c.err
}

func TestCloseJoinsErrors(t *testing.T) {
	errProvider := errors.New("provider close failed")
	errCache := errors.New("cache close failed")

	cache, err := badgerstore.NewMemoryCache()
	require.NoError(t, err)

	e, err := NewEngine(
		WithAIProvider(&failingCloseProvider{AIProvider: mock.NewMockProvider(), err: errProvider}),
		WithReportCache(&failingCloseCache{ReportCache: cache, err: errCache}),
	)
	require.NoError(t, err)

	closeErr := e.Close()
	assert.ErrorIs(t, closeErr, errProvider, "provider close error is not swallowed")
	assert.ErrorIs(t, closeErr, errCache)
}

func TestAskTemporalFilter(t *testing.T) {
	e := newLoadedEngine(t)

	resp, err := e.Ask(context.Background(), Request{
		Query:         "pembrolizumab tomorrow",
		ReferenceDate: time.Date(2025, time.October, 18, 9, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	require.NotNil(t, resp.Packaged)
	require.Equal(t, 1, resp.Packaged.Total)
	assert.Equal(t, "P2.05", resp.Packaged.Records[0]["id"])
	assert.Contains(t, resp.Packaged.Assumptions, "restricted to 2025-10-19")
}

func TestAskNarrationCaching(t *testing.T) {
	cache, err := badgerstore.NewMemoryCache()
	require.NoError(t, err)

	provider := mock.NewMockProvider().(*mock.MockProvider)
	e := newLoadedEngine(t, WithAIProvider(provider), WithReportCache(cache))

	ctx := context.Background()
	req := Request{Query: "how many talks on pembrolizumab"}

	first, err := e.Ask(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, core.IntentSynthesis, first.Packaged.Intent)
	assert.False(t, first.NarrationCached)
	assert.Equal(t, "Matched 2 records.", first.Narration)
	assert.Equal(t, 1, provider.GetMockNarrator().CallCount())

	second, err := e.Ask(ctx, req)
	require.NoError(t, err)
	assert.True(t, second.NarrationCached)
	assert.Equal(t, first.Narration, second.Narration)
	assert.Equal(t, 1, provider.GetMockNarrator().CallCount(),
		"a repeat query against the same corpus is served from the cache")
}

func TestAskNarrationFailureKeepsResult(t *testing.T) {
	narrator := mock.NewMockNarrator()
	narrator.NarrateFunc = func(ctx context.Context, payload string, verbosity core.Verbosity) (string, error) {
		return "", context.DeadlineExceeded
	}
	provider := mock.NewMockProviderWithServices(mock.NewMockKeywordExtractor(), narrator)
	e := newLoadedEngine(t, WithAIProvider(provider))

	resp, err := e.Ask(context.Background(), Request{Query: "how many talks on pembrolizumab"})
	require.NoError(t, err)

	require.NotNil(t, resp.Packaged)
	assert.Equal(t, 2, resp.Packaged.Total)
	assert.Empty(t, resp.Narration)
}

func TestAskExtractorPath(t *testing.T) {
	extractor := mock.NewMockKeywordExtractor()
	extractor.ExtractQueryFunc = func(ctx context.Context, queryText string) (*core.ResolvedQuery, error) {
		return &core.ResolvedQuery{
			Query:   queryText,
			Drugs:   []string{"keytruda"},
			Combine: core.CombineOr,
		}, nil
	}
	provider := mock.NewMockProviderWithServices(extractor, mock.NewMockNarrator())
	e := newLoadedEngine(t, WithAIProvider(provider))

	resp, err := e.Ask(context.Background(), Request{
		Query:        "anything with keytruda",
		UseExtractor: true,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, extractor.CallCount())
	assert.Equal(t, []string{"pembrolizumab"}, resp.Resolved.Drugs,
		"extractor output is canonicalized through the dictionary")
	assert.Contains(t, resp.Resolved.Matches, core.EntityMatch{
		Phrase: "keytruda", Canonical: "pembrolizumab", Category: "drug",
	})
	require.NotNil(t, resp.Packaged)
	assert.Equal(t, 2, resp.Packaged.Total)
}

func TestAskExtractorFallsBackToResolver(t *testing.T) {
	extractor := mock.NewMockKeywordExtractor()
	extractor.ExtractQueryFunc = func(ctx context.Context, queryText string) (*core.ResolvedQuery, error) {
		return nil, context.DeadlineExceeded
	}
	provider := mock.NewMockProviderWithServices(extractor, mock.NewMockNarrator())
	e := newLoadedEngine(t, WithAIProvider(provider))

	resp, err := e.Ask(context.Background(), Request{
		Query:        "keytruda",
		UseExtractor: true,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"pembrolizumab"}, resp.Resolved.Drugs)
	require.NotNil(t, resp.Packaged)
	assert.Equal(t, 2, resp.Packaged.Total)
}

func TestLoadCorpusCSV(t *testing.T) {
	e, err := NewEngine()
	require.NoError(t, err)
	defer e.Close()

	csv := "id,title,session,date\n" +
		"OA1.01,Osimertinib adjuvant data,Oral,2025-10-18\n" +
		"P1.02,Pembrolizumab forever,Poster,2025-10-19\n"
	n, err := e.LoadCorpusCSV(context.Background(), strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	version, err := e.CorpusVersion()
	require.NoError(t, err)
	assert.NotZero(t, version)
}

func TestCorpusVersionTracksContent(t *testing.T) {
	e := newLoadedEngine(t)
	ctx := context.Background()

	v1, err := e.CorpusVersion()
	require.NoError(t, err)

	records := testAgendaRecords()
	records[0].Title = "Osimertinib in resected EGFR-mutant NSCLC (updated)"
	require.NoError(t, e.LoadCorpus(ctx, records))

	v2, err := e.CorpusVersion()
	require.NoError(t, err)
	assert.NotEqual(t, v1, v2)
}
