package ai

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/symposic/agendaquery/core"
)

func TestToResolvedQuery(t *testing.T) {
	t.Run("full extraction", func(t *testing.T) {
		extracted := &ExtractedQuery{
			Drugs:        []string{" Pembrolizumab ", "NIVOLUMAB"},
			Institutions: []string{"MD Anderson"},
			Identifiers:  []string{"oa12.03", " lba4 "},
			FreeText:     []string{"Elderly"},
			Combine:      "AND",
			Date:         "2025-10-18",
			TargetField:  "time",
		}

		resolved := extracted.ToResolvedQuery("pembro plus nivo")

		assert.Equal(t, "pembro plus nivo", resolved.Query)
		assert.Equal(t, []string{"pembrolizumab", "nivolumab"}, resolved.Drugs)
		assert.Equal(t, []string{"md anderson"}, resolved.Institutions)
		assert.Equal(t, []string{"OA12.03", "LBA4"}, resolved.Identifiers)
		assert.Equal(t, []string{"elderly"}, resolved.FreeText)
		assert.Equal(t, core.CombineAnd, resolved.Combine)
		assert.Equal(t, core.FieldTime, resolved.TargetField)

		require.NotNil(t, resolved.Temporal)
		day := time.Date(2025, time.October, 18, 0, 0, 0, 0, time.UTC)
		assert.True(t, resolved.Temporal.From.Equal(day))
		assert.True(t, resolved.Temporal.To.Equal(day))
	})

	t.Run("combine verdicts", func(t *testing.T) {
		tests := []struct {
			raw  string
			want core.CombineMode
		}{
			{"AND", core.CombineAnd},
			{"and", core.CombineAnd},
			{" Or ", core.CombineOr},
			{"NEEDS_CLARIFICATION", core.CombineNeedsClarification},
			{"", core.CombineOr},
			{"whatever", core.CombineOr},
		}
		for _, tc := range tests {
			resolved := (&ExtractedQuery{Combine: tc.raw}).ToResolvedQuery("q")
			assert.Equal(t, tc.want, resolved.Combine, "combine %q", tc.raw)
		}
	})

	t.Run("unparseable date is dropped", func(t *testing.T) {
		resolved := (&ExtractedQuery{Date: "October 18th"}).ToResolvedQuery("q")
		assert.Nil(t, resolved.Temporal)
	})

	t.Run("target field synonyms", func(t *testing.T) {
		tests := []struct {
			raw  string
			want core.Field
		}{
			{"speaker", core.FieldSpeakers},
			{"room", core.FieldLocation},
			{"affiliation", core.FieldLocation},
			{"track", core.FieldTheme},
			{"", core.FieldNone},
			{"nonsense", core.FieldNone},
		}
		for _, tc := range tests {
			resolved := (&ExtractedQuery{TargetField: tc.raw}).ToResolvedQuery("q")
			assert.Equal(t, tc.want, resolved.TargetField, "field %q", tc.raw)
		}
	})

	t.Run("blank entries are dropped", func(t *testing.T) {
		extracted := &ExtractedQuery{
			Drugs:       []string{"", "  "},
			Identifiers: []string{" "},
		}
		resolved := extracted.ToResolvedQuery("q")
		assert.Empty(t, resolved.Drugs)
		assert.Empty(t, resolved.Identifiers)
	})
}

func TestConfigNormalize(t *testing.T) {
	cfg := NewConfig(WithHost("http://localhost:11434"))
	cfg.Normalize()
	assert.Equal(t, "http://localhost:11434/v1", cfg.ExtractorHost)
	assert.Equal(t, "http://localhost:11434/v1", cfg.NarratorHost)

	// Trailing slash and existing suffix stay canonical.
	cfg = NewConfig(WithExtractorHost("http://a/"), WithNarratorHost("http://b/v1"))
	cfg.Normalize()
	assert.Equal(t, "http://a/v1", cfg.ExtractorHost)
	assert.Equal(t, "http://b/v1", cfg.NarratorHost)
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, NewConfig().Validate())

	cfg := NewConfig()
	cfg.ExtractorModel = ""
	assert.Error(t, cfg.Validate())

	cfg = NewConfig()
	cfg.NarratorHost = ""
	assert.Error(t, cfg.Validate())
}
