package resolve

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/symposic/agendaquery/core"
	"github.com/symposic/agendaquery/dictionary"
)

func newTestResolver(t *testing.T) *Resolver {
	t.Helper()
	dict, err := dictionary.Default()
	require.NoError(t, err)
	r, err := NewResolver(dict)
	require.NoError(t, err)
	return r
}

func TestNewResolver(t *testing.T) {
	t.Run("requires dictionary", func(t *testing.T) {
		_, err := NewResolver(nil)
		assert.ErrorIs(t, err, ErrDictionaryRequired)
	})

	t.Run("rejects nil identifier pattern", func(t *testing.T) {
		dict, err := dictionary.Default()
		require.NoError(t, err)
		_, err = NewResolver(dict, WithIdentifierPattern(nil))
		assert.ErrorIs(t, err, ErrNilIdentifierPattern)
	})

	t.Run("custom identifier pattern", func(t *testing.T) {
		dict, err := dictionary.Default()
		require.NoError(t, err)
		r, err := NewResolver(dict, WithIdentifierPattern(regexp.MustCompile(`^abs\d+$`)))
		require.NoError(t, err)

		resolved := r.Resolve("show abs42")
		assert.Equal(t, []string{"ABS42"}, resolved.Identifiers)
	})
}

func TestResolveAliases(t *testing.T) {
	r := newTestResolver(t)

	t.Run("brand names substitute canonical forms", func(t *testing.T) {
		resolved := r.Resolve("sessions about Keytruda")
		assert.Equal(t, []string{"pembrolizumab"}, resolved.Drugs)
		require.Len(t, resolved.Matches, 1)
		assert.Equal(t, "keytruda", resolved.Matches[0].Phrase)
		assert.Equal(t, "pembrolizumab", resolved.Matches[0].Canonical)
	})

	t.Run("canonical names pass through unchanged", func(t *testing.T) {
		resolved := r.Resolve("pembrolizumab data")
		assert.Equal(t, []string{"pembrolizumab"}, resolved.Drugs)
		assert.Empty(t, resolved.Matches, "identity resolution is not a substitution")
	})

	t.Run("resolution is idempotent", func(t *testing.T) {
		first := r.Resolve("osi trials")
		second := r.Resolve("osimertinib trials")
		assert.Equal(t, first.Drugs, second.Drugs)

		again := r.Resolve("osi trials")
		assert.Equal(t, first.Drugs, again.Drugs)
	})

	t.Run("hyphenated short form", func(t *testing.T) {
		resolved := r.Resolve("t-dxd efficacy")
		assert.Equal(t, []string{"trastuzumab deruxtecan"}, resolved.Drugs)
	})

	t.Run("duplicate mentions collapse", func(t *testing.T) {
		resolved := r.Resolve("pembro pembro keytruda")
		assert.Equal(t, []string{"pembrolizumab"}, resolved.Drugs)
	})
}

func TestResolveCategories(t *testing.T) {
	r := newTestResolver(t)

	t.Run("class label expands to all members", func(t *testing.T) {
		resolved := r.Resolve("what ADCs are being presented")
		assert.Equal(t, []string{
			"trastuzumab deruxtecan",
			"datopotamab deruxtecan",
			"sacituzumab govitecan",
		}, resolved.Drugs)
		assert.Len(t, resolved.Matches, 3, "each expansion is stated")
	})

	t.Run("multi-word label wins over its prefix", func(t *testing.T) {
		resolved := r.Resolve("checkpoint inhibitor landscape")
		assert.Contains(t, resolved.Drugs, "pembrolizumab")
		assert.Contains(t, resolved.Drugs, "ipilimumab")
		assert.NotContains(t, resolved.FreeText, "checkpoint")
		assert.NotContains(t, resolved.FreeText, "inhibitor")
	})
}

func TestResolveAcronyms(t *testing.T) {
	r := newTestResolver(t)

	t.Run("institution acronym expands", func(t *testing.T) {
		resolved := r.Resolve("presentations from MSK")
		assert.Equal(t, []string{"memorial sloan kettering"}, resolved.Institutions)
		assert.Empty(t, resolved.Drugs)
	})

	t.Run("drug and institution coexist", func(t *testing.T) {
		resolved := r.Resolve("pembro data from MDA")
		assert.Equal(t, []string{"pembrolizumab"}, resolved.Drugs)
		assert.Equal(t, []string{"md anderson"}, resolved.Institutions)
	})
}

func TestResolveIdentifiers(t *testing.T) {
	r := newTestResolver(t)

	tests := []struct {
		query string
		want  []string
	}{
		{"tell me about OA12.03", []string{"OA12.03"}},
		{"LBA4 results", []string{"LBA4"}},
		{"abstract p2.04", []string{"P2.04"}},
		{"EP08-15 and MA7", []string{"EP08-15", "MA7"}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			resolved := r.Resolve(tt.query)
			assert.Equal(t, tt.want, resolved.Identifiers)
			assert.Empty(t, resolved.FreeText, "identifiers never degrade to free text")
		})
	}

	t.Run("gene symbols are not identifiers", func(t *testing.T) {
		resolved := r.Resolve("p53 biomarker talks")
		assert.Empty(t, resolved.Identifiers, "a bare P prefix needs a section sub-number")
		assert.Equal(t, []string{"p53", "biomarker"}, resolved.FreeText)
	})
}

func TestResolveCombination(t *testing.T) {
	r := newTestResolver(t)

	t.Run("plus is explicit AND", func(t *testing.T) {
		resolved := r.Resolve("osimertinib plus chemotherapy")
		assert.Equal(t, core.CombineAnd, resolved.Combine)
		assert.Equal(t, []string{"plus"}, resolved.CombineHits)
	})

	t.Run("with is explicit AND", func(t *testing.T) {
		resolved := r.Resolve("nivo with ipi")
		assert.Equal(t, core.CombineAnd, resolved.Combine)
	})

	t.Run("plus sign is explicit AND", func(t *testing.T) {
		resolved := r.Resolve("pembro+chemo")
		assert.Equal(t, core.CombineAnd, resolved.Combine)
		assert.Equal(t, []string{"pembrolizumab", "chemotherapy"}, resolved.Drugs)
	})

	t.Run("ampersand is explicit AND", func(t *testing.T) {
		resolved := r.Resolve("durva & chemo")
		assert.Equal(t, core.CombineAnd, resolved.Combine)
	})

	t.Run("combination phrasing before the entities", func(t *testing.T) {
		resolved := r.Resolve("combination of pembro and ipi")
		assert.Equal(t, core.CombineAnd, resolved.Combine)
	})

	t.Run("bare and is ambiguous", func(t *testing.T) {
		resolved := r.Resolve("osimertinib and chemotherapy")
		assert.Equal(t, core.CombineNeedsClarification, resolved.Combine)
		assert.Equal(t, []string{"and"}, resolved.CombineHits)
	})

	t.Run("bare or is an unambiguous union", func(t *testing.T) {
		resolved := r.Resolve("pembro or nivo")
		assert.Equal(t, core.CombineOr, resolved.Combine)
		assert.Equal(t, []string{"or"}, resolved.CombineHits)
	})

	t.Run("no joining token defaults to OR", func(t *testing.T) {
		resolved := r.Resolve("pembrolizumab nivolumab sessions")
		assert.Equal(t, core.CombineOr, resolved.Combine)
		assert.Empty(t, resolved.CombineHits)
	})

	t.Run("and between different categories is not ambiguous", func(t *testing.T) {
		resolved := r.Resolve("pembro and MSK")
		assert.Equal(t, core.CombineOr, resolved.Combine)
	})

	t.Run("single entity with and is not ambiguous", func(t *testing.T) {
		resolved := r.Resolve("pembro and biomarkers")
		assert.Equal(t, core.CombineOr, resolved.Combine)
	})
}

func TestResolveFreeTextDegradation(t *testing.T) {
	r := newTestResolver(t)

	t.Run("unknown tokens survive as search terms", func(t *testing.T) {
		resolved := r.Resolve("immunotherapy in elderly patients")
		assert.Empty(t, resolved.Drugs)
		assert.ElementsMatch(t, []string{"immunotherapy", "elderly", "patients"}, resolved.FreeText)
	})

	t.Run("stop words and months are dropped", func(t *testing.T) {
		resolved := r.Resolve("show me all the sessions on October 18")
		assert.Empty(t, resolved.FreeText)
	})

	t.Run("entities never appear in free text", func(t *testing.T) {
		resolved := r.Resolve("keytruda biomarker subgroups")
		assert.Equal(t, []string{"pembrolizumab"}, resolved.Drugs)
		assert.ElementsMatch(t, []string{"biomarker", "subgroups"}, resolved.FreeText)
	})

	t.Run("field words are query noise", func(t *testing.T) {
		resolved := r.Resolve("what time is OA12.03")
		assert.Empty(t, resolved.FreeText)
		assert.Equal(t, []string{"OA12.03"}, resolved.Identifiers)
	})
}
