package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/symposic/agendaquery/core"
)

func TestGate(t *testing.T) {
	t.Run("nil for nil query", func(t *testing.T) {
		assert.Nil(t, Gate(nil))
	})

	t.Run("nil for OR", func(t *testing.T) {
		resolved := &core.ResolvedQuery{
			Drugs:   []string{"pembrolizumab", "nivolumab"},
			Combine: core.CombineOr,
		}
		assert.Nil(t, Gate(resolved))
	})

	t.Run("nil for AND", func(t *testing.T) {
		resolved := &core.ResolvedQuery{
			Drugs:   []string{"pembrolizumab", "nivolumab"},
			Combine: core.CombineAnd,
		}
		assert.Nil(t, Gate(resolved))
	})

	t.Run("request for ambiguous drugs", func(t *testing.T) {
		resolved := &core.ResolvedQuery{
			Drugs:       []string{"osimertinib", "chemotherapy"},
			Combine:     core.CombineNeedsClarification,
			CombineHits: []string{"and"},
		}
		req := Gate(resolved)
		require.NotNil(t, req)
		assert.Equal(t, []string{"osimertinib", "chemotherapy"}, req.Entities)
		assert.Equal(t, []string{"and"}, req.Triggers)
		assert.Contains(t, req.Question, "osimertinib and chemotherapy")
		assert.Contains(t, req.Options[0], "all of")
		assert.Contains(t, req.Options[1], "any of")
	})

	t.Run("falls back to institutions", func(t *testing.T) {
		resolved := &core.ResolvedQuery{
			Institutions: []string{"md anderson", "dana-farber"},
			Combine:      core.CombineNeedsClarification,
		}
		req := Gate(resolved)
		require.NotNil(t, req)
		assert.Equal(t, []string{"md anderson", "dana-farber"}, req.Entities)
	})
}
