package resolve

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/symposic/agendaquery/core"
	"github.com/symposic/agendaquery/dictionary"
)

// Explicit combination markers. Their presence between two drug entities is
// an unambiguous request for co-occurrence (AND).
var andMarkers = map[string]bool{
	"+":           true,
	"plus":        true,
	"with":        true,
	"combination": true,
	"combo":       true,
}

// defaultIdentifierPattern recognizes abstract identifiers as printed in the
// program: LBA4, OA12.03, P2.04, EP08-15, MA7. The bare P prefix requires the
// section sub-number so gene symbols like "p53" stay free text.
var defaultIdentifierPattern = regexp.MustCompile(`^(?:(?:lba|oa|ma|ep)-?\d+(?:[.-]\d+)?|p-?\d+[.-]\d+)[a-z]?$`)

type spanCategory int

const (
	spanDrug spanCategory = iota + 1
	spanInstitution
)

// entitySpan records which token range resolved to which canonical names.
type entitySpan struct {
	start    int // first token index, inclusive
	end      int // last token index, exclusive
	category spanCategory
	names    []string
}

// Resolver maps free-text queries onto dictionary entities and detects the
// combination logic joining them. It holds no per-request state and is safe
// for concurrent use.
type Resolver struct {
	dict      *dictionary.Dictionary
	idPattern *regexp.Regexp
	logger    *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// WithIdentifierPattern overrides the abstract-identifier pattern.
func WithIdentifierPattern(pattern *regexp.Regexp) Option {
	return func(r *Resolver) error {
		if pattern == nil {
			return ErrNilIdentifierPattern
		}
		r.idPattern = pattern
		return nil
	}
}

// NewResolver creates a resolver over the given dictionary.
func NewResolver(dict *dictionary.Dictionary, opts ...Option) (*Resolver, error) {
	if dict == nil {
		return nil, ErrDictionaryRequired
	}
	r := &Resolver{
		dict:      dict,
		idPattern: defaultIdentifierPattern,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Resolve tokenizes the query, substitutes canonical names for aliases and
// category labels (longest match first), detects the combination-logic
// verdict, and degrades everything unresolvable to free-text terms.
//
// Resolution is idempotent: a query containing only canonical names resolves
// to those names unchanged. No condition is fatal.
func (r *Resolver) Resolve(query string) *core.ResolvedQuery {
	tokens := tokenize(query)
	resolved := &core.ResolvedQuery{
		Query:   query,
		Combine: core.CombineOr,
	}

	spans, consumed := r.matchEntities(tokens, resolved)
	r.matchIdentifiers(tokens, consumed, resolved)
	r.detectCombination(tokens, spans, resolved)

	// Everything left over that carries search value becomes a free-text term.
	for i, tok := range tokens {
		if consumed[i] || isNoise(tok) {
			continue
		}
		resolved.FreeText = appendUnique(resolved.FreeText, tok)
	}

	r.logger.Debug("query resolved",
		"query", query,
		"drugs", resolved.Drugs,
		"institutions", resolved.Institutions,
		"identifiers", resolved.Identifiers,
		"combine", resolved.Combine.String(),
		"freeText", resolved.FreeText)

	return resolved
}

// matchEntities walks the tokens with a shrinking window so multi-word
// aliases win over their single-word prefixes.
func (r *Resolver) matchEntities(tokens []string, resolved *core.ResolvedQuery) ([]entitySpan, []bool) {
	consumed := make([]bool, len(tokens))
	var spans []entitySpan

	maxWords := r.dict.MaxPhraseWords()
	for i := 0; i < len(tokens); {
		width := maxWords
		if rest := len(tokens) - i; rest < width {
			width = rest
		}

		var matched *entitySpan
		for w := width; w >= 1 && matched == nil; w-- {
			phrase := strings.Join(tokens[i:i+w], " ")

			if canonical, ok := r.dict.CanonicalFor(phrase); ok {
				matched = &entitySpan{start: i, end: i + w, category: spanDrug, names: []string{canonical}}
				resolved.Drugs = appendUnique(resolved.Drugs, canonical)
				if phrase != canonical {
					resolved.Matches = append(resolved.Matches,
						core.EntityMatch{Phrase: phrase, Canonical: canonical, Category: "drug"})
				}
				continue
			}
			if members, ok := r.dict.ExpandCategory(phrase); ok {
				// Each category member is a separate candidate entity,
				// never merged into one pattern.
				matched = &entitySpan{start: i, end: i + w, category: spanDrug, names: members}
				for _, m := range members {
					resolved.Drugs = appendUnique(resolved.Drugs, m)
					resolved.Matches = append(resolved.Matches,
						core.EntityMatch{Phrase: phrase, Canonical: m, Category: "category"})
				}
				continue
			}
			if expansions, ok := r.dict.ExpandAcronym(phrase); ok {
				matched = &entitySpan{start: i, end: i + w, category: spanInstitution, names: expansions}
				for _, e := range expansions {
					resolved.Institutions = appendUnique(resolved.Institutions, e)
					if phrase != e {
						resolved.Matches = append(resolved.Matches,
							core.EntityMatch{Phrase: phrase, Canonical: e, Category: "institution"})
					}
				}
			}
		}

		if matched == nil {
			i++
			continue
		}
		spans = append(spans, *matched)
		for j := matched.start; j < matched.end; j++ {
			consumed[j] = true
		}
		i = matched.end
	}

	return spans, consumed
}

func (r *Resolver) matchIdentifiers(tokens []string, consumed []bool, resolved *core.ResolvedQuery) {
	for i, tok := range tokens {
		if consumed[i] {
			continue
		}
		if r.idPattern.MatchString(tok) {
			resolved.Identifiers = appendUnique(resolved.Identifiers, strings.ToUpper(tok))
			consumed[i] = true
		}
	}
}

// detectCombination inspects the tokens joining adjacent same-category entity
// spans. An explicit marker yields AND. A bare "or" is an unambiguous union.
// A bare "and" between two entities is irreducibly ambiguous (both together
// vs. either one) and must be surfaced for clarification, never guessed.
// With nothing joining entities the verdict stays the stated default, OR.
func (r *Resolver) detectCombination(tokens []string, spans []entitySpan, resolved *core.ResolvedQuery) {
	spanEndingAt := make(map[int]*entitySpan)
	spanStartingAt := make(map[int]*entitySpan)
	for i := range spans {
		spanEndingAt[spans[i].end] = &spans[i]
		spanStartingAt[spans[i].start] = &spans[i]
	}

	var sawAnd, sawOr, sawBareAnd bool
	var hits []string

	for j, tok := range tokens {
		left, lok := spanEndingAt[j]
		right, rok := spanStartingAt[j+1]
		joins := lok && rok && left.category == right.category

		switch {
		case andMarkers[tok]:
			if joins {
				sawAnd = true
				hits = append(hits, tok)
			} else if (tok == "combination" || tok == "combo") && len(resolved.Drugs) >= 2 {
				// "combination of X and Y" phrasing puts the marker before
				// both entities rather than between them.
				sawAnd = true
				hits = append(hits, tok)
			}
		case tok == "or":
			if joins {
				sawOr = true
				hits = append(hits, tok)
			}
		case tok == "and":
			if joins {
				sawBareAnd = true
				hits = append(hits, tok)
			}
		}
	}

	switch {
	case sawAnd:
		resolved.Combine = core.CombineAnd
	case sawBareAnd && !sawOr:
		resolved.Combine = core.CombineNeedsClarification
	default:
		resolved.Combine = core.CombineOr
	}
	resolved.CombineHits = hits
}

func appendUnique(list []string, value string) []string {
	for _, v := range list {
		if v == value {
			return list
		}
	}
	return append(list, value)
}
