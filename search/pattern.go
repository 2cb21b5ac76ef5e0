package search

import (
	"fmt"
	"regexp"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// BoundaryMode controls how a pattern anchors at the edges of a name.
type BoundaryMode int

const (
	// BoundaryWord anchors on standard word boundaries. A hyphen counts as
	// a boundary, so "adc" would match inside "adc-123".
	BoundaryWord BoundaryMode = iota + 1
	// BoundaryStrict additionally refuses adjacent hyphens, so a short
	// acronym never matches a product code that merely starts with it.
	BoundaryStrict
)

// PatternOpts selects the boundary mode and the optional forms a single
// logical entity is allowed to take.
type PatternOpts struct {
	Boundary BoundaryMode
	// AllowSuffix permits, but does not require, a trailing dash-suffix
	// ("productized" forms of a base compound name).
	AllowSuffix bool
	// AllowPlural permits an optional trailing "s" (plural acronyms).
	AllowPlural bool
}

func (o PatternOpts) cacheKey(name string) string {
	return fmt.Sprintf("%s|%d|%t|%t", name, o.Boundary, o.AllowSuffix, o.AllowPlural)
}

// PatternBuilder compiles case-insensitive entity matchers and caches the
// compiled form. It is safe for concurrent use.
type PatternBuilder struct {
	cache *lru.Cache[string, *regexp.Regexp]
}

// NewPatternBuilder creates a builder with an LRU cache of compiled matchers.
func NewPatternBuilder(cacheSize int) (*PatternBuilder, error) {
	if cacheSize < 1 {
		cacheSize = 1
	}
	cache, err := lru.New[string, *regexp.Regexp](cacheSize)
	if err != nil {
		return nil, err
	}
	return &PatternBuilder{cache: cache}, nil
}

// Build compiles a matcher for one canonical name. The name is matched
// case-insensitively as a whole token; internal spaces match the single
// spaces of normalized search text.
func (b *PatternBuilder) Build(name string, opts PatternOpts) (*regexp.Regexp, error) {
	name = strings.Join(strings.Fields(strings.ToLower(name)), " ")
	if name == "" {
		return nil, ErrEmptyPattern
	}

	key := opts.cacheKey(name)
	if re, ok := b.cache.Get(key); ok {
		return re, nil
	}

	var p strings.Builder
	p.WriteString("(?i)")
	switch opts.Boundary {
	case BoundaryStrict:
		p.WriteString(`(?:^|[^a-z0-9-])`)
	default:
		p.WriteString(`\b`)
	}
	p.WriteString(regexp.QuoteMeta(name))
	if opts.AllowPlural {
		p.WriteString(`s?`)
	}
	if opts.AllowSuffix {
		p.WriteString(`(?:-[a-z0-9]+)*`)
	}
	switch opts.Boundary {
	case BoundaryStrict:
		p.WriteString(`(?:[^a-z0-9-]|$)`)
	default:
		p.WriteString(`\b`)
	}

	re, err := regexp.Compile(p.String())
	if err != nil {
		return nil, fmt.Errorf("compiling pattern for %q: %w", name, err)
	}
	b.cache.Add(key, re)
	return re, nil
}
