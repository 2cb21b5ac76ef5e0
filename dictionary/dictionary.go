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


// Package dictionary provides the load-once entity lookup tables used by
// query resolution: alias -> canonical name, category -> canonical members,
// and acronym -> institution/geography expansions.
//
// A Dictionary is immutable after construction and safe for concurrent use.
// It is built once at startup and passed by reference into the resolver and
// search engine; it is never mutated at request time.
package dictionary

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed dictionary.yaml
var defaultDictionaryYAML []byte

// Dictionary holds the versioned entity lookup tables.
type Dictionary struct {
	version string

	aliases    map[string]string   // lowercased alias -> canonical
	categories map[string][]string // lowercased class label -> canonical members
	acronyms   map[string][]string // lowercased abbreviation -> expansions

	canonicals    map[string]bool // set of all canonical drug names
	maxAliasWords int             // longest multi-word key across all tables
}

// rawDictionary is the YAML wire format.
type rawDictionary struct {
	Version    string              `yaml:"version"`
	Aliases    map[string]string   `yaml:"aliases"`
	Categories map[string][]string `yaml:"categories"`
	Acronyms   map[string][]string `yaml:"acronyms"`
}

var (
	cachedDefault *Dictionary
	defaultOnce   sync.Once
	defaultErr    error
)

// Default loads and caches the embedded dictionary.
// Returns the cached result on subsequent calls.
func Default() (*Dictionary, error) {
	defaultOnce.Do(func() {
		cachedDefault, defaultErr = New(defaultDictionaryYAML)
	})
	return cachedDefault, defaultErr
}

// New parses a dictionary from YAML and validates it.
func New(data []byte) (*Dictionary, error) {
	var raw rawDictionary
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing dictionary yaml: %w", err)
	}

	d := &Dictionary{
		version:    raw.Version,
		aliases:    make(map[string]string, len(raw.Aliases)),
		categories: make(map[string][]string, len(raw.Categories)),
		acronyms:   make(map[string][]string, len(raw.Acronyms)),
		canonicals: make(map[string]bool),
	}

	for alias, canonical := range raw.Aliases {
		alias = normalizeKey(alias)
		canonical = normalizeKey(canonical)
		d.aliases[alias] = canonical
		d.canonicals[canonical] = true
		d.trackWords(alias)
		d.trackWords(canonical)
	}
	for label, members := range raw.Categories {
		label = normalizeKey(label)
		normalized := make([]string, 0, len(members))
		for _, m := range members {
			m = normalizeKey(m)
			normalized = append(normalized, m)
			d.canonicals[m] = true
			d.trackWords(m)
		}
		d.categories[label] = normalized
		d.trackWords(label)
	}
	for acronym, expansions := range raw.Acronyms {
		acronym = normalizeKey(acronym)
		normalized := make([]string, 0, len(expansions))
		for _, e := range expansions {
			normalized = append(normalized, normalizeKey(e))
		}
		d.acronyms[acronym] = normalized
		d.trackWords(acronym)
	}

	if err := d.validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// validate enforces the no-nested-alias invariant: every canonical name is a
// plain string usable verbatim in pattern construction, never itself an alias
// key that maps elsewhere.
func (d *Dictionary) validate() error {
	for canonical := range d.canonicals {
		if target, ok := d.aliases[canonical]; ok && target != canonical {
			return fmt.Errorf("%w: %q is canonical but aliases to %q", ErrNestedAlias, canonical, target)
		}
	}
	for label, members := range d.categories {
		if len(members) == 0 {
			return fmt.Errorf("%w: category %q has no members", ErrEmptyCategory, label)
		}
	}
	return nil
}

// Version returns the dictionary version string.
func (d *Dictionary) Version() string {
	return d.version
}

// CanonicalFor resolves an alias to its canonical drug name.
// A name that is already canonical resolves to itself unchanged.
func (d *Dictionary) CanonicalFor(phrase string) (string, bool) {
	phrase = normalizeKey(phrase)
	if d.canonicals[phrase] {
		return phrase, true
	}
	canonical, ok := d.aliases[phrase]
	return canonical, ok
}

// ExpandCategory expands a class label to all of its canonical members,
// in dictionary order.
func (d *Dictionary) ExpandCategory(label string) ([]string, bool) {
	members, ok := d.categories[normalizeKey(label)]
	if !ok {
		return nil, false
	}
	out := make([]string, len(members))
	copy(out, members)
	return out, true
}

// ExpandAcronym expands an organization/geography abbreviation.
func (d *Dictionary) ExpandAcronym(phrase string) ([]string, bool) {
	expansions, ok := d.acronyms[normalizeKey(phrase)]
	if !ok {
		return nil, false
	}
	out := make([]string, len(expansions))
	copy(out, expansions)
	return out, true
}

// IsCanonical reports whether name is a canonical drug entity.
func (d *Dictionary) IsCanonical(name string) bool {
	return d.canonicals[normalizeKey(name)]
}

// MaxPhraseWords returns the word count of the longest key across all tables.
// The resolver uses it for longest-match-first phrase lookup.
func (d *Dictionary) MaxPhraseWords() int {
	if d.maxAliasWords < 1 {
		return 1
	}
	return d.maxAliasWords
}

func (d *Dictionary) trackWords(key string) {
	if n := len(strings.Fields(key)); n > d.maxAliasWords {
		d.maxAliasWords = n
	}
}

func normalizeKey(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(s))), " ")
}
