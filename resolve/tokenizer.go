package resolve

import "strings"

// Stop words and query noise filtered out of free-text terms. Matched
// entities, combination markers, and identifiers are handled separately.
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "be": true, "is": true, "are": true,
	"was": true, "to": true, "of": true, "and": true, "in": true, "that": true,
	"have": true, "it": true, "for": true, "not": true, "on": true, "with": true,
	"as": true, "you": true, "do": true, "at": true, "this": true, "but": true,
	"by": true, "from": true, "me": true, "my": true, "any": true, "all": true,
	"show": true, "list": true, "what": true, "which": true, "who": true,
	"when": true, "where": true, "there": true, "about": true, "tell": true,
	"give": true, "find": true, "how": true, "many": true, "being": true,
	"presentations": true, "presentation": true, "presenting": true,
	"presents": true, "presented": true, "presenter": true,
	"sessions": true, "session": true, "abstracts": true, "abstract": true,
	"studies": true, "study": true, "trials": true, "trial": true,
	"talks": true, "talk": true, "posters": true, "poster": true,
	"data": true, "results": true, "today": true, "tomorrow": true,
	"yesterday": true,
	"time": true, "date": true, "day": true, "room": true, "location": true,
	"speaker": true, "speakers": true, "title": true, "theme": true,
	"track": true,
	"or": true, "plus": true, "vs": true, "versus": true, "compare": true,
	"compared": true, "between": true, "through": true, "until": true,
}

// monthNames are dropped from free text; the temporal parser owns them.
var monthNames = map[string]bool{
	"january": true, "february": true, "march": true, "april": true,
	"may": true, "june": true, "july": true, "august": true,
	"september": true, "october": true, "november": true, "december": true,
	"jan": true, "feb": true, "mar": true, "apr": true, "jun": true,
	"jul": true, "aug": true, "sep": true, "sept": true, "oct": true,
	"nov": true, "dec": true,
}

// tokenize splits a query into lowercase tokens. A plus sign becomes its own
// token so combination detection can see it; hyphens and dots stay inside
// tokens so product codes ("t-dxd") and abstract numbers ("p2.04") survive.
func tokenize(query string) []string {
	query = strings.ToLower(query)

	var b strings.Builder
	b.Grow(len(query) + 8)
	for _, r := range query {
		switch {
		case r == '+':
			b.WriteString(" + ")
		case r == '&':
			b.WriteString(" + ")
		case isTokenRune(r):
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}

	tokens := strings.Fields(b.String())
	for i, tok := range tokens {
		tokens[i] = strings.Trim(tok, ".-")
	}
	out := tokens[:0]
	for _, tok := range tokens {
		if tok != "" {
			out = append(out, tok)
		}
	}
	return out
}

func isTokenRune(r rune) bool {
	if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
		return true
	}
	return r == '-' || r == '.'
}

// isNoise reports whether a leftover token carries no search value.
func isNoise(tok string) bool {
	if stopWords[tok] || monthNames[tok] || tok == "+" {
		return true
	}
	// Bare numbers belong to dates and counts, not free-text search.
	for _, r := range tok {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
