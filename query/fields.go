package query

import (
	"strings"

	"github.com/symposic/agendaquery/core"
)

// fieldKeywords maps attribute phrasing to the record field it asks for.
// Multi-word phrases are checked before single words.
var fieldPhrases = []struct {
	phrase string
	field  core.Field
}{
	{"what time", core.FieldTime},
	{"which room", core.FieldLocation},
	{"what room", core.FieldLocation},
	{"what day", core.FieldDate},
	{"what date", core.FieldDate},
	{"which session", core.FieldSession},
	{"what session", core.FieldSession},
	{"who is presenting", core.FieldSpeakers},
	{"who presents", core.FieldSpeakers},
	{"who is the speaker", core.FieldSpeakers},
}

var fieldWords = map[string]core.Field{
	"room":      core.FieldLocation,
	"location":  core.FieldLocation,
	"where":     core.FieldLocation,
	"when":      core.FieldDate,
	"date":      core.FieldDate,
	"time":      core.FieldTime,
	"speaker":   core.FieldSpeakers,
	"speakers":  core.FieldSpeakers,
	"presenter": core.FieldSpeakers,
	"session":   core.FieldSession,
	"theme":     core.FieldTheme,
	"track":     core.FieldTheme,
	"title":     core.FieldTitle,
}

var interrogatives = map[string]bool{
	"what": true, "which": true, "when": true, "where": true, "who": true,
}

// TargetField recognizes phrasing that asks for one specific attribute so the
// packager can answer directly instead of returning a full table. It returns
// FieldNone when the query wants whole records.
func TargetField(query string) core.Field {
	lowered := strings.ToLower(query)

	for _, fp := range fieldPhrases {
		if strings.Contains(lowered, fp.phrase) {
			return fp.field
		}
	}

	// A single field word only counts as a target when the query is actually
	// asking a question; "morning session on ADCs" is a filter, not a lookup.
	tokens := strings.Fields(strings.Map(func(r rune) rune {
		if r == '?' || r == ',' {
			return ' '
		}
		return r
	}, lowered))
	if len(tokens) == 0 || !interrogatives[tokens[0]] {
		return core.FieldNone
	}
	if f, ok := fieldWords[tokens[0]]; ok && len(tokens) > 1 {
		return f
	}
	for _, tok := range tokens[1:] {
		if f, ok := fieldWords[tok]; ok {
			return f
		}
	}
	return core.FieldNone
}
