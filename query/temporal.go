package query

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/symposic/agendaquery/core"
)

var months = map[string]time.Month{
	"january": time.January, "jan": time.January,
	"february": time.February, "feb": time.February,
	"march": time.March, "mar": time.March,
	"april": time.April, "apr": time.April,
	"may":  time.May,
	"june": time.June, "jun": time.June,
	"july": time.July, "jul": time.July,
	"august": time.August, "aug": time.August,
	"september": time.September, "sep": time.September, "sept": time.September,
	"october": time.October, "oct": time.October,
	"november": time.November, "nov": time.November,
	"december": time.December, "dec": time.December,
}

// numericDateLayouts are tried in order against single tokens.
var numericDateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"01/02/06",
}

var ordinalSuffix = regexp.MustCompile(`^(\d{1,2})(?:st|nd|rd|th)$`)

// rangeConnectors join the two ends of an explicit date range.
var rangeConnectors = map[string]bool{
	"to":      true,
	"through": true,
	"until":   true,
}

// ParseTemporal extracts a temporal filter from the raw query text.
// Relative expressions resolve against the supplied reference date; an
// explicit date followed by "to"/"through"/"until" and a second date (or a
// bare day number) becomes a range. Unparseable date text is dropped, never
// an error: the query simply proceeds without a temporal filter.
func ParseTemporal(query string, ref time.Time) *core.TemporalFilter {
	if ref.IsZero() {
		ref = time.Now().UTC()
	}
	lowered := strings.ToLower(query)
	tokens := strings.Fields(strings.Map(func(r rune) rune {
		if r == ',' || r == '?' || r == '!' {
			return ' '
		}
		return r
	}, lowered))

	if day, ok := relativeDay(tokens, ref); ok {
		return singleDay(day)
	}

	first, last, ok := numericDay(tokens)
	if !ok {
		first, last, ok = monthNameDay(tokens, ref)
	}
	if !ok {
		return nil
	}

	if last+1 < len(tokens) && rangeConnectors[tokens[last+1]] {
		if second, ok := rangeEnd(tokens[last+2:], first, ref); ok && !second.Before(first) {
			return &core.TemporalFilter{From: core.Day(first), To: core.Day(second)}
		}
	}
	return singleDay(first)
}

// rangeEnd parses the end of an explicit range. A bare day number inherits
// the start's month and year ("october 18 to 19").
func rangeEnd(tokens []string, start time.Time, ref time.Time) (time.Time, bool) {
	if len(tokens) == 0 {
		return time.Time{}, false
	}
	if day, _, ok := numericDay(tokens); ok {
		return day, true
	}
	if day, _, ok := monthNameDay(tokens, ref); ok {
		return day, true
	}
	if n, ok := parseDayNumber(tokens[0]); ok {
		return time.Date(start.Year(), start.Month(), n, 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}

func singleDay(day time.Time) *core.TemporalFilter {
	d := core.Day(day)
	return &core.TemporalFilter{From: d, To: d}
}

func relativeDay(tokens []string, ref time.Time) (time.Time, bool) {
	for _, tok := range tokens {
		switch tok {
		case "today":
			return ref, true
		case "tomorrow":
			return ref.AddDate(0, 0, 1), true
		case "yesterday":
			return ref.AddDate(0, 0, -1), true
		}
	}
	return time.Time{}, false
}

// numericDay returns the first token parseable as a full date and its index.
func numericDay(tokens []string) (time.Time, int, bool) {
	for i, tok := range tokens {
		for _, layout := range numericDateLayouts {
			if t, err := time.Parse(layout, tok); err == nil {
				return t, i, true
			}
		}
	}
	return time.Time{}, 0, false
}

// monthNameDay handles "october 18", "18 october", and "oct 18 2025". The
// year defaults to the reference year when omitted. Returns the index of the
// last token the date expression consumed.
func monthNameDay(tokens []string, ref time.Time) (time.Time, int, bool) {
	for i, tok := range tokens {
		month, ok := months[tok]
		if !ok {
			continue
		}

		last := i
		day, dayOK := 0, false
		if i+1 < len(tokens) {
			if day, dayOK = parseDayNumber(tokens[i+1]); dayOK {
				last = i + 1
			}
		}
		if !dayOK && i > 0 {
			day, dayOK = parseDayNumber(tokens[i-1])
		}
		if !dayOK {
			continue
		}

		year := ref.Year()
		if i+2 < len(tokens) {
			if y, err := strconv.Atoi(tokens[i+2]); err == nil && y >= 1970 && y <= 9999 {
				year = y
				if last == i+1 {
					last = i + 2
				}
			}
		}
		return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), last, true
	}
	return time.Time{}, 0, false
}

func parseDayNumber(tok string) (int, bool) {
	if m := ordinalSuffix.FindStringSubmatch(tok); m != nil {
		tok = m[1]
	}
	n, err := strconv.Atoi(tok)
	if err != nil || n < 1 || n > 31 {
		return 0, false
	}
	return n, true
}
