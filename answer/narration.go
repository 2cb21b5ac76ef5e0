package answer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/symposic/agendaquery/search"
)

// narrationRecordCap bounds the per-record lines in a narration payload so
// the completion request stays small even for capped result sets.
const narrationRecordCap = 100

// NarrationPayload builds the compact textual payload handed to the
// narration collaborator: per record only identifier, title, and first
// speaker, plus the assumptions block and aggregate statistics so the
// narration can state them transparently.
func NarrationPayload(result *search.Result, resp *PackagedResponse) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Matched %d records", result.Total)
	if result.Truncated {
		fmt.Fprintf(&b, " (showing %d)", len(result.Records))
	}
	b.WriteString(".\n")

	if len(resp.Assumptions) > 0 {
		b.WriteString("Assumptions:\n")
		for _, a := range resp.Assumptions {
			fmt.Fprintf(&b, "- %s\n", a)
		}
	}

	if len(result.SessionCounts) > 0 {
		b.WriteString("By session type:\n")
		for _, nc := range sortedCounts(result.SessionCounts) {
			fmt.Fprintf(&b, "- %s: %d\n", nc.Name, nc.Count)
		}
	}
	if len(result.TopAffiliations) > 0 {
		b.WriteString("Top institutions:\n")
		for _, nc := range result.TopAffiliations {
			fmt.Fprintf(&b, "- %s: %d\n", nc.Name, nc.Count)
		}
	}

	b.WriteString("Records:\n")
	for i := range result.Records {
		if i >= narrationRecordCap {
			fmt.Fprintf(&b, "... and %d more\n", len(result.Records)-i)
			break
		}
		rec := &result.Records[i].Record
		speaker := ""
		if len(rec.Speakers) > 0 {
			speaker = rec.Speakers[0]
		}
		fmt.Fprintf(&b, "%s: %s", rec.ID, rec.Title)
		if speaker != "" {
			fmt.Fprintf(&b, " (%s)", speaker)
		}
		b.WriteString("\n")
	}

	return b.String()
}

// sortedCounts orders a histogram by count descending, ties alphabetical.
func sortedCounts(counts map[string]int) []search.NameCount {
	ranked := make([]search.NameCount, 0, len(counts))
	for name, count := range counts {
		ranked = append(ranked, search.NameCount{Name: name, Count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Name < ranked[j].Name
	})
	return ranked
}
