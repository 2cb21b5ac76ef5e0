package corpus

import (
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/symposic/agendaquery/core"
)

// fieldSeparator joins searchable fields in the raw concatenation.
const fieldSeparator = " | "

// BuildSearchText concatenates all searchable fields of a record and
// produces the normalized copy patterns run against.
func BuildSearchText(record *core.Record) core.SearchText {
	parts := []string{
		record.ID,
		record.Title,
		strings.Join(record.Speakers, ", "),
		record.Affiliation,
		record.Session,
		record.Time,
		record.Theme,
	}
	if !record.Date.IsZero() {
		parts = append(parts, record.Date.Format("2006-01-02"))
	}
	raw := strings.Join(parts, fieldSeparator)
	return core.SearchText{
		Raw:        raw,
		Normalized: normalize(raw),
	}
}

// normalize case-folds and collapses all whitespace runs to single spaces.
func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// buildIndex precomputes search text for every record. Work is spread across
// the worker pool; the per-record output slot is fixed up front so the result
// order matches the input order regardless of scheduling.
func buildIndex(pool *ants.Pool, records []core.Record) ([]core.IndexedRecord, error) {
	indexed := make([]core.IndexedRecord, len(records))

	var wg sync.WaitGroup
	for i := range records {
		i := i
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			indexed[i] = core.IndexedRecord{
				Record:     records[i],
				SearchText: BuildSearchText(&records[i]),
			}
		})
		if err != nil {
			wg.Done()
			return nil, err
		}
	}
	wg.Wait()

	return indexed, nil
}
