package corpus

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/symposic/agendaquery/core"
)

// csvDateLayouts are tried in order when parsing the date column.
var csvDateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"January 2, 2006",
	"Jan 2, 2006",
}

// headerSynonyms maps the column names seen across exported agendas onto the
// record fields. Matching is case-insensitive.
var headerSynonyms = map[string]string{
	"id":           "id",
	"abstract":     "id",
	"abstract id":  "id",
	"abstract_id":  "id",
	"title":        "title",
	"speaker":      "speakers",
	"speakers":     "speakers",
	"presenter":    "speakers",
	"presenters":   "speakers",
	"affiliation":  "affiliation",
	"institution":  "affiliation",
	"location":     "affiliation",
	"room":         "affiliation",
	"session":      "session",
	"session type": "session",
	"session_type": "session",
	"date":         "date",
	"day":          "date",
	"time":         "time",
	"theme":        "theme",
	"track":        "theme",
	"category":     "theme",
	"topic":        "theme",
}

// ReadRecords parses presentation records from CSV. The first row must be a
// header; column order is free. Multiple speakers are separated by ";".
// An unparseable date leaves the record dateless rather than failing the load.
func ReadRecords(r io.Reader) ([]core.Record, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrMissingHeader
	}
	if err != nil {
		return nil, fmt.Errorf("reading csv header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(name))
		if field, ok := headerSynonyms[key]; ok {
			if _, taken := columns[field]; !taken {
				columns[field] = i
			}
		}
	}
	if _, ok := columns["id"]; !ok {
		return nil, fmt.Errorf("%w: no identifier column", ErrMissingHeader)
	}
	if _, ok := columns["title"]; !ok {
		return nil, fmt.Errorf("%w: no title column", ErrMissingHeader)
	}

	var records []core.Record
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv line %d: %w", line, err)
		}

		cell := func(field string) string {
			i, ok := columns[field]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		record := core.Record{
			ID:          cell("id"),
			Title:       cell("title"),
			Affiliation: cell("affiliation"),
			Session:     cell("session"),
			Time:        cell("time"),
			Theme:       cell("theme"),
		}
		if speakers := cell("speakers"); speakers != "" {
			for _, s := range strings.Split(speakers, ";") {
				if s = strings.TrimSpace(s); s != "" {
					record.Speakers = append(record.Speakers, s)
				}
			}
		}
		if date := cell("date"); date != "" {
			record.Date = parseCSVDate(date)
		}

		records = append(records, record)
	}

	return records, nil
}

func parseCSVDate(s string) time.Time {
	for _, layout := range csvDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return core.Day(t)
		}
	}
	return time.Time{}
}
