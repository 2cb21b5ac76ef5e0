package core

import (
	"testing"
	"time"
)

func TestIDFromContent(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		a := IDFromContent("osimertinib in EGFR-mutant NSCLC")
		b := IDFromContent("osimertinib in EGFR-mutant NSCLC")
		if a != b {
			t.Errorf("same content produced different IDs: %d vs %d", a, b)
		}
	})

	t.Run("different content differs", func(t *testing.T) {
		a := IDFromContent("corpus A")
		b := IDFromContent("corpus B")
		if a == b {
			t.Errorf("different content produced the same ID: %d", a)
		}
	})

	t.Run("empty content has an ID", func(t *testing.T) {
		if IDFromContent("") == 0 {
			t.Error("empty content should still hash to a non-zero ID")
		}
	})
}

func TestReportKey(t *testing.T) {
	corpusA := IDFromContent("corpus A")
	corpusB := IDFromContent("corpus B")

	t.Run("stable for identical inputs", func(t *testing.T) {
		if ReportKey(corpusA, "pembro today") != ReportKey(corpusA, "pembro today") {
			t.Error("identical inputs produced different keys")
		}
	})

	t.Run("query casing and padding do not matter", func(t *testing.T) {
		if ReportKey(corpusA, "Pembro Today") != ReportKey(corpusA, "  pembro today ") {
			t.Error("case/whitespace variations should share a key")
		}
	})

	t.Run("corpus version partitions keys", func(t *testing.T) {
		if ReportKey(corpusA, "pembro today") == ReportKey(corpusB, "pembro today") {
			t.Error("same query against different corpora should not share a key")
		}
	})

	t.Run("different queries differ", func(t *testing.T) {
		if ReportKey(corpusA, "pembro") == ReportKey(corpusA, "nivo") {
			t.Error("different queries should not share a key")
		}
	})
}

func TestTemporalFilterContains(t *testing.T) {
	oct18 := time.Date(2025, time.October, 18, 0, 0, 0, 0, time.UTC)
	oct19 := oct18.AddDate(0, 0, 1)
	oct20 := oct18.AddDate(0, 0, 2)

	tests := []struct {
		name   string
		filter TemporalFilter
		day    time.Time
		want   bool
	}{
		{"single day match", TemporalFilter{From: oct18, To: oct18}, oct18, true},
		{"single day miss", TemporalFilter{From: oct18, To: oct18}, oct19, false},
		{"range includes both ends", TemporalFilter{From: oct18, To: oct20}, oct20, true},
		{"range interior", TemporalFilter{From: oct18, To: oct20}, oct19, true},
		{"before range", TemporalFilter{From: oct19, To: oct20}, oct18, false},
		{"zero date never matches", TemporalFilter{From: oct18, To: oct20}, time.Time{}, false},
		{
			"time of day ignored",
			TemporalFilter{From: oct18, To: oct18},
			time.Date(2025, time.October, 18, 16, 45, 0, 0, time.UTC),
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.Contains(tt.day); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.day, got, tt.want)
			}
		})
	}
}

func TestDay(t *testing.T) {
	in := time.Date(2025, time.October, 18, 23, 59, 59, 1e8, time.UTC)
	got := Day(in)
	want := time.Date(2025, time.October, 18, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("Day(%v) = %v, want %v", in, got, want)
	}
}

func TestEnumStrings(t *testing.T) {
	if CombineOr.String() != "OR" || CombineAnd.String() != "AND" ||
		CombineNeedsClarification.String() != "NEEDS_CLARIFICATION" {
		t.Error("CombineMode String values changed")
	}
	if IntentFactualLookup.String() != "FACTUAL_LOOKUP" || IntentList.String() != "LIST" ||
		IntentSynthesis.String() != "SYNTHESIS" || IntentComparison.String() != "COMPARISON" {
		t.Error("Intent String values changed")
	}
	if CombineMode(0).String() != "UNKNOWN" {
		t.Error("zero CombineMode should stringify as UNKNOWN")
	}
}

func TestResolvedQueryHasEntities(t *testing.T) {
	q := &ResolvedQuery{}
	if q.HasEntities() {
		t.Error("empty query should have no entities")
	}
	q.Drugs = []string{"pembrolizumab"}
	if !q.HasEntities() {
		t.Error("query with a drug should have entities")
	}
	q = &ResolvedQuery{Institutions: []string{"md anderson"}}
	if !q.HasEntities() {
		t.Error("query with an institution should have entities")
	}
	q = &ResolvedQuery{Identifiers: []string{"OA12.03"}, FreeText: []string{"elderly"}}
	if q.HasEntities() {
		t.Error("identifiers and free text are not entities")
	}
}
