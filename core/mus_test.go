package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDMUSRoundTrip(t *testing.T) {
	for _, id := range []ID{0, 1, 255, 1 << 20, 1<<63 + 7} {
		buf := make([]byte, IDMUS.Size(id))
		n := IDMUS.Marshal(id, buf)
		assert.Equal(t, len(buf), n)

		got, read, err := IDMUS.Unmarshal(buf)
		require.NoError(t, err)
		assert.Equal(t, id, got)
		assert.Equal(t, n, read)
	}
}

func TestCachedReportMUSRoundTrip(t *testing.T) {
	report := CachedReport{
		Key:           IDFromContent("pembro today@v1"),
		CorpusVersion: IDFromContent("v1"),
		Query:         "pembro today",
		Narration:     "Three sessions present pembrolizumab data today.",
		CreatedAt:     time.Date(2025, time.October, 18, 9, 30, 0, 0, time.UTC),
	}

	buf := make([]byte, CachedReportMUS.Size(report))
	n := CachedReportMUS.Marshal(report, buf)
	require.Equal(t, len(buf), n)

	got, read, err := CachedReportMUS.Unmarshal(buf)
	require.NoError(t, err)
	assert.Equal(t, n, read)
	assert.Equal(t, report.Key, got.Key)
	assert.Equal(t, report.CorpusVersion, got.CorpusVersion)
	assert.Equal(t, report.Query, got.Query)
	assert.Equal(t, report.Narration, got.Narration)
	assert.True(t, report.CreatedAt.Equal(got.CreatedAt), "timestamps should survive the round trip")
}

func TestCachedReportMUSTruncated(t *testing.T) {
	report := CachedReport{
		Key:       42,
		Query:     "osimertinib",
		Narration: "narration text",
		CreatedAt: time.Now().UTC(),
	}
	buf := make([]byte, CachedReportMUS.Size(report))
	CachedReportMUS.Marshal(report, buf)

	_, _, err := CachedReportMUS.Unmarshal(buf[:3])
	assert.Error(t, err, "truncated input must not decode")
}
