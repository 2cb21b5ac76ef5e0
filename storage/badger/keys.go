package badger

import (
	"encoding/binary"
	"fmt"

	"github.com/symposic/agendaquery/core"
)

// Key prefixes for different data types
const (
	reportPrefix       = "narrep"
	reportCorpusPrefix = "narrepc"
)

// makeReportKey generates the primary key for a cached report.
func makeReportKey(key core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", reportPrefix, key))
}

// makeReportCorpusKey generates a composite key for the corpus-version index.
// Format: prefix:corpusVersion:reportKey
func makeReportCorpusKey(corpusVersion, reportKey core.ID) []byte {
	prefix := reportCorpusPrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 16 // 8 bytes for corpus version + 8 bytes for report key
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(corpusVersion))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(reportKey))
	return buf
}

// makePartialReportCorpusKey generates a partial key for corpus purge scans.
// Format: prefix:corpusVersion
func makePartialReportCorpusKey(corpusVersion core.ID) []byte {
	prefix := reportCorpusPrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 8 // 8 bytes for corpus version
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(corpusVersion))
	return buf
}
