package core

import (
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// MUS serializers for the types that cross the storage boundary.
// Only cached narration reports are persisted; corpus records never are.

type idMUS struct{}

func (s idMUS) Marshal(v ID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(v), bs)
}

func (s idMUS) Unmarshal(bs []byte) (v ID, n int, err error) {
	u, n, err := varint.Uint64.Unmarshal(bs)
	return ID(u), n, err
}

func (s idMUS) Size(v ID) (size int) {
	return varint.Uint64.Size(uint64(v))
}

// IDMUS serializes IDs as varint-encoded uint64.
var IDMUS = idMUS{}

type cachedReportMUS struct{}

func (s cachedReportMUS) Marshal(v CachedReport, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Key, bs)
	n += IDMUS.Marshal(v.CorpusVersion, bs[n:])
	n += ord.String.Marshal(v.Query, bs[n:])
	n += ord.String.Marshal(v.Narration, bs[n:])
	n += varint.Int64.Marshal(v.CreatedAt.UnixMicro(), bs[n:])
	return n
}

func (s cachedReportMUS) Unmarshal(bs []byte) (v CachedReport, n int, err error) {
	var n1 int
	v.Key, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	v.CorpusVersion, n1, err = IDMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Query, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Narration, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	var micros int64
	micros, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.CreatedAt = time.UnixMicro(micros).UTC()
	return
}

func (s cachedReportMUS) Size(v CachedReport) (size int) {
	size = IDMUS.Size(v.Key)
	size += IDMUS.Size(v.CorpusVersion)
	size += ord.String.Size(v.Query)
	size += ord.String.Size(v.Narration)
	size += varint.Int64.Size(v.CreatedAt.UnixMicro())
	return size
}

// CachedReportMUS serializes cached narration reports.
// Timestamps are stored as Unix micros.
var CachedReportMUS = cachedReportMUS{}
