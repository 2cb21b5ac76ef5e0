// Copyright 2025 Symposic Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package corpus holds the read-only record set and its precomputed search
// text. A Store exposes immutable snapshots: queries read whichever snapshot
// was current when they started, and a reload swaps the snapshot pointer
// atomically so no query ever observes a half-rebuilt index.
package corpus

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/panjf2000/ants/v2"
	"github.com/symposic/agendaquery/core"
)

// Snapshot is one immutable generation of the corpus. It is safe to share
// read-only across concurrent queries.
type Snapshot struct {
	// Version is derived from record content, so identical corpora get
	// identical versions and narration cache entries survive restarts.
	Version core.ID
	Records []core.IndexedRecord

	byID map[string]int
}

// Len returns the number of records in the snapshot.
func (s *Snapshot) Len() int {
	return len(s.Records)
}

// ByID returns the indexed record with the given identifier.
func (s *Snapshot) ByID(id string) (*core.IndexedRecord, bool) {
	i, ok := s.byID[strings.ToUpper(strings.TrimSpace(id))]
	if !ok {
		return nil, false
	}
	return &s.Records[i], true
}

// Store owns the current corpus snapshot.
type Store struct {
	snapshot atomic.Pointer[Snapshot]
	reloadMu sync.Mutex // serializes reloads; readers never block
	pool     *ants.Pool
	logger   *slog.Logger
}

// Option configures a Store.
type Option func(*Store) error

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithPoolSize sets the worker pool size used for index precomputation.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(s *Store) error {
		if size < 1 {
			size = 1
		}
		if s.pool != nil {
			s.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		s.pool = pool
		return nil
	}
}

// NewStore creates an empty store. Snapshot returns ErrCorpusUnavailable
// until the first successful Load.
func NewStore(opts ...Option) (*Store, error) {
	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	s := &Store{
		pool:   pool,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			s.Release()
			return nil, err
		}
	}
	return s, nil
}

// Load validates the records, precomputes their search text, and installs
// the result as the current snapshot. Reloads are exclusive with each other;
// in-flight queries keep the snapshot they started with.
func (s *Store) Load(ctx context.Context, records []core.Record) (*Snapshot, error) {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	byID := make(map[string]int, len(records))
	var versionInput strings.Builder
	for i := range records {
		if err := core.ValidateRecord(&records[i]); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		key := strings.ToUpper(strings.TrimSpace(records[i].ID))
		if _, dup := byID[key]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateRecordID, records[i].ID)
		}
		byID[key] = i
		versionInput.WriteString(key)
		versionInput.WriteString("\x1f")
		versionInput.WriteString(records[i].Title)
		versionInput.WriteString("\x1e")
	}

	indexed, err := buildIndex(s.pool, records)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{
		Version: core.IDFromContent(versionInput.String()),
		Records: indexed,
		byID:    byID,
	}
	s.snapshot.Store(snap)

	s.logger.Info("corpus loaded",
		"records", len(records),
		"version", uint64(snap.Version))
	return snap, nil
}

// Snapshot returns the current corpus snapshot, or ErrCorpusUnavailable when
// no corpus has been loaded yet. The returned snapshot stays valid for the
// whole request even if a reload happens concurrently.
func (s *Store) Snapshot() (*Snapshot, error) {
	snap := s.snapshot.Load()
	if snap == nil {
		return nil, ErrCorpusUnavailable
	}
	return snap, nil
}

// Release frees the worker pool. The store should not be loaded again after
// Release, but existing snapshots remain usable.
func (s *Store) Release() {
	if s.pool != nil {
		s.pool.Release()
	}
}
