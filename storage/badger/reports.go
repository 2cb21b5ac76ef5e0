package badger

import (
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/symposic/agendaquery/core"
	"github.com/symposic/agendaquery/storage"
)

// ReportCache implements storage.ReportCache for BadgerDB.
type ReportCache struct {
	backend *Backend
}

var _ storage.ReportCache = (*ReportCache)(nil)

// NewReportCache opens a BadgerDB-backed report cache at the given path.
//
// Returns storage.ReportCache interface to enforce abstraction.
func NewReportCache(filePath string) (storage.ReportCache, error) {
	backend, err := OpenBackend(filePath, false)
	if err != nil {
		return nil, err
	}
	return &ReportCache{backend: backend}, nil
}

// newReportCache wraps an existing backend. Used by tests.
func newReportCache(backend *Backend) *ReportCache {
	return &ReportCache{backend: backend}
}

// Close closes the underlying database.
func (c *ReportCache) Close() error {
	return c.backend.Close()
}

// GetReport retrieves a cached report by key.
func (c *ReportCache) GetReport(ctx context.Context, key core.ID) (*core.CachedReport, error) {
	if c.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	var report *core.CachedReport
	err := c.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeReportKey(key))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			report, err = storage.UnmarshalCachedReport(val)
			return err
		})
	}, false)
	if err != nil {
		return nil, err
	}
	return report, nil
}

// PutReport stores a report, overwriting any existing entry for its key.
func (c *ReportCache) PutReport(ctx context.Context, report *core.CachedReport) error {
	if c.backend.IsClosed() {
		return storage.ErrStorageClosed
	}
	if report.CreatedAt.IsZero() {
		report.CreatedAt = time.Now().UTC()
	}

	return c.backend.WithTx(func(tx *badger.Txn) error {
		value := storage.MarshalCachedReport(report)
		if err := tx.Set(makeReportKey(report.Key), value); err != nil {
			return err
		}

		// Corpus-version index entry enables PurgeCorpus scans
		corpusKey := makeReportCorpusKey(report.CorpusVersion, report.Key)
		if err := tx.Set(corpusKey, storage.MarshalID(report.Key)); err != nil {
			return err
		}

		return tx.Commit()
	}, true)
}

// PurgeCorpus removes all cached reports for a corpus version.
func (c *ReportCache) PurgeCorpus(ctx context.Context, corpusVersion core.ID) (int, error) {
	if c.backend.IsClosed() {
		return 0, storage.ErrStorageClosed
	}

	removed := 0
	err := c.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makePartialReportCorpusKey(corpusVersion)
		iter := tx.NewIterator(opts)

		var indexKeys [][]byte
		var reportKeys []core.ID
		for iter.Rewind(); iter.Valid(); iter.Next() {
			item := iter.Item()
			indexKeys = append(indexKeys, item.KeyCopy(nil))
			err := item.Value(func(val []byte) error {
				key, err := storage.UnmarshalID(val)
				if err != nil {
					return err
				}
				reportKeys = append(reportKeys, key)
				return nil
			})
			if err != nil {
				iter.Close()
				return err
			}
		}
		iter.Close()

		for i, reportKey := range reportKeys {
			if err := tx.Delete(makeReportKey(reportKey)); err != nil {
				return err
			}
			if err := tx.Delete(indexKeys[i]); err != nil {
				return err
			}
			removed++
		}

		return tx.Commit()
	}, true)
	if err != nil {
		return 0, err
	}
	return removed, nil
}
