// SPDX-License-Identifier: MIT

// Package snapshot persists parsed MRIO tables in an embedded BadgerDB so a
// restart with unchanged sources skips CSV parsing.
//
// Records are keyed by the source fingerprint (see ingest.Loader.Fingerprint)
// and stored as JSON. A record is only a cache: it is rebuilt through the
// table constructors on read, so every invariant of a freshly parsed table
// holds for a restored one too.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"

	"github.com/katalvlaran/mrio/ingest"
	"github.com/katalvlaran/mrio/producer"
	"github.com/katalvlaran/mrio/table"
)

const keyPrefix = "mrio/tables/"

// ErrNilTables indicates Put was called without both tables.
var ErrNilTables = errors.New("snapshot: tables are nil")

// Config holds configuration for a Store.
type Config struct {
	// Path is the BadgerDB directory. Ignored when InMemory is true.
	Path string

	// InMemory keeps everything in RAM. Used by tests.
	InMemory bool

	// SyncWrites fsyncs every write.
	SyncWrites bool

	// TTL expires records after this long; 0 keeps them until replaced.
	TTL time.Duration

	// Logger receives BadgerDB's internal log lines; nil silences them.
	Logger *zap.Logger
}

// DefaultConfig returns production defaults for path.
func DefaultConfig(path string) Config {
	return Config{Path: path, SyncWrites: true}
}

// InMemoryConfig returns a configuration for tests.
func InMemoryConfig() Config {
	return Config{InMemory: true}
}

// Store is a fingerprint → tables cache. Safe for concurrent use.
type Store struct {
	db     *badger.DB
	ttl    time.Duration
	logger *zap.Logger
}

// badgerLogger adapts zap to badger.Logger.
type badgerLogger struct{ s *zap.SugaredLogger }

func (l badgerLogger) Errorf(f string, a ...interface{})   { l.s.Errorf(f, a...) }
func (l badgerLogger) Warningf(f string, a ...interface{}) { l.s.Warnf(f, a...) }
func (l badgerLogger) Infof(f string, a ...interface{})    { l.s.Debugf(f, a...) }
func (l badgerLogger) Debugf(f string, a ...interface{})   { l.s.Debugf(f, a...) }

// Open opens (creating if needed) a Store.
func Open(cfg Config) (*Store, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("snapshot: path is required for a persistent store")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0o750); err != nil {
			return nil, fmt.Errorf("snapshot: create directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites).WithNumVersionsToKeep(1)

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
		opts = opts.WithLogger(nil)
	} else {
		opts = opts.WithLogger(badgerLogger{s: logger.Named("badger").Sugar()})
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("snapshot: open badger: %w", err)
	}

	return &Store{db: db, ttl: cfg.TTL, logger: logger}, nil
}

// Close flushes and closes the database.
func (s *Store) Close() error { return s.db.Close() }

// record is the persisted form of ingest.Tables.
type record struct {
	Stressors []string       `json:"stressors"`
	Producers []producer.Key `json:"producers"`
	S         [][]float64    `json:"s"`
	L         [][]float64    `json:"l"`
	SavedAt   time.Time      `json:"saved_at"`
}

// Put stores t under fingerprint, replacing any previous record.
func (s *Store) Put(fingerprint string, t *ingest.Tables) error {
	if t == nil || t.S == nil || t.L == nil {
		return ErrNilTables
	}
	rec := record{
		Stressors: t.S.Stressors(),
		Producers: t.L.Producers().Keys(),
		S:         t.S.Values(),
		L:         t.L.Values(),
		SavedAt:   time.Now().UTC(),
	}
	val, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("snapshot: encode: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(keyPrefix+fingerprint), val)
		if s.ttl > 0 {
			e = e.WithTTL(s.ttl)
		}
		return txn.SetEntry(e)
	})
	if err != nil {
		return fmt.Errorf("snapshot: put %s: %w", fingerprint, err)
	}
	s.logger.Debug("snapshot stored", zap.String("fingerprint", fingerprint), zap.Int("bytes", len(val)))

	return nil
}

// Get returns the tables stored under fingerprint. ok is false on a miss.
// A record that no longer decodes into valid tables is deleted and reported as a miss.
func (s *Store) Get(fingerprint string) (t *ingest.Tables, ok bool, err error) {
	var val []byte
	err = s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyPrefix + fingerprint))
		if err != nil {
			return err
		}
		val, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("snapshot: get %s: %w", fingerprint, err)
	}

	t, derr := decode(val)
	if derr != nil {
		s.logger.Warn("dropping unreadable snapshot", zap.String("fingerprint", fingerprint), zap.Error(derr))
		if err = s.Delete(fingerprint); err != nil {
			return nil, false, err
		}
		return nil, false, nil
	}

	return t, true, nil
}

// Delete removes the record for fingerprint; a missing record is not an error.
func (s *Store) Delete(fingerprint string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(keyPrefix + fingerprint))
	})
	if err != nil {
		return fmt.Errorf("snapshot: delete %s: %w", fingerprint, err)
	}

	return nil
}

// Prune deletes every record except keep and returns how many were removed.
func (s *Store) Prune(keep string) (int, error) {
	var stale [][]byte
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(keyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			k := it.Item().KeyCopy(nil)
			if string(k) != keyPrefix+keep {
				stale = append(stale, k)
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("snapshot: scan: %w", err)
	}
	if len(stale) == 0 {
		return 0, nil
	}

	wb := s.db.NewWriteBatch()
	defer wb.Cancel()
	for _, k := range stale {
		if err = wb.Delete(k); err != nil {
			return 0, fmt.Errorf("snapshot: prune: %w", err)
		}
	}
	if err = wb.Flush(); err != nil {
		return 0, fmt.Errorf("snapshot: prune: %w", err)
	}

	return len(stale), nil
}

func decode(val []byte) (*ingest.Tables, error) {
	var rec record
	if err := json.Unmarshal(val, &rec); err != nil {
		return nil, err
	}
	idx, err := producer.NewIndex(rec.Producers)
	if err != nil {
		return nil, err
	}
	st, err := table.NewStressorTable(rec.Stressors, idx, rec.S)
	if err != nil {
		return nil, err
	}
	l, err := table.NewLeontiefInverse(idx, idx, rec.L)
	if err != nil {
		return nil, err
	}

	return &ingest.Tables{S: st, L: l}, nil
}
