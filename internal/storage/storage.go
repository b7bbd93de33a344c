package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dgraph-io/badger/v4"
)

const perftPrefix = "perft/"

// PerftResult is one cached perft count.
type PerftResult struct {
	FEN       string            `json:"fen"`
	Depth     int               `json:"depth"`
	Total     uint64            `json:"total"`
	Divide    map[string]uint64 `json:"divide,omitempty"`
	Elapsed   time.Duration     `json:"elapsed"`
	Timestamp time.Time         `json:"timestamp"`
}

// Storage wraps BadgerDB for persistent storage
type Storage struct {
	db *badger.DB
}

// NewStorage opens the cache in the platform data directory.
func NewStorage() (*Storage, error) {
	dbDir, err := GetCacheDir()
	if err != nil {
		return nil, err
	}
	return Open(dbDir)
}

// Open opens (creating if needed) the cache stored in dir.
func Open(dir string) (*Storage, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Disable logging
	return open(opts)
}

// OpenInMemory opens a cache that lives only as long as the process.
func OpenInMemory() (*Storage, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil
	return open(opts)
}

func open(opts badger.Options) (*Storage, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open perft cache: %w", err)
	}
	return &Storage{db: db}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func perftKey(fen string, depth int) []byte {
	return []byte(perftPrefix + strconv.Itoa(depth) + "/" + fen)
}

// SavePerft stores r under its position and depth, stamping the time.
func (s *Storage) SavePerft(r *PerftResult) error {
	if r.Timestamp.IsZero() {
		r.Timestamp = time.Now()
	}

	data, err := json.Marshal(r)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(perftKey(r.FEN, r.Depth), data)
	})
}

// LoadPerft returns the cached result for fen at depth. The boolean is
// false when nothing has been stored.
func (s *Storage) LoadPerft(fen string, depth int) (*PerftResult, bool, error) {
	var r *PerftResult

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(perftKey(fen, depth))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			r = &PerftResult{}
			return json.Unmarshal(val, r)
		})
	})
	if err != nil {
		return nil, false, fmt.Errorf("load perft %d %q: %w", depth, fen, err)
	}
	return r, r != nil, nil
}

// DeletePerft removes the cached result for fen at depth, if any.
func (s *Storage) DeletePerft(fen string, depth int) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(perftKey(fen, depth))
	})
}

// Results returns every cached result, ordered by key.
func (s *Storage) Results() ([]PerftResult, error) {
	var results []PerftResult

	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(perftPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var r PerftResult
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &r)
			})
			if err != nil {
				return fmt.Errorf("decode %q: %w", bytes.Clone(it.Item().Key()), err)
			}
			results = append(results, r)
		}
		return nil
	})
	return results, err
}

// Clear drops every cached result.
func (s *Storage) Clear() error {
	return s.db.DropPrefix([]byte(perftPrefix))
}
