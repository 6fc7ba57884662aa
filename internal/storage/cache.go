package storage

import (
	"encoding/json"

	"github.com/dgraph-io/badger/v4"

	"chessadvisor/internal/eval"
)

// Cache is a persistent evaluation cache backed by BadgerDB. Entries are
// keyed by position hash plus the scoring fingerprint, so a model or weight
// change never serves stale scores.
type Cache struct {
	db *badger.DB
}

// Open opens (or creates) the cache at dir.
func Open(dir string) (*Cache, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Disable logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &Cache{db: db}, nil
}

// OpenInMemory opens a cache that lives only for the process lifetime.
func OpenInMemory() (*Cache, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &Cache{db: db}, nil
}

// Close closes the database.
func (c *Cache) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// Get looks up a cached evaluation. The second return is false on a miss or
// on an entry that no longer unmarshals.
func (c *Cache) Get(key string) (eval.Result, bool) {
	var result eval.Result
	found := false

	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			if err := json.Unmarshal(val, &result); err != nil {
				return nil // Treat a corrupt entry as a miss
			}
			found = true
			return nil
		})
	})
	if err != nil {
		return eval.Result{}, false
	}

	return result, found
}

// Put stores an evaluation under key.
func (c *Cache) Put(key string, result eval.Result) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}

	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}
