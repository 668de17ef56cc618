// Package diskcache implements cache.Cache on an embedded
// github.com/dgraph-io/badger/v4 key-value store, grounded on the pack's
// badger-backed local image storage backend — here repurposed to persist
// transformed output across process restarts instead of originals.
package diskcache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/r9s-ai/ipx/pkg/cache"
)

// Backend is a cache.Cache backed by an on-disk Badger database.
type Backend struct {
	db *badger.DB
}

// Open opens (creating if necessary) a Badger database rooted at dir.
func Open(dir string) (*Backend, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Backend{db: db}, nil
}

func (b *Backend) Get(_ context.Context, key string) (cache.Entry, bool, error) {
	var entry cache.Entry
	var found bool
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &entry)
		})
	})
	if err != nil {
		return cache.Entry{}, false, err
	}
	return entry, found, nil
}

func (b *Backend) Set(_ context.Context, key string, entry cache.Entry, ttl time.Duration) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return b.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(key), raw)
		if ttl > 0 {
			e = e.WithTTL(ttl)
		}
		return txn.SetEntry(e)
	})
}

// Close releases the database's file handles.
func (b *Backend) Close() error {
	return b.db.Close()
}

// Keys lists every key currently stored.
func (b *Backend) Keys(_ context.Context) ([]string, error) {
	var keys []string
	err := b.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			keys = append(keys, string(it.Item().KeyCopy(nil)))
		}
		return nil
	})
	return keys, err
}

// Delete removes key, if present.
func (b *Backend) Delete(_ context.Context, key string) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

// Stats reports the number of entries and their combined encoded size.
func (b *Backend) Stats(_ context.Context) (cache.Stats, error) {
	var st cache.Stats
	err := b.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			st.Count++
			st.BytesUsed += it.Item().ValueSize()
		}
		return nil
	})
	return st, err
}
