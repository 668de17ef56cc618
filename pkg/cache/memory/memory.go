// Package memory implements a process-local cache.Cache backend: a
// sync.Map guarded by a background reaper that drops expired entries, the
// same single-key-at-a-time access pattern as the filesystem supplier's
// memoized descriptor.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/r9s-ai/ipx/pkg/cache"
)

type record struct {
	entry  cache.Entry
	expiry time.Time
	forever bool
}

// Backend is an in-process cache.Cache. Zero value is not usable; build one
// with New.
type Backend struct {
	store    sync.Map // string -> record
	reapStop chan struct{}
}

// New starts a Backend with a reaper goroutine sweeping expired keys at the
// given interval. Callers should invoke Close when the backend is no
// longer needed.
func New(reapEvery time.Duration) *Backend {
	if reapEvery <= 0 {
		reapEvery = time.Minute
	}
	b := &Backend{reapStop: make(chan struct{})}
	go b.reapLoop(reapEvery)
	return b
}

func (b *Backend) reapLoop(every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			b.reapOnce()
		case <-b.reapStop:
			return
		}
	}
}

func (b *Backend) reapOnce() {
	now := time.Now()
	b.store.Range(func(key, value any) bool {
		rec := value.(record)
		if !rec.forever && now.After(rec.expiry) {
			b.store.Delete(key)
		}
		return true
	})
}

// Close stops the reaper goroutine.
func (b *Backend) Close() {
	close(b.reapStop)
}

func (b *Backend) Get(_ context.Context, key string) (cache.Entry, bool, error) {
	v, ok := b.store.Load(key)
	if !ok {
		return cache.Entry{}, false, nil
	}
	rec := v.(record)
	if !rec.forever && time.Now().After(rec.expiry) {
		b.store.Delete(key)
		return cache.Entry{}, false, nil
	}
	return rec.entry, true, nil
}

func (b *Backend) Set(_ context.Context, key string, entry cache.Entry, ttl time.Duration) error {
	rec := record{entry: entry}
	if ttl <= 0 {
		rec.forever = true
	} else {
		rec.expiry = time.Now().Add(ttl)
	}
	b.store.Store(key, rec)
	return nil
}

// Keys lists every non-expired key currently stored.
func (b *Backend) Keys(_ context.Context) ([]string, error) {
	now := time.Now()
	var keys []string
	b.store.Range(func(k, v any) bool {
		rec := v.(record)
		if rec.forever || now.Before(rec.expiry) {
			keys = append(keys, k.(string))
		}
		return true
	})
	return keys, nil
}

// Delete removes key, if present.
func (b *Backend) Delete(_ context.Context, key string) error {
	b.store.Delete(key)
	return nil
}

// Stats reports the number of entries and their combined encoded size.
func (b *Backend) Stats(_ context.Context) (cache.Stats, error) {
	now := time.Now()
	var st cache.Stats
	b.store.Range(func(_, v any) bool {
		rec := v.(record)
		if rec.forever || now.Before(rec.expiry) {
			st.Count++
			st.BytesUsed += int64(len(rec.entry.Bytes))
		}
		return true
	})
	return st, nil
}
