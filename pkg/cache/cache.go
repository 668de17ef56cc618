// Package cache defines the generic external key-value contract the
// request engine uses for the optional distributed image cache (§6), plus
// the backends that satisfy it.
package cache

import (
	"context"
	"time"

	"github.com/r9s-ai/ipx/internal/codec"
)

// Entry is one cached pipeline result, keyed externally by
// JSON({id, ...modifiers}).
type Entry struct {
	Bytes     []byte
	Format    string
	Meta      codec.Meta
	Timestamp time.Time
	Expiry    time.Time
}

// Cache is the interface every backend (memory, Redis, Memcached, disk,
// Tiered) implements. Set's ttl of 0 means "no expiry" where the backend
// supports it.
type Cache interface {
	Get(ctx context.Context, key string) (Entry, bool, error)
	Set(ctx context.Context, key string, entry Entry, ttl time.Duration) error
}

// Stats summarizes a backend's contents for the operator CLI.
type Stats struct {
	Count     int
	BytesUsed int64
}

// Manageable is the optional extension a backend implements when it can
// enumerate and evict its own keys. Memcached's wire protocol has no
// enumeration primitive, so memcache.Backend does not implement this.
type Manageable interface {
	Keys(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, key string) error
	Stats(ctx context.Context) (Stats, error)
}
