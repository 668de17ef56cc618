// Package rediscache implements cache.Cache on top of
// github.com/redis/go-redis/v9, JSON-encoding entries into plain string
// values so the same keys are inspectable with redis-cli.
package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/r9s-ai/ipx/pkg/cache"
)

// Backend is a cache.Cache backed by a single Redis instance.
type Backend struct {
	client *redis.Client
}

// New builds a Backend from a "host:port" address. db selects the Redis
// logical database index.
func New(addr string, db int) *Backend {
	return &Backend{client: redis.NewClient(&redis.Options{Addr: addr, DB: db})}
}

// NewFromClient wraps an already-configured client, e.g. one pointed at a
// Redis Sentinel or Cluster deployment.
func NewFromClient(client *redis.Client) *Backend {
	return &Backend{client: client}
}

func (b *Backend) Get(ctx context.Context, key string) (cache.Entry, bool, error) {
	raw, err := b.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return cache.Entry{}, false, nil
	}
	if err != nil {
		return cache.Entry{}, false, err
	}
	var entry cache.Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return cache.Entry{}, false, err
	}
	return entry, true, nil
}

func (b *Backend) Set(ctx context.Context, key string, entry cache.Entry, ttl time.Duration) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return b.client.Set(ctx, key, raw, ttl).Err()
}

// Close releases the underlying connection pool.
func (b *Backend) Close() error {
	return b.client.Close()
}

// Keys lists every key via an incremental SCAN, avoiding the KEYS
// command's full-keyspace block on a live instance.
func (b *Backend) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	var cursor uint64
	for {
		batch, next, err := b.client.Scan(ctx, cursor, "", 256).Result()
		if err != nil {
			return nil, err
		}
		keys = append(keys, batch...)
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return keys, nil
}

// Delete removes key, if present.
func (b *Backend) Delete(ctx context.Context, key string) error {
	return b.client.Del(ctx, key).Err()
}

// Stats reports the number of keys known to this Redis instance and the
// combined size of their serialized values. Computing exact byte usage
// requires visiting every key, so this is O(n) like Keys.
func (b *Backend) Stats(ctx context.Context) (cache.Stats, error) {
	keys, err := b.Keys(ctx)
	if err != nil {
		return cache.Stats{}, err
	}
	st := cache.Stats{Count: len(keys)}
	for _, k := range keys {
		if n, err := b.client.StrLen(ctx, k).Result(); err == nil {
			st.BytesUsed += n
		}
	}
	return st, nil
}
