// Package memcache implements cache.Cache on top of
// github.com/bradfitz/gomemcache, the de facto standard Memcached client
// for Go.
package memcache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/bradfitz/gomemcache/memcache"

	"github.com/r9s-ai/ipx/pkg/cache"
)

// Backend is a cache.Cache backed by one or more Memcached servers.
type Backend struct {
	client *memcache.Client
}

// New builds a Backend from a list of "host:port" server addresses.
func New(servers ...string) *Backend {
	return &Backend{client: memcache.New(servers...)}
}

func (b *Backend) Get(_ context.Context, key string) (cache.Entry, bool, error) {
	item, err := b.client.Get(key)
	if errors.Is(err, memcache.ErrCacheMiss) {
		return cache.Entry{}, false, nil
	}
	if err != nil {
		return cache.Entry{}, false, err
	}
	var entry cache.Entry
	if err := json.Unmarshal(item.Value, &entry); err != nil {
		return cache.Entry{}, false, err
	}
	return entry, true, nil
}

func (b *Backend) Set(_ context.Context, key string, entry cache.Entry, ttl time.Duration) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return b.client.Set(&memcache.Item{
		Key:        key,
		Value:      raw,
		Expiration: int32(ttl.Seconds()),
	})
}
