package cache

import (
	"context"
	"time"
)

// Tiered composes backends read-through/write-through in the given order:
// Get checks each tier in turn and backfills earlier (faster) tiers on a
// hit from a later one; Set writes to every tier.
type Tiered struct {
	tiers []Cache
}

// NewTiered builds a Tiered cache from fastest to slowest tier.
func NewTiered(tiers ...Cache) *Tiered {
	return &Tiered{tiers: tiers}
}

func (t *Tiered) Get(ctx context.Context, key string) (Entry, bool, error) {
	for i, tier := range t.tiers {
		entry, ok, err := tier.Get(ctx, key)
		if err != nil {
			continue
		}
		if !ok {
			continue
		}
		for j := 0; j < i; j++ {
			_ = t.tiers[j].Set(ctx, key, entry, time.Until(entry.Expiry))
		}
		return entry, true, nil
	}
	return Entry{}, false, nil
}

func (t *Tiered) Set(ctx context.Context, key string, entry Entry, ttl time.Duration) error {
	var firstErr error
	for _, tier := range t.tiers {
		if err := tier.Set(ctx, key, entry, ttl); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Keys, Delete, and Stats report on the last (slowest, typically most
// complete) tier that implements Manageable.
func (t *Tiered) manageable() Manageable {
	for i := len(t.tiers) - 1; i >= 0; i-- {
		if m, ok := t.tiers[i].(Manageable); ok {
			return m
		}
	}
	return nil
}

func (t *Tiered) Keys(ctx context.Context) ([]string, error) {
	m := t.manageable()
	if m == nil {
		return nil, nil
	}
	return m.Keys(ctx)
}

func (t *Tiered) Delete(ctx context.Context, key string) error {
	var firstErr error
	for _, tier := range t.tiers {
		if m, ok := tier.(Manageable); ok {
			if err := m.Delete(ctx, key); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (t *Tiered) Stats(ctx context.Context) (Stats, error) {
	m := t.manageable()
	if m == nil {
		return Stats{}, nil
	}
	return m.Stats(ctx)
}
