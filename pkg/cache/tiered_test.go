package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCache struct {
	store map[string]Entry
	sets  []string
}

func newStubCache() *stubCache {
	return &stubCache{store: map[string]Entry{}}
}

func (s *stubCache) Get(_ context.Context, key string) (Entry, bool, error) {
	e, ok := s.store[key]
	return e, ok, nil
}

func (s *stubCache) Set(_ context.Context, key string, entry Entry, ttl time.Duration) error {
	s.sets = append(s.sets, key)
	s.store[key] = entry
	return nil
}

type manageableStub struct {
	*stubCache
	keys    []string
	deleted []string
}

func (m *manageableStub) Keys(context.Context) ([]string, error) { return m.keys, nil }
func (m *manageableStub) Delete(_ context.Context, key string) error {
	m.deleted = append(m.deleted, key)
	return nil
}
func (m *manageableStub) Stats(context.Context) (Stats, error) {
	return Stats{Count: len(m.keys)}, nil
}

func TestTiered_GetBackfillsEarlierTiers(t *testing.T) {
	fast := newStubCache()
	slow := newStubCache()
	slow.store["k"] = Entry{Bytes: []byte("v"), Expiry: time.Now().Add(time.Hour)}

	tiered := NewTiered(fast, slow)
	entry, ok, err := tiered.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v"), entry.Bytes)

	_, fastHasIt, _ := fast.Get(context.Background(), "k")
	assert.True(t, fastHasIt, "a hit on a later tier should backfill the faster tier")
}

func TestTiered_GetMissFallsThroughAllTiers(t *testing.T) {
	tiered := NewTiered(newStubCache(), newStubCache())
	_, ok, err := tiered.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTiered_SetWritesToEveryTier(t *testing.T) {
	a, b := newStubCache(), newStubCache()
	tiered := NewTiered(a, b)

	require.NoError(t, tiered.Set(context.Background(), "k", Entry{Bytes: []byte("v")}, time.Minute))

	_, okA, _ := a.Get(context.Background(), "k")
	_, okB, _ := b.Get(context.Background(), "k")
	assert.True(t, okA)
	assert.True(t, okB)
}

type failingSetCache struct{ *stubCache }

func (f *failingSetCache) Set(context.Context, string, Entry, time.Duration) error {
	return errors.New("write failed")
}

func TestTiered_SetReturnsFirstError(t *testing.T) {
	failing := &failingSetCache{newStubCache()}
	ok := newStubCache()
	tiered := NewTiered(failing, ok)

	err := tiered.Set(context.Background(), "k", Entry{}, time.Minute)
	require.Error(t, err)

	_, wasSet, _ := ok.Get(context.Background(), "k")
	assert.True(t, wasSet, "later tiers should still be written even if an earlier tier fails")
}

func TestTiered_KeysDelegatesToLastManageableTier(t *testing.T) {
	fast := newStubCache()
	slow := &manageableStub{stubCache: newStubCache(), keys: []string{"a", "b"}}
	tiered := NewTiered(fast, slow)

	keys, err := tiered.Keys(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, keys)
}

func TestTiered_KeysNilWhenNoTierIsManageable(t *testing.T) {
	tiered := NewTiered(newStubCache(), newStubCache())
	keys, err := tiered.Keys(context.Background())
	require.NoError(t, err)
	assert.Nil(t, keys)
}

func TestTiered_DeleteFansOutToEveryManageableTier(t *testing.T) {
	m1 := &manageableStub{stubCache: newStubCache()}
	m2 := &manageableStub{stubCache: newStubCache()}
	tiered := NewTiered(m1, m2)

	require.NoError(t, tiered.Delete(context.Background(), "k"))
	assert.Equal(t, []string{"k"}, m1.deleted)
	assert.Equal(t, []string{"k"}, m2.deleted)
}

func TestTiered_StatsDelegatesToLastManageableTier(t *testing.T) {
	fast := newStubCache()
	slow := &manageableStub{stubCache: newStubCache(), keys: []string{"a", "b", "c"}}
	tiered := NewTiered(fast, slow)

	st, err := tiered.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, st.Count)
}
