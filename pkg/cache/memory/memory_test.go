package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/r9s-ai/ipx/pkg/cache"
)

func TestBackend_SetThenGet(t *testing.T) {
	b := New(time.Minute)
	defer b.Close()

	entry := cache.Entry{Bytes: []byte("data"), Format: "jpeg"}
	require.NoError(t, b.Set(context.Background(), "k1", entry, time.Minute))

	got, ok, err := b.Get(context.Background(), "k1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, entry.Bytes, got.Bytes)
}

func TestBackend_GetMissingKey(t *testing.T) {
	b := New(time.Minute)
	defer b.Close()

	_, ok, err := b.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBackend_ZeroTTLNeverExpires(t *testing.T) {
	b := New(time.Minute)
	defer b.Close()

	require.NoError(t, b.Set(context.Background(), "forever", cache.Entry{Bytes: []byte("x")}, 0))

	_, ok, err := b.Get(context.Background(), "forever")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestBackend_ExpiredEntryIsNotReturned(t *testing.T) {
	b := New(time.Minute)
	defer b.Close()

	require.NoError(t, b.Set(context.Background(), "soon", cache.Entry{Bytes: []byte("x")}, time.Nanosecond))
	time.Sleep(2 * time.Millisecond)

	_, ok, err := b.Get(context.Background(), "soon")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBackend_KeysListsOnlyLive(t *testing.T) {
	b := New(time.Minute)
	defer b.Close()

	require.NoError(t, b.Set(context.Background(), "a", cache.Entry{}, 0))
	require.NoError(t, b.Set(context.Background(), "b", cache.Entry{}, time.Nanosecond))
	time.Sleep(2 * time.Millisecond)

	keys, err := b.Keys(context.Background())
	require.NoError(t, err)
	assert.Contains(t, keys, "a")
	assert.NotContains(t, keys, "b")
}

func TestBackend_DeleteRemovesKey(t *testing.T) {
	b := New(time.Minute)
	defer b.Close()

	require.NoError(t, b.Set(context.Background(), "a", cache.Entry{}, 0))
	require.NoError(t, b.Delete(context.Background(), "a"))

	_, ok, err := b.Get(context.Background(), "a")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBackend_StatsCountsBytes(t *testing.T) {
	b := New(time.Minute)
	defer b.Close()

	require.NoError(t, b.Set(context.Background(), "a", cache.Entry{Bytes: []byte("1234")}, 0))
	require.NoError(t, b.Set(context.Background(), "b", cache.Entry{Bytes: []byte("12")}, 0))

	st, err := b.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, st.Count)
	assert.EqualValues(t, 6, st.BytesUsed)
}

func TestBackend_ImplementsManageable(t *testing.T) {
	var _ cache.Manageable = (*Backend)(nil)
}
