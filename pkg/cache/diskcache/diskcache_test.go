package diskcache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/r9s-ai/ipx/pkg/cache"
)

func TestBackend_SetThenGet(t *testing.T) {
	b, err := Open(t.TempDir())
	require.NoError(t, err)
	defer b.Close()

	entry := cache.Entry{Bytes: []byte("data"), Format: "png"}
	require.NoError(t, b.Set(context.Background(), "k1", entry, time.Minute))

	got, ok, err := b.Get(context.Background(), "k1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, entry.Bytes, got.Bytes)
	assert.Equal(t, entry.Format, got.Format)
}

func TestBackend_GetMissingKey(t *testing.T) {
	b, err := Open(t.TempDir())
	require.NoError(t, err)
	defer b.Close()

	_, ok, err := b.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBackend_KeysAndDelete(t *testing.T) {
	b, err := Open(t.TempDir())
	require.NoError(t, err)
	defer b.Close()

	require.NoError(t, b.Set(context.Background(), "a", cache.Entry{Bytes: []byte("1")}, 0))
	require.NoError(t, b.Set(context.Background(), "b", cache.Entry{Bytes: []byte("2")}, 0))

	keys, err := b.Keys(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, keys)

	require.NoError(t, b.Delete(context.Background(), "a"))
	keys, err = b.Keys(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, keys)
}

func TestBackend_Stats(t *testing.T) {
	b, err := Open(t.TempDir())
	require.NoError(t, err)
	defer b.Close()

	require.NoError(t, b.Set(context.Background(), "a", cache.Entry{Bytes: []byte("abcd")}, 0))
	require.NoError(t, b.Set(context.Background(), "b", cache.Entry{Bytes: []byte("ab")}, 0))

	st, err := b.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, st.Count)
	assert.Greater(t, st.BytesUsed, int64(0))
}

func TestBackend_ImplementsManageable(t *testing.T) {
	var _ cache.Manageable = (*Backend)(nil)
}
