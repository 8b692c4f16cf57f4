package kv

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	_, err := m.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, m.Set(ctx, "a:2", "two"))
	require.NoError(t, m.Set(ctx, "a:1", "one"))
	require.NoError(t, m.Set(ctx, "b:1", "other"))

	v, err := m.Get(ctx, "a:1")
	require.NoError(t, err)
	assert.Equal(t, "one", v)

	keys, err := m.Keys(ctx, "a:")
	require.NoError(t, err)
	assert.Equal(t, []string{"a:1", "a:2"}, keys)

	require.NoError(t, m.Delete(ctx, "a:1"))
	require.NoError(t, m.Delete(ctx, "a:1"), "deleting twice is fine")
	_, err = m.Get(ctx, "a:1")
	assert.ErrorIs(t, err, ErrNotFound)

	keys, err = m.Keys(ctx, "zzz")
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestKeysWithSuffix_FallsBackToPrefixScan(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	for _, k := range []string{"p:1-x-d1", "p:2-x-d2", "p:0-x-d1", "q:1-x-d1"} {
		require.NoError(t, m.Set(ctx, k, "v"))
	}

	keys, err := KeysWithSuffix(ctx, m, "p:", "-x-d1")
	require.NoError(t, err)
	assert.Equal(t, []string{"p:0-x-d1", "p:1-x-d1"}, keys)
}
