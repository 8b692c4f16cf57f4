package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/iftar/internal/kv"
)

func newTestStore(t *testing.T, ttl time.Duration) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewStore(client, ttl), mr
}

func TestStore_GetSetDelete(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, 0)

	_, err := s.Get(ctx, "nope")
	assert.ErrorIs(t, err, kv.ErrNotFound)

	require.NoError(t, s.Set(ctx, "k", "v"))
	v, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", v)

	require.NoError(t, s.Delete(ctx, "k"))
	_, err = s.Get(ctx, "k")
	assert.ErrorIs(t, err, kv.ErrNotFound)
}

func TestStore_KeysByPrefix(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, 0)

	for _, k := range []string{"anchor:b", "anchor:a", "doses:1"} {
		require.NoError(t, s.Set(ctx, k, "x"))
	}
	keys, err := s.Keys(ctx, "anchor:")
	require.NoError(t, err)
	assert.Equal(t, []string{"anchor:a", "anchor:b"}, keys)
}

func TestStore_KeysWithSuffix(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, 0)

	for _, k := range []string{"anchor:1-MWL-2025-03-10", "anchor:2-MWL-2025-03-11", "anchor:*-MWL-2025-03-10", "doses:1-MWL-2025-03-10"} {
		require.NoError(t, s.Set(ctx, k, "x"))
	}
	keys, err := kv.KeysWithSuffix(ctx, s, "anchor:", "-MWL-2025-03-10")
	require.NoError(t, err)
	assert.Equal(t, []string{"anchor:*-MWL-2025-03-10", "anchor:1-MWL-2025-03-10"}, keys)

	keys, err = s.Keys(ctx, "anchor:*")
	require.NoError(t, err)
	assert.Equal(t, []string{"anchor:*-MWL-2025-03-10"}, keys, "prefix metacharacters are literal")
}

func TestStore_TTL(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestStore(t, time.Hour)

	require.NoError(t, s.Set(ctx, "k", "v"))
	mr.FastForward(2 * time.Hour)
	_, err := s.Get(ctx, "k")
	assert.ErrorIs(t, err, kv.ErrNotFound)
}

func TestInitRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	require.NoError(t, InitRedis(context.Background(), mr.Addr(), "", ""))
	assert.NotNil(t, Rdb)
	_ = Rdb.Close()
}
