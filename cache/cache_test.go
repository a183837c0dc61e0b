package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return New(client, 5*time.Minute), mr
}

func TestGetMissOnEmptyCache(t *testing.T) {
	c, _ := newTestCache(t)

	var dest []string
	hit, err := c.Get(context.Background(), "listings", map[string]string{"page": "1"}, &dest)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestSetThenGet(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()
	params := map[string]string{"status": "Available", "page": "1"}

	require.NoError(t, c.Set(ctx, "listings", params, []string{"a", "b"}))

	var dest []string
	hit, err := c.Get(ctx, "listings", params, &dest)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, []string{"a", "b"}, dest)
}

func TestEntryExpiresAfterTTL(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	params := map[string]string{"page": "1"}

	require.NoError(t, c.Set(ctx, "listings", params, "payload"))

	mr.FastForward(4*time.Minute + 59*time.Second)
	var dest string
	hit, err := c.Get(ctx, "listings", params, &dest)
	require.NoError(t, err)
	assert.True(t, hit, "entry just under the TTL should still be served")

	mr.FastForward(time.Second)
	hit, err = c.Get(ctx, "listings", params, &dest)
	require.NoError(t, err)
	assert.False(t, hit, "entry at the TTL should be treated as absent")
}

func TestClearScopedToCollection(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()
	params := map[string]string{"page": "1"}

	require.NoError(t, c.Set(ctx, "listings", params, "listings payload"))
	require.NoError(t, c.Set(ctx, "stats", params, "stats payload"))

	require.NoError(t, c.Clear(ctx, "listings"))

	var dest string
	hit, err := c.Get(ctx, "listings", params, &dest)
	require.NoError(t, err)
	assert.False(t, hit)

	hit, err = c.Get(ctx, "stats", params, &dest)
	require.NoError(t, err)
	assert.True(t, hit, "other collections must survive a scoped clear")
}

func TestClearEverything(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	params := map[string]string{"page": "1"}
	require.NoError(t, c.Set(ctx, "listings", params, "a"))
	require.NoError(t, c.Set(ctx, "stats", params, "b"))

	require.NoError(t, c.Clear(ctx))

	var dest string
	for _, col := range []string{"listings", "stats"} {
		hit, err := c.Get(ctx, col, params, &dest)
		require.NoError(t, err)
		assert.False(t, hit)
	}
}

func TestKeyDerivation(t *testing.T) {
	a := Key("listings", map[string]string{"page": "1", "status": "Available"})
	b := Key("listings", map[string]string{"status": "Available", "page": "1"})
	assert.Equal(t, a, b, "key must not depend on map iteration order")

	c := Key("listings", map[string]string{"page": "2", "status": "Available"})
	assert.NotEqual(t, a, c)

	d := Key("stats", map[string]string{"page": "1", "status": "Available"})
	assert.NotEqual(t, a, d)
	assert.Contains(t, a, "listings:")
	assert.Contains(t, d, "stats:")
}
