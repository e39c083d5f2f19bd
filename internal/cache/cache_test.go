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

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	return NewFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()})), mr
}

func TestClient_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestClient(t)

	require.NoError(t, c.Set(ctx, "user:1", []byte("alice"), time.Minute))
	got, err := c.Get(ctx, "user:1")
	require.NoError(t, err)
	assert.Equal(t, []byte("alice"), got)

	mr.FastForward(2 * time.Minute)
	got, err = c.Get(ctx, "user:1")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, c.Set(ctx, "a", []byte("1"), time.Minute))
	require.NoError(t, c.Set(ctx, "b", []byte("2"), time.Minute))
	require.NoError(t, c.Delete(ctx, "a", "b"))
	assert.False(t, mr.Exists("a"))
	assert.False(t, mr.Exists("b"))
}

func TestClient_JSON(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestClient(t)

	type stats struct{ Total int }
	c.SetJSON(ctx, "stats", stats{Total: 4}, time.Minute)

	var got stats
	assert.True(t, c.GetJSON(ctx, "stats", &got))
	assert.Equal(t, 4, got.Total)
	assert.False(t, c.GetJSON(ctx, "missing", &got))
}

func TestClient_FailSafe(t *testing.T) {
	ctx := context.Background()

	t.Run("nil client behaves like a miss", func(t *testing.T) {
		var c *Client
		got, err := c.Get(ctx, "k")
		assert.NoError(t, err)
		assert.Nil(t, got)
		assert.NoError(t, c.Set(ctx, "k", []byte("v"), time.Second))
		assert.NoError(t, c.Delete(ctx, "k"))
	})

	t.Run("unreachable redis behaves like a miss", func(t *testing.T) {
		c, mr := newTestClient(t)
		mr.Close()

		got, err := c.Get(ctx, "k")
		assert.NoError(t, err)
		assert.Nil(t, got)
		assert.NoError(t, c.Set(ctx, "k", []byte("v"), time.Second))
	})
}
