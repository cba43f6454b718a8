package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCacheSetGet(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	_, err := c.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, c.Set(ctx, "k1", "v1", 0))
	got, err := c.Get(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, "v1", got)
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k1", "v1", 10*time.Millisecond))
	time.Sleep(20 * time.Millisecond)

	_, err := c.Get(ctx, "k1")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryCacheDelete(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k1", "v1", 0))
	require.NoError(t, c.Set(ctx, "k2", "v2", 0))
	require.NoError(t, c.Delete(ctx, "k1", "k2"))

	_, err := c.Get(ctx, "k1")
	assert.ErrorIs(t, err, ErrCacheMiss)
	_, err = c.Get(ctx, "k2")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryCacheDeleteByPattern(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "bookings:acct:a1:organizer:p1", "x", 0))
	require.NoError(t, c.Set(ctx, "bookings:acct:a1:provider:p1", "y", 0))
	require.NoError(t, c.Set(ctx, "bookings:acct:a2:organizer:p1", "z", 0))

	require.NoError(t, c.DeleteByPattern(ctx, "bookings:acct:a1:"))

	_, err := c.Get(ctx, "bookings:acct:a1:organizer:p1")
	assert.ErrorIs(t, err, ErrCacheMiss)
	_, err = c.Get(ctx, "bookings:acct:a1:provider:p1")
	assert.ErrorIs(t, err, ErrCacheMiss)

	got, err := c.Get(ctx, "bookings:acct:a2:organizer:p1")
	require.NoError(t, err)
	assert.Equal(t, "z", got)
}
