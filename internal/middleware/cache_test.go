package middleware

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCacheRoundTrip(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()

	_, err := cache.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, cache.Set(ctx, "key", []byte("value"), time.Minute))

	got, err := cache.Get(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), got)

	require.NoError(t, cache.Del(ctx, "key"))
	_, err = cache.Get(ctx, "key")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryCacheExpiry(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "key", []byte("value"), -time.Second))

	_, err := cache.Get(ctx, "key")
	assert.ErrorIs(t, err, ErrCacheMiss)
}
