//go:build integration

package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"steamsync-api/internal/cache"
	"steamsync-api/internal/testutil/containers"
)

func TestRedisCache(t *testing.T) {
	ctx := context.Background()
	rc := containers.NewRedisContainer(t)

	c := cache.NewRedisCacheFromClient(rc.Client, "steamsync:test")
	require.NoError(t, c.Ping(ctx))

	_, err := c.Get(ctx, "steam:game:440")
	assert.ErrorIs(t, err, cache.ErrCacheMiss)

	require.NoError(t, c.Set(ctx, "steam:game:440", []byte(`{"appid":"440"}`), time.Minute))
	got, err := c.Get(ctx, "steam:game:440")
	require.NoError(t, err)
	assert.Equal(t, `{"appid":"440"}`, string(got))

	keys, err := rc.Client.Keys(ctx, "steamsync:test:*").Result()
	require.NoError(t, err)
	assert.Len(t, keys, 1)

	require.NoError(t, c.Delete(ctx, "steam:game:440"))
	_, err = c.Get(ctx, "steam:game:440")
	assert.ErrorIs(t, err, cache.ErrCacheMiss)
}

func TestRedisCache_Connect(t *testing.T) {
	ctx := context.Background()
	rc := containers.NewRedisContainer(t)

	c, err := cache.NewRedisCache(ctx, cache.RedisConfig{Addr: rc.Addr, KeyPrefix: "steamsync:test"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Second))
	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", string(got))
}
