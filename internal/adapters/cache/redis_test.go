package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMiniRedis(t *testing.T) (*miniredis.Miniredis, *RedisCache) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	c := newRedisCache(client, "premios:", zerolog.Nop())
	t.Cleanup(func() { _ = c.Close() })

	return mr, c
}

func TestRedisCache_SetGet(t *testing.T) {
	mr, c := setupMiniRedis(t)
	ctx := context.Background()

	c.Set(ctx, "test-key", []byte("test-value"), 5*time.Minute)

	assert.True(t, mr.Exists("premios:test-key"))

	got, ok := c.Get(ctx, "test-key")
	require.True(t, ok)
	assert.Equal(t, "test-value", string(got))

	stats := c.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Sets)
	assert.Equal(t, 1, stats.CurrentSize)
}

func TestRedisCache_Expiration(t *testing.T) {
	mr, c := setupMiniRedis(t)
	ctx := context.Background()

	c.Set(ctx, "k", []byte("v"), time.Second)
	mr.FastForward(2 * time.Second)

	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
	assert.Equal(t, int64(1), c.Stats().Misses)
}

func TestRedisCache_Delete(t *testing.T) {
	mr, c := setupMiniRedis(t)
	ctx := context.Background()

	c.Set(ctx, "k", []byte("v"), time.Minute)
	c.Delete(ctx, "k")

	assert.False(t, mr.Exists("premios:k"))
}

func TestRedisCache_ServerDown(t *testing.T) {
	mr, c := setupMiniRedis(t)
	ctx := context.Background()
	mr.Close()

	c.Set(ctx, "k", []byte("v"), time.Minute)
	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
	assert.Error(t, c.HealthCheck(ctx))
}

func TestNewRedisCache(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()

	c, err := NewRedisCache(context.Background(), RedisConfig{Addr: addr}, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, c.HealthCheck(context.Background()))
	require.NoError(t, c.Close())

	mr.Close()
	_, err = NewRedisCache(context.Background(), RedisConfig{Addr: addr}, zerolog.Nop())
	assert.Error(t, err)
}
