package cache_test

import (
	"context"
	"errors"
	"testing"
	"time"
	"travelnest/infras/otel/mocks"
	"travelnest/shared/cache"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type hotelEntry struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func newCache(t *testing.T) (cache.RedisCache, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})

	t.Cleanup(func() { _ = client.Close() })

	return cache.NewRedisCache(client, mocks.NewOtel()), server
}

func TestSaveAndGet(t *testing.T) {
	redisCache, server := newCache(t)
	ctx := context.Background()

	require.NoError(t, redisCache.Save(ctx, "hotel:get:1", hotelEntry{ID: 1, Name: "Seaside"}, 60))

	var got hotelEntry
	require.NoError(t, redisCache.Get(ctx, "hotel:get:1", &got))
	assert.Equal(t, hotelEntry{ID: 1, Name: "Seaside"}, got)

	server.FastForward(61 * time.Second)

	err := redisCache.Get(ctx, "hotel:get:1", &got)
	assert.True(t, errors.Is(err, cache.Nil))
}

func TestGetString(t *testing.T) {
	redisCache, _ := newCache(t)
	ctx := context.Background()

	require.NoError(t, redisCache.Save(ctx, "plain", "value", 60))

	var got string
	require.NoError(t, redisCache.Get(ctx, "plain", &got))
	assert.Equal(t, "value", got)
}

func TestGetMissing(t *testing.T) {
	redisCache, _ := newCache(t)

	var got hotelEntry
	err := redisCache.Get(context.Background(), "missing", &got)

	assert.ErrorIs(t, err, cache.Nil)
}

func TestDeleteAndClear(t *testing.T) {
	redisCache, server := newCache(t)
	ctx := context.Background()

	for _, key := range []string{"room:gets:a", "room:gets:b", "room:get:1", "booking:gets:a"} {
		require.NoError(t, redisCache.Save(ctx, key, "x", 60))
	}

	require.NoError(t, redisCache.Delete(ctx, "room:get:1"))
	assert.False(t, server.Exists("room:get:1"))

	require.NoError(t, redisCache.Clear(ctx, "room:gets*"))
	assert.False(t, server.Exists("room:gets:a"))
	assert.False(t, server.Exists("room:gets:b"))
	assert.True(t, server.Exists("booking:gets:a"))

	require.NoError(t, redisCache.Clear(ctx, "nothing*"))
}

func TestIncrement(t *testing.T) {
	redisCache, server := newCache(t)
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		count, err := redisCache.Increment(ctx, "limiter:1.2.3.4", 10)
		require.NoError(t, err)
		assert.Equal(t, want, count)
	}

	assert.Equal(t, 10*time.Second, server.TTL("limiter:1.2.3.4"))

	server.FastForward(11 * time.Second)

	count, err := redisCache.Increment(ctx, "limiter:1.2.3.4", 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestPing(t *testing.T) {
	redisCache, server := newCache(t)

	assert.NoError(t, redisCache.Ping(context.Background()))

	server.Close()

	assert.Error(t, redisCache.Ping(context.Background()))
}
