package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRedisAddr = "localhost:6379"

func setupCache(t *testing.T) *Cache {
	t.Helper()

	client := redis.NewClient(&redis.Options{Addr: testRedisAddr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		t.Skipf("Redis not available at %s: %v", testRedisAddr, err)
	}

	c := New(client, "test:"+t.Name()+":", time.Minute)
	t.Cleanup(func() {
		client.Del(context.Background(), c.prefix+"stats")
		client.Close()
	})
	return c
}

type payload struct {
	Count int     `json:"count"`
	Sum   float64 `json:"sum"`
}

func TestCache_SetGetDelete(t *testing.T) {
	c := setupCache(t)
	ctx := context.Background()

	var got payload
	found, err := c.Get(ctx, "stats", &got)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.Set(ctx, "stats", payload{Count: 2, Sum: 12.5}))

	found, err = c.Get(ctx, "stats", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, payload{Count: 2, Sum: 12.5}, got)

	require.NoError(t, c.Delete(ctx, "stats"))
	found, err = c.Get(ctx, "stats", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestConnect_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := Connect(ctx, Options{Addr: "127.0.0.1:1"})
	assert.Error(t, err)
}
