package redisx

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAppliesTimeout(t *testing.T) {
	c := New("localhost:6379")
	assert.Equal(t, 2*time.Second, c.Options().ReadTimeout)
	assert.Equal(t, 2*time.Second, c.Options().WriteTimeout)
}

func testClient(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	c := New(addr)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestSetOnceClaimsExactlyOnce(t *testing.T) {
	c := testClient(t)
	ctx := context.Background()
	key := fmt.Sprintf(KeyIdemCheckout, uuid.NewString(), "req-1")

	ok, err := SetOnce(ctx, c, key, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = SetOnce(ctx, c, key, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	// Releasing the claim frees the key for a fresh attempt.
	require.NoError(t, c.Del(ctx, key).Err())
	ok, err = SetOnce(ctx, c, key, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}
