package cache

import (
	"context"
	"testing"
	"time"

	"github.com/fekuna/omnipos-catalog-service/internal/apperr"
	"github.com/fekuna/omnipos-catalog-service/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductLockKey(t *testing.T) {
	assert.Equal(t, "lock:product:42", ProductLockKey(42))
}

func TestNopLocker(t *testing.T) {
	release, err := NopLocker{}.Lock(context.Background(), ProductLockKey(1))

	require.NoError(t, err)
	require.NotNil(t, release)
	release()
}

func TestRedisLocker_UnreachableServer(t *testing.T) {
	client := NewRedisClient(&Config{Addr: "127.0.0.1:1", MaxRetries: -1})
	t.Cleanup(func() { client.Close() })
	locker := NewRedisLocker(client, time.Second, logger.NewNop())

	release, err := locker.Lock(context.Background(), ProductLockKey(1))

	assert.True(t, apperr.Is(err, apperr.KindConflict))
	require.NotNil(t, release)
	release()
}

func TestRedisLocker_ContextCancelled(t *testing.T) {
	client := NewRedisClient(&Config{Addr: "127.0.0.1:1", MaxRetries: -1})
	t.Cleanup(func() { client.Close() })
	locker := NewRedisLocker(client, time.Second, logger.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := locker.Lock(ctx, ProductLockKey(1))

	assert.ErrorIs(t, err, context.Canceled)
}
