// Package cache provides the per-product locks taken around stock and price
// mutations.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-catalog-service/internal/apperr"
	"github.com/fekuna/omnipos-catalog-service/internal/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	lockAttempts  = 3
	lockRetryWait = 100 * time.Millisecond
)

type Locker interface {
	// Lock blocks until key is held or the attempts run out. The returned
	// release func is always safe to call.
	Lock(ctx context.Context, key string) (release func(), err error)
}

func ProductLockKey(productID int64) string {
	return fmt.Sprintf("lock:product:%d", productID)
}

type RedisLocker struct {
	client *RedisClient
	ttl    time.Duration
	logger logger.ZapLogger
}

func NewRedisLocker(client *RedisClient, ttl time.Duration, log logger.ZapLogger) *RedisLocker {
	return &RedisLocker{
		client: client,
		ttl:    ttl,
		logger: log,
	}
}

func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	value := uuid.New().String()

	for i := 0; i < lockAttempts; i++ {
		ok, err := l.client.AcquireLock(ctx, key, value, l.ttl)
		if err != nil {
			l.logger.Error("failed to acquire lock redis error", zap.String("key", key), zap.Error(err))
		}
		if ok {
			return func() {
				// The caller's ctx may already be cancelled.
				if err := l.client.ReleaseLock(context.Background(), key, value); err != nil {
					l.logger.Warn("failed to release lock", zap.String("key", key), zap.Error(err))
				}
			}, nil
		}

		select {
		case <-ctx.Done():
			return func() {}, ctx.Err()
		case <-time.After(lockRetryWait):
		}
	}

	return func() {}, apperr.Conflict("resource %s is busy, please try again later", key)
}

// NopLocker is used when Redis is disabled; row guards in the database still
// serialize stock updates.
type NopLocker struct{}

func (NopLocker) Lock(context.Context, string) (func(), error) {
	return func() {}, nil
}
