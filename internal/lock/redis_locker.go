package lock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "reservation:room-lock:"

// releaseScript deletes the lock only if it still holds our token, so an
// expired holder cannot free a lock someone else has since taken.
var releaseScript = redis.NewScript(`
	if redis.call('GET', KEYS[1]) == ARGV[1] then
		return redis.call('DEL', KEYS[1])
	end
	return 0
`)

// extendScript pushes the expiry forward only while we still hold the lock.
var extendScript = redis.NewScript(`
	if redis.call('GET', KEYS[1]) == ARGV[1] then
		return redis.call('PEXPIRE', KEYS[1], ARGV[2])
	end
	return 0
`)

// RedisRoomLocker is a cluster-wide room lock on a single Redis node. The
// key expires after ttl so a crashed holder cannot block a room forever; a
// live holder renews it every ttl/3 until unlock.
type RedisRoomLocker struct {
	rdb    redis.UniversalClient
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisRoomLocker creates a new RedisRoomLocker.
func NewRedisRoomLocker(rdb redis.UniversalClient, ttl time.Duration, logger *zap.Logger) *RedisRoomLocker {
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	return &RedisRoomLocker{rdb: rdb, ttl: ttl, logger: logger}
}

// Lock polls SET NX PX with exponential backoff for at most one ttl.
func (l *RedisRoomLocker) Lock(ctx context.Context, roomID int64) (func(), error) {
	key := fmt.Sprintf("%s%d", keyPrefix, roomID)
	token := uuid.NewString()

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 20 * time.Millisecond
	b.MaxInterval = 250 * time.Millisecond
	b.MaxElapsedTime = l.ttl

	err := backoff.Retry(func() error {
		ok, err := l.rdb.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return backoff.Permanent(err)
		}
		if !ok {
			return ErrNotAcquired
		}
		return nil
	}, backoff.WithContext(b, ctx))
	if err != nil {
		if errors.Is(err, ErrNotAcquired) || ctx.Err() != nil {
			return nil, errors.Join(ErrNotAcquired, err)
		}
		return nil, fmt.Errorf("acquire room lock: %w", err)
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	go l.keepAlive(key, token, roomID, stop, done)

	var once sync.Once
	return func() {
		once.Do(func() {
			close(stop)
			<-done

			rctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := releaseScript.Run(rctx, l.rdb, []string{key}, token).Err(); err != nil {
				l.logger.Warn("failed to release room lock",
					zap.Int64("room_id", roomID), zap.Error(err))
			}
		})
	}, nil
}

// keepAlive renews the lease until stop is closed or the lease is lost.
func (l *RedisRoomLocker) keepAlive(key, token string, roomID int64, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	interval := l.ttl / 3
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), interval)
			n, err := extendScript.Run(ctx, l.rdb, []string{key}, token, l.ttl.Milliseconds()).Int()
			cancel()
			if err != nil {
				l.logger.Warn("failed to renew room lock",
					zap.Int64("room_id", roomID), zap.Error(err))
				continue
			}
			if n == 0 {
				l.logger.Error("room lock lost before release",
					zap.Int64("room_id", roomID))
				return
			}
		}
	}
}
