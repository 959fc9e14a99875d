package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
	"github.com/sangkips/dairy-coop-api/internal/config"
	"github.com/sirupsen/logrus"
)

// ErrNotObtained is returned when another process holds the lock for the whole wait budget
var ErrNotObtained = errors.New("sequence lock not obtained")

const retryInterval = 25 * time.Millisecond

// NewRedisClient connects to redis and verifies the connection with a ping
func NewRedisClient(ctx context.Context, cfg *config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: 20,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}
	return rdb, nil
}

// RedisSequenceLocker serializes identifier allocation per prefix across API processes
type RedisSequenceLocker struct {
	locker *redislock.Client
	ttl    time.Duration
	logger *logrus.Logger
}

// NewRedisSequenceLocker creates a locker whose locks expire after ttl. Waiting for a held lock
// never exceeds ttl either.
func NewRedisSequenceLocker(rdb *redis.Client, ttl time.Duration, logger *logrus.Logger) *RedisSequenceLocker {
	if ttl <= 0 {
		ttl = 2 * time.Second
	}
	return &RedisSequenceLocker{
		locker: redislock.New(rdb),
		ttl:    ttl,
		logger: logger,
	}
}

// Obtain takes the lock for key. The returned release func is safe to call more than once.
func (l *RedisSequenceLocker) Obtain(ctx context.Context, key string) (func(), error) {
	retries := int(l.ttl / retryInterval)
	lock, err := l.locker.Obtain(ctx, "lock:sequence:"+key, l.ttl, &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(retryInterval), retries),
	})
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, ErrNotObtained
	}
	if err != nil {
		return nil, err
	}

	released := false
	return func() {
		if released {
			return
		}
		released = true
		// Release with a fresh context: the request context may already be cancelled.
		if releaseErr := lock.Release(context.Background()); releaseErr != nil && !errors.Is(releaseErr, redislock.ErrLockNotHeld) {
			l.logger.WithFields(logrus.Fields{
				"module": "lock",
				"key":    key,
			}).Warn("failed to release sequence lock: " + releaseErr.Error())
		}
	}, nil
}
