package locks

import (
	"context"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

// AccountLocker serializes the read-check-write sequence of corrections
// against a single (user, channel-or-partner) line, closing the window in
// which two concurrent corrections both pass the recency check.
type AccountLocker interface {
	// Acquire obtains the lock for a line key; release by calling the
	// returned function. ErrNotObtained when another correction holds it.
	Acquire(ctx context.Context, key string, ttl time.Duration) (release func(), err error)
}

// ErrNotObtained is returned when the lock is held elsewhere.
var ErrNotObtained = redislock.ErrNotObtained

// RedisAccountLocker implements AccountLocker on redislock.
type RedisAccountLocker struct {
	client *redislock.Client
}

// NewRedisAccountLocker builds a locker from a Redis URL.
func NewRedisAccountLocker(redisURL string) (*RedisAccountLocker, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	client := redis.NewClient(opts)
	return &RedisAccountLocker{client: redislock.New(client)}, nil
}

// LineKey builds the lock key for a supervisor's balance line.
func LineKey(supervisorID string, key string) string {
	return "floatledger:line:" + supervisorID + ":" + key
}

// Acquire implements AccountLocker. The lock is retried briefly so two
// near-simultaneous corrections queue instead of failing outright.
func (l *RedisAccountLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	lock, err := l.client.Obtain(ctx, key, ttl, &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(100*time.Millisecond), 5),
	})
	if err != nil {
		return nil, err
	}
	return func() {
		_ = lock.Release(context.WithoutCancel(ctx))
	}, nil
}

// NoopLocker is used when Redis is not configured; corrections then rely on
// the database transaction alone, the pre-lock behavior.
type NoopLocker struct{}

// Acquire trivially succeeds.
func (NoopLocker) Acquire(context.Context, string, time.Duration) (func(), error) {
	return func() {}, nil
}
