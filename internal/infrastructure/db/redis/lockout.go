package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultMaxAttempts = 5
	defaultWindow      = 15 * time.Minute
)

// LoginLockout counts failed logins per username in a fixed window.
// Key format: lockout:<username>
type LoginLockout struct {
	client      *redis.Client
	maxAttempts int64
	window      time.Duration
}

// NewLoginLockout locks an account once maxAttempts failures happen within window.
func NewLoginLockout(client *redis.Client, maxAttempts int, window time.Duration) *LoginLockout {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	if window <= 0 {
		window = defaultWindow
	}
	return &LoginLockout{client: client, maxAttempts: int64(maxAttempts), window: window}
}

// IsLocked reports whether username reached the failure threshold.
func (l *LoginLockout) IsLocked(ctx context.Context, username string) (bool, error) {
	n, err := l.client.Get(ctx, l.key(username)).Int64()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("lockout check: %w", err)
	}
	return n >= l.maxAttempts, nil
}

// RecordFailure increments the counter. The window starts at the first
// failure; INCR and EXPIRE NX run in one MULTI so a counter never lives
// without a TTL.
func (l *LoginLockout) RecordFailure(ctx context.Context, username string) error {
	key := l.key(username)
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, key)
		pipe.ExpireNX(ctx, key, l.window)
		return nil
	})
	if err != nil {
		return fmt.Errorf("lockout record: %w", err)
	}
	return nil
}

// Reset clears the counter after a successful login.
func (l *LoginLockout) Reset(ctx context.Context, username string) error {
	return l.client.Del(ctx, l.key(username)).Err()
}

func (l *LoginLockout) key(username string) string {
	return "lockout:" + username
}
