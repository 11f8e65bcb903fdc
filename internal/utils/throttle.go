package utils

import (
	"context" // Context for Redis operations
	"strconv" // Counter parsing
	"strings" // Key normalisation
	"time"    // Window durations

	"github.com/redis/go-redis/v9" // Redis client
)

// Counter is the subset of *redis.Client used by LoginThrottle
type Counter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// LoginThrottle counts failed logins per email in Redis.
// A nil throttle, or one without a Redis client, allows everything.
type LoginThrottle struct {
	rdb    Counter       // Redis client
	max    int           // Failures allowed per window
	window time.Duration // Lifetime of a failure counter
}

// NewLoginThrottle returns a throttle allowing max failures per window
func NewLoginThrottle(rdb Counter, max int, window time.Duration) *LoginThrottle {
	if max <= 0 {
		max = 5 // Default attempts
	}
	if window <= 0 {
		window = 15 * time.Minute // Default window
	}
	return &LoginThrottle{rdb: rdb, max: max, window: window}
}

// throttleKey builds the Redis key for an email
func throttleKey(email string) string {
	return "login:fail:" + strings.ToLower(strings.TrimSpace(email))
}

// Allowed reports whether another login attempt may be made for email
func (t *LoginThrottle) Allowed(ctx context.Context, email string) (bool, error) {
	if t == nil || t.rdb == nil {
		return true, nil
	}
	val, err := t.rdb.Get(ctx, throttleKey(email)).Result() // Get current failure count
	if err == redis.Nil {
		return true, nil // No failures recorded
	} else if err != nil {
		return true, err // Redis error, caller decides
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return true, err
	}
	return n < t.max, nil
}

// RecordFailure increments the failure counter, starting the window on the first failure
func (t *LoginThrottle) RecordFailure(ctx context.Context, email string) error {
	if t == nil || t.rdb == nil {
		return nil
	}
	key := throttleKey(email)
	n, err := t.rdb.Incr(ctx, key).Result()
	if err != nil {
		return err
	}
	if n == 1 {
		return t.rdb.Expire(ctx, key, t.window).Err() // Window starts at the first failure
	}
	return nil
}

// Reset clears the failure counter after a successful login
func (t *LoginThrottle) Reset(ctx context.Context, email string) error {
	if t == nil || t.rdb == nil {
		return nil
	}
	return t.rdb.Del(ctx, throttleKey(email)).Err()
}
