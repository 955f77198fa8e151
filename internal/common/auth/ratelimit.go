package auth

import (
	"context"
	"strings"
	"time"

	"loan-broker/internal/common/logger"

	"github.com/redis/go-redis/v9"
)

// LoginLimiter is a fixed-window attempt counter in Redis, keyed by e-mail address.
type LoginLimiter struct {
	client redis.Cmdable
	logger logger.Logger
	prefix string
	limit  int
	window time.Duration
}

// LoginDecision is the outcome of counting one attempt.
type LoginDecision struct {
	Allowed    bool
	Count      int
	RetryAfter time.Duration
}

func NewLoginLimiter(client redis.Cmdable, limit int, window time.Duration, log logger.Logger) *LoginLimiter {
	if window <= 0 {
		window = 15 * time.Minute
	}
	return &LoginLimiter{
		client: client,
		logger: log,
		prefix: "ratelimit:login:",
		limit:  limit,
		window: window,
	}
}

func (l *LoginLimiter) key(email string) string {
	return l.prefix + strings.ToLower(strings.TrimSpace(email))
}

// Allow counts an attempt for email. Redis failures let the attempt through.
func (l *LoginLimiter) Allow(ctx context.Context, email string) LoginDecision {
	if l.limit <= 0 {
		return LoginDecision{Allowed: true}
	}

	key := l.key(email)
	counter, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		l.logRedisError("incr", err)
		return LoginDecision{Allowed: true}
	}

	// A key without expiry (new, or left behind by a failed EXPIRE) gets the window applied.
	ttl, err := l.client.TTL(ctx, key).Result()
	if err != nil {
		l.logRedisError("ttl", err)
		ttl = l.window
	} else if ttl < 0 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			l.logRedisError("expire", err)
		}
		ttl = l.window
	}

	return LoginDecision{
		Allowed:    int(counter) <= l.limit,
		Count:      int(counter),
		RetryAfter: ttl,
	}
}

// Reset clears the counter after a successful login.
func (l *LoginLimiter) Reset(ctx context.Context, email string) {
	if err := l.client.Del(ctx, l.key(email)).Err(); err != nil {
		l.logRedisError("del", err)
	}
}

func (l *LoginLimiter) logRedisError(op string, err error) {
	if l.logger == nil {
		return
	}
	l.logger.Error("Login limiter redis error", map[string]interface{}{"op": op, "error": err.Error()})
}
