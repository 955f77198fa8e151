package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"loan-broker/internal/common/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// redismock: command sequence
// ==========================

func TestLoginLimiter_FirstAttemptSetsWindow(t *testing.T) {
	db, mock := redismock.NewClientMock()
	l := NewLoginLimiter(db, 3, time.Minute, logger.NewTestLogger(t))

	mock.ExpectIncr("ratelimit:login:you@example.com").SetVal(1)
	mock.ExpectTTL("ratelimit:login:you@example.com").SetVal(-1)
	mock.ExpectExpire("ratelimit:login:you@example.com", time.Minute).SetVal(true)

	d := l.Allow(context.Background(), "  You@Example.com ")
	assert.True(t, d.Allowed)
	assert.Equal(t, 1, d.Count)
	assert.Equal(t, time.Minute, d.RetryAfter)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginLimiter_OverLimit(t *testing.T) {
	db, mock := redismock.NewClientMock()
	l := NewLoginLimiter(db, 3, time.Minute, logger.NewTestLogger(t))

	mock.ExpectIncr("ratelimit:login:a@b.co").SetVal(4)
	mock.ExpectTTL("ratelimit:login:a@b.co").SetVal(20 * time.Second)

	d := l.Allow(context.Background(), "a@b.co")
	assert.False(t, d.Allowed)
	assert.Equal(t, 20*time.Second, d.RetryAfter)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginLimiter_ReappliesLostWindow(t *testing.T) {
	db, mock := redismock.NewClientMock()
	l := NewLoginLimiter(db, 3, time.Minute, logger.NewTestLogger(t))

	// first attempt: EXPIRE fails, counter is left without a TTL
	mock.ExpectIncr("ratelimit:login:a@b.co").SetVal(1)
	mock.ExpectTTL("ratelimit:login:a@b.co").SetVal(-1)
	mock.ExpectExpire("ratelimit:login:a@b.co", time.Minute).SetErr(errors.New("i/o timeout"))

	// second attempt notices the missing TTL and sets it
	mock.ExpectIncr("ratelimit:login:a@b.co").SetVal(2)
	mock.ExpectTTL("ratelimit:login:a@b.co").SetVal(-1)
	mock.ExpectExpire("ratelimit:login:a@b.co", time.Minute).SetVal(true)

	ctx := context.Background()
	assert.True(t, l.Allow(ctx, "a@b.co").Allowed)
	d := l.Allow(ctx, "a@b.co")
	assert.True(t, d.Allowed)
	assert.Equal(t, 2, d.Count)
	assert.Equal(t, time.Minute, d.RetryAfter)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginLimiter_FailsOpen(t *testing.T) {
	db, mock := redismock.NewClientMock()
	l := NewLoginLimiter(db, 3, time.Minute, logger.NewTestLogger(t))

	mock.ExpectIncr("ratelimit:login:a@b.co").SetErr(errors.New("connection refused"))

	d := l.Allow(context.Background(), "a@b.co")
	assert.True(t, d.Allowed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ==========================
// miniredis: window behaviour
// ==========================

func TestLoginLimiter_WindowResets(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	l := NewLoginLimiter(client, 2, time.Minute, logger.NewNoOpLogger())
	ctx := context.Background()

	assert.True(t, l.Allow(ctx, "x@y.co").Allowed)
	assert.True(t, l.Allow(ctx, "x@y.co").Allowed)
	assert.False(t, l.Allow(ctx, "x@y.co").Allowed)

	// other addresses are counted separately
	assert.True(t, l.Allow(ctx, "z@y.co").Allowed)

	mr.FastForward(61 * time.Second)
	assert.True(t, l.Allow(ctx, "x@y.co").Allowed)

	l.Reset(ctx, "x@y.co")
	assert.False(t, mr.Exists("ratelimit:login:x@y.co"))
}

func TestLoginLimiter_CounterWithoutTTLExpires(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	l := NewLoginLimiter(client, 2, time.Minute, logger.NewNoOpLogger())
	ctx := context.Background()

	// a stale counter with no expiry would otherwise lock the address out forever
	require.NoError(t, mr.Set("ratelimit:login:x@y.co", "5"))
	assert.False(t, l.Allow(ctx, "x@y.co").Allowed)
	assert.Equal(t, time.Minute, mr.TTL("ratelimit:login:x@y.co"))

	mr.FastForward(61 * time.Second)
	assert.True(t, l.Allow(ctx, "x@y.co").Allowed)
}

func TestLoginLimiter_Disabled(t *testing.T) {
	l := NewLoginLimiter(nil, 0, time.Minute, nil)
	assert.True(t, l.Allow(context.Background(), "a@b.co").Allowed)
}
