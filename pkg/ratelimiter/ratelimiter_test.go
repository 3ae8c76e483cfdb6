package ratelimiter

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestCheckAndSetRateLimit(t *testing.T) {
	mr, rdb := newTestClient(t)
	ctx := context.Background()
	userID := uuid.New()

	allowed, err := CheckAndSetRateLimit(ctx, rdb, userID, "apply", 30*time.Second)
	require.NoError(t, err)
	assert.True(t, allowed)

	// Inside the cooldown the lock holds.
	allowed, err = CheckAndSetRateLimit(ctx, rdb, userID, "apply", 30*time.Second)
	require.NoError(t, err)
	assert.False(t, allowed)

	// A different action has its own lock.
	allowed, err = CheckAndSetRateLimit(ctx, rdb, userID, "message", time.Second)
	require.NoError(t, err)
	assert.True(t, allowed)

	mr.FastForward(time.Minute)
	allowed, err = CheckAndSetRateLimit(ctx, rdb, userID, "apply", 30*time.Second)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestClearRateLimitReleasesEarly(t *testing.T) {
	_, rdb := newTestClient(t)
	ctx := context.Background()
	userID := uuid.New()

	allowed, err := CheckAndSetRateLimit(ctx, rdb, userID, "apply", time.Hour)
	require.NoError(t, err)
	require.True(t, allowed)

	require.NoError(t, ClearRateLimit(ctx, rdb, userID, "apply"))

	allowed, err = CheckAndSetRateLimit(ctx, rdb, userID, "apply", time.Hour)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestNilClientDisablesLimiting(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	for i := 0; i < 3; i++ {
		allowed, err := CheckAndSetRateLimit(ctx, nil, userID, "apply", time.Hour)
		require.NoError(t, err)
		assert.True(t, allowed)
	}
	assert.NoError(t, ClearRateLimit(ctx, nil, userID, "apply"))
}

func TestGetDurationFromEnv(t *testing.T) {
	t.Setenv("RATE_LIMIT_TEST", "45s")
	assert.Equal(t, 45*time.Second, GetDurationFromEnv("RATE_LIMIT_TEST", time.Minute))

	t.Setenv("RATE_LIMIT_TEST", "not-a-duration")
	assert.Equal(t, time.Minute, GetDurationFromEnv("RATE_LIMIT_TEST", time.Minute))

	assert.Equal(t, time.Minute, GetDurationFromEnv("RATE_LIMIT_UNSET", time.Minute))
}
