package cache_test

import (
	"context"
	"testing"
	"time"

	"store-service/internal/cache"
	"store-service/internal/service"
	"store-service/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupRedis(t *testing.T) *cache.RedisClient {
	t.Helper()
	addr := testutil.SetupTestRedis(t)
	rc, err := cache.NewRedisClient(addr, "", 0, time.Minute, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = rc.Close() })
	return rc
}

func TestCartCache_RoundTripAndInvalidate(t *testing.T) {
	rc := setupRedis(t)
	ctx := context.Background()
	userID := uuid.New()

	got, err := rc.GetCart(ctx, userID)
	require.NoError(t, err)
	assert.Nil(t, got, "empty cache must be a miss")

	cart := &service.CachedCart{
		Lines: []service.CartEntry{{LineID: uuid.New(), ProductID: uuid.New(), Quantity: 2}},
	}
	require.NoError(t, rc.SetCart(ctx, userID, cart))

	got, err = rc.GetCart(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Len(t, got.Lines, 1)
	assert.Equal(t, cart.Lines[0], got.Lines[0])

	require.NoError(t, rc.InvalidateCart(ctx, userID))
	got, err = rc.GetCart(ctx, userID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCooldown_TryAcquire(t *testing.T) {
	rc := setupRedis(t)
	ctx := context.Background()

	ok, err := rc.TryAcquire(ctx, "checkout:u1", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = rc.TryAcquire(ctx, "checkout:u1", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok, "second acquire inside the window must fail")

	left, err := rc.Remaining(ctx, "checkout:u1")
	require.NoError(t, err)
	assert.Greater(t, left, time.Duration(0))

	ok, err = rc.TryAcquire(ctx, "checkout:u2", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok, "keys are independent")
}
