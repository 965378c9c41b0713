package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"store-service/internal/service"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type RedisClient struct {
	client  *redis.Client
	cartTTL time.Duration
	log     *zap.Logger
}

func NewRedisClient(addr, password string, db int, cartTTL time.Duration, log *zap.Logger) (*RedisClient, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Info("redis connected", zap.String("addr", addr))

	if cartTTL <= 0 {
		cartTTL = 5 * time.Minute
	}
	return &RedisClient{
		client:  rdb,
		cartTTL: cartTTL,
		log:     log,
	}, nil
}

func (r *RedisClient) Close() error {
	return r.client.Close()
}

// Cooldown

// TryAcquire sets key for ttl unless it is already held. It reports whether
// the caller got the slot.
func (r *RedisClient) TryAcquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return r.client.SetNX(ctx, "cooldown:"+key, "1", ttl).Result()
}

func (r *RedisClient) Remaining(ctx context.Context, key string) (time.Duration, error) {
	d, err := r.client.PTTL(ctx, "cooldown:"+key).Result()
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, nil
	}
	return d, nil
}

// Cart contents

func cartKey(userID uuid.UUID) string {
	return fmt.Sprintf("cart:%s", userID)
}

func (r *RedisClient) GetCart(ctx context.Context, userID uuid.UUID) (*service.CachedCart, error) {
	raw, err := r.client.Get(ctx, cartKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var c service.CachedCart
	if err := json.Unmarshal(raw, &c); err != nil {
		// a stale layout is a miss; drop it so the next read repopulates
		_ = r.client.Del(ctx, cartKey(userID)).Err()
		return nil, nil
	}
	return &c, nil
}

func (r *RedisClient) SetCart(ctx context.Context, userID uuid.UUID, c *service.CachedCart) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, cartKey(userID), raw, r.cartTTL).Err()
}

func (r *RedisClient) InvalidateCart(ctx context.Context, userID uuid.UUID) error {
	return r.client.Del(ctx, cartKey(userID)).Err()
}

var _ service.CartCache = (*RedisClient)(nil)
