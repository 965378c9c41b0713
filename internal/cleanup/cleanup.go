package cleanup

import (
	"context"
	"time"

	"store-service/internal/repository"
	"store-service/internal/service"

	"go.uber.org/zap"
)

type CleanupService struct {
	repo                  *repository.Repository
	notificationRetention time.Duration
	cartRetention         time.Duration
	cache                 service.CartCache
	log                   *zap.Logger
	now                   func() time.Time
}

// NewCleanupService accepts a nil cache.
func NewCleanupService(repo *repository.Repository, notificationRetention, cartRetention time.Duration, cache service.CartCache, log *zap.Logger) *CleanupService {
	return &CleanupService{
		repo:                  repo,
		notificationRetention: notificationRetention,
		cartRetention:         cartRetention,
		cache:                 cache,
		log:                   log,
		now:                   time.Now,
	}
}

// CleanupReadNotifications deletes read notifications older than the retention.
// Unread ones are kept regardless of age.
func (c *CleanupService) CleanupReadNotifications(ctx context.Context) error {
	if c.notificationRetention <= 0 {
		return nil
	}
	n, err := c.repo.Notifications.DeleteReadBefore(ctx, c.now().Add(-c.notificationRetention))
	if err != nil {
		c.log.Error("failed to cleanup read notifications", zap.Error(err))
		return err
	}
	if n > 0 {
		c.log.Info("cleaned up read notifications", zap.Int64("count", n))
	}
	return nil
}

// CleanupStaleCarts deletes cart lines nobody touched within the retention.
func (c *CleanupService) CleanupStaleCarts(ctx context.Context) error {
	if c.cartRetention <= 0 {
		return nil
	}
	users, n, err := c.repo.Cart.DeleteStale(ctx, c.now().Add(-c.cartRetention))
	if err != nil {
		c.log.Error("failed to cleanup stale cart lines", zap.Error(err))
		return err
	}
	if n > 0 {
		c.log.Info("cleaned up stale cart lines", zap.Int64("count", n), zap.Int("carts", len(users)))
	}
	if c.cache != nil {
		for _, u := range users {
			if err := c.cache.InvalidateCart(ctx, u); err != nil {
				c.log.Warn("cart cache invalidation failed", zap.String("user_id", u.String()), zap.Error(err))
			}
		}
	}
	return nil
}

func (c *CleanupService) RunFullCleanup(ctx context.Context) error {
	c.log.Info("starting full cleanup")

	if err := c.CleanupReadNotifications(ctx); err != nil {
		return err
	}
	if err := c.CleanupStaleCarts(ctx); err != nil {
		return err
	}

	c.log.Info("full cleanup completed")
	return nil
}
