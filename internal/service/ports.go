package service

import (
	"context"

	"store-service/internal/models"

	"github.com/google/uuid"
)

// CartCache stores which lines a cart holds, without prices. A miss is (nil, nil).
type CartCache interface {
	GetCart(ctx context.Context, userID uuid.UUID) (*CachedCart, error)
	SetCart(ctx context.Context, userID uuid.UUID, c *CachedCart) error
	InvalidateCart(ctx context.Context, userID uuid.UUID) error
}

// NotificationPusher delivers a stored notification to live subscribers.
type NotificationPusher interface {
	Push(userID uuid.UUID, n models.Notification)
}

// SideEffects groups the optional post-commit collaborators. Any field may be nil.
type SideEffects struct {
	Events EventBus
	Pusher NotificationPusher
	Cache  CartCache
}

type StoreSettings struct {
	Currency string
	Carrier  string
}
