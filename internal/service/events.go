package service

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type OrderItemEvent struct {
	ProductID     *uuid.UUID `json:"product_id,omitempty"`
	Name          string     `json:"name"`
	Quantity      int32      `json:"quantity"`
	PriceCents    int64      `json:"price_cents"`
	SubtotalCents int64      `json:"subtotal_cents"`
}

type OrderPlacedEvent struct {
	OrderID        uuid.UUID        `json:"order_id"`
	OrderNumber    int64            `json:"order_number"`
	UserID         uuid.UUID        `json:"user_id"`
	Email          string           `json:"email,omitempty"`
	Items          []OrderItemEvent `json:"items"`
	TotalCents     int64            `json:"total_cents"`
	Currency       string           `json:"currency"`
	TrackingNumber string           `json:"tracking_number"`
	LoyaltyPoints  int64            `json:"loyalty_points_earned"`
	PlacedAt       time.Time        `json:"placed_at"`
}

type PaymentRecordedEvent struct {
	OrderID       uuid.UUID `json:"order_id"`
	OrderNumber   int64     `json:"order_number"`
	UserID        uuid.UUID `json:"user_id"`
	Email         string    `json:"email,omitempty"`
	TransactionID string    `json:"transaction_id"`
	Method        string    `json:"method"`
	Gateway       string    `json:"gateway"`
	Status        string    `json:"status"`
	AmountCents   int64     `json:"amount_cents"`
	Currency      string    `json:"currency"`
	RecordedAt    time.Time `json:"recorded_at"`
}

// EventBus receives events after the owning transaction committed.
// A nil EventBus disables publishing.
type EventBus interface {
	PublishOrderPlaced(ctx context.Context, e OrderPlacedEvent) error
	PublishPaymentRecorded(ctx context.Context, e PaymentRecordedEvent) error
}
