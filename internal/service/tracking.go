package service

import (
	"context"
	"fmt"
	"time"

	"store-service/internal/models"
	"store-service/internal/repository"

	"github.com/nanorand/nanorand"
)

const maxIDAttempts = 5

var orderTransitions = map[models.OrderStatus][]models.OrderStatus{
	models.OrderStatusPending:    {models.OrderStatusProcessing, models.OrderStatusCancelled},
	models.OrderStatusProcessing: {models.OrderStatusShipped, models.OrderStatusCancelled},
	models.OrderStatusShipped:    {models.OrderStatusDelivered},
}

var trackingTransitions = map[models.TrackingStatus][]models.TrackingStatus{
	models.TrackingPreparing:      {models.TrackingInTransit, models.TrackingFailed},
	models.TrackingInTransit:      {models.TrackingOutForDelivery, models.TrackingFailed},
	models.TrackingOutForDelivery: {models.TrackingDelivered, models.TrackingFailed},
}

func canMove[S comparable](table map[S][]S, from, to S) bool {
	for _, s := range table[from] {
		if s == to {
			return true
		}
	}
	return false
}

// loyaltyPoints is floor(total / 10) in major units.
func loyaltyPoints(totalCents int64) int64 {
	if totalCents <= 0 {
		return 0
	}
	return totalCents / 1000
}

// uniqueID tries base first, then base with a random numeric suffix.
// insert reports false when the candidate collided.
func uniqueID(base string, exhausted error, insert func(candidate string) (bool, error)) (string, error) {
	candidate := base
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		if attempt > 0 {
			suffix, err := nanorand.Gen(6)
			if err != nil {
				return "", err
			}
			candidate = base + suffix
		}
		ok, err := insert(candidate)
		if err != nil {
			return "", err
		}
		if ok {
			return candidate, nil
		}
	}
	return "", exhausted
}

func trackingNumberBase(orderNumber int64, at time.Time) string {
	return fmt.Sprintf("TRK%d%d", orderNumber, at.Unix())
}

func createTracking(ctx context.Context, tx *repository.Repository, order *models.Order, carrier string, at time.Time) (*models.DeliveryTracking, error) {
	t := &models.DeliveryTracking{
		OrderID:   order.ID,
		Carrier:   carrier,
		Status:    models.TrackingPreparing,
		CreatedAt: at,
		UpdatedAt: at,
	}
	_, err := uniqueID(trackingNumberBase(order.Number, at), ErrTrackingNumberExhausted, func(candidate string) (bool, error) {
		t.TrackingNumber = candidate
		return tx.Trackings.TryCreate(ctx, t)
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}
