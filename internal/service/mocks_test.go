package service_test

import (
	"context"
	"sync"

	"store-service/internal/models"
	"store-service/internal/service"

	"github.com/google/uuid"
)

// MockEventBus
type MockEventBus struct {
	PublishOrderPlacedFunc     func(ctx context.Context, e service.OrderPlacedEvent) error
	PublishPaymentRecordedFunc func(ctx context.Context, e service.PaymentRecordedEvent) error

	mu       sync.Mutex
	Placed   []service.OrderPlacedEvent
	Payments []service.PaymentRecordedEvent
}

func (m *MockEventBus) PublishOrderPlaced(ctx context.Context, e service.OrderPlacedEvent) error {
	m.mu.Lock()
	m.Placed = append(m.Placed, e)
	m.mu.Unlock()
	if m.PublishOrderPlacedFunc != nil {
		return m.PublishOrderPlacedFunc(ctx, e)
	}
	return nil
}

func (m *MockEventBus) PublishPaymentRecorded(ctx context.Context, e service.PaymentRecordedEvent) error {
	m.mu.Lock()
	m.Payments = append(m.Payments, e)
	m.mu.Unlock()
	if m.PublishPaymentRecordedFunc != nil {
		return m.PublishPaymentRecordedFunc(ctx, e)
	}
	return nil
}

// MockCartCache
type MockCartCache struct {
	GetCartFunc        func(ctx context.Context, userID uuid.UUID) (*service.CachedCart, error)
	SetCartFunc        func(ctx context.Context, userID uuid.UUID, c *service.CachedCart) error
	InvalidateCartFunc func(ctx context.Context, userID uuid.UUID) error

	mu          sync.Mutex
	Invalidated int
}

func (m *MockCartCache) GetCart(ctx context.Context, userID uuid.UUID) (*service.CachedCart, error) {
	if m.GetCartFunc != nil {
		return m.GetCartFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockCartCache) SetCart(ctx context.Context, userID uuid.UUID, c *service.CachedCart) error {
	if m.SetCartFunc != nil {
		return m.SetCartFunc(ctx, userID, c)
	}
	return nil
}

func (m *MockCartCache) InvalidateCart(ctx context.Context, userID uuid.UUID) error {
	m.mu.Lock()
	m.Invalidated++
	m.mu.Unlock()
	if m.InvalidateCartFunc != nil {
		return m.InvalidateCartFunc(ctx, userID)
	}
	return nil
}

// MockPusher
type MockPusher struct {
	mu     sync.Mutex
	Pushed []models.Notification
}

func (m *MockPusher) Push(_ uuid.UUID, n models.Notification) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Pushed = append(m.Pushed, n)
}
