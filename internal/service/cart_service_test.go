package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"store-service/internal/service"

	"github.com/google/uuid"
)

func TestCart_AddRespectsStockAndActiveFlag(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	userID := uuid.New()

	p := e.product(t, "Plums", 150, 3)

	if _, err := e.cart.AddToCart(ctx, userID, p.ID, 0); !errors.Is(err, service.ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
	if _, err := e.cart.AddToCart(ctx, userID, p.ID, 2); err != nil {
		t.Fatalf("AddToCart: %v", err)
	}
	// 2 + 2 > 3
	if _, err := e.cart.AddToCart(ctx, userID, p.ID, 2); !errors.Is(err, service.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
	line, err := e.cart.AddToCart(ctx, userID, p.ID, 1)
	if err != nil || line.Quantity != 3 {
		t.Fatalf("AddToCart to the limit: %+v %v", line, err)
	}

	off := false
	if _, err := e.catalog.UpdateProduct(ctx, p.ID, service.ProductPatch{IsActive: &off}); err != nil {
		t.Fatalf("UpdateProduct: %v", err)
	}
	if _, err := e.cart.AddToCart(ctx, uuid.New(), p.ID, 1); !errors.Is(err, service.ErrProductNotFound) {
		t.Fatalf("inactive product: expected ErrProductNotFound, got %v", err)
	}
}

// memoryCart wires the mock cache to a map so reads see earlier writes.
func memoryCart(m *MockCartCache) {
	var mu sync.Mutex
	store := map[uuid.UUID]*service.CachedCart{}
	m.GetCartFunc = func(_ context.Context, userID uuid.UUID) (*service.CachedCart, error) {
		mu.Lock()
		defer mu.Unlock()
		return store[userID], nil
	}
	m.SetCartFunc = func(_ context.Context, userID uuid.UUID, c *service.CachedCart) error {
		mu.Lock()
		defer mu.Unlock()
		store[userID] = c
		return nil
	}
	m.InvalidateCartFunc = func(_ context.Context, userID uuid.UUID) error {
		mu.Lock()
		defer mu.Unlock()
		delete(store, userID)
		return nil
	}
}

func TestCart_GetCartEmptyAndCached(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	userID := uuid.New()

	sum, err := e.cart.GetCart(ctx, userID)
	if err != nil || sum.TotalCents != 0 || !sum.IsEmpty() {
		t.Fatalf("empty cart: %+v %v", sum, err)
	}

	// a cached cart is still priced from the product rows
	p := e.product(t, "Walnuts", 700, 10)
	cached := &service.CachedCart{Lines: []service.CartEntry{{LineID: uuid.New(), ProductID: p.ID, Quantity: 3}}}
	e.cache.GetCartFunc = func(context.Context, uuid.UUID) (*service.CachedCart, error) { return cached, nil }
	got, err := e.cart.GetCart(ctx, userID)
	if err != nil || len(got.Lines) != 1 || got.TotalCents != 2100 || got.Lines[0].Name != "Walnuts" {
		t.Fatalf("cache not used: %+v %v", got, err)
	}

	// a broken cache falls back to the database
	e.cache.GetCartFunc = func(context.Context, uuid.UUID) (*service.CachedCart, error) { return nil, errors.New("redis down") }
	got, err = e.cart.GetCart(ctx, userID)
	if err != nil || got.TotalCents != 0 {
		t.Fatalf("fallback: %+v %v", got, err)
	}
}

func TestCart_CachedCartFollowsPriceChanges(t *testing.T) {
	e := newEnv(t)
	memoryCart(e.cache)
	ctx := context.Background()
	userID := uuid.New()

	p := e.product(t, "Cheese", 1000, 5)
	if _, err := e.cart.AddToCart(ctx, userID, p.ID, 1); err != nil {
		t.Fatalf("AddToCart: %v", err)
	}
	first, err := e.cart.GetCart(ctx, userID)
	if err != nil || first.TotalCents != 1000 {
		t.Fatalf("first read: %+v %v", first, err)
	}
	if c, _ := e.cache.GetCart(ctx, userID); c == nil {
		t.Fatal("expected the cart to be cached after the first read")
	}

	price := int64(2000)
	if _, err := e.catalog.UpdateProduct(ctx, p.ID, service.ProductPatch{PriceCents: &price}); err != nil {
		t.Fatalf("UpdateProduct: %v", err)
	}

	second, err := e.cart.GetCart(ctx, userID)
	if err != nil {
		t.Fatalf("second read: %v", err)
	}
	if second.TotalCents != 2000 || second.Lines[0].UnitPriceCents != 2000 {
		t.Fatalf("stale price after update: %+v", second)
	}

	ord, err := e.orders.PlaceOrder(ctx, userID, service.PlaceOrderInput{Shipping: shipping})
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}
	if ord.TotalPriceCents != second.TotalCents {
		t.Fatalf("order total %d differs from cart total %d", ord.TotalPriceCents, second.TotalCents)
	}
}

func TestCart_ConcurrentAddsNeverExceedStock(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	userID := uuid.New()

	p := e.product(t, "Saffron", 5000, 3)

	var wg sync.WaitGroup
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = e.cart.AddToCart(ctx, userID, p.ID, 1)
		}()
	}
	wg.Wait()

	sum, err := e.cart.GetCart(ctx, userID)
	if err != nil {
		t.Fatalf("GetCart: %v", err)
	}
	if len(sum.Lines) != 1 || sum.Lines[0].Quantity != 3 {
		t.Fatalf("cart line must stop at stock 3: %+v", sum.Lines)
	}
}

func TestCart_RemoveOwnLineOnly(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	userID := uuid.New()

	p := e.product(t, "Kale", 80, 9)
	line, err := e.cart.AddToCart(ctx, userID, p.ID, 1)
	if err != nil {
		t.Fatalf("AddToCart: %v", err)
	}

	if err := e.cart.RemoveFromCart(ctx, uuid.New(), line.ID); !errors.Is(err, service.ErrCartLineNotFound) {
		t.Fatalf("expected ErrCartLineNotFound, got %v", err)
	}
	before := e.cache.Invalidated
	if err := e.cart.RemoveFromCart(ctx, userID, line.ID); err != nil {
		t.Fatalf("RemoveFromCart: %v", err)
	}
	if e.cache.Invalidated != before+1 {
		t.Fatal("cache not invalidated on removal")
	}
}

func TestNotifications_ListCountMarkRead(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	userID := uuid.New()

	p := e.product(t, "Figs", 500, 5)
	e.putInCart(t, userID, p.ID, 1)
	if _, err := e.orders.PlaceOrder(ctx, userID, service.PlaceOrderInput{Shipping: shipping}); err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}

	list, total, err := e.notes.ListNotifications(ctx, userID, true, 10, 0)
	if err != nil || total != 1 || len(list) != 1 {
		t.Fatalf("ListNotifications: total=%d err=%v", total, err)
	}
	if err := e.notes.MarkRead(ctx, uuid.New(), list[0].ID); !errors.Is(err, service.ErrNotificationNotFound) {
		t.Fatalf("stranger: expected ErrNotificationNotFound, got %v", err)
	}
	if err := e.notes.MarkRead(ctx, userID, list[0].ID); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	if err := e.notes.MarkRead(ctx, userID, list[0].ID); err != nil {
		t.Fatalf("MarkRead is not idempotent: %v", err)
	}
	if n, _ := e.notes.UnreadCount(ctx, userID); n != 0 {
		t.Fatalf("unread expected 0 got %d", n)
	}
}
