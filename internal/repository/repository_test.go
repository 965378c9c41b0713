package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"store-service/internal/migrate"
	"store-service/internal/models"
	"store-service/internal/repository"
	"store-service/internal/testutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db := testutil.SetupTestPostgres(t)
	if err := migrate.MigrateStoreDB(context.Background(), db, zap.NewNop(), migrate.DefaultMigrateOptions()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newProduct(t *testing.T, repo *repository.Repository, name string, price int64, stock int32) *models.Product {
	t.Helper()
	p := &models.Product{Name: name, PriceCents: price, Stock: stock, IsActive: true}
	if err := repo.Products.Create(context.Background(), p); err != nil {
		t.Fatalf("create product: %v", err)
	}
	return p
}

func TestProductRepo_DecrementStockIsConditional(t *testing.T) {
	db := setupDB(t)
	repo := repository.New(db)
	ctx := context.Background()

	p := newProduct(t, repo, "Carrots", 250, 3)

	ok, err := repo.Products.DecrementStock(ctx, p.ID, 2)
	if err != nil || !ok {
		t.Fatalf("DecrementStock(2): ok=%v err=%v", ok, err)
	}
	ok, err = repo.Products.DecrementStock(ctx, p.ID, 2)
	if err != nil {
		t.Fatalf("DecrementStock(2) again: %v", err)
	}
	if ok {
		t.Fatal("decrement below zero must not apply")
	}

	got, _ := repo.Products.GetByID(ctx, p.ID)
	if got.Stock != 1 {
		t.Fatalf("stock expected 1 got %d", got.Stock)
	}
}

func TestProductRepo_CreateKeepsInactiveFlag(t *testing.T) {
	db := setupDB(t)
	repo := repository.New(db)
	ctx := context.Background()

	p := &models.Product{Name: "Seasonal", PriceCents: 100, Stock: 0, IsActive: false}
	if err := repo.Products.Create(ctx, p); err != nil {
		t.Fatalf("Create: %v", err)
	}
	got, err := repo.Products.GetByID(ctx, p.ID)
	if err != nil || got == nil {
		t.Fatalf("GetByID: %v %v", got, err)
	}
	if got.IsActive {
		t.Fatal("is_active=false replaced by column default")
	}

	active := true
	list, total, err := repo.Products.List(ctx, repository.ProductListFilter{OnlyActive: &active})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 0 || len(list) != 0 {
		t.Fatalf("inactive product listed: total=%d", total)
	}

	missing, err := repo.Products.GetByID(ctx, uuid.New())
	if err != nil || missing != nil {
		t.Fatalf("GetByID(missing): %v %v", missing, err)
	}
}

func TestCartRepo_AddQuantityMergesLines(t *testing.T) {
	db := setupDB(t)
	repo := repository.New(db)
	ctx := context.Background()

	p := newProduct(t, repo, "Eggs", 400, 10)
	userID := uuid.New()

	if _, err := repo.Cart.AddQuantity(ctx, userID, p.ID, 2); err != nil {
		t.Fatalf("AddQuantity: %v", err)
	}
	line, err := repo.Cart.AddQuantity(ctx, userID, p.ID, 3)
	if err != nil {
		t.Fatalf("AddQuantity again: %v", err)
	}
	if line.Quantity != 5 {
		t.Fatalf("quantity expected 5 got %d", line.Quantity)
	}

	lines, err := repo.Cart.ListByUser(ctx, userID)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(lines) != 1 || lines[0].Product == nil || lines[0].Product.Name != "Eggs" {
		t.Fatalf("unexpected lines: %+v", lines)
	}

	if ok, _ := repo.Cart.DeleteForUser(ctx, line.ID, uuid.New()); ok {
		t.Fatal("another user deleted the line")
	}
	if ok, err := repo.Cart.DeleteForUser(ctx, line.ID, userID); err != nil || !ok {
		t.Fatalf("DeleteForUser: ok=%v err=%v", ok, err)
	}
}

func TestCartRepo_QuantityCheck(t *testing.T) {
	db := setupDB(t)
	repo := repository.New(db)

	p := newProduct(t, repo, "Milk", 120, 5)
	if _, err := repo.Cart.AddQuantity(context.Background(), uuid.New(), p.ID, 0); err == nil {
		t.Fatal("expected CHECK violation for quantity 0")
	}
}

func TestOrderRepo_NumberAndTransitions(t *testing.T) {
	db := setupDB(t)
	repo := repository.New(db)
	ctx := context.Background()

	userID := uuid.New()
	first := &models.Order{UserID: userID, Status: models.OrderStatusPending, CurrencyCode: "USD",
		ShippingAddress: "1 Farm Rd", ShippingCity: "Ames", ShippingCountry: "US"}
	second := &models.Order{UserID: userID, Status: models.OrderStatusPending, CurrencyCode: "USD",
		ShippingAddress: "1 Farm Rd", ShippingCity: "Ames", ShippingCountry: "US"}
	if err := repo.Orders.Create(ctx, first); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Orders.Create(ctx, second); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if first.Number == 0 || second.Number <= first.Number {
		t.Fatalf("order numbers not increasing: %d, %d", first.Number, second.Number)
	}

	latest, err := repo.Orders.LatestForUser(ctx, userID)
	if err != nil || latest == nil || latest.ID != second.ID {
		t.Fatalf("LatestForUser: %+v %v", latest, err)
	}

	ok, err := repo.Orders.TransitionStatus(ctx, first.ID, models.OrderStatusPending, models.OrderStatusProcessing)
	if err != nil || !ok {
		t.Fatalf("TransitionStatus: ok=%v err=%v", ok, err)
	}
	ok, err = repo.Orders.TransitionStatus(ctx, first.ID, models.OrderStatusPending, models.OrderStatusCancelled)
	if err != nil || ok {
		t.Fatalf("stale transition applied: ok=%v err=%v", ok, err)
	}

	list, total, err := repo.Orders.ListByUser(ctx, userID, 1, 0)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if total != 2 || len(list) != 1 || list[0].ID != second.ID {
		t.Fatalf("ListByUser: total=%d len=%d", total, len(list))
	}

	if other, _ := repo.Orders.GetByIDForUser(ctx, first.ID, uuid.New()); other != nil {
		t.Fatal("order visible to another user")
	}
}

func TestOrderItemRepo_SubtotalCheck(t *testing.T) {
	db := setupDB(t)
	repo := repository.New(db)
	ctx := context.Background()

	ord := &models.Order{UserID: uuid.New(), Status: models.OrderStatusPending, CurrencyCode: "USD",
		ShippingAddress: "a", ShippingCity: "b", ShippingCountry: "c"}
	if err := repo.Orders.Create(ctx, ord); err != nil {
		t.Fatalf("Create order: %v", err)
	}

	bad := &models.OrderItem{OrderID: ord.ID, ProductName: "X", Quantity: 2, UnitPriceCents: 100, SubtotalCents: 150}
	if err := repo.OrderItems.Create(ctx, bad); err == nil {
		t.Fatal("expected CHECK violation for subtotal")
	}

	good := &models.OrderItem{OrderID: ord.ID, ProductName: "X", Quantity: 2, UnitPriceCents: 100, SubtotalCents: 200}
	if err := repo.OrderItems.Create(ctx, good); err != nil {
		t.Fatalf("Create item: %v", err)
	}
	sum, err := repo.OrderItems.SumByOrder(ctx, ord.ID)
	if err != nil || sum != 200 {
		t.Fatalf("SumByOrder: %d %v", sum, err)
	}
}

func TestTrackingRepo_TryCreateReportsConflict(t *testing.T) {
	db := setupDB(t)
	repo := repository.New(db)
	ctx := context.Background()

	mk := func() *models.Order {
		o := &models.Order{UserID: uuid.New(), Status: models.OrderStatusPending, CurrencyCode: "USD",
			ShippingAddress: "a", ShippingCity: "b", ShippingCountry: "c"}
		if err := repo.Orders.Create(ctx, o); err != nil {
			t.Fatalf("Create order: %v", err)
		}
		return o
	}
	o1, o2 := mk(), mk()

	err := repo.WithTx(ctx, func(tx *repository.Repository) error {
		ok, err := tx.Trackings.TryCreate(ctx, &models.DeliveryTracking{OrderID: o1.ID, TrackingNumber: "TRK1", Status: models.TrackingPreparing})
		if err != nil || !ok {
			t.Fatalf("TryCreate first: ok=%v err=%v", ok, err)
		}
		ok, err = tx.Trackings.TryCreate(ctx, &models.DeliveryTracking{OrderID: o2.ID, TrackingNumber: "TRK1", Status: models.TrackingPreparing})
		if err != nil || ok {
			t.Fatalf("TryCreate duplicate: ok=%v err=%v", ok, err)
		}
		// transaction must still be usable after the conflict
		ok, err = tx.Trackings.TryCreate(ctx, &models.DeliveryTracking{OrderID: o2.ID, TrackingNumber: "TRK2", Status: models.TrackingPreparing})
		if err != nil || !ok {
			t.Fatalf("TryCreate retry: ok=%v err=%v", ok, err)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithTx: %v", err)
	}

	notes := "left the depot"
	ok, err := repo.Trackings.TransitionStatus(ctx, o1.ID, models.TrackingPreparing, models.TrackingInTransit, &notes)
	if err != nil || !ok {
		t.Fatalf("TransitionStatus: ok=%v err=%v", ok, err)
	}
	got, _ := repo.Trackings.GetByOrderID(ctx, o1.ID)
	if got.Status != models.TrackingInTransit || got.Notes != notes {
		t.Fatalf("unexpected tracking: %+v", got)
	}
}

func TestRepository_WithTxRollsBack(t *testing.T) {
	db := setupDB(t)
	repo := repository.New(db)
	ctx := context.Background()

	userID := uuid.New()
	boom := errors.New("boom")
	err := repo.WithTx(ctx, func(tx *repository.Repository) error {
		o := &models.Order{UserID: userID, Status: models.OrderStatusPending, CurrencyCode: "USD",
			ShippingAddress: "a", ShippingCity: "b", ShippingCountry: "c"}
		if err := tx.Orders.Create(ctx, o); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if o, _ := repo.Orders.LatestForUser(ctx, userID); o != nil {
		t.Fatal("order survived rollback")
	}
}

func TestCustomerRepo_RecordPurchaseAccumulates(t *testing.T) {
	db := setupDB(t)
	repo := repository.New(db)
	ctx := context.Background()

	userID := uuid.New()
	at := time.Now().UTC().Truncate(time.Second)

	if err := repo.Customers.RecordPurchase(ctx, repository.PurchaseRecord{UserID: userID, Email: "a@farm.test", Points: 2, At: at, PaymentMethod: "stripe"}); err != nil {
		t.Fatalf("RecordPurchase: %v", err)
	}
	if err := repo.Customers.RecordPurchase(ctx, repository.PurchaseRecord{UserID: userID, Points: 3, At: at.Add(time.Hour)}); err != nil {
		t.Fatalf("RecordPurchase again: %v", err)
	}

	c, err := repo.Customers.GetByUserID(ctx, userID)
	if err != nil || c == nil {
		t.Fatalf("GetByUserID: %v %v", c, err)
	}
	if c.LoyaltyPoints != 5 {
		t.Fatalf("loyalty expected 5 got %d", c.LoyaltyPoints)
	}
	if c.Email != "a@farm.test" || c.PreferredPaymentMethod != "stripe" {
		t.Fatalf("empty values overwrote stored ones: %+v", c)
	}
	if c.LastPurchase == nil || !c.LastPurchase.Equal(at.Add(time.Hour)) {
		t.Fatalf("last_purchase not updated: %v", c.LastPurchase)
	}

	if err := repo.Customers.SetPreferredPayment(ctx, userID, "paypal"); err != nil {
		t.Fatalf("SetPreferredPayment: %v", err)
	}
	c, _ = repo.Customers.GetByUserID(ctx, userID)
	if c.PreferredPaymentMethod != "paypal" || c.LoyaltyPoints != 5 {
		t.Fatalf("unexpected customer: %+v", c)
	}
}

func TestNotificationRepo_MarkReadOwnerOnly(t *testing.T) {
	db := setupDB(t)
	repo := repository.New(db)
	ctx := context.Background()

	userID := uuid.New()
	n := &models.Notification{UserID: userID, Type: models.NotificationSystem, Message: "hello"}
	if err := repo.Notifications.Create(ctx, n); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if cnt, _ := repo.Notifications.CountUnread(ctx, userID); cnt != 1 {
		t.Fatalf("unread expected 1 got %d", cnt)
	}
	if ok, _ := repo.Notifications.MarkRead(ctx, n.ID, uuid.New()); ok {
		t.Fatal("stranger marked notification read")
	}
	for i := 0; i < 2; i++ {
		ok, err := repo.Notifications.MarkRead(ctx, n.ID, userID)
		if err != nil || !ok {
			t.Fatalf("MarkRead #%d: ok=%v err=%v", i, ok, err)
		}
	}
	if cnt, _ := repo.Notifications.CountUnread(ctx, userID); cnt != 0 {
		t.Fatalf("unread expected 0 got %d", cnt)
	}

	deleted, err := repo.Notifications.DeleteReadBefore(ctx, time.Now().Add(time.Minute))
	if err != nil || deleted != 1 {
		t.Fatalf("DeleteReadBefore: %d %v", deleted, err)
	}
}

func TestInventoryRepo_UpsertTaggedVariant(t *testing.T) {
	db := setupDB(t)
	repo := repository.New(db)
	ctx := context.Background()

	p := newProduct(t, repo, "Wheat", 90, 100)
	tool := &models.FarmTool{Name: "Old Blue", ToolType: models.ToolTractor, IsOperational: true}
	if err := repo.FarmTools.Create(ctx, tool); err != nil {
		t.Fatalf("Create tool: %v", err)
	}

	pItem, _ := models.ProductItem(p.ID)
	tItem, _ := models.ToolItem(tool.ID)

	inv, _ := models.NewInventory(pItem, "silo", 40, "kg")
	if err := repo.Inventories.Upsert(ctx, inv); err != nil {
		t.Fatalf("Upsert product: %v", err)
	}
	again, _ := models.NewInventory(pItem, "silo", 55, "kg")
	if err := repo.Inventories.Upsert(ctx, again); err != nil {
		t.Fatalf("Upsert product again: %v", err)
	}
	toolInv, _ := models.NewInventory(tItem, "shed", 1, "pcs")
	if err := repo.Inventories.Upsert(ctx, toolInv); err != nil {
		t.Fatalf("Upsert tool: %v", err)
	}

	kind := models.ItemKindProduct
	list, err := repo.Inventories.List(ctx, &kind)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 || list[0].Quantity != 55 || list[0].Product == nil {
		t.Fatalf("unexpected product inventory: %+v", list)
	}

	all, _ := repo.Inventories.List(ctx, nil)
	if len(all) != 2 {
		t.Fatalf("expected 2 inventory rows got %d", len(all))
	}

	// both references set violates the variant CHECK
	bad := &models.Inventory{ID: uuid.New(), ItemKind: models.ItemKindProduct, ProductID: &p.ID, FarmToolID: &tool.ID, Location: "x"}
	if err := db.WithContext(ctx).Omit("Product", "FarmTool").Create(bad).Error; err == nil {
		t.Fatal("expected CHECK violation for a row with both references")
	}
}
