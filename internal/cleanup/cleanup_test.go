package cleanup

import (
	"context"
	"testing"
	"time"

	"store-service/internal/migrate"
	"store-service/internal/models"
	"store-service/internal/repository"
	"store-service/internal/service"
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

func count(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	if err := db.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("count %T: %v", model, err)
	}
	return n
}

type recordingCache struct {
	invalidated []uuid.UUID
}

func (c *recordingCache) GetCart(context.Context, uuid.UUID) (*service.CachedCart, error) {
	return nil, nil
}

func (c *recordingCache) SetCart(context.Context, uuid.UUID, *service.CachedCart) error { return nil }

func (c *recordingCache) InvalidateCart(_ context.Context, userID uuid.UUID) error {
	c.invalidated = append(c.invalidated, userID)
	return nil
}

func TestCleanupReadNotifications_KeepsUnreadAndRecent(t *testing.T) {
	db := setupDB(t)
	repo := repository.New(db)
	ctx := context.Background()
	userID := uuid.New()
	old := time.Now().Add(-100 * 24 * time.Hour)

	rows := []models.Notification{
		{ID: uuid.New(), UserID: userID, Type: models.NotificationOrderUpdate, Message: "old read", IsRead: true, CreatedAt: old},
		{ID: uuid.New(), UserID: userID, Type: models.NotificationOrderUpdate, Message: "old unread", IsRead: false, CreatedAt: old},
		{ID: uuid.New(), UserID: userID, Type: models.NotificationOrderUpdate, Message: "new read", IsRead: true, CreatedAt: time.Now()},
	}
	if err := db.Create(&rows).Error; err != nil {
		t.Fatalf("seed notifications: %v", err)
	}

	svc := NewCleanupService(repo, 90*24*time.Hour, 0, nil, zap.NewNop())
	if err := svc.CleanupReadNotifications(ctx); err != nil {
		t.Fatalf("CleanupReadNotifications: %v", err)
	}

	var left []models.Notification
	if err := db.Order("message").Find(&left).Error; err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(left) != 2 || left[0].Message != "new read" || left[1].Message != "old unread" {
		t.Fatalf("unexpected survivors: %+v", left)
	}
}

func TestCleanupStaleCarts(t *testing.T) {
	db := setupDB(t)
	repo := repository.New(db)
	ctx := context.Background()

	p := &models.Product{Name: "Milk", PriceCents: 199, Stock: 10, IsActive: true}
	if err := repo.Products.Create(ctx, p); err != nil {
		t.Fatalf("create product: %v", err)
	}
	stale := time.Now().Add(-40 * 24 * time.Hour)
	staleUser, activeUser := uuid.New(), uuid.New()
	lines := []models.CartLine{
		{ID: uuid.New(), UserID: staleUser, ProductID: p.ID, Quantity: 1, CreatedAt: stale, UpdatedAt: stale},
		{ID: uuid.New(), UserID: activeUser, ProductID: p.ID, Quantity: 2},
	}
	if err := db.Omit("Product").Create(&lines).Error; err != nil {
		t.Fatalf("seed cart: %v", err)
	}

	carts := &recordingCache{}
	svc := NewCleanupService(repo, 0, 30*24*time.Hour, carts, zap.NewNop())
	if err := svc.RunFullCleanup(ctx); err != nil {
		t.Fatalf("RunFullCleanup: %v", err)
	}
	if n := count(t, db, &models.CartLine{}); n != 1 {
		t.Fatalf("cart lines left = %d, want 1", n)
	}
	if len(carts.invalidated) != 1 || carts.invalidated[0] != staleUser {
		t.Fatalf("expected only the stale cart to be invalidated, got %v", carts.invalidated)
	}
}

func TestScheduler_RunsJobsOnStart(t *testing.T) {
	db := setupDB(t)
	repo := repository.New(db)

	old := time.Now().Add(-10 * 24 * time.Hour)
	if err := db.Create(&models.Notification{
		ID: uuid.New(), UserID: uuid.New(), Type: models.NotificationSystem,
		Message: "read", IsRead: true, CreatedAt: old,
	}).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	s := NewScheduler(NewCleanupService(repo, 24*time.Hour, 24*time.Hour, nil, zap.NewNop()), zap.NewNop())
	s.Start(context.Background())
	defer s.Stop()

	deadline := time.Now().Add(5 * time.Second)
	for count(t, db, &models.Notification{}) != 0 {
		if time.Now().After(deadline) {
			t.Fatal("scheduler did not run the initial cleanup")
		}
		time.Sleep(20 * time.Millisecond)
	}
}
