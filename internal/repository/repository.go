package repository

import (
	"context"

	"gorm.io/gorm"
)

type Repository struct {
	DB            *gorm.DB
	Categories    CategoryRepo
	Products      ProductRepo
	Reviews       ReviewRepo
	Cart          CartRepo
	Orders        OrderRepo
	OrderItems    OrderItemRepo
	Trackings     TrackingRepo
	Payments      PaymentRepo
	Notifications NotificationRepo
	Customers     CustomerRepo
	FarmTools     FarmToolRepo
	Inventories   InventoryRepo
}

func buildRepository(db *gorm.DB) *Repository {
	return &Repository{
		DB:            db,
		Categories:    NewCategoryRepo(db),
		Products:      NewProductRepo(db),
		Reviews:       NewReviewRepo(db),
		Cart:          NewCartRepo(db),
		Orders:        NewOrderRepo(db),
		OrderItems:    NewOrderItemRepo(db),
		Trackings:     NewTrackingRepo(db),
		Payments:      NewPaymentRepo(db),
		Notifications: NewNotificationRepo(db),
		Customers:     NewCustomerRepo(db),
		FarmTools:     NewFarmToolRepo(db),
		Inventories:   NewInventoryRepo(db),
	}
}

func New(db *gorm.DB) *Repository { return buildRepository(db) }

// WithTx runs fn against a copy of every repo bound to one transaction.
// Returning an error rolls everything back.
func (r *Repository) WithTx(ctx context.Context, fn func(tx *Repository) error) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(buildRepository(tx))
	})
}
