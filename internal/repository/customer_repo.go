package repository

import (
	"context"
	"errors"
	"time"

	"store-service/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PurchaseRecord struct {
	UserID        uuid.UUID
	Email         string // empty keeps the stored value
	Points        int64
	At            time.Time
	PaymentMethod string // empty keeps the stored value
}

type CustomerRepo interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Customer, error)
	// RecordPurchase creates the customer or adds points in one statement.
	RecordPurchase(ctx context.Context, rec PurchaseRecord) error
	SetPreferredPayment(ctx context.Context, userID uuid.UUID, method string) error
}

type customerRepo struct{ db *gorm.DB }

func NewCustomerRepo(db *gorm.DB) CustomerRepo { return &customerRepo{db: db} }

func (r *customerRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Customer, error) {
	var c models.Customer
	err := r.db.WithContext(ctx).First(&c, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &c, err
}

func (r *customerRepo) RecordPurchase(ctx context.Context, rec PurchaseRecord) error {
	return r.db.WithContext(ctx).Exec(`
INSERT INTO customers (user_id, email, loyalty_points, last_purchase, preferred_payment_method, created_at, updated_at)
VALUES (@uid, @email, @pts, @at, @pm, now(), now())
ON CONFLICT (user_id) DO UPDATE
SET loyalty_points = customers.loyalty_points + EXCLUDED.loyalty_points,
    last_purchase  = EXCLUDED.last_purchase,
    email = CASE WHEN EXCLUDED.email <> '' THEN EXCLUDED.email ELSE customers.email END,
    preferred_payment_method = CASE WHEN EXCLUDED.preferred_payment_method <> ''
                                    THEN EXCLUDED.preferred_payment_method
                                    ELSE customers.preferred_payment_method END
`, map[string]any{
		"uid":   rec.UserID,
		"email": rec.Email,
		"pts":   rec.Points,
		"at":    rec.At,
		"pm":    rec.PaymentMethod,
	}).Error
}

func (r *customerRepo) SetPreferredPayment(ctx context.Context, userID uuid.UUID, method string) error {
	return r.db.WithContext(ctx).Exec(`
INSERT INTO customers (user_id, preferred_payment_method, created_at, updated_at)
VALUES (@uid, @pm, now(), now())
ON CONFLICT (user_id) DO UPDATE
SET preferred_payment_method = EXCLUDED.preferred_payment_method
`, map[string]any{
		"uid": userID,
		"pm":  method,
	}).Error
}
