package repository

import (
	"context"
	"errors"

	"store-service/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TrackingRepo interface {
	// TryCreate returns false when the tracking number is already taken.
	// ON CONFLICT keeps the surrounding transaction usable for a retry.
	TryCreate(ctx context.Context, t *models.DeliveryTracking) (bool, error)
	GetByOrderID(ctx context.Context, orderID uuid.UUID) (*models.DeliveryTracking, error)
	TransitionStatus(ctx context.Context, orderID uuid.UUID, from, to models.TrackingStatus, notes *string) (bool, error)
}

type trackingRepo struct{ db *gorm.DB }

func NewTrackingRepo(db *gorm.DB) TrackingRepo { return &trackingRepo{db: db} }

func (r *trackingRepo) TryCreate(ctx context.Context, t *models.DeliveryTracking) (bool, error) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	tx := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tracking_number"}},
			DoNothing: true,
		}).
		Create(t)
	return tx.RowsAffected > 0, tx.Error
}

func (r *trackingRepo) GetByOrderID(ctx context.Context, orderID uuid.UUID) (*models.DeliveryTracking, error) {
	var t models.DeliveryTracking
	err := r.db.WithContext(ctx).First(&t, "order_id = ?", orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &t, err
}

func (r *trackingRepo) TransitionStatus(ctx context.Context, orderID uuid.UUID, from, to models.TrackingStatus, notes *string) (bool, error) {
	upd := map[string]any{"status": to}
	if notes != nil {
		upd["notes"] = *notes
	}
	tx := r.db.WithContext(ctx).Model(&models.DeliveryTracking{}).
		Where("order_id = ? AND status = ?", orderID, from).
		Updates(upd)
	return tx.RowsAffected > 0, tx.Error
}
