package repository

import (
	"context"
	"errors"

	"store-service/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReviewRepo interface {
	// TryCreate reports false when the user already reviewed the product.
	TryCreate(ctx context.Context, rv *models.Review) (bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Review, error)
	ListApprovedByProduct(ctx context.Context, productID uuid.UUID, limit, offset int) ([]models.Review, int64, error)
	Approve(ctx context.Context, id uuid.UUID) (bool, error)
}

type reviewRepo struct{ db *gorm.DB }

func NewReviewRepo(db *gorm.DB) ReviewRepo { return &reviewRepo{db: db} }

func (r *reviewRepo) TryCreate(ctx context.Context, rv *models.Review) (bool, error) {
	if rv.ID == uuid.Nil {
		rv.ID = uuid.New()
	}
	tx := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "product_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).
		Create(rv)
	return tx.RowsAffected > 0, tx.Error
}

func (r *reviewRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	var rv models.Review
	err := r.db.WithContext(ctx).First(&rv, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &rv, err
}

func (r *reviewRepo) ListApprovedByProduct(ctx context.Context, productID uuid.UUID, limit, offset int) ([]models.Review, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Review{}).
		Where("product_id = ? AND is_approved", productID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []models.Review
	err := q.Order("created_at DESC").Order("id").Limit(limit).Offset(offset).Find(&list).Error
	return list, total, err
}

// Approve is idempotent; false means the review does not exist.
func (r *reviewRepo) Approve(ctx context.Context, id uuid.UUID) (bool, error) {
	tx := r.db.WithContext(ctx).Model(&models.Review{}).Where("id = ?", id).Update("is_approved", true)
	return tx.RowsAffected > 0, tx.Error
}
