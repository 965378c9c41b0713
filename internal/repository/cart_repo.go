package repository

import (
	"context"
	"errors"
	"time"

	"store-service/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartRepo interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CartLine, error)
	// LockByUser serializes checkouts of the same cart.
	LockByUser(ctx context.Context, userID uuid.UUID) ([]models.CartLine, error)
	GetByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (*models.CartLine, error)
	// AddQuantity inserts the line or increments the existing one.
	AddQuantity(ctx context.Context, userID, productID uuid.UUID, qty int32) (*models.CartLine, error)
	DeleteForUser(ctx context.Context, id, userID uuid.UUID) (bool, error)
	DeleteByIDs(ctx context.Context, ids []uuid.UUID) (int64, error)
	// DeleteStale removes lines untouched since before and reports whose carts changed.
	DeleteStale(ctx context.Context, before time.Time) ([]uuid.UUID, int64, error)
}

type cartRepo struct{ db *gorm.DB }

func NewCartRepo(db *gorm.DB) CartRepo { return &cartRepo{db: db} }

func (r *cartRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CartLine, error) {
	var lines []models.CartLine
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("user_id = ?", userID).
		Order("created_at ASC").Order("id ASC").
		Find(&lines).Error
	return lines, err
}

func (r *cartRepo) LockByUser(ctx context.Context, userID uuid.UUID) ([]models.CartLine, error) {
	var lines []models.CartLine
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		Order("created_at ASC").Order("id ASC").
		Find(&lines).Error
	return lines, err
}

func (r *cartRepo) GetByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (*models.CartLine, error) {
	var line models.CartLine
	err := r.db.WithContext(ctx).First(&line, "user_id = ? AND product_id = ?", userID, productID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &line, err
}

func (r *cartRepo) AddQuantity(ctx context.Context, userID, productID uuid.UUID, qty int32) (*models.CartLine, error) {
	line := models.CartLine{
		ID:        uuid.New(),
		UserID:    userID,
		ProductID: productID,
		Quantity:  qty,
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"quantity":   gorm.Expr("cart_lines.quantity + EXCLUDED.quantity"),
				"updated_at": gorm.Expr("now()"),
			}),
		}).
		Create(&line).Error
	if err != nil {
		return nil, err
	}
	return r.GetByUserAndProduct(ctx, userID, productID)
}

func (r *cartRepo) DeleteForUser(ctx context.Context, id, userID uuid.UUID) (bool, error) {
	tx := r.db.WithContext(ctx).Delete(&models.CartLine{}, "id = ? AND user_id = ?", id, userID)
	return tx.RowsAffected > 0, tx.Error
}

func (r *cartRepo) DeleteByIDs(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	tx := r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&models.CartLine{})
	return tx.RowsAffected, tx.Error
}

func (r *cartRepo) DeleteStale(ctx context.Context, before time.Time) ([]uuid.UUID, int64, error) {
	var deleted []models.CartLine
	tx := r.db.WithContext(ctx).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "id"}, {Name: "user_id"}}}).
		Where("updated_at < ?", before).
		Delete(&deleted)
	if tx.Error != nil {
		return nil, 0, tx.Error
	}

	seen := make(map[uuid.UUID]struct{}, len(deleted))
	users := make([]uuid.UUID, 0, len(deleted))
	for _, l := range deleted {
		if _, ok := seen[l.UserID]; ok {
			continue
		}
		seen[l.UserID] = struct{}{}
		users = append(users, l.UserID)
	}
	return users, tx.RowsAffected, nil
}
