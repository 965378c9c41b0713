package repository

import (
	"context"
	"errors"

	"store-service/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FarmToolRepo interface {
	Create(ctx context.Context, t *models.FarmTool) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.FarmTool, error)
}

type farmToolRepo struct{ db *gorm.DB }

func NewFarmToolRepo(db *gorm.DB) FarmToolRepo { return &farmToolRepo{db: db} }

func (r *farmToolRepo) Create(ctx context.Context, t *models.FarmTool) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Select("*").Create(t).Error
}

func (r *farmToolRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.FarmTool, error) {
	var t models.FarmTool
	err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &t, err
}
