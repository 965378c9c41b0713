package repository

import (
	"context"

	"store-service/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InventoryRepo interface {
	// Upsert replaces quantity and unit for the same item at the same location.
	Upsert(ctx context.Context, inv *models.Inventory) error
	List(ctx context.Context, kind *models.ItemKind) ([]models.Inventory, error)
}

type inventoryRepo struct{ db *gorm.DB }

func NewInventoryRepo(db *gorm.DB) InventoryRepo { return &inventoryRepo{db: db} }

func (r *inventoryRepo) Upsert(ctx context.Context, inv *models.Inventory) error {
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}
	return r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(
			clause.OnConflict{
				OnConstraint: "ux_inventories_item_location",
				DoUpdates: clause.Assignments(map[string]any{
					"quantity":   gorm.Expr("EXCLUDED.quantity"),
					"unit":       gorm.Expr("EXCLUDED.unit"),
					"updated_at": gorm.Expr("now()"),
				}),
			},
			clause.Returning{Columns: []clause.Column{{Name: "id"}}},
		).
		Create(inv).Error
}

func (r *inventoryRepo) List(ctx context.Context, kind *models.ItemKind) ([]models.Inventory, error) {
	q := r.db.WithContext(ctx).Preload("Product").Preload("FarmTool")
	if kind != nil {
		q = q.Where("item_kind = ?", *kind)
	}
	var list []models.Inventory
	err := q.Order("location ASC").Order("updated_at DESC").Find(&list).Error
	return list, err
}
