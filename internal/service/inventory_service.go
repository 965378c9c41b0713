package service

import (
	"context"
	"errors"
	"strings"

	"store-service/internal/models"
	"store-service/internal/repository"

	"github.com/google/uuid"
)

type FarmToolInput struct {
	Name          string
	ToolType      models.ToolType
	Description   string
	SerialNumber  string
	IsOperational bool
}

type InventoryService interface {
	CreateFarmTool(ctx context.Context, in FarmToolInput) (*models.FarmTool, error)
	SetInventory(ctx context.Context, item models.InventoryItem, location string, qty int32, unit string) (*models.Inventory, error)
	ListInventory(ctx context.Context, kind *models.ItemKind) ([]models.Inventory, error)
}

type inventoryService struct {
	repo *repository.Repository
}

func NewInventoryService(repo *repository.Repository) InventoryService {
	return &inventoryService{repo: repo}
}

func validToolType(t models.ToolType) bool {
	switch t {
	case models.ToolTractor, models.ToolPlow, models.ToolHarvester, models.ToolIrrigation, models.ToolOther:
		return true
	}
	return false
}

func (s *inventoryService) CreateFarmTool(ctx context.Context, in FarmToolInput) (*models.FarmTool, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fieldErr("name", "is required")
	}
	if !validToolType(in.ToolType) {
		return nil, fieldErr("tool_type", "must be one of tractor, plow, harvester, irrigation, other")
	}

	t := &models.FarmTool{
		Name:          name,
		ToolType:      in.ToolType,
		Description:   strings.TrimSpace(in.Description),
		IsOperational: in.IsOperational,
	}
	if sn := strings.TrimSpace(in.SerialNumber); sn != "" {
		t.SerialNumber = &sn
	}
	if err := s.repo.FarmTools.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *inventoryService) SetInventory(ctx context.Context, item models.InventoryItem, location string, qty int32, unit string) (*models.Inventory, error) {
	inv, err := models.NewInventory(item, location, qty, unit)
	switch {
	case errors.Is(err, models.ErrInventoryQuantity):
		return nil, fieldErr("quantity", "must be >= 0")
	case err != nil:
		return nil, fieldErr("item", err.Error())
	}

	if err := s.ensureItemExists(ctx, item); err != nil {
		return nil, err
	}
	if err := s.repo.Inventories.Upsert(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

func (s *inventoryService) ensureItemExists(ctx context.Context, item models.InventoryItem) error {
	switch item.Kind() {
	case models.ItemKindProduct:
		p, err := s.repo.Products.GetByID(ctx, item.ID())
		if err != nil {
			return err
		}
		if p == nil {
			return ErrProductNotFound
		}
	case models.ItemKindTool:
		t, err := s.repo.FarmTools.GetByID(ctx, item.ID())
		if err != nil {
			return err
		}
		if t == nil {
			return ErrFarmToolNotFound
		}
	}
	return nil
}

func (s *inventoryService) ListInventory(ctx context.Context, kind *models.ItemKind) ([]models.Inventory, error) {
	if kind != nil && *kind != models.ItemKindProduct && *kind != models.ItemKindTool {
		return nil, fieldErr("kind", "must be product or tool")
	}
	return s.repo.Inventories.List(ctx, kind)
}

// ItemFromRequest builds the variant from a kind tag and an id.
func ItemFromRequest(kind string, id uuid.UUID) (models.InventoryItem, error) {
	var (
		item models.InventoryItem
		err  error
	)
	switch models.ItemKind(strings.ToLower(strings.TrimSpace(kind))) {
	case models.ItemKindProduct:
		item, err = models.ProductItem(id)
	case models.ItemKindTool:
		item, err = models.ToolItem(id)
	default:
		return item, fieldErr("item_kind", "must be product or tool")
	}
	if err != nil {
		return item, fieldErr("item_id", "is required")
	}
	return item, nil
}
