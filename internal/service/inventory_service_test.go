package service_test

import (
	"context"
	"errors"
	"testing"

	"store-service/internal/models"
	"store-service/internal/service"

	"github.com/google/uuid"
)

func TestInventoryService_ToolAndProductRows(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	inv := service.NewInventoryService(e.repo)

	if _, err := inv.CreateFarmTool(ctx, service.FarmToolInput{Name: "Disc", ToolType: "spaceship"}); !errors.Is(err, service.ErrValidation) {
		t.Fatalf("expected ErrValidation for tool type, got %v", err)
	}
	tool, err := inv.CreateFarmTool(ctx, service.FarmToolInput{Name: "Disc", ToolType: models.ToolPlow, SerialNumber: "PL-1", IsOperational: true})
	if err != nil {
		t.Fatalf("CreateFarmTool: %v", err)
	}

	item, err := service.ItemFromRequest("tool", tool.ID)
	if err != nil {
		t.Fatalf("ItemFromRequest: %v", err)
	}
	row, err := inv.SetInventory(ctx, item, "shed", 2, "pcs")
	if err != nil {
		t.Fatalf("SetInventory: %v", err)
	}
	if row.FarmToolID == nil || *row.FarmToolID != tool.ID || row.ProductID != nil {
		t.Fatalf("unexpected row: %+v", row)
	}

	p := e.product(t, "Oats", 60, 100)
	pItem, _ := service.ItemFromRequest("product", p.ID)
	if _, err := inv.SetInventory(ctx, pItem, "silo", -1, "kg"); !errors.Is(err, service.ErrValidation) {
		t.Fatalf("expected ErrValidation for negative qty, got %v", err)
	}
	if _, err := inv.SetInventory(ctx, pItem, "silo", 30, "kg"); err != nil {
		t.Fatalf("SetInventory product: %v", err)
	}

	missing, _ := service.ItemFromRequest("product", uuid.New())
	if _, err := inv.SetInventory(ctx, missing, "silo", 1, "kg"); !errors.Is(err, service.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
	if _, err := service.ItemFromRequest("barn", uuid.New()); !errors.Is(err, service.ErrValidation) {
		t.Fatalf("expected ErrValidation for kind, got %v", err)
	}

	kind := models.ItemKindTool
	rows, err := inv.ListInventory(ctx, &kind)
	if err != nil || len(rows) != 1 || rows[0].FarmTool == nil {
		t.Fatalf("ListInventory: %+v %v", rows, err)
	}
}
