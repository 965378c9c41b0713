package dto

import (
	"time"

	"store-service/internal/models"
)

type CreateFarmToolRequest struct {
	Name          string `json:"name" binding:"required"`
	ToolType      string `json:"tool_type" binding:"required"`
	Description   string `json:"description"`
	SerialNumber  string `json:"serial_number"`
	IsOperational *bool  `json:"is_operational"`
}

type FarmToolResponse struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	ToolType      string  `json:"tool_type"`
	Description   string  `json:"description"`
	SerialNumber  *string `json:"serial_number,omitempty"`
	IsOperational bool    `json:"is_operational"`
}

// SetInventoryRequest names exactly one item: kind "product" or "tool" plus its id.
type SetInventoryRequest struct {
	ItemKind string `json:"item_kind" binding:"required,oneof=product tool"`
	ItemID   string `json:"item_id" binding:"required,uuid"`
	Location string `json:"location"`
	Quantity int32  `json:"quantity" binding:"min=0"`
	Unit     string `json:"unit"`
}

type InventoryResponse struct {
	ID        string `json:"id"`
	ItemKind  string `json:"item_kind"`
	ItemID    string `json:"item_id"`
	ItemName  string `json:"item_name,omitempty"`
	Location  string `json:"location"`
	Quantity  int32  `json:"quantity"`
	Unit      string `json:"unit"`
	UpdatedAt string `json:"updated_at"`
}

func FarmToolFrom(t *models.FarmTool) FarmToolResponse {
	return FarmToolResponse{
		ID:            t.ID.String(),
		Name:          t.Name,
		ToolType:      string(t.ToolType),
		Description:   t.Description,
		SerialNumber:  t.SerialNumber,
		IsOperational: t.IsOperational,
	}
}

func InventoryFrom(inv *models.Inventory) InventoryResponse {
	resp := InventoryResponse{
		ID:        inv.ID.String(),
		ItemKind:  string(inv.ItemKind),
		Location:  inv.Location,
		Quantity:  inv.Quantity,
		Unit:      inv.Unit,
		UpdatedAt: inv.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if item, err := inv.Item(); err == nil {
		resp.ItemID = item.ID().String()
	}
	switch {
	case inv.Product != nil:
		resp.ItemName = inv.Product.Name
	case inv.FarmTool != nil:
		resp.ItemName = inv.FarmTool.Name
	}
	return resp
}
