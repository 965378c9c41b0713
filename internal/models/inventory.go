package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

type ItemKind string

const (
	ItemKindProduct ItemKind = "product"
	ItemKindTool    ItemKind = "tool"
)

var (
	ErrInventoryItemEmpty = errors.New("inventory item id is required")
	ErrInventoryItemKind  = errors.New("inventory item must reference exactly one of product or farm tool")
	ErrInventoryQuantity  = errors.New("inventory quantity must be >= 0")
)

// InventoryItem is what an inventory row counts: either a product or a farm
// tool, never both. The zero value is invalid.
type InventoryItem struct {
	kind ItemKind
	id   uuid.UUID
}

func ProductItem(productID uuid.UUID) (InventoryItem, error) {
	if productID == uuid.Nil {
		return InventoryItem{}, ErrInventoryItemEmpty
	}
	return InventoryItem{kind: ItemKindProduct, id: productID}, nil
}

func ToolItem(toolID uuid.UUID) (InventoryItem, error) {
	if toolID == uuid.Nil {
		return InventoryItem{}, ErrInventoryItemEmpty
	}
	return InventoryItem{kind: ItemKindTool, id: toolID}, nil
}

func (i InventoryItem) Kind() ItemKind { return i.kind }
func (i InventoryItem) ID() uuid.UUID  { return i.id }
func (i InventoryItem) Valid() bool    { return i.kind != "" && i.id != uuid.Nil }

type Inventory struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ItemKind   ItemKind   `gorm:"type:text;not null"`
	ProductID  *uuid.UUID `gorm:"type:uuid;index"`
	FarmToolID *uuid.UUID `gorm:"type:uuid;index"`
	Location   string     `gorm:"type:text;not null;default:''"`
	Quantity   int32      `gorm:"type:int;not null;default:0"`
	Unit       string     `gorm:"type:text;not null;default:''"`

	UpdatedAt time.Time `gorm:"not null;default:now()"`

	Product  *Product  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	FarmTool *FarmTool `gorm:"foreignKey:FarmToolID;constraint:OnDelete:CASCADE"`
}

func (Inventory) TableName() string { return "inventories" }

// NewInventory is the only way rows are built, so the product/tool columns
// always match ItemKind.
func NewInventory(item InventoryItem, location string, quantity int32, unit string) (*Inventory, error) {
	if !item.Valid() {
		return nil, ErrInventoryItemKind
	}
	if quantity < 0 {
		return nil, ErrInventoryQuantity
	}

	inv := &Inventory{
		ItemKind: item.kind,
		Location: strings.TrimSpace(location),
		Quantity: quantity,
		Unit:     strings.TrimSpace(unit),
	}
	id := item.id
	switch item.kind {
	case ItemKindProduct:
		inv.ProductID = &id
	case ItemKindTool:
		inv.FarmToolID = &id
	default:
		return nil, ErrInventoryItemKind
	}
	return inv, nil
}

// Item recovers the variant from a loaded row.
func (inv *Inventory) Item() (InventoryItem, error) {
	switch {
	case inv.ItemKind == ItemKindProduct && inv.ProductID != nil && inv.FarmToolID == nil:
		return ProductItem(*inv.ProductID)
	case inv.ItemKind == ItemKindTool && inv.FarmToolID != nil && inv.ProductID == nil:
		return ToolItem(*inv.FarmToolID)
	default:
		return InventoryItem{}, ErrInventoryItemKind
	}
}
