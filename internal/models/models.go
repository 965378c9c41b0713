package models

import (
	"time"

	"github.com/google/uuid"
)

type Category struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string    `gorm:"type:varchar(100);not null;uniqueIndex"`
	Slug        string    `gorm:"type:varchar(100);not null;uniqueIndex"`
	Description string    `gorm:"type:text;not null;default:''"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
}

func (Category) TableName() string { return "categories" }

type Product struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	CategoryID  *uuid.UUID `gorm:"type:uuid;index"` // ON DELETE SET NULL in migrate
	Name        string     `gorm:"type:text;not null;index"`
	Description string     `gorm:"type:text"`
	PriceCents  int64      `gorm:"not null;default:0"`
	Stock       int32      `gorm:"type:int;not null;default:0"` // CHECK stock >= 0 in migrate
	IsActive    bool       `gorm:"not null;default:true"`

	CreatedAt time.Time `gorm:"not null;default:now();index"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

func (Product) TableName() string { return "products" }

// Review is one rating per (product, user). It is hidden until approved.
type Review struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:ux_reviews_product_user;index"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:ux_reviews_product_user"`
	Rating     int16     `gorm:"type:smallint;not null"`
	Comment    string    `gorm:"type:text;not null;default:''"`
	IsApproved bool      `gorm:"not null;default:false"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
}

func (Review) TableName() string { return "reviews" }

// CartLine is one pending (user, product, quantity) purchase.
type CartLine struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:ux_cart_lines_user_product"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:ux_cart_lines_user_product"`
	Quantity  int32     `gorm:"type:int;not null"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`

	Product *Product `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

func (CartLine) TableName() string { return "cart_lines" }

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

type Order struct {
	ID              uuid.UUID   `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Number          int64       `gorm:"autoIncrement;not null;uniqueIndex"`
	UserID          uuid.UUID   `gorm:"type:uuid;not null;index"`
	Status          OrderStatus `gorm:"type:text;not null;default:'pending';index"`
	TotalPriceCents int64       `gorm:"not null;default:0"`
	CurrencyCode    string      `gorm:"type:char(3);not null"`

	ShippingAddress    string `gorm:"type:text;not null"`
	ShippingCity       string `gorm:"type:text;not null"`
	ShippingCountry    string `gorm:"type:text;not null"`
	ShippingPostalCode string `gorm:"type:text;not null;default:''"`

	CreatedAt time.Time `gorm:"not null;default:now();index"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`

	Items    []OrderItem          `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Tracking *DeliveryTracking    `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Payments []PaymentTransaction `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (Order) TableName() string { return "orders" }

// OrderItem is immutable once written; UnitPriceCents is the price at order time.
type OrderItem struct {
	ID             uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID        uuid.UUID  `gorm:"type:uuid;not null;index"`
	ProductID      *uuid.UUID `gorm:"type:uuid;index"`
	ProductName    string     `gorm:"type:text;not null"`
	Quantity       int32      `gorm:"type:int;not null"`
	UnitPriceCents int64      `gorm:"not null"`
	SubtotalCents  int64      `gorm:"not null"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
}

func (OrderItem) TableName() string { return "order_items" }

type TrackingStatus string

const (
	TrackingPreparing      TrackingStatus = "preparing"
	TrackingInTransit      TrackingStatus = "in_transit"
	TrackingOutForDelivery TrackingStatus = "out_for_delivery"
	TrackingDelivered      TrackingStatus = "delivered"
	TrackingFailed         TrackingStatus = "failed"
)

type DeliveryTracking struct {
	ID                uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID           uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex"`
	TrackingNumber    string         `gorm:"type:varchar(50);not null;uniqueIndex"`
	Carrier           string         `gorm:"type:text;not null;default:''"`
	Status            TrackingStatus `gorm:"type:text;not null;default:'preparing'"`
	EstimatedDelivery *time.Time
	Notes             string `gorm:"type:text;not null;default:''"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

func (DeliveryTracking) TableName() string { return "delivery_trackings" }

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

type PaymentTransaction struct {
	ID            uuid.UUID     `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID       uuid.UUID     `gorm:"type:uuid;not null;index"`
	UserID        uuid.UUID     `gorm:"type:uuid;not null;index"`
	AmountCents   int64         `gorm:"not null"`
	CurrencyCode  string        `gorm:"type:char(3);not null"`
	Method        string        `gorm:"type:text;not null"`
	Gateway       string        `gorm:"type:text;not null"`
	TransactionID string        `gorm:"type:varchar(100);not null;uniqueIndex"`
	Status        PaymentStatus `gorm:"type:text;not null;default:'pending'"`
	AccountHint   string        `gorm:"type:text;not null;default:''"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

func (PaymentTransaction) TableName() string { return "payment_transactions" }

type NotificationType string

const (
	NotificationOrderUpdate NotificationType = "order_update"
	NotificationPromotion   NotificationType = "promotion"
	NotificationSystem      NotificationType = "system"
)

type Notification struct {
	ID      uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID  uuid.UUID        `gorm:"type:uuid;not null;index"`
	OrderID *uuid.UUID       `gorm:"type:uuid;index"`
	Type    NotificationType `gorm:"type:text;not null"`
	Message string           `gorm:"type:text;not null"`
	IsRead  bool             `gorm:"not null;default:false"`

	CreatedAt time.Time `gorm:"not null;default:now();index"`
}

func (Notification) TableName() string { return "notifications" }

// Customer is the per-user loyalty and payment-preference aggregate.
type Customer struct {
	UserID                 uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email                  string    `gorm:"type:text;not null;default:''"`
	LoyaltyPoints          int64     `gorm:"not null;default:0"`
	LastPurchase           *time.Time
	PreferredPaymentMethod string `gorm:"type:text;not null;default:''"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

func (Customer) TableName() string { return "customers" }

type ToolType string

const (
	ToolTractor    ToolType = "tractor"
	ToolPlow       ToolType = "plow"
	ToolHarvester  ToolType = "harvester"
	ToolIrrigation ToolType = "irrigation"
	ToolOther      ToolType = "other"
)

type FarmTool struct {
	ID            uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name          string    `gorm:"type:text;not null"`
	ToolType      ToolType  `gorm:"type:text;not null"`
	Description   string    `gorm:"type:text;not null;default:''"`
	SerialNumber  *string   `gorm:"type:varchar(50);uniqueIndex"`
	IsOperational bool      `gorm:"not null;default:true"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

func (FarmTool) TableName() string { return "farm_tools" }
