package service

import (
	"context"
	"strings"

	"store-service/internal/models"

	"github.com/google/uuid"
)

const defaultHistoryPage = 10

type ShippingDetails struct {
	Address    string
	City       string
	Country    string
	PostalCode string
}

func (d ShippingDetails) normalized() ShippingDetails {
	return ShippingDetails{
		Address:    strings.TrimSpace(d.Address),
		City:       strings.TrimSpace(d.City),
		Country:    strings.TrimSpace(d.Country),
		PostalCode: strings.TrimSpace(d.PostalCode),
	}
}

// Validate expects normalized input.
func (d ShippingDetails) Validate() error {
	switch {
	case d.Address == "":
		return fieldErr("shipping_address", "is required")
	case len(d.Address) > 255:
		return fieldErr("shipping_address", "must be at most 255 characters")
	case d.City == "":
		return fieldErr("shipping_city", "is required")
	case len(d.City) > 100:
		return fieldErr("shipping_city", "must be at most 100 characters")
	case d.Country == "":
		return fieldErr("shipping_country", "is required")
	case len(d.Country) > 100:
		return fieldErr("shipping_country", "must be at most 100 characters")
	case len(d.PostalCode) > 20:
		return fieldErr("shipping_postal_code", "must be at most 20 characters")
	}
	return nil
}

type PlaceOrderInput struct {
	Shipping               ShippingDetails
	PreferredPaymentMethod string
	ContactEmail           string
}

type DirectOrderItem struct {
	ProductID uuid.UUID
	Quantity  int32
}

type DirectOrderInput struct {
	Items                  []DirectOrderItem
	Shipping               ShippingDetails
	PreferredPaymentMethod string
	ContactEmail           string
}

type OrderService interface {
	PlaceOrder(ctx context.Context, userID uuid.UUID, in PlaceOrderInput) (*models.Order, error)
	PlaceDirectOrder(ctx context.Context, userID uuid.UUID, in DirectOrderInput) (*models.Order, error)
	GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error)
	LatestOrder(ctx context.Context, userID uuid.UUID) (*models.Order, error)
	ListOrders(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Order, int64, error)

	// admin
	UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, to models.OrderStatus) (*models.Order, error)
	UpdateTracking(ctx context.Context, orderID uuid.UUID, to models.TrackingStatus, notes *string) (*models.DeliveryTracking, error)
}
