package dto

import (
	"time"

	"store-service/internal/models"
)

type ShippingRequest struct {
	ShippingAddress    string `json:"shipping_address"`
	ShippingCity       string `json:"shipping_city"`
	ShippingCountry    string `json:"shipping_country"`
	ShippingPostalCode string `json:"shipping_postal_code"`
}

type PlaceOrderRequest struct {
	ShippingRequest
	PaymentMethod string `json:"payment_method"`
	Email         string `json:"email" binding:"omitempty,email"`
}

type DirectOrderItemRequest struct {
	ProductID string `json:"product_id" binding:"required,uuid"`
	Quantity  int32  `json:"quantity" binding:"required"`
}

type DirectOrderRequest struct {
	PlaceOrderRequest
	Items []DirectOrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type UpdateTrackingRequest struct {
	Status string  `json:"status" binding:"required"`
	Notes  *string `json:"notes"`
}

type OrderItemResponse struct {
	ID             string  `json:"id"`
	ProductID      *string `json:"product_id,omitempty"`
	ProductName    string  `json:"product_name"`
	Quantity       int32   `json:"quantity"`
	UnitPriceCents int64   `json:"unit_price_cents"`
	UnitPrice      string  `json:"unit_price"`
	SubtotalCents  int64   `json:"subtotal_cents"`
	Subtotal       string  `json:"subtotal"`
}

type TrackingResponse struct {
	TrackingNumber    string  `json:"tracking_number"`
	Carrier           string  `json:"carrier"`
	Status            string  `json:"status"`
	EstimatedDelivery *string `json:"estimated_delivery,omitempty"`
	Notes             string  `json:"notes,omitempty"`
	UpdatedAt         string  `json:"updated_at"`
}

type PaymentResponse struct {
	ID            string `json:"id"`
	TransactionID string `json:"transaction_id"`
	Method        string `json:"method"`
	Gateway       string `json:"gateway"`
	Status        string `json:"status"`
	AmountCents   int64  `json:"amount_cents"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
	AccountHint   string `json:"account_hint,omitempty"`
	CreatedAt     string `json:"created_at"`
}

type OrderResponse struct {
	ID                 string              `json:"id"`
	Number             int64               `json:"number"`
	Status             string              `json:"status"`
	TotalPriceCents    int64               `json:"total_price_cents"`
	TotalPrice         string              `json:"total_price"`
	Currency           string              `json:"currency"`
	ShippingAddress    string              `json:"shipping_address"`
	ShippingCity       string              `json:"shipping_city"`
	ShippingCountry    string              `json:"shipping_country"`
	ShippingPostalCode string              `json:"shipping_postal_code"`
	Items              []OrderItemResponse `json:"items"`
	Tracking           *TrackingResponse   `json:"tracking,omitempty"`
	Payments           []PaymentResponse   `json:"payments"`
	CreatedAt          string              `json:"created_at"`
}

type OrderListResponse struct {
	Items  []OrderResponse `json:"items"`
	Total  int64           `json:"total"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}

func TrackingFrom(t *models.DeliveryTracking) *TrackingResponse {
	if t == nil {
		return nil
	}
	resp := &TrackingResponse{
		TrackingNumber: t.TrackingNumber,
		Carrier:        t.Carrier,
		Status:         string(t.Status),
		Notes:          t.Notes,
		UpdatedAt:      t.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if t.EstimatedDelivery != nil {
		s := t.EstimatedDelivery.UTC().Format(time.RFC3339)
		resp.EstimatedDelivery = &s
	}
	return resp
}

func PaymentFrom(p *models.PaymentTransaction) PaymentResponse {
	return PaymentResponse{
		ID:            p.ID.String(),
		TransactionID: p.TransactionID,
		Method:        p.Method,
		Gateway:       p.Gateway,
		Status:        string(p.Status),
		AmountCents:   p.AmountCents,
		Amount:        Money(p.AmountCents),
		Currency:      p.CurrencyCode,
		AccountHint:   p.AccountHint,
		CreatedAt:     p.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func OrderFrom(o *models.Order) OrderResponse {
	resp := OrderResponse{
		ID:                 o.ID.String(),
		Number:             o.Number,
		Status:             string(o.Status),
		TotalPriceCents:    o.TotalPriceCents,
		TotalPrice:         Money(o.TotalPriceCents),
		Currency:           o.CurrencyCode,
		ShippingAddress:    o.ShippingAddress,
		ShippingCity:       o.ShippingCity,
		ShippingCountry:    o.ShippingCountry,
		ShippingPostalCode: o.ShippingPostalCode,
		Items:              make([]OrderItemResponse, 0, len(o.Items)),
		Tracking:           TrackingFrom(o.Tracking),
		Payments:           make([]PaymentResponse, 0, len(o.Payments)),
		CreatedAt:          o.CreatedAt.UTC().Format(time.RFC3339),
	}
	for _, it := range o.Items {
		item := OrderItemResponse{
			ID:             it.ID.String(),
			ProductName:    it.ProductName,
			Quantity:       it.Quantity,
			UnitPriceCents: it.UnitPriceCents,
			UnitPrice:      Money(it.UnitPriceCents),
			SubtotalCents:  it.SubtotalCents,
			Subtotal:       Money(it.SubtotalCents),
		}
		if it.ProductID != nil {
			s := it.ProductID.String()
			item.ProductID = &s
		}
		resp.Items = append(resp.Items, item)
	}
	for i := range o.Payments {
		resp.Payments = append(resp.Payments, PaymentFrom(&o.Payments[i]))
	}
	return resp
}
