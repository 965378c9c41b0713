package dto

import "store-service/internal/service"

type AddToCartRequest struct {
	ProductID string `json:"product_id" binding:"required,uuid"`
	Quantity  int32  `json:"quantity" binding:"required"`
}

type CartLineResponse struct {
	LineID         string `json:"line_id"`
	ProductID      string `json:"product_id"`
	Name           string `json:"name"`
	Quantity       int32  `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	UnitPrice      string `json:"unit_price"`
	SubtotalCents  int64  `json:"subtotal_cents"`
	Subtotal       string `json:"subtotal"`
}

type CartResponse struct {
	Lines      []CartLineResponse `json:"lines"`
	TotalCents int64              `json:"total_cents"`
	Total      string             `json:"total"`
	Currency   string             `json:"currency"`
	IsEmpty    bool               `json:"is_empty"`
}

type AddToCartResponse struct {
	LineID    string `json:"line_id"`
	ProductID string `json:"product_id"`
	Quantity  int32  `json:"quantity"`
}

func CartFrom(s *service.CartSummary) CartResponse {
	resp := CartResponse{
		Lines:      make([]CartLineResponse, 0, len(s.Lines)),
		TotalCents: s.TotalCents,
		Total:      Money(s.TotalCents),
		Currency:   s.Currency,
		IsEmpty:    s.IsEmpty(),
	}
	for _, l := range s.Lines {
		resp.Lines = append(resp.Lines, CartLineResponse{
			LineID:         l.LineID.String(),
			ProductID:      l.ProductID.String(),
			Name:           l.Name,
			Quantity:       l.Quantity,
			UnitPriceCents: l.UnitPriceCents,
			UnitPrice:      Money(l.UnitPriceCents),
			SubtotalCents:  l.SubtotalCents,
			Subtotal:       Money(l.SubtotalCents),
		})
	}
	return resp
}
