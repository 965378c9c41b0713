package service

import (
	"context"

	"store-service/internal/models"

	"github.com/google/uuid"
)

type CartLineView struct {
	LineID         uuid.UUID `json:"line_id"`
	ProductID      uuid.UUID `json:"product_id"`
	Name           string    `json:"name"`
	Quantity       int32     `json:"quantity"`
	UnitPriceCents int64     `json:"unit_price_cents"`
	SubtotalCents  int64     `json:"subtotal_cents"`
}

type CartSummary struct {
	Lines      []CartLineView `json:"lines"`
	TotalCents int64          `json:"total_cents"`
	Currency   string         `json:"currency"`
}

func (c *CartSummary) IsEmpty() bool { return c == nil || len(c.Lines) == 0 }

// CartEntry is the cacheable part of a cart line. Prices are never cached.
type CartEntry struct {
	LineID    uuid.UUID `json:"line_id"`
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int32     `json:"quantity"`
}

type CachedCart struct {
	Lines []CartEntry `json:"lines"`
}

func cachedFrom(lines []models.CartLine) *CachedCart {
	c := &CachedCart{Lines: make([]CartEntry, 0, len(lines))}
	for _, l := range lines {
		c.Lines = append(c.Lines, CartEntry{LineID: l.ID, ProductID: l.ProductID, Quantity: l.Quantity})
	}
	return c
}

type CartService interface {
	GetCart(ctx context.Context, userID uuid.UUID) (*CartSummary, error)
	AddToCart(ctx context.Context, userID, productID uuid.UUID, qty int32) (*models.CartLine, error)
	RemoveFromCart(ctx context.Context, userID, lineID uuid.UUID) error
}

// summarize prices every line from its current product row.
func summarize(lines []models.CartLine, currency string) (*CartSummary, error) {
	sum := &CartSummary{Lines: make([]CartLineView, 0, len(lines)), Currency: currency}
	for _, l := range lines {
		if l.Product == nil {
			return nil, ErrProductNotFound
		}
		sub := l.Product.PriceCents * int64(l.Quantity)
		sum.Lines = append(sum.Lines, CartLineView{
			LineID:         l.ID,
			ProductID:      l.ProductID,
			Name:           l.Product.Name,
			Quantity:       l.Quantity,
			UnitPriceCents: l.Product.PriceCents,
			SubtotalCents:  sub,
		})
		sum.TotalCents += sub
	}
	return sum, nil
}
