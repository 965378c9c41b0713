package service

import (
	"context"

	"store-service/internal/models"
	"store-service/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type cartService struct {
	repo     *repository.Repository
	cache    CartCache
	currency string
	log      *zap.Logger
}

func NewCartService(repo *repository.Repository, settings StoreSettings, cache CartCache, log *zap.Logger) CartService {
	return &cartService{
		repo:     repo,
		cache:    cache,
		currency: settings.Currency,
		log:      log,
	}
}

func (s *cartService) GetCart(ctx context.Context, userID uuid.UUID) (*CartSummary, error) {
	if s.cache != nil {
		cached, err := s.cache.GetCart(ctx, userID)
		if err != nil {
			s.log.Warn("cart cache read failed", zap.String("user_id", userID.String()), zap.Error(err))
		} else if cached != nil {
			return s.price(ctx, cached)
		}
	}

	lines, err := s.repo.Cart.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	sum, err := summarize(lines, s.currency)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetCart(ctx, userID, cachedFrom(lines)); err != nil {
			s.log.Warn("cart cache write failed", zap.String("user_id", userID.String()), zap.Error(err))
		}
	}
	return sum, nil
}

// price joins cached lines with the current product rows.
func (s *cartService) price(ctx context.Context, c *CachedCart) (*CartSummary, error) {
	ids := make([]uuid.UUID, 0, len(c.Lines))
	for _, e := range c.Lines {
		ids = append(ids, e.ProductID)
	}
	products, err := s.repo.Products.BatchGetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*models.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	lines := make([]models.CartLine, 0, len(c.Lines))
	for _, e := range c.Lines {
		lines = append(lines, models.CartLine{ID: e.LineID, ProductID: e.ProductID, Quantity: e.Quantity, Product: byID[e.ProductID]})
	}
	return summarize(lines, s.currency)
}

// AddToCart locks the product row so concurrent adds cannot push a line past stock.
func (s *cartService) AddToCart(ctx context.Context, userID, productID uuid.UUID, qty int32) (*models.CartLine, error) {
	if qty < 1 {
		return nil, ErrInvalidQuantity
	}

	var line *models.CartLine
	err := s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		locked, err := tx.Products.LockByIDs(ctx, []uuid.UUID{productID})
		if err != nil {
			return err
		}
		if len(locked) == 0 || !locked[0].IsActive {
			return ErrProductNotFound
		}
		p := locked[0]

		existing, err := tx.Cart.GetByUserAndProduct(ctx, userID, productID)
		if err != nil {
			return err
		}
		want := qty
		if existing != nil {
			want += existing.Quantity
		}
		if want > p.Stock {
			return &InsufficientStockError{ProductID: p.ID, Name: p.Name, Available: p.Stock, Requested: want}
		}

		line, err = tx.Cart.AddQuantity(ctx, userID, productID, qty)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, userID)
	return line, nil
}

func (s *cartService) RemoveFromCart(ctx context.Context, userID, lineID uuid.UUID) error {
	ok, err := s.repo.Cart.DeleteForUser(ctx, lineID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrCartLineNotFound
	}
	s.invalidate(ctx, userID)
	return nil
}

func (s *cartService) invalidate(ctx context.Context, userID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateCart(ctx, userID); err != nil {
		s.log.Warn("cart cache invalidation failed", zap.String("user_id", userID.String()), zap.Error(err))
	}
}
