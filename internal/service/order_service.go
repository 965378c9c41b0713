package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"store-service/internal/models"
	"store-service/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type orderService struct {
	repo     *repository.Repository
	settings StoreSettings
	fx       SideEffects
	log      *zap.Logger
	now      func() time.Time
}

func NewOrderService(repo *repository.Repository, settings StoreSettings, fx SideEffects, log *zap.Logger) OrderService {
	return &orderService{
		repo:     repo,
		settings: settings,
		fx:       fx,
		log:      log,
		now:      time.Now,
	}
}

type orderLine struct {
	ProductID uuid.UUID
	Quantity  int32
}

type placement struct {
	userID   uuid.UUID
	shipping ShippingDetails
	payment  string
	email    string
	// fromCart re-reads the cart inside the transaction and deletes the consumed lines
	fromCart bool
	lines    []orderLine
}

type placed struct {
	order        *models.Order
	tracking     *models.DeliveryTracking
	notification models.Notification
	points       int64
}

func (s *orderService) PlaceOrder(ctx context.Context, userID uuid.UUID, in PlaceOrderInput) (*models.Order, error) {
	shipping := in.Shipping.normalized()
	if err := shipping.Validate(); err != nil {
		return nil, err
	}

	lines, err := s.repo.Cart.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}
	for _, l := range lines {
		if l.Product == nil || !l.Product.IsActive {
			return nil, ErrProductNotFound
		}
		if l.Quantity > l.Product.Stock {
			return nil, &InsufficientStockError{ProductID: l.ProductID, Name: l.Product.Name, Available: l.Product.Stock, Requested: l.Quantity}
		}
	}

	return s.place(ctx, placement{
		userID:   userID,
		shipping: shipping,
		payment:  strings.TrimSpace(in.PreferredPaymentMethod),
		email:    strings.TrimSpace(in.ContactEmail),
		fromCart: true,
	})
}

func (s *orderService) PlaceDirectOrder(ctx context.Context, userID uuid.UUID, in DirectOrderInput) (*models.Order, error) {
	shipping := in.Shipping.normalized()
	if err := shipping.Validate(); err != nil {
		return nil, err
	}
	if len(in.Items) == 0 {
		return nil, fieldErr("items", "at least one item is required")
	}

	merged := map[uuid.UUID]int32{}
	lines := make([]orderLine, 0, len(in.Items))
	for _, it := range in.Items {
		if it.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		if _, seen := merged[it.ProductID]; !seen {
			lines = append(lines, orderLine{ProductID: it.ProductID})
		}
		merged[it.ProductID] += it.Quantity
	}
	ids := make([]uuid.UUID, 0, len(lines))
	for i := range lines {
		lines[i].Quantity = merged[lines[i].ProductID]
		ids = append(ids, lines[i].ProductID)
	}

	products, err := s.repo.Products.BatchGetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	for _, l := range lines {
		p, ok := byID[l.ProductID]
		if !ok || !p.IsActive {
			return nil, ErrProductNotFound
		}
		if l.Quantity > p.Stock {
			return nil, &InsufficientStockError{ProductID: p.ID, Name: p.Name, Available: p.Stock, Requested: l.Quantity}
		}
	}

	return s.place(ctx, placement{
		userID:   userID,
		shipping: shipping,
		payment:  strings.TrimSpace(in.PreferredPaymentMethod),
		email:    strings.TrimSpace(in.ContactEmail),
		lines:    lines,
	})
}

func (s *orderService) place(ctx context.Context, p placement) (*models.Order, error) {
	now := s.now().UTC()
	var res placed

	err := s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		lines := p.lines
		var consumed []uuid.UUID
		if p.fromCart {
			cart, err := tx.Cart.LockByUser(ctx, p.userID)
			if err != nil {
				return err
			}
			if len(cart) == 0 {
				return ErrEmptyCart
			}
			lines = make([]orderLine, 0, len(cart))
			for _, l := range cart {
				lines = append(lines, orderLine{ProductID: l.ProductID, Quantity: l.Quantity})
				consumed = append(consumed, l.ID)
			}
		}

		ids := make([]uuid.UUID, 0, len(lines))
		for _, l := range lines {
			ids = append(ids, l.ProductID)
		}
		locked, err := tx.Products.LockByIDs(ctx, ids)
		if err != nil {
			return err
		}
		products := make(map[uuid.UUID]models.Product, len(locked))
		for _, pr := range locked {
			products[pr.ID] = pr
		}

		order := &models.Order{
			UserID:             p.userID,
			Status:             models.OrderStatusPending,
			TotalPriceCents:    0,
			CurrencyCode:       s.settings.Currency,
			ShippingAddress:    p.shipping.Address,
			ShippingCity:       p.shipping.City,
			ShippingCountry:    p.shipping.Country,
			ShippingPostalCode: p.shipping.PostalCode,
			CreatedAt:          now,
			UpdatedAt:          now,
		}
		if err := tx.Orders.Create(ctx, order); err != nil {
			return err
		}

		var total int64
		for i, l := range lines {
			pr, ok := products[l.ProductID]
			if !ok || !pr.IsActive {
				return ErrProductNotFound
			}
			pid := pr.ID
			sub := pr.PriceCents * int64(l.Quantity)
			item := &models.OrderItem{
				OrderID:        order.ID,
				ProductID:      &pid,
				ProductName:    pr.Name,
				Quantity:       l.Quantity,
				UnitPriceCents: pr.PriceCents,
				SubtotalCents:  sub,
				// keeps item order stable on read
				CreatedAt: now.Add(time.Duration(i) * time.Microsecond),
			}
			if err := tx.OrderItems.Create(ctx, item); err != nil {
				return err
			}

			ok, err := tx.Products.DecrementStock(ctx, pr.ID, l.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				return &InsufficientStockError{ProductID: pr.ID, Name: pr.Name, Available: pr.Stock, Requested: l.Quantity}
			}
			total += sub
			order.Items = append(order.Items, *item)
		}

		if err := tx.Orders.SetTotal(ctx, order.ID, total); err != nil {
			return err
		}
		order.TotalPriceCents = total

		orderID := order.ID
		res.notification = models.Notification{
			UserID:    p.userID,
			OrderID:   &orderID,
			Type:      models.NotificationOrderUpdate,
			Message:   fmt.Sprintf("Order #%d placed successfully!", order.Number),
			CreatedAt: now,
		}
		if err := tx.Notifications.Create(ctx, &res.notification); err != nil {
			return err
		}

		tracking, err := createTracking(ctx, tx, order, s.settings.Carrier, now)
		if err != nil {
			return err
		}

		res.points = loyaltyPoints(total)
		if err := tx.Customers.RecordPurchase(ctx, repository.PurchaseRecord{
			UserID:        p.userID,
			Email:         p.email,
			Points:        res.points,
			At:            now,
			PaymentMethod: p.payment,
		}); err != nil {
			return err
		}

		if p.fromCart {
			if _, err := tx.Cart.DeleteByIDs(ctx, consumed); err != nil {
				return err
			}
		}

		order.Tracking = tracking
		res.order = order
		res.tracking = tracking
		return nil
	})
	if err != nil {
		var stockErr *InsufficientStockError
		if !errors.As(err, &stockErr) && !errors.Is(err, ErrValidation) && !errors.Is(err, ErrNotFound) {
			s.log.Error("order placement rolled back", zap.String("user_id", p.userID.String()), zap.Error(err))
		}
		return nil, err
	}

	s.log.Info("order placed",
		zap.String("order_id", res.order.ID.String()),
		zap.Int64("number", res.order.Number),
		zap.Int64("total_cents", res.order.TotalPriceCents),
		zap.String("tracking_number", res.tracking.TrackingNumber),
	)
	s.afterPlace(ctx, p, res)
	return res.order, nil
}

// afterPlace runs best-effort effects; failures are logged, never returned.
func (s *orderService) afterPlace(ctx context.Context, p placement, res placed) {
	if p.fromCart && s.fx.Cache != nil {
		if err := s.fx.Cache.InvalidateCart(ctx, p.userID); err != nil {
			s.log.Warn("cart cache invalidation failed", zap.String("user_id", p.userID.String()), zap.Error(err))
		}
	}
	if s.fx.Pusher != nil {
		s.fx.Pusher.Push(p.userID, res.notification)
	}
	if s.fx.Events != nil {
		items := make([]OrderItemEvent, 0, len(res.order.Items))
		for _, it := range res.order.Items {
			items = append(items, OrderItemEvent{
				ProductID:     it.ProductID,
				Name:          it.ProductName,
				Quantity:      it.Quantity,
				PriceCents:    it.UnitPriceCents,
				SubtotalCents: it.SubtotalCents,
			})
		}
		if err := s.fx.Events.PublishOrderPlaced(ctx, OrderPlacedEvent{
			OrderID:        res.order.ID,
			OrderNumber:    res.order.Number,
			UserID:         p.userID,
			Email:          p.email,
			Items:          items,
			TotalCents:     res.order.TotalPriceCents,
			Currency:       res.order.CurrencyCode,
			TrackingNumber: res.tracking.TrackingNumber,
			LoyaltyPoints:  res.points,
			PlacedAt:       res.order.CreatedAt,
		}); err != nil {
			s.log.Warn("publish order placed failed", zap.String("order_id", res.order.ID.String()), zap.Error(err))
		}
	}
}

func (s *orderService) GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	ord, err := s.repo.Orders.GetByIDForUser(ctx, orderID, userID)
	if err != nil {
		return nil, err
	}
	if ord == nil {
		return nil, ErrOrderNotFound
	}
	return ord, nil
}

func (s *orderService) LatestOrder(ctx context.Context, userID uuid.UUID) (*models.Order, error) {
	ord, err := s.repo.Orders.LatestForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if ord == nil {
		return nil, ErrOrderNotFound
	}
	return ord, nil
}

func (s *orderService) ListOrders(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Order, int64, error) {
	if limit <= 0 {
		limit = defaultHistoryPage
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.Orders.ListByUser(ctx, userID, limit, offset)
}

func (s *orderService) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, to models.OrderStatus) (*models.Order, error) {
	var (
		ord *models.Order
		n   models.Notification
	)
	err := s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		cur, err := tx.Orders.GetByID(ctx, orderID)
		if err != nil {
			return err
		}
		if cur == nil {
			return ErrOrderNotFound
		}
		if !canMove(orderTransitions, cur.Status, to) {
			return ErrInvalidTransition
		}
		ok, err := tx.Orders.TransitionStatus(ctx, orderID, cur.Status, to)
		if err != nil {
			return err
		}
		if !ok {
			return ErrInvalidTransition
		}

		n = models.Notification{
			UserID:  cur.UserID,
			OrderID: &cur.ID,
			Type:    models.NotificationOrderUpdate,
			Message: fmt.Sprintf("Order #%d is now %s.", cur.Number, to),
		}
		if err := tx.Notifications.Create(ctx, &n); err != nil {
			return err
		}
		cur.Status = to
		ord = cur
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("order status changed", zap.String("order_id", orderID.String()), zap.String("status", string(to)))
	if s.fx.Pusher != nil {
		s.fx.Pusher.Push(ord.UserID, n)
	}
	return ord, nil
}

func (s *orderService) UpdateTracking(ctx context.Context, orderID uuid.UUID, to models.TrackingStatus, notes *string) (*models.DeliveryTracking, error) {
	var (
		t *models.DeliveryTracking
		n models.Notification
	)
	err := s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		ord, err := tx.Orders.GetByID(ctx, orderID)
		if err != nil {
			return err
		}
		if ord == nil || ord.Tracking == nil {
			return ErrOrderNotFound
		}
		cur := ord.Tracking
		if !canMove(trackingTransitions, cur.Status, to) {
			return ErrInvalidTransition
		}
		ok, err := tx.Trackings.TransitionStatus(ctx, orderID, cur.Status, to, notes)
		if err != nil {
			return err
		}
		if !ok {
			return ErrInvalidTransition
		}

		n = models.Notification{
			UserID:  ord.UserID,
			OrderID: &ord.ID,
			Type:    models.NotificationOrderUpdate,
			Message: fmt.Sprintf("Shipment %s for Order #%d is now %s.", cur.TrackingNumber, ord.Number, strings.ReplaceAll(string(to), "_", " ")),
		}
		if err := tx.Notifications.Create(ctx, &n); err != nil {
			return err
		}

		cur.Status = to
		if notes != nil {
			cur.Notes = *notes
		}
		t = cur
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("tracking status changed", zap.String("order_id", orderID.String()), zap.String("status", string(to)))
	if s.fx.Pusher != nil {
		s.fx.Pusher.Push(n.UserID, n)
	}
	return t, nil
}
