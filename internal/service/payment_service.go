package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"store-service/internal/models"
	"store-service/internal/repository"

	"github.com/google/uuid"
	"github.com/nanorand/nanorand"
	"go.uber.org/zap"
)

var methodLabels = map[PaymentMethod]string{
	MethodStripe:       "Stripe",
	MethodPayPal:       "PayPal",
	MethodBankTransfer: "Bank Transfer",
	MethodDirectDebit:  "SEPA Direct Debit",
}

var errTransactionIDExhausted = errors.New("could not allocate a unique transaction id")

type PaymentResult struct {
	Transaction models.PaymentTransaction
	Order       *models.Order
}

type PaymentService interface {
	Pay(ctx context.Context, userID uuid.UUID, in PaymentInput) (*PaymentResult, error)
}

type paymentService struct {
	repo     *repository.Repository
	gateways Gateways
	settings StoreSettings
	fx       SideEffects
	log      *zap.Logger
	now      func() time.Time
}

func NewPaymentService(repo *repository.Repository, gateways Gateways, settings StoreSettings, fx SideEffects, log *zap.Logger) PaymentService {
	return &paymentService{
		repo:     repo,
		gateways: gateways,
		settings: settings,
		fx:       fx,
		log:      log,
		now:      time.Now,
	}
}

func (s *paymentService) orderFor(ctx context.Context, repo *repository.Repository, userID uuid.UUID, orderID *uuid.UUID) (*models.Order, error) {
	var (
		ord *models.Order
		err error
	)
	if orderID != nil {
		ord, err = repo.Orders.GetByIDForUser(ctx, *orderID, userID)
	} else {
		ord, err = repo.Orders.LatestForUser(ctx, userID)
	}
	if err != nil {
		return nil, err
	}
	if ord == nil {
		return nil, ErrOrderNotFound
	}
	return ord, nil
}

func (s *paymentService) Pay(ctx context.Context, userID uuid.UUID, in PaymentInput) (*PaymentResult, error) {
	gw, err := s.gateways.Resolve(in.Method)
	if err != nil {
		return nil, err
	}
	if err := gw.Validate(in); err != nil {
		return nil, err
	}

	ord, err := s.orderFor(ctx, s.repo, userID, in.OrderID)
	if err != nil {
		return nil, err
	}
	if ord.Status != models.OrderStatusPending {
		return nil, ErrOrderNotPayable
	}

	now := s.now().UTC()
	method := gw.Code()
	var (
		txn models.PaymentTransaction
		n   models.Notification
	)

	err = s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		cur, err := tx.Orders.GetByIDForUser(ctx, ord.ID, userID)
		if err != nil {
			return err
		}
		if cur == nil {
			return ErrOrderNotFound
		}
		if cur.Status != models.OrderStatusPending {
			return ErrOrderNotPayable
		}

		res, err := gw.Process(ctx, Charge{
			OrderID:     cur.ID,
			OrderNumber: cur.Number,
			AmountCents: cur.TotalPriceCents,
			Currency:    s.settings.Currency,
			Input:       in,
		})
		if err != nil {
			return err
		}

		txn = models.PaymentTransaction{
			OrderID:      cur.ID,
			UserID:       userID,
			AmountCents:  cur.TotalPriceCents,
			CurrencyCode: s.settings.Currency,
			Method:       string(method),
			Gateway:      res.Gateway,
			Status:       res.Status,
			AccountHint:  res.AccountHint,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := s.insertWithFreshID(ctx, tx, &txn, res.TxPrefix, cur.Number, now); err != nil {
			return err
		}

		if res.Status == models.PaymentCompleted {
			ok, err := tx.Orders.TransitionStatus(ctx, cur.ID, models.OrderStatusPending, models.OrderStatusProcessing)
			if err != nil {
				return err
			}
			if !ok {
				return ErrOrderNotPayable
			}
		}

		if err := tx.Customers.SetPreferredPayment(ctx, userID, string(method)); err != nil {
			return err
		}

		orderID := cur.ID
		n = models.Notification{
			UserID:    userID,
			OrderID:   &orderID,
			Type:      models.NotificationOrderUpdate,
			Message:   fmt.Sprintf("Payment for Order #%d initiated via %s.", cur.Number, methodLabels[method]),
			CreatedAt: now,
		}
		return tx.Notifications.Create(ctx, &n)
	})
	if err != nil {
		if errors.Is(err, ErrOrderNotPayable) || errors.Is(err, ErrNotFound) {
			return nil, err
		}
		s.log.Error("payment rolled back",
			zap.String("order_id", ord.ID.String()),
			zap.String("method", string(method)),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %w", ErrPaymentFailed, err)
	}

	s.log.Info("payment recorded",
		zap.String("order_id", ord.ID.String()),
		zap.String("transaction_id", txn.TransactionID),
		zap.String("status", string(txn.Status)),
	)

	updated, err := s.repo.Orders.GetByID(ctx, ord.ID)
	if err != nil || updated == nil {
		s.log.Warn("reload order after payment failed", zap.String("order_id", ord.ID.String()), zap.Error(err))
		updated = ord
	}

	s.afterPay(ctx, updated, txn, n)
	return &PaymentResult{Transaction: txn, Order: updated}, nil
}

// insertWithFreshID draws a new random part on every attempt.
func (s *paymentService) insertWithFreshID(ctx context.Context, tx *repository.Repository, txn *models.PaymentTransaction, prefix string, number int64, at time.Time) error {
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		digits, err := nanorand.Gen(6)
		if err != nil {
			return err
		}
		txn.TransactionID = fmt.Sprintf("txn_%s_%d_%d_%s", prefix, number, at.Unix(), digits)
		ok, err := tx.Payments.TryCreate(ctx, txn)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
	}
	return errTransactionIDExhausted
}

func (s *paymentService) afterPay(ctx context.Context, ord *models.Order, txn models.PaymentTransaction, n models.Notification) {
	if s.fx.Pusher != nil {
		s.fx.Pusher.Push(txn.UserID, n)
	}
	if s.fx.Events == nil {
		return
	}

	var email string
	if c, err := s.repo.Customers.GetByUserID(ctx, txn.UserID); err == nil && c != nil {
		email = c.Email
	}
	if err := s.fx.Events.PublishPaymentRecorded(ctx, PaymentRecordedEvent{
		OrderID:       ord.ID,
		OrderNumber:   ord.Number,
		UserID:        txn.UserID,
		Email:         email,
		TransactionID: txn.TransactionID,
		Method:        txn.Method,
		Gateway:       txn.Gateway,
		Status:        string(txn.Status),
		AmountCents:   txn.AmountCents,
		Currency:      txn.CurrencyCode,
		RecordedAt:    txn.CreatedAt,
	}); err != nil {
		s.log.Warn("publish payment recorded failed", zap.String("order_id", ord.ID.String()), zap.Error(err))
	}
}
