package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"store-service/internal/models"
	"store-service/internal/service"

	"github.com/google/uuid"
)

var validCard = service.PaymentInput{CardNumber: "4242424242424242", CardExpiry: "12/99", CardCVC: "123"}

func (e *env) placeOne(t *testing.T, userID uuid.UUID, price int64) *models.Order {
	t.Helper()
	p := e.product(t, "Item "+uuid.NewString()[:8], price, 10)
	e.putInCart(t, userID, p.ID, 1)
	ord, err := e.orders.PlaceOrder(context.Background(), userID, service.PlaceOrderInput{Shipping: shipping})
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}
	return ord
}

func TestPay_CardGatewayCompletesAndAdvancesOrder(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	userID := uuid.New()
	ord := e.placeOne(t, userID, 2500)

	in := validCard
	in.Method = "stripe"
	res, err := e.payments.Pay(ctx, userID, in)
	if err != nil {
		t.Fatalf("Pay: %v", err)
	}

	txn := res.Transaction
	if txn.Status != models.PaymentCompleted || txn.Gateway != "stripe" || txn.AmountCents != 2500 || txn.CurrencyCode != "USD" {
		t.Fatalf("unexpected transaction: %+v", txn)
	}
	if !strings.HasPrefix(txn.TransactionID, "txn_str_") || txn.AccountHint != "4242" {
		t.Fatalf("unexpected transaction id or hint: %s %s", txn.TransactionID, txn.AccountHint)
	}
	if res.Order.ID != ord.ID || res.Order.Status != models.OrderStatusProcessing {
		t.Fatalf("order not advanced: %+v", res.Order.Status)
	}

	c, _ := e.repo.Customers.GetByUserID(ctx, userID)
	if c.PreferredPaymentMethod != "stripe" {
		t.Fatalf("preferred method not stored: %+v", c)
	}
	if n := e.count(t, &models.Notification{}, "user_id = ? AND message LIKE ?", userID, "Payment for Order #%"); n != 1 {
		t.Fatalf("expected payment notification, got %d", n)
	}
	if len(e.events.Payments) != 1 {
		t.Fatalf("payment event not published")
	}

	// a processing order cannot be paid again
	if _, err := e.payments.Pay(ctx, userID, in); !errors.Is(err, service.ErrOrderNotPayable) {
		t.Fatalf("expected ErrOrderNotPayable, got %v", err)
	}
}

func TestPay_BankMethodsStayPending(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	userID := uuid.New()
	ord := e.placeOne(t, userID, 1000)

	first, err := e.payments.Pay(ctx, userID, service.PaymentInput{OrderID: &ord.ID, Method: "bank_transfer", IBAN: "DE89370400440532013000"})
	if err != nil {
		t.Fatalf("Pay bank_transfer: %v", err)
	}
	if first.Transaction.Status != models.PaymentPending || first.Order.Status != models.OrderStatusPending {
		t.Fatalf("unexpected result: %+v / %s", first.Transaction, first.Order.Status)
	}

	second, err := e.payments.Pay(ctx, userID, service.PaymentInput{OrderID: &ord.ID, Method: "sdd", IBAN: "DE89370400440532013000", MandateConsent: true})
	if err != nil {
		t.Fatalf("Pay sdd: %v", err)
	}
	if second.Transaction.Method != "direct_debit" || second.Transaction.Gateway != "bank_transfer" {
		t.Fatalf("unexpected direct debit row: %+v", second.Transaction)
	}
	if first.Transaction.TransactionID == second.Transaction.TransactionID {
		t.Fatal("attempts share a transaction id")
	}
	if n := e.count(t, &models.PaymentTransaction{}, "order_id = ?", ord.ID); n != 2 {
		t.Fatalf("expected 2 attempts, got %d", n)
	}
}

func TestPay_DirectDebitWithoutMandateWritesNothing(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	userID := uuid.New()
	e.placeOne(t, userID, 1000)

	_, err := e.payments.Pay(ctx, userID, service.PaymentInput{Method: "direct_debit", IBAN: "DE89370400440532013000"})
	if !errors.Is(err, service.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if n := e.count(t, &models.PaymentTransaction{}, "user_id = ?", userID); n != 0 {
		t.Fatalf("transaction created: %d", n)
	}
}

func TestPay_OwnershipAndMissingOrder(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner := uuid.New()
	ord := e.placeOne(t, owner, 1000)

	in := validCard
	in.Method = "paypal"
	in.OrderID = &ord.ID
	if _, err := e.payments.Pay(ctx, uuid.New(), in); !errors.Is(err, service.ErrOrderNotFound) {
		t.Fatalf("stranger: expected ErrOrderNotFound, got %v", err)
	}

	in.OrderID = nil
	if _, err := e.payments.Pay(ctx, uuid.New(), in); !errors.Is(err, service.ErrOrderNotFound) {
		t.Fatalf("no orders: expected ErrOrderNotFound, got %v", err)
	}
}

func TestPay_FailureInsideTransactionIsPaymentFailed(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	userID := uuid.New()
	ord := e.placeOne(t, userID, 1000)

	// break the notifications insert so the last step of the payment fails
	if err := e.db.Exec(`ALTER TABLE notifications ADD CONSTRAINT chk_test_no_payment CHECK (message NOT LIKE 'Payment%')`).Error; err != nil {
		t.Fatalf("alter: %v", err)
	}

	in := validCard
	in.Method = "stripe"
	_, err := e.payments.Pay(ctx, userID, in)
	if !errors.Is(err, service.ErrPaymentFailed) {
		t.Fatalf("expected ErrPaymentFailed, got %v", err)
	}

	got, _ := e.orders.GetOrder(ctx, userID, ord.ID)
	if got.Status != models.OrderStatusPending || len(got.Payments) != 0 {
		t.Fatalf("payment left partial state: status=%s payments=%d", got.Status, len(got.Payments))
	}
	c, _ := e.repo.Customers.GetByUserID(ctx, userID)
	if c.PreferredPaymentMethod != "" {
		t.Fatalf("preferred method changed: %q", c.PreferredPaymentMethod)
	}
}
