package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"store-service/internal/models"

	"github.com/google/uuid"
)

type PaymentMethod string

const (
	MethodStripe       PaymentMethod = "stripe"
	MethodPayPal       PaymentMethod = "paypal"
	MethodBankTransfer PaymentMethod = "bank_transfer"
	MethodDirectDebit  PaymentMethod = "direct_debit"
)

var methodAliases = map[string]PaymentMethod{
	"sdd": MethodDirectDebit,
}

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if m, ok := methodAliases[s]; ok {
		return m, nil
	}
	switch m := PaymentMethod(s); m {
	case MethodStripe, MethodPayPal, MethodBankTransfer, MethodDirectDebit:
		return m, nil
	case "":
		return "", fieldErr("method", "is required")
	}
	return "", fieldErr("method", "unsupported payment method")
}

type PaymentInput struct {
	OrderID        *uuid.UUID
	Method         string
	CardNumber     string
	CardExpiry     string // MM/YY
	CardCVC        string
	IBAN           string
	MandateConsent bool
}

type Charge struct {
	OrderID     uuid.UUID
	OrderNumber int64
	AmountCents int64
	Currency    string
	Input       PaymentInput
}

type GatewayResult struct {
	Status      models.PaymentStatus
	Gateway     string
	TxPrefix    string
	AccountHint string
}

// PaymentGateway is a simulated payment provider. Validate runs before any
// write; Process runs inside the payment transaction.
type PaymentGateway interface {
	Code() PaymentMethod
	Validate(in PaymentInput) error
	Process(ctx context.Context, c Charge) (GatewayResult, error)
}

// Card fields are checked for presence and length only; the gateway itself
// is simulated and never declines.
const (
	maxCardNumber = 16
	maxCardExpiry = 5
	maxCardCVC    = 4
	maxIBAN       = 34
)

type CardGateway struct {
	method PaymentMethod
	prefix string
}

func NewCardGateway(method PaymentMethod, prefix string) *CardGateway {
	return &CardGateway{method: method, prefix: prefix}
}

func (g *CardGateway) Code() PaymentMethod { return g.method }

func (g *CardGateway) Validate(in PaymentInput) error {
	if err := requireMax("card_number", compactCard(in.CardNumber), maxCardNumber); err != nil {
		return err
	}
	if err := requireMax("card_expiry", strings.TrimSpace(in.CardExpiry), maxCardExpiry); err != nil {
		return err
	}
	return requireMax("card_cvc", strings.TrimSpace(in.CardCVC), maxCardCVC)
}

func (g *CardGateway) Process(_ context.Context, c Charge) (GatewayResult, error) {
	return GatewayResult{
		Status:      models.PaymentCompleted,
		Gateway:     string(g.method),
		TxPrefix:    g.prefix,
		AccountHint: lastFour(compactCard(c.Input.CardNumber)),
	}, nil
}

type BankTransferGateway struct{}

func (BankTransferGateway) Code() PaymentMethod { return MethodBankTransfer }

func (BankTransferGateway) Validate(in PaymentInput) error { return validateIBAN(in.IBAN) }

func (BankTransferGateway) Process(_ context.Context, c Charge) (GatewayResult, error) {
	return GatewayResult{
		Status:      models.PaymentPending,
		Gateway:     string(MethodBankTransfer),
		TxPrefix:    "bt",
		AccountHint: lastFour(normalizeIBAN(c.Input.IBAN)),
	}, nil
}

// DirectDebitGateway settles through the bank transfer rail once the mandate is verified.
type DirectDebitGateway struct{}

func (DirectDebitGateway) Code() PaymentMethod { return MethodDirectDebit }

func (DirectDebitGateway) Validate(in PaymentInput) error {
	if err := validateIBAN(in.IBAN); err != nil {
		return err
	}
	if !in.MandateConsent {
		return fieldErr("mandate_consent", "must be accepted for direct debit")
	}
	return nil
}

func (DirectDebitGateway) Process(_ context.Context, c Charge) (GatewayResult, error) {
	return GatewayResult{
		Status:      models.PaymentPending,
		Gateway:     string(MethodBankTransfer),
		TxPrefix:    "sdd",
		AccountHint: lastFour(normalizeIBAN(c.Input.IBAN)),
	}, nil
}

type Gateways map[PaymentMethod]PaymentGateway

func DefaultGateways() Gateways {
	return NewGateways(
		NewCardGateway(MethodStripe, "str"),
		NewCardGateway(MethodPayPal, "pp"),
		BankTransferGateway{},
		DirectDebitGateway{},
	)
}

func NewGateways(gws ...PaymentGateway) Gateways {
	out := make(Gateways, len(gws))
	for _, g := range gws {
		out[g.Code()] = g
	}
	return out
}

func (g Gateways) Resolve(method string) (PaymentGateway, error) {
	m, err := ParsePaymentMethod(method)
	if err != nil {
		return nil, err
	}
	gw, ok := g[m]
	if !ok {
		return nil, fieldErr("method", "payment method is not enabled")
	}
	return gw, nil
}

func requireMax(field, v string, limit int) error {
	switch {
	case v == "":
		return fieldErr(field, "is required")
	case utf8.RuneCountInString(v) > limit:
		return fieldErr(field, fmt.Sprintf("must be at most %d characters", limit))
	}
	return nil
}

// compactCard drops the spaces and dashes people type between digit groups.
func compactCard(s string) string {
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' {
			return -1
		}
		return r
	}, strings.TrimSpace(s))
}

func normalizeIBAN(s string) string {
	return strings.ToUpper(strings.Join(strings.Fields(s), ""))
}

func validateIBAN(raw string) error {
	return requireMax("iban", normalizeIBAN(raw), maxIBAN)
}

func lastFour(s string) string {
	if len(s) <= 4 {
		return s
	}
	return s[len(s)-4:]
}
