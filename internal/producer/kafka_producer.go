package producer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"store-service/internal/dto"
	"store-service/internal/sender"
	"store-service/internal/service"

	"github.com/segmentio/kafka-go"
)

const (
	EventOrderPlaced     = "order.placed"
	EventPaymentRecorded = "payment.recorded"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// EventProducer publishes domain events to the orders topic and, when the
// buyer has an email on file, a matching job to the email topic.
type EventProducer struct {
	events messageWriter
	emails messageWriter
}

func newWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
	}
}

func NewEventProducer(brokers []string, ordersTopic, emailTopic string) *EventProducer {
	return &EventProducer{
		events: newWriter(brokers, ordersTopic),
		emails: newWriter(brokers, emailTopic),
	}
}

func (p *EventProducer) write(ctx context.Context, w messageWriter, key, eventType string, v any) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	value, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return w.WriteMessages(ctx, kafka.Message{
		Key:     []byte(key),
		Value:   value,
		Headers: []kafka.Header{{Key: "event-type", Value: []byte(eventType)}},
	})
}

func (p *EventProducer) SendEmail(ctx context.Context, key string, msg sender.EmailNotification) error {
	return p.write(ctx, p.emails, key, "email", msg)
}

func (p *EventProducer) PublishOrderPlaced(ctx context.Context, e service.OrderPlacedEvent) error {
	if err := p.write(ctx, p.events, e.OrderID.String(), EventOrderPlaced, e); err != nil {
		return fmt.Errorf("publish %s: %w", EventOrderPlaced, err)
	}
	if e.Email == "" {
		return nil
	}

	items := make([]map[string]any, 0, len(e.Items))
	for _, it := range e.Items {
		items = append(items, map[string]any{
			"Name":     it.Name,
			"Quantity": it.Quantity,
			"Price":    dto.Money(it.PriceCents),
			"Subtotal": dto.Money(it.SubtotalCents),
		})
	}
	return p.SendEmail(ctx, e.UserID.String(), sender.EmailNotification{
		To:       e.Email,
		Subject:  fmt.Sprintf("Order #%d placed", e.OrderNumber),
		Template: sender.TemplateOrderPlaced,
		Data: map[string]any{
			"OrderNumber":    e.OrderNumber,
			"Items":          items,
			"Total":          dto.Money(e.TotalCents),
			"Currency":       e.Currency,
			"TrackingNumber": e.TrackingNumber,
			"LoyaltyPoints":  e.LoyaltyPoints,
		},
	})
}

func (p *EventProducer) PublishPaymentRecorded(ctx context.Context, e service.PaymentRecordedEvent) error {
	if err := p.write(ctx, p.events, e.OrderID.String(), EventPaymentRecorded, e); err != nil {
		return fmt.Errorf("publish %s: %w", EventPaymentRecorded, err)
	}
	if e.Email == "" {
		return nil
	}
	return p.SendEmail(ctx, e.UserID.String(), sender.EmailNotification{
		To:       e.Email,
		Subject:  fmt.Sprintf("Payment for Order #%d", e.OrderNumber),
		Template: sender.TemplatePaymentInitiated,
		Data: map[string]any{
			"OrderNumber":   e.OrderNumber,
			"Method":        e.Method,
			"Amount":        dto.Money(e.AmountCents),
			"Currency":      e.Currency,
			"TransactionID": e.TransactionID,
			"Status":        e.Status,
		},
	})
}

func (p *EventProducer) Close() error {
	errE := p.events.Close()
	errM := p.emails.Close()
	if errE != nil {
		return errE
	}
	return errM
}

var _ service.EventBus = (*EventProducer)(nil)
