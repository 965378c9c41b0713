package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync/atomic"
	"time"

	"store-service/internal/sender"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type Mailer interface {
	SendEmail(n sender.EmailNotification) error
}

var errInvalidMessage = errors.New("invalid email message")

type KafkaEmailConsumer struct {
	reader *kafka.Reader
	mailer Mailer
	log    *zap.Logger

	sent    atomic.Int64
	dropped atomic.Int64
}

// Stats reports how many jobs were mailed and how many were dropped.
func (c *KafkaEmailConsumer) Stats() (sent, dropped int64) {
	return c.sent.Load(), c.dropped.Load()
}

func NewKafkaEmailConsumer(brokers []string, groupID, topic string, mailer Mailer, log *zap.Logger) *KafkaEmailConsumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:           brokers,
		GroupID:           groupID,
		Topic:             topic,
		MinBytes:          10e3,
		MaxBytes:          10e6,
		CommitInterval:    time.Second,
		HeartbeatInterval: 3 * time.Second,
		SessionTimeout:    30 * time.Second,
	})
	return &KafkaEmailConsumer{reader: r, mailer: mailer, log: log}
}

func (c *KafkaEmailConsumer) Run(ctx context.Context) error {
	c.log.Info("kafka consumer started", zap.String("topic", c.reader.Config().Topic))
	for {
		m, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
				sent, dropped := c.Stats()
				c.log.Info("kafka consumer stopped", zap.Int64("sent", sent), zap.Int64("dropped", dropped))
				return nil
			}
			c.log.Error("read message", zap.Error(err))
			continue
		}
		c.process(m)
	}
}

func (c *KafkaEmailConsumer) process(m kafka.Message) {
	if err := c.handle(m); err != nil {
		n := c.dropped.Add(1)
		c.log.Warn("email job dropped", zap.Int64("offset", m.Offset), zap.Int64("dropped_total", n), zap.Error(err))
		return
	}
	c.sent.Add(1)
}

// handle never asks for redelivery: a message that cannot be sent is logged
// and dropped.
func (c *KafkaEmailConsumer) handle(m kafka.Message) error {
	var em sender.EmailNotification
	if err := json.Unmarshal(m.Value, &em); err != nil {
		c.log.Error("unmarshal email message", zap.ByteString("value", m.Value), zap.Error(err))
		return err
	}
	if em.To == "" || em.Template == "" {
		c.log.Warn("invalid email message", zap.Any("msg", em))
		return errInvalidMessage
	}
	if err := c.mailer.SendEmail(em); err != nil {
		c.log.Error("send email failed", zap.String("to", em.To), zap.String("template", em.Template), zap.Error(err))
		return err
	}
	c.log.Info("email sent", zap.String("to", em.To), zap.String("template", em.Template))
	return nil
}

func (c *KafkaEmailConsumer) Close() error { return c.reader.Close() }
