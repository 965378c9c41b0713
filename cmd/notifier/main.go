package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"store-service/config"
	"store-service/internal/consumer"
	"store-service/internal/logger"
	"store-service/internal/sender"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	isDev := os.Getenv("ENV") == "development"
	if err := logger.Init(isDev); err != nil {
		panic(err)
	}

	defer logger.Sync()

	log := logger.L()

	cfg := config.LoadNotifier(log)

	if !cfg.Kafka.Enabled() {
		log.Fatal("no kafka brokers configured (KAFKA_BROKERS)")
	}

	emailSender := sender.NewEmailSender(cfg.SMTP)
	cons := consumer.NewKafkaEmailConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.EmailTopic, emailSender, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := cons.Run(ctx); err != nil {
			log.Error("consumer stopped", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Info("shutdown signal received")
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		log.Warn("consumer did not stop in time")
	}
	_ = cons.Close()
}
