package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"store-service/config"
	_ "store-service/docs"
	"store-service/internal/cache"
	"store-service/internal/cleanup"
	"store-service/internal/database"
	"store-service/internal/handlers"
	"store-service/internal/logger"
	"store-service/internal/middleware"
	"store-service/internal/producer"
	"store-service/internal/realtime"
	"store-service/internal/repository"
	"store-service/internal/router"
	"store-service/internal/service"
	"store-service/internal/token"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// @Title Farm Store API
// @Version 1.0
// @Description Cart, checkout, payments and order tracking for the farm store
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	_ = godotenv.Load()
	isDev := os.Getenv("ENV") == "development"
	if err := logger.Init(isDev); err != nil {
		panic(err)
	}

	defer logger.Sync()

	log := logger.L()

	cfg := config.Load(log)

	db := database.ConnectDB(&cfg.DB.Config, log)
	defer database.CloseDB(db, log)

	repos := repository.New(db)

	var (
		cartCache service.CartCache
		cooldown  middleware.CooldownStore
	)
	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.CartTTL, log)
		if err != nil {
			log.Fatal("failed to create redis client", zap.Error(err))
		}
		defer redisClient.Close()
		cartCache, cooldown = redisClient, redisClient
		log.Info("redis cache enabled")
	} else {
		log.Info("redis cache disabled")
	}

	var events service.EventBus
	if cfg.Kafka.Enabled() {
		prod := producer.NewEventProducer(cfg.Kafka.Brokers, cfg.Kafka.OrdersTopic, cfg.Kafka.EmailTopic)
		defer prod.Close()
		events = prod
		log.Info("kafka events enabled", zap.Strings("brokers", cfg.Kafka.Brokers))
	} else {
		log.Info("kafka events disabled")
	}

	hub := realtime.NewHub(log)
	settings := service.StoreSettings{Currency: cfg.Store.Currency, Carrier: cfg.Store.DefaultCarrier}
	fx := service.SideEffects{Events: events, Pusher: hub, Cache: cartCache}

	cartSvc := service.NewCartService(repos, settings, cartCache, log)
	orderSvc := service.NewOrderService(repos, settings, fx, log)
	paymentSvc := service.NewPaymentService(repos, service.DefaultGateways(), settings, fx, log)

	tokens := token.NewHSProvider(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Audience)

	r := router.Router(router.Deps{
		Catalog:       handlers.NewCatalogHandler(service.NewCatalogService(repos), log),
		Cart:          handlers.NewCartHandler(cartSvc, log),
		Orders:        handlers.NewOrderHandler(orderSvc, log),
		Payments:      handlers.NewPaymentHandler(paymentSvc, log),
		Notifications: handlers.NewNotificationHandler(service.NewNotificationService(repos), hub, log),
		Inventory:     handlers.NewInventoryHandler(service.NewInventoryService(repos), log),
		Reviews:       handlers.NewReviewHandler(service.NewReviewService(repos, fx, log), log),
		Tokens:        tokens,
		Cooldown:      cooldown,
		CooldownTTL:   cfg.CheckoutCooldown,
	}, log)

	cleanupSvc := cleanup.NewCleanupService(repos, cfg.NotificationRetention, cfg.CartRetention, cartCache, log)
	scheduler := cleanup.NewScheduler(cleanupSvc, log)

	cleanupCtx, cleanupCancel := context.WithCancel(context.Background())
	defer cleanupCancel()
	scheduler.Start(cleanupCtx)

	srv := &http.Server{
		Addr:              cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info("starting http server", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	<-quit
	log.Info("shutting down http server")

	scheduler.Stop()
	cleanupCancel()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("http server shutdown failed", zap.Error(err))
	}
	log.Info("http server stopped")
}
