package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storedash/internal/config"
	"storedash/internal/handler"
	"storedash/internal/infra/cache"
	"storedash/internal/infra/db"
	"storedash/internal/infra/messaging"
	infraPayment "storedash/internal/infra/payment"
	infraRepo "storedash/internal/infra/repository"
	"storedash/internal/logging"
	"storedash/internal/metrics"
	"storedash/internal/server"
	"storedash/internal/usecase"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

type uuidGenerator struct{}

func (g *uuidGenerator) NewID() string {
	return uuid.NewString()
}

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

func main() {
	//.envは無くてもよい（本番は環境変数で渡す）
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Error("load .env", "err", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}
	log := logging.New(cfg.GoEnv)
	if err := cfg.RequireServer(); err != nil {
		log.Error("invalid config", "err", err)
		os.Exit(1)
	}

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		return err
	}
	if err := db.Migrate(gormDB); err != nil {
		return err
	}

	//metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	//Repository（GORM実装）生成
	txm := infraRepo.NewTxManagerGorm(gormDB)
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	storeRepo := infraRepo.NewStoreGormRepository(gormDB)
	eventRepo := infraRepo.NewWebhookEventGormRepository(gormDB)

	//外部サービス
	gateway := infraPayment.NewStripeGateway(cfg.StripeSecretKey, cfg.StripeWebhookSecret)

	var dedup usecase.EventDeduper = cache.NoopWebhookDeduper{}
	if cfg.RedisAddr != "" {
		rdb := cache.NewRedisClient(cfg.RedisAddr)
		defer rdb.Close()
		dedup = cache.NewRedisWebhookDeduper(rdb, cache.DefaultDedupTTL)
		log.Info("webhook dedup via redis", "addr", cfg.RedisAddr)
	}

	var publisher usecase.OrderEventPublisher = messaging.NoopOrderEventPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		kp := messaging.NewKafkaOrderEventPublisher(messaging.NewKafkaWriter(cfg.KafkaBrokers, cfg.KafkaOrderTopic))
		defer kp.Close()
		publisher = kp
		log.Info("order events via kafka", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaOrderTopic)
	}

	//usecaseに渡す部品
	idGen := &uuidGenerator{}
	clock := &realClock{}

	//Usecase生成
	checkoutUC := usecase.NewCheckoutUsecase(txm, gateway, idGen, usecase.CheckoutConfig{
		Currency:   cfg.StripeCurrency,
		SuccessURL: cfg.FrontendStoreURL + "/cart?success=1",
		CancelURL:  cfg.FrontendStoreURL + "/cart?canceled=1",
	}, m, log)
	webhookUC := usecase.NewWebhookUsecase(txm, eventRepo, gateway, dedup, publisher, idGen, clock, m, log)
	statusUC := usecase.NewOrderStatusUsecase(txm, publisher, idGen, clock, m, log)
	queryUC := usecase.NewOrderQueryUsecase(orderRepo, storeRepo)
	formUC := usecase.NewShipmentFormUsecase(txm, idGen)

	//Handler生成
	e := server.New(cfg, log, m, reg, server.Handlers{
		Checkout:      handler.NewCheckoutHandler(checkoutUC),
		Webhook:       handler.NewWebhookHandler(webhookUC),
		Orders:        handler.NewOrderHandler(queryUC, statusUC),
		Dashboard:     handler.NewDashboardOrderHandler(queryUC),
		ShipmentForms: handler.NewShipmentFormHandler(formUC),
	})

	return server.Run(ctx, e, listenAddr(cfg.Port), log)
}

func listenAddr(port string) string {
	if port != "" && port[0] == ':' {
		return port
	}
	return ":" + port
}
