package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"tmgear/internal/config"
	"tmgear/internal/handler"
	"tmgear/internal/infra/backend"
	"tmgear/internal/infra/db"
	"tmgear/internal/infra/logging"
	"tmgear/internal/infra/messaging"
	infraRepo "tmgear/internal/infra/repository"
	repo "tmgear/internal/repository"
	"tmgear/internal/server"
	"tmgear/internal/usecase"
	"tmgear/internal/validator"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
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
	//.envは無くてもよい（本番は環境変数）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.GoEnv)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	//保存先（カートKV・注文履歴）
	var (
		kvRepo      repo.KVRepository
		attemptRepo repo.CheckoutAttemptRepository
	)
	switch cfg.StorageDriver {
	case config.StoragePostgres:
		gormDB, err := db.Connect(cfg)
		if err != nil {
			return err
		}
		if err := db.Migrate(gormDB); err != nil {
			return err
		}
		kvRepo = infraRepo.NewKVGormRepository(gormDB)
		attemptRepo = infraRepo.NewCheckoutAttemptGormRepository(gormDB)
	case config.StorageRedis:
		rdb, err := db.ConnectRedis(ctx, cfg)
		if err != nil {
			return err
		}
		defer rdb.Close()
		kvRepo = infraRepo.NewKVRedisRepository(rdb)
		attemptRepo = infraRepo.NewCheckoutAttemptMemoryRepository(0)
	default:
		kvRepo = infraRepo.NewKVMemoryRepository()
		attemptRepo = infraRepo.NewCheckoutAttemptMemoryRepository(0)
	}
	logger.Info("storage ready", zap.String("driver", cfg.StorageDriver))

	//バックエンドAPI
	backendClient := backend.NewClient(cfg.BackendURL, cfg.BackendTimeout, logger)
	catalogClient := backend.NewCatalogClient(backendClient)
	orderClient := backend.NewOrderClient(backendClient)

	//注文イベント（RABBITMQ_URLがあるときだけ）
	var events usecase.OrderEventPublisher
	if cfg.RabbitMQURL != "" {
		pub, err := messaging.NewPublisher(cfg.RabbitMQURL, cfg.RabbitMQExchange, logger)
		if err != nil {
			return err
		}
		defer pub.Close()
		events = pub
	}

	//Usecase生成
	sessions := usecase.NewCartSessions(kvRepo, cfg.CartStorageKey, cfg.CartMaxSessions, logger)
	catalogUC := usecase.NewCatalogUsecase(catalogClient)
	cartUC := usecase.NewCartUsecase(sessions, catalogClient, cfg.ShippingFee)
	checkoutUC := usecase.NewCheckoutUsecase(
		sessions,
		orderClient,
		attemptRepo,
		events,
		validator.NewCheckoutValidator(),
		&uuidGenerator{},
		&realClock{},
		cfg.ShippingFee,
		logger,
	)

	//Handler生成
	e := server.New(cfg, logger, server.Handlers{
		Health:   handler.NewHealthHandler(),
		Product:  handler.NewProductHandler(catalogUC),
		Cart:     handler.NewCartHandler(cartUC),
		Checkout: handler.NewCheckoutHandler(checkoutUC),
	})

	return server.Run(ctx, e, ":"+cfg.Port, cfg.ShutdownTimeout, logger)
}
