package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"swiftcart-backend/internal/cache"
	"swiftcart-backend/internal/config"
	"swiftcart-backend/internal/handlers"
	"swiftcart-backend/internal/observability"
	"swiftcart-backend/internal/payment"
	"swiftcart-backend/internal/repository/ddb"
	"swiftcart-backend/internal/service"

	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	cfg := config.MustLoad()

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	watcher, err := config.NewWatcher(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to start config watcher", zap.Error(err))
	}
	defer watcher.Stop()

	awsCfg, err := awsConfig.LoadDefaultConfig(ctx, awsConfig.WithRegion(cfg.Database.Region))
	if err != nil {
		logger.Fatal("Failed to load AWS config", zap.Error(err))
	}
	dbClient := dynamodb.NewFromConfig(awsCfg)
	ddbCfg := ddb.Config{TableName: cfg.Database.TableName, IndexName: cfg.Database.IndexName}

	products := ddb.NewProductRepository(dbClient, ddbCfg)
	orders := ddb.NewOrderRepository(dbClient, ddbCfg)
	users := ddb.NewUserRepository(dbClient, ddbCfg)
	reviews := ddb.NewReviewRepository(dbClient, ddbCfg)
	coupons := ddb.NewCouponRepository(dbClient, ddbCfg)

	collector := observability.NewCollector(cfg.Metrics.Namespace)

	var store cache.Cache
	if cfg.Redis.Addr != "" {
		store, err = cache.NewRedis(cache.RedisConfig{
			Addr:        cfg.Redis.Addr,
			Password:    cfg.Redis.Password,
			DB:          cfg.Redis.DB,
			DialTimeout: cfg.Redis.DialTimeout,
		}, logger)
		if err != nil {
			logger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		logger.Info("Cache backend: redis", zap.String("addr", cfg.Redis.Addr))
	} else {
		store = cache.NewMemory()
		logger.Warn("Cache backend: in-process memory, entries are lost on restart")
	}
	if cfg.Metrics.Enabled {
		store = observability.InstrumentCache(store, collector)
	}

	dispatcher := cache.NewDispatcher(store, logger)
	ttl := cfg.Cache.TTL

	gateway := payment.NewHTTPGateway(cfg.Payment.GatewayURL, cfg.Payment.APIKey, cfg.Payment.Timeout, logger)

	productSvc := service.NewProductService(products, reviews, users, store, dispatcher, ttl, cfg.Catalog.PageSize, cfg.Catalog.LatestLimit, logger)
	reviewSvc := service.NewReviewService(reviews, products, users, store, dispatcher, ttl, logger)
	orderSvc := service.NewOrderService(orders, products, users, store, dispatcher, ttl, logger)
	userSvc := service.NewUserService(users, logger)
	couponSvc := service.NewCouponService(coupons, logger)
	statsSvc := service.NewStatsService(products, orders, users, store, ttl, logger)
	paymentSvc := service.NewPaymentService(gateway, logger)

	router := handlers.NewRouter(cfg, logger, collector, users, handlers.Handlers{
		Products: handlers.NewProductHandler(productSvc, reviewSvc, collector),
		Orders:   handlers.NewOrderHandler(orderSvc, collector),
		Users:    handlers.NewUserHandler(userSvc),
		Coupons:  handlers.NewCouponHandler(couponSvc),
		Payments: handlers.NewPaymentHandler(paymentSvc),
		Stats:    handlers.NewStatsHandler(statsSvc),
	})

	srv := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	watcher.OnReload(func(next *config.Config) {
		logger.Info("Configuration reloaded",
			zap.String("environment", string(next.Environment)),
			zap.Duration("cache_ttl", next.Cache.TTL),
		)
	})

	go func() {
		logger.Info("Starting server",
			zap.String("address", cfg.Server.Address),
			zap.String("environment", string(cfg.Environment)),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", zap.Error(err))
	}
	logger.Info("Server stopped")
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return nil, err
	}

	var zapCfg zap.Config
	if cfg.IsProduction() {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	return zapCfg.Build()
}
