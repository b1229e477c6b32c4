package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ledgerapp "github.com/fieldsale/backend/internal/application/ledger"
	reportapp "github.com/fieldsale/backend/internal/application/report"
	tradeapp "github.com/fieldsale/backend/internal/application/trade"
	"github.com/fieldsale/backend/internal/domain/shared"
	"github.com/fieldsale/backend/internal/infrastructure/cache"
	"github.com/fieldsale/backend/internal/infrastructure/config"
	"github.com/fieldsale/backend/internal/infrastructure/event"
	"github.com/fieldsale/backend/internal/infrastructure/logger"
	"github.com/fieldsale/backend/internal/infrastructure/persistence"
	"github.com/fieldsale/backend/internal/interfaces/http/dto"
	"github.com/fieldsale/backend/internal/interfaces/http/handler"
	"github.com/fieldsale/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting fieldsale backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	if err := db.AutoMigrate(); err != nil {
		log.Fatal("Failed to migrate database schema", zap.Error(err))
	}

	// Idempotency store: Redis when configured, otherwise process-local
	var idempotencyStore shared.IdempotencyStore
	if cfg.Redis.Enabled {
		redisStore, err := cache.NewRedisIdempotencyStore(cache.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		idempotencyStore = redisStore
		log.Info("Redis idempotency store connected", zap.String("addr", cfg.Redis.Addr()))
	} else {
		idempotencyStore = cache.NewInMemoryIdempotencyStore()
		log.Info("Using in-memory idempotency store")
	}
	defer func() {
		if err := idempotencyStore.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
	}()

	// Repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	batchRepo := persistence.NewGormBatchRepository(db.DB)
	assignmentRepo := persistence.NewGormAssignmentRepository(db.DB)
	recallRepo := persistence.NewGormRecallRepository(db.DB)
	reportRepo := persistence.NewGormReportRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Event bus with the audit trail subscribed to everything
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(event.NewAuditLogHandler(log))

	// Application services
	batchService := ledgerapp.NewBatchService(batchRepo, recallRepo, productRepo)
	batchService.SetEventPublisher(eventBus)

	settlementService := tradeapp.NewSettlementService(txScope, productRepo, idempotencyStore)
	settlementService.SetIdempotencyTTL(cfg.Returns.IdempotencyTTL)
	settlementService.SetEventPublisher(eventBus)

	invoiceService := tradeapp.NewInvoiceService(txScope, productRepo)
	invoiceService.SetDefaultMargins(
		decimal.NewFromFloat(cfg.Pricing.DefaultSalesmanMarginPct),
		decimal.NewFromFloat(cfg.Pricing.DefaultShopMarginPct),
	)
	invoiceService.SetEventPublisher(eventBus)

	returnService := tradeapp.NewReturnService(txScope, productRepo, cfg.Returns.Rates())
	returnService.SetEventPublisher(eventBus)

	traceabilityService := reportapp.NewTraceabilityService(
		batchRepo, assignmentRepo, recallRepo, productRepo, reportRepo)

	// HTTP engine and routes
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := dto.RegisterCustomValidations(); err != nil {
		log.Fatal("Failed to register request validations", zap.Error(err))
	}
	engine := gin.New()
	engine.Use(logger.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))

	r := router.NewRouter(engine, router.Handlers{
		Product:    handler.NewProductHandler(productRepo),
		Batch:      handler.NewBatchHandler(batchService),
		Settlement: handler.NewSettlementHandler(settlementService),
		Invoice:    handler.NewInvoiceHandler(invoiceService),
		Return:     handler.NewReturnHandler(returnService),
		Report:     handler.NewReportHandler(traceabilityService),
	})
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
	}
	log.Info("Server stopped")
}
