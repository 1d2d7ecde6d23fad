package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	catalogapp "github.com/pharmstock/backend/internal/application/catalog"
	inventoryapp "github.com/pharmstock/backend/internal/application/inventory"
	partnerapp "github.com/pharmstock/backend/internal/application/partner"
	settingsapp "github.com/pharmstock/backend/internal/application/settings"
	settlementapp "github.com/pharmstock/backend/internal/application/settlement"
	tradeapp "github.com/pharmstock/backend/internal/application/trade"
	"github.com/pharmstock/backend/internal/domain/shared"
	"github.com/pharmstock/backend/internal/infrastructure/cache"
	"github.com/pharmstock/backend/internal/infrastructure/config"
	"github.com/pharmstock/backend/internal/infrastructure/event"
	"github.com/pharmstock/backend/internal/infrastructure/logger"
	"github.com/pharmstock/backend/internal/infrastructure/persistence"
	"github.com/pharmstock/backend/internal/interfaces/http/handler"
	"github.com/pharmstock/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("starting pharmstock backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("error closing database", zap.Error(err))
		}
	}()

	if err := persistence.AutoMigrate(db.DB); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	// Event plumbing: serializer, transactional outbox, in-process bus.
	serializer := event.NewEventSerializer()
	outboxSaver := event.NewGormOutboxEventSaver(serializer)
	outboxRepo := event.NewGormOutboxRepository(db.DB)
	bus := event.NewInMemoryEventBus(log)

	// Repositories
	companyRepo := persistence.NewGormCompanyRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	supplierRepo := persistence.NewGormSupplierRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	settingsRepo := persistence.NewGormSettingsRepository(db.DB)
	recordRepo := persistence.NewGormSettlementRecordRepository(db.DB)

	stockBatchRepo := persistence.NewGormStockBatchRepository(db.DB)
	stockBatchRepo.SetOutboxEventSaver(outboxSaver)
	purchaseOrderRepo := persistence.NewGormPurchaseOrderRepository(db.DB)
	purchaseOrderRepo.SetOutboxEventSaver(outboxSaver)
	saleOrderRepo := persistence.NewGormSaleOrderRepository(db.DB)
	saleOrderRepo.SetOutboxEventSaver(outboxSaver)

	// Settlement handlers subscribe through an idempotency wrapper. Redis
	// backs the dedupe store when reachable, with an in-process fallback.
	var idempotencyStore shared.IdempotencyStore
	redisStore, err := cache.NewRedisIdempotencyStore(cfg.Redis.Addr(), cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Warn("redis unavailable, using in-memory idempotency store", zap.Error(err))
		idempotencyStore = cache.NewInMemoryIdempotencyStore()
	} else {
		idempotencyStore = redisStore
	}
	defer func() {
		if err := idempotencyStore.Close(); err != nil {
			log.Error("error closing idempotency store", zap.Error(err))
		}
	}()

	idemConfig := shared.DefaultIdempotencyConfig()
	if cfg.Event.IdempotencyTTL > 0 {
		idemConfig.TTL = cfg.Event.IdempotencyTTL
	}
	idemMetrics := &event.IdempotencyMetrics{}

	purchaseSettlement := settlementapp.NewPurchaseOrderCompletedHandler(stockBatchRepo, recordRepo, log)
	saleSettlement := settlementapp.NewSaleOrderCompletedHandler(stockBatchRepo, recordRepo, log)
	bus.Subscribe(event.NewIdempotentHandler(purchaseSettlement, idempotencyStore, log,
		event.WithIdempotencyConfig(idemConfig),
		event.WithIdempotencyMetrics(idemMetrics),
	))
	bus.Subscribe(event.NewIdempotentHandler(saleSettlement, idempotencyStore, log,
		event.WithIdempotencyConfig(idemConfig),
		event.WithIdempotencyMetrics(idemMetrics),
	))

	processorConfig := event.DefaultOutboxProcessorConfig()
	processorConfig.BatchSize = cfg.Event.BatchSize
	processorConfig.PollInterval = cfg.Event.PollInterval
	processorConfig.CleanupEnabled = cfg.Event.CleanupEnabled
	processorConfig.CleanupRetention = cfg.Event.CleanupRetention
	processor := event.NewOutboxProcessor(outboxRepo, bus, serializer, processorConfig, log)
	if cfg.Event.ProcessorEnabled {
		if err := processor.Start(context.Background()); err != nil {
			log.Fatal("failed to start outbox processor", zap.Error(err))
		}
	}

	// Application services
	catalogService := catalogapp.NewCatalogService(companyRepo, productRepo, log)
	partnerService := partnerapp.NewPartnerService(supplierRepo, customerRepo, log)
	stockService := inventoryapp.NewStockService(stockBatchRepo, productRepo, settingsRepo, log)
	purchaseOrderService := tradeapp.NewPurchaseOrderService(purchaseOrderRepo, supplierRepo, log)
	saleOrderService := tradeapp.NewSaleOrderService(saleOrderRepo, customerRepo, stockBatchRepo, log)
	settlementService := settlementapp.NewSettlementService(recordRepo)
	settingsService := settingsapp.NewSettingsService(settingsRepo, log)

	engine := router.New(log, router.Handlers{
		Health:        handler.NewHealthHandler(db.DB),
		Catalog:       handler.NewCatalogHandler(catalogService),
		Partner:       handler.NewPartnerHandler(partnerService),
		Stock:         handler.NewStockHandler(stockService),
		PurchaseOrder: handler.NewPurchaseOrderHandler(purchaseOrderService),
		SaleOrder:     handler.NewSaleOrderHandler(saleOrderService),
		Settlement:    handler.NewSettlementHandler(settlementService),
		Settings:      handler.NewSettingsHandler(settingsService),
	})

	server := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("http server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("http server shutdown", zap.Error(err))
	}
	if cfg.Event.ProcessorEnabled {
		if err := processor.Stop(shutdownCtx); err != nil {
			log.Error("outbox processor shutdown", zap.Error(err))
		}
	}

	log.Info("stopped")
}
