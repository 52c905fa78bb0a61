package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	app "github.com/procureflow/backend/internal/application/procurement"
	"github.com/procureflow/backend/internal/domain/shared"
	"github.com/procureflow/backend/internal/infrastructure/auth"
	"github.com/procureflow/backend/internal/infrastructure/cache"
	"github.com/procureflow/backend/internal/infrastructure/config"
	"github.com/procureflow/backend/internal/infrastructure/event"
	"github.com/procureflow/backend/internal/infrastructure/logger"
	"github.com/procureflow/backend/internal/infrastructure/notification"
	"github.com/procureflow/backend/internal/infrastructure/persistence"
	"github.com/procureflow/backend/internal/infrastructure/storage"
	"github.com/procureflow/backend/internal/interfaces/http/handler"
	"github.com/procureflow/backend/internal/interfaces/http/router"
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

	log.Info("Starting procurement backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	// Production schemas are managed by the migrate CLI
	if cfg.App.Env != "production" {
		if err := db.AutoMigrate(); err != nil {
			log.Fatal("Failed to migrate schema", zap.Error(err))
		}
	}

	// Repositories
	rfqRepo := persistence.NewGormRFQRepository(db.DB)
	quotationRepo := persistence.NewGormQuotationRepository(db.DB)
	poRepo := persistence.NewGormPurchaseOrderRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	receiptRepo := persistence.NewGormReceiptRepository(db.DB)
	eligibilityRepo := persistence.NewGormEligibilityRepository(db.DB)

	// Idempotency store for goods receipt tokens, Redis-backed with an
	// in-memory fallback for local development
	var idempotencyStore shared.IdempotencyStore
	redisStore, err := cache.NewRedisIdempotencyStore(cache.RedisConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		if cfg.App.Env == "production" {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		log.Warn("Redis unavailable, using in-memory idempotency store", zap.Error(err))
		idempotencyStore = cache.NewInMemoryIdempotencyStore()
	} else {
		defer func() {
			_ = redisStore.Close()
		}()
		idempotencyStore = redisStore
	}

	// File store for uploaded quotation documents
	var fileStore shared.FileStore
	s3Store, err := storage.NewS3FileStore(&cfg.Storage, log)
	if err != nil {
		if cfg.App.Env == "production" {
			log.Fatal("Failed to initialize S3 file store", zap.Error(err))
		}
		log.Warn("S3 unavailable, using in-memory file store", zap.Error(err))
		fileStore = storage.NewMemoryFileStore(cfg.Storage.Bucket)
	} else {
		fileStore = s3Store
	}

	// Application services
	txManager := persistence.NewGormTransactionManager(db.DB)
	rfqService := app.NewRFQService(rfqRepo, log)
	quotationService := app.NewQuotationService(quotationRepo, rfqService, eligibilityRepo, log)
	poService := app.NewPurchaseOrderService(poRepo, log)
	invoiceService := app.NewInvoiceService(invoiceRepo, quotationRepo, eligibilityRepo, log)
	receiptService := app.NewReceiptService(receiptRepo, invoiceRepo, log)

	quotationService.SetFileStore(fileStore)
	quotationService.SetTransactionManager(txManager)
	invoiceService.SetTransactionManager(txManager)
	poService.SetIdempotencyStore(idempotencyStore)

	notifier := notification.NewLogNotifier(log)
	rfqService.SetNotifier(notifier)
	quotationService.SetNotifier(notifier)
	poService.SetNotifier(notifier)
	invoiceService.SetNotifier(notifier)

	// Event bus for notification-class consumers; state-coupled side effects
	// run inside the owning service's transaction instead
	eventBus := event.NewInMemoryEventBus(log)

	rfqService.SetEventPublisher(eventBus)
	quotationService.SetEventPublisher(eventBus)
	poService.SetEventPublisher(eventBus)
	invoiceService.SetEventPublisher(eventBus)
	receiptService.SetEventPublisher(eventBus)

	// HTTP layer
	jwtService := auth.NewJWTService(cfg.JWT)
	handlers := router.Handlers{
		RFQ:           handler.NewRFQHandler(rfqService),
		Quotation:     handler.NewQuotationHandler(quotationService),
		PurchaseOrder: handler.NewPurchaseOrderHandler(poService),
		Invoice:       handler.NewInvoiceHandler(invoiceService),
		Receipt:       handler.NewReceiptHandler(receiptService),
	}

	engine := router.NewEngine(cfg, log)
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(router.NewProcurementRoutes(handlers, jwtService, log))
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
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
