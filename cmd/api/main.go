package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sangkips/dairy-coop-api/internal/application/service"
	"github.com/sangkips/dairy-coop-api/internal/config"
	"github.com/sangkips/dairy-coop-api/internal/domain/entity"
	"github.com/sangkips/dairy-coop-api/internal/infrastructure/database"
	"github.com/sangkips/dairy-coop-api/internal/infrastructure/lock"
	"github.com/sangkips/dairy-coop-api/internal/infrastructure/repository"
	"github.com/sangkips/dairy-coop-api/internal/presentation/http/handler"
	"github.com/sangkips/dairy-coop-api/internal/presentation/http/middleware"
	"github.com/sangkips/dairy-coop-api/internal/presentation/http/routes"
	"github.com/sangkips/dairy-coop-api/pkg/logger"
	"github.com/sangkips/dairy-coop-api/pkg/metrics"
	"github.com/sangkips/dairy-coop-api/pkg/printer"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log := logger.New(cfg.Log.Level, cfg.Log.Format)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(cfg.Metrics.Prefix, registry)

	// Connect to database
	db, err := database.NewDB(&cfg.Database, cfg.App.Debug, log)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db, log); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Sequence lock is optional; without redis the unique indexes and retries keep numbers unique
	var locker service.SequenceLocker
	if cfg.Redis.Addr != "" {
		rdb, err := lock.NewRedisClient(ctx, &cfg.Redis)
		if err != nil {
			log.Warnf("Redis unavailable, sequence allocation runs without a lock: %v", err)
		} else {
			defer rdb.Close()
			locker = lock.NewRedisSequenceLocker(rdb, cfg.Redis.SequenceLockTTL, log)
		}
	}

	// Initialize repositories
	transactor := repository.NewTransactor(db)
	categoryRepo := repository.NewCategoryRepository(db)
	unitRepo := repository.NewUnitRepository(db)
	itemRepo := repository.NewItemRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)
	voucherRepo := repository.NewVoucherRepository(db)
	stockRepo := repository.NewStockTransactionRepository(db)
	purchaseRepo := repository.NewPurchaseRepository(db)
	salesRepo := repository.NewSalesTransactionRepository(db)
	sequenceRepo := repository.NewSequenceRepository(db)
	reportRepo := repository.NewReportRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Core engines
	sequences := service.NewSequenceAllocator(sequenceRepo, locker, log, m)
	stock := service.NewStockLedger(transactor, itemRepo, stockRepo, log, m)
	composer := service.NewComposer(itemRepo, cfg.Business.HomeState)
	poster := service.NewPoster(transactor, ledgerRepo, voucherRepo, sequences, log, m)
	policy := service.NewPostingPolicy(cfg.Business.VoucherFailurePolicy, transactor, log, m)

	// Seed default data
	if err := poster.SeedStandardLedgers(ctx); err != nil {
		log.Warnf("Failed to seed standard ledgers: %v", err)
	}

	// Initialize services
	categoryService := service.NewCategoryService(categoryRepo, itemRepo)
	unitService := service.NewUnitService(unitRepo)
	itemService := service.NewItemService(transactor, itemRepo, categoryRepo, unitRepo, stockRepo, stock, poster, sequences)
	supplierService := service.NewSupplierService(transactor, supplierRepo, ledgerRepo, sequences, poster, policy)
	customerService := service.NewCustomerService(transactor, customerRepo, ledgerRepo, sequences, poster, policy)
	purchaseService := service.NewPurchaseService(transactor, purchaseRepo, supplierRepo, itemRepo, stockRepo, composer, stock, poster, sequences, policy)
	salesService := service.NewSalesService(transactor, salesRepo, customerRepo, stockRepo, voucherRepo, composer, stock, poster, sequences)
	ledgerService := service.NewLedgerService(ledgerRepo, voucherRepo, poster)
	reportService := service.NewReportService(ledgerRepo, reportRepo, stock)

	// Initialize thermal printer
	thermalPrinter, err := printer.New(cfg.Printer.Type, cfg.Printer.USBPath, cfg.Printer.Address)
	if err != nil {
		log.Warnf("Failed to initialize printer: %v", err)
		thermalPrinter = printer.NewNullPrinter()
	}
	printerService := service.NewPrinterService(thermalPrinter, cfg.Printer.Type, cfg.Printer.Width, entity.ReceiptHeader{
		BusinessName: cfg.Printer.BusinessName,
		Address:      cfg.Printer.BusinessAddr,
		Phone:        cfg.Printer.Phone,
		GSTIN:        cfg.Printer.GSTIN,
	}, salesRepo, purchaseRepo, log)

	// Initialize handlers
	handlers := &routes.Handlers{
		Item:     handler.NewItemHandler(itemService),
		Category: handler.NewCategoryHandler(categoryService),
		Unit:     handler.NewUnitHandler(unitService),
		Stock:    handler.NewStockHandler(stock, purchaseService),
		Sales:    handler.NewSalesHandler(salesService),
		Supplier: handler.NewSupplierHandler(supplierService),
		Customer: handler.NewCustomerHandler(customerService),
		Ledger:   handler.NewLedgerHandler(ledgerService),
		Report:   handler.NewReportHandler(reportService),
		Printer:  handler.NewPrinterHandler(printerService),
	}

	rateLimiter := middleware.NewClientRateLimiter(rateLimiterConfig(&cfg.RateLimit))
	go rateLimiter.Run(ctx.Done())

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		Cfg:             cfg,
		Logger:          log,
		Metrics:         m,
		Gatherer:        registry,
		RateLimiter:     rateLimiter,
		IdempotencyRepo: idempotencyRepo,
	})

	// Get port from environment or use default
	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof("Starting %s server on port %s (env %s)", cfg.App.Name, port, cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Server shutdown failed: %v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// rateLimiterConfig turns "requests per duration seconds" into a token bucket
func rateLimiterConfig(cfg *config.RateLimitConfig) middleware.RateLimiterConfig {
	rl := middleware.DefaultRateLimiterConfig()
	if cfg.Requests > 0 && cfg.Duration > 0 {
		rl.RequestsPerSecond = float64(cfg.Requests) / float64(cfg.Duration)
		rl.BurstSize = cfg.Requests
	}
	return rl
}
