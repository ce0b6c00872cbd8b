package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	financeapp "github.com/NhieuThienAn/CoCo-Shop-sub003/internal/application/finance"
	inventoryapp "github.com/NhieuThienAn/CoCo-Shop-sub003/internal/application/inventory"
	tradeapp "github.com/NhieuThienAn/CoCo-Shop-sub003/internal/application/trade"
	"github.com/NhieuThienAn/CoCo-Shop-sub003/internal/domain/finance"
	"github.com/NhieuThienAn/CoCo-Shop-sub003/internal/infrastructure/auth"
	"github.com/NhieuThienAn/CoCo-Shop-sub003/internal/infrastructure/cache"
	"github.com/NhieuThienAn/CoCo-Shop-sub003/internal/infrastructure/config"
	"github.com/NhieuThienAn/CoCo-Shop-sub003/internal/infrastructure/logger"
	"github.com/NhieuThienAn/CoCo-Shop-sub003/internal/infrastructure/persistence"
	"github.com/NhieuThienAn/CoCo-Shop-sub003/internal/interfaces/http/handler"
	"github.com/NhieuThienAn/CoCo-Shop-sub003/internal/interfaces/http/router"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log := logger.New(cfg.Log)
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting CoCo Shop backend",
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

	// Schema is managed by cmd/migrate in production; AutoMigrate keeps
	// development setups frictionless.
	if !cfg.IsProduction() {
		if err := db.AutoMigrate(); err != nil {
			log.Fatal("Auto migration failed", zap.Error(err))
		}
	}

	// Repositories
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	couponRepo := persistence.NewGormCouponRepository(db.DB)
	stockTxRepo := persistence.NewGormStockTransactionRepository(db.DB)
	receiptRepo := persistence.NewGormStockReceiptRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)
	bankTxnRepo := persistence.NewGormBankTransactionRepository(db.DB)
	matchRepo := persistence.NewGormReconciliationMatchRepository(db.DB)

	// Transaction scopes
	inventoryScope := persistence.NewGormInventoryTransactionScope(db.DB)
	tradeScope := persistence.NewGormTradeTransactionScope(db.DB)
	financeScope := persistence.NewGormFinanceTransactionScope(db.DB)

	// Webhook idempotency store
	var idempotencyStore finance.IdempotencyStore
	if cfg.Redis.Enabled {
		redisStore, err := cache.NewRedisIdempotencyStore(cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		idempotencyStore = redisStore
		log.Info("Redis idempotency store connected", zap.String("addr", cfg.Redis.Addr()))
	} else {
		memStore := cache.NewInMemoryIdempotencyStore()
		defer memStore.Close()
		idempotencyStore = memStore
		log.Warn("Using in-memory idempotency store, webhook dedup is per-instance only")
	}

	// Application services
	checkoutService := tradeapp.NewCheckoutService(tradeScope, log)
	orderService := tradeapp.NewOrderService(orderRepo, tradeScope, log)
	couponService := tradeapp.NewCouponService(couponRepo)
	inventoryService := inventoryapp.NewInventoryService(stockTxRepo, inventoryScope)
	receiptService := inventoryapp.NewStockReceiptService(receiptRepo, inventoryScope)
	paymentService := financeapp.NewPaymentService(paymentRepo, financeScope, log)
	callbackService := financeapp.NewPaymentCallbackService(idempotencyStore, financeScope, log)
	reconciliationService := financeapp.NewReconciliationService(bankTxnRepo, matchRepo, paymentRepo, financeScope, log)

	jwtService := auth.NewJWTService(cfg.JWT)

	engine := router.New(router.Dependencies{
		Config:     cfg,
		Logger:     log,
		JWTService: jwtService,
		HealthPing: db.Ping,
	}, router.Handlers{
		Order:          handler.NewOrderHandler(checkoutService, orderService),
		Coupon:         handler.NewCouponHandler(couponService),
		Inventory:      handler.NewInventoryHandler(inventoryService),
		Receipt:        handler.NewStockReceiptHandler(receiptService),
		Payment:        handler.NewPaymentHandler(paymentService, callbackService),
		Reconciliation: handler.NewReconciliationHandler(reconciliationService),
	})

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Invalid trusted proxies", zap.Error(err))
		}
	}

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
