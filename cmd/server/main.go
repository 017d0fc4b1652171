package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/odyssey-erp/payroll-jv/internal/accounting/accounts"
	"github.com/odyssey-erp/payroll-jv/internal/accounting/mappings"
	"github.com/odyssey-erp/payroll-jv/internal/accounting/vouchers"
	"github.com/odyssey-erp/payroll-jv/internal/app"
	"github.com/odyssey-erp/payroll-jv/internal/observability"
	"github.com/odyssey-erp/payroll-jv/internal/platform/cache"
	"github.com/odyssey-erp/payroll-jv/internal/platform/db"
	"github.com/odyssey-erp/payroll-jv/internal/shared"
)

func main() {
	_ = godotenv.Load()

	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN, cfg.PGMaxConns)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	if redisClient == nil {
		logger.Warn("REDIS_ADDR not set, generation runs without the period lock")
	} else {
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}()
	}

	auditLogger := shared.NewAuditLogger(dbpool)
	metrics := observability.NewMetrics()

	accountRepo := accounts.NewRepository(dbpool)
	accountService := accounts.NewService(accountRepo)
	accountHandler := accounts.NewHandler(logger, accountService)

	mappingRepo := mappings.NewRepository(dbpool)
	mappingService := mappings.NewService(mappingRepo, accountRepo, auditLogger, logger)
	mappingHandler := mappings.NewHandler(logger, mappingService)

	voucherService := vouchers.NewService(
		vouchers.NewStore(dbpool),
		cache.NewLocker(redisClient, cfg.JVLockTTL),
		auditLogger,
		metrics,
		logger,
		vouchers.Config{AccrualLocation: cfg.JVAccrualLocation, LeavePayoutType: cfg.JVLeavePayoutType},
	)
	voucherHandler := vouchers.NewHandler(logger, voucherService)

	router := app.NewRouter(app.RouterParams{
		Logger:          logger,
		Config:          cfg,
		AccountsHandler: accountHandler,
		MappingsHandler: mappingHandler,
		VouchersHandler: voucherHandler,
		DB:              dbpool,
		Metrics:         metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
