package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/odyssey-erp/payroll-jv/cmd/jvctl/cli"
	"github.com/odyssey-erp/payroll-jv/internal/accounting/vouchers"
	"github.com/odyssey-erp/payroll-jv/internal/app"
	"github.com/odyssey-erp/payroll-jv/internal/platform/cache"
	"github.com/odyssey-erp/payroll-jv/internal/platform/db"
	"github.com/odyssey-erp/payroll-jv/internal/shared"
)

func main() {
	os.Exit(run())
}

func run() int {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		return cli.ExitFailure
	}
	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN, 2)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		return cli.ExitFailure
	}
	defer dbpool.Close()

	var locker *cache.Locker
	if !app.InTestMode() {
		redisClient, err := cache.New(ctx, cfg.RedisAddr)
		if err != nil {
			logger.Error("connect redis", slog.Any("error", err))
			return cli.ExitFailure
		}
		if redisClient != nil {
			defer func() { _ = redisClient.Close() }()
		}
		locker = cache.NewLocker(redisClient, cfg.JVLockTTL)
	}

	service := vouchers.NewService(
		vouchers.NewStore(dbpool),
		locker,
		shared.NewAuditLogger(dbpool),
		nil,
		logger,
		vouchers.Config{AccrualLocation: cfg.JVAccrualLocation, LeavePayoutType: cfg.JVLeavePayoutType},
	)
	c, err := cli.NewVoucherCLI(service)
	if err != nil {
		logger.Error("build cli", slog.Any("error", err))
		return cli.ExitFailure
	}
	return c.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
}
