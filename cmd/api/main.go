package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gigpay/wallet-service/internal/api"
	"github.com/gigpay/wallet-service/internal/auth"
	"github.com/gigpay/wallet-service/internal/config"
	"github.com/gigpay/wallet-service/internal/db"
	"github.com/gigpay/wallet-service/internal/logger"
	"github.com/gigpay/wallet-service/internal/metrics"
	"github.com/gigpay/wallet-service/internal/repository/postgres"
	"github.com/gigpay/wallet-service/internal/services"
	"github.com/gigpay/wallet-service/internal/worker"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Env)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	if os.Getenv("APP_MIGRATE") == "true" {
		if err := db.RunMigrations(ctx, pool); err != nil {
			log.Error("migrations", "err", err)
			os.Exit(1)
		}
	}

	metrics.Init()

	repos := postgres.NewRepositories(pool)
	wp := worker.NewPool(4)
	defer wp.Stop()

	tm := auth.NewTokenManager(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.JWTIssuer,
		15*time.Minute, 7*24*time.Hour)

	userSvc := services.NewUserService(repos.Users, repos.Candidates)
	walletSvc := services.NewWalletService(repos.Wallets, repos.Transactions)
	ledgerSvc := services.NewLedgerService(repos.Ledger, repos.AuditLogs, wp)
	payoutSvc := services.NewPayoutService(repos.Ledger, repos.Wallets, repos.Payouts, repos.AuditLogs, wp)

	r := api.NewRouter(api.Deps{
		Cfg:       cfg,
		TM:        tm,
		UserSvc:   userSvc,
		WalletSvc: walletSvc,
		LedgerSvc: ledgerSvc,
		PayoutSvc: payoutSvc,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.HTTPPort, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server", "err", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}
