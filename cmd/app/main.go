// File: cmd/app/main.go
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"umrah-booking-platform/internal/config"
	"umrah-booking-platform/internal/domain/ports/adapter"
	"umrah-booking-platform/internal/infra/adapters/notify"
	payAdapters "umrah-booking-platform/internal/infra/adapters/payment"
	"umrah-booking-platform/internal/infra/api/apiv1"
	pg "umrah-booking-platform/internal/infra/db/postgres"
	"umrah-booking-platform/internal/infra/logging"
	"umrah-booking-platform/internal/infra/metrics"
	red "umrah-booking-platform/internal/infra/redis"
	"umrah-booking-platform/internal/infra/sched"
	"umrah-booking-platform/internal/infra/security"
	"umrah-booking-platform/internal/infra/worker"
	"umrah-booking-platform/internal/usecase"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Warn().Msg("development mode enabled")
	}

	metrics.MustRegister()
	metrics.SetBuildInfo(version, commit)

	// ---- Postgres ----
	pool := pg.MustConnectPostgres(cfg.Database.URL)
	defer pool.Close()

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis connect failed")
	}
	defer redisClient.Close()
	locker := red.NewLocker(redisClient)
	limiter := red.NewRateLimiter(redisClient)

	// ---- Repositories ----
	bookingRepo := pg.NewBookingRepo(pool)
	paymentRepo := pg.NewPaymentRepo(pool)
	packageRepo := pg.NewPackageRepoCacheDecorator(pg.NewTravelPackageRepo(pool), redisClient)
	agentRepo := pg.NewAgentRepo(pool)
	activityRepo := pg.NewActivityRepo(pool)
	userRepo := pg.NewUserRepo(pool)

	// ---- Payment gateway ----
	var gateway adapter.PaymentGateway
	if cfg.Runtime.Dev {
		gateway = payAdapters.NewNoopPaymentGateway()
		logger.Warn().Msg("using noop payment gateway, transactions settle instantly")
	} else {
		gateway, err = payAdapters.NewPaystackGateway(
			cfg.Payment.Paystack.SecretKey,
			cfg.Payment.Paystack.BaseURL,
			cfg.Payment.Paystack.CallbackURL,
			cfg.Payment.Paystack.Timeout,
		)
		if err != nil {
			logger.Fatal().Err(err).Msg("paystack gateway init failed")
		}
	}

	// ---- Receipt notifier ----
	var notifier adapter.ReceiptNotifier
	if cfg.Notification.ReceiptURL != "" {
		notifier, err = notify.NewHTTPNotifier(cfg.Notification.ReceiptURL, cfg.Notification.Timeout)
		if err != nil {
			logger.Fatal().Err(err).Msg("receipt notifier init failed")
		}
	} else {
		notifier = notify.NewNoopNotifier()
		logger.Info().Msg("no receipt endpoint configured, receipts are dropped")
	}

	// ---- Background task pool ----
	taskPool := worker.NewPool(cfg.HTTP.Workers, logger)
	taskPool.Start(ctx)

	// ---- Use cases ----
	verifyUC := usecase.NewVerificationUseCase(
		bookingRepo, paymentRepo, packageRepo, agentRepo, activityRepo, userRepo,
		gateway, notifier, taskPool,
		cfg.Payment.Paystack.Timeout, cfg.Payment.AmountTolerancePct, logger,
	)
	checkoutUC := usecase.NewCheckoutUseCase(
		bookingRepo, paymentRepo, packageRepo, agentRepo, activityRepo, userRepo,
		gateway, cfg.Payment.Paystack.CallbackURL, "", logger,
	)
	bookingUC := usecase.NewBookingUseCase(bookingRepo, packageRepo, agentRepo, activityRepo, logger)
	statsUC := usecase.NewStatsUseCase(paymentRepo)

	// ---- HTTP API ----
	auth := apiv1.NewAuthManager(cfg.Auth.JWTSecret, cfg.Auth.InternalAPIKey, cfg.Auth.TokenTTL)
	// Paystack signs webhook deliveries with the account secret key unless a
	// dedicated webhook secret is configured.
	webhookSecret := cfg.Payment.Paystack.WebhookSecret
	if webhookSecret == "" {
		webhookSecret = cfg.Payment.Paystack.SecretKey
	}
	webhookVerifier, err := security.NewWebhookVerifier(webhookSecret)
	if err != nil {
		logger.Fatal().Err(err).Msg("webhook verifier init failed")
	}
	srv := apiv1.NewServer(verifyUC, checkoutUC, bookingUC, statsUC, auth, webhookVerifier, limiter, logger)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info().Int("port", cfg.HTTP.Port).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server stopped")
		}
	}()

	// ---- Pending payment reconciler ----
	reconciler := sched.NewPaymentReconciler(verifyUC, paymentRepo, locker, cfg.Reconciler.Interval, cfg.Reconciler.StaleAfter, logger)
	go reconciler.Start(ctx)

	// ---- DB pool stats ----
	go func() {
		t := time.NewTicker(30 * time.Second)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				st := pool.Stat()
				metrics.SetDBPoolStats(st.TotalConns(), st.IdleConns(), st.AcquiredConns())
			}
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutdown requested")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown failed")
	}
	taskPool.Stop()
	logger.Info().Msg("stopped")
}
